package identity

import "testing"

func TestCountryForMIDKnown(t *testing.T) {
	country, ok := CountryForMID("636")
	if !ok || country != "Liberia" {
		t.Fatalf("expected Liberia, got %q (ok=%v)", country, ok)
	}
}

func TestCountryForMIDUnknown(t *testing.T) {
	if _, ok := CountryForMID("999"); ok {
		t.Fatal("expected unassigned MID to report not-found")
	}
}
