package sanctions

import (
	"testing"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func TestNormalizeNameStripsPrefixAndWhitespace(t *testing.T) {
	if got := NormalizeName("  mv   Shadow   Runner "); got != "SHADOW RUNNER" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestCheckIMOExactMatch(t *testing.T) {
	idx := NewIndex([]model.SanctionedVesselRecord{{IMO: "9074729", Name: "MV SHADOW"}})
	r, ok := idx.CheckIMO("9074729")
	if !ok || r.Name != "MV SHADOW" {
		t.Fatalf("expected exact IMO match, got %+v ok=%v", r, ok)
	}
}

func TestCheckMMSIExactMatch(t *testing.T) {
	idx := NewIndex([]model.SanctionedVesselRecord{{MMSI: "227123456", Name: "MV SHADOW"}})
	if _, ok := idx.CheckMMSI("227123456"); !ok {
		t.Fatal("expected exact MMSI match")
	}
}

func TestCheckNameFuzzyMatch(t *testing.T) {
	idx := NewIndex([]model.SanctionedVesselRecord{{Name: "MV SHADOW RUNNER", NormalizedName: "SHADOW RUNNER"}})
	if _, ok := idx.CheckName("SHADOW RUNNR"); !ok {
		t.Fatal("expected a near-miss spelling to fuzzy match")
	}
}

func TestCheckNameRejectsUnrelated(t *testing.T) {
	idx := NewIndex([]model.SanctionedVesselRecord{{Name: "MV SHADOW RUNNER", NormalizedName: "SHADOW RUNNER"}})
	if _, ok := idx.CheckName("PACIFIC TRADER"); ok {
		t.Fatal("did not expect an unrelated name to match")
	}
}

func TestRemoveDeletesAllIndexEntries(t *testing.T) {
	idx := NewIndex([]model.SanctionedVesselRecord{{IMO: "9074729", MMSI: "227123456", NormalizedName: "SHADOW"}})
	idx.Remove("9074729")
	if _, ok := idx.CheckIMO("9074729"); ok {
		t.Fatal("expected IMO entry removed")
	}
	if _, ok := idx.CheckMMSI("227123456"); ok {
		t.Fatal("expected MMSI entry removed alongside IMO")
	}
}
