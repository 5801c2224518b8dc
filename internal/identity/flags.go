package identity

// flagsOfConvenience are registries widely used for low-oversight vessel
// registration — not inherently suspicious on their own, but a weighted
// input to downstream risk scoring.
var flagsOfConvenience = map[string]bool{
	"Panama":             true,
	"Liberia":            true,
	"Marshall Islands":   true,
	"Malta":              true,
	"Bahamas":            true,
	"Cyprus":             true,
	"Antigua and Barbuda": true,
	"Saint Vincent and the Grenadines": true,
	"Vanuatu":            true,
	"Comoros":            true,
	"Cambodia":           true,
	"Belize":             true,
}

// shadowFleetFlags are registries with an outsized, documented concentration
// of sanctions-evading tanker traffic. Only Comoros also appears in
// flagsOfConvenience — a flag can carry elevated shadow-fleet risk without
// being a classic open registry.
var shadowFleetFlags = map[string]bool{
	"Gabon":      true,
	"Cameroon":   true,
	"San Marino": true,
	"Comoros":    true,
	"Cook Islands": true,
	"Palau":      true,
	"Tanzania":   true,
	"Eswatini":   true,
}

// IsFlagOfConvenience reports whether country is a widely used open
// registry.
func IsFlagOfConvenience(country string) bool {
	return flagsOfConvenience[country]
}

// IsShadowFleetFlag reports whether country shows a documented
// concentration of sanctions-evading tanker registrations.
func IsShadowFleetFlag(country string) bool {
	return shadowFleetFlags[country]
}
