// Package identity validates and classifies the maritime identifiers —
// MMSI, IMO number, and flag state — that every downstream record keys on.
package identity

import (
	"regexp"
	"strconv"
)

var mmsiPattern = regexp.MustCompile(`^\d{9}$`)

// invalidMMSIs are known placeholder/test values broadcast by misconfigured
// or spoofed transponders; a position reporting one of these is never a
// real vessel fix.
var invalidMMSIs = map[string]bool{
	"000000000": true,
	"111111111": true,
	"123456789": true,
	"999999999": true,
	"000000001": true,
	"888888888": true,
	"012345678": true,
}

// MMSIKind classifies an MMSI by the station type implied by its leading
// digits, per ITU-R M.585.
type MMSIKind int

const (
	MMSIKindVessel MMSIKind = iota
	MMSIKindCoastStation
	MMSIKindSARAircraft
	MMSIKindAuxiliaryCraft
	MMSIKindInvalid
)

// ClassifyMMSI returns the station kind implied by mmsi's leading digits.
// Anything other than exactly nine digits is MMSIKindInvalid; placeholder
// values are not rejected here — ValidateMMSI does that.
func ClassifyMMSI(mmsi string) MMSIKind {
	if !mmsiPattern.MatchString(mmsi) {
		return MMSIKindInvalid
	}
	switch {
	case mmsi[0:2] == "00":
		return MMSIKindCoastStation
	case mmsi[0:3] == "111":
		return MMSIKindSARAircraft
	case mmsi[0:2] == "98":
		return MMSIKindAuxiliaryCraft
	default:
		return MMSIKindVessel
	}
}

// ValidateMMSI reports whether mmsi is a well-formed, non-placeholder
// 9-digit maritime identifier. It does not confirm the MID prefix maps to
// a known flag state — call CountryForMID separately for that.
func ValidateMMSI(mmsi string) bool {
	if !mmsiPattern.MatchString(mmsi) {
		return false
	}
	if invalidMMSIs[mmsi] {
		return false
	}
	return true
}

// MIDOf returns the 3-digit Maritime Identification Digits carried in
// mmsi. A vessel MMSI carries them in its first three digits; coast-station
// (00) and auxiliary-craft (98) MMSIs carry them after their two-digit
// prefix, and SAR-aircraft (111) MMSIs after their three-digit prefix.
func MIDOf(mmsi string) string {
	if len(mmsi) < 3 {
		return ""
	}
	switch ClassifyMMSI(mmsi) {
	case MMSIKindCoastStation, MMSIKindAuxiliaryCraft:
		if len(mmsi) < 5 {
			return ""
		}
		return mmsi[2:5]
	case MMSIKindSARAircraft:
		return mmsi[3:6]
	default:
		return mmsi[0:3]
	}
}

// FlagCountry returns the flag country implied by mmsi's MID, and whether
// one was found.
func FlagCountry(mmsi string) (string, bool) {
	mid := MIDOf(mmsi)
	if mid == "" {
		return "", false
	}
	return CountryForMID(mid)
}

// imoCheckDigit reports whether digits[6] is the IMO check digit of the
// first six digits: their weighted sum (7,6,5,4,3,2), mod 10.
func imoCheckDigit(digits [7]int) bool {
	sum := 0
	weights := [6]int{7, 6, 5, 4, 3, 2}
	for i, w := range weights {
		sum += digits[i] * w
	}
	return sum%10 == digits[6]
}

var imoPattern = regexp.MustCompile(`^\d{7}$`)

// ValidateIMO reports whether imo is a well-formed 7-digit IMO ship
// identification number with a valid check digit.
func ValidateIMO(imo string) bool {
	if !imoPattern.MatchString(imo) {
		return false
	}
	var digits [7]int
	for i := 0; i < 7; i++ {
		d, err := strconv.Atoi(string(imo[i]))
		if err != nil {
			return false
		}
		digits[i] = d
	}
	return imoCheckDigit(digits)
}
