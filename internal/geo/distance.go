// Package geo provides the great-circle distance, unit conversion, and
// bounding-box primitives shared by every downstream component that
// reasons about vessel position.
package geo

import "math"

// EarthRadiusKm is the spherical-Earth approximation radius used by every
// distance calculation in this package. The system does not attempt a
// geodesic (ellipsoidal) model.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers using the haversine formula. Symmetric: HaversineKm(a, b) ==
// HaversineKm(b, a). Returns 0 for identical points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HaversineNM returns the great-circle distance in nautical miles.
func HaversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	return KmToNauticalMiles(HaversineKm(lat1, lon1, lat2, lon2))
}

// HaversineMeters returns the great-circle distance in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineKm(lat1, lon1, lat2, lon2) * 1000
}

// NauticalMilesToKm converts nautical miles to kilometers.
func NauticalMilesToKm(nm float64) float64 {
	return nm * 1.852
}

// KmToNauticalMiles converts kilometers to nautical miles.
func KmToNauticalMiles(km float64) float64 {
	return km / 1.852
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundingBox is an axis-aligned lat/lon box, inclusive on all four edges.
type BoundingBox struct {
	LatMin float64
	LonMin float64
	LatMax float64
	LonMax float64
}

// Contains reports whether (lat, lon) falls within the box, inclusive of
// the boundary.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// BoxAroundNM returns the axis-aligned box of the given radius (in
// nautical miles) around (lat, lon). Longitude degrees are widened by
// 1/cos(lat) to account for meridian convergence; this is an
// approximation adequate for search-radius pruning, not for precise
// containment (callers should re-check with HaversineNM for that).
func BoxAroundNM(lat, lon, radiusNM float64) BoundingBox {
	radiusKm := NauticalMilesToKm(radiusNM)
	latDelta := radiusKm / 111.32
	lonDelta := latDelta
	if cos := math.Cos(toRadians(lat)); cos > 0.01 {
		lonDelta = latDelta / cos
	}
	return BoundingBox{
		LatMin: lat - latDelta,
		LatMax: lat + latDelta,
		LonMin: lon - lonDelta,
		LonMax: lon + lonDelta,
	}
}

// IsNullIsland reports whether a coordinate pair is exactly (0, 0) — the
// AIS placeholder for "no fix", never a real vessel position. No tolerance
// around the origin is applied.
func IsNullIsland(lat, lon float64) bool {
	return lat == 0 && lon == 0
}

// ValidCoordinates reports whether lat/lon fall within their legal ranges.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NearestPointOnSegment returns the great-circle distance in km from point
// p to the closest point on the segment [a, b], approximated by projecting
// onto the segment in an equirectangular local frame around the segment's
// midpoint. This is adequate for the short coastal/STS-route segments the
// zone index uses; it is not a substitute for a true geodesic projection.
func NearestPointOnSegment(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	midLat := (aLat + bLat) / 2
	cosLat := math.Cos(toRadians(midLat))

	ax, ay := aLon*cosLat, aLat
	bx, by := bLon*cosLat, bLat
	px, py := pLon*cosLat, pLat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy

	var t float64
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	closestLon := aLon + t*(bLon-aLon)
	closestLat := aLat + t*(bLat-aLat)
	return HaversineKm(pLat, pLon, closestLat, closestLon)
}
