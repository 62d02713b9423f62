package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// EquirectangularDist returns an approximate distance in meters.
// ~3x faster than Haversine; accurate to <0.1% at Singapore's latitude (~1.3Â°N).
// Use for candidate filtering and comparisons, not for final edge weights.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x, y := planarOffset(lat1, lon1, lat2, lon2)
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// planarOffset returns the equirectangular (x, y) offset in radians
// from (a) to (b), the flat-earth projection EquirectangularDist and
// geo.bearing both build on.
func planarOffset(aLat, aLon, bLat, bLon float64) (x, y float64) {
	x = (bLon - aLon) * math.Cos((aLat+bLat)/2*math.Pi/180) * math.Pi / 180
	y = (bLat - aLat) * math.Pi / 180
	return x, y
}
