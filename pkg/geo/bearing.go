package geo

import "math"

// TurnAngle returns the signed turn, in degrees normalized to
// [0, 360), that a traveler makes going from segment (p1 -> p2) into
// segment (p2 -> p3). 0/360 is straight through, 180 is a U-turn.
// Uses the same equirectangular planar projection as
// EquirectangularDist rather than a full Mercator transform — accurate
// enough for turn classification at road-segment scale.
func TurnAngle(lat1, lon1, lat2, lon2, lat3, lon3 float64) float64 {
	bearingIn := bearing(lat1, lon1, lat2, lon2)
	bearingOut := bearing(lat2, lon2, lat3, lon3)

	angle := bearingOut - bearingIn
	for angle < 0 {
		angle += 360
	}
	for angle >= 360 {
		angle -= 360
	}
	return angle
}

// bearing returns the planar bearing in degrees [0, 360) from (a) to
// (b), measured clockwise from north.
func bearing(aLat, aLon, bLat, bLon float64) float64 {
	dx, dy := planarOffset(aLat, aLon, bLat, bLon)

	angle := math.Atan2(dx, dy) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return angle
}
