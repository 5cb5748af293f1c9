// Package geo implements the distance math behind "nearby" queries.
// Radius filtering runs in-process over pre-filtered rows so it works the
// same against Postgres and the sqlite test database.
package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points
// (haversine formula). Inputs are degrees, longitude first.
func DistanceKm(lng1, lat1, lng2, lat2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
