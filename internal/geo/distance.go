// Package geo computes great-circle distances between track points.
package geo

import "math"

// EarthRadiusKm is the sphere radius used for track distances.
const EarthRadiusKm = 6396.0

// Distance returns the haversine distance in kilometres between two points
// given in decimal degrees.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	lon1 = deg2rad(lon1)
	lat1 = deg2rad(lat1)
	lon2 = deg2rad(lon2)
	lat2 = deg2rad(lat2)
	dlon := lon2 - lon1
	dlat := lat2 - lat1

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	// Rounding can push sqrt(a) slightly past 1 for antipodal points.
	c := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	return EarthRadiusKm * c
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}
