// Package geo provides the spherical geometry primitives used by the
// trajectory, conflict, and hotspot passes.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// Point is a position in signed decimal degrees.
// Latitude is positive north, longitude positive east.
type Point struct {
	Lat float64
	Lon float64
}

// GreatCircleNM returns the haversine great-circle distance between a and b
// in nautical miles. The asin argument is clamped to 1 to tolerate
// floating-point drift on antipodal or identical points.
func GreatCircleNM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lon1 := a.Lon * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lon2 := b.Lon * math.Pi / 180

	sinDLat := math.Sin((lat2 - lat1) / 2)
	sinDLon := math.Sin((lon2 - lon1) / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * EarthRadiusNM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Interpolate returns the linear chord interpolation between a and b at
// fraction t in [0, 1]. This is a chord, not a true great-circle arc; it is
// fine over the short sample intervals used here but degrades over long
// oceanic legs, so callers should only use the result for grid bucketing.
func Interpolate(a, b Point, t float64) Point {
	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// Bucket maps value onto the integer grid with the given step, flooring
// toward negative infinity so that e.g. -0.5 at step 1 lands in bucket -1.
func Bucket(value, step float64) int {
	return int(math.Floor(value / step))
}
