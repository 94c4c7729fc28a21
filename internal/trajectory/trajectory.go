// Package trajectory expands a flight plan and its route into a sampled 4D
// trajectory.
package trajectory

import (
	"fmt"
	"math"

	"flight_insight/internal/flightplan"
	"flight_insight/internal/geo"
)

// DefaultSampleSec is the default sample cadence.
const DefaultSampleSec = 60

// Point is one trajectory sample. Altitude and speed are constant per
// flight in this core (cruise values).
type Point struct {
	ACID       string  `json:"acid"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	AltitudeFt int     `json:"altitude_ft"`
	Timestamp  int64   `json:"timestamp"`
	SpeedKt    int     `json:"speed_kt"`
}

// Build samples a piecewise-linear great-circle path at the given cadence.
//
// Total flight time is ceil(total_nm / max(1, speed) * 3600) seconds and a
// point is emitted at every multiple of sampleSec in [0, T] inclusive, so
// any non-degenerate route yields at least two points. Position advances
// along the polyline by chord interpolation; once past the final segment it
// clamps to the final waypoint.
func Build(fp *flightplan.FlightPlan, points []geo.Point, sampleSec int) ([]Point, error) {
	if sampleSec <= 0 {
		return nil, fmt.Errorf("sample cadence must be positive, got %d", sampleSec)
	}

	distances := make([]float64, 0, len(points)-1)
	totalNM := 0.0
	for i := 0; i+1 < len(points); i++ {
		d := geo.GreatCircleNM(points[i], points[i+1])
		distances = append(distances, d)
		totalNM += d
	}
	if totalNM <= 0 {
		return nil, fmt.Errorf("route distance must be positive")
	}

	speedKt := fp.SpeedKt
	if speedKt < 1 {
		speedKt = 1
	}
	totalSec := int64(math.Ceil(totalNM / float64(speedKt) * 3600))

	var (
		trajectory       []Point
		segmentIndex     int
		segmentProgress  float64
		segmentRemaining = distances[0]
	)

	for elapsed := int64(0); elapsed <= totalSec; elapsed += int64(sampleSec) {
		for segmentIndex < len(distances) && segmentRemaining <= 0 {
			segmentIndex++
			if segmentIndex < len(distances) {
				segmentRemaining = distances[segmentIndex]
				segmentProgress = 0
			}
		}

		var pos geo.Point
		if segmentIndex >= len(distances) {
			pos = points[len(points)-1]
		} else {
			segmentLen := math.Max(1e-6, distances[segmentIndex])
			t := math.Min(1, segmentProgress/segmentLen)
			pos = geo.Interpolate(points[segmentIndex], points[segmentIndex+1], t)
		}

		trajectory = append(trajectory, Point{
			ACID:       fp.ACID,
			Lat:        pos.Lat,
			Lon:        pos.Lon,
			AltitudeFt: fp.AltitudeFt,
			Timestamp:  fp.DepartureTime + elapsed,
			SpeedKt:    fp.SpeedKt,
		})

		// Advance by the distance covered in one sample interval. No
		// residual is carried across segment boundaries; the chord
		// approximation makes it immaterial to downstream bucketing.
		advanceNM := float64(speedKt) * float64(sampleSec) / 3600
		segmentProgress += advanceNM
		segmentRemaining -= advanceNM
	}

	return trajectory, nil
}
