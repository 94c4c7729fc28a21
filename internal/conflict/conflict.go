// Package conflict detects pairwise separation violations over sampled
// trajectories and coalesces them into conflict events.
package conflict

import (
	"math"
	"sort"

	"flight_insight/internal/geo"
	"flight_insight/internal/trajectory"
)

// Separation minima. Two aircraft are in conflict at an instant when both
// distances are strictly below these thresholds.
const (
	HorizontalThresholdNM = 5.0
	VerticalThresholdFt   = 2000
)

// DefaultTimeBinSec and DefaultBucketDeg are the scan granularity defaults.
const (
	DefaultTimeBinSec = 60
	DefaultBucketDeg  = 1.0
)

// Event is a maximal contiguous interval (closed, gap of at most one time
// bin) during which an ordered flight pair violates separation minima.
// FlightA < FlightB lexicographically.
type Event struct {
	FlightA         string  `json:"flight_a"`
	FlightB         string  `json:"flight_b"`
	StartTime       int64   `json:"start_time"`
	EndTime         int64   `json:"end_time"`
	MinHorizontalNM float64 `json:"min_horizontal_nm"`
	MinVerticalFt   int     `json:"min_vertical_ft"`
	Severity        float64 `json:"severity"`
}

type pair struct {
	a, b string
}

type hit struct {
	timestamp int64
	horizNM   float64
	vertFt    int
}

type bucketKey struct {
	lat, lon int
}

type pairKey struct {
	p         pair
	timestamp int64
}

// Detect scans the trajectory map for separation violations.
//
// Points are grouped into time bins, then geo-bucketed within each bin;
// candidate pairs come from a bucket's own points against its 3x3 bucket
// neighborhood. Each (sorted pair, timestamp) key is evaluated at most once
// per bin. Hits per pair are coalesced into events allowing a gap of one
// bin, and the returned events are sorted by severity descending.
//
// All map iteration is over explicitly sorted keys so output order is
// stable across runs.
func Detect(trajectories map[string][]trajectory.Point, timeBinSec int, bucketDeg float64) []Event {
	if timeBinSec <= 0 {
		timeBinSec = DefaultTimeBinSec
	}
	if bucketDeg <= 0 {
		bucketDeg = DefaultBucketDeg
	}

	acids := make([]string, 0, len(trajectories))
	for acid := range trajectories {
		acids = append(acids, acid)
	}
	sort.Strings(acids)

	bins := make(map[int64][]trajectory.Point)
	for _, acid := range acids {
		for _, p := range trajectories[acid] {
			bin := floorDiv(p.Timestamp, int64(timeBinSec))
			bins[bin] = append(bins[bin], p)
		}
	}

	binKeys := make([]int64, 0, len(bins))
	for k := range bins {
		binKeys = append(binKeys, k)
	}
	sort.Slice(binKeys, func(i, j int) bool { return binKeys[i] < binKeys[j] })

	rawHits := make(map[pair][]hit)
	var pairs []pair

	for _, bin := range binKeys {
		points := bins[bin]

		spatial := make(map[bucketKey][]trajectory.Point)
		for _, p := range points {
			key := bucketKey{
				lat: geo.Bucket(p.Lat, bucketDeg),
				lon: geo.Bucket(p.Lon, bucketDeg),
			}
			spatial[key] = append(spatial[key], p)
		}

		spatialKeys := make([]bucketKey, 0, len(spatial))
		for k := range spatial {
			spatialKeys = append(spatialKeys, k)
		}
		sort.Slice(spatialKeys, func(i, j int) bool {
			if spatialKeys[i].lat != spatialKeys[j].lat {
				return spatialKeys[i].lat < spatialKeys[j].lat
			}
			return spatialKeys[i].lon < spatialKeys[j].lon
		})

		checked := make(map[pairKey]struct{})
		for _, bucket := range spatialKeys {
			var candidates []trajectory.Point
			for dlat := -1; dlat <= 1; dlat++ {
				for dlon := -1; dlon <= 1; dlon++ {
					neighbor := bucketKey{lat: bucket.lat + dlat, lon: bucket.lon + dlon}
					candidates = append(candidates, spatial[neighbor]...)
				}
			}

			for _, pointA := range spatial[bucket] {
				for _, pointB := range candidates {
					if pointA.ACID == pointB.ACID {
						continue
					}
					pr := sortedPair(pointA.ACID, pointB.ACID)
					key := pairKey{p: pr, timestamp: pointA.Timestamp}
					if _, done := checked[key]; done {
						continue
					}
					checked[key] = struct{}{}

					horizNM := geo.GreatCircleNM(
						geo.Point{Lat: pointA.Lat, Lon: pointA.Lon},
						geo.Point{Lat: pointB.Lat, Lon: pointB.Lon})
					vertFt := pointA.AltitudeFt - pointB.AltitudeFt
					if vertFt < 0 {
						vertFt = -vertFt
					}
					if horizNM < HorizontalThresholdNM && vertFt < VerticalThresholdFt {
						if _, seen := rawHits[pr]; !seen {
							pairs = append(pairs, pr)
						}
						rawHits[pr] = append(rawHits[pr], hit{
							timestamp: pointA.Timestamp,
							horizNM:   horizNM,
							vertFt:    vertFt,
						})
					}
				}
			}
		}
	}

	var events []Event
	for _, pr := range pairs {
		events = append(events, coalesce(pr, rawHits[pr], int64(timeBinSec))...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Severity > events[j].Severity
	})
	return events
}

// coalesce folds a pair's time-sorted hits into events. Consecutive hits no
// more than one bin apart extend the open event; a bin's end is the start
// of the next bin, so EndTime gets one bin added on close.
func coalesce(pr pair, hits []hit, timeBinSec int64) []Event {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].timestamp < hits[j].timestamp })

	var events []Event
	start := hits[0].timestamp
	end := hits[0].timestamp
	minH := hits[0].horizNM
	minV := hits[0].vertFt

	flush := func() {
		events = append(events, Event{
			FlightA:         pr.a,
			FlightB:         pr.b,
			StartTime:       start,
			EndTime:         end + timeBinSec,
			MinHorizontalNM: round4(minH),
			MinVerticalFt:   minV,
			Severity:        severity(minH, minV),
		})
	}

	for _, h := range hits[1:] {
		if h.timestamp <= end+timeBinSec {
			end = h.timestamp
			minH = math.Min(minH, h.horizNM)
			if h.vertFt < minV {
				minV = h.vertFt
			}
		} else {
			flush()
			start = h.timestamp
			end = h.timestamp
			minH = h.horizNM
			minV = h.vertFt
		}
	}
	flush()
	return events
}

// severity sums the two normalized proximities: 0 at threshold, 1 at zero
// separation per axis, so the range is [0, 2].
func severity(horizNM float64, vertFt int) float64 {
	horiz := math.Max(0, (HorizontalThresholdNM-horizNM)/HorizontalThresholdNM)
	vert := math.Max(0, float64(VerticalThresholdFt-vertFt)/VerticalThresholdFt)
	return round4(horiz + vert)
}

func sortedPair(a, b string) pair {
	if a < b {
		return pair{a: a, b: b}
	}
	return pair{a: b, b: a}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
