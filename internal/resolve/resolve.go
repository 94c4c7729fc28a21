// Package resolve enumerates tactical maneuver candidates for conflicted
// flights and scores them by benefit minus cost.
package resolve

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"flight_insight/internal/conflict"
	"flight_insight/internal/flightplan"
)

// Deltas attempted per action type.
var (
	AltitudeStepsFt   = []int{-4000, -2000, 2000, 4000}
	SpeedStepsKt      = []int{-25, -15, -10, 10, 15, 25}
	DepartureStepsMin = []int{-10, -5, -2, 2, 5, 10}
)

// RerouteWaypoint is the fix inserted by the single reroute candidate.
const RerouteWaypoint = "FIX01"

// TopPerSide is how many candidates are kept per conflict-side.
const TopPerSide = 3

// Candidate is a finalized, scored resolution. Exactly one of the delta
// fields is set, matching the action type.
type Candidate struct {
	FlightID          string  `json:"flight_id"`
	ActionType        string  `json:"action_type"`
	Summary           string  `json:"summary"`
	DeltaAltitudeFt   *int    `json:"delta_altitude_ft,omitempty"`
	DeltaSpeedKt      *int    `json:"delta_speed_kt,omitempty"`
	DeltaDepartureMin *int    `json:"delta_departure_min,omitempty"`
	RerouteWaypoint   string  `json:"reroute_waypoint,omitempty"`
	Benefit           float64 `json:"benefit"`
	Cost              float64 `json:"cost"`
	Score             float64 `json:"score"`
}

// draft is an unscored candidate. Scoring produces a finalized Candidate
// from a draft; drafts are never exposed.
type draft struct {
	flightID          string
	actionType        string
	summary           string
	deltaAltitudeFt   *int
	deltaSpeedKt      *int
	deltaDepartureMin *int
	rerouteWaypoint   string
}

// Weights are the benefit/cost coefficients.
type Weights struct {
	Conflict   float64
	Delay      float64
	Altitude   float64
	Speed      float64
	Complexity float64
}

// DefaultWeights returns the standard scoring coefficients.
func DefaultWeights() Weights {
	return Weights{
		Conflict:   1.0,
		Delay:      0.04,
		Altitude:   0.002,
		Speed:      0.01,
		Complexity: 0.2,
	}
}

// Propose generates scored candidates for both flights of every conflict,
// keyed "<flight_a>-<flight_b>:<flight_id>", keeping the top-3 per side by
// score descending. Flights missing from the map are skipped.
func Propose(conflicts []conflict.Event, flights map[string]*flightplan.FlightPlan) map[string][]Candidate {
	return ProposeWeighted(conflicts, flights, DefaultWeights())
}

// ProposeWeighted is Propose with explicit scoring weights.
func ProposeWeighted(conflicts []conflict.Event, flights map[string]*flightplan.FlightPlan, w Weights) map[string][]Candidate {
	proposals := make(map[string][]Candidate)

	for _, c := range conflicts {
		for _, flightID := range []string{c.FlightA, c.FlightB} {
			fp, ok := flights[flightID]
			if !ok {
				continue
			}

			var drafts []draft

			for _, delta := range AltitudeStepsFt {
				if !validWithDelta(fp, delta, 0) {
					continue
				}
				d := delta
				drafts = append(drafts, draft{
					flightID:        flightID,
					actionType:      "altitude",
					summary:         fmt.Sprintf("Change altitude by %+d ft", delta),
					deltaAltitudeFt: &d,
				})
			}

			for _, delta := range SpeedStepsKt {
				if !validWithDelta(fp, 0, delta) {
					continue
				}
				d := delta
				drafts = append(drafts, draft{
					flightID:     flightID,
					actionType:   "speed",
					summary:      fmt.Sprintf("Change speed by %+d kt", delta),
					deltaSpeedKt: &d,
				})
			}

			// Departure shifts are unconstrained.
			for _, delta := range DepartureStepsMin {
				d := delta
				drafts = append(drafts, draft{
					flightID:          flightID,
					actionType:        "departure",
					summary:           fmt.Sprintf("Shift departure by %+d min", delta),
					deltaDepartureMin: &d,
				})
			}

			if strings.TrimSpace(fp.Route) != "" {
				drafts = append(drafts, draft{
					flightID:        flightID,
					actionType:      "reroute",
					summary:         "Insert waypoint " + RerouteWaypoint,
					rerouteWaypoint: RerouteWaypoint,
				})
			}

			scored := make([]Candidate, 0, len(drafts))
			for _, d := range drafts {
				scored = append(scored, score(d, c, w))
			}
			sort.SliceStable(scored, func(i, j int) bool {
				return scored[i].Score > scored[j].Score
			})
			if len(scored) > TopPerSide {
				scored = scored[:TopPerSide]
			}

			key := fmt.Sprintf("%s-%s:%s", c.FlightA, c.FlightB, flightID)
			proposals[key] = scored
		}
	}

	return proposals
}

// validWithDelta reports whether the flight, with the deltas applied to a
// copy, still validates cleanly against its aircraft band. A flight that
// already carries validation issues (including an unknown plane type) never
// yields altitude or speed candidates.
func validWithDelta(fp *flightplan.FlightPlan, deltaAlt, deltaSpeed int) bool {
	updated := *fp
	updated.AltitudeFt += deltaAlt
	updated.SpeedKt += deltaSpeed
	return len(flightplan.Validate(&updated)) == 0
}

// score finalizes a draft against a conflict: benefit follows the conflict
// severity, cost charges the magnitude of each delta plus an action
// complexity term (1.0 for reroute, 0.3 otherwise).
func score(d draft, c conflict.Event, w Weights) Candidate {
	delay := absInt(deref(d.deltaDepartureMin))
	altitude := absInt(deref(d.deltaAltitudeFt))
	speed := absInt(deref(d.deltaSpeedKt))
	complexity := 0.3
	if d.rerouteWaypoint != "" {
		complexity = 1.0
	}

	benefit := round4(c.Severity * w.Conflict)
	cost := round4(float64(delay)*w.Delay +
		float64(altitude)*w.Altitude +
		float64(speed)*w.Speed +
		complexity*w.Complexity)

	return Candidate{
		FlightID:          d.flightID,
		ActionType:        d.actionType,
		Summary:           d.summary,
		DeltaAltitudeFt:   d.deltaAltitudeFt,
		DeltaSpeedKt:      d.deltaSpeedKt,
		DeltaDepartureMin: d.deltaDepartureMin,
		RerouteWaypoint:   d.rerouteWaypoint,
		Benefit:           benefit,
		Cost:              cost,
		Score:             round4(benefit - cost),
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
