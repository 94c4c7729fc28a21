package resolve

import (
	"testing"

	"flight_insight/internal/conflict"
	"flight_insight/internal/flightplan"
)

func testConflict() conflict.Event {
	return conflict.Event{
		FlightA:         "ACA101",
		FlightB:         "WJA202",
		StartTime:       600,
		EndTime:         720,
		MinHorizontalNM: 2.5,
		MinVerticalFt:   500,
		Severity:        1.25,
	}
}

func testFlights() map[string]*flightplan.FlightPlan {
	return map[string]*flightplan.FlightPlan{
		"ACA101": {
			ACID:          "ACA101",
			PlaneType:     "Boeing 737-800",
			Route:         "43.68N/79.62W 45.47N/73.74W",
			AltitudeFt:    34000,
			DepartureTime: 1700000000,
			SpeedKt:       450,
		},
		"WJA202": {
			ACID:          "WJA202",
			PlaneType:     "Boeing 787-9",
			Route:         "45.47N/73.74W 43.68N/79.62W",
			AltitudeFt:    44000,
			DepartureTime: 1700000100,
			SpeedKt:       480,
		},
	}
}

func TestPropose_KeysAndTopThree(t *testing.T) {
	proposals := Propose([]conflict.Event{testConflict()}, testFlights())

	if len(proposals) != 2 {
		t.Fatalf("expected 2 conflict-sides, got %d: %v", len(proposals), proposals)
	}
	for _, key := range []string{"ACA101-WJA202:ACA101", "ACA101-WJA202:WJA202"} {
		cands, ok := proposals[key]
		if !ok {
			t.Errorf("missing proposals for %q", key)
			continue
		}
		if len(cands) != TopPerSide {
			t.Errorf("%s: %d candidates, want %d", key, len(cands), TopPerSide)
		}
	}
}

// With the default weights altitude changes are expensive, so the cheap
// small departure shifts and the -10kt speed change win.
func TestPropose_DefaultWeightOrdering(t *testing.T) {
	proposals := Propose([]conflict.Event{testConflict()}, testFlights())
	cands := proposals["ACA101-WJA202:ACA101"]

	wantTypes := []string{"departure", "departure", "speed"}
	for i, want := range wantTypes {
		if cands[i].ActionType != want {
			t.Fatalf("candidate %d type = %q, want %q (all: %+v)", i, cands[i].ActionType, want, cands)
		}
	}
	if *cands[0].DeltaDepartureMin != -2 || *cands[1].DeltaDepartureMin != 2 {
		t.Errorf("departure deltas = %d, %d; want -2, 2",
			*cands[0].DeltaDepartureMin, *cands[1].DeltaDepartureMin)
	}
	if *cands[2].DeltaSpeedKt != -10 {
		t.Errorf("speed delta = %d, want -10", *cands[2].DeltaSpeedKt)
	}

	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[i-1].Score {
			t.Errorf("candidates out of score order: %+v", cands)
		}
	}
}

// Zeroing the altitude cost makes altitude candidates cheapest, which
// exposes the band filtering: at 44000ft a jet can only descend.
func TestProposeWeighted_AltitudeBandFiltering(t *testing.T) {
	w := DefaultWeights()
	w.Altitude = 0

	proposals := ProposeWeighted([]conflict.Event{testConflict()}, testFlights(), w)
	cands := proposals["ACA101-WJA202:WJA202"]
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %+v", cands)
	}

	if cands[0].ActionType != "altitude" || *cands[0].DeltaAltitudeFt != -4000 {
		t.Errorf("candidate 0 = %+v, want altitude -4000", cands[0])
	}
	if cands[1].ActionType != "altitude" || *cands[1].DeltaAltitudeFt != -2000 {
		t.Errorf("candidate 1 = %+v, want altitude -2000", cands[1])
	}
	if cands[2].ActionType != "departure" {
		t.Errorf("candidate 2 = %+v, want a departure shift (climbs are out of band)", cands[2])
	}
}

func TestPropose_UnknownPlaneTypeSkipsAltitudeAndSpeed(t *testing.T) {
	flights := testFlights()
	flights["ACA101"].PlaneType = "Antonov An-124"

	w := DefaultWeights()
	w.Altitude = 0
	w.Speed = 0

	proposals := ProposeWeighted([]conflict.Event{testConflict()}, flights, w)
	for _, c := range proposals["ACA101-WJA202:ACA101"] {
		if c.ActionType == "altitude" || c.ActionType == "speed" {
			t.Errorf("flight with validation issues got %s candidate: %+v", c.ActionType, c)
		}
	}
}

func TestPropose_NoRouteNoReroute(t *testing.T) {
	flights := testFlights()
	flights["ACA101"].Route = "   "

	// Make reroute the cheapest action so its absence is observable.
	w := Weights{Conflict: 1.0, Delay: 10, Altitude: 10, Speed: 10, Complexity: 0.01}
	proposals := ProposeWeighted([]conflict.Event{testConflict()}, flights, w)

	for _, c := range proposals["ACA101-WJA202:ACA101"] {
		if c.ActionType == "reroute" {
			t.Errorf("blank route produced a reroute candidate: %+v", c)
		}
	}
	found := false
	for _, c := range proposals["ACA101-WJA202:WJA202"] {
		if c.ActionType == "reroute" {
			found = true
			if c.RerouteWaypoint != RerouteWaypoint {
				t.Errorf("reroute waypoint = %q, want %q", c.RerouteWaypoint, RerouteWaypoint)
			}
		}
	}
	if !found {
		t.Error("routed flight produced no reroute candidate under cheap complexity")
	}
}

func TestPropose_SkipsFlightsMissingFromMap(t *testing.T) {
	flights := testFlights()
	delete(flights, "WJA202")

	proposals := Propose([]conflict.Event{testConflict()}, flights)
	if _, ok := proposals["ACA101-WJA202:WJA202"]; ok {
		t.Error("got proposals for a flight missing from the batch")
	}
	if _, ok := proposals["ACA101-WJA202:ACA101"]; !ok {
		t.Error("missing proposals for the present flight")
	}
}

func TestScoreArithmetic(t *testing.T) {
	proposals := Propose([]conflict.Event{testConflict()}, testFlights())

	for key, cands := range proposals {
		for _, c := range cands {
			if c.Benefit != 1.25 {
				t.Errorf("%s: benefit = %f, want the severity 1.25", key, c.Benefit)
			}
			if got, want := c.Score, round4(c.Benefit-c.Cost); got != want {
				t.Errorf("%s: score = %f, want benefit-cost = %f", key, got, want)
			}
		}
	}

	// Spot-check one cost under the default weights: a -2 min shift costs
	// 2*0.04 + 0.3*0.2.
	cands := proposals["ACA101-WJA202:ACA101"]
	if cands[0].Cost != 0.14 {
		t.Errorf("departure -2 cost = %f, want 0.14", cands[0].Cost)
	}
}
