package analysis

import "flight_insight/internal/flightplan"

// Action is one accepted resolution to apply to a flight plan.
type Action struct {
	FlightID          string `json:"flight_id"`
	DeltaAltitudeFt   *int   `json:"delta_altitude_ft,omitempty"`
	DeltaSpeedKt      *int   `json:"delta_speed_kt,omitempty"`
	DeltaDepartureMin *int   `json:"delta_departure_min,omitempty"`
	RerouteWaypoint   string `json:"reroute_waypoint,omitempty"`
}

// Apply returns revised copies of the batch with each action's deltas
// folded in: altitude and speed adjust the cruise values, a departure
// shift moves the departure time by whole minutes, and a reroute appends
// the waypoint as a trailing route token. Originals are never mutated;
// actions naming an unknown flight are ignored.
func (a *Analyzer) Apply(flights []*flightplan.FlightPlan, actions []Action) []*flightplan.FlightPlan {
	revised := make([]*flightplan.FlightPlan, len(flights))
	index := make(map[string]int, len(flights))
	for i, fp := range flights {
		cp := *fp
		revised[i] = &cp
		index[fp.ACID] = i
	}

	for _, action := range actions {
		i, ok := index[action.FlightID]
		if !ok {
			continue
		}
		fp := revised[i]
		if action.DeltaAltitudeFt != nil {
			fp.AltitudeFt += *action.DeltaAltitudeFt
		}
		if action.DeltaSpeedKt != nil {
			fp.SpeedKt += *action.DeltaSpeedKt
		}
		if action.DeltaDepartureMin != nil {
			fp.DepartureTime += int64(*action.DeltaDepartureMin) * 60
		}
		if action.RerouteWaypoint != "" {
			fp.Route = fp.Route + " " + action.RerouteWaypoint
		}
	}
	return revised
}
