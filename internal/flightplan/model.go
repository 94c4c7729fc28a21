// Package flightplan defines the canonical flight-plan record, the aircraft
// classifier, and the speed/altitude band validator.
package flightplan

import (
	"encoding/json"
	"fmt"
)

// FlightPlan is one filed flight. The JSON field names are the literal
// upstream names, spaces and all. A parsed plan is treated as immutable:
// resolution candidates and the apply operation work on copies and never
// mutate the original.
type FlightPlan struct {
	ACID             string `json:"ACID"`
	PlaneType        string `json:"Plane type"`
	Route            string `json:"route"`
	AltitudeFt       int    `json:"altitude"`
	DepartureTime    int64  `json:"departure time"`
	SpeedKt          int    `json:"aircraft speed"`
	Passengers       int    `json:"passengers"`
	IsCargo          bool   `json:"is_cargo"`
	DepartureAirport string `json:"departure airport,omitempty"`
	ArrivalAirport   string `json:"arrival airport,omitempty"`
}

// rawPlan mirrors FlightPlan with pointer fields so missing keys can be
// told apart from zero values. Integer fields decode through json.Number to
// reject booleans and non-integral values.
type rawPlan struct {
	ACID             *string      `json:"ACID"`
	PlaneType        *string      `json:"Plane type"`
	Route            *string      `json:"route"`
	AltitudeFt       *json.Number `json:"altitude"`
	DepartureTime    *json.Number `json:"departure time"`
	SpeedKt          *json.Number `json:"aircraft speed"`
	Passengers       *json.Number `json:"passengers"`
	IsCargo          *bool        `json:"is_cargo"`
	DepartureAirport *string      `json:"departure airport"`
	ArrivalAirport   *string      `json:"arrival airport"`
}

func requireInt(field string, n *json.Number) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("missing field %q", field)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("field %q: expected integer, got %s", field, n.String())
	}
	return v, nil
}

func requireString(field string, s *string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("missing field %q", field)
	}
	return *s, nil
}

// Parse decodes a single raw flight record, enforcing required fields and
// integer typing (booleans and fractional numbers are rejected).
func Parse(raw json.RawMessage) (*FlightPlan, error) {
	var rp rawPlan
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, fmt.Errorf("invalid flight plan: %w", err)
	}

	var (
		fp  FlightPlan
		err error
	)
	if fp.ACID, err = requireString("ACID", rp.ACID); err != nil {
		return nil, err
	}
	if fp.PlaneType, err = requireString("Plane type", rp.PlaneType); err != nil {
		return nil, err
	}
	if fp.Route, err = requireString("route", rp.Route); err != nil {
		return nil, err
	}

	alt, err := requireInt("altitude", rp.AltitudeFt)
	if err != nil {
		return nil, err
	}
	fp.AltitudeFt = int(alt)

	if fp.DepartureTime, err = requireInt("departure time", rp.DepartureTime); err != nil {
		return nil, err
	}

	speed, err := requireInt("aircraft speed", rp.SpeedKt)
	if err != nil {
		return nil, err
	}
	fp.SpeedKt = int(speed)

	pax, err := requireInt("passengers", rp.Passengers)
	if err != nil {
		return nil, err
	}
	fp.Passengers = int(pax)

	if rp.IsCargo == nil {
		return nil, fmt.Errorf("missing field %q", "is_cargo")
	}
	fp.IsCargo = *rp.IsCargo

	if rp.DepartureAirport != nil {
		fp.DepartureAirport = *rp.DepartureAirport
	}
	if rp.ArrivalAirport != nil {
		fp.ArrivalAirport = *rp.ArrivalAirport
	}

	if fp.ACID == "" {
		return nil, fmt.Errorf("ACID must be non-empty")
	}
	return &fp, nil
}
