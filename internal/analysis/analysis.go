// Package analysis orchestrates the analytical pipeline: parse and
// validate flight plans, build trajectories, then run the conflict,
// hotspot, and resolution passes.
//
// The pipeline is batch and stateless: one call reads an immutable input
// list and produces immutable outputs. Bad flights are skipped and reported
// through the issues list; the pipeline never aborts because of a single
// bad flight.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"flight_insight/internal/airports"
	"flight_insight/internal/conflict"
	"flight_insight/internal/flightplan"
	"flight_insight/internal/hotspot"
	"flight_insight/internal/resolve"
	"flight_insight/internal/route"
	"flight_insight/internal/trajectory"
)

// Analyzer runs the pipeline with a fixed configuration. The zero value is
// not usable; construct with New.
type Analyzer struct {
	Airports   airports.Lookup
	SampleSec  int
	TimeBinSec int
	BucketDeg  float64
	Hotspot    hotspot.Config
	Weights    resolve.Weights
}

// New returns an Analyzer with the standard thresholds and grid defaults.
func New(lookup airports.Lookup) *Analyzer {
	return &Analyzer{
		Airports:   lookup,
		SampleSec:  trajectory.DefaultSampleSec,
		TimeBinSec: conflict.DefaultTimeBinSec,
		BucketDeg:  conflict.DefaultBucketDeg,
		Hotspot:    hotspot.DefaultConfig(),
		Weights:    resolve.DefaultWeights(),
	}
}

// Result is the product of one full analysis.
type Result struct {
	Issues       []string                       `json:"issues"`
	Trajectories map[string][]trajectory.Point  `json:"trajectories"`
	Conflicts    []conflict.Event               `json:"conflicts"`
	Hotspots     []hotspot.Cell                 `json:"hotspots"`
	Proposals    map[string][]resolve.Candidate `json:"proposals"`
}

// acidOf attributes a raw record to its ACID when one is present, else to
// its batch position as "index:N".
func acidOf(raw json.RawMessage, index int) string {
	var probe struct {
		ACID      string `json:"ACID"`
		ACIDLower string `json:"acid"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		if probe.ACID != "" {
			return probe.ACID
		}
		if probe.ACIDLower != "" {
			return probe.ACIDLower
		}
	}
	return fmt.Sprintf("index:%d", index)
}

// ParseFlights decodes a raw batch. Schema errors skip the record;
// constraint warnings accumulate without skipping. Both are attributed to
// the owning flight.
func (a *Analyzer) ParseFlights(payload []json.RawMessage) ([]*flightplan.FlightPlan, []string) {
	issues := []string{}
	var flights []*flightplan.FlightPlan

	for i, raw := range payload {
		fp, err := flightplan.Parse(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", acidOf(raw, i), err))
			continue
		}
		flights = append(flights, fp)
		issues = append(issues, flightplan.Validate(fp)...)
	}
	return flights, issues
}

// BuildTrajectories parses each flight's route and samples its trajectory.
// Flights with route or trajectory errors are skipped and reported. The
// build fans out across flights; results are merged in input order, so a
// duplicate ACID silently overwrites the earlier flight's trajectory
// (last one wins), matching the upstream contract.
func (a *Analyzer) BuildTrajectories(ctx context.Context, flights []*flightplan.FlightPlan) (map[string][]trajectory.Point, []string, error) {
	type built struct {
		points []trajectory.Point
		err    error
	}
	results := make([]built, len(flights))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, fp := range flights {
		i, fp := i, fp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points, err := route.Parse(fp.Route, fp.DepartureAirport, fp.ArrivalAirport, a.Airports)
			if err != nil {
				results[i] = built{err: err}
				return nil
			}
			traj, err := trajectory.Build(fp, points, a.SampleSec)
			if err != nil {
				results[i] = built{err: err}
				return nil
			}
			results[i] = built{points: traj}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	trajectories := make(map[string][]trajectory.Point, len(flights))
	issues := []string{}
	for i, fp := range flights {
		if results[i].err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", fp.ACID, results[i].err))
			continue
		}
		trajectories[fp.ACID] = results[i].points
	}
	return trajectories, issues, nil
}

// Analyze runs the full pipeline over a raw batch. The conflict and hotspot
// passes run in parallel over the completed trajectory map. Cancellation is
// honored at pass boundaries: partial results are discarded and ctx.Err()
// returned.
func (a *Analyzer) Analyze(ctx context.Context, payload []json.RawMessage) (*Result, error) {
	flights, issues := a.ParseFlights(payload)

	flightMap := make(map[string]*flightplan.FlightPlan, len(flights))
	for _, fp := range flights {
		flightMap[fp.ACID] = fp
	}

	trajectories, routeIssues, err := a.BuildTrajectories(ctx, flights)
	if err != nil {
		return nil, err
	}
	issues = append(issues, routeIssues...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		conflicts []conflict.Event
		hotspots  []hotspot.Cell
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		conflicts = conflict.Detect(trajectories, a.TimeBinSec, a.BucketDeg)
		return nil
	})
	g.Go(func() error {
		hotspots = hotspot.Detect(trajectories, a.Hotspot)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proposals := resolve.ProposeWeighted(conflicts, flightMap, a.Weights)

	return &Result{
		Issues:       issues,
		Trajectories: trajectories,
		Conflicts:    conflicts,
		Hotspots:     hotspots,
		Proposals:    proposals,
	}, nil
}
