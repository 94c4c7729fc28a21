// Package hotspot aggregates trajectory points over a 4D occupancy grid
// and ranks cells by a composite congestion score.
package hotspot

import (
	"math"
	"sort"

	"flight_insight/internal/geo"
	"flight_insight/internal/trajectory"
)

// Config controls the grid granularity and result size.
// TimeBinSec should be a multiple of 60 or occupancy minutes are floored.
type Config struct {
	LatBucketDeg   float64
	LonBucketDeg   float64
	AltitudeBandFt int
	TimeBinSec     int
	TopN           int
}

// DefaultConfig returns the standard grid: 1 degree cells, 2000 ft bands,
// 60 s bins, top 10.
func DefaultConfig() Config {
	return Config{
		LatBucketDeg:   1.0,
		LonBucketDeg:   1.0,
		AltitudeBandFt: 2000,
		TimeBinSec:     60,
		TopN:           10,
	}
}

// Cell is a ranked 3D grid cell with its occupancy aggregates.
type Cell struct {
	LatBucket        int     `json:"lat_bucket"`
	LonBucket        int     `json:"lon_bucket"`
	AltitudeBand     int     `json:"altitude_band"`
	TimeStart        int64   `json:"time_start"`
	TimeEnd          int64   `json:"time_end"`
	PeakDensity      int     `json:"peak_density"`
	OccupancyMinutes int     `json:"occupancy_minutes"`
	UniqueFlights    int     `json:"unique_flights"`
	Score            float64 `json:"score"`
}

type gridKey struct {
	latB, lonB, altB int
	timeBin          int64
}

type cellKey struct {
	latB, lonB, altB int
}

// cellStats carries the per-cell aggregates with explicit types.
type cellStats struct {
	peakDensity int
	timeBins    map[int64]struct{}
	flights     map[string]struct{}
}

// Detect buckets every trajectory point into the 4D grid, projects to 3D
// cells, and returns the top-N cells by score descending. Cell score is
// 0.6*peak_density + 0.3*unique_flights + 0.1*occupancy_minutes, rounded
// to 4 decimals. Ties keep a stable order on the cell's grid coordinates.
func Detect(trajectories map[string][]trajectory.Point, cfg Config) []Cell {
	def := DefaultConfig()
	if cfg.LatBucketDeg <= 0 {
		cfg.LatBucketDeg = def.LatBucketDeg
	}
	if cfg.LonBucketDeg <= 0 {
		cfg.LonBucketDeg = def.LonBucketDeg
	}
	if cfg.AltitudeBandFt <= 0 {
		cfg.AltitudeBandFt = def.AltitudeBandFt
	}
	if cfg.TimeBinSec <= 0 {
		cfg.TimeBinSec = def.TimeBinSec
	}
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}

	occupancy := make(map[gridKey][]trajectory.Point)
	for _, points := range trajectories {
		for _, p := range points {
			key := gridKey{
				latB:    geo.Bucket(p.Lat, cfg.LatBucketDeg),
				lonB:    geo.Bucket(p.Lon, cfg.LonBucketDeg),
				altB:    geo.Bucket(float64(p.AltitudeFt), float64(cfg.AltitudeBandFt)),
				timeBin: floorDiv(p.Timestamp, int64(cfg.TimeBinSec)),
			}
			occupancy[key] = append(occupancy[key], p)
		}
	}

	cells := make(map[cellKey]*cellStats)
	for key, points := range occupancy {
		ck := cellKey{latB: key.latB, lonB: key.lonB, altB: key.altB}
		stats, ok := cells[ck]
		if !ok {
			stats = &cellStats{
				timeBins: make(map[int64]struct{}),
				flights:  make(map[string]struct{}),
			}
			cells[ck] = stats
		}
		if len(points) > stats.peakDensity {
			stats.peakDensity = len(points)
		}
		stats.timeBins[key.timeBin] = struct{}{}
		for _, p := range points {
			stats.flights[p.ACID] = struct{}{}
		}
	}

	cellKeys := make([]cellKey, 0, len(cells))
	for ck := range cells {
		cellKeys = append(cellKeys, ck)
	}
	sort.Slice(cellKeys, func(i, j int) bool {
		a, b := cellKeys[i], cellKeys[j]
		if a.latB != b.latB {
			return a.latB < b.latB
		}
		if a.lonB != b.lonB {
			return a.lonB < b.lonB
		}
		return a.altB < b.altB
	})

	hotspots := make([]Cell, 0, len(cellKeys))
	for _, ck := range cellKeys {
		stats := cells[ck]

		minBin, maxBin := int64(math.MaxInt64), int64(math.MinInt64)
		for bin := range stats.timeBins {
			if bin < minBin {
				minBin = bin
			}
			if bin > maxBin {
				maxBin = bin
			}
		}

		occupancyMinutes := len(stats.timeBins) * (cfg.TimeBinSec / 60)
		uniqueFlights := len(stats.flights)
		score := round4(float64(stats.peakDensity)*0.6 +
			float64(uniqueFlights)*0.3 +
			float64(occupancyMinutes)*0.1)

		hotspots = append(hotspots, Cell{
			LatBucket:        ck.latB,
			LonBucket:        ck.lonB,
			AltitudeBand:     ck.altB,
			TimeStart:        minBin * int64(cfg.TimeBinSec),
			TimeEnd:          (maxBin + 1) * int64(cfg.TimeBinSec),
			PeakDensity:      stats.peakDensity,
			OccupancyMinutes: occupancyMinutes,
			UniqueFlights:    uniqueFlights,
			Score:            score,
		})
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].Score > hotspots[j].Score
	})
	if len(hotspots) > cfg.TopN {
		hotspots = hotspots[:cfg.TopN]
	}
	return hotspots
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
