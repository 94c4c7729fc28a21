package hotspot

import (
	"testing"

	"flight_insight/internal/trajectory"
)

func point(acid string, lat, lon float64, altFt int, ts int64) trajectory.Point {
	return trajectory.Point{ACID: acid, Lat: lat, Lon: lon, AltitudeFt: altFt, Timestamp: ts, SpeedKt: 450}
}

func TestDetect_SingleCellAggregates(t *testing.T) {
	// Three flights share one grid cell in one time bin.
	trajs := map[string][]trajectory.Point{
		"ACA101": {point("ACA101", 45.2, -73.8, 35000, 30)},
		"WJA202": {point("WJA202", 45.6, -73.2, 35500, 45)},
		"JZA303": {point("JZA303", 45.9, -73.1, 34800, 10)},
	}

	cells := Detect(trajs, DefaultConfig())
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d: %+v", len(cells), cells)
	}

	c := cells[0]
	if c.LatBucket != 45 || c.LonBucket != -74 {
		t.Errorf("cell = (%d, %d), want (45, -74)", c.LatBucket, c.LonBucket)
	}
	if c.AltitudeBand != 17 {
		t.Errorf("altitude band = %d, want 17 (34000-36000ft)", c.AltitudeBand)
	}
	if c.PeakDensity != 3 || c.UniqueFlights != 3 || c.OccupancyMinutes != 1 {
		t.Errorf("aggregates = peak %d, unique %d, occ %d; want 3, 3, 1",
			c.PeakDensity, c.UniqueFlights, c.OccupancyMinutes)
	}
	if want := 2.8; c.Score != want {
		t.Errorf("score = %f, want %f", c.Score, want)
	}
	if c.TimeStart != 0 || c.TimeEnd != 60 {
		t.Errorf("window = [%d, %d], want [0, 60]", c.TimeStart, c.TimeEnd)
	}
}

func TestDetect_PeakIsMaxOverBinsNotSum(t *testing.T) {
	// Two flights co-located in bin 0, one of them lingers into bin 1.
	trajs := map[string][]trajectory.Point{
		"ACA101": {
			point("ACA101", 45.5, -73.5, 35000, 0),
			point("ACA101", 45.5, -73.5, 35000, 60),
		},
		"WJA202": {point("WJA202", 45.5, -73.5, 35000, 0)},
	}

	cells := Detect(trajs, DefaultConfig())
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}

	c := cells[0]
	if c.PeakDensity != 2 {
		t.Errorf("peak = %d, want the busiest bin's count 2", c.PeakDensity)
	}
	if c.OccupancyMinutes != 2 || c.UniqueFlights != 2 {
		t.Errorf("occ = %d, unique = %d; want 2, 2", c.OccupancyMinutes, c.UniqueFlights)
	}
	if c.TimeStart != 0 || c.TimeEnd != 120 {
		t.Errorf("window = [%d, %d], want [0, 120]", c.TimeStart, c.TimeEnd)
	}
	// 0.6*2 + 0.3*2 + 0.1*2
	if want := 2.0; c.Score != want {
		t.Errorf("score = %f, want %f", c.Score, want)
	}
}

func TestDetect_OrdersByScoreDescending(t *testing.T) {
	// Busy cell near Montreal, quiet cell near Toronto.
	trajs := map[string][]trajectory.Point{
		"ACA101": {point("ACA101", 45.5, -73.5, 35000, 0)},
		"WJA202": {point("WJA202", 45.5, -73.5, 35000, 0)},
		"JZA303": {point("JZA303", 45.5, -73.5, 35000, 0)},
		"PVT404": {point("PVT404", 43.5, -79.5, 5000, 0)},
	}

	cells := Detect(trajs, DefaultConfig())
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].UniqueFlights != 3 || cells[1].UniqueFlights != 1 {
		t.Errorf("cells not ordered by score: %+v", cells)
	}
	if cells[0].Score < cells[1].Score {
		t.Errorf("score order violated: %f then %f", cells[0].Score, cells[1].Score)
	}
}

func TestDetect_TopNTruncation(t *testing.T) {
	// Twelve singleton cells along the equator, TopN of 10.
	trajs := make(map[string][]trajectory.Point)
	for i := 0; i < 12; i++ {
		acid := string(rune('A'+i)) + "AA100"
		trajs[acid] = []trajectory.Point{point(acid, 0.5, float64(i)+0.5, 35000, 0)}
	}

	cells := Detect(trajs, DefaultConfig())
	if len(cells) != 10 {
		t.Errorf("expected TopN=10 cells, got %d", len(cells))
	}

	cfg := DefaultConfig()
	cfg.TopN = 3
	if cells = Detect(trajs, cfg); len(cells) != 3 {
		t.Errorf("expected 3 cells, got %d", len(cells))
	}
}

func TestDetect_TieOrderIsStableOnGridCoordinates(t *testing.T) {
	// Two identical singleton cells: tie broken by (lat, lon, alt) ascending.
	trajs := map[string][]trajectory.Point{
		"ACA101": {point("ACA101", 10.5, 20.5, 35000, 0)},
		"WJA202": {point("WJA202", 10.5, 30.5, 35000, 0)},
	}

	cells := Detect(trajs, DefaultConfig())
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].LonBucket != 20 || cells[1].LonBucket != 30 {
		t.Errorf("tied cells out of grid order: %+v", cells)
	}
}

func TestDetect_ZeroConfigUsesDefaults(t *testing.T) {
	trajs := map[string][]trajectory.Point{
		"ACA101": {point("ACA101", 45.5, -73.5, 35000, 30)},
	}

	cells := Detect(trajs, Config{})
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].TimeEnd != 60 {
		t.Errorf("TimeEnd = %d, want the default 60s bin", cells[0].TimeEnd)
	}
}
