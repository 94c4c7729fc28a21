package flightplan

import (
	"strings"
	"testing"
)

func TestClassify_KnownTable(t *testing.T) {
	tests := []struct {
		planeType string
		want      Class
	}{
		{"Boeing 787-9", ClassJet},
		{"boeing 777-300er", ClassJet},
		{"Airbus A330", ClassJet},
		{"Boeing 737 MAX 8", ClassJet},
		{"A220-300", ClassJet},
		{"Dash 8-400", ClassTurboprop},
		{"Q400", ClassTurboprop},
		{"Embraer E195-E2", ClassTurboprop},
		{"Bombardier CRJ", ClassTurboprop},
		{"Boeing 767-300F", ClassJet},
		{"Airbus A300-600F", ClassJet},
	}

	for _, tt := range tests {
		got, matched := Classify(tt.planeType)
		if !matched {
			t.Errorf("Classify(%q): matched = false, want true", tt.planeType)
		}
		if got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.planeType, got, tt.want)
		}
	}
}

// Longer table keys take precedence over their substrings, so a descriptor
// containing both "boeing 787-9" and "787" classifies via the specific key.
func TestClassify_LongestKeyWins(t *testing.T) {
	// "embraer e195-e2" (regional/turboprop) contains "e195" too; both map
	// the same way, so probe precedence through a mixed descriptor where
	// the categories differ: "boeing 757-200f cargo variant" must hit the
	// cargo entry, not fall through to keyword matching.
	got, matched := Classify("Boeing 757-200F freighter")
	if !matched || got != ClassJet {
		t.Errorf("Classify freighter = %q matched=%v, want jet/true", got, matched)
	}

	// A descriptor matching only the short generic key still classifies.
	got, matched = Classify("some 787 variant")
	if !matched || got != ClassJet {
		t.Errorf("Classify(%q) = %q matched=%v, want jet/true", "some 787 variant", got, matched)
	}
}

func TestClassify_KeywordFallback(t *testing.T) {
	tests := []struct {
		planeType   string
		want        Class
		wantMatched bool
	}{
		{"Sikorsky heliCOPTER", ClassHelicopter, true},
		{"ATR 72 turboprop", ClassTurboprop, true},
		{"turbo-something prop", ClassTurboprop, true}, // "turbo" and "prop" both present
		{"Cessna prop plane", ClassProp, true},
		{"piston single", ClassProp, true},
		{"business jet", ClassJet, true},
		{"Boeing mystery model", ClassJet, true},
		{"b747", ClassJet, true},
		{"a310", ClassJet, true},
		{"a221", ClassJet, true},
		{"Antonov An-124", ClassJet, false},
		{"", ClassJet, false},
		{"   ", ClassJet, false},
	}

	for _, tt := range tests {
		got, matched := Classify(tt.planeType)
		if got != tt.want || matched != tt.wantMatched {
			t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)",
				tt.planeType, got, matched, tt.want, tt.wantMatched)
		}
	}
}

// "heli" outranks every later keyword even when both appear.
func TestClassify_KeywordOrder(t *testing.T) {
	got, _ := Classify("experimental heli with prop rotor")
	if got != ClassHelicopter {
		t.Errorf("Classify = %q, want helicopter", got)
	}
}

func TestConstraintsFor(t *testing.T) {
	tests := []struct {
		class Class
		want  Constraints
	}{
		{ClassJet, Constraints{200, 550, 10000, 45000}},
		{ClassTurboprop, Constraints{150, 450, 5000, 41000}},
		{ClassProp, Constraints{90, 220, 1000, 18000}},
		{ClassHelicopter, Constraints{60, 160, 0, 10000}},
	}

	for _, tt := range tests {
		if got := ConstraintsFor(tt.class); got != tt.want {
			t.Errorf("ConstraintsFor(%q) = %+v, want %+v", tt.class, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	base := FlightPlan{
		ACID:       "ACA101",
		PlaneType:  "Boeing 737-800",
		AltitudeFt: 34000,
		SpeedKt:    450,
	}

	if issues := Validate(&base); len(issues) != 0 {
		t.Errorf("valid flight: unexpected issues %v", issues)
	}

	slow := base
	slow.SpeedKt = 100
	issues := Validate(&slow)
	if len(issues) != 1 || !strings.Contains(issues[0], "speed") {
		t.Errorf("slow jet: issues = %v, want one speed issue", issues)
	}

	low := base
	low.AltitudeFt = 5000
	issues = Validate(&low)
	if len(issues) != 1 || !strings.Contains(issues[0], "altitude") {
		t.Errorf("low jet: issues = %v, want one altitude issue", issues)
	}

	unknown := base
	unknown.PlaneType = "Antonov An-124"
	issues = Validate(&unknown)
	if len(issues) != 1 || !strings.Contains(issues[0], "unknown plane type") {
		t.Errorf("unknown type: issues = %v, want the defaulting notice", issues)
	}

	// Issues accumulate.
	bad := base
	bad.PlaneType = "Antonov An-124"
	bad.SpeedKt = 100
	bad.AltitudeFt = 5000
	if issues = Validate(&bad); len(issues) != 3 {
		t.Errorf("expected 3 issues, got %v", issues)
	}
}
