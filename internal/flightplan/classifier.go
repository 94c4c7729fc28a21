package flightplan

import (
	"fmt"
	"sort"
	"strings"
)

// Class is the constraint class an aircraft is flown under.
type Class string

const (
	ClassJet        Class = "jet"
	ClassTurboprop  Class = "turboprop"
	ClassProp       Class = "prop"
	ClassHelicopter Class = "helicopter"
)

// Constraints is the operating band for a constraint class.
type Constraints struct {
	MinSpeedKt    int
	MaxSpeedKt    int
	MinAltitudeFt int
	MaxAltitudeFt int
}

// ConstraintsFor returns the operating band for a class.
func ConstraintsFor(c Class) Constraints {
	return classConstraints[c]
}

var classConstraints = map[Class]Constraints{
	// Commercial jets (widebody and narrowbody), typical cruise 450-530 kt.
	ClassJet: {MinSpeedKt: 200, MaxSpeedKt: 550, MinAltitudeFt: 10000, MaxAltitudeFt: 45000},
	// Turboprops and regional jets: Dash 8, ATR, CRJ, E-Jets.
	ClassTurboprop: {MinSpeedKt: 150, MaxSpeedKt: 450, MinAltitudeFt: 5000, MaxAltitudeFt: 41000},
	// Small prop planes.
	ClassProp: {MinSpeedKt: 90, MaxSpeedKt: 220, MinAltitudeFt: 1000, MaxAltitudeFt: 18000},
	// Helicopters.
	ClassHelicopter: {MinSpeedKt: 60, MaxSpeedKt: 160, MinAltitudeFt: 0, MaxAltitudeFt: 10000},
}

// knownAircraft maps model substrings to a category. Matching is
// longest-key-first so "boeing 787-9" wins over "787".
var knownAircraft = map[string]string{
	// Wide-body passenger jets
	"boeing 787-9":     "widebody",
	"boeing 787":       "widebody",
	"787-9":            "widebody",
	"787":              "widebody",
	"boeing 777-300er": "widebody",
	"boeing 777":       "widebody",
	"777-300er":        "widebody",
	"777":              "widebody",
	"airbus a330":      "widebody",
	"a330":             "widebody",

	// Narrow-body passenger jets
	"boeing 737-800":   "narrowbody",
	"boeing 737 max 8": "narrowbody",
	"boeing 737 max":   "narrowbody",
	"boeing 737":       "narrowbody",
	"737-800":          "narrowbody",
	"737 max 8":        "narrowbody",
	"737 max":          "narrowbody",
	"737":              "narrowbody",
	"airbus a320":      "narrowbody",
	"airbus a321":      "narrowbody",
	"airbus a220-300":  "narrowbody",
	"airbus a220":      "narrowbody",
	"a320":             "narrowbody",
	"a321":             "narrowbody",
	"a220-300":         "narrowbody",
	"a220":             "narrowbody",

	// Regional aircraft (turboprops and regional jets)
	"dash 8-400":      "regional",
	"dash 8":          "regional",
	"dash-8":          "regional",
	"q400":            "regional",
	"embraer e195-e2": "regional",
	"embraer e195":    "regional",
	"e195-e2":         "regional",
	"e195":            "regional",
	"embraer":         "regional",
	"crj":             "regional",
	"bombardier crj":  "regional",

	// Cargo aircraft
	"boeing 767-300f": "cargo",
	"boeing 767f":     "cargo",
	"767-300f":        "cargo",
	"767f":            "cargo",
	"boeing 757-200f": "cargo",
	"boeing 757f":     "cargo",
	"757-200f":        "cargo",
	"757f":            "cargo",
	"airbus a300-600f": "cargo",
	"airbus a300f":     "cargo",
	"a300-600f":        "cargo",
	"a300f":            "cargo",
}

var categoryClass = map[string]Class{
	"widebody":   ClassJet,
	"narrowbody": ClassJet,
	"regional":   ClassTurboprop, // regional jets/turboprops use turboprop bands
	"cargo":      ClassJet,
}

// knownKeys holds the table keys sorted longest first (ties alphabetical)
// so substring matching has a declared, stable precedence.
var knownKeys = func() []string {
	keys := make([]string, 0, len(knownAircraft))
	for k := range knownAircraft {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Classify maps a free-text aircraft descriptor to a constraint class.
// The second return reports whether anything matched; unmatched descriptors
// default to jet.
func Classify(planeType string) (Class, bool) {
	normalized := strings.ToLower(strings.TrimSpace(planeType))
	if normalized == "" {
		return ClassJet, false
	}

	for _, key := range knownKeys {
		if strings.Contains(normalized, key) {
			return categoryClass[knownAircraft[key]], true
		}
	}

	// Keyword fallback, in fixed order.
	switch {
	case strings.Contains(normalized, "heli"):
		return ClassHelicopter, true
	case strings.Contains(normalized, "turboprop"),
		strings.Contains(normalized, "turbo") && strings.Contains(normalized, "prop"):
		return ClassTurboprop, true
	case strings.Contains(normalized, "prop"), strings.Contains(normalized, "piston"):
		return ClassProp, true
	case strings.Contains(normalized, "jet"):
		return ClassJet, true
	case strings.Contains(normalized, "boeing"), strings.Contains(normalized, "airbus"):
		return ClassJet, true
	case strings.HasPrefix(normalized, "b7"),
		strings.HasPrefix(normalized, "a3"),
		strings.HasPrefix(normalized, "a2"):
		return ClassJet, true
	}

	return ClassJet, false
}

// Validate returns human-readable issues for a flight whose speed or
// altitude falls outside its class band; an empty slice means valid.
// An unmatched descriptor is reported but still validated against jet bands.
func Validate(fp *FlightPlan) []string {
	var issues []string

	class, matched := Classify(fp.PlaneType)
	c := classConstraints[class]

	if !matched {
		issues = append(issues, fmt.Sprintf(
			"%s: unknown plane type %q, defaulting to %q constraints", fp.ACID, fp.PlaneType, class))
	}
	if fp.SpeedKt < c.MinSpeedKt || fp.SpeedKt > c.MaxSpeedKt {
		issues = append(issues, fmt.Sprintf(
			"%s: speed %dkt outside %d-%dkt", fp.ACID, fp.SpeedKt, c.MinSpeedKt, c.MaxSpeedKt))
	}
	if fp.AltitudeFt < c.MinAltitudeFt || fp.AltitudeFt > c.MaxAltitudeFt {
		issues = append(issues, fmt.Sprintf(
			"%s: altitude %dft outside %d-%dft", fp.ACID, fp.AltitudeFt, c.MinAltitudeFt, c.MaxAltitudeFt))
	}
	return issues
}
