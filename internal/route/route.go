// Package route parses filed route strings into ordered waypoint lists.
package route

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"flight_insight/internal/airports"
	"flight_insight/internal/geo"
)

// Waypoint tokens look like "43.68N/79.62W": degrees with an optional
// decimal fraction, N/S for latitude sign, E/W for longitude sign.
var waypointRe = regexp.MustCompile(`^(?i)(\d+(?:\.\d+)?)([NS])/(\d+(?:\.\d+)?)([EW])$`)

// TokenError reports a route token that does not match the waypoint grammar.
type TokenError struct {
	Token string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("invalid waypoint %q", e.Token)
}

// ErrTooShort is returned when a route cannot be expanded to at least two
// waypoints.
var ErrTooShort = fmt.Errorf("route must include at least two waypoints")

// ParseWaypoint parses a single waypoint token into signed decimal degrees.
func ParseWaypoint(token string) (geo.Point, error) {
	m := waypointRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return geo.Point{}, &TokenError{Token: token}
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return geo.Point{}, &TokenError{Token: token}
	}
	lon, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return geo.Point{}, &TokenError{Token: token}
	}

	if strings.EqualFold(m[2], "S") {
		lat = -lat
	}
	if strings.EqualFold(m[4], "W") {
		lon = -lon
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

// FormatWaypoint renders a point back into token form, e.g. "43.68N/79.62W".
func FormatWaypoint(p geo.Point) string {
	latDir, lonDir := "N", "E"
	lat, lon := p.Lat, p.Lon
	if lat < 0 {
		latDir = "S"
		lat = -lat
	}
	if lon < 0 {
		lonDir = "W"
		lon = -lon
	}
	return fmt.Sprintf("%s%s/%s%s",
		strconv.FormatFloat(lat, 'f', -1, 64), latDir,
		strconv.FormatFloat(lon, 'f', -1, 64), lonDir)
}

// Parse tokenizes a whitespace-separated route string into waypoints.
//
// A single-waypoint route is expanded using the departure and arrival
// airports: departure -> waypoint -> arrival when both resolve, or a
// two-point route when only one does. If the result is still shorter than
// two points, Parse fails.
func Parse(routeStr, departureAirport, arrivalAirport string, lookup airports.Lookup) ([]geo.Point, error) {
	if strings.TrimSpace(routeStr) == "" {
		return nil, fmt.Errorf("route is empty")
	}

	var points []geo.Point
	for _, token := range strings.Fields(routeStr) {
		p, err := ParseWaypoint(token)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if len(points) == 1 && lookup != nil {
		dep, hasDep := lookup.Coords(departureAirport)
		arr, hasArr := lookup.Coords(arrivalAirport)
		switch {
		case hasDep && hasArr:
			points = []geo.Point{dep, points[0], arr}
		case hasDep:
			points = []geo.Point{dep, points[0]}
		case hasArr:
			points = []geo.Point{points[0], arr}
		}
	}

	if len(points) < 2 {
		return nil, ErrTooShort
	}
	return points, nil
}
