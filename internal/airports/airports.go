// Package airports resolves ICAO airport codes to coordinates.
//
// The analysis core only depends on the Lookup interface; the bundled
// Canadian table is injected data, and callers are free to substitute any
// other source (a database-backed lookup, a test fixture, ...).
package airports

import (
	"strings"

	"flight_insight/internal/geo"
)

// Lookup resolves an ICAO code to coordinates. The second return is false
// when the code is unknown.
type Lookup interface {
	Coords(code string) (geo.Point, bool)
}

// Table is a static in-memory Lookup keyed by uppercase ICAO code.
type Table map[string]geo.Point

// Coords implements Lookup. Codes are trimmed and upper-cased before the
// lookup; an empty code is never found.
func (t Table) Coords(code string) (geo.Point, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return geo.Point{}, false
	}
	p, ok := t[code]
	return p, ok
}

// Canadian returns the bundled table of Canadian airports.
func Canadian() Table {
	return Table{
		// Major hubs
		"CYYZ": {Lat: 43.6777, Lon: -79.6248},   // Toronto Pearson
		"CYVR": {Lat: 49.1947, Lon: -123.1839},  // Vancouver
		"CYUL": {Lat: 45.4706, Lon: -73.7408},   // Montreal Trudeau
		"CYOW": {Lat: 45.3225, Lon: -75.6692},   // Ottawa
		"CYYC": {Lat: 51.1225, Lon: -114.0139},  // Calgary
		"CYEG": {Lat: 53.3097, Lon: -113.5797},  // Edmonton
		"CYWG": {Lat: 49.9100, Lon: -97.2399},   // Winnipeg
		"CYQB": {Lat: 46.7911, Lon: -71.3933},   // Quebec City
		"CYHZ": {Lat: 44.8808, Lon: -63.5086},   // Halifax
		"CYXE": {Lat: 52.1708, Lon: -106.6997},  // Saskatoon
		"CYQR": {Lat: 50.4319, Lon: -104.6656},  // Regina
		"CYYJ": {Lat: 48.6469, Lon: -123.4258},  // Victoria
		"CYYT": {Lat: 47.6186, Lon: -52.7519},   // St. John's
		"CYQM": {Lat: 46.1122, Lon: -64.6786},   // Moncton
		"CYFC": {Lat: 45.8689, Lon: -66.5372},   // Fredericton
		"CYSJ": {Lat: 45.3161, Lon: -65.8903},   // Saint John
		"CYQI": {Lat: 43.8269, Lon: -66.0881},   // Yarmouth
		"CYDF": {Lat: 49.2108, Lon: -57.3914},   // Deer Lake
		"CYQX": {Lat: 48.9369, Lon: -54.5681},   // Gander
		"CYXY": {Lat: 60.7096, Lon: -135.0674},  // Whitehorse
		"CYZF": {Lat: 62.4628, Lon: -114.4403},  // Yellowknife
		"CYFB": {Lat: 63.7561, Lon: -68.5558},   // Iqaluit
		// Secondary airports
		"CYTZ": {Lat: 43.6275, Lon: -79.3962},   // Toronto Billy Bishop
		"CYOO": {Lat: 43.9228, Lon: -78.8950},   // Oshawa
		"CYKF": {Lat: 43.4608, Lon: -80.3786},   // Waterloo
		"CYXU": {Lat: 43.0356, Lon: -81.1539},   // London
		"CYHM": {Lat: 43.1736, Lon: -79.9350},   // Hamilton
		"CYAM": {Lat: 46.4853, Lon: -84.5094},   // Sault Ste. Marie
		"CYQA": {Lat: 44.9747, Lon: -79.3033},   // Muskoka
		"CYTS": {Lat: 48.5697, Lon: -81.3767},   // Timmins
		"CYVO": {Lat: 48.0533, Lon: -77.7828},   // Val-d'Or
		"CYMX": {Lat: 45.6795, Lon: -74.0387},   // Montreal Mirabel
		"CYHU": {Lat: 45.5175, Lon: -73.4169},   // Montreal St-Hubert
		"CYQY": {Lat: 46.1614, Lon: -60.0478},   // Sydney
		"CYPR": {Lat: 54.2861, Lon: -130.4447},  // Prince Rupert
		"CYXS": {Lat: 53.8894, Lon: -122.6789},  // Prince George
		"CYKA": {Lat: 50.7022, Lon: -120.4444},  // Kamloops
		"CYLW": {Lat: 49.9561, Lon: -119.3778},  // Kelowna
		"CYCD": {Lat: 49.0522, Lon: -123.8700},  // Nanaimo
		"CYXX": {Lat: 49.0253, Lon: -122.3608},  // Abbotsford
		"CYBL": {Lat: 49.9508, Lon: -125.2708},  // Campbell River
		"CYXC": {Lat: 49.6108, Lon: -115.7822},  // Cranbrook
		"CYYF": {Lat: 49.4631, Lon: -119.6022},  // Penticton
		"CYQQ": {Lat: 49.7108, Lon: -124.8867},  // Comox
		"CYZT": {Lat: 50.6806, Lon: -127.3667},  // Port Hardy
	}
}
