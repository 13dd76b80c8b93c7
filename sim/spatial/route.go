package spatial

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Route is the result of a routing query between two cells (spec §4.1).
type Route struct {
	Cells      []CellID
	DistanceKm float64
	DurationS  float64
}

// RouteProvider resolves a route between two cells. A miss is surfaced as
// (Route{}, false), never an error — spec §7 treats routing misses as "cannot
// move this step", not a fatal condition.
type RouteProvider interface {
	Route(from, to CellID) (Route, bool)
}

// GridRouter routes along the H3 grid path using haversine distance and a
// fixed 40 km/h average speed assumption for duration (spec §4.1).
type GridRouter struct{}

const gridRouterAvgSpeedKmh = 40.0

func (GridRouter) Route(from, to CellID) (Route, bool) {
	cells := GridPathCells(from, to)
	if cells == nil {
		return Route{}, false
	}
	distanceKm := DistanceKm(from, to)
	durationS := 0.0
	if distanceKm > 0 {
		durationS = (distanceKm / gridRouterAvgSpeedKmh) * 3600.0
	}
	return Route{Cells: cells, DistanceKm: distanceKm, DurationS: durationS}, true
}

// externalRoutePolyline is the minimal subset of an external routing
// service's response this engine understands: a distance/duration plus a
// polyline of (lat, lng) waypoints to snap to cells.
type externalRoutePolyline struct {
	DistanceKm float64     `json:"distance_km"`
	DurationS  float64     `json:"duration_s"`
	Waypoints  [][2]float64 `json:"waypoints"` // [lat, lng] pairs
}

// ExternalHTTPRouter calls a remote routing HTTP endpoint (spec §4.1, §5:
// "hard per-request timeouts (≈3-5s)"). On any failure — network error,
// non-200 status, malformed body — it returns (Route{}, false); the caller
// treats this exactly like a grid-routing miss.
type ExternalHTTPRouter struct {
	Endpoint string
	Client   *http.Client
}

// NewExternalHTTPRouter builds a router with a bounded request timeout.
func NewExternalHTTPRouter(endpoint string) *ExternalHTTPRouter {
	return &ExternalHTTPRouter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (r *ExternalHTTPRouter) Route(from, to CellID) (Route, bool) {
	fromLat, fromLng := from.ToLatLng()
	toLat, toLng := to.ToLatLng()
	url := fmt.Sprintf("%s/route?from_lat=%f&from_lng=%f&to_lat=%f&to_lng=%f",
		r.Endpoint, fromLat, fromLng, toLat, toLng)

	resp, err := r.Client.Get(url)
	if err != nil {
		return Route{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Route{}, false
	}

	var parsed externalRoutePolyline
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Route{}, false
	}

	cells := make([]CellID, 0, len(parsed.Waypoints))
	for _, wp := range parsed.Waypoints {
		cell, err := LatLngToCell(wp[0], wp[1])
		if err != nil {
			continue
		}
		// Deduplicate consecutive duplicate cells (spec §4.1).
		if len(cells) > 0 && cells[len(cells)-1] == cell {
			continue
		}
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return Route{}, false
	}

	return Route{Cells: cells, DistanceKm: parsed.DistanceKm, DurationS: parsed.DurationS}, true
}

// cellPairKey is the lookup key for a precomputed route table.
type cellPairKey struct {
	from, to CellID
}

// PrecomputedTableRouter serves routes from an in-memory hash table,
// typically populated at scenario-build time from a serialized file (spec
// §4.1). Building the table from disk is left to the scenario builder;
// this type only owns the lookup.
type PrecomputedTableRouter struct {
	table map[cellPairKey]Route
}

// NewPrecomputedTableRouter wraps a pre-populated route table.
func NewPrecomputedTableRouter(table map[[2]CellID]Route) *PrecomputedTableRouter {
	t := make(map[cellPairKey]Route, len(table))
	for k, v := range table {
		t[cellPairKey{from: k[0], to: k[1]}] = v
	}
	return &PrecomputedTableRouter{table: t}
}

func (r *PrecomputedTableRouter) Route(from, to CellID) (Route, bool) {
	route, ok := r.table[cellPairKey{from: from, to: to}]
	return route, ok
}
