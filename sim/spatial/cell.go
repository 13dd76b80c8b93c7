// Package spatial provides the H3-like hexagonal grid primitive (spec
// Component A): cell distances, grid paths, grid disks, and the pluggable
// RouteProvider abstraction built on top of it.
//
// Grounded on original_source/.../spatial.rs (h3o-based) and the teacher's
// per-concern file layout (sim/cluster/*.go). The grid itself is backed by
// github.com/uber/h3-go/v4, the canonical Go binding for Uber's H3 system,
// at a fixed resolution chosen to match spec.md's ~240m edge length (H3
// resolution 9 has an average hexagon edge of ~174m and cell area of
// ~0.1051 km^2 — the closest standard resolution to the spec's target and
// the same resolution original_source uses).
package spatial

import (
	"math"

	h3 "github.com/uber/h3-go/v4"
)

// Resolution is the fixed H3 resolution used throughout the simulation.
const Resolution = 9

// CellID is an opaque 64-bit H3 cell index (spec §3).
type CellID uint64

// LatLngToCell snaps a latitude/longitude pair to a cell at the fixed
// resolution. Returns an error if the coordinates are out of range.
func LatLngToCell(lat, lng float64) (CellID, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), Resolution)
	if err != nil {
		return 0, err
	}
	return CellID(cell), nil
}

// ToLatLng returns the center coordinate of a cell.
func (c CellID) ToLatLng() (lat, lng float64) {
	ll := h3.Cell(c).LatLng()
	return ll.Lat, ll.Lng
}

// GridDistance returns the shortest hop count between two cells, or -1 if
// undefined (cells too far apart / on different base cells with no path).
func GridDistance(a, b CellID) int {
	d, err := h3.Cell(a).GridDistance(h3.Cell(b))
	if err != nil {
		return -1
	}
	return d
}

// GridPathCells returns the ordered sequence of cells along the grid from a
// to b, inclusive of both endpoints. Returns nil if no path exists.
func GridPathCells(a, b CellID) []CellID {
	path, err := h3.Cell(a).GridPathCells(h3.Cell(b))
	if err != nil {
		return nil
	}
	out := make([]CellID, len(path))
	for i, c := range path {
		out[i] = CellID(c)
	}
	return out
}

// GridDisk returns the set of cells within k rings of c (inclusive of c
// itself), in H3's native (unsorted) order. Callers that need deterministic
// iteration must sort the result themselves (spec §9: "deterministic
// ordering" — any container iterated in the hot path must be sorted).
func GridDisk(c CellID, k int) []CellID {
	disk := h3.Cell(c).GridDisk(k)
	out := make([]CellID, len(disk))
	for i, cell := range disk {
		out[i] = CellID(cell)
	}
	return out
}

// earthRadiusKm is the mean Earth radius used for the haversine formula.
const earthRadiusKm = 6371.0088

// DistanceKm computes the great-circle (haversine) distance between two
// cell centers, in kilometers.
func DistanceKm(a, b CellID) float64 {
	lat1, lng1 := a.ToLatLng()
	lat2, lng2 := b.ToLatLng()

	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dPhi := toRad(lat2 - lat1)
	dLambda := toRad(lng2 - lng1)

	sinDPhi2 := math.Sin(dPhi / 2)
	sinDLambda2 := math.Sin(dLambda / 2)
	h := sinDPhi2*sinDPhi2 + math.Cos(phi1)*math.Cos(phi2)*sinDLambda2*sinDLambda2
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
