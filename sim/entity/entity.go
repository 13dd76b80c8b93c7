// Package entity implements the typed entity/component store (spec Component D):
// a compact container of riders, drivers and trips with attached components,
// supporting deferred spawn/despawn so handlers observe a consistent snapshot
// for the duration of a single event (spec §4.4, §9 "Deferred mutations").
package entity

// ID uniquely identifies an entity in the store. Distinct type (not an alias)
// to avoid accidentally mixing it with other integer-keyed identifiers.
type ID uint64

// Ref is a non-owning, optional reference to another entity (spec §9: "weak
// inter-entity references"). The zero value (ok=false) means "no reference".
type Ref struct {
	id ID
	ok bool
}

// NoRef is the empty reference.
var NoRef = Ref{}

// NewRef wraps an entity ID as a populated reference.
func NewRef(id ID) Ref {
	return Ref{id: id, ok: true}
}

// Get returns the referenced ID and whether the reference is set.
func (r Ref) Get() (ID, bool) {
	return r.id, r.ok
}

// IsSet reports whether the reference points at an entity.
func (r Ref) IsSet() bool {
	return r.ok
}
