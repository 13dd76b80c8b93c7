package entity

// Store is the typed entity/component container (spec §4.4). It holds
// concrete maps per entity kind rather than a generic component table —
// riders, drivers and trips each own a fixed, known set of components, so a
// generic query layer would only add indirection.
//
// Not safe for concurrent use; the engine is single-threaded (spec §5).
type Store struct {
	riders  map[ID]*Rider
	drivers map[ID]*Driver
	trips   map[ID]*Trip

	nextID ID

	deferred []func(*Store)
}

// NewStore returns an empty entity store.
func NewStore() *Store {
	return &Store{
		riders:  make(map[ID]*Rider),
		drivers: make(map[ID]*Driver),
		trips:   make(map[ID]*Trip),
	}
}

func (s *Store) allocID() ID {
	s.nextID++
	return s.nextID
}

// SpawnRider inserts a new rider, assigning it a fresh ID.
func (s *Store) SpawnRider(r *Rider) ID {
	id := s.allocID()
	r.ID = id
	s.riders[id] = r
	return id
}

// SpawnDriver inserts a new driver, assigning it a fresh ID.
func (s *Store) SpawnDriver(d *Driver) ID {
	id := s.allocID()
	d.ID = id
	s.drivers[id] = d
	return id
}

// SpawnTrip inserts a new trip, assigning it a fresh ID.
func (s *Store) SpawnTrip(t *Trip) ID {
	id := s.allocID()
	t.ID = id
	s.trips[id] = t
	return id
}

// Rider looks up a rider by ID. The second return value is false if the
// rider has been despawned (spec §7: "stale event" handling relies on this).
func (s *Store) Rider(id ID) (*Rider, bool) {
	r, ok := s.riders[id]
	return r, ok
}

func (s *Store) Driver(id ID) (*Driver, bool) {
	d, ok := s.drivers[id]
	return d, ok
}

func (s *Store) Trip(id ID) (*Trip, bool) {
	t, ok := s.trips[id]
	return t, ok
}

// DespawnRider removes a rider immediately. Callers mutating state during
// event handling should generally prefer DeferDespawnRider so in-flight
// iteration over the rider map is not invalidated mid-event.
func (s *Store) DespawnRider(id ID) {
	delete(s.riders, id)
}

func (s *Store) DespawnDriver(id ID) {
	delete(s.drivers, id)
}

func (s *Store) DespawnTrip(id ID) {
	delete(s.trips, id)
}

// Defer enqueues a mutation to be applied at the next Flush (spec §4.4:
// "deferred commands... applied at a well-defined flush point before the
// next event is dispatched").
func (s *Store) Defer(cmd func(*Store)) {
	s.deferred = append(s.deferred, cmd)
}

// DeferDespawnRider queues a rider despawn for the next Flush.
func (s *Store) DeferDespawnRider(id ID) {
	s.Defer(func(st *Store) { st.DespawnRider(id) })
}

func (s *Store) DeferDespawnDriver(id ID) {
	s.Defer(func(st *Store) { st.DespawnDriver(id) })
}

func (s *Store) DeferDespawnTrip(id ID) {
	s.Defer(func(st *Store) { st.DespawnTrip(id) })
}

// Flush applies all deferred commands in enqueue order and clears the
// queue. Called once per dispatched event by the scenario runner, never
// from inside a handler.
func (s *Store) Flush() {
	if len(s.deferred) == 0 {
		return
	}
	cmds := s.deferred
	s.deferred = nil
	for _, cmd := range cmds {
		cmd(s)
	}
}

// Riders returns every live rider. Callers needing a stable iteration
// order (for determinism, spec §5) must sort by ID themselves.
func (s *Store) Riders() map[ID]*Rider {
	return s.riders
}

func (s *Store) Drivers() map[ID]*Driver {
	return s.drivers
}

func (s *Store) Trips() map[ID]*Trip {
	return s.trips
}

// RiderCount, DriverCount and TripCount report live entity counts.
func (s *Store) RiderCount() int  { return len(s.riders) }
func (s *Store) DriverCount() int { return len(s.drivers) }
func (s *Store) TripCount() int   { return len(s.trips) }
