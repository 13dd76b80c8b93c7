package clock

import "github.com/ridesim/ridesim/sim/entity"

// SimulationClock owns the event queue and the monotonic simulation time
// (spec §3, §4.3). EpochMs maps simulation time 0 to a real UTC instant,
// used by time-of-day lookups (traffic profile, spawner diurnal rates).
type SimulationClock struct {
	nowMs   uint64
	epochMs int64
	queue   *EventHeap
	// sequence is a per-clock insertion counter, mirroring the teacher's
	// nextEventID: it is the sole tie-breaker for same-timestamp events.
	sequence uint64
}

// NewSimulationClock returns a clock starting at time 0 with the given
// epoch (Unix ms corresponding to simulation time 0).
func NewSimulationClock(epochMs int64) *SimulationClock {
	return &SimulationClock{
		epochMs: epochMs,
		queue:   NewEventHeap(),
	}
}

// NowMs returns the current simulation time.
func (c *SimulationClock) NowMs() uint64 { return c.nowMs }

// EpochMs returns the real-world instant simulation time 0 maps to.
func (c *SimulationClock) EpochMs() int64 { return c.epochMs }

func (c *SimulationClock) nextSequence() uint64 {
	c.sequence++
	return c.sequence
}

// ScheduleAt inserts an event at an absolute simulation timestamp.
func (c *SimulationClock) ScheduleAt(timestampMs uint64, kind Kind, subject entity.Ref) {
	c.queue.Schedule(Event{
		TimestampMs: timestampMs,
		Kind:        kind,
		Subject:     subject,
		Sequence:    c.nextSequence(),
	})
}

// ScheduleIn inserts an event delta milliseconds after now.
func (c *SimulationClock) ScheduleIn(deltaMs uint64, kind Kind, subject entity.Ref) {
	c.ScheduleAt(c.nowMs+deltaMs, kind, subject)
}

// ScheduleInSecs inserts an event delta seconds after now.
func (c *SimulationClock) ScheduleInSecs(deltaSecs float64, kind Kind, subject entity.Ref) {
	c.ScheduleIn(uint64(deltaSecs*1000.0), kind, subject)
}

// PopNext removes and returns the earliest-queued event, advancing now_ms
// to its timestamp. now_ms never moves backward (spec §3 invariant 4):
// ScheduleAt accepts any absolute timestamp, so an event earlier than now_ms
// can be queued; popping such an event leaves now_ms unchanged.
func (c *SimulationClock) PopNext() (Event, bool) {
	e, ok := c.queue.PopNext()
	if !ok {
		return Event{}, false
	}
	if e.TimestampMs > c.nowMs {
		c.nowMs = e.TimestampMs
	}
	return e, true
}

// NextEventTime returns the timestamp of the earliest queued event.
func (c *SimulationClock) NextEventTime() (uint64, bool) {
	e, ok := c.queue.Peek()
	if !ok {
		return 0, false
	}
	return e.TimestampMs, true
}

// PendingEventCount returns the number of events still queued.
func (c *SimulationClock) PendingEventCount() int { return c.queue.Len() }

// IsEmpty reports whether the queue has no pending events.
func (c *SimulationClock) IsEmpty() bool { return c.queue.Len() == 0 }
