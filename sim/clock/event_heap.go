package clock

import "container/heap"

// EventHeap implements a priority queue ordered strictly by
// (timestamp, sequence) — spec §3 invariant 5 and §5: "no dependence on...
// hash iteration order". Grounded on sim/cluster/event_heap.go in the
// teacher repo, minus its type-priority tie-break (the domain spec uses
// insertion sequence only).
type EventHeap struct {
	events []Event
}

// NewEventHeap returns an empty, heap-initialized queue.
func NewEventHeap() *EventHeap {
	h := &EventHeap{events: make([]Event, 0)}
	heap.Init(h)
	return h
}

func (h *EventHeap) Len() int { return len(h.events) }

func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ei.TimestampMs != ej.TimestampMs {
		return ei.TimestampMs < ej.TimestampMs
	}
	return ei.Sequence < ej.Sequence
}

func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

func (h *EventHeap) Push(x interface{}) {
	h.events = append(h.events, x.(Event))
}

func (h *EventHeap) Pop() interface{} {
	old := h.events
	n := len(old)
	item := old[n-1]
	h.events = old[0 : n-1]
	return item
}

// Schedule inserts an event, maintaining the heap invariant.
func (h *EventHeap) Schedule(e Event) {
	heap.Push(h, e)
}

// PopNext removes and returns the earliest event, or ok=false if empty.
func (h *EventHeap) PopNext() (Event, bool) {
	if h.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(h).(Event), true
}

// Peek returns the earliest event without removing it.
func (h *EventHeap) Peek() (Event, bool) {
	if h.Len() == 0 {
		return Event{}, false
	}
	return h.events[0], true
}
