package clock

import (
	"testing"

	"github.com/ridesim/ridesim/sim/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopNextOrdersByTimestampThenSequence(t *testing.T) {
	c := NewSimulationClock(0)
	c.ScheduleAt(100, MoveStep, entity.NoRef)
	c.ScheduleAt(50, TripStarted, entity.NoRef)
	c.ScheduleAt(50, ShowQuote, entity.NoRef)

	first, ok := c.PopNext()
	require.True(t, ok)
	assert.Equal(t, TripStarted, first.Kind, "earlier-inserted event at the same timestamp goes first")

	second, ok := c.PopNext()
	require.True(t, ok)
	assert.Equal(t, ShowQuote, second.Kind)

	third, ok := c.PopNext()
	require.True(t, ok)
	assert.Equal(t, MoveStep, third.Kind)
}

func TestNowMsNeverDecreases(t *testing.T) {
	c := NewSimulationClock(0)
	c.ScheduleAt(10, SimulationStarted, entity.NoRef)
	c.ScheduleAt(5, SpawnRider, entity.NoRef)

	_, _ = c.PopNext()
	assert.Equal(t, uint64(5), c.NowMs())
	_, _ = c.PopNext()
	assert.Equal(t, uint64(10), c.NowMs())
}

func TestScheduleInIsRelativeToNow(t *testing.T) {
	c := NewSimulationClock(0)
	c.ScheduleAt(1000, SpawnRider, entity.NoRef)
	_, _ = c.PopNext()
	require.Equal(t, uint64(1000), c.NowMs())

	c.ScheduleIn(500, MoveStep, entity.NoRef)
	e, ok := c.PopNext()
	require.True(t, ok)
	assert.Equal(t, uint64(1500), e.TimestampMs)
}

func TestScheduleInSecsConvertsToMilliseconds(t *testing.T) {
	c := NewSimulationClock(0)
	c.ScheduleInSecs(2.5, SnapshotTick, entity.NoRef)
	e, ok := c.PopNext()
	require.True(t, ok)
	assert.Equal(t, uint64(2500), e.TimestampMs)
}

func TestIsEmptyAndPendingEventCount(t *testing.T) {
	c := NewSimulationClock(0)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.PendingEventCount())

	c.ScheduleAt(0, SimulationStarted, entity.NoRef)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 1, c.PendingEventCount())

	_, _ = c.PopNext()
	assert.True(t, c.IsEmpty())
}

func TestNextEventTimeDoesNotDequeue(t *testing.T) {
	c := NewSimulationClock(0)
	c.ScheduleAt(42, SimulationStarted, entity.NoRef)

	ts, ok := c.NextEventTime()
	require.True(t, ok)
	assert.Equal(t, uint64(42), ts)
	assert.Equal(t, 1, c.PendingEventCount())
}

func TestPopNextOnEmptyQueue(t *testing.T) {
	c := NewSimulationClock(0)
	_, ok := c.PopNext()
	assert.False(t, ok)
}
