package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForDecisionIsDeterministic(t *testing.T) {
	s := NewSource(42)
	a := s.ForDecision(7, 0).Float64()
	b := s.ForDecision(7, 0).Float64()
	assert.Equal(t, a, b)
}

func TestForDecisionVariesByCounter(t *testing.T) {
	s := NewSource(42)
	a := s.ForDecision(7, 0).Float64()
	b := s.ForDecision(7, 1).Float64()
	assert.NotEqual(t, a, b)
}

func TestForDecisionVariesBySubject(t *testing.T) {
	s := NewSource(42)
	a := s.ForDecision(7, 0).Float64()
	b := s.ForDecision(8, 0).Float64()
	assert.NotEqual(t, a, b)
}

func TestForDecisionVariesBySeed(t *testing.T) {
	a := NewSource(1).ForDecision(7, 0).Float64()
	b := NewSource(2).ForDecision(7, 0).Float64()
	assert.NotEqual(t, a, b)
}

func TestForNameIsDeterministicAndDistinct(t *testing.T) {
	s := NewSource(42)
	a := s.ForName("rider_spawner").Float64()
	b := s.ForName("rider_spawner").Float64()
	assert.Equal(t, a, b)

	c := s.ForName("driver_spawner").Float64()
	assert.NotEqual(t, a, c)
}
