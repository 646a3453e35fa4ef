package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/crossroads/internal/prng"
)

func TestSelectFallsBackToIdleWhenAllWeightsZero(t *testing.T) {
	ctx := &Context{Stream: prng.New(1)}
	weighted := []Weighted{{Candidate: Candidate{Action: Work}, Weight: 0}}
	got := Select(ctx, weighted)
	assert.Equal(t, Idle, got.Action)
}

func TestSelectAlwaysPicksTheOnlyPositiveCandidate(t *testing.T) {
	ctx := &Context{Stream: prng.New(1)}
	weighted := []Weighted{
		{Candidate: Candidate{Action: Work}, Weight: 0},
		{Candidate: Candidate{Action: Trade}, Weight: 10},
	}
	for i := 0; i < 20; i++ {
		got := Select(ctx, weighted)
		assert.Equal(t, Trade, got.Action)
	}
}

func TestSelectIsDeterministicForAGivenSeed(t *testing.T) {
	weighted := []Weighted{
		{Candidate: Candidate{Action: Work}, Weight: 1},
		{Candidate: Candidate{Action: Trade}, Weight: 1},
		{Candidate: Candidate{Action: Steal}, Weight: 1},
	}
	a := Select(&Context{Stream: prng.New(7)}, weighted)
	b := Select(&Context{Stream: prng.New(7)}, weighted)
	assert.Equal(t, a.Action, b.Action)
}
