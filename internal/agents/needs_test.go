package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveFood(t *testing.T) {
	t.Run("divides by member count and scales by role", func(t *testing.T) {
		got := EffectiveFood(100, 20, 10, RoleLaborer)
		assert.InDelta(t, (100+0.5*20)/10*RoleLaborer.FoodRoleModifier(), got, 1e-9)
	})

	t.Run("zero members treated as one", func(t *testing.T) {
		got := EffectiveFood(50, 0, 0, RoleLaborer)
		assert.InDelta(t, 50*RoleLaborer.FoodRoleModifier(), got, 1e-9)
	})
}

func TestUpdateFoodSecurity(t *testing.T) {
	tests := []struct {
		name    string
		current FoodSecurity
		food    float64
		want    FoodSecurity
	}{
		{"secure stays secure above stress threshold", FoodSecure, 10, FoodSecure},
		{"secure drops to stressed below stress threshold", FoodSecure, 2.9, FoodStressed},
		{"secure drops straight to desperate below desperate threshold", FoodSecure, 0.5, FoodDesperate},
		{"stressed recovers to secure at secure threshold", FoodStressed, 5.0, FoodSecure},
		{"stressed falls to desperate below desperate threshold", FoodStressed, 0.9, FoodDesperate},
		{"stressed holds in the middle band", FoodStressed, 2.0, FoodStressed},
		{"desperate needs a bigger jump than the plain threshold to reach secure", FoodDesperate, 5.0, FoodStressed},
		{"desperate reaches secure only past the inflated threshold", FoodDesperate, 6.5, FoodSecure},
		{"desperate stays desperate just under its recovery threshold", FoodDesperate, 3.0, FoodDesperate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpdateFoodSecurity(tt.current, tt.food))
		})
	}
}

func TestBelongingScore(t *testing.T) {
	t.Run("interaction bonus caps at 0.3", func(t *testing.T) {
		low := BelongingScore(BelongingInputs{InteractionCount: 1})
		high := BelongingScore(BelongingInputs{InteractionCount: 20})
		capped := BelongingScore(BelongingInputs{InteractionCount: 3})
		assert.Less(t, low, high)
		assert.InDelta(t, high, capped, 1e-9)
	})

	t.Run("co-location and ritual attendance each add a fixed bonus", func(t *testing.T) {
		base := BelongingScore(BelongingInputs{})
		withRitual := BelongingScore(BelongingInputs{RitualAttendanceScore: 1.0})
		withColocation := BelongingScore(BelongingInputs{CoLocatedWithFactionMate: true})
		assert.InDelta(t, base+0.1, withRitual, 1e-9)
		assert.InDelta(t, base+0.1, withColocation, 1e-9)
	})
}

func TestUpdateSocialBelonging(t *testing.T) {
	tests := []struct {
		name    string
		current SocialBelonging
		score   float64
		want    SocialBelonging
	}{
		{"integrated stays integrated", Integrated, 0.9, Integrated},
		{"integrated drops to peripheral", Integrated, 0.3, Peripheral},
		{"integrated drops straight to isolated", Integrated, 0.05, Isolated},
		{"peripheral recovers to integrated at threshold", Peripheral, 1.0, Integrated},
		{"peripheral falls to isolated below floor", Peripheral, 0.05, Isolated},
		{"isolated needs an inflated score to reach integrated directly", Isolated, 1.1, Peripheral},
		{"isolated reaches integrated only past the inflated threshold", Isolated, 1.25, Integrated},
		{"isolated stays isolated below the inflated peripheral threshold", Isolated, 0.5, Isolated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpdateSocialBelonging(tt.current, tt.score))
		})
	}
}

func TestInteractionTracker(t *testing.T) {
	tr := NewInteractionTracker()
	id := AgentID("agent_00001")

	assert.Equal(t, 0, tr.Count(id))
	tr.Record(id)
	tr.Record(id)
	assert.Equal(t, 2, tr.Count(id))

	t.Run("decay is a no-op inside the window", func(t *testing.T) {
		tr.DecayInteractionCounts(50)
		assert.Equal(t, 2, tr.Count(id))
	})

	t.Run("decay halves counts once the window elapses", func(t *testing.T) {
		tr.DecayInteractionCounts(100)
		assert.Equal(t, 1, tr.Count(id))
	})

	t.Run("decay removes counts that reach zero", func(t *testing.T) {
		tr.DecayInteractionCounts(200)
		assert.Equal(t, 0, tr.Count(id))
	})
}
