package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTimestamp(t *testing.T) {
	tests := []struct {
		name string
		tick uint64
		want Timestamp
	}{
		{"tick zero is day one of spring, year one", 0, Timestamp{Tick: 0, Year: 1, Season: Spring, Day: 1}},
		{"end of day one is still day one", TicksPerDay - 1, Timestamp{Tick: TicksPerDay - 1, Year: 1, Season: Spring, Day: 1}},
		{"start of day two", TicksPerDay, Timestamp{Tick: TicksPerDay, Year: 1, Season: Spring, Day: 2}},
		{"start of summer", TicksPerDay * DaysPerSeason, Timestamp{Tick: TicksPerDay * DaysPerSeason, Year: 1, Season: Summer, Day: 1}},
		{"start of year two", TicksPerDay * DaysPerSeason * SeasonsPerYear, Timestamp{Tick: TicksPerDay * DaysPerSeason * SeasonsPerYear, Year: 2, Season: Spring, Day: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTimestamp(tt.tick))
		})
	}
}

func TestSeasonNext(t *testing.T) {
	assert.Equal(t, Summer, Spring.Next())
	assert.Equal(t, Autumn, Summer.Next())
	assert.Equal(t, Winter, Autumn.Next())
	assert.Equal(t, Spring, Winter.Next())
}

func TestSeasonModifiersAndHarshness(t *testing.T) {
	assert.InDelta(t, 0.4, Winter.ProductionModifier(), 1e-9)
	assert.InDelta(t, 1.2, Summer.ProductionModifier(), 1e-9)
	assert.True(t, Winter.IsHarsh())
	assert.False(t, Summer.IsHarsh())
}

func TestTimestampFormatAndMarshalJSON(t *testing.T) {
	ts := DeriveTimestamp(TicksPerDay*DaysPerSeason + TicksPerDay*4)
	assert.Equal(t, "year_1.summer.day_5", ts.Format())

	data, err := json.Marshal(ts)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "year_1.summer.day_5", decoded["date"])
	assert.EqualValues(t, ts.Tick, decoded["tick"])
}
