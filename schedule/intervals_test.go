package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func TestParseTimeCap(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"minutes and seconds", "10:00", 10},
		{"half minute", "07:30", 7.5},
		{"plain integer minutes", "12", 12},
		{"empty falls back to default", "", DefaultTimeCapMinutes},
		{"garbage falls back to default", "abc", DefaultTimeCapMinutes},
		{"malformed pair falls back to default", "10:xx", DefaultTimeCapMinutes},
		{"zero minutes falls back to default", "0", DefaultTimeCapMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, ParseTimeCap(tt.raw), 0.001)
		})
	}
}

func TestEffectiveIntervals(t *testing.T) {
	t.Run("configured values pass through", func(t *testing.T) {
		transition, category, wod := EffectiveIntervals(models.IntervalConfig{
			TransitionMinutes:       2,
			CategoryIntervalMinutes: 5,
			WodIntervalMinutes:      15,
		})
		require.Equal(t, 2, transition)
		require.Equal(t, 5, category)
		require.Equal(t, 15, wod)
	})

	t.Run("zero intervals fall back to transition", func(t *testing.T) {
		transition, category, wod := EffectiveIntervals(models.IntervalConfig{
			TransitionMinutes: 3,
		})
		require.Equal(t, 3, transition)
		require.Equal(t, 3, category)
		require.Equal(t, 3, wod)
	})

	t.Run("negative transition clamps to zero", func(t *testing.T) {
		transition, category, wod := EffectiveIntervals(models.IntervalConfig{
			TransitionMinutes: -1,
		})
		require.Zero(t, transition)
		require.Zero(t, category)
		require.Zero(t, wod)
	})
}

func TestDayStart(t *testing.T) {
	day := &models.ChampionshipDay{
		Date:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "08:30",
	}
	start, ok := DayStart(day)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC), start)

	t.Run("nil day", func(t *testing.T) {
		_, ok := DayStart(nil)
		require.False(t, ok)
	})

	t.Run("malformed start time", func(t *testing.T) {
		_, ok := DayStart(&models.ChampionshipDay{Date: day.Date, StartTime: "morning"})
		require.False(t, ok)
	})
}
