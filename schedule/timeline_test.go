package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 15, hour, min, 0, 0, time.UTC)
}

// testCalculator: two wods with a 10:00 cap, transition 2, category interval
// 5, wod interval 15.
func testCalculator() *Calculator {
	return &Calculator{
		Config: models.IntervalConfig{
			TransitionMinutes:       2,
			CategoryIntervalMinutes: 5,
			WodIntervalMinutes:      15,
		},
		Wods: map[int]*models.Wod{
			1: {ID: 1, Name: "Event 1", OrderNum: 1, TimeCap: strPtr("10:00")},
			2: {ID: 2, Name: "Event 2", OrderNum: 2, TimeCap: strPtr("10:00")},
		},
		Variations: map[VariationKey]*models.WodCategoryVariation{},
	}
}

func appliedTimes(heats []*models.Heat, updates []Update) map[int]time.Time {
	times := make(map[int]time.Time, len(heats))
	for _, h := range heats {
		if h.ScheduledTime != nil {
			times[h.ID] = *h.ScheduledTime
		}
	}
	for _, u := range updates {
		times[u.HeatID] = u.ScheduledTime
	}
	return times
}

func TestWalkSameWodSameCategory(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 1, HeatNumber: 2},
		{ID: 3, WodID: 1, CategoryID: 1, HeatNumber: 3},
	}

	updates := calc.Walk(heats, WalkOptions{})

	// 10 minute cap + 2 minute transition between consecutive heats.
	times := appliedTimes(heats, updates)
	require.Equal(t, at(9, 0), times[1])
	require.Equal(t, at(9, 12), times[2])
	require.Equal(t, at(9, 24), times[3])
}

func TestWalkCategoryBoundary(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 2, HeatNumber: 2},
	}

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	// Category change uses the 5 minute category interval.
	require.Equal(t, at(9, 15), times[2])
}

func TestWalkWodBoundary(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 2, CategoryID: 1, HeatNumber: 2},
	}

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	// Wod change uses the 15 minute wod interval even though the category
	// repeats.
	require.Equal(t, at(9, 25), times[2])
}

func TestWalkZeroIntervalsFallBackToTransition(t *testing.T) {
	calc := testCalculator()
	calc.Config.CategoryIntervalMinutes = 0
	calc.Config.WodIntervalMinutes = 0

	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 2, HeatNumber: 2},
		{ID: 3, WodID: 2, CategoryID: 2, HeatNumber: 3},
	}

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	require.Equal(t, at(9, 12), times[2])
	require.Equal(t, at(9, 24), times[3])
}

func TestWalkDayBreakAppliedOnce(t *testing.T) {
	calc := testCalculator()
	dayID := 7
	calc.Config.Days = []models.ChampionshipDay{{
		ID:                   dayID,
		DayNumber:            1,
		EnableBreak:          true,
		BreakAfterWodNumber:  intPtr(1),
		BreakDurationMinutes: 60,
	}}
	calc.Wods[1].DayID = &dayID
	calc.Wods[1].DayNumber = intPtr(1)
	calc.Wods[1].OrderNumInDay = intPtr(1)
	calc.Wods[2].DayID = &dayID
	calc.Wods[2].DayNumber = intPtr(1)
	calc.Wods[2].OrderNumInDay = intPtr(2)

	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 2, CategoryID: 1, HeatNumber: 2},
	}

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	// Wod interval 15 + 60 minute lunch break after wod 1.
	require.Equal(t, at(10, 25), times[2])
}

func TestWalkDayChangeReanchors(t *testing.T) {
	calc := testCalculator()
	day1, day2 := 7, 8
	calc.Config.Days = []models.ChampionshipDay{
		{ID: day1, DayNumber: 1, Date: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), StartTime: "09:00"},
		{ID: day2, DayNumber: 2, Date: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), StartTime: "08:00"},
	}
	calc.Wods[1].DayID = &day1
	calc.Wods[1].DayNumber = intPtr(1)
	calc.Wods[1].OrderNumInDay = intPtr(1)
	calc.Wods[2].DayID = &day2
	calc.Wods[2].DayNumber = intPtr(2)
	calc.Wods[2].OrderNumInDay = intPtr(1)

	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(17, 0))},
		{ID: 2, WodID: 2, CategoryID: 1, HeatNumber: 2},
	}

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	require.Equal(t, time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC), times[2])
}

func TestWalkStopsAtLockedPair(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 1, HeatNumber: 2},
		{ID: 3, WodID: 2, CategoryID: 1, HeatNumber: 3, ScheduledTime: timePtr(at(14, 0))},
		{ID: 4, WodID: 2, CategoryID: 1, HeatNumber: 4, ScheduledTime: timePtr(at(14, 12))},
	}
	locked := map[PairKey]bool{{WodID: 2, CategoryID: 1}: true}

	updates := calc.Walk(heats, WalkOptions{LockedPairs: locked})

	times := appliedTimes(heats, updates)
	require.Equal(t, at(9, 12), times[2])
	// Heats of the published pair keep their stored times.
	require.Equal(t, at(14, 0), times[3])
	require.Equal(t, at(14, 12), times[4])
	require.Len(t, updates, 1)
}

func TestWalkNoAnchorIsNoOp(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1},
		{ID: 2, WodID: 1, CategoryID: 1, HeatNumber: 2},
	}

	require.Nil(t, calc.Walk(heats, WalkOptions{}))
}

func TestWalkDefaultStartAnchorsUnscheduled(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1},
		{ID: 2, WodID: 1, CategoryID: 1, HeatNumber: 2},
	}
	start := at(8, 0)

	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{DefaultStart: &start}))

	require.Equal(t, at(8, 0), times[1])
	require.Equal(t, at(8, 12), times[2])
}

func TestWalkIsIdempotent(t *testing.T) {
	calc := testCalculator()
	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 2, HeatNumber: 2},
		{ID: 3, WodID: 2, CategoryID: 2, HeatNumber: 3},
	}

	first := calc.Walk(heats, WalkOptions{})
	for _, u := range first {
		for _, h := range heats {
			if h.ID == u.HeatID {
				applied := u.ScheduledTime
				h.ScheduledTime = &applied
			}
		}
	}

	require.Empty(t, calc.Walk(heats, WalkOptions{}))
}

func TestTimeCapVariationOverridesWodDefault(t *testing.T) {
	calc := testCalculator()
	calc.Variations[VariationKey{WodID: 1, CategoryID: 2}] = &models.WodCategoryVariation{
		WodID: 1, CategoryID: 2, TimeCap: strPtr("07:30"),
	}

	require.InDelta(t, 10.0, calc.TimeCapMinutes(1, 1), 0.001)
	require.InDelta(t, 7.5, calc.TimeCapMinutes(1, 2), 0.001)
	// Unknown wod falls back to the default cap.
	require.InDelta(t, DefaultTimeCapMinutes, calc.TimeCapMinutes(99, 1), 0.001)
}

func TestHeatDurationPrefersEstimatedDuration(t *testing.T) {
	calc := testCalculator()
	calc.Wods[1].EstimatedDurationMinutes = intPtr(25)

	require.InDelta(t, 25.0, calc.HeatDurationMinutes(1, 1), 0.001)
	require.InDelta(t, 10.0, calc.HeatDurationMinutes(2, 1), 0.001)
}

func TestWalkAdvancesByTimeCapNotEstimatedDuration(t *testing.T) {
	calc := testCalculator()
	calc.Wods[1].EstimatedDurationMinutes = intPtr(20)

	heats := []*models.Heat{
		{ID: 1, WodID: 1, CategoryID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, WodID: 1, CategoryID: 1, HeatNumber: 2},
	}
	times := appliedTimes(heats, calc.Walk(heats, WalkOptions{}))

	// Recalculation spaces heats by the 10:00 cap plus the transition; the
	// estimated duration only sizes the initial build.
	require.Equal(t, at(9, 12), times[2])

	end, ok := calc.EndTime(heats[0])
	require.True(t, ok)
	require.Equal(t, at(9, 10), end)
}

func TestSortForWalk(t *testing.T) {
	heats := []*models.Heat{
		{ID: 1, HeatNumber: 5},
		{ID: 2, HeatNumber: 2, ScheduledTime: timePtr(at(10, 0))},
		{ID: 3, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 4, HeatNumber: 3, ScheduledTime: timePtr(at(10, 0))},
	}

	SortForWalk(heats)

	require.Equal(t, []int{3, 2, 4, 1}, []int{heats[0].ID, heats[1].ID, heats[2].ID, heats[3].ID})
}

func TestConflicts(t *testing.T) {
	heats := []*models.Heat{
		{ID: 1, HeatNumber: 1, ScheduledTime: timePtr(at(9, 0))},
		{ID: 2, HeatNumber: 2, ScheduledTime: timePtr(at(9, 0))},
		{ID: 3, HeatNumber: 3, ScheduledTime: timePtr(at(9, 30))},
		{ID: 4, HeatNumber: 4},
	}

	conflicts := Conflicts(heats)

	require.Len(t, conflicts, 1)
	require.Equal(t, []int{1, 2}, conflicts[0].HeatIDs)
	require.Equal(t, []int{1, 2}, conflicts[0].HeatNumbers)
}
