package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

func entry(id, heatID, regID, lane int) *models.HeatEntry {
	return &models.HeatEntry{ID: id, HeatID: heatID, RegistrationID: regID, LaneNumber: lane}
}

func TestRemoveEntry(t *testing.T) {
	entries := []*models.HeatEntry{
		entry(1, 10, 100, 1),
		entry(2, 10, 101, 2),
		entry(3, 10, 102, 3),
	}

	out := removeEntry(entries, 2)

	require.Len(t, out, 2)
	require.Equal(t, 1, out[0].ID)
	require.Equal(t, 3, out[1].ID)
}

func TestInsertEntryAt(t *testing.T) {
	entries := []*models.HeatEntry{
		entry(1, 10, 100, 1),
		entry(2, 10, 101, 2),
	}
	moved := &models.HeatEntry{HeatID: 10, RegistrationID: 200}

	t.Run("in the middle", func(t *testing.T) {
		out := insertEntryAt(entries, moved, 2)
		require.Equal(t, 100, out[0].RegistrationID)
		require.Equal(t, 200, out[1].RegistrationID)
		require.Equal(t, 101, out[2].RegistrationID)
	})

	t.Run("at the end", func(t *testing.T) {
		out := insertEntryAt(entries, moved, 3)
		require.Equal(t, 200, out[2].RegistrationID)
	})

	t.Run("position past the end clamps", func(t *testing.T) {
		out := insertEntryAt(entries, moved, 99)
		require.Equal(t, 200, out[2].RegistrationID)
	})
}

func TestCompactLanes(t *testing.T) {
	// Lanes 2, 5, 9 must come back as 1, 2, 3.
	entries := []*models.HeatEntry{
		entry(1, 10, 100, 2),
		entry(2, 10, 101, 5),
		entry(3, 10, 102, 9),
	}

	out := compactLanes(10, entries)

	require.Len(t, out, 3)
	for i, e := range out {
		require.Equal(t, i+1, e.LaneNumber)
		require.Equal(t, 10, e.HeatID)
	}
	require.Equal(t, 100, out[0].RegistrationID)
	require.Equal(t, 102, out[2].RegistrationID)
}

func TestMoveEntryRejectsFullTargetHeat(t *testing.T) {
	heats := &fakeHeatRepo{heats: map[int]*models.Heat{
		10: {ID: 10, ChampionshipID: 1, WodID: 5, CategoryID: 1, HeatNumber: 1, LaneCount: 4},
		11: {ID: 11, ChampionshipID: 1, WodID: 5, CategoryID: 1, HeatNumber: 2, LaneCount: 4},
	}}
	entries := &fakeEntryRepo{entries: map[int]*models.HeatEntry{}}
	for i := 1; i <= 4; i++ {
		entries.entries[i] = entry(i, 10, 100+i, i)
		entries.entries[i+4] = entry(i+4, 11, 200+i, i)
	}
	svc := NewAssignmentService(nil, &fakeCategoryRepo{}, &fakeRegistrationRepo{}, heats, entries, &fakeResultRepo{}, testLogger())

	err := svc.MoveEntry(context.Background(), 1, 1, 11, 1)

	require.ErrorIs(t, err, ErrHeatCapacityExceeded)
	// Both heats keep their four entries.
	require.Empty(t, entries.deleted)
	remaining, listErr := entries.ListByHeatIDs(context.Background(), []int{10, 11})
	require.NoError(t, listErr)
	require.Len(t, remaining, 8)
}

func TestMoveEntryRejectsDuplicateInTargetWod(t *testing.T) {
	heats := &fakeHeatRepo{heats: map[int]*models.Heat{
		10: {ID: 10, ChampionshipID: 1, WodID: 5, CategoryID: 1, HeatNumber: 1, LaneCount: 4},
		20: {ID: 20, ChampionshipID: 1, WodID: 6, CategoryID: 1, HeatNumber: 2, LaneCount: 4},
		21: {ID: 21, ChampionshipID: 1, WodID: 6, CategoryID: 1, HeatNumber: 3, LaneCount: 4},
	}}
	// Competitor 100 is being moved into heat 20 but already holds a lane in
	// heat 21 of the same wod.
	entries := &fakeEntryRepo{entries: map[int]*models.HeatEntry{
		1: entry(1, 10, 100, 1),
		2: entry(2, 21, 100, 1),
	}}
	svc := NewAssignmentService(nil, &fakeCategoryRepo{}, &fakeRegistrationRepo{}, heats, entries, &fakeResultRepo{}, testLogger())

	err := svc.MoveEntry(context.Background(), 1, 1, 20, 1)

	require.ErrorIs(t, err, ErrEntryConflict)
}

func TestReseedByRankingSkipsLockedPair(t *testing.T) {
	results := &fakeResultRepo{locked: map[schedulePair]bool{{WodID: 5, CategoryID: 7}: true}}
	categories := &fakeCategoryRepo{categories: map[int]*models.Category{7: {ID: 7, Name: "RX"}}}
	svc := NewAssignmentService(nil, categories, &fakeRegistrationRepo{}, &fakeHeatRepo{}, &fakeEntryRepo{}, results, testLogger())

	report, err := svc.ReseedByRanking(context.Background(), 1, 5, 7)

	require.NoError(t, err)
	require.Equal(t, 0, report.PairsReseeded)
	require.Equal(t, []string{"RX"}, report.SkippedLocked)
}

func TestIntercalationPoolComesFromCurrentEntries(t *testing.T) {
	heats := []*models.Heat{
		{ID: 10, CategoryID: 1, HeatNumber: 1},
		{ID: 20, CategoryID: 2, HeatNumber: 2},
	}
	entries := []*models.HeatEntry{
		entry(1, 10, 100, 1),
		entry(2, 10, 101, 2),
		entry(3, 20, 200, 1),
		entry(4, 20, 300, 2),
	}
	// Competitor 300 sits in heat 20 but has no known registration; they keep
	// the hosting heat's category.
	categoryOf := map[int]int{100: 1, 101: 1, 200: 2}

	pool := intercalationPool(heats, entries, categoryOf)

	require.Equal(t, []schedule.PoolEntry{
		{RegistrationID: 100, CategoryID: 1},
		{RegistrationID: 101, CategoryID: 1},
		{RegistrationID: 200, CategoryID: 2},
		{RegistrationID: 300, CategoryID: 2},
	}, pool)
}

func TestRemoveEntryDeletesPlacement(t *testing.T) {
	heats := &fakeHeatRepo{heats: map[int]*models.Heat{
		10: {ID: 10, ChampionshipID: 1, WodID: 5, CategoryID: 1, HeatNumber: 1, LaneCount: 4},
	}}
	entries := &fakeEntryRepo{entries: map[int]*models.HeatEntry{1: entry(1, 10, 100, 1)}}
	svc := NewAssignmentService(nil, &fakeCategoryRepo{}, &fakeRegistrationRepo{}, heats, entries, &fakeResultRepo{}, testLogger())

	require.ErrorIs(t, svc.RemoveEntry(context.Background(), 2, 1), ErrWrongChampionship)
	require.Empty(t, entries.deleted)

	require.NoError(t, svc.RemoveEntry(context.Background(), 1, 1))
	require.Equal(t, []int{1}, entries.deleted)
}

func TestGroupEntriesByHeat(t *testing.T) {
	entries := []*models.HeatEntry{
		entry(1, 10, 100, 1),
		entry(2, 20, 101, 1),
		entry(3, 10, 102, 2),
	}

	grouped := groupEntriesByHeat(entries)

	require.Len(t, grouped[10], 2)
	require.Len(t, grouped[20], 1)
	require.Equal(t, 1, grouped[10][0].LaneNumber)
	require.Equal(t, 2, grouped[10][1].LaneNumber)
}
