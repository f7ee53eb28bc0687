package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func TestIntercalateOwnCategoryFirst(t *testing.T) {
	heats := []*models.Heat{
		{ID: 1, CategoryID: 1, LaneCount: 4},
		{ID: 2, CategoryID: 2, LaneCount: 4},
	}
	pool := []PoolEntry{
		{RegistrationID: 10, CategoryID: 1},
		{RegistrationID: 11, CategoryID: 1},
		{RegistrationID: 20, CategoryID: 2},
		{RegistrationID: 21, CategoryID: 2},
		{RegistrationID: 22, CategoryID: 2},
	}

	assignments := Intercalate(heats, pool)

	// Heat 1 takes both category 1 competitors, then tops up with category
	// 2; heat 2 gets whoever is left.
	require.Equal(t, []int{10, 11, 20, 21}, assignments[1])
	require.Equal(t, []int{22}, assignments[2])
}

func TestIntercalateNoDoublePlacement(t *testing.T) {
	heats := []*models.Heat{
		{ID: 1, CategoryID: 1, LaneCount: 2},
		{ID: 2, CategoryID: 1, LaneCount: 2},
	}
	pool := []PoolEntry{
		{RegistrationID: 10, CategoryID: 1},
		{RegistrationID: 11, CategoryID: 1},
		{RegistrationID: 12, CategoryID: 1},
	}

	assignments := Intercalate(heats, pool)

	seen := make(map[int]bool)
	total := 0
	for _, lanes := range assignments {
		for _, id := range lanes {
			require.False(t, seen[id], "registration %d placed twice", id)
			seen[id] = true
			total++
		}
	}
	require.Equal(t, 3, total)
}

func TestIntercalateRespectsCapacity(t *testing.T) {
	heats := []*models.Heat{{ID: 1, CategoryID: 1, LaneCount: 2}}
	pool := []PoolEntry{
		{RegistrationID: 10, CategoryID: 1},
		{RegistrationID: 11, CategoryID: 1},
		{RegistrationID: 12, CategoryID: 1},
	}

	assignments := Intercalate(heats, pool)

	require.Len(t, assignments[1], 2)
}

func TestIntercalateEmptyPool(t *testing.T) {
	heats := []*models.Heat{{ID: 1, CategoryID: 1, LaneCount: 4}}
	assignments := Intercalate(heats, nil)
	require.Empty(t, assignments[1])
}
