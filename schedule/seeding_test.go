package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func reg(id int, orderIndex *int, createdAt time.Time) *models.Registration {
	return &models.Registration{ID: id, OrderIndex: orderIndex, CreatedAt: createdAt}
}

func intPtr(v int) *int { return &v }

func regIDsOf(regs []*models.Registration) []int {
	ids := make([]int, len(regs))
	for i, r := range regs {
		ids[i] = r.ID
	}
	return ids
}

func TestSortRoster(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	roster := []*models.Registration{
		reg(1, nil, base.Add(2*time.Hour)),
		reg(2, intPtr(3), base),
		reg(3, intPtr(1), base),
		reg(4, nil, base.Add(time.Hour)),
		reg(5, intPtr(2), base),
	}

	SortRoster(roster)

	// Ranked competitors first in rank order, unranked last by creation time.
	require.Equal(t, []int{3, 5, 2, 4, 1}, regIDsOf(roster))
}

func TestSortRosterTieBrokenByCreation(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	roster := []*models.Registration{
		reg(1, intPtr(1), base.Add(time.Minute)),
		reg(2, intPtr(1), base),
	}

	SortRoster(roster)

	require.Equal(t, []int{2, 1}, regIDsOf(roster))
}

func TestReverseRosterLandsLeaderInLastHeat(t *testing.T) {
	// Nine ranked competitors, heats of three: after reversing, rank 1 must
	// end up in the final chunk and the lowest ranks in the first.
	base := time.Now()
	var roster []*models.Registration
	for rank := 1; rank <= 9; rank++ {
		roster = append(roster, reg(rank, intPtr(rank), base))
	}

	SortRoster(roster)
	chunks := Chunk(ReverseRoster(roster), 3)

	require.Len(t, chunks, 3)
	require.Equal(t, []int{9, 8, 7}, regIDsOf(chunks[0]))
	require.Equal(t, []int{6, 5, 4}, regIDsOf(chunks[1]))
	require.Equal(t, []int{3, 2, 1}, regIDsOf(chunks[2]))
}

func TestReverseRosterDoesNotMutateInput(t *testing.T) {
	roster := []*models.Registration{reg(1, nil, time.Now()), reg(2, nil, time.Now())}
	ReverseRoster(roster)
	require.Equal(t, []int{1, 2}, regIDsOf(roster))
}

func TestChunk(t *testing.T) {
	base := time.Now()
	var roster []*models.Registration
	for i := 1; i <= 7; i++ {
		roster = append(roster, reg(i, nil, base))
	}

	chunks := Chunk(roster, 3)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 3)
	require.Len(t, chunks[1], 3)
	require.Len(t, chunks[2], 1)

	require.Nil(t, Chunk(roster, 0))
	require.Nil(t, Chunk(nil, 3))
}

func TestSliceByCapacities(t *testing.T) {
	base := time.Now()
	var roster []*models.Registration
	for i := 1; i <= 7; i++ {
		roster = append(roster, reg(i, nil, base))
	}
	heats := []*models.Heat{
		{ID: 10, LaneCount: 4},
		{ID: 20, LaneCount: 2},
	}

	perHeat, leftover := SliceByCapacities(roster, heats)

	require.Equal(t, []int{1, 2, 3, 4}, regIDsOf(perHeat[10]))
	require.Equal(t, []int{5, 6}, regIDsOf(perHeat[20]))
	require.Equal(t, []int{7}, regIDsOf(leftover))
}

func TestSliceByCapacitiesShortRoster(t *testing.T) {
	roster := []*models.Registration{reg(1, nil, time.Now())}
	heats := []*models.Heat{
		{ID: 10, LaneCount: 4},
		{ID: 20, LaneCount: 4},
	}

	perHeat, leftover := SliceByCapacities(roster, heats)

	require.Equal(t, []int{1}, regIDsOf(perHeat[10]))
	require.NotContains(t, perHeat, 20)
	require.Empty(t, leftover)
}
