package schedule

import "github.com/viniciusalmeida93/ant-camp/models"

// PoolEntry is one competitor available for redistribution, tagged with the
// category it belongs to.
type PoolEntry struct {
	RegistrationID int
	CategoryID     int
}

// Intercalate redistributes the entries of one wod across that wod's own
// heats to minimize empty lanes. Heats are filled in ascending heat number:
// first with unused pool entries matching the heat's nominal category, then
// with any remaining entries from other categories of the same wod. An entry
// is consumed the moment it is placed, so earlier heats get first claim.
//
// The result maps heat ID to registration IDs in lane order (lane = index +
// 1). Scheduled times are untouched by design; returned assignments may
// leave trailing heats empty.
func Intercalate(heats []*models.Heat, pool []PoolEntry) map[int][]int {
	assignments := make(map[int][]int, len(heats))
	used := make(map[int]bool, len(pool))

	for _, heat := range heats {
		capacity := heat.LaneCount
		if capacity < 1 {
			continue
		}
		var lanes []int

		// Own category first.
		for _, p := range pool {
			if len(lanes) >= capacity {
				break
			}
			if used[p.RegistrationID] || p.CategoryID != heat.CategoryID {
				continue
			}
			lanes = append(lanes, p.RegistrationID)
			used[p.RegistrationID] = true
		}

		// Fill remaining lanes from other categories.
		for _, p := range pool {
			if len(lanes) >= capacity {
				break
			}
			if used[p.RegistrationID] {
				continue
			}
			lanes = append(lanes, p.RegistrationID)
			used[p.RegistrationID] = true
		}

		assignments[heat.ID] = lanes
	}

	return assignments
}
