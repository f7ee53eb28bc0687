package schedule

import (
	"sort"

	"github.com/viniciusalmeida93/ant-camp/models"
)

// SortRoster orders a category roster by manual rank: order_index ascending
// with nil ranks last, ties broken by creation time. Rank 1 is the leader.
func SortRoster(regs []*models.Registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		a, b := regs[i], regs[j]
		switch {
		case a.OrderIndex == nil && b.OrderIndex == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.OrderIndex == nil:
			return false
		case b.OrderIndex == nil:
			return true
		case *a.OrderIndex != *b.OrderIndex:
			return *a.OrderIndex < *b.OrderIndex
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

// ReverseRoster returns a reversed copy. Seeding convention: the roster is
// best-first, and reversing it before chunking lands the leader in the last
// heat, so the strongest competitors race last.
func ReverseRoster(regs []*models.Registration) []*models.Registration {
	reversed := make([]*models.Registration, len(regs))
	for i, r := range regs {
		reversed[len(regs)-1-i] = r
	}
	return reversed
}

// Chunk splits a roster into consecutive groups of at most size competitors.
func Chunk(regs []*models.Registration, size int) [][]*models.Registration {
	if size < 1 || len(regs) == 0 {
		return nil
	}
	var chunks [][]*models.Registration
	for start := 0; start < len(regs); start += size {
		end := start + size
		if end > len(regs) {
			end = len(regs)
		}
		chunks = append(chunks, regs[start:end])
	}
	return chunks
}

// SliceByCapacities distributes a roster over existing heats in order, each
// heat taking up to its own lane count. Used by reseeding, which keeps the
// heats and only rewrites their membership. Leftover competitors beyond the
// total capacity are returned so the caller can report them.
func SliceByCapacities(regs []*models.Registration, heats []*models.Heat) (perHeat map[int][]*models.Registration, leftover []*models.Registration) {
	perHeat = make(map[int][]*models.Registration, len(heats))
	idx := 0
	for _, heat := range heats {
		count := heat.LaneCount
		if count < 1 {
			continue
		}
		end := idx + count
		if end > len(regs) {
			end = len(regs)
		}
		if idx < end {
			perHeat[heat.ID] = regs[idx:end]
		}
		idx = end
	}
	return perHeat, regs[idx:]
}
