package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/viniciusalmeida93/ant-camp/models"
)

// Calculator computes heat start times from the championship interval
// configuration. It is pure: callers load heats, wods and variations, and
// persist the returned updates.
type Calculator struct {
	Config     models.IntervalConfig
	Wods       map[int]*models.Wod
	Variations map[VariationKey]*models.WodCategoryVariation
}

// Update is one recomputed start time the caller should persist.
type Update struct {
	HeatID        int
	ScheduledTime time.Time
}

// PairKey identifies a (wod, category) pair for result locking.
type PairKey struct {
	WodID      int
	CategoryID int
}

// WalkOptions tunes a timeline walk.
type WalkOptions struct {
	// LockedPairs stops the walk when it reaches a heat whose (wod,
	// category) pair has published results. Used by the scoped
	// recalculation after an edit; the full recalculation passes nil.
	LockedPairs map[PairKey]bool
	// DefaultStart anchors the walk when the first heat has no scheduled
	// time. When both are absent the walk is a no-op: the engine never
	// guesses a start.
	DefaultStart *time.Time
}

// TimeCapMinutes resolves the effective time cap for a heat: the
// per-category variation wins over the wod default.
func (c *Calculator) TimeCapMinutes(wodID, categoryID int) float64 {
	if v, ok := c.Variations[VariationKey{WodID: wodID, CategoryID: categoryID}]; ok && v.TimeCap != nil {
		return ParseTimeCap(*v.TimeCap)
	}
	if wod, ok := c.Wods[wodID]; ok && wod.TimeCap != nil {
		return ParseTimeCap(*wod.TimeCap)
	}
	return DefaultTimeCapMinutes
}

// HeatDurationMinutes is the spacing the initial builder reserves per heat:
// the wod's estimated duration when configured, otherwise the effective time
// cap. Recalculation never uses it; walks advance by the time cap only.
func (c *Calculator) HeatDurationMinutes(wodID, categoryID int) float64 {
	if wod, ok := c.Wods[wodID]; ok && wod.EstimatedDurationMinutes != nil && *wod.EstimatedDurationMinutes > 0 {
		return float64(*wod.EstimatedDurationMinutes)
	}
	return c.TimeCapMinutes(wodID, categoryID)
}

// EndTime is the heat's start plus its time cap.
func (c *Calculator) EndTime(h *models.Heat) (time.Time, bool) {
	if h.ScheduledTime == nil {
		return time.Time{}, false
	}
	d := c.TimeCapMinutes(h.WodID, h.CategoryID)
	return h.ScheduledTime.Add(minutesToDuration(d)), true
}

// SortForWalk orders heats the way the calculator visits them: scheduled
// time first (unscheduled heats sort last), heat number as tie breaker.
func SortForWalk(heats []*models.Heat) {
	sort.SliceStable(heats, func(i, j int) bool {
		a, b := heats[i], heats[j]
		switch {
		case a.ScheduledTime == nil && b.ScheduledTime == nil:
			return a.HeatNumber < b.HeatNumber
		case a.ScheduledTime == nil:
			return false
		case b.ScheduledTime == nil:
			return true
		case !a.ScheduledTime.Equal(*b.ScheduledTime):
			return a.ScheduledTime.Before(*b.ScheduledTime)
		default:
			return a.HeatNumber < b.HeatNumber
		}
	})
}

// Walk assigns start times to heats in order, applying the interval rule at
// every boundary:
//
//	different wod      -> wod interval, plus the day break when the previous
//	                      wod closes the configured ordinal of its day
//	different category -> category interval
//	otherwise          -> transition interval
//
// A change of day re-anchors the walk at that day's start time. Breaks are
// applied at most once per (day, ordinal) within one walk. The first heat is
// the anchor: its existing time is kept, or DefaultStart is used. Re-running
// the walk on unchanged input yields the same times.
func (c *Calculator) Walk(heats []*models.Heat, opts WalkOptions) []Update {
	if len(heats) == 0 {
		return nil
	}

	first := heats[0]
	var anchor time.Time
	switch {
	case first.ScheduledTime != nil:
		anchor = *first.ScheduledTime
	case opts.DefaultStart != nil:
		anchor = *opts.DefaultStart
	default:
		return nil
	}

	var updates []Update
	if first.ScheduledTime == nil || !first.ScheduledTime.Equal(anchor) {
		updates = append(updates, Update{HeatID: first.ID, ScheduledTime: anchor})
	}

	prev := first
	prevEnd := anchor.Add(minutesToDuration(c.TimeCapMinutes(first.WodID, first.CategoryID)))
	currentDay := c.dayNumberOf(first.WodID)
	appliedBreaks := make(map[string]bool)

	for _, heat := range heats[1:] {
		if opts.LockedPairs[PairKey{WodID: heat.WodID, CategoryID: heat.CategoryID}] {
			break
		}

		var start time.Time
		heatDay := c.dayNumberOf(heat.WodID)
		if heatDay > currentDay {
			dayStart, ok := c.startOfDay(heatDay)
			if !ok {
				// Day without a start time: keep the continuous flow.
				start = prevEnd.Add(c.BoundaryInterval(prev, heat, appliedBreaks))
			} else {
				start = dayStart
			}
			currentDay = heatDay
		} else {
			start = prevEnd.Add(c.BoundaryInterval(prev, heat, appliedBreaks))
		}

		if heat.ScheduledTime == nil || !heat.ScheduledTime.Equal(start) {
			updates = append(updates, Update{HeatID: heat.ID, ScheduledTime: start})
		}

		prevEnd = start.Add(minutesToDuration(c.TimeCapMinutes(heat.WodID, heat.CategoryID)))
		prev = heat
	}

	return updates
}

// BoundaryInterval selects the gap between two chronologically adjacent
// heats and folds in the scheduled day break when the previous wod closes
// the configured ordinal. appliedBreaks tracks breaks already inserted in
// the current pass so each (day, ordinal) break is applied once.
func (c *Calculator) BoundaryInterval(prev, next *models.Heat, appliedBreaks map[string]bool) time.Duration {
	transition, categoryInterval, wodInterval := EffectiveIntervals(c.Config)
	if next.WodID != prev.WodID {
		interval := time.Duration(wodInterval) * time.Minute
		if day, ordinal, ok := c.dayAndOrdinalOf(prev.WodID); ok {
			if day.EnableBreak && day.BreakAfterWodNumber != nil && *day.BreakAfterWodNumber == ordinal {
				key := fmt.Sprintf("day_%d_wod_%d", day.DayNumber, ordinal)
				if !appliedBreaks[key] {
					interval += time.Duration(day.BreakDurationMinutes) * time.Minute
					appliedBreaks[key] = true
				}
			}
		}
		return interval
	}
	if next.CategoryID != prev.CategoryID {
		return time.Duration(categoryInterval) * time.Minute
	}
	return time.Duration(transition) * time.Minute
}

func (c *Calculator) dayNumberOf(wodID int) int {
	if wod, ok := c.Wods[wodID]; ok && wod.DayNumber != nil {
		return *wod.DayNumber
	}
	return 1
}

func (c *Calculator) dayAndOrdinalOf(wodID int) (*models.ChampionshipDay, int, bool) {
	wod, ok := c.Wods[wodID]
	if !ok || wod.DayID == nil || wod.OrderNumInDay == nil {
		return nil, 0, false
	}
	for i := range c.Config.Days {
		if c.Config.Days[i].ID == *wod.DayID {
			return &c.Config.Days[i], *wod.OrderNumInDay, true
		}
	}
	return nil, 0, false
}

func (c *Calculator) startOfDay(dayNumber int) (time.Time, bool) {
	for i := range c.Config.Days {
		if c.Config.Days[i].DayNumber == dayNumber {
			return DayStart(&c.Config.Days[i])
		}
	}
	return time.Time{}, false
}

// Conflicts reports scheduled times shared by more than one heat. The
// calculator never produces overlaps on its own, but manual pins can.
func Conflicts(heats []*models.Heat) []models.ScheduleConflict {
	byTime := make(map[time.Time][]*models.Heat)
	for _, h := range heats {
		if h.ScheduledTime != nil {
			t := h.ScheduledTime.UTC()
			byTime[t] = append(byTime[t], h)
		}
	}

	var conflicts []models.ScheduleConflict
	for t, group := range byTime {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].HeatNumber < group[j].HeatNumber })
		conflict := models.ScheduleConflict{ScheduledTime: t}
		for _, h := range group {
			conflict.HeatIDs = append(conflict.HeatIDs, h.ID)
			conflict.HeatNumbers = append(conflict.HeatNumbers, h.HeatNumber)
		}
		conflicts = append(conflicts, conflict)
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].ScheduledTime.Before(conflicts[j].ScheduledTime)
	})
	return conflicts
}
