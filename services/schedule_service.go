package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

type ScheduleService interface {
	// RecalculateAll rebuilds every heat time of the championship from the
	// first heat onward. Returns the number of heats whose time changed.
	RecalculateAll(ctx context.Context, championshipID int) (int, error)
	// RecalculateFollowing rebuilds times from the given heat onward,
	// keeping the edited heat's own time as the anchor and stopping at the
	// first pair with published results.
	RecalculateFollowing(ctx context.Context, championshipID, heatID int) (int, error)
	// SetHeatTime pins a heat to a manual time and shifts what follows it.
	SetHeatTime(ctx context.Context, championshipID, heatID int, scheduledTime time.Time) (int, error)
	// ReorderHeat moves a heat to a new position in the running order,
	// shifting the heats in between by one and keeping heat numbers dense.
	ReorderHeat(ctx context.Context, championshipID, heatID, newNumber int) error
	Conflicts(ctx context.Context, championshipID int) ([]models.ScheduleConflict, error)
}

type scheduleService struct {
	db         *sql.DB
	champRepo  repositories.ChampionshipRepository
	wodRepo    repositories.WodRepository
	heatRepo   repositories.HeatRepository
	resultRepo repositories.WodResultRepository
	logger     *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	champRepo repositories.ChampionshipRepository,
	wodRepo repositories.WodRepository,
	heatRepo repositories.HeatRepository,
	resultRepo repositories.WodResultRepository,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:         db,
		champRepo:  champRepo,
		wodRepo:    wodRepo,
		heatRepo:   heatRepo,
		resultRepo: resultRepo,
		logger:     logger,
	}
}

func (s *scheduleService) RecalculateAll(ctx context.Context, championshipID int) (int, error) {
	calc, heats, err := s.loadTimeline(ctx, championshipID)
	if err != nil {
		return 0, err
	}
	if len(heats) == 0 {
		return 0, nil
	}

	schedule.SortForWalk(heats)

	// Anchor on the first heat's time; fall back to day one's configured
	// start for a never-scheduled championship. No anchor means no-op.
	var defaultStart *time.Time
	if len(calc.Config.Days) > 0 {
		if t, ok := schedule.DayStart(&calc.Config.Days[0]); ok {
			defaultStart = &t
		}
	}

	updates := calc.Walk(heats, schedule.WalkOptions{DefaultStart: defaultStart})
	if err := s.applyUpdates(ctx, updates); err != nil {
		return 0, err
	}

	s.logger.Info("schedule recalculated",
		slog.Int("championship_id", championshipID),
		slog.Int("heats_updated", len(updates)))
	return len(updates), nil
}

func (s *scheduleService) RecalculateFollowing(ctx context.Context, championshipID, heatID int) (int, error) {
	calc, heats, err := s.loadTimeline(ctx, championshipID)
	if err != nil {
		return 0, err
	}

	schedule.SortForWalk(heats)
	tail := tailFrom(heats, heatID)
	if tail == nil {
		return 0, ErrHeatNotFound
	}

	locked, err := s.lockedPairs(ctx, championshipID)
	if err != nil {
		return 0, err
	}

	updates := calc.Walk(tail, schedule.WalkOptions{LockedPairs: locked})
	if err := s.applyUpdates(ctx, updates); err != nil {
		return 0, err
	}
	return len(updates), nil
}

func (s *scheduleService) SetHeatTime(ctx context.Context, championshipID, heatID int, scheduledTime time.Time) (int, error) {
	if scheduledTime.IsZero() {
		return 0, ErrStartTimeRequired
	}

	heat, err := s.heatRepo.GetByID(ctx, heatID)
	if err != nil {
		if errors.Is(err, repositories.ErrHeatNotFound) {
			return 0, ErrHeatNotFound
		}
		return 0, err
	}
	if heat.ChampionshipID != championshipID {
		return 0, ErrWrongChampionship
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.heatRepo.UpdateScheduledTime(ctx, tx, heatID, scheduledTime)
	}); err != nil {
		return 0, err
	}

	shifted, err := s.RecalculateFollowing(ctx, championshipID, heatID)
	if err != nil {
		return 0, fmt.Errorf("heat time set but recalculation failed: %w", err)
	}
	return shifted + 1, nil
}

// ReorderHeat moves a heat to a new position in the running order. The block
// of heats between the old and new position shifts by one, so heat numbers
// stay a dense total order. Slot wall-clock times stay where they were; only
// the occupants change, and the tail from the earlier affected slot is
// re-walked.
func (s *scheduleService) ReorderHeat(ctx context.Context, championshipID, heatID, newNumber int) error {
	calc, heats, err := s.loadTimeline(ctx, championshipID)
	if err != nil {
		return err
	}
	sort.Slice(heats, func(i, j int) bool { return heats[i].HeatNumber < heats[j].HeatNumber })

	idx := -1
	for i, h := range heats {
		if h.ID == heatID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrHeatNotFound
	}
	if newNumber < 1 || newNumber > len(heats) {
		return ErrHeatNumberInvalid
	}

	moved := heats[idx]
	oldNumber := moved.HeatNumber
	if oldNumber == newNumber {
		return nil
	}

	// The (championship, heat_number) pair is unique, so the moved heat
	// parks at an out-of-range number while the block shifts through its
	// freed slot.
	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		parking := len(heats) + 1000
		if err := s.heatRepo.UpdateHeatNumber(ctx, tx, moved.ID, parking); err != nil {
			return err
		}
		if oldNumber < newNumber {
			for _, h := range heats {
				if h.HeatNumber > oldNumber && h.HeatNumber <= newNumber {
					if err := s.heatRepo.UpdateHeatNumber(ctx, tx, h.ID, h.HeatNumber-1); err != nil {
						return err
					}
				}
			}
		} else {
			for i := len(heats) - 1; i >= 0; i-- {
				h := heats[i]
				if h.HeatNumber >= newNumber && h.HeatNumber < oldNumber {
					if err := s.heatRepo.UpdateHeatNumber(ctx, tx, h.ID, h.HeatNumber+1); err != nil {
						return err
					}
				}
			}
		}
		return s.heatRepo.UpdateHeatNumber(ctx, tx, moved.ID, newNumber)
	}); err != nil {
		return err
	}

	// The earlier affected slot keeps its wall-clock time. Capture it from
	// the slot's old occupant before the renumbering shuffles the order.
	earlier := newNumber
	if oldNumber < newNumber {
		earlier = oldNumber
	}
	var slotTime *time.Time
	for _, h := range heats {
		if h.HeatNumber == earlier && h.ScheduledTime != nil {
			anchor := *h.ScheduledTime
			slotTime = &anchor
			break
		}
	}

	// Mirror the renumbering in memory and rebuild the tail order.
	for _, h := range heats {
		switch {
		case h.ID == moved.ID:
			h.HeatNumber = newNumber
		case oldNumber < newNumber && h.HeatNumber > oldNumber && h.HeatNumber <= newNumber:
			h.HeatNumber--
		case newNumber < oldNumber && h.HeatNumber >= newNumber && h.HeatNumber < oldNumber:
			h.HeatNumber++
		}
	}
	sort.Slice(heats, func(i, j int) bool { return heats[i].HeatNumber < heats[j].HeatNumber })

	// The walk restarts at the earlier slot with its new occupant and flows
	// through the rest of the schedule.
	tail := heats[earlier-1:]
	if slotTime == nil && earlier > 1 {
		if end, ok := calc.EndTime(heats[earlier-2]); ok {
			anchor := end.Add(calc.BoundaryInterval(heats[earlier-2], tail[0], make(map[string]bool)))
			slotTime = &anchor
		}
	}
	tail[0].ScheduledTime = nil

	updates := calc.Walk(tail, schedule.WalkOptions{DefaultStart: slotTime})
	return s.applyUpdates(ctx, updates)
}

func (s *scheduleService) Conflicts(ctx context.Context, championshipID int) ([]models.ScheduleConflict, error) {
	heats, err := s.heatRepo.ListByChampionship(ctx, championshipID, repositories.HeatFilter{})
	if err != nil {
		return nil, err
	}
	return schedule.Conflicts(heats), nil
}

func (s *scheduleService) loadTimeline(ctx context.Context, championshipID int) (*schedule.Calculator, []*models.Heat, error) {
	calc, err := buildCalculator(ctx, s.champRepo, s.wodRepo, championshipID)
	if err != nil {
		return nil, nil, err
	}
	heats, err := s.heatRepo.ListByChampionship(ctx, championshipID, repositories.HeatFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list heats for championship %d: %w", championshipID, err)
	}
	return calc, heats, nil
}

func (s *scheduleService) lockedPairs(ctx context.Context, championshipID int) (map[schedule.PairKey]bool, error) {
	published, err := s.resultRepo.ListPublishedPairs(ctx, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list published result pairs: %w", err)
	}
	locked := make(map[schedule.PairKey]bool, len(published))
	for _, r := range published {
		locked[schedule.PairKey{WodID: r.WodID, CategoryID: r.CategoryID}] = true
	}
	return locked, nil
}

func (s *scheduleService) applyUpdates(ctx context.Context, updates []schedule.Update) error {
	if len(updates) == 0 {
		return nil
	}
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, u := range updates {
			if err := s.heatRepo.UpdateScheduledTime(ctx, tx, u.HeatID, u.ScheduledTime); err != nil {
				return err
			}
		}
		return nil
	})
}

// tailFrom returns the sub-slice starting at the heat with the given id, or
// nil when the heat is not in the slice.
func tailFrom(heats []*models.Heat, heatID int) []*models.Heat {
	for i, h := range heats {
		if h.ID == heatID {
			return heats[i:]
		}
	}
	return nil
}
