package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

// ReseedReport summarizes a reseed pass over one or more (wod, category)
// pairs.
type ReseedReport struct {
	PairsReseeded int      `json:"pairs_reseeded"`
	SkippedLocked []string `json:"skipped_locked,omitempty"`
	Unplaced      int      `json:"unplaced,omitempty"`
}

type AssignmentService interface {
	// MoveEntry relocates a competitor to a target heat and lane position.
	// Both heats are rewritten with lanes compacted to 1..n; scheduled
	// times are untouched.
	MoveEntry(ctx context.Context, championshipID, entryID, targetHeatID, targetLaneIndex int) error
	// RemoveEntry drops a competitor from their heat. The freed lane stays
	// open for a later drop; remaining lane numbers are untouched.
	RemoveEntry(ctx context.Context, championshipID, entryID int) error
	// ReseedByRanking redistributes the category roster over the pair's
	// existing heats in reverse ranking order, so the current leader lands
	// in the last heat. A pair with published results is reported as
	// skipped, never an error.
	ReseedByRanking(ctx context.Context, championshipID, wodID, categoryID int) (*ReseedReport, error)
	// ReseedWod reseeds every category that has heats in the wod, skipping
	// (and reporting) the pairs locked by published results.
	ReseedWod(ctx context.Context, championshipID, wodID int) (*ReseedReport, error)
	// Intercalate redistributes the wod's currently placed competitors over
	// its heats, preferring each heat's own category and topping up empty
	// lanes from the others.
	Intercalate(ctx context.Context, championshipID, wodID int) error
}

type assignmentService struct {
	db           *sql.DB
	categoryRepo repositories.CategoryRepository
	regRepo      repositories.RegistrationRepository
	heatRepo     repositories.HeatRepository
	entryRepo    repositories.HeatEntryRepository
	resultRepo   repositories.WodResultRepository
	logger       *slog.Logger
}

func NewAssignmentService(
	db *sql.DB,
	categoryRepo repositories.CategoryRepository,
	regRepo repositories.RegistrationRepository,
	heatRepo repositories.HeatRepository,
	entryRepo repositories.HeatEntryRepository,
	resultRepo repositories.WodResultRepository,
	logger *slog.Logger,
) AssignmentService {
	return &assignmentService{
		db:           db,
		categoryRepo: categoryRepo,
		regRepo:      regRepo,
		heatRepo:     heatRepo,
		entryRepo:    entryRepo,
		resultRepo:   resultRepo,
		logger:       logger,
	}
}

func (s *assignmentService) MoveEntry(ctx context.Context, championshipID, entryID, targetHeatID, targetLaneIndex int) error {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrHeatEntryNotFound) {
			return ErrHeatEntryNotFound
		}
		return err
	}

	source, err := s.heatRepo.GetByID(ctx, entry.HeatID)
	if err != nil {
		return err
	}
	target := source
	if targetHeatID != source.ID {
		target, err = s.heatRepo.GetByID(ctx, targetHeatID)
		if err != nil {
			if errors.Is(err, repositories.ErrHeatNotFound) {
				return ErrHeatNotFound
			}
			return err
		}
	}
	if source.ChampionshipID != championshipID || target.ChampionshipID != championshipID {
		return ErrWrongChampionship
	}

	ids := []int{source.ID}
	if target.ID != source.ID {
		ids = append(ids, target.ID)
	}
	entries, err := s.entryRepo.ListByHeatIDs(ctx, ids)
	if err != nil {
		return err
	}
	byHeat := groupEntriesByHeat(entries)

	sourceEntries := removeEntry(byHeat[source.ID], entryID)
	targetEntries := sourceEntries
	if target.ID != source.ID {
		targetEntries = byHeat[target.ID]
		if len(targetEntries) >= target.LaneCount {
			return ErrHeatCapacityExceeded
		}
		// Single occupancy holds per wod, not per heat: the competitor must
		// not hold a lane in any heat of the target wod besides the one they
		// are leaving.
		occupied, err := s.occupiesWod(ctx, target.WodID, entry.RegistrationID, entryID)
		if err != nil {
			return err
		}
		if occupied {
			return ErrEntryConflict
		}
	}
	if targetLaneIndex < 1 || targetLaneIndex > len(targetEntries)+1 {
		return ErrLaneIndexInvalid
	}

	moved := &models.HeatEntry{
		HeatID:         target.ID,
		RegistrationID: entry.RegistrationID,
	}
	targetEntries = insertEntryAt(targetEntries, moved, targetLaneIndex)

	// Moves are delete plus insert, never an update in place: both heats
	// are cleared and rewritten with dense lane numbers.
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.entryRepo.DeleteByHeatIDs(ctx, tx, ids); err != nil {
			return err
		}
		var rewritten []*models.HeatEntry
		if target.ID != source.ID {
			rewritten = append(rewritten, compactLanes(source.ID, sourceEntries)...)
		}
		rewritten = append(rewritten, compactLanes(target.ID, targetEntries)...)
		if len(rewritten) == 0 {
			return nil
		}
		return s.entryRepo.BulkInsert(ctx, tx, rewritten)
	})
}

func (s *assignmentService) RemoveEntry(ctx context.Context, championshipID, entryID int) error {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrHeatEntryNotFound) {
			return ErrHeatEntryNotFound
		}
		return err
	}
	heat, err := s.heatRepo.GetByID(ctx, entry.HeatID)
	if err != nil {
		return err
	}
	if heat.ChampionshipID != championshipID {
		return ErrWrongChampionship
	}
	return s.entryRepo.Delete(ctx, s.db, entryID)
}

func (s *assignmentService) ReseedByRanking(ctx context.Context, championshipID, wodID, categoryID int) (*ReseedReport, error) {
	locked, err := s.resultRepo.HasPublishedResults(ctx, wodID, categoryID)
	if err != nil {
		return nil, err
	}
	if locked {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("reseed skipped locked pair",
			slog.Int("wod_id", wodID),
			slog.Int("category_id", categoryID))
		return &ReseedReport{SkippedLocked: []string{category.Name}}, nil
	}
	return s.reseedPairs(ctx, championshipID, wodID, []int{categoryID}, nil)
}

func (s *assignmentService) ReseedWod(ctx context.Context, championshipID, wodID int) (*ReseedReport, error) {
	heats, err := s.heatRepo.ListByWod(ctx, wodID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var categoryIDs []int
	var skipped []string
	for _, h := range heats {
		if seen[h.CategoryID] {
			continue
		}
		seen[h.CategoryID] = true
		locked, err := s.resultRepo.HasPublishedResults(ctx, wodID, h.CategoryID)
		if err != nil {
			return nil, err
		}
		if locked {
			category, err := s.categoryRepo.GetByID(ctx, h.CategoryID)
			if err != nil {
				return nil, err
			}
			skipped = append(skipped, category.Name)
			continue
		}
		categoryIDs = append(categoryIDs, h.CategoryID)
	}

	return s.reseedPairs(ctx, championshipID, wodID, categoryIDs, skipped)
}

// reseedPairs rewrites the entries of each (wod, category) pair: the roster
// sorted by ranking, reversed, then sliced by each heat's lane capacity in
// heat order. Heat rows and scheduled times are untouched.
func (s *assignmentService) reseedPairs(ctx context.Context, championshipID, wodID int, categoryIDs []int, skipped []string) (*ReseedReport, error) {
	report := &ReseedReport{SkippedLocked: skipped}

	for _, categoryID := range categoryIDs {
		heats, err := s.heatRepo.ListByChampionship(ctx, championshipID, repositories.HeatFilter{
			WodID:      &wodID,
			CategoryID: &categoryID,
		})
		if err != nil {
			return nil, err
		}
		if len(heats) == 0 {
			continue
		}

		roster, err := s.regRepo.ListApprovedByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if len(roster) == 0 {
			continue
		}

		schedule.SortRoster(roster)
		reversed := schedule.ReverseRoster(roster)
		perHeat, leftover := schedule.SliceByCapacities(reversed, heats)
		if len(leftover) > 0 {
			s.logger.Warn("reseed left competitors without a lane",
				slog.Int("wod_id", wodID),
				slog.Int("category_id", categoryID),
				slog.Int("unplaced", len(leftover)))
			report.Unplaced += len(leftover)
		}

		if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
			if err := s.entryRepo.DeleteByHeatIDs(ctx, tx, heatIDs(heats)); err != nil {
				return err
			}
			var entries []*models.HeatEntry
			for _, h := range heats {
				for lane, reg := range perHeat[h.ID] {
					entries = append(entries, &models.HeatEntry{
						HeatID:         h.ID,
						RegistrationID: reg.ID,
						LaneNumber:     lane + 1,
					})
				}
			}
			if len(entries) == 0 {
				return nil
			}
			return s.entryRepo.BulkInsert(ctx, tx, entries)
		}); err != nil {
			return nil, fmt.Errorf("failed to reseed wod %d category %d: %w", wodID, categoryID, err)
		}
		report.PairsReseeded++
	}

	s.logger.Info("reseed finished",
		slog.Int("wod_id", wodID),
		slog.Int("pairs_reseeded", report.PairsReseeded),
		slog.Int("pairs_skipped", len(report.SkippedLocked)))
	return report, nil
}

func (s *assignmentService) Intercalate(ctx context.Context, championshipID, wodID int) error {
	heats, err := s.heatRepo.ListByWod(ctx, wodID)
	if err != nil {
		return err
	}
	if len(heats) == 0 {
		return ErrNothingToSchedule
	}
	for _, h := range heats {
		if h.ChampionshipID != championshipID {
			return ErrWrongChampionship
		}
	}

	// The pool is what is already on the floor: every current entry of the
	// wod's heats, in heat then lane order, tagged with the category the
	// competitor registered in. Competitors never placed in a heat are not
	// pulled in.
	entries, err := s.entryRepo.ListByHeatIDs(ctx, heatIDs(heats))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return ErrHeatsEmpty
	}

	regIDs := make([]int, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if !seen[e.RegistrationID] {
			seen[e.RegistrationID] = true
			regIDs = append(regIDs, e.RegistrationID)
		}
	}
	regs, err := s.regRepo.ListByIDs(ctx, regIDs)
	if err != nil {
		return err
	}
	categoryOf := make(map[int]int, len(regs))
	for _, reg := range regs {
		categoryOf[reg.ID] = reg.CategoryID
	}

	pool := intercalationPool(heats, entries, categoryOf)
	assignment := schedule.Intercalate(heats, pool)

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.entryRepo.DeleteByHeatIDs(ctx, tx, heatIDs(heats)); err != nil {
			return err
		}
		var entries []*models.HeatEntry
		for _, h := range heats {
			for lane, regID := range assignment[h.ID] {
				entries = append(entries, &models.HeatEntry{
					HeatID:         h.ID,
					RegistrationID: regID,
					LaneNumber:     lane + 1,
				})
			}
		}
		if len(entries) == 0 {
			return nil
		}
		return s.entryRepo.BulkInsert(ctx, tx, entries)
	})
}

// occupiesWod reports whether the registration already holds a lane in any
// heat of the wod, ignoring the entry being moved.
func (s *assignmentService) occupiesWod(ctx context.Context, wodID, registrationID, movingEntryID int) (bool, error) {
	wodHeats, err := s.heatRepo.ListByWod(ctx, wodID)
	if err != nil {
		return false, err
	}
	entries, err := s.entryRepo.ListByHeatIDs(ctx, heatIDs(wodHeats))
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.ID != movingEntryID && e.RegistrationID == registrationID {
			return true, nil
		}
	}
	return false, nil
}

// intercalationPool flattens the heats' current entries into redistribution
// order: heats by heat number, lanes in order. Entries whose registration is
// unknown fall back to the hosting heat's nominal category.
func intercalationPool(heats []*models.Heat, entries []*models.HeatEntry, categoryOf map[int]int) []schedule.PoolEntry {
	byHeat := groupEntriesByHeat(entries)
	pool := make([]schedule.PoolEntry, 0, len(entries))
	for _, h := range heats {
		for _, e := range byHeat[h.ID] {
			categoryID, ok := categoryOf[e.RegistrationID]
			if !ok {
				categoryID = h.CategoryID
			}
			pool = append(pool, schedule.PoolEntry{RegistrationID: e.RegistrationID, CategoryID: categoryID})
		}
	}
	return pool
}

func removeEntry(entries []*models.HeatEntry, entryID int) []*models.HeatEntry {
	out := make([]*models.HeatEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != entryID {
			out = append(out, e)
		}
	}
	return out
}

// insertEntryAt places the entry at the 1-based lane position, shifting the
// rest down.
func insertEntryAt(entries []*models.HeatEntry, entry *models.HeatEntry, position int) []*models.HeatEntry {
	idx := position - 1
	if idx > len(entries) {
		idx = len(entries)
	}
	out := make([]*models.HeatEntry, 0, len(entries)+1)
	out = append(out, entries[:idx]...)
	out = append(out, entry)
	out = append(out, entries[idx:]...)
	return out
}

// compactLanes renumbers the entries 1..n in slice order for the given heat.
func compactLanes(heatID int, entries []*models.HeatEntry) []*models.HeatEntry {
	out := make([]*models.HeatEntry, len(entries))
	for i, e := range entries {
		out[i] = &models.HeatEntry{
			HeatID:         heatID,
			RegistrationID: e.RegistrationID,
			LaneNumber:     i + 1,
		}
	}
	return out
}
