package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

// BuildParams scopes an initial heat build. Empty WodIDs/CategoryIDs mean
// every published wod and every category of the championship.
type BuildParams struct {
	ChampionshipID int
	WodIDs         []int
	CategoryIDs    []int
	LaneCount      int
	StartTime      time.Time
}

// BuildReport summarizes a build run.
type BuildReport struct {
	HeatsCreated  int      `json:"heats_created"`
	SkippedEmpty  []string `json:"skipped_empty,omitempty"`
	SkippedExists []string `json:"skipped_existing,omitempty"`
}

type HeatService interface {
	BuildInitialHeats(ctx context.Context, params BuildParams) (*BuildReport, error)
	AddSingleHeat(ctx context.Context, championshipID, wodID, categoryID, laneCount int, scheduledTime time.Time, customName *string) (*models.Heat, error)
	UpdateHeatDetails(ctx context.Context, championshipID, heatID, laneCount int, customName *string) error
	DeleteHeat(ctx context.Context, championshipID, heatID int) error
}

type heatService struct {
	db           *sql.DB
	champRepo    repositories.ChampionshipRepository
	categoryRepo repositories.CategoryRepository
	wodRepo      repositories.WodRepository
	regRepo      repositories.RegistrationRepository
	heatRepo     repositories.HeatRepository
	entryRepo    repositories.HeatEntryRepository
	schedule     ScheduleService
	logger       *slog.Logger
}

func NewHeatService(
	db *sql.DB,
	champRepo repositories.ChampionshipRepository,
	categoryRepo repositories.CategoryRepository,
	wodRepo repositories.WodRepository,
	regRepo repositories.RegistrationRepository,
	heatRepo repositories.HeatRepository,
	entryRepo repositories.HeatEntryRepository,
	scheduleService ScheduleService,
	logger *slog.Logger,
) HeatService {
	return &heatService{
		db:           db,
		champRepo:    champRepo,
		categoryRepo: categoryRepo,
		wodRepo:      wodRepo,
		regRepo:      regRepo,
		heatRepo:     heatRepo,
		entryRepo:    entryRepo,
		schedule:     scheduleService,
		logger:       logger,
	}
}

// BuildInitialHeats creates heats for the wod × category cross product,
// seeding each heat with a contiguous slice of the category roster. Pairs
// that already have heats are skipped, never duplicated; pairs with an empty
// roster are logged and skipped. Each (wod, category) slice is committed in
// its own transaction, so a failure aborts the remaining slices but keeps
// the finished ones.
func (s *heatService) BuildInitialHeats(ctx context.Context, params BuildParams) (*BuildReport, error) {
	if params.LaneCount < 1 {
		return nil, ErrLaneCountInvalid
	}
	if params.StartTime.IsZero() {
		return nil, ErrStartTimeRequired
	}

	wods, err := s.wodRepo.ListByChampionship(ctx, params.ChampionshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wods for championship %d: %w", params.ChampionshipID, err)
	}
	wods = filterWods(wods, params.WodIDs)

	categories, err := s.categoryRepo.ListByChampionship(ctx, params.ChampionshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for championship %d: %w", params.ChampionshipID, err)
	}
	categories = filterCategories(categories, params.CategoryIDs)

	if len(wods) == 0 || len(categories) == 0 {
		return nil, ErrNothingToSchedule
	}

	calc, err := buildCalculator(ctx, s.champRepo, s.wodRepo, params.ChampionshipID)
	if err != nil {
		return nil, err
	}

	existing, err := s.heatRepo.ListByChampionship(ctx, params.ChampionshipID, repositories.HeatFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list existing heats: %w", err)
	}
	existingPairs := make(map[schedule.PairKey]bool, len(existing))
	for _, h := range existing {
		existingPairs[schedule.PairKey{WodID: h.WodID, CategoryID: h.CategoryID}] = true
	}

	nextNumber, err := s.heatRepo.MaxHeatNumber(ctx, params.ChampionshipID)
	if err != nil {
		return nil, err
	}
	nextNumber++

	report := &BuildReport{}
	currentTime := params.StartTime
	appliedBreaks := make(map[string]bool)
	var prevHeat *models.Heat

	for _, wod := range wods {
		for _, category := range categories {
			pair := schedule.PairKey{WodID: wod.ID, CategoryID: category.ID}
			if existingPairs[pair] {
				report.SkippedExists = append(report.SkippedExists, fmt.Sprintf("%s/%s", wod.Name, category.Name))
				continue
			}

			roster, err := s.regRepo.ListApprovedByCategory(ctx, category.ID)
			if err != nil {
				return report, fmt.Errorf("failed to load roster for category %d: %w", category.ID, err)
			}
			if len(roster) == 0 {
				s.logger.Warn("skipping heat build for empty roster",
					slog.Int("wod_id", wod.ID),
					slog.Int("category_id", category.ID),
					slog.String("category", category.Name))
				report.SkippedEmpty = append(report.SkippedEmpty, fmt.Sprintf("%s/%s", wod.Name, category.Name))
				continue
			}

			schedule.SortRoster(roster)
			chunks := schedule.Chunk(roster, params.LaneCount)

			perHeatMinutes := calc.HeatDurationMinutes(wod.ID, category.ID)

			for _, chunk := range chunks {
				heat := &models.Heat{
					ChampionshipID: params.ChampionshipID,
					WodID:          wod.ID,
					CategoryID:     category.ID,
					HeatNumber:     nextNumber,
					LaneCount:      params.LaneCount,
				}
				if prevHeat != nil {
					currentTime = currentTime.Add(calc.BoundaryInterval(prevHeat, heat, appliedBreaks))
				}
				start := currentTime
				heat.ScheduledTime = &start

				chunk := chunk
				if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
					if err := s.heatRepo.Create(ctx, tx, heat); err != nil {
						return err
					}
					entries := make([]*models.HeatEntry, len(chunk))
					for i, reg := range chunk {
						entries[i] = &models.HeatEntry{
							HeatID:         heat.ID,
							RegistrationID: reg.ID,
							LaneNumber:     i + 1,
						}
					}
					return s.entryRepo.BulkInsert(ctx, tx, entries)
				}); err != nil {
					return report, fmt.Errorf("failed to create heat %d: %w", nextNumber, err)
				}

				currentTime = start.Add(time.Duration(perHeatMinutes * float64(time.Minute)))
				prevHeat = heat
				nextNumber++
				report.HeatsCreated++
			}
		}
	}

	s.logger.Info("initial heats built",
		slog.Int("championship_id", params.ChampionshipID),
		slog.Int("heats_created", report.HeatsCreated))
	return report, nil
}

// AddSingleHeat appends one heat at the end of the numbering and shifts the
// schedule of everything after it.
func (s *heatService) AddSingleHeat(ctx context.Context, championshipID, wodID, categoryID, laneCount int, scheduledTime time.Time, customName *string) (*models.Heat, error) {
	if laneCount < 1 {
		return nil, ErrLaneCountInvalid
	}
	if scheduledTime.IsZero() {
		return nil, ErrStartTimeRequired
	}

	maxNumber, err := s.heatRepo.MaxHeatNumber(ctx, championshipID)
	if err != nil {
		return nil, err
	}

	heat := &models.Heat{
		ChampionshipID: championshipID,
		WodID:          wodID,
		CategoryID:     categoryID,
		HeatNumber:     maxNumber + 1,
		LaneCount:      laneCount,
		ScheduledTime:  &scheduledTime,
		CustomName:     customName,
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.heatRepo.Create(ctx, tx, heat)
	}); err != nil {
		if errors.Is(err, repositories.ErrHeatWodInvalid) {
			return nil, ErrWodNotFound
		}
		if errors.Is(err, repositories.ErrHeatCategoryInvalid) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if _, err := s.schedule.RecalculateFollowing(ctx, championshipID, heat.ID); err != nil {
		return heat, fmt.Errorf("heat created but recalculation failed: %w", err)
	}
	return heat, nil
}

func (s *heatService) UpdateHeatDetails(ctx context.Context, championshipID, heatID, laneCount int, customName *string) error {
	if laneCount < 1 {
		return ErrLaneCountInvalid
	}
	if _, err := s.ownedHeat(ctx, championshipID, heatID); err != nil {
		return err
	}
	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.heatRepo.UpdateDetails(ctx, tx, heatID, laneCount, customName); err != nil {
			if errors.Is(err, repositories.ErrHeatNotFound) {
				return ErrHeatNotFound
			}
			return err
		}
		return nil
	})
}

// DeleteHeat removes the heat and its entries (store-level cascade), then
// closes the numbering gap so heat_number stays a dense total order.
func (s *heatService) DeleteHeat(ctx context.Context, championshipID, heatID int) error {
	heat, err := s.ownedHeat(ctx, championshipID, heatID)
	if err != nil {
		return err
	}

	heats, err := s.heatRepo.ListByChampionship(ctx, championshipID, repositories.HeatFilter{})
	if err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.heatRepo.Delete(ctx, tx, heatID); err != nil {
			if errors.Is(err, repositories.ErrHeatNotFound) {
				return ErrHeatNotFound
			}
			return err
		}
		for _, h := range heats {
			if h.HeatNumber > heat.HeatNumber {
				if err := s.heatRepo.UpdateHeatNumber(ctx, tx, h.ID, h.HeatNumber-1); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *heatService) ownedHeat(ctx context.Context, championshipID, heatID int) (*models.Heat, error) {
	heat, err := s.heatRepo.GetByID(ctx, heatID)
	if err != nil {
		if errors.Is(err, repositories.ErrHeatNotFound) {
			return nil, ErrHeatNotFound
		}
		return nil, err
	}
	if heat.ChampionshipID != championshipID {
		return nil, ErrWrongChampionship
	}
	return heat, nil
}

func filterWods(wods []*models.Wod, ids []int) []*models.Wod {
	if len(ids) == 0 {
		return wods
	}
	allowed := make(map[int]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	filtered := wods[:0]
	for _, w := range wods {
		if allowed[w.ID] {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

func filterCategories(categories []*models.Category, ids []int) []*models.Category {
	if len(ids) == 0 {
		return categories
	}
	allowed := make(map[int]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	filtered := categories[:0]
	for _, c := range categories {
		if allowed[c.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
