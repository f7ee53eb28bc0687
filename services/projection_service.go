package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

type ProjectionService interface {
	// ChampionshipSchedule builds the full read-only schedule view, ordered
	// by scheduled time then heat number.
	ChampionshipSchedule(ctx context.Context, championshipID int) ([]models.HeatProjection, error)
	// WodSchedule is the same view narrowed to one wod.
	WodSchedule(ctx context.Context, championshipID, wodID int) ([]models.HeatProjection, error)
}

type projectionService struct {
	champRepo    repositories.ChampionshipRepository
	categoryRepo repositories.CategoryRepository
	wodRepo      repositories.WodRepository
	regRepo      repositories.RegistrationRepository
	heatRepo     repositories.HeatRepository
	entryRepo    repositories.HeatEntryRepository
}

func NewProjectionService(
	champRepo repositories.ChampionshipRepository,
	categoryRepo repositories.CategoryRepository,
	wodRepo repositories.WodRepository,
	regRepo repositories.RegistrationRepository,
	heatRepo repositories.HeatRepository,
	entryRepo repositories.HeatEntryRepository,
) ProjectionService {
	return &projectionService{
		champRepo:    champRepo,
		categoryRepo: categoryRepo,
		wodRepo:      wodRepo,
		regRepo:      regRepo,
		heatRepo:     heatRepo,
		entryRepo:    entryRepo,
	}
}

func (s *projectionService) ChampionshipSchedule(ctx context.Context, championshipID int) ([]models.HeatProjection, error) {
	return s.project(ctx, championshipID, repositories.HeatFilter{})
}

func (s *projectionService) WodSchedule(ctx context.Context, championshipID, wodID int) ([]models.HeatProjection, error) {
	return s.project(ctx, championshipID, repositories.HeatFilter{WodID: &wodID})
}

func (s *projectionService) project(ctx context.Context, championshipID int, filter repositories.HeatFilter) ([]models.HeatProjection, error) {
	heats, err := s.heatRepo.ListByChampionship(ctx, championshipID, filter)
	if err != nil {
		return nil, err
	}
	if len(heats) == 0 {
		return []models.HeatProjection{}, nil
	}

	var (
		calc       *schedule.Calculator
		entries    []*models.HeatEntry
		categories []*models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		calc, err = buildCalculator(gctx, s.champRepo, s.wodRepo, championshipID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListByHeatIDs(gctx, heatIDs(heats))
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.ListByChampionship(gctx, championshipID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load schedule projection: %w", err)
	}

	regIDs := make([]int, 0, len(entries))
	for _, e := range entries {
		regIDs = append(regIDs, e.RegistrationID)
	}
	registrations, err := s.regRepo.ListByIDs(ctx, regIDs)
	if err != nil {
		return nil, err
	}
	regByID := make(map[int]*models.Registration, len(registrations))
	for _, r := range registrations {
		regByID[r.ID] = r
	}
	categoryByID := make(map[int]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	byHeat := groupEntriesByHeat(entries)
	projections := make([]models.HeatProjection, 0, len(heats))
	for _, h := range heats {
		p := models.HeatProjection{
			HeatID:        h.ID,
			HeatNumber:    h.HeatNumber,
			Name:          heatDisplayName(h),
			ScheduledTime: h.ScheduledTime,
			Entries:       []models.EntryProjection{},
		}
		if wod, ok := calc.Wods[h.WodID]; ok {
			p.WodName = wod.Name
		}
		if category, ok := categoryByID[h.CategoryID]; ok {
			p.CategoryName = category.Name
		}
		if end, ok := calc.EndTime(h); ok {
			p.EndTime = &end
		}

		seenCategories := make(map[string]bool)
		for _, e := range byHeat[h.ID] {
			ep := models.EntryProjection{
				LaneNumber:     e.LaneNumber,
				RegistrationID: e.RegistrationID,
			}
			if reg, ok := regByID[e.RegistrationID]; ok {
				ep.CompetitorName = reg.CompetitorName
				if category, ok := categoryByID[reg.CategoryID]; ok {
					ep.CategoryName = category.Name
					if !seenCategories[category.Name] {
						seenCategories[category.Name] = true
						p.ParticipantCategories = append(p.ParticipantCategories, category.Name)
					}
				}
			}
			p.Entries = append(p.Entries, ep)
		}
		sort.Strings(p.ParticipantCategories)
		projections = append(projections, p)
	}

	sortProjections(projections)
	return projections, nil
}

// heatDisplayName prefers the organizer's custom name over the generated
// "Heat N".
func heatDisplayName(h *models.Heat) string {
	if h.CustomName != nil && *h.CustomName != "" {
		return *h.CustomName
	}
	return fmt.Sprintf("Heat %d", h.HeatNumber)
}

func sortProjections(projections []models.HeatProjection) {
	sort.SliceStable(projections, func(i, j int) bool {
		a, b := projections[i], projections[j]
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
