package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
)

// In-memory repositories for the rule checks that run before any transaction
// is opened. Mutating methods only record what they were asked to do.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeHeatRepo struct {
	heats map[int]*models.Heat
}

func (f *fakeHeatRepo) Create(ctx context.Context, exec repositories.SQLExecutor, heat *models.Heat) error {
	return nil
}

func (f *fakeHeatRepo) GetByID(ctx context.Context, id int) (*models.Heat, error) {
	h, ok := f.heats[id]
	if !ok {
		return nil, repositories.ErrHeatNotFound
	}
	return h, nil
}

func (f *fakeHeatRepo) ListByChampionship(ctx context.Context, championshipID int, filter repositories.HeatFilter) ([]*models.Heat, error) {
	var out []*models.Heat
	for _, h := range f.heats {
		if h.ChampionshipID != championshipID {
			continue
		}
		if filter.WodID != nil && h.WodID != *filter.WodID {
			continue
		}
		if filter.CategoryID != nil && h.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HeatNumber < out[j].HeatNumber })
	return out, nil
}

func (f *fakeHeatRepo) ListByWod(ctx context.Context, wodID int) ([]*models.Heat, error) {
	var out []*models.Heat
	for _, h := range f.heats {
		if h.WodID == wodID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HeatNumber < out[j].HeatNumber })
	return out, nil
}

func (f *fakeHeatRepo) MaxHeatNumber(ctx context.Context, championshipID int) (int, error) {
	max := 0
	for _, h := range f.heats {
		if h.ChampionshipID == championshipID && h.HeatNumber > max {
			max = h.HeatNumber
		}
	}
	return max, nil
}

func (f *fakeHeatRepo) UpdateScheduledTime(ctx context.Context, exec repositories.SQLExecutor, id int, scheduledTime time.Time) error {
	return nil
}

func (f *fakeHeatRepo) UpdateHeatNumber(ctx context.Context, exec repositories.SQLExecutor, id int, heatNumber int) error {
	return nil
}

func (f *fakeHeatRepo) UpdateDetails(ctx context.Context, exec repositories.SQLExecutor, id int, laneCount int, customName *string) error {
	return nil
}

func (f *fakeHeatRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	return nil
}

type fakeEntryRepo struct {
	entries map[int]*models.HeatEntry
	deleted []int
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id int) (*models.HeatEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrHeatEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) ListByHeatIDs(ctx context.Context, heatIDs []int) ([]*models.HeatEntry, error) {
	wanted := make(map[int]bool, len(heatIDs))
	for _, id := range heatIDs {
		wanted[id] = true
	}
	var out []*models.HeatEntry
	for _, e := range f.entries {
		if wanted[e.HeatID] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HeatID != out[j].HeatID {
			return out[i].HeatID < out[j].HeatID
		}
		return out[i].LaneNumber < out[j].LaneNumber
	})
	return out, nil
}

func (f *fakeEntryRepo) BulkInsert(ctx context.Context, exec repositories.SQLExecutor, entries []*models.HeatEntry) error {
	return nil
}

func (f *fakeEntryRepo) DeleteByHeatIDs(ctx context.Context, exec repositories.SQLExecutor, heatIDs []int) error {
	return nil
}

func (f *fakeEntryRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	f.deleted = append(f.deleted, id)
	delete(f.entries, id)
	return nil
}

type fakeResultRepo struct {
	locked map[schedulePair]bool
}

type schedulePair struct {
	WodID      int
	CategoryID int
}

func (f *fakeResultRepo) HasPublishedResults(ctx context.Context, wodID, categoryID int) (bool, error) {
	return f.locked[schedulePair{WodID: wodID, CategoryID: categoryID}], nil
}

func (f *fakeResultRepo) ListPublishedPairs(ctx context.Context, championshipID int) ([]models.WodResult, error) {
	return nil, nil
}

type fakeCategoryRepo struct {
	categories map[int]*models.Category
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) ListByChampionship(ctx context.Context, championshipID int) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	r, ok := f.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	return r, nil
}

func (f *fakeRegistrationRepo) ListApprovedByCategory(ctx context.Context, categoryID int) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, r := range f.registrations {
		if r.CategoryID == categoryID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRegistrationRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Registration, error) {
	var out []*models.Registration
	for _, id := range ids {
		if r, ok := f.registrations[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
