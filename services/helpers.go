package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/schedule"
)

// runInTx wraps fn in a transaction with rollback on error or panic. Every
// multi-row mutation in the engine goes through here so a failed sub-step
// aborts the rest of that operation.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("rollback failed: %v (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// buildCalculator assembles the pure schedule calculator from stored
// configuration, wods and per-category variations.
func buildCalculator(ctx context.Context, champRepo repositories.ChampionshipRepository, wodRepo repositories.WodRepository, championshipID int) (*schedule.Calculator, error) {
	cfg, err := champRepo.GetIntervalConfig(ctx, championshipID)
	if err != nil {
		return nil, err
	}

	wods, err := wodRepo.ListByChampionship(ctx, championshipID)
	if err != nil {
		return nil, err
	}
	wodMap := make(map[int]*models.Wod, len(wods))
	wodIDs := make([]int, 0, len(wods))
	for _, wod := range wods {
		wodMap[wod.ID] = wod
		wodIDs = append(wodIDs, wod.ID)
	}

	variations, err := wodRepo.ListVariations(ctx, wodIDs)
	if err != nil {
		return nil, err
	}
	variationMap := make(map[schedule.VariationKey]*models.WodCategoryVariation, len(variations))
	for _, v := range variations {
		variationMap[schedule.VariationKey{WodID: v.WodID, CategoryID: v.CategoryID}] = v
	}

	return &schedule.Calculator{
		Config:     *cfg,
		Wods:       wodMap,
		Variations: variationMap,
	}, nil
}

// groupEntriesByHeat buckets entries by heat, keeping lane order.
func groupEntriesByHeat(entries []*models.HeatEntry) map[int][]*models.HeatEntry {
	grouped := make(map[int][]*models.HeatEntry)
	for _, entry := range entries {
		grouped[entry.HeatID] = append(grouped[entry.HeatID], entry)
	}
	return grouped
}

func heatIDs(heats []*models.Heat) []int {
	ids := make([]int, len(heats))
	for i, h := range heats {
		ids[i] = h.ID
	}
	return ids
}
