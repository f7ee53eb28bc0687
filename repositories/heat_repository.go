package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/viniciusalmeida93/ant-camp/models"
)

var (
	ErrHeatNotFound            = errors.New("heat not found")
	ErrHeatNumberConflict      = errors.New("heat number already taken in this championship")
	ErrHeatChampionshipInvalid = errors.New("heat championship conflict or invalid")
	ErrHeatWodInvalid          = errors.New("heat wod conflict or invalid")
	ErrHeatCategoryInvalid     = errors.New("heat category conflict or invalid")
)

// HeatFilter narrows ListByChampionship. Nil fields match everything.
type HeatFilter struct {
	WodID      *int
	CategoryID *int
}

type HeatRepository interface {
	Create(ctx context.Context, exec SQLExecutor, heat *models.Heat) error
	GetByID(ctx context.Context, id int) (*models.Heat, error)
	ListByChampionship(ctx context.Context, championshipID int, filter HeatFilter) ([]*models.Heat, error)
	ListByWod(ctx context.Context, wodID int) ([]*models.Heat, error)
	MaxHeatNumber(ctx context.Context, championshipID int) (int, error)
	UpdateScheduledTime(ctx context.Context, exec SQLExecutor, id int, scheduledTime time.Time) error
	UpdateHeatNumber(ctx context.Context, exec SQLExecutor, id int, heatNumber int) error
	UpdateDetails(ctx context.Context, exec SQLExecutor, id int, laneCount int, customName *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresHeatRepository struct {
	db *sql.DB
}

func NewPostgresHeatRepository(db *sql.DB) HeatRepository {
	return &postgresHeatRepository{db: db}
}

const heatColumns = `id, championship_id, wod_id, category_id, heat_number, lane_count, scheduled_time, custom_name, created_at`

func (r *postgresHeatRepository) Create(ctx context.Context, exec SQLExecutor, heat *models.Heat) error {
	query := `
		INSERT INTO heats
			(championship_id, wod_id, category_id, heat_number, lane_count, scheduled_time, custom_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		heat.ChampionshipID,
		heat.WodID,
		heat.CategoryID,
		heat.HeatNumber,
		heat.LaneCount,
		heat.ScheduledTime,
		heat.CustomName,
	).Scan(&heat.ID, &heat.CreatedAt)

	return r.handleHeatError(err)
}

func (r *postgresHeatRepository) GetByID(ctx context.Context, id int) (*models.Heat, error) {
	query := `SELECT ` + heatColumns + ` FROM heats WHERE id = $1`

	heat := &models.Heat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&heat.ID,
		&heat.ChampionshipID,
		&heat.WodID,
		&heat.CategoryID,
		&heat.HeatNumber,
		&heat.LaneCount,
		&heat.ScheduledTime,
		&heat.CustomName,
		&heat.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHeatNotFound
		}
		return nil, fmt.Errorf("failed to scan heat by id %d: %w", id, err)
	}
	return heat, nil
}

func (r *postgresHeatRepository) ListByChampionship(ctx context.Context, championshipID int, filter HeatFilter) ([]*models.Heat, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + heatColumns + ` FROM heats WHERE championship_id = $1`)

	args := []interface{}{championshipID}
	placeholderIndex := 2

	if filter.WodID != nil {
		queryBuilder.WriteString(" AND wod_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.WodID)
		placeholderIndex++
	}
	if filter.CategoryID != nil {
		queryBuilder.WriteString(" AND category_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.CategoryID)
	}

	queryBuilder.WriteString(" ORDER BY heat_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query heats for championship %d: %w", championshipID, err)
	}
	defer rows.Close()

	return scanHeats(rows)
}

func (r *postgresHeatRepository) ListByWod(ctx context.Context, wodID int) ([]*models.Heat, error) {
	query := `SELECT ` + heatColumns + ` FROM heats WHERE wod_id = $1 ORDER BY heat_number ASC`

	rows, err := r.db.QueryContext(ctx, query, wodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query heats for wod %d: %w", wodID, err)
	}
	defer rows.Close()

	return scanHeats(rows)
}

func (r *postgresHeatRepository) MaxHeatNumber(ctx context.Context, championshipID int) (int, error) {
	query := `SELECT COALESCE(MAX(heat_number), 0) FROM heats WHERE championship_id = $1`

	var max int
	if err := r.db.QueryRowContext(ctx, query, championshipID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to query max heat number for championship %d: %w", championshipID, err)
	}
	return max, nil
}

func (r *postgresHeatRepository) UpdateScheduledTime(ctx context.Context, exec SQLExecutor, id int, scheduledTime time.Time) error {
	query := `UPDATE heats SET scheduled_time = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, scheduledTime, id)
	if err != nil {
		return fmt.Errorf("failed to update scheduled time for heat %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrHeatNotFound)
}

func (r *postgresHeatRepository) UpdateHeatNumber(ctx context.Context, exec SQLExecutor, id int, heatNumber int) error {
	query := `UPDATE heats SET heat_number = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, heatNumber, id)
	if err != nil {
		return r.handleHeatError(err)
	}
	return checkAffectedRows(result, ErrHeatNotFound)
}

func (r *postgresHeatRepository) UpdateDetails(ctx context.Context, exec SQLExecutor, id int, laneCount int, customName *string) error {
	query := `UPDATE heats SET lane_count = $1, custom_name = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, laneCount, customName, id)
	if err != nil {
		return fmt.Errorf("failed to update heat %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrHeatNotFound)
}

// Delete removes the heat; its entries go with it through the
// heat_entries.heat_id ON DELETE CASCADE constraint.
func (r *postgresHeatRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM heats WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete heat %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrHeatNotFound)
}

func scanHeats(rows *sql.Rows) ([]*models.Heat, error) {
	heats := make([]*models.Heat, 0)
	for rows.Next() {
		var heat models.Heat
		if err := rows.Scan(
			&heat.ID,
			&heat.ChampionshipID,
			&heat.WodID,
			&heat.CategoryID,
			&heat.HeatNumber,
			&heat.LaneCount,
			&heat.ScheduledTime,
			&heat.CustomName,
			&heat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan heat row: %w", err)
		}
		heats = append(heats, &heat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during heat rows iteration: %w", err)
	}
	return heats, nil
}

func (r *postgresHeatRepository) handleHeatError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "heats_championship_id_heat_number_key":
			return ErrHeatNumberConflict
		case "heats_championship_id_fkey":
			return ErrHeatChampionshipInvalid
		case "heats_wod_id_fkey":
			return ErrHeatWodInvalid
		case "heats_category_id_fkey":
			return ErrHeatCategoryInvalid
		}
	}
	return err
}
