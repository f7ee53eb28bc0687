package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/viniciusalmeida93/ant-camp/models"
)

var ErrWodNotFound = errors.New("wod not found")

type WodRepository interface {
	GetByID(ctx context.Context, id int) (*models.Wod, error)
	// ListByChampionship returns published wods in order_num order with
	// their day assignment joined in.
	ListByChampionship(ctx context.Context, championshipID int) ([]*models.Wod, error)
	ListVariations(ctx context.Context, wodIDs []int) ([]*models.WodCategoryVariation, error)
}

type postgresWodRepository struct {
	db *sql.DB
}

func NewPostgresWodRepository(db *sql.DB) WodRepository {
	return &postgresWodRepository{db: db}
}

const wodSelect = `
	SELECT w.id, w.championship_id, w.name, w.order_num, w.time_cap,
	       w.estimated_duration_minutes, w.is_published, w.created_at,
	       cd.id, cd.day_number, cdw.order_num
	FROM wods w
	LEFT JOIN championship_day_wods cdw ON cdw.wod_id = w.id
	LEFT JOIN championship_days cd ON cd.id = cdw.championship_day_id`

func (r *postgresWodRepository) GetByID(ctx context.Context, id int) (*models.Wod, error) {
	query := wodSelect + ` WHERE w.id = $1`

	wod := &models.Wod{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&wod.ID,
		&wod.ChampionshipID,
		&wod.Name,
		&wod.OrderNum,
		&wod.TimeCap,
		&wod.EstimatedDurationMinutes,
		&wod.IsPublished,
		&wod.CreatedAt,
		&wod.DayID,
		&wod.DayNumber,
		&wod.OrderNumInDay,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWodNotFound
		}
		return nil, fmt.Errorf("failed to scan wod by id %d: %w", id, err)
	}
	return wod, nil
}

func (r *postgresWodRepository) ListByChampionship(ctx context.Context, championshipID int) ([]*models.Wod, error) {
	query := wodSelect + `
	WHERE w.championship_id = $1 AND w.is_published = TRUE
	ORDER BY w.order_num ASC`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wods for championship %d: %w", championshipID, err)
	}
	defer rows.Close()

	wods := make([]*models.Wod, 0)
	for rows.Next() {
		var wod models.Wod
		if scanErr := rows.Scan(
			&wod.ID,
			&wod.ChampionshipID,
			&wod.Name,
			&wod.OrderNum,
			&wod.TimeCap,
			&wod.EstimatedDurationMinutes,
			&wod.IsPublished,
			&wod.CreatedAt,
			&wod.DayID,
			&wod.DayNumber,
			&wod.OrderNumInDay,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan wod row: %w", scanErr)
		}
		wods = append(wods, &wod)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during wod rows iteration: %w", err)
	}
	return wods, nil
}

func (r *postgresWodRepository) ListVariations(ctx context.Context, wodIDs []int) ([]*models.WodCategoryVariation, error) {
	if len(wodIDs) == 0 {
		return []*models.WodCategoryVariation{}, nil
	}

	query := `
		SELECT id, wod_id, category_id, time_cap
		FROM wod_category_variations
		WHERE wod_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(wodIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query wod variations: %w", err)
	}
	defer rows.Close()

	variations := make([]*models.WodCategoryVariation, 0)
	for rows.Next() {
		var v models.WodCategoryVariation
		if scanErr := rows.Scan(&v.ID, &v.WodID, &v.CategoryID, &v.TimeCap); scanErr != nil {
			return nil, fmt.Errorf("failed to scan wod variation row: %w", scanErr)
		}
		variations = append(variations, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during wod variation rows iteration: %w", err)
	}
	return variations, nil
}
