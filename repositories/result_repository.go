package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viniciusalmeida93/ant-camp/models"
)

// WodResultRepository is the result-lock boundary: the engine only ever asks
// whether published results exist, never what they say.
type WodResultRepository interface {
	HasPublishedResults(ctx context.Context, wodID, categoryID int) (bool, error)
	// ListPublishedPairs returns every (wod, category) pair of the
	// championship that has at least one published result.
	ListPublishedPairs(ctx context.Context, championshipID int) ([]models.WodResult, error)
}

type postgresWodResultRepository struct {
	db *sql.DB
}

func NewPostgresWodResultRepository(db *sql.DB) WodResultRepository {
	return &postgresWodResultRepository{db: db}
}

func (r *postgresWodResultRepository) HasPublishedResults(ctx context.Context, wodID, categoryID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM wod_results
			WHERE wod_id = $1 AND category_id = $2 AND is_published = TRUE
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, wodID, categoryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check published results for wod %d category %d: %w", wodID, categoryID, err)
	}
	return exists, nil
}

func (r *postgresWodResultRepository) ListPublishedPairs(ctx context.Context, championshipID int) ([]models.WodResult, error) {
	query := `
		SELECT DISTINCT r.wod_id, r.category_id
		FROM wod_results r
		JOIN wods w ON w.id = r.wod_id
		WHERE w.championship_id = $1 AND r.is_published = TRUE`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query published pairs for championship %d: %w", championshipID, err)
	}
	defer rows.Close()

	pairs := make([]models.WodResult, 0)
	for rows.Next() {
		var pair models.WodResult
		if scanErr := rows.Scan(&pair.WodID, &pair.CategoryID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan published pair row: %w", scanErr)
		}
		pair.IsPublished = true
		pairs = append(pairs, pair)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during published pair rows iteration: %w", err)
	}
	return pairs, nil
}
