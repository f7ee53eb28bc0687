package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viniciusalmeida93/ant-camp/models"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	GetByID(ctx context.Context, id int) (*models.Category, error)
	ListByChampionship(ctx context.Context, championshipID int) ([]*models.Category, error)
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	query := `
		SELECT id, championship_id, name, order_index, team_size, created_at
		FROM categories
		WHERE id = $1`

	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.ChampionshipID,
		&category.Name,
		&category.OrderIndex,
		&category.TeamSize,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to scan category by id %d: %w", id, err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) ListByChampionship(ctx context.Context, championshipID int) ([]*models.Category, error) {
	query := `
		SELECT id, championship_id, name, order_index, team_size, created_at
		FROM categories
		WHERE championship_id = $1
		ORDER BY order_index ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for championship %d: %w", championshipID, err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		var category models.Category
		if scanErr := rows.Scan(
			&category.ID,
			&category.ChampionshipID,
			&category.Name,
			&category.OrderIndex,
			&category.TeamSize,
			&category.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", scanErr)
		}
		categories = append(categories, &category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during category rows iteration: %w", err)
	}
	return categories, nil
}
