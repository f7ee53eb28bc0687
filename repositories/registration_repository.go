package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/viniciusalmeida93/ant-camp/models"
)

var ErrRegistrationNotFound = errors.New("registration not found")

// RegistrationRepository is the roster provider boundary. Approval and
// payment filtering happen upstream: only approved registrations are stored
// with status 'approved', and every listing here is restricted to them.
type RegistrationRepository interface {
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	ListApprovedByCategory(ctx context.Context, categoryID int) ([]*models.Registration, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Registration, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, championship_id, category_id, competitor_name, order_index, created_at`

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 AND status = 'approved'`

	reg := &models.Registration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID,
		&reg.ChampionshipID,
		&reg.CategoryID,
		&reg.CompetitorName,
		&reg.OrderIndex,
		&reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration by id %d: %w", id, err)
	}
	return reg, nil
}

// ListApprovedByCategory returns the category roster in seeding order:
// order_index ascending with nulls last, then creation time.
func (r *postgresRegistrationRepository) ListApprovedByCategory(ctx context.Context, categoryID int) ([]*models.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE category_id = $1 AND status = 'approved'
		ORDER BY order_index ASC NULLS LAST, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster for category %d: %w", categoryID, err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func (r *postgresRegistrationRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Registration, error) {
	if len(ids) == 0 {
		return []*models.Registration{}, nil
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations by ids: %w", err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func scanRegistrations(rows *sql.Rows) ([]*models.Registration, error) {
	regs := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.ChampionshipID,
			&reg.CategoryID,
			&reg.CompetitorName,
			&reg.OrderIndex,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return regs, nil
}
