package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/viniciusalmeida93/ant-camp/models"
)

var (
	ErrHeatEntryNotFound            = errors.New("heat entry not found")
	ErrHeatEntryLaneConflict        = errors.New("lane already occupied in this heat")
	ErrHeatEntryDuplicate           = errors.New("registration already placed in this heat")
	ErrHeatEntryHeatInvalid         = errors.New("heat entry heat conflict or invalid")
	ErrHeatEntryRegistrationInvalid = errors.New("heat entry registration conflict or invalid")
)

type HeatEntryRepository interface {
	GetByID(ctx context.Context, id int) (*models.HeatEntry, error)
	ListByHeatIDs(ctx context.Context, heatIDs []int) ([]*models.HeatEntry, error)
	BulkInsert(ctx context.Context, exec SQLExecutor, entries []*models.HeatEntry) error
	DeleteByHeatIDs(ctx context.Context, exec SQLExecutor, heatIDs []int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresHeatEntryRepository struct {
	db *sql.DB
}

func NewPostgresHeatEntryRepository(db *sql.DB) HeatEntryRepository {
	return &postgresHeatEntryRepository{db: db}
}

func (r *postgresHeatEntryRepository) GetByID(ctx context.Context, id int) (*models.HeatEntry, error) {
	query := `
		SELECT id, heat_id, registration_id, lane_number, created_at
		FROM heat_entries
		WHERE id = $1`

	entry := &models.HeatEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.HeatID,
		&entry.RegistrationID,
		&entry.LaneNumber,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHeatEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan heat entry by id %d: %w", id, err)
	}
	return entry, nil
}

func (r *postgresHeatEntryRepository) ListByHeatIDs(ctx context.Context, heatIDs []int) ([]*models.HeatEntry, error) {
	if len(heatIDs) == 0 {
		return []*models.HeatEntry{}, nil
	}

	query := `
		SELECT id, heat_id, registration_id, lane_number, created_at
		FROM heat_entries
		WHERE heat_id = ANY($1)
		ORDER BY heat_id ASC, lane_number ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(heatIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query heat entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.HeatEntry, 0)
	for rows.Next() {
		var entry models.HeatEntry
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.HeatID,
			&entry.RegistrationID,
			&entry.LaneNumber,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan heat entry row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during heat entry rows iteration: %w", err)
	}
	return entries, nil
}

// BulkInsert writes all entries in a single multi-row INSERT so a partially
// rewritten heat is never visible.
func (r *postgresHeatEntryRepository) BulkInsert(ctx context.Context, exec SQLExecutor, entries []*models.HeatEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO heat_entries (heat_id, registration_id, lane_number) VALUES `)

	args := make([]interface{}, 0, len(entries)*3)
	for i, entry := range entries {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		base := i * 3
		fmt.Fprintf(&queryBuilder, "($%d, $%d, $%d)", base+1, base+2, base+3)
		args = append(args, entry.HeatID, entry.RegistrationID, entry.LaneNumber)
	}

	if _, err := exec.ExecContext(ctx, queryBuilder.String(), args...); err != nil {
		return r.handleHeatEntryError(err)
	}
	return nil
}

func (r *postgresHeatEntryRepository) DeleteByHeatIDs(ctx context.Context, exec SQLExecutor, heatIDs []int) error {
	if len(heatIDs) == 0 {
		return nil
	}
	query := `DELETE FROM heat_entries WHERE heat_id = ANY($1)`
	if _, err := exec.ExecContext(ctx, query, pq.Array(heatIDs)); err != nil {
		return fmt.Errorf("failed to delete heat entries: %w", err)
	}
	return nil
}

func (r *postgresHeatEntryRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM heat_entries WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete heat entry %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrHeatEntryNotFound)
}

func (r *postgresHeatEntryRepository) handleHeatEntryError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "heat_entries_heat_id_lane_number_key":
			return ErrHeatEntryLaneConflict
		case "heat_entries_heat_id_registration_id_key":
			return ErrHeatEntryDuplicate
		case "heat_entries_heat_id_fkey":
			return ErrHeatEntryHeatInvalid
		case "heat_entries_registration_id_fkey":
			return ErrHeatEntryRegistrationInvalid
		}
	}
	return err
}
