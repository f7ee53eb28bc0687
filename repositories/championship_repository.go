package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viniciusalmeida93/ant-camp/models"
)

var ErrChampionshipNotFound = errors.New("championship not found")

type ChampionshipRepository interface {
	GetByID(ctx context.Context, id int) (*models.Championship, error)
	ListDays(ctx context.Context, championshipID int) ([]models.ChampionshipDay, error)
	// GetIntervalConfig loads the championship intervals together with its
	// day configuration, the exact slice the schedule calculator consumes.
	GetIntervalConfig(ctx context.Context, championshipID int) (*models.IntervalConfig, error)
	UpdateIntervals(ctx context.Context, exec SQLExecutor, championshipID int, transition, categoryInterval, wodInterval int) error
	UpdateDayBreak(ctx context.Context, exec SQLExecutor, dayID int, enable bool, afterWodNumber *int, durationMinutes int) error
	UpdateBannerKey(ctx context.Context, exec SQLExecutor, championshipID int, bannerKey *string) error
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, id int) (*models.Championship, error) {
	query := `
		SELECT id, name, organizer_id, default_lane_count, transition_minutes,
		       category_interval_minutes, wod_interval_minutes, banner_key, created_at
		FROM championships
		WHERE id = $1`

	champ := &models.Championship{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&champ.ID,
		&champ.Name,
		&champ.OrganizerID,
		&champ.DefaultLaneCount,
		&champ.TransitionMinutes,
		&champ.CategoryIntervalMinutes,
		&champ.WodIntervalMinutes,
		&champ.BannerKey,
		&champ.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to scan championship by id %d: %w", id, err)
	}
	return champ, nil
}

func (r *postgresChampionshipRepository) ListDays(ctx context.Context, championshipID int) ([]models.ChampionshipDay, error) {
	query := `
		SELECT id, championship_id, day_number, date, start_time,
		       enable_break, break_after_wod_number, break_duration_minutes
		FROM championship_days
		WHERE championship_id = $1
		ORDER BY day_number ASC`

	rows, err := r.db.QueryContext(ctx, query, championshipID)
	if err != nil {
		return nil, fmt.Errorf("failed to query days for championship %d: %w", championshipID, err)
	}
	defer rows.Close()

	days := make([]models.ChampionshipDay, 0)
	for rows.Next() {
		var day models.ChampionshipDay
		if scanErr := rows.Scan(
			&day.ID,
			&day.ChampionshipID,
			&day.DayNumber,
			&day.Date,
			&day.StartTime,
			&day.EnableBreak,
			&day.BreakAfterWodNumber,
			&day.BreakDurationMinutes,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan championship day row: %w", scanErr)
		}
		days = append(days, day)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during championship day rows iteration: %w", err)
	}
	return days, nil
}

func (r *postgresChampionshipRepository) GetIntervalConfig(ctx context.Context, championshipID int) (*models.IntervalConfig, error) {
	champ, err := r.GetByID(ctx, championshipID)
	if err != nil {
		return nil, err
	}
	days, err := r.ListDays(ctx, championshipID)
	if err != nil {
		return nil, err
	}
	return &models.IntervalConfig{
		TransitionMinutes:       champ.TransitionMinutes,
		CategoryIntervalMinutes: champ.CategoryIntervalMinutes,
		WodIntervalMinutes:      champ.WodIntervalMinutes,
		Days:                    days,
	}, nil
}

func (r *postgresChampionshipRepository) UpdateIntervals(ctx context.Context, exec SQLExecutor, championshipID int, transition, categoryInterval, wodInterval int) error {
	query := `
		UPDATE championships
		SET transition_minutes = $1, category_interval_minutes = $2, wod_interval_minutes = $3
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, transition, categoryInterval, wodInterval, championshipID)
	if err != nil {
		return fmt.Errorf("failed to update intervals for championship %d: %w", championshipID, err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) UpdateDayBreak(ctx context.Context, exec SQLExecutor, dayID int, enable bool, afterWodNumber *int, durationMinutes int) error {
	query := `
		UPDATE championship_days
		SET enable_break = $1, break_after_wod_number = $2, break_duration_minutes = $3
		WHERE id = $4`

	result, err := exec.ExecContext(ctx, query, enable, afterWodNumber, durationMinutes, dayID)
	if err != nil {
		return fmt.Errorf("failed to update break for day %d: %w", dayID, err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}

func (r *postgresChampionshipRepository) UpdateBannerKey(ctx context.Context, exec SQLExecutor, championshipID int, bannerKey *string) error {
	query := `UPDATE championships SET banner_key = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, bannerKey, championshipID)
	if err != nil {
		return fmt.Errorf("failed to update banner for championship %d: %w", championshipID, err)
	}
	return checkAffectedRows(result, ErrChampionshipNotFound)
}
