package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/viniciusalmeida93/ant-camp/models"
	"github.com/viniciusalmeida93/ant-camp/repositories"
	"github.com/viniciusalmeida93/ant-camp/storage"
)

// IntervalUpdate carries new interval settings. Zero category or wod
// intervals are stored as zero; they fall back to the transition interval
// only when the schedule is calculated.
type IntervalUpdate struct {
	TransitionMinutes       int `json:"transition_minutes"`
	CategoryIntervalMinutes int `json:"category_interval_minutes"`
	WodIntervalMinutes      int `json:"wod_interval_minutes"`
}

// DayBreakUpdate configures the scheduled break of one championship day.
type DayBreakUpdate struct {
	DayID                int  `json:"day_id"`
	EnableBreak          bool `json:"enable_break"`
	BreakAfterWodNumber  *int `json:"break_after_wod_number,omitempty"`
	BreakDurationMinutes int  `json:"break_duration_minutes"`
}

type ChampionshipService interface {
	Get(ctx context.Context, id int) (*models.Championship, error)
	GetIntervalConfig(ctx context.Context, championshipID int) (*models.IntervalConfig, error)
	// UpdateIntervals stores the new intervals and rebuilds the whole
	// schedule with them.
	UpdateIntervals(ctx context.Context, championshipID int, update IntervalUpdate) error
	UpdateDayBreak(ctx context.Context, championshipID int, update DayBreakUpdate) error
	UploadBanner(ctx context.Context, championshipID int, contentType string, file io.Reader) (string, error)
}

type championshipService struct {
	db        *sql.DB
	champRepo repositories.ChampionshipRepository
	schedule  ScheduleService
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewChampionshipService(
	db *sql.DB,
	champRepo repositories.ChampionshipRepository,
	scheduleService ScheduleService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ChampionshipService {
	return &championshipService{
		db:        db,
		champRepo: champRepo,
		schedule:  scheduleService,
		uploader:  uploader,
		logger:    logger,
	}
}

func (s *championshipService) Get(ctx context.Context, id int) (*models.Championship, error) {
	champ, err := s.champRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	days, err := s.champRepo.ListDays(ctx, id)
	if err != nil {
		return nil, err
	}
	champ.Days = days
	if champ.BannerKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*champ.BannerKey)
		champ.BannerURL = &url
	}
	return champ, nil
}

func (s *championshipService) GetIntervalConfig(ctx context.Context, championshipID int) (*models.IntervalConfig, error) {
	cfg, err := s.champRepo.GetIntervalConfig(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return cfg, nil
}

func (s *championshipService) UpdateIntervals(ctx context.Context, championshipID int, update IntervalUpdate) error {
	if update.TransitionMinutes < 0 || update.CategoryIntervalMinutes < 0 || update.WodIntervalMinutes < 0 {
		return ErrValidationFailed
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.champRepo.UpdateIntervals(ctx, tx, championshipID,
			update.TransitionMinutes, update.CategoryIntervalMinutes, update.WodIntervalMinutes); err != nil {
			if errors.Is(err, repositories.ErrChampionshipNotFound) {
				return ErrChampionshipNotFound
			}
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	if _, err := s.schedule.RecalculateAll(ctx, championshipID); err != nil {
		return fmt.Errorf("intervals updated but recalculation failed: %w", err)
	}
	return nil
}

func (s *championshipService) UpdateDayBreak(ctx context.Context, championshipID int, update DayBreakUpdate) error {
	if update.BreakDurationMinutes < 0 {
		return ErrValidationFailed
	}
	if update.EnableBreak && (update.BreakAfterWodNumber == nil || *update.BreakAfterWodNumber < 1) {
		return ErrValidationFailed
	}

	days, err := s.champRepo.ListDays(ctx, championshipID)
	if err != nil {
		return err
	}
	owned := false
	for _, d := range days {
		if d.ID == update.DayID {
			owned = true
			break
		}
	}
	if !owned {
		return ErrNotFound
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.champRepo.UpdateDayBreak(ctx, tx, update.DayID,
			update.EnableBreak, update.BreakAfterWodNumber, update.BreakDurationMinutes)
	}); err != nil {
		return err
	}

	if _, err := s.schedule.RecalculateAll(ctx, championshipID); err != nil {
		return fmt.Errorf("day break updated but recalculation failed: %w", err)
	}
	return nil
}

var bannerExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadBanner stores the championship banner in object storage, replaces
// the previous one and returns the public URL.
func (s *championshipService) UploadBanner(ctx context.Context, championshipID int, contentType string, file io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("banner storage is not configured")
	}
	ext, ok := bannerExtensions[contentType]
	if !ok {
		return "", ErrBannerTypeUnsupported
	}

	champ, err := s.champRepo.GetByID(ctx, championshipID)
	if err != nil {
		if errors.Is(err, repositories.ErrChampionshipNotFound) {
			return "", ErrChampionshipNotFound
		}
		return "", err
	}

	key := fmt.Sprintf("championships/%d/banner%s", championshipID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload banner: %w", err)
	}

	if err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.champRepo.UpdateBannerKey(ctx, tx, championshipID, &result.Key)
	}); err != nil {
		return "", err
	}

	if champ.BannerKey != nil && *champ.BannerKey != result.Key {
		if err := s.uploader.Delete(ctx, *champ.BannerKey); err != nil {
			s.logger.Warn("failed to delete previous banner",
				slog.String("key", *champ.BannerKey),
				slog.String("error", err.Error()))
		}
	}

	return result.Location, nil
}
