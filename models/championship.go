package models

import "time"

// Championship is the tenant root: every heat, category and event belongs to
// exactly one championship, and every engine operation is scoped by its ID.
type Championship struct {
	ID                      int       `json:"id" db:"id"`
	Name                    string    `json:"name" db:"name"`
	OrganizerID             int       `json:"organizer_id" db:"organizer_id"`
	DefaultLaneCount        int       `json:"default_lane_count" db:"default_lane_count"`
	TransitionMinutes       int       `json:"transition_minutes" db:"transition_minutes"`
	CategoryIntervalMinutes int       `json:"category_interval_minutes" db:"category_interval_minutes"`
	WodIntervalMinutes      int       `json:"wod_interval_minutes" db:"wod_interval_minutes"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	BannerKey               *string   `json:"-" db:"banner_key"`
	BannerURL               *string   `json:"banner_url,omitempty" db:"-"`

	Days []ChampionshipDay `json:"days,omitempty" db:"-"`
}

// ChampionshipDay carries the per-day anchor time and the optional scheduled
// break inserted after the wod with the configured ordinal on that day.
type ChampionshipDay struct {
	ID                   int       `json:"id" db:"id"`
	ChampionshipID       int       `json:"championship_id" db:"championship_id"`
	DayNumber            int       `json:"day_number" db:"day_number"`
	Date                 time.Time `json:"date" db:"date"`
	StartTime            string    `json:"start_time" db:"start_time"` // "HH:MM"
	EnableBreak          bool      `json:"enable_break" db:"enable_break"`
	BreakAfterWodNumber  *int      `json:"break_after_wod_number,omitempty" db:"break_after_wod_number"`
	BreakDurationMinutes int       `json:"break_duration_minutes" db:"break_duration_minutes"`
}

// IntervalConfig is the slice of championship settings the schedule
// calculator consumes. Zero category/wod intervals fall back to the
// transition interval at calculation time; the stored zero is preserved.
type IntervalConfig struct {
	TransitionMinutes       int               `json:"transition_minutes"`
	CategoryIntervalMinutes int               `json:"category_interval_minutes"`
	WodIntervalMinutes      int               `json:"wod_interval_minutes"`
	Days                    []ChampionshipDay `json:"days"`
}
