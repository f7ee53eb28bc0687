package models

import "time"

// Wod is one competitive workout (event) within a championship. TimeCap is
// stored as "MM:SS"; EstimatedDurationMinutes feeds the initial heat builder.
type Wod struct {
	ID                       int       `json:"id" db:"id"`
	ChampionshipID           int       `json:"championship_id" db:"championship_id"`
	Name                     string    `json:"name" db:"name"`
	OrderNum                 int       `json:"order_num" db:"order_num"`
	TimeCap                  *string   `json:"time_cap,omitempty" db:"time_cap"`
	EstimatedDurationMinutes *int      `json:"estimated_duration_minutes,omitempty" db:"estimated_duration_minutes"`
	IsPublished              bool      `json:"is_published" db:"is_published"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`

	// Day assignment, loaded through championship_day_wods.
	DayID         *int `json:"day_id,omitempty" db:"-"`
	DayNumber     *int `json:"day_number,omitempty" db:"-"`
	OrderNumInDay *int `json:"order_num_in_day,omitempty" db:"-"`
}

// WodCategoryVariation overrides wod-level settings for one category,
// typically a scaled time cap.
type WodCategoryVariation struct {
	ID         int     `json:"id" db:"id"`
	WodID      int     `json:"wod_id" db:"wod_id"`
	CategoryID int     `json:"category_id" db:"category_id"`
	TimeCap    *string `json:"time_cap,omitempty" db:"time_cap"`
}
