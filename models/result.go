package models

import "time"

// WodResult is one published or draft score row. The engine never reads
// scores; the existence of any published row for a (wod, category) pair is
// the result-lock signal that blocks automatic reseeding of that pair.
type WodResult struct {
	ID             int       `json:"id" db:"id"`
	WodID          int       `json:"wod_id" db:"wod_id"`
	CategoryID     int       `json:"category_id" db:"category_id"`
	RegistrationID int       `json:"registration_id" db:"registration_id"`
	IsPublished    bool      `json:"is_published" db:"is_published"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
