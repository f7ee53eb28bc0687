package models

import "time"

// Registration is one approved competitor or team. The engine reads it
// through the roster provider; approval and payment filtering happen
// upstream. OrderIndex is the manual rank (1 = leader) used as the primary
// seeding key, ties broken by CreatedAt.
type Registration struct {
	ID             int       `json:"id" db:"id"`
	ChampionshipID int       `json:"championship_id" db:"championship_id"`
	CategoryID     int       `json:"category_id" db:"category_id"`
	CompetitorName string    `json:"competitor_name" db:"competitor_name"`
	OrderIndex     *int      `json:"order_index,omitempty" db:"order_index"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
