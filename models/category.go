package models

import "time"

// Category groups competitors by division or format. OrderIndex controls the
// position of the category inside the generated timeline.
type Category struct {
	ID             int       `json:"id" db:"id"`
	ChampionshipID int       `json:"championship_id" db:"championship_id"`
	Name           string    `json:"name" db:"name"`
	OrderIndex     int       `json:"order_index" db:"order_index"`
	TeamSize       int       `json:"team_size" db:"team_size"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
