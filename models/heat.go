package models

import "time"

// Heat is one scheduled unit of competition: a group of competitors running
// the same wod at the same time on numbered lanes.
//
// HeatNumber is the global ordering key across all heats of a championship;
// the store enforces its uniqueness and every reorder keeps the sequence
// dense. CategoryID is nominal: after intercalation a heat may host entries
// from other categories of the same wod.
type Heat struct {
	ID             int        `json:"id" db:"id"`
	ChampionshipID int        `json:"championship_id" db:"championship_id"`
	WodID          int        `json:"wod_id" db:"wod_id"`
	CategoryID     int        `json:"category_id" db:"category_id"`
	HeatNumber     int        `json:"heat_number" db:"heat_number"`
	LaneCount      int        `json:"lane_count" db:"lane_count"`
	ScheduledTime  *time.Time `json:"scheduled_time,omitempty" db:"scheduled_time"`
	CustomName     *string    `json:"custom_name,omitempty" db:"custom_name"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`

	Entries []HeatEntry `json:"entries,omitempty" db:"-"`
}

// HeatEntry places one registration on one lane of one heat. Lane numbers
// are unique within a heat and compacted to 1..N on every rewrite. Moving an
// entry between heats is always delete + insert, never a heat_id update, so
// lane renumbering stays atomic per heat.
type HeatEntry struct {
	ID             int       `json:"id" db:"id"`
	HeatID         int       `json:"heat_id" db:"heat_id"`
	RegistrationID int       `json:"registration_id" db:"registration_id"`
	LaneNumber     int       `json:"lane_number" db:"lane_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
