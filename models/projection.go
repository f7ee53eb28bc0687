package models

import "time"

// HeatProjection is the read-only view consumed by public displays, the TV
// dashboard and exporters. It is derived purely from Heat, HeatEntry,
// Registration, Category and Wod records; the engine keeps no extra state
// for it.
type HeatProjection struct {
	HeatID                int               `json:"heat_id"`
	HeatNumber            int               `json:"heat_number"`
	Name                  string            `json:"name"`
	WodName               string            `json:"wod_name"`
	CategoryName          string            `json:"category_name"`
	ScheduledTime         *time.Time        `json:"scheduled_time,omitempty"`
	EndTime               *time.Time        `json:"end_time,omitempty"`
	Entries               []EntryProjection `json:"entries"`
	ParticipantCategories []string          `json:"participant_categories"`
}

// EntryProjection is one occupied lane in a heat projection.
type EntryProjection struct {
	LaneNumber     int    `json:"lane_number"`
	RegistrationID int    `json:"registration_id"`
	CompetitorName string `json:"competitor_name"`
	CategoryName   string `json:"category_name"`
}

// ScheduleConflict reports a scheduled time shared by more than one heat,
// surfaced after recalculation for the organizer to resolve.
type ScheduleConflict struct {
	ScheduledTime time.Time `json:"scheduled_time"`
	HeatIDs       []int     `json:"heat_ids"`
	HeatNumbers   []int     `json:"heat_numbers"`
}
