package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/viniciusalmeida93/ant-camp/live"
	"github.com/viniciusalmeida93/ant-camp/services"
)

type ScheduleHandler struct {
	scheduleService   services.ScheduleService
	projectionService services.ProjectionService
	hub               *live.Hub
}

func NewScheduleHandler(ss services.ScheduleService, ps services.ProjectionService, hub *live.Hub) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss, projectionService: ps, hub: hub}
}

// GetScheduleHandler handles GET /championships/{championshipID}/schedule
func (h *ScheduleHandler) GetScheduleHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	schedule, err := h.projectionService.ChampionshipSchedule(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": schedule}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetWodScheduleHandler handles GET /championships/{championshipID}/wods/{wodID}/schedule
func (h *ScheduleHandler) GetWodScheduleHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	wodID, err := getIDFromURL(r, "wodID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	schedule, err := h.projectionService.WodSchedule(r.Context(), championshipID, wodID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": schedule}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateHandler handles POST /championships/{championshipID}/schedule/recalculate
func (h *ScheduleHandler) RecalculateHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.scheduleService.RecalculateAll(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventScheduleUpdated, jsonResponse{"heats_updated": updated})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"heats_updated": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetTimeHandler handles PUT /championships/{championshipID}/heats/{heatID}/time
func (h *ScheduleHandler) SetTimeHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	heatID, err := getIDFromURL(r, "heatID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ScheduledTime time.Time `json:"scheduled_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.scheduleService.SetHeatTime(r.Context(), championshipID, heatID, input.ScheduledTime)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventScheduleUpdated, jsonResponse{"heats_updated": updated})

	if err := writeJSON(w, http.StatusOK, jsonResponse{"heats_updated": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MoveHandler handles POST /championships/{championshipID}/heats/{heatID}/move
func (h *ScheduleHandler) MoveHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	heatID, err := getIDFromURL(r, "heatID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		NewHeatNumber int `json:"new_heat_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.NewHeatNumber < 1 {
		badRequestResponse(w, r, errors.New("new_heat_number must be at least 1"))
		return
	}

	if err := h.scheduleService.ReorderHeat(r.Context(), championshipID, heatID, input.NewHeatNumber); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventScheduleUpdated, jsonResponse{"moved_heat_id": heatID})

	w.WriteHeader(http.StatusNoContent)
}

// ConflictsHandler handles GET /championships/{championshipID}/schedule/conflicts
func (h *ScheduleHandler) ConflictsHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conflicts, err := h.scheduleService.Conflicts(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"conflicts": conflicts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
