package handlers

import (
	"net/http"
	"time"

	"github.com/viniciusalmeida93/ant-camp/live"
	"github.com/viniciusalmeida93/ant-camp/services"
)

type HeatHandler struct {
	heatService services.HeatService
	hub         *live.Hub
}

func NewHeatHandler(hs services.HeatService, hub *live.Hub) *HeatHandler {
	return &HeatHandler{heatService: hs, hub: hub}
}

// BuildHandler handles POST /championships/{championshipID}/heats/build
func (h *HeatHandler) BuildHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WodIDs      []int     `json:"wod_ids"`
		CategoryIDs []int     `json:"category_ids"`
		LaneCount   int       `json:"lane_count"`
		StartTime   time.Time `json:"start_time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.heatService.BuildInitialHeats(r.Context(), services.BuildParams{
		ChampionshipID: championshipID,
		WodIDs:         input.WodIDs,
		CategoryIDs:    input.CategoryIDs,
		LaneCount:      input.LaneCount,
		StartTime:      input.StartTime,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventHeatsUpdated, report)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateHandler handles POST /championships/{championshipID}/heats
func (h *HeatHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WodID         int       `json:"wod_id"`
		CategoryID    int       `json:"category_id"`
		LaneCount     int       `json:"lane_count"`
		ScheduledTime time.Time `json:"scheduled_time"`
		CustomName    *string   `json:"custom_name,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	heat, err := h.heatService.AddSingleHeat(r.Context(), championshipID,
		input.WodID, input.CategoryID, input.LaneCount, input.ScheduledTime, input.CustomName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventHeatsUpdated, heat)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"heat": heat}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler handles PATCH /championships/{championshipID}/heats/{heatID}
func (h *HeatHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
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
		LaneCount  int     `json:"lane_count"`
		CustomName *string `json:"custom_name,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.heatService.UpdateHeatDetails(r.Context(), championshipID, heatID, input.LaneCount, input.CustomName); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventHeatsUpdated, jsonResponse{"heat_id": heatID})

	w.WriteHeader(http.StatusNoContent)
}

// DeleteHandler handles DELETE /championships/{championshipID}/heats/{heatID}
func (h *HeatHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.heatService.DeleteHeat(r.Context(), championshipID, heatID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventHeatsUpdated, jsonResponse{"deleted_heat_id": heatID})

	w.WriteHeader(http.StatusNoContent)
}
