package handlers

import (
	"net/http"

	"github.com/viniciusalmeida93/ant-camp/live"
	"github.com/viniciusalmeida93/ant-camp/services"
)

type AssignmentHandler struct {
	assignmentService services.AssignmentService
	hub               *live.Hub
}

func NewAssignmentHandler(as services.AssignmentService, hub *live.Hub) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: as, hub: hub}
}

// MoveEntryHandler handles POST /championships/{championshipID}/entries/{entryID}/move
func (h *AssignmentHandler) MoveEntryHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TargetHeatID    int `json:"target_heat_id"`
		TargetLaneIndex int `json:"target_lane_index"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.assignmentService.MoveEntry(r.Context(), championshipID, entryID, input.TargetHeatID, input.TargetLaneIndex); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventEntriesUpdated, jsonResponse{
		"entry_id":       entryID,
		"target_heat_id": input.TargetHeatID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// RemoveEntryHandler handles DELETE /championships/{championshipID}/entries/{entryID}
func (h *AssignmentHandler) RemoveEntryHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.assignmentService.RemoveEntry(r.Context(), championshipID, entryID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventEntriesUpdated, jsonResponse{"entry_id": entryID})

	w.WriteHeader(http.StatusNoContent)
}

// ReseedCategoryHandler handles POST /championships/{championshipID}/wods/{wodID}/categories/{categoryID}/reseed
func (h *AssignmentHandler) ReseedCategoryHandler(w http.ResponseWriter, r *http.Request) {
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
	categoryID, err := getIDFromURL(r, "categoryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.assignmentService.ReseedByRanking(r.Context(), championshipID, wodID, categoryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventEntriesUpdated, report)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReseedWodHandler handles POST /championships/{championshipID}/wods/{wodID}/reseed
func (h *AssignmentHandler) ReseedWodHandler(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.assignmentService.ReseedWod(r.Context(), championshipID, wodID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventEntriesUpdated, report)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// IntercalateHandler handles POST /championships/{championshipID}/wods/{wodID}/intercalate
func (h *AssignmentHandler) IntercalateHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.assignmentService.Intercalate(r.Context(), championshipID, wodID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventEntriesUpdated, jsonResponse{"wod_id": wodID})

	w.WriteHeader(http.StatusNoContent)
}
