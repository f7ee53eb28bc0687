package handlers

import (
	"errors"
	"net/http"

	"github.com/viniciusalmeida93/ant-camp/live"
	"github.com/viniciusalmeida93/ant-camp/services"
)

type ChampionshipHandler struct {
	championshipService services.ChampionshipService
	hub                 *live.Hub
}

func NewChampionshipHandler(cs services.ChampionshipService, hub *live.Hub) *ChampionshipHandler {
	return &ChampionshipHandler{championshipService: cs, hub: hub}
}

// GetHandler handles GET /championships/{championshipID}
func (h *ChampionshipHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	championship, err := h.championshipService.Get(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"championship": championship}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetIntervalsHandler handles GET /championships/{championshipID}/intervals
func (h *ChampionshipHandler) GetIntervalsHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cfg, err := h.championshipService.GetIntervalConfig(r.Context(), championshipID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"intervals": cfg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateIntervalsHandler handles PUT /championships/{championshipID}/intervals
func (h *ChampionshipHandler) UpdateIntervalsHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.IntervalUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.championshipService.UpdateIntervals(r.Context(), championshipID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventScheduleUpdated, input)

	w.WriteHeader(http.StatusNoContent)
}

// UpdateDayBreakHandler handles PUT /championships/{championshipID}/days/break
func (h *ChampionshipHandler) UpdateDayBreakHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.DayBreakUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.championshipService.UpdateDayBreak(r.Context(), championshipID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.hub.Publish(championshipID, live.EventScheduleUpdated, input)

	w.WriteHeader(http.StatusNoContent)
}

// UploadBannerHandler handles POST /championships/{championshipID}/banner
func (h *ChampionshipHandler) UploadBannerHandler(w http.ResponseWriter, r *http.Request) {
	championshipID, err := getIDFromURL(r, "championshipID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form, max size 10MB"))
		return
	}

	file, header, err := r.FormFile("banner")
	if err != nil {
		badRequestResponse(w, r, errors.New("banner file is required"))
		return
	}
	defer file.Close()

	url, err := h.championshipService.UploadBanner(r.Context(), championshipID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"banner_url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
