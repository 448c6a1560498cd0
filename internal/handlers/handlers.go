// Package handlers maps HTTP routes onto the read facade and the poll
// scheduler. Responses are fail-soft: missing live data is an empty result,
// not an error.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/db"
	"github.com/checkmateLL/F1LiveDashboard/internal/facade"
	"github.com/checkmateLL/F1LiveDashboard/internal/poller"
	"github.com/go-chi/chi/v5"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	facade  *facade.Facade
	poller  *poller.Poller
	history db.HistoryDB
}

// New creates a handler with dependencies
func New(f *facade.Facade, p *poller.Poller, history db.HistoryDB) *Handler {
	return &Handler{facade: f, poller: p, history: history}
}

// HealthCheck reports service and historical store health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.history.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "historical store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"polling":   h.poller.Running(),
		"service":   "live-data-service",
	})
}

// GetYears lists seasons available in the historical store
// GET /api/v1/years
func (h *Handler) GetYears(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"years": h.facade.AvailableYears(r.Context()),
	})
}

// GetEvents lists events of a season
// GET /api/v1/events?year=2024
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())
	events := h.facade.Events(r.Context(), year)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"events": events,
		"count":  len(events),
	})
}

// GetEventSessions lists the sessions of one event
// GET /api/v1/events/{eventID}/sessions
func (h *Handler) GetEventSessions(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseID(w, r, "eventID")
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"event_id": eventID,
		"sessions": h.facade.Sessions(r.Context(), eventID),
	})
}

// GetTeams lists constructors of a season
// GET /api/v1/teams?year=2024
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":  year,
		"teams": h.facade.Teams(r.Context(), year),
	})
}

// GetDrivers lists drivers of a season, optionally filtered by team
// GET /api/v1/drivers?year=2024&team_id=3
func (h *Handler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())

	var teamID *int64
	if raw := r.URL.Query().Get("team_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid team_id", err)
			return
		}
		teamID = &id
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":    year,
		"drivers": h.facade.Drivers(r.Context(), year, teamID),
	})
}

// GetDriverStandings returns driver standings, live when a matching session
// is in progress
// GET /api/v1/standings/drivers?year=2024
func (h *Handler) GetDriverStandings(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())
	standings := h.facade.DriverStandings(r.Context(), year)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"standings": standings,
		"count":     len(standings),
	})
}

// GetConstructorStandings returns season constructor standings
// GET /api/v1/standings/constructors?year=2024
func (h *Handler) GetConstructorStandings(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"standings": h.facade.ConstructorStandings(r.Context(), year),
	})
}

// GetRaceResults returns the classification of a race session
// GET /api/v1/sessions/{sessionID}/results
func (h *Handler) GetRaceResults(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"results":    h.facade.RaceResults(r.Context(), sessionID),
	})
}

// GetQualifyingResults returns the classification of a qualifying session
// GET /api/v1/sessions/{sessionID}/qualifying
func (h *Handler) GetQualifyingResults(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"results":    h.facade.QualifyingResults(r.Context(), sessionID),
	})
}

// GetLaps returns lap times of a session, optionally for one driver
// GET /api/v1/sessions/{sessionID}/laps?driver=VER
func (h *Handler) GetLaps(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	laps := h.facade.LapTimes(r.Context(), sessionID, r.URL.Query().Get("driver"))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"laps":       laps,
		"count":      len(laps),
	})
}

// GetTiming returns each competitor's latest completed lap, live first
// GET /api/v1/sessions/{sessionID}/timing?year=2024
func (h *Handler) GetTiming(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"timing":     h.facade.Timing(r.Context(), year, sessionID),
	})
}

// GetTires returns per-competitor tire state, live first
// GET /api/v1/sessions/{sessionID}/tires?year=2024
func (h *Handler) GetTires(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"tires":      h.facade.Tires(r.Context(), year, sessionID),
	})
}

// GetWeather returns session weather, live first
// GET /api/v1/sessions/{sessionID}/weather?year=2024
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}

	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"weather":    h.facade.Weather(r.Context(), year, sessionID),
	})
}

// GetTireCompounds lists a season's compound color table
// GET /api/v1/compounds?year=2024
func (h *Handler) GetTireCompounds(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"year":      year,
		"compounds": h.facade.TireCompounds(r.Context(), year),
	})
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, param+" must be numeric", err)
		return 0, false
	}
	return id, true
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[http] error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Printf("[http] %s: %v", message, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
		"code":    status,
	}); err != nil {
		log.Printf("[http] error encoding error response: %v", err)
	}
}
