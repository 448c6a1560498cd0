package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// GetLiveSession returns the current session state for discovery
// GET /api/v1/live/session
func (h *Handler) GetLiveSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.facade.CurrentSession(r.Context()))
}

// GetTrackStatus returns the current track status, if a session is live
// GET /api/v1/live/status?year=2024
func (h *Handler) GetTrackStatus(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", time.Now().UTC().Year())

	status := h.facade.TrackStatusNow(r.Context(), year)
	if status == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"status": nil})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// GetLastUpdate returns the freshness timestamp of the live cache
// GET /api/v1/live/last-update
func (h *Handler) GetLastUpdate(w http.ResponseWriter, r *http.Request) {
	ts, ok := h.facade.LastUpdate(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{"last_update": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"last_update": ts})
}

// StartPolling starts the background poll loop
// POST /api/v1/live/polling/start
func (h *Handler) StartPolling(w http.ResponseWriter, r *http.Request) {
	// The loop must outlive this request; Stop is the only way to end it
	h.poller.Start(context.Background())
	respondJSON(w, http.StatusOK, map[string]interface{}{"polling": true})
}

// StopPolling stops the background poll loop
// POST /api/v1/live/polling/stop
func (h *Handler) StopPolling(w http.ResponseWriter, r *http.Request) {
	h.poller.Stop()
	respondJSON(w, http.StatusOK, map[string]interface{}{"polling": false})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS middleware gates browser origins; the upgrade itself accepts all
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades a connection and subscribes it to snapshot updates
type WSHandler struct {
	hub *ws.Hub
}

// NewWSHandler creates the websocket endpoint handler
func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Subscribe handles GET /ws
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(uuid.NewString(), conn, h.hub)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
