package models

import "time"

// SessionStatus represents whether a session is currently running
type SessionStatus string

const (
	StatusNone     SessionStatus = "none"
	StatusUpcoming SessionStatus = "upcoming"
	StatusLive     SessionStatus = "live"
)

// SessionBuffer is how long a session is considered live past its start time.
// Covers realistic session duration plus delay overrun.
const SessionBuffer = 4 * time.Hour

// SubSession is one scheduled sub-session of a race weekend (practice,
// qualifying, sprint, race)
type SubSession struct {
	Name     string    `json:"name"`
	StartUTC time.Time `json:"start_utc"`
}

// EventCalendarEntry is one scheduled competition weekend. Loaded read-only
// from the historical schedule; up to 5 sub-sessions, missing slots are nil.
type EventCalendarEntry struct {
	Year      int           `json:"year"`
	Round     int           `json:"round"`
	EventName string        `json:"event_name"`
	Country   string        `json:"country,omitempty"`
	Location  string        `json:"location,omitempty"`
	Sessions  []*SubSession `json:"sessions"`
}

// SessionState describes the current live-session situation. Published to the
// cache verbatim (non-expiring) so readers can discover the absence of live
// data as well as its presence.
type SessionState struct {
	Status      SessionStatus `json:"status"`
	Year        int           `json:"year,omitempty"`
	Round       int           `json:"round,omitempty"`
	EventName   string        `json:"event_name,omitempty"`
	SessionName string        `json:"session_name,omitempty"`
	StartTime   time.Time     `json:"start_time,omitempty"`
	EndTime     time.Time     `json:"end_time,omitempty"`
}

// IsLive reports whether the state refers to a session in progress
func (s SessionState) IsLive() bool {
	return s.Status == StatusLive
}

// NoSession is the state when nothing is live or upcoming
func NoSession() SessionState {
	return SessionState{Status: StatusNone}
}
