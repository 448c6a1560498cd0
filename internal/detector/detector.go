// Package detector decides, from the static event calendar and a point in
// time, whether a session is live, upcoming, or absent. Pure functions only
// so it can be tested against synthetic calendars.
package detector

import (
	"time"

	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

// UpcomingWindow is how far ahead of an event's first sub-session we start
// reporting it as upcoming.
const UpcomingWindow = 48 * time.Hour

// Detect returns the session state at the given time. The calendar must be in
// chronological order; the first event that has not fully concluded is the
// one considered.
func Detect(now time.Time, calendar []models.EventCalendarEntry) models.SessionState {
	event, ok := nearestEvent(now, calendar)
	if !ok {
		return models.NoSession()
	}

	// First sub-session whose live window contains now wins
	for _, sub := range event.Sessions {
		if sub == nil {
			continue
		}
		end := sub.StartUTC.Add(models.SessionBuffer)
		if !now.Before(sub.StartUTC) && now.Before(end) {
			return models.SessionState{
				Status:      models.StatusLive,
				Year:        event.Year,
				Round:       event.Round,
				EventName:   event.EventName,
				SessionName: sub.Name,
				StartTime:   sub.StartUTC,
				EndTime:     end,
			}
		}
	}

	if first := firstSubSession(event); first != nil {
		if first.StartUTC.Sub(now) <= UpcomingWindow {
			return models.SessionState{
				Status:      models.StatusUpcoming,
				Year:        event.Year,
				Round:       event.Round,
				EventName:   event.EventName,
				SessionName: first.Name,
				StartTime:   first.StartUTC,
			}
		}
	}

	return models.NoSession()
}

// nearestEvent returns the first calendar entry that has not concluded, i.e.
// at least one sub-session's live window has not fully passed.
func nearestEvent(now time.Time, calendar []models.EventCalendarEntry) (models.EventCalendarEntry, bool) {
	for _, event := range calendar {
		if !concluded(now, event) {
			return event, true
		}
	}
	return models.EventCalendarEntry{}, false
}

// concluded reports whether every defined sub-session's live window has
// passed. An event with no defined sub-sessions counts as concluded since it
// can never go live.
func concluded(now time.Time, event models.EventCalendarEntry) bool {
	for _, sub := range event.Sessions {
		if sub == nil {
			continue
		}
		if now.Before(sub.StartUTC.Add(models.SessionBuffer)) {
			return false
		}
	}
	return true
}

func firstSubSession(event models.EventCalendarEntry) *models.SubSession {
	for _, sub := range event.Sessions {
		if sub != nil {
			return sub
		}
	}
	return nil
}
