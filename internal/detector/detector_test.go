package detector_test

import (
	"testing"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/detector"
	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

var raceStart = time.Date(2024, 5, 19, 13, 0, 0, 0, time.UTC)

// weekend builds a typical three-day weekend: two practices, qualifying, race
func weekend(year, round int, name string, race time.Time) models.EventCalendarEntry {
	return models.EventCalendarEntry{
		Year:      year,
		Round:     round,
		EventName: name,
		Sessions: []*models.SubSession{
			{Name: "Practice 1", StartUTC: race.Add(-50 * time.Hour)},
			{Name: "Practice 2", StartUTC: race.Add(-46 * time.Hour)},
			{Name: "Practice 3", StartUTC: race.Add(-25 * time.Hour)},
			{Name: "Qualifying", StartUTC: race.Add(-21 * time.Hour)},
			{Name: "Race", StartUTC: race},
		},
	}
}

func TestDetect(t *testing.T) {
	calendar := []models.EventCalendarEntry{
		weekend(2024, 4, "Previous Grand Prix", raceStart.Add(-14*24*time.Hour)),
		weekend(2024, 5, "Test Grand Prix", raceStart),
		weekend(2024, 6, "Next Grand Prix", raceStart.Add(14*24*time.Hour)),
	}

	tests := []struct {
		name        string
		now         time.Time
		wantStatus  models.SessionStatus
		wantSession string
		wantRound   int
	}{
		{
			name:        "just after race start",
			now:         raceStart.Add(30 * time.Minute),
			wantStatus:  models.StatusLive,
			wantSession: "Race",
			wantRound:   5,
		},
		{
			name:        "exactly at session start",
			now:         raceStart,
			wantStatus:  models.StatusLive,
			wantSession: "Race",
			wantRound:   5,
		},
		{
			name:        "one second before buffer expires",
			now:         raceStart.Add(4*time.Hour - time.Second),
			wantStatus:  models.StatusLive,
			wantSession: "Race",
			wantRound:   5,
		},
		{
			name:       "exactly at buffer end is no longer live",
			now:        raceStart.Add(4 * time.Hour),
			wantStatus: models.StatusNone,
		},
		{
			name:        "practice 2 live mid weekend",
			now:         raceStart.Add(-46*time.Hour + 15*time.Minute),
			wantStatus:  models.StatusLive,
			wantSession: "Practice 2",
			wantRound:   5,
		},
		{
			name:        "day before first practice is upcoming",
			now:         raceStart.Add(-50 * time.Hour).Add(-24 * time.Hour),
			wantStatus:  models.StatusUpcoming,
			wantSession: "Practice 1",
			wantRound:   5,
		},
		{
			name:        "gap between sessions still reports upcoming weekend",
			now:         raceStart.Add(-10 * time.Hour),
			wantStatus:  models.StatusUpcoming,
			wantSession: "Practice 1",
			wantRound:   5,
		},
		{
			name:       "a week out is nothing",
			now:        raceStart.Add(-7 * 24 * time.Hour),
			wantStatus: models.StatusNone,
		},
		{
			name:        "after race weekend the next round takes over",
			now:         raceStart.Add(10 * 24 * time.Hour),
			wantStatus:  models.StatusUpcoming,
			wantSession: "Practice 1",
			wantRound:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := detector.Detect(tt.now, calendar)

			if state.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", state.Status, tt.wantStatus)
			}
			if tt.wantStatus == models.StatusNone {
				return
			}
			if state.SessionName != tt.wantSession {
				t.Errorf("session = %q, want %q", state.SessionName, tt.wantSession)
			}
			if state.Round != tt.wantRound {
				t.Errorf("round = %d, want %d", state.Round, tt.wantRound)
			}
			if state.Year != 2024 {
				t.Errorf("year = %d, want 2024", state.Year)
			}
		})
	}
}

func TestDetect_LiveWindowBounds(t *testing.T) {
	calendar := []models.EventCalendarEntry{weekend(2024, 5, "Test Grand Prix", raceStart)}

	state := detector.Detect(raceStart.Add(30*time.Minute), calendar)
	if !state.IsLive() {
		t.Fatalf("expected live state, got %q", state.Status)
	}
	if !state.StartTime.Equal(raceStart) {
		t.Errorf("start = %v, want %v", state.StartTime, raceStart)
	}
	if want := raceStart.Add(4 * time.Hour); !state.EndTime.Equal(want) {
		t.Errorf("end = %v, want %v", state.EndTime, want)
	}
}

func TestDetect_EmptyCalendar(t *testing.T) {
	state := detector.Detect(time.Now(), nil)
	if state.Status != models.StatusNone {
		t.Errorf("empty calendar: status = %q, want %q", state.Status, models.StatusNone)
	}
}

func TestDetect_MissingSubSessionSlots(t *testing.T) {
	// Sprint-free weekend stored with nil slots in the middle
	entry := models.EventCalendarEntry{
		Year: 2024, Round: 5, EventName: "Short Weekend",
		Sessions: []*models.SubSession{
			{Name: "Practice 1", StartUTC: raceStart.Add(-24 * time.Hour)},
			nil,
			nil,
			{Name: "Race", StartUTC: raceStart},
			nil,
		},
	}

	state := detector.Detect(raceStart.Add(time.Hour), []models.EventCalendarEntry{entry})
	if !state.IsLive() || state.SessionName != "Race" {
		t.Errorf("got %+v, want live Race", state)
	}
}

func TestDetect_EventWithoutSessionsIsSkipped(t *testing.T) {
	calendar := []models.EventCalendarEntry{
		{Year: 2024, Round: 5, EventName: "Placeholder"},
		weekend(2024, 6, "Real Grand Prix", raceStart),
	}

	state := detector.Detect(raceStart.Add(time.Minute), calendar)
	if !state.IsLive() || state.Round != 6 {
		t.Errorf("got %+v, want live round 6", state)
	}
}
