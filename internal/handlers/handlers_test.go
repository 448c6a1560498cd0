package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/cache"
	"github.com/checkmateLL/F1LiveDashboard/internal/facade"
	"github.com/checkmateLL/F1LiveDashboard/internal/handlers"
	"github.com/checkmateLL/F1LiveDashboard/internal/poller"
	"github.com/checkmateLL/F1LiveDashboard/internal/providers/livetiming"
	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
	"github.com/go-chi/chi/v5"
)

type fakeLive struct {
	entries map[string][]byte
}

func (f *fakeLive) Get(ctx context.Context, category string, dest interface{}) (bool, error) {
	data, ok := f.entries[category]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeLive) LastUpdate(ctx context.Context) (time.Time, bool) {
	return time.Time{}, false
}

type fakeHistory struct {
	pingErr   error
	standings []models.DriverStanding
	years     []int
}

func (f *fakeHistory) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeHistory) Close() error                   { return nil }

func (f *fakeHistory) AvailableYears(ctx context.Context) ([]int, error) { return f.years, nil }

func (f *fakeHistory) Events(ctx context.Context, year int) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeHistory) Sessions(ctx context.Context, eventID int64) ([]models.Session, error) {
	return nil, nil
}

func (f *fakeHistory) Teams(ctx context.Context, year int) ([]models.Team, error) { return nil, nil }

func (f *fakeHistory) Drivers(ctx context.Context, year int, teamID *int64) ([]models.Driver, error) {
	return nil, nil
}

func (f *fakeHistory) DriverStandings(ctx context.Context, year int) ([]models.DriverStanding, error) {
	return f.standings, nil
}

func (f *fakeHistory) ConstructorStandings(ctx context.Context, year int) ([]models.ConstructorStanding, error) {
	return nil, nil
}

func (f *fakeHistory) RaceResults(ctx context.Context, sessionID int64) ([]models.RaceResult, error) {
	return nil, nil
}

func (f *fakeHistory) QualifyingResults(ctx context.Context, sessionID int64) ([]models.QualifyingResult, error) {
	return nil, nil
}

func (f *fakeHistory) LapTimes(ctx context.Context, sessionID int64, driverAbbr string) ([]models.Lap, error) {
	return nil, nil
}

func (f *fakeHistory) LatestLaps(ctx context.Context, sessionID int64) ([]models.TimingEntry, error) {
	return nil, nil
}

func (f *fakeHistory) TireStates(ctx context.Context, sessionID int64) ([]models.TireState, error) {
	return nil, nil
}

func (f *fakeHistory) Weather(ctx context.Context, sessionID int64) ([]models.Weather, error) {
	return nil, nil
}

func (f *fakeHistory) TireCompounds(ctx context.Context, year int) ([]models.TireCompound, error) {
	return nil, nil
}

type idleCalendar struct{}

func (idleCalendar) Schedule(ctx context.Context, year int) ([]models.EventCalendarEntry, error) {
	return nil, nil
}

type idleProvider struct{}

func (idleProvider) FetchSession(ctx context.Context, year, round int, sessionName string) (*livetiming.RawSession, error) {
	return nil, livetiming.ErrSessionNotStarted
}

type noopCache struct{}

func (noopCache) Put(ctx context.Context, category string, value interface{}, ttl time.Duration) error {
	return nil
}

func newTestRouter(t *testing.T, live *fakeLive, history *fakeHistory) http.Handler {
	t.Helper()

	if live.entries == nil {
		live.entries = make(map[string][]byte)
	}

	f := facade.New(live, history)
	p := poller.New(idleCalendar{}, idleProvider{}, noopCache{}, nil, poller.Config{})
	h := handlers.New(f, p, history)

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/api/v1/years", h.GetYears)
	r.Get("/api/v1/standings/drivers", h.GetDriverStandings)
	r.Get("/api/v1/sessions/{sessionID}/results", h.GetRaceResults)
	r.Get("/api/v1/live/session", h.GetLiveSession)
	return r
}

func putJSON(t *testing.T, live *fakeLive, category string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	live.entries[category] = data
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &fakeLive{}, &fakeHistory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
}

func TestGetDriverStandings_ServesHistorical(t *testing.T) {
	pos := 1
	history := &fakeHistory{
		standings: []models.DriverStanding{{Position: &pos, DriverAbbr: "HAM", DriverName: "Lewis Hamilton"}},
	}
	router := newTestRouter(t, &fakeLive{}, history)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/standings/drivers?year=2023", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Year      int                     `json:"year"`
		Standings []models.DriverStanding `json:"standings"`
		Count     int                     `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Year != 2023 || body.Count != 1 || body.Standings[0].DriverAbbr != "HAM" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestGetDriverStandings_ServesLive(t *testing.T) {
	live := &fakeLive{entries: make(map[string][]byte)}
	start := time.Now().UTC().Add(-time.Hour)
	putJSON(t, live, cache.CategorySession, models.SessionState{
		Status: models.StatusLive, Year: 2024, Round: 5,
		SessionName: "Race", StartTime: start, EndTime: start.Add(4 * time.Hour),
	})
	putJSON(t, live, cache.CategoryStandings, []models.DriverStanding{{DriverAbbr: "VER"}})

	router := newTestRouter(t, live, &fakeHistory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/standings/drivers?year=2024", nil))

	var body struct {
		Standings []models.DriverStanding `json:"standings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Standings) != 1 || body.Standings[0].DriverAbbr != "VER" {
		t.Errorf("got %+v, want live VER row", body.Standings)
	}
}

func TestGetRaceResults_BadSessionID(t *testing.T) {
	router := newTestRouter(t, &fakeLive{}, &fakeHistory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-number/results", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetLiveSession_EmptyCache(t *testing.T) {
	router := newTestRouter(t, &fakeLive{}, &fakeHistory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/live/session", nil))

	var state models.SessionState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Status != models.StatusNone {
		t.Errorf("status = %q, want none", state.Status)
	}
}
