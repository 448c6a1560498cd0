// Package facade is the single read path for session data. Every category
// follows one policy: live cache first when a matching live session exists,
// historical storage otherwise, never merged. All reads are fail-soft — the
// request layer gets empty results, not errors.
package facade

import (
	"context"
	"log"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/cache"
	"github.com/checkmateLL/F1LiveDashboard/internal/db"
	"github.com/checkmateLL/F1LiveDashboard/internal/metrics"
	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

// LiveSource is the read side of the snapshot cache
type LiveSource interface {
	Get(ctx context.Context, category string, dest interface{}) (bool, error)
	LastUpdate(ctx context.Context) (time.Time, bool)
}

// Facade serves per-category reads with the live-first fallback policy
type Facade struct {
	live    LiveSource
	history db.HistoryDB
}

// New creates the read facade
func New(live LiveSource, history db.HistoryDB) *Facade {
	return &Facade{live: live, history: history}
}

// CurrentSession returns the cached session state, or NoSession when the
// cache holds none
func (f *Facade) CurrentSession(ctx context.Context) models.SessionState {
	var state models.SessionState
	found, err := f.live.Get(ctx, cache.CategorySession, &state)
	if err != nil {
		log.Printf("[facade] error reading session state: %v", err)
		return models.NoSession()
	}
	if !found {
		return models.NoSession()
	}
	return state
}

// LastUpdate returns the freshness timestamp of the live cache
func (f *Facade) LastUpdate(ctx context.Context) (time.Time, bool) {
	return f.live.LastUpdate(ctx)
}

// liveMatches reports whether a live session for the requested year is in
// progress. Only then may cached snapshots answer a read.
func (f *Facade) liveMatches(ctx context.Context, year int) bool {
	state := f.CurrentSession(ctx)
	return state.IsLive() && state.Year == year
}

// readLive fills dest from the cache and reports whether it may be served
func (f *Facade) readLive(ctx context.Context, category string, dest interface{}) bool {
	found, err := f.live.Get(ctx, category, dest)
	if err != nil {
		log.Printf("[facade] error reading live %s: %v", category, err)
		metrics.CacheReads.WithLabelValues(category, "miss").Inc()
		return false
	}
	if !found {
		metrics.CacheReads.WithLabelValues(category, "miss").Inc()
		return false
	}
	metrics.CacheReads.WithLabelValues(category, "hit").Inc()
	return true
}

// DriverStandings returns live standings for the requested year when a
// matching session is running, season standings from history otherwise
func (f *Facade) DriverStandings(ctx context.Context, year int) []models.DriverStanding {
	if f.liveMatches(ctx, year) {
		var standings []models.DriverStanding
		if f.readLive(ctx, cache.CategoryStandings, &standings) && len(standings) > 0 {
			return standings
		}
	}

	metrics.HistoricalFallbacks.WithLabelValues(cache.CategoryStandings).Inc()
	standings, err := f.history.DriverStandings(ctx, year)
	if err != nil {
		log.Printf("[facade] error reading historical standings: %v", err)
		return []models.DriverStanding{}
	}
	return standings
}

// Timing returns each competitor's latest completed lap, live or historical
func (f *Facade) Timing(ctx context.Context, year int, sessionID int64) []models.TimingEntry {
	if f.liveMatches(ctx, year) {
		var timing []models.TimingEntry
		if f.readLive(ctx, cache.CategoryTiming, &timing) && len(timing) > 0 {
			return timing
		}
	}

	metrics.HistoricalFallbacks.WithLabelValues(cache.CategoryTiming).Inc()
	timing, err := f.history.LatestLaps(ctx, sessionID)
	if err != nil {
		log.Printf("[facade] error reading historical timing: %v", err)
		return []models.TimingEntry{}
	}
	return timing
}

// Tires returns per-competitor tire state, live or historical
func (f *Facade) Tires(ctx context.Context, year int, sessionID int64) []models.TireState {
	if f.liveMatches(ctx, year) {
		var tires []models.TireState
		if f.readLive(ctx, cache.CategoryTires, &tires) && len(tires) > 0 {
			return tires
		}
	}

	metrics.HistoricalFallbacks.WithLabelValues(cache.CategoryTires).Inc()
	tires, err := f.history.TireStates(ctx, sessionID)
	if err != nil {
		log.Printf("[facade] error reading historical tires: %v", err)
		return []models.TireState{}
	}
	return tires
}

// Weather returns the live reading as a one-element series, or the session's
// historical weather series
func (f *Facade) Weather(ctx context.Context, year int, sessionID int64) []models.Weather {
	if f.liveMatches(ctx, year) {
		var weather models.Weather
		if f.readLive(ctx, cache.CategoryWeather, &weather) {
			return []models.Weather{weather}
		}
	}

	metrics.HistoricalFallbacks.WithLabelValues(cache.CategoryWeather).Inc()
	weather, err := f.history.Weather(ctx, sessionID)
	if err != nil {
		log.Printf("[facade] error reading historical weather: %v", err)
		return []models.Weather{}
	}
	return weather
}

// TrackStatusNow returns the current track status. Live only — there is no
// historical track status table; absent live data yields nil.
func (f *Facade) TrackStatusNow(ctx context.Context, year int) *models.TrackStatus {
	if !f.liveMatches(ctx, year) {
		return nil
	}

	var status models.TrackStatus
	if !f.readLive(ctx, cache.CategoryStatus, &status) {
		return nil
	}
	return &status
}

// Historical passthrough reads. Same fail-soft contract: errors are logged
// and surface as empty results.

func (f *Facade) AvailableYears(ctx context.Context) []int {
	years, err := f.history.AvailableYears(ctx)
	if err != nil {
		log.Printf("[facade] error reading years: %v", err)
		return []int{}
	}
	return years
}

func (f *Facade) Events(ctx context.Context, year int) []models.Event {
	events, err := f.history.Events(ctx, year)
	if err != nil {
		log.Printf("[facade] error reading events: %v", err)
		return []models.Event{}
	}
	return events
}

func (f *Facade) Sessions(ctx context.Context, eventID int64) []models.Session {
	sessions, err := f.history.Sessions(ctx, eventID)
	if err != nil {
		log.Printf("[facade] error reading sessions: %v", err)
		return []models.Session{}
	}
	return sessions
}

func (f *Facade) Teams(ctx context.Context, year int) []models.Team {
	teams, err := f.history.Teams(ctx, year)
	if err != nil {
		log.Printf("[facade] error reading teams: %v", err)
		return []models.Team{}
	}
	return teams
}

func (f *Facade) Drivers(ctx context.Context, year int, teamID *int64) []models.Driver {
	drivers, err := f.history.Drivers(ctx, year, teamID)
	if err != nil {
		log.Printf("[facade] error reading drivers: %v", err)
		return []models.Driver{}
	}
	return drivers
}

func (f *Facade) ConstructorStandings(ctx context.Context, year int) []models.ConstructorStanding {
	standings, err := f.history.ConstructorStandings(ctx, year)
	if err != nil {
		log.Printf("[facade] error reading constructor standings: %v", err)
		return []models.ConstructorStanding{}
	}
	return standings
}

func (f *Facade) RaceResults(ctx context.Context, sessionID int64) []models.RaceResult {
	results, err := f.history.RaceResults(ctx, sessionID)
	if err != nil {
		log.Printf("[facade] error reading race results: %v", err)
		return []models.RaceResult{}
	}
	return results
}

func (f *Facade) QualifyingResults(ctx context.Context, sessionID int64) []models.QualifyingResult {
	results, err := f.history.QualifyingResults(ctx, sessionID)
	if err != nil {
		log.Printf("[facade] error reading qualifying results: %v", err)
		return []models.QualifyingResult{}
	}
	return results
}

func (f *Facade) LapTimes(ctx context.Context, sessionID int64, driverAbbr string) []models.Lap {
	laps, err := f.history.LapTimes(ctx, sessionID, driverAbbr)
	if err != nil {
		log.Printf("[facade] error reading laps: %v", err)
		return []models.Lap{}
	}
	return laps
}

func (f *Facade) TireCompounds(ctx context.Context, year int) []models.TireCompound {
	compounds, err := f.history.TireCompounds(ctx, year)
	if err != nil {
		log.Printf("[facade] error reading tire compounds: %v", err)
		return []models.TireCompound{}
	}
	return compounds
}
