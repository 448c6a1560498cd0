// Package transform converts raw provider session data into the normalized
// record shapes the snapshot cache stores.
package transform

import (
	"fmt"
	"log"

	"github.com/checkmateLL/F1LiveDashboard/internal/metrics"
	"github.com/checkmateLL/F1LiveDashboard/internal/providers/livetiming"
	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

// trackStatusMessages maps provider status codes to display text
var trackStatusMessages = map[string]string{
	"1": "Track Clear",
	"2": "Yellow Flag",
	"3": "Safety Car Deployed",
	"4": "Red Flag/Session Stopped",
	"5": "Virtual Safety Car Deployed",
	"6": "Virtual Safety Car Ending",
}

// TranslateTrackStatus returns the display text for a status code
func TranslateTrackStatus(code string) string {
	if msg, ok := trackStatusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown Status: %s", code)
}

// Build produces the full normalized snapshot for one raw session. Any
// category may come back empty when the source has no data for it. A single
// competitor's malformed record is skipped with a warning and never aborts
// the rest.
func Build(raw *livetiming.RawSession) *models.Snapshot {
	return &models.Snapshot{
		Standings: Standings(raw.Results),
		Timing:    Timing(raw.Laps),
		Tires:     Tires(raw.Laps),
		Weather:   LatestWeather(raw.Weather),
		Status:    LatestTrackStatus(raw.TrackStatus),
	}
}

// Standings normalizes the session result set, one row per competitor
func Standings(results []livetiming.RawResult) []models.DriverStanding {
	standings := make([]models.DriverStanding, 0, len(results))

	for _, result := range results {
		if result.Abbreviation == "" {
			log.Printf("[transform] skipping result row without driver code (number=%q)", result.DriverNumber)
			metrics.DroppedCompetitors.Inc()
			continue
		}

		standings = append(standings, models.DriverStanding{
			Position:     floatToIntPtr(result.Position),
			DriverNumber: result.DriverNumber,
			DriverAbbr:   result.Abbreviation,
			DriverName:   result.FullName,
			Team:         result.TeamName,
			TeamColor:    result.TeamColor,
			Q1:           result.Q1,
			Q2:           result.Q2,
			Q3:           result.Q3,
			Time:         result.Time,
			Status:       result.Status,
			Points:       result.Points,
		})
	}

	return standings
}

// Timing selects each competitor's most recently completed lap: the highest
// lap number that has a recorded lap time. Competitors with no completed lap
// are omitted from this cycle.
func Timing(laps []livetiming.RawLap) []models.TimingEntry {
	latest := make(map[string]livetiming.RawLap)
	order := make([]string, 0)

	for _, lap := range laps {
		if lap.Driver == "" {
			log.Printf("[transform] skipping lap without driver code")
			metrics.DroppedCompetitors.Inc()
			continue
		}
		if lap.LapNumber == nil || lap.LapTime == nil {
			continue // lap still in progress or untimed
		}

		prev, seen := latest[lap.Driver]
		if !seen {
			order = append(order, lap.Driver)
			latest[lap.Driver] = lap
			continue
		}
		if *lap.LapNumber > *prev.LapNumber {
			latest[lap.Driver] = lap
		}
	}

	timing := make([]models.TimingEntry, 0, len(order))
	for _, driver := range order {
		lap := latest[driver]
		timing = append(timing, models.TimingEntry{
			DriverAbbr:     driver,
			LapNumber:      *lap.LapNumber,
			LapTime:        *lap.LapTime,
			Sector1:        lap.Sector1,
			Sector2:        lap.Sector2,
			Sector3:        lap.Sector3,
			IsPersonalBest: lap.IsPersonalBest != nil && *lap.IsPersonalBest,
			Compound:       lap.Compound,
			TyreLife:       lap.TyreLife,
			TrackStatus:    lap.TrackStatus,
		})
	}

	return timing
}

// Tires aggregates each competitor's latest stint: compound and fresh flag
// from the stint's first lap, max tire life, and the stint's lap count.
func Tires(laps []livetiming.RawLap) []models.TireState {
	type stintAgg struct {
		stint   int
		first   livetiming.RawLap
		maxLife *float64
		count   int
	}

	byDriver := make(map[string]*stintAgg)
	order := make([]string, 0)

	for _, lap := range laps {
		if lap.Driver == "" || lap.Stint == nil {
			continue
		}

		agg, seen := byDriver[lap.Driver]
		switch {
		case !seen || *lap.Stint > agg.stint:
			byDriver[lap.Driver] = &stintAgg{
				stint:   *lap.Stint,
				first:   lap,
				maxLife: lap.TyreLife,
				count:   1,
			}
			if !seen {
				order = append(order, lap.Driver)
			}
		case *lap.Stint == agg.stint:
			agg.count++
			if lap.TyreLife != nil && (agg.maxLife == nil || *lap.TyreLife > *agg.maxLife) {
				agg.maxLife = lap.TyreLife
			}
		}
	}

	tires := make([]models.TireState, 0, len(order))
	for _, driver := range order {
		agg := byDriver[driver]
		tires = append(tires, models.TireState{
			DriverAbbr: driver,
			Compound:   agg.first.Compound,
			Life:       agg.maxLife,
			Age:        agg.count,
			Fresh:      agg.first.FreshTyre,
		})
	}

	return tires
}

// LatestWeather returns the chronologically last weather sample, if any
func LatestWeather(samples []livetiming.RawWeather) *models.Weather {
	if len(samples) == 0 {
		return nil
	}

	last := samples[0]
	for _, sample := range samples[1:] {
		if sample.Time.After(last.Time) {
			last = sample
		}
	}

	return &models.Weather{
		AirTemp:       last.AirTemp,
		TrackTemp:     last.TrackTemp,
		Humidity:      last.Humidity,
		Pressure:      last.Pressure,
		WindSpeed:     last.WindSpeed,
		WindDirection: last.WindDirection,
		Rainfall:      last.Rainfall != nil && *last.Rainfall,
		Timestamp:     last.Time,
	}
}

// LatestTrackStatus returns the chronologically last track status, if any
func LatestTrackStatus(statuses []livetiming.RawTrackStatus) *models.TrackStatus {
	if len(statuses) == 0 {
		return nil
	}

	last := statuses[0]
	for _, status := range statuses[1:] {
		if status.Time.After(last.Time) {
			last = status
		}
	}

	return &models.TrackStatus{
		Status:    last.Status,
		Message:   TranslateTrackStatus(last.Status),
		Timestamp: last.Time,
	}
}

func floatToIntPtr(f *float64) *int {
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}
