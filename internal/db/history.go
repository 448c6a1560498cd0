// Package db provides read-only access to the historical F1 store. The live
// service never writes here; the bulk ingestion job owns the schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
	_ "github.com/lib/pq"
)

// HistoryDB defines the read operations the facade needs from historical
// storage
type HistoryDB interface {
	Ping(ctx context.Context) error
	AvailableYears(ctx context.Context) ([]int, error)
	Events(ctx context.Context, year int) ([]models.Event, error)
	Sessions(ctx context.Context, eventID int64) ([]models.Session, error)
	Teams(ctx context.Context, year int) ([]models.Team, error)
	Drivers(ctx context.Context, year int, teamID *int64) ([]models.Driver, error)
	DriverStandings(ctx context.Context, year int) ([]models.DriverStanding, error)
	ConstructorStandings(ctx context.Context, year int) ([]models.ConstructorStanding, error)
	RaceResults(ctx context.Context, sessionID int64) ([]models.RaceResult, error)
	QualifyingResults(ctx context.Context, sessionID int64) ([]models.QualifyingResult, error)
	LapTimes(ctx context.Context, sessionID int64, driverAbbr string) ([]models.Lap, error)
	LatestLaps(ctx context.Context, sessionID int64) ([]models.TimingEntry, error)
	TireStates(ctx context.Context, sessionID int64) ([]models.TireState, error)
	Weather(ctx context.Context, sessionID int64) ([]models.Weather, error)
	TireCompounds(ctx context.Context, year int) ([]models.TireCompound, error)
	Close() error
}

// Postgres implements HistoryDB
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against the historical store
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// AvailableYears lists seasons present in the store, newest first
func (p *Postgres) AvailableYears(ctx context.Context) ([]int, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT year FROM events ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

// Events lists all events of a season in round order
func (p *Postgres) Events(ctx context.Context, year int) ([]models.Event, error) {
	query := `
		SELECT e.id, e.year, e.round_number, e.country, e.location,
		       e.official_event_name, e.event_name, e.event_date,
		       e.event_format, e.f1_api_support
		FROM events e
		WHERE e.year = $1
		ORDER BY e.round_number
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(
			&e.ID, &e.Year, &e.RoundNumber, &e.Country, &e.Location,
			&e.OfficialName, &e.EventName, &e.EventDate,
			&e.EventFormat, &e.F1APISupport,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Sessions lists the sessions of an event in weekend order
func (p *Postgres) Sessions(ctx context.Context, eventID int64) ([]models.Session, error) {
	query := `
		SELECT s.id, s.event_id, s.name, s.date, s.session_type,
		       s.total_laps, s.session_start_time
		FROM sessions s
		WHERE s.event_id = $1
		ORDER BY CASE
			WHEN s.session_type = 'practice' THEN 1
			WHEN s.session_type = 'qualifying' THEN 2
			WHEN s.session_type = 'sprint_shootout' THEN 3
			WHEN s.session_type = 'sprint_qualifying' THEN 4
			WHEN s.session_type = 'sprint' THEN 5
			WHEN s.session_type = 'race' THEN 6
			ELSE 7
		END
	`

	rows, err := p.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID, &s.EventID, &s.Name, &s.Date, &s.SessionType,
			&s.TotalLaps, &s.StartTime,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Teams lists all constructors of a season
func (p *Postgres) Teams(ctx context.Context, year int) ([]models.Team, error) {
	query := `
		SELECT t.id, t.name, t.team_id, t.team_color
		FROM teams t
		WHERE t.year = $1
		ORDER BY t.name
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.TeamID, &t.TeamColor); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Drivers lists drivers of a season, optionally filtered by team
func (p *Postgres) Drivers(ctx context.Context, year int, teamID *int64) ([]models.Driver, error) {
	query := `
		SELECT d.id, d.driver_number, d.abbreviation, d.first_name,
		       d.last_name, d.full_name, d.country_code, d.team_id,
		       t.name AS team_name, t.team_color
		FROM drivers d
		JOIN teams t ON d.team_id = t.id
		WHERE d.year = $1
	`
	args := []interface{}{year}

	if teamID != nil {
		query += " AND d.team_id = $2"
		args = append(args, *teamID)
	}

	query += " ORDER BY t.name, d.full_name"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(
			&d.ID, &d.DriverNumber, &d.Abbreviation, &d.FirstName,
			&d.LastName, &d.FullName, &d.CountryCode, &d.TeamID,
			&d.TeamName, &d.TeamColor,
		); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// DriverStandings computes season standings by summing race points. Rows come
// back in the same normalized shape the live cache uses so the facade can
// serve either source interchangeably.
func (p *Postgres) DriverStandings(ctx context.Context, year int) ([]models.DriverStanding, error) {
	query := `
		SELECT d.driver_number, d.full_name, d.abbreviation,
		       t.name AS team_name, t.team_color,
		       COALESCE(SUM(r.points), 0) AS total_points
		FROM drivers d
		JOIN teams t ON d.team_id = t.id
		JOIN results r ON d.id = r.driver_id
		JOIN sessions s ON r.session_id = s.id
		JOIN events e ON s.event_id = e.id
		WHERE e.year = $1 AND s.session_type = 'race'
		GROUP BY d.id, d.driver_number, d.full_name, d.abbreviation, t.name, t.team_color
		ORDER BY total_points DESC
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query driver standings: %w", err)
	}
	defer rows.Close()

	var standings []models.DriverStanding
	position := 0
	for rows.Next() {
		var row models.DriverStanding
		var points float64
		if err := rows.Scan(
			&row.DriverNumber, &row.DriverName, &row.DriverAbbr,
			&row.Team, &row.TeamColor, &points,
		); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		position++
		pos := position
		row.Position = &pos
		row.Points = &points
		standings = append(standings, row)
	}
	return standings, rows.Err()
}

// ConstructorStandings computes season standings by summing race points per
// team
func (p *Postgres) ConstructorStandings(ctx context.Context, year int) ([]models.ConstructorStanding, error) {
	query := `
		SELECT t.name AS team_name, t.team_color,
		       COALESCE(SUM(r.points), 0) AS total_points
		FROM teams t
		JOIN drivers d ON t.id = d.team_id
		JOIN results r ON d.id = r.driver_id
		JOIN sessions s ON r.session_id = s.id
		JOIN events e ON s.event_id = e.id
		WHERE e.year = $1 AND s.session_type = 'race'
		GROUP BY t.id, t.name, t.team_color
		ORDER BY total_points DESC
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query constructor standings: %w", err)
	}
	defer rows.Close()

	var standings []models.ConstructorStanding
	for rows.Next() {
		var row models.ConstructorStanding
		if err := rows.Scan(&row.Team, &row.TeamColor, &row.Points); err != nil {
			return nil, fmt.Errorf("scan constructor standing: %w", err)
		}
		row.Position = len(standings) + 1
		standings = append(standings, row)
	}
	return standings, rows.Err()
}

// RaceResults returns the classified result of a race session
func (p *Postgres) RaceResults(ctx context.Context, sessionID int64) ([]models.RaceResult, error) {
	query := `
		SELECT r.position, d.full_name, d.abbreviation, t.name AS team_name,
		       r.grid_position, r.status, r.points, r.race_time
		FROM results r
		JOIN drivers d ON r.driver_id = d.id
		JOIN teams t ON d.team_id = t.id
		WHERE r.session_id = $1
		ORDER BY CASE WHEN r.position IS NULL THEN 999 ELSE r.position END
	`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query race results: %w", err)
	}
	defer rows.Close()

	var results []models.RaceResult
	for rows.Next() {
		var r models.RaceResult
		if err := rows.Scan(
			&r.Position, &r.DriverName, &r.Abbreviation, &r.Team,
			&r.GridPosition, &r.Status, &r.Points, &r.RaceTime,
		); err != nil {
			return nil, fmt.Errorf("scan race result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// QualifyingResults returns the classification of a qualifying session
func (p *Postgres) QualifyingResults(ctx context.Context, sessionID int64) ([]models.QualifyingResult, error) {
	query := `
		SELECT r.position, d.full_name, d.abbreviation, t.name AS team_name,
		       r.q1_time, r.q2_time, r.q3_time
		FROM results r
		JOIN drivers d ON r.driver_id = d.id
		JOIN teams t ON d.team_id = t.id
		WHERE r.session_id = $1
		ORDER BY CASE WHEN r.position IS NULL THEN 999 ELSE r.position END
	`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query qualifying results: %w", err)
	}
	defer rows.Close()

	var results []models.QualifyingResult
	for rows.Next() {
		var r models.QualifyingResult
		if err := rows.Scan(
			&r.Position, &r.DriverName, &r.Abbreviation, &r.Team,
			&r.Q1, &r.Q2, &r.Q3,
		); err != nil {
			return nil, fmt.Errorf("scan qualifying result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// LapTimes returns all timed laps of a session, optionally for one driver
func (p *Postgres) LapTimes(ctx context.Context, sessionID int64, driverAbbr string) ([]models.Lap, error) {
	query := `
		SELECT l.lap_number, l.lap_time, d.abbreviation, t.team_color,
		       l.sector1_time, l.sector2_time, l.sector3_time,
		       l.compound, l.tyre_life, COALESCE(l.is_personal_best, FALSE)
		FROM laps l
		JOIN drivers d ON l.driver_id = d.id
		JOIN teams t ON d.team_id = t.id
		WHERE l.session_id = $1 AND l.lap_time IS NOT NULL
	`
	args := []interface{}{sessionID}

	if driverAbbr != "" {
		query += " AND d.abbreviation = $2"
		args = append(args, driverAbbr)
	}

	query += " ORDER BY d.abbreviation, l.lap_number"

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query laps: %w", err)
	}
	defer rows.Close()

	var laps []models.Lap
	for rows.Next() {
		var l models.Lap
		if err := rows.Scan(
			&l.LapNumber, &l.LapTime, &l.DriverAbbr, &l.TeamColor,
			&l.Sector1, &l.Sector2, &l.Sector3,
			&l.Compound, &l.TyreLife, &l.IsPersonalBest,
		); err != nil {
			return nil, fmt.Errorf("scan lap: %w", err)
		}
		laps = append(laps, l)
	}
	return laps, rows.Err()
}

// LatestLaps returns each driver's most recent completed lap of a session,
// shaped like the live timing snapshot
func (p *Postgres) LatestLaps(ctx context.Context, sessionID int64) ([]models.TimingEntry, error) {
	query := `
		SELECT DISTINCT ON (d.abbreviation)
		       d.abbreviation, l.lap_number, l.lap_time,
		       l.sector1_time, l.sector2_time, l.sector3_time,
		       COALESCE(l.is_personal_best, FALSE), l.compound, l.tyre_life,
		       l.track_status
		FROM laps l
		JOIN drivers d ON l.driver_id = d.id
		WHERE l.session_id = $1 AND l.lap_time IS NOT NULL
		ORDER BY d.abbreviation, l.lap_number DESC
	`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query latest laps: %w", err)
	}
	defer rows.Close()

	var timing []models.TimingEntry
	for rows.Next() {
		var t models.TimingEntry
		if err := rows.Scan(
			&t.DriverAbbr, &t.LapNumber, &t.LapTime,
			&t.Sector1, &t.Sector2, &t.Sector3,
			&t.IsPersonalBest, &t.Compound, &t.TyreLife,
			&t.TrackStatus,
		); err != nil {
			return nil, fmt.Errorf("scan latest lap: %w", err)
		}
		timing = append(timing, t)
	}
	return timing, rows.Err()
}

// TireStates aggregates each driver's last stint of a session, shaped like
// the live tires snapshot
func (p *Postgres) TireStates(ctx context.Context, sessionID int64) ([]models.TireState, error) {
	query := `
		SELECT d.abbreviation,
		       MIN(l.compound) AS compound,
		       MAX(l.tyre_life) AS life,
		       COUNT(*) AS age,
		       BOOL_OR(COALESCE(l.fresh_tyre, FALSE)) AS fresh
		FROM laps l
		JOIN drivers d ON l.driver_id = d.id
		WHERE l.session_id = $1
		  AND l.stint = (
			SELECT MAX(l2.stint) FROM laps l2
			WHERE l2.session_id = l.session_id AND l2.driver_id = l.driver_id
		  )
		GROUP BY d.abbreviation
		ORDER BY d.abbreviation
	`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query tire states: %w", err)
	}
	defer rows.Close()

	var tires []models.TireState
	for rows.Next() {
		var t models.TireState
		var fresh bool
		if err := rows.Scan(&t.DriverAbbr, &t.Compound, &t.Life, &t.Age, &fresh); err != nil {
			return nil, fmt.Errorf("scan tire state: %w", err)
		}
		t.Fresh = &fresh
		tires = append(tires, t)
	}
	return tires, rows.Err()
}

// Weather returns a session's weather series in chronological order
func (p *Postgres) Weather(ctx context.Context, sessionID int64) ([]models.Weather, error) {
	query := `
		SELECT w.time, w.air_temp, w.track_temp, w.humidity, w.pressure,
		       w.wind_speed, w.wind_direction, COALESCE(w.rainfall, FALSE)
		FROM weather w
		WHERE w.session_id = $1
		ORDER BY w.time
	`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query weather: %w", err)
	}
	defer rows.Close()

	var readings []models.Weather
	for rows.Next() {
		var w models.Weather
		if err := rows.Scan(
			&w.Timestamp, &w.AirTemp, &w.TrackTemp, &w.Humidity, &w.Pressure,
			&w.WindSpeed, &w.WindDirection, &w.Rainfall,
		); err != nil {
			return nil, fmt.Errorf("scan weather: %w", err)
		}
		readings = append(readings, w)
	}
	return readings, rows.Err()
}

// TireCompounds lists the compound/color table for a season
func (p *Postgres) TireCompounds(ctx context.Context, year int) ([]models.TireCompound, error) {
	query := `
		SELECT compound_name, color_code
		FROM tyre_compounds
		WHERE year = $1
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query tire compounds: %w", err)
	}
	defer rows.Close()

	var compounds []models.TireCompound
	for rows.Next() {
		var c models.TireCompound
		if err := rows.Scan(&c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan tire compound: %w", err)
		}
		compounds = append(compounds, c)
	}
	return compounds, rows.Err()
}
