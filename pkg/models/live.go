package models

import "time"

// DriverStanding is one standings row for a competitor. Pointer fields are
// nullable: the provider omits them for sessions where they don't apply
// (no Q1-Q3 outside qualifying, no race time outside races).
type DriverStanding struct {
	Position     *int     `json:"position"`
	DriverNumber string   `json:"driver_number"`
	DriverAbbr   string   `json:"driver_abbr"`
	DriverName   string   `json:"driver_name"`
	Team         string   `json:"team"`
	TeamColor    string   `json:"team_color"`
	Q1           *string  `json:"q1"`
	Q2           *string  `json:"q2"`
	Q3           *string  `json:"q3"`
	Time         *string  `json:"time"`
	Status       *string  `json:"status"`
	Points       *float64 `json:"points"`
}

// TimingEntry reflects a competitor's most recent completed lap
type TimingEntry struct {
	DriverAbbr     string   `json:"driver_abbr"`
	LapNumber      int      `json:"lap_number"`
	LapTime        string   `json:"lap_time"`
	Sector1        *string  `json:"sector1"`
	Sector2        *string  `json:"sector2"`
	Sector3        *string  `json:"sector3"`
	IsPersonalBest bool     `json:"is_personal_best"`
	Compound       *string  `json:"compound"`
	TyreLife       *float64 `json:"tyre_life"`
	TrackStatus    *string  `json:"track_status"`
}

// TireState is a competitor's current tire situation, aggregated over the
// latest stint
type TireState struct {
	DriverAbbr string   `json:"driver_abbr"`
	Compound   *string  `json:"compound"`
	Life       *float64 `json:"life"`
	Age        int      `json:"age"`
	Fresh      *bool    `json:"fresh"`
}

// Weather is the most recent weather reading of a session
type Weather struct {
	AirTemp       *float64  `json:"air_temp"`
	TrackTemp     *float64  `json:"track_temp"`
	Humidity      *float64  `json:"humidity"`
	Pressure      *float64  `json:"pressure"`
	WindSpeed     *float64  `json:"wind_speed"`
	WindDirection *int      `json:"wind_direction"`
	Rainfall      bool      `json:"rainfall"`
	Timestamp     time.Time `json:"timestamp"`
}

// TrackStatus is the most recent track status reading
type TrackStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"status_message"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the complete set of normalized records produced from one
// successful provider fetch. Any category may be empty if the source had no
// data for it.
type Snapshot struct {
	Standings []DriverStanding `json:"standings,omitempty"`
	Timing    []TimingEntry    `json:"timing,omitempty"`
	Tires     []TireState      `json:"tires,omitempty"`
	Weather   *Weather         `json:"weather,omitempty"`
	Status    *TrackStatus     `json:"status,omitempty"`
}
