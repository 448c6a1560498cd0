package livetiming

import "time"

// Raw provider records. The provider omits values freely depending on session
// phase, so every value that can be absent is a pointer and absence is checked
// explicitly instead of reflectively.

// RawResult is one competitor's row in the session result set
type RawResult struct {
	Position     *float64 `json:"position"`
	DriverNumber string   `json:"driver_number"`
	Abbreviation string   `json:"abbreviation"`
	FullName     string   `json:"full_name"`
	TeamName     string   `json:"team_name"`
	TeamColor    string   `json:"team_color"`
	Q1           *string  `json:"q1"`
	Q2           *string  `json:"q2"`
	Q3           *string  `json:"q3"`
	Time         *string  `json:"time"`
	Status       *string  `json:"status"`
	Points       *float64 `json:"points"`
}

// RawLap is one recorded lap for one competitor
type RawLap struct {
	Driver         string   `json:"driver"`
	LapNumber      *int     `json:"lap_number"`
	LapTime        *string  `json:"lap_time"`
	Sector1        *string  `json:"sector1_time"`
	Sector2        *string  `json:"sector2_time"`
	Sector3        *string  `json:"sector3_time"`
	IsPersonalBest *bool    `json:"is_personal_best"`
	Compound       *string  `json:"compound"`
	TyreLife       *float64 `json:"tyre_life"`
	FreshTyre      *bool    `json:"fresh_tyre"`
	Stint          *int     `json:"stint"`
	TrackStatus    *string  `json:"track_status"`
}

// RawWeather is one weather sample
type RawWeather struct {
	AirTemp       *float64  `json:"air_temp"`
	TrackTemp     *float64  `json:"track_temp"`
	Humidity      *float64  `json:"humidity"`
	Pressure      *float64  `json:"pressure"`
	WindSpeed     *float64  `json:"wind_speed"`
	WindDirection *int      `json:"wind_direction"`
	Rainfall      *bool     `json:"rainfall"`
	Time          time.Time `json:"time"`
}

// RawTrackStatus is one track status change
type RawTrackStatus struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// RawSession is everything the provider returns for one session load
type RawSession struct {
	Results     []RawResult      `json:"results"`
	Laps        []RawLap         `json:"laps"`
	Weather     []RawWeather     `json:"weather"`
	TrackStatus []RawTrackStatus `json:"track_status"`
}
