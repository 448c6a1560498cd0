package models

// Historical read models mirroring the relational schema the ingestion job
// populates. The live service only ever reads these.

// Event is a competition weekend row
type Event struct {
	ID            int64  `json:"id"`
	Year          int    `json:"year"`
	RoundNumber   int    `json:"round_number"`
	Country       string `json:"country"`
	Location      string `json:"location"`
	OfficialName  string `json:"official_event_name"`
	EventName     string `json:"event_name"`
	EventDate     string `json:"event_date"`
	EventFormat   string `json:"event_format"`
	F1APISupport  bool   `json:"f1_api_support"`
}

// Session is one timed activity within an event
type Session struct {
	ID          int64   `json:"id"`
	EventID     int64   `json:"event_id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	SessionType string  `json:"session_type"`
	TotalLaps   *int    `json:"total_laps"`
	StartTime   *string `json:"session_start_time"`
}

// Team is a constructor entry for a season
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeamID    string `json:"team_id"`
	TeamColor string `json:"team_color"`
}

// Driver is a driver entry for a season
type Driver struct {
	ID           int64  `json:"id"`
	DriverNumber string `json:"driver_number"`
	Abbreviation string `json:"abbreviation"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	CountryCode  string `json:"country_code"`
	TeamID       int64  `json:"team_id"`
	TeamName     string `json:"team_name"`
	TeamColor    string `json:"team_color"`
}

// ConstructorStanding is one aggregated constructor championship row
type ConstructorStanding struct {
	Position  int     `json:"position"`
	Team      string  `json:"team"`
	TeamColor string  `json:"team_color"`
	Points    float64 `json:"points"`
}

// RaceResult is one classified race result row
type RaceResult struct {
	Position     *int     `json:"position"`
	DriverName   string   `json:"driver_name"`
	Abbreviation string   `json:"abbreviation"`
	Team         string   `json:"team"`
	GridPosition *int     `json:"grid_position"`
	Status       *string  `json:"status"`
	Points       *float64 `json:"points"`
	RaceTime     *string  `json:"race_time"`
}

// QualifyingResult is one qualifying classification row
type QualifyingResult struct {
	Position     *int    `json:"position"`
	DriverName   string  `json:"driver_name"`
	Abbreviation string  `json:"abbreviation"`
	Team         string  `json:"team"`
	Q1           *string `json:"q1_time"`
	Q2           *string `json:"q2_time"`
	Q3           *string `json:"q3_time"`
}

// Lap is one recorded lap of a session
type Lap struct {
	LapNumber      int      `json:"lap_number"`
	LapTime        string   `json:"lap_time"`
	DriverAbbr     string   `json:"driver"`
	TeamColor      string   `json:"team_color"`
	Sector1        *string  `json:"sector1"`
	Sector2        *string  `json:"sector2"`
	Sector3        *string  `json:"sector3"`
	Compound       *string  `json:"compound"`
	TyreLife       *float64 `json:"tyre_life"`
	IsPersonalBest bool     `json:"is_personal_best"`
}

// TireCompound maps a compound name to its display color for a season
type TireCompound struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
