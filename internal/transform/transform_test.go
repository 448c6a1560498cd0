package transform_test

import (
	"testing"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/providers/livetiming"
	"github.com/checkmateLL/F1LiveDashboard/internal/transform"
)

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool       { return &b }

func TestStandings_NullablePassthrough(t *testing.T) {
	results := []livetiming.RawResult{
		{
			Position:     floatPtr(1),
			DriverNumber: "1",
			Abbreviation: "VER",
			FullName:     "Max Verstappen",
			TeamName:     "Red Bull Racing",
			TeamColor:    "3671C6",
			Time:         strPtr("1:32:07.986"),
			Status:       strPtr("Finished"),
			Points:       floatPtr(25),
		},
		{
			// Session not finished for this driver: everything optional absent
			DriverNumber: "44",
			Abbreviation: "HAM",
			FullName:     "Lewis Hamilton",
			TeamName:     "Mercedes",
			TeamColor:    "6CD3BF",
		},
	}

	standings := transform.Standings(results)
	if len(standings) != 2 {
		t.Fatalf("got %d rows, want 2", len(standings))
	}

	first := standings[0]
	if first.Position == nil || *first.Position != 1 {
		t.Errorf("position = %v, want 1", first.Position)
	}
	if first.Points == nil || *first.Points != 25 {
		t.Errorf("points = %v, want 25", first.Points)
	}

	second := standings[1]
	if second.Position != nil || second.Points != nil || second.Time != nil {
		t.Errorf("expected nil optional fields, got %+v", second)
	}
	if second.DriverAbbr != "HAM" {
		t.Errorf("abbr = %q, want HAM", second.DriverAbbr)
	}
}

func TestStandings_MalformedRowSkipped(t *testing.T) {
	results := []livetiming.RawResult{
		{Abbreviation: "VER", FullName: "Max Verstappen", Points: floatPtr(25)},
		{DriverNumber: "0"}, // no driver code
		{Abbreviation: "HAM", FullName: "Lewis Hamilton"},
	}

	standings := transform.Standings(results)
	if len(standings) != 2 {
		t.Fatalf("got %d rows, want 2 (malformed row skipped)", len(standings))
	}
	if standings[0].DriverAbbr != "VER" || standings[1].DriverAbbr != "HAM" {
		t.Errorf("unexpected rows: %+v", standings)
	}
}

func TestTiming_SelectsHighestCompletedLap(t *testing.T) {
	laps := []livetiming.RawLap{
		{Driver: "VER", LapNumber: intPtr(10), LapTime: strPtr("1:21.456")},
		{Driver: "VER", LapNumber: intPtr(12), LapTime: strPtr("1:20.998"), IsPersonalBest: boolPtr(true)},
		{Driver: "VER", LapNumber: intPtr(13), LapTime: nil}, // in progress
		{Driver: "HAM", LapNumber: intPtr(11), LapTime: strPtr("1:21.900")},
		{Driver: "NOR", LapNumber: nil, LapTime: nil}, // no completed laps
	}

	timing := transform.Timing(laps)
	if len(timing) != 2 {
		t.Fatalf("got %d entries, want 2", len(timing))
	}

	ver := timing[0]
	if ver.DriverAbbr != "VER" || ver.LapNumber != 12 {
		t.Errorf("got %s lap %d, want VER lap 12", ver.DriverAbbr, ver.LapNumber)
	}
	if ver.LapTime != "1:20.998" {
		t.Errorf("lap time = %q, want 1:20.998", ver.LapTime)
	}
	if !ver.IsPersonalBest {
		t.Error("expected personal best flag")
	}
}

func TestTires_AggregatesLatestStint(t *testing.T) {
	laps := []livetiming.RawLap{
		// First stint on softs
		{Driver: "VER", Stint: intPtr(1), Compound: strPtr("SOFT"), TyreLife: floatPtr(1), FreshTyre: boolPtr(true)},
		{Driver: "VER", Stint: intPtr(1), Compound: strPtr("SOFT"), TyreLife: floatPtr(2)},
		// Second stint on used hards
		{Driver: "VER", Stint: intPtr(2), Compound: strPtr("HARD"), TyreLife: floatPtr(3), FreshTyre: boolPtr(false)},
		{Driver: "VER", Stint: intPtr(2), Compound: strPtr("HARD"), TyreLife: floatPtr(4)},
		{Driver: "VER", Stint: intPtr(2), Compound: strPtr("HARD"), TyreLife: floatPtr(5)},
	}

	tires := transform.Tires(laps)
	if len(tires) != 1 {
		t.Fatalf("got %d entries, want 1", len(tires))
	}

	state := tires[0]
	if state.Compound == nil || *state.Compound != "HARD" {
		t.Errorf("compound = %v, want HARD", state.Compound)
	}
	if state.Life == nil || *state.Life != 5 {
		t.Errorf("life = %v, want 5", state.Life)
	}
	if state.Age != 3 {
		t.Errorf("age = %d, want 3", state.Age)
	}
	if state.Fresh == nil || *state.Fresh {
		t.Errorf("fresh = %v, want false", state.Fresh)
	}
}

func TestLatestWeather(t *testing.T) {
	base := time.Date(2024, 5, 19, 13, 0, 0, 0, time.UTC)
	samples := []livetiming.RawWeather{
		{AirTemp: floatPtr(21.5), Time: base},
		{AirTemp: floatPtr(23.0), Rainfall: boolPtr(true), Time: base.Add(30 * time.Minute)},
		{AirTemp: floatPtr(22.1), Time: base.Add(10 * time.Minute)},
	}

	weather := transform.LatestWeather(samples)
	if weather == nil {
		t.Fatal("got nil weather")
	}
	if weather.AirTemp == nil || *weather.AirTemp != 23.0 {
		t.Errorf("air temp = %v, want 23.0", weather.AirTemp)
	}
	if !weather.Rainfall {
		t.Error("expected rainfall flag from latest sample")
	}

	if transform.LatestWeather(nil) != nil {
		t.Error("expected nil for empty series")
	}
}

func TestTranslateTrackStatus(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"1", "Track Clear"},
		{"2", "Yellow Flag"},
		{"3", "Safety Car Deployed"},
		{"4", "Red Flag/Session Stopped"},
		{"5", "Virtual Safety Car Deployed"},
		{"6", "Virtual Safety Car Ending"},
		{"9", "Unknown Status: 9"},
		{"", "Unknown Status: "},
	}

	for _, tt := range tests {
		if got := transform.TranslateTrackStatus(tt.code); got != tt.want {
			t.Errorf("TranslateTrackStatus(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBuild_PartialSession(t *testing.T) {
	raw := &livetiming.RawSession{
		Results: []livetiming.RawResult{{Abbreviation: "VER", FullName: "Max Verstappen"}},
		TrackStatus: []livetiming.RawTrackStatus{
			{Status: "1", Time: time.Date(2024, 5, 19, 13, 0, 0, 0, time.UTC)},
			{Status: "5", Time: time.Date(2024, 5, 19, 13, 45, 0, 0, time.UTC)},
		},
	}

	snapshot := transform.Build(raw)
	if len(snapshot.Standings) != 1 {
		t.Errorf("standings rows = %d, want 1", len(snapshot.Standings))
	}
	if len(snapshot.Timing) != 0 || len(snapshot.Tires) != 0 {
		t.Error("expected empty timing and tires for session without laps")
	}
	if snapshot.Weather != nil {
		t.Error("expected nil weather")
	}
	if snapshot.Status == nil || snapshot.Status.Message != "Virtual Safety Car Deployed" {
		t.Errorf("status = %+v, want VSC deployed", snapshot.Status)
	}
}
