package db

import (
	"context"
	"fmt"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

// Schedule loads the event calendar for a season: every event with its
// sub-sessions in weekend order. The result feeds the session detector and
// is treated as immutable.
func (p *Postgres) Schedule(ctx context.Context, year int) ([]models.EventCalendarEntry, error) {
	query := `
		SELECT e.year, e.round_number, e.event_name, e.country, e.location,
		       s.name, s.date
		FROM events e
		JOIN sessions s ON s.event_id = e.id
		WHERE e.year = $1
		ORDER BY e.round_number, s.date
	`

	rows, err := p.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var calendar []models.EventCalendarEntry
	byRound := make(map[int]int) // round -> index into calendar

	for rows.Next() {
		var (
			entry models.EventCalendarEntry
			name  string
			start time.Time
		)
		if err := rows.Scan(
			&entry.Year, &entry.Round, &entry.EventName,
			&entry.Country, &entry.Location, &name, &start,
		); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}

		idx, ok := byRound[entry.Round]
		if !ok {
			idx = len(calendar)
			byRound[entry.Round] = idx
			calendar = append(calendar, entry)
		}
		calendar[idx].Sessions = append(calendar[idx].Sessions, &models.SubSession{
			Name:     name,
			StartUTC: start.UTC(),
		})
	}
	return calendar, rows.Err()
}
