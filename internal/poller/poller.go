// Package poller runs the background loop that detects live sessions, pulls
// provider data, and publishes normalized snapshots into the cache.
package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/checkmateLL/F1LiveDashboard/internal/cache"
	"github.com/checkmateLL/F1LiveDashboard/internal/detector"
	"github.com/checkmateLL/F1LiveDashboard/internal/metrics"
	"github.com/checkmateLL/F1LiveDashboard/internal/providers/livetiming"
	"github.com/checkmateLL/F1LiveDashboard/internal/transform"
	"github.com/checkmateLL/F1LiveDashboard/pkg/models"
)

// Default loop timings
const (
	DefaultPollInterval = 1 * time.Second
	DefaultIdleInterval = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// CalendarSource provides the season's event calendar
type CalendarSource interface {
	Schedule(ctx context.Context, year int) ([]models.EventCalendarEntry, error)
}

// Provider pulls raw session data from the external timing provider
type Provider interface {
	FetchSession(ctx context.Context, year, round int, sessionName string) (*livetiming.RawSession, error)
}

// SnapshotCache is the write side of the live cache
type SnapshotCache interface {
	Put(ctx context.Context, category string, value interface{}, ttl time.Duration) error
}

// Broadcaster pushes published snapshot categories to connected clients
type Broadcaster interface {
	Broadcast(category string, payload interface{})
}

// Config tunes the loop timings. Zero values fall back to defaults.
type Config struct {
	PollInterval time.Duration
	IdleInterval time.Duration
	FetchTimeout time.Duration
	StopTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = DefaultIdleInterval
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	return c
}

// Poller owns the background polling loop. At most one loop runs per Poller;
// the session state it threads through iterations is never shared.
type Poller struct {
	calendar    CalendarSource
	provider    Provider
	cache       SnapshotCache
	broadcaster Broadcaster
	config      Config

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a poller. The broadcaster may be nil.
func New(calendar CalendarSource, provider Provider, snapshots SnapshotCache, broadcaster Broadcaster, config Config) *Poller {
	return &Poller{
		calendar:    calendar,
		provider:    provider,
		cache:       snapshots,
		broadcaster: broadcaster,
		config:      config.withDefaults(),
	}
}

// Start launches the polling loop. Starting an already running poller logs
// and returns without side effects.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		log.Println("[poller] polling is already active")
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.run(loopCtx, p.done)

	log.Println("[poller] started live data polling")
}

// Stop signals the loop and joins it with a bounded timeout. The signal is
// cooperative; on timeout Stop logs and returns anyway.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()

	select {
	case <-done:
		log.Println("[poller] stopped live data polling")
	case <-time.After(p.config.StopTimeout):
		log.Println("[poller] loop did not stop in time, proceeding anyway")
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
}

// Running reports whether the loop is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// run owns one loop's lifetime. done is captured at launch: after a timed-out
// Stop a stale goroutine may outlive a restarted loop, so cleanup closes only
// its own channel and clears running only while it still owns the poller.
func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer func() {
		close(done)
		p.mu.Lock()
		if p.done == done {
			p.running = false
		}
		p.mu.Unlock()
	}()

	// Session state is owned by this goroutine and threaded through
	// iterations; nothing else mutates it.
	current := models.NoSession()

	for {
		if ctx.Err() != nil {
			return
		}

		now := time.Now().UTC()

		// A session can end mid-loop; expire the live state so the next
		// detection runs fresh.
		if current.IsLive() && !now.Before(current.EndTime) {
			log.Printf("[poller] session %s ended", current.SessionName)
			current = models.NoSession()
		}

		if !current.IsLive() {
			current = p.detect(ctx, now)

			// Publish the state regardless of outcome so readers can
			// discover the absence of live data.
			if err := p.cache.Put(ctx, cache.CategorySession, current, cache.NonExpiring); err != nil {
				log.Printf("[poller] error storing session state: %v", err)
			}

			if !current.IsLive() {
				metrics.PollCycles.WithLabelValues("idle").Inc()
				log.Println("[poller] no live session currently active")
				if !sleep(ctx, p.config.IdleInterval) {
					return
				}
				continue
			}

			log.Printf("[poller] detected live session: %s at %s", current.SessionName, current.EventName)
		}

		p.pollOnce(ctx, current)

		if !sleep(ctx, p.config.PollInterval) {
			return
		}
	}
}

// detect loads the calendar and evaluates it. Calendar failures degrade to
// NoSession; they never stop the loop.
func (p *Poller) detect(ctx context.Context, now time.Time) models.SessionState {
	calendar, err := p.calendar.Schedule(ctx, now.Year())
	if err != nil {
		log.Printf("[poller] error loading event calendar: %v", err)
		return models.NoSession()
	}
	return detector.Detect(now, calendar)
}

// pollOnce performs one fetch + transform + publish cycle for a live session
func (p *Poller) pollOnce(ctx context.Context, session models.SessionState) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.config.FetchTimeout)
	defer cancel()

	raw, err := p.provider.FetchSession(fetchCtx, session.Year, session.Round, session.SessionName)
	if err != nil {
		if errors.Is(err, livetiming.ErrSessionNotStarted) {
			log.Printf("[poller] session %s has not started yet or has no data", session.SessionName)
		} else {
			log.Printf("[poller] error loading session data: %v", err)
		}
		metrics.ProviderErrors.Inc()
		metrics.PollCycles.WithLabelValues("skipped").Inc()
		return
	}

	snapshot := transform.Build(raw)

	p.publish(ctx, cache.CategoryStandings, snapshot.Standings, len(snapshot.Standings) > 0)
	p.publish(ctx, cache.CategoryTiming, snapshot.Timing, len(snapshot.Timing) > 0)
	p.publish(ctx, cache.CategoryTires, snapshot.Tires, len(snapshot.Tires) > 0)
	p.publish(ctx, cache.CategoryWeather, snapshot.Weather, snapshot.Weather != nil)
	p.publish(ctx, cache.CategoryStatus, snapshot.Status, snapshot.Status != nil)

	metrics.PollCycles.WithLabelValues("live").Inc()
}

// publish writes one category and fans it out to the broadcaster. A failed
// put is logged, not retried; the next cycle retries naturally.
func (p *Poller) publish(ctx context.Context, category string, payload interface{}, present bool) {
	if !present {
		return
	}

	if err := p.cache.Put(ctx, category, payload, cache.DataTTL); err != nil {
		log.Printf("[poller] error caching %s: %v", category, err)
		return
	}

	if p.broadcaster != nil {
		p.broadcaster.Broadcast(category, payload)
	}
}

// sleep waits for d or until ctx is done; returns false when cancelled
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
