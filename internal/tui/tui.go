// Package tui is the terminal frontend: a tabbed dashboard over the broker
// emulator monitoring backend.
package tui

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/epalmerini/busmon/internal/api"
	"github.com/epalmerini/busmon/internal/cache"
	"github.com/epalmerini/busmon/internal/config"
	"github.com/epalmerini/busmon/internal/track"
)

// deps bundles the shared backend plumbing every tab uses.
type deps struct {
	client *api.Client
	cache  *cache.Cache
	writer *track.AsyncWriter
	cfg    config.Config
	log    zerolog.Logger

	mu    sync.Mutex
	stats stats
}

// observe records a completed message fetch: session stats plus one
// observation row per message for the local history database.
func (d *deps) observe(msgs []api.TrackedMessage) {
	d.mu.Lock()
	d.stats.record(time.Now(), len(msgs))
	d.mu.Unlock()

	if d.writer == nil {
		return
	}
	for _, m := range msgs {
		d.writer.Record(&track.Observation{
			MessageID:   m.ID,
			Provider:    d.cfg.Provider,
			Destination: m.Destination.String(),
			SenderID:    m.SenderID,
			Receiver:    m.Receiver,
			Disposition: m.Disposition,
			Body:        m.Body,
			SentAt:      m.SentAt,
			ObservedAt:  time.Now(),
		})
	}
}

// statsSnapshot returns the session counters under the lock.
func (d *deps) statsSnapshot() (ratePerMin float64, avgBatch int64, lastFetch time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats.fetchesPerMin(time.Now()), d.stats.avgBatch(), d.stats.lastFetchAt
}

// Run starts the dashboard and blocks until the user quits.
func Run(cfg config.Config, log zerolog.Logger) error {
	client := api.NewClient(cfg.BaseURL, log)

	// Cached reads go stale once per poll interval.
	c := cache.New(cfg.PollInterval)

	var writer *track.AsyncWriter
	store, err := track.NewStore(cfg.DBPath)
	if err != nil {
		// History is best effort; the dashboard works without it.
		log.Warn().Err(err).Msg("observation store unavailable")
	} else {
		writer = track.NewAsyncWriter(store)
		defer func() {
			writer.Close()
			store.Close()
		}()
	}

	d := &deps{
		client: client,
		cache:  c,
		writer: writer,
		cfg:    cfg,
		log:    log,
	}

	log.Info().Str("url", cfg.BaseURL).Str("provider", cfg.Provider).Msg("starting dashboard")

	p := tea.NewProgram(newAppModel(d), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}

	// Persist UI preferences for the next session.
	if app, ok := final.(appModel); ok && cfg.ConfigDir != "" {
		saveErr := config.SaveUI(cfg.ConfigDir, config.UIConfig{
			SplitRatio:  app.messages.splitRatio,
			CompactMode: app.messages.compactMode,
			SidebarOpen: app.messages.showDetail,
		})
		if saveErr != nil {
			log.Warn().Err(saveErr).Msg("failed to save ui preferences")
		}
	}
	return nil
}
