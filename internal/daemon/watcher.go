// Package daemon implements the background clipboard URL watcher.
package daemon

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/usecase"
)

// WatcherConfig holds watcher configuration.
type WatcherConfig struct {
	PollInterval time.Duration // How often to poll the clipboard
}

// DefaultWatcherConfig returns default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval: time.Second,
	}
}

// Watcher polls the clipboard for URLs and resolves them against the
// configured collections. It runs concurrently with foreground edits:
// every resolution uses a fresh store snapshot, so it may lag an edit
// by one poll but never sees a torn collection.
//
// The watcher only records and logs matches; launching from clipboard
// changes is left to the user.
type Watcher struct {
	config    WatcherConfig
	store     *usecase.Store
	resolver  *usecase.Resolver
	selector  *usecase.Selector
	clipboard domain.ClipboardReader
	history   domain.HistoryRecorder
	logger    *zap.Logger

	lastSeen string
}

// NewWatcher creates a watcher. history may be nil.
func NewWatcher(
	config WatcherConfig,
	store *usecase.Store,
	resolver *usecase.Resolver,
	selector *usecase.Selector,
	clipboard domain.ClipboardReader,
	history domain.HistoryRecorder,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		config:    config,
		store:     store,
		resolver:  resolver,
		selector:  selector,
		clipboard: clipboard,
		history:   history,
		logger:    logger,
	}
}

// Run starts the watcher loop. It blocks until the context is
// canceled.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("clipboard watcher started",
		zap.Duration("poll_interval", w.config.PollInterval))

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("clipboard watcher stopping")
			return ctx.Err()

		case <-ticker.C:
			w.poll()
		}
	}
}

// poll reads the clipboard once and resolves any new URL it finds.
func (w *Watcher) poll() {
	text, err := w.clipboard.Read()
	if err != nil {
		w.logger.Debug("clipboard read failed", zap.Error(err))
		return
	}
	if text == "" || text == w.lastSeen {
		return
	}
	w.lastSeen = text

	if !isWebURL(text) {
		return
	}

	m := w.resolver.Resolve(text, w.store.Groups(), w.store.Rules())
	if m == nil {
		return
	}

	decision := w.selector.Select(m)
	w.logger.Info("clipboard url matched",
		zap.String("url", text),
		zap.String("source", string(m.Source)),
		zap.String("decision", string(decision.Kind)))

	if w.history == nil {
		return
	}
	rec := domain.LaunchRecord{
		URL:        text,
		SourceKind: m.Source,
	}
	switch m.Source {
	case domain.SourceGroup:
		rec.SourceID = m.Group.ID
	case domain.SourceRule:
		rec.SourceID = m.Rule.ID
	}
	if decision.Kind == domain.DecisionLaunch {
		rec.BrowserPath = decision.Plan.BrowserExecutablePath
		rec.ProfilePath = decision.Plan.ProfilePath
	}
	if err := w.history.Record(rec); err != nil {
		w.logger.Warn("failed to record clipboard match", zap.Error(err))
	}
}

// isWebURL accepts absolute http/https URLs only.
func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
