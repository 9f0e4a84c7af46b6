package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/usecase"
)

// memPersister implements domain.CollectionPersister in memory.
type memPersister struct {
	rules  []domain.URLRule
	groups []domain.URLGroup
}

func (m *memPersister) LoadRules() ([]domain.URLRule, error)    { return m.rules, nil }
func (m *memPersister) SaveRules(r []domain.URLRule) error      { m.rules = r; return nil }
func (m *memPersister) LoadGroups() ([]domain.URLGroup, error)  { return m.groups, nil }
func (m *memPersister) SaveGroups(g []domain.URLGroup) error    { m.groups = g; return nil }

// mockClipboard implements domain.ClipboardReader.
type mockClipboard struct {
	text string
	err  error
}

func (m *mockClipboard) Read() (string, error) { return m.text, m.err }

// mockHistory implements domain.HistoryRecorder.
type mockHistory struct {
	records []domain.LaunchRecord
	err     error
}

func (m *mockHistory) Record(rec domain.LaunchRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockHistory) Recent(limit int) ([]domain.LaunchRecord, error) { return m.records, nil }
func (m *mockHistory) Close() error                                   { return nil }

func newTestWatcher(t *testing.T, clip *mockClipboard, hist *mockHistory) (*Watcher, *usecase.Store) {
	t.Helper()
	logger := zap.NewNop()
	store, err := usecase.NewStore(&memPersister{}, nil, logger)
	require.NoError(t, err)
	var recorder domain.HistoryRecorder
	if hist != nil {
		recorder = hist
	}
	w := NewWatcher(
		DefaultWatcherConfig(),
		store,
		usecase.NewResolver(logger),
		usecase.NewSelector(logger),
		clip,
		recorder,
		logger,
	)
	return w, store
}

func TestWatcher_RecordsClipboardMatch(t *testing.T) {
	clip := &mockClipboard{text: "https://mail.google.com/x"}
	hist := &mockHistory{}
	w, store := newTestWatcher(t, clip, hist)

	rule, err := store.AddRule(domain.URLRule{
		Pattern: "*.google.com/*", IsEnabled: true,
		Profile: domain.RuleProfile{
			BrowserExecutablePath: "/usr/bin/chrome",
			ProfilePath:           "Work",
		},
	})
	require.NoError(t, err)

	w.poll()

	require.Len(t, hist.records, 1)
	rec := hist.records[0]
	assert.Equal(t, "https://mail.google.com/x", rec.URL)
	assert.Equal(t, domain.SourceRule, rec.SourceKind)
	assert.Equal(t, rule.ID, rec.SourceID)
	assert.Equal(t, "/usr/bin/chrome", rec.BrowserPath)
	assert.Equal(t, "Work", rec.ProfilePath)
}

func TestWatcher_DedupesRepeatedClipboardContent(t *testing.T) {
	clip := &mockClipboard{text: "https://mail.google.com/x"}
	hist := &mockHistory{}
	w, store := newTestWatcher(t, clip, hist)

	_, err := store.AddRule(domain.URLRule{Pattern: "*google.com*", IsEnabled: true})
	require.NoError(t, err)

	w.poll()
	w.poll()
	w.poll()
	assert.Len(t, hist.records, 1)

	clip.text = "https://docs.google.com/doc"
	w.poll()
	assert.Len(t, hist.records, 2)
}

func TestWatcher_IgnoresNonURLText(t *testing.T) {
	clip := &mockClipboard{text: "just some copied text"}
	hist := &mockHistory{}
	w, store := newTestWatcher(t, clip, hist)

	_, err := store.AddRule(domain.URLRule{Pattern: "*", IsEnabled: true})
	require.NoError(t, err)

	w.poll()
	assert.Empty(t, hist.records)

	clip.text = "ftp://example.com/file"
	w.poll()
	assert.Empty(t, hist.records)
}

func TestWatcher_ToleratesClipboardAndHistoryErrors(t *testing.T) {
	clip := &mockClipboard{err: errors.New("no clipboard")}
	hist := &mockHistory{err: errors.New("db closed")}
	w, store := newTestWatcher(t, clip, hist)

	_, err := store.AddRule(domain.URLRule{Pattern: "*", IsEnabled: true})
	require.NoError(t, err)

	w.poll() // read error: nothing happens

	clip.err = nil
	clip.text = "https://example.com"
	w.poll() // record error: logged, not fatal
	assert.Empty(t, hist.records)
}

func TestWatcher_RunStopsOnContextCancel(t *testing.T) {
	clip := &mockClipboard{}
	w, _ := newTestWatcher(t, clip, nil)
	w.config.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestIsWebURL(t *testing.T) {
	assert.True(t, isWebURL("https://example.com"))
	assert.True(t, isWebURL("http://example.com/path?q=1"))
	assert.False(t, isWebURL("example.com"))
	assert.False(t, isWebURL("mailto:a@b.c"))
	assert.False(t, isWebURL("https://"))
	assert.False(t, isWebURL("::not a url::"))
}
