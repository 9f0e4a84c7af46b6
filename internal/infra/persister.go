// Package infra implements infrastructure concerns (persistence, browsers, launching).
package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
)

const (
	rulesFileName  = "rules.json"
	groupsFileName = "groups.json"
)

// DefaultDataDir returns the application-owned data directory.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "urlpick")
}

// JSONPersister implements domain.CollectionPersister with two JSON
// files. A missing file is an empty collection; a corrupt file is
// logged and also treated as empty rather than propagated.
type JSONPersister struct {
	dir    string
	logger *zap.Logger
}

// NewJSONPersister creates a persister rooted at dir.
func NewJSONPersister(dir string, logger *zap.Logger) *JSONPersister {
	return &JSONPersister{dir: dir, logger: logger}
}

// LoadRules returns the persisted rule collection.
func (p *JSONPersister) LoadRules() ([]domain.URLRule, error) {
	var rules []domain.URLRule
	p.load(rulesFileName, &rules)
	return rules, nil
}

// SaveRules replaces the persisted rule collection atomically.
func (p *JSONPersister) SaveRules(rules []domain.URLRule) error {
	if rules == nil {
		rules = []domain.URLRule{}
	}
	return p.save(rulesFileName, rules)
}

// LoadGroups returns the persisted group collection.
func (p *JSONPersister) LoadGroups() ([]domain.URLGroup, error) {
	var groups []domain.URLGroup
	p.load(groupsFileName, &groups)
	return groups, nil
}

// SaveGroups replaces the persisted group collection atomically.
func (p *JSONPersister) SaveGroups(groups []domain.URLGroup) error {
	if groups == nil {
		groups = []domain.URLGroup{}
	}
	return p.save(groupsFileName, groups)
}

func (p *JSONPersister) load(name string, out any) {
	path := filepath.Join(p.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("failed to read collection, treating as empty",
				zap.String("file", path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		p.logger.Warn("failed to parse collection, treating as empty",
			zap.String("file", path), zap.Error(err))
	}
}

// save writes the collection to a temp file and renames it into
// place. Readers never observe a partially written file.
func (p *JSONPersister) save(name string, v any) error {
	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(p.dir, name)
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Ensure JSONPersister implements domain.CollectionPersister.
var _ domain.CollectionPersister = (*JSONPersister)(nil)
