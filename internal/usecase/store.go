package usecase

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
)

// Store exclusively owns the persisted rule and group collections.
//
// Reads hand out deep-copied snapshots and mutations replace the
// owned slices wholesale, so a resolver iterating one snapshot can
// run concurrently with foreground edits without ever observing a
// torn collection.
type Store struct {
	mu        sync.Mutex
	persister domain.CollectionPersister
	logger    *zap.Logger

	rules  []domain.URLRule
	groups []domain.URLGroup
}

// NewStore loads both collections and runs the seed-if-absent step:
// any built-in group missing from the persisted set is re-created in
// a disabled state. Unreadable state loads as empty, never fails.
func NewStore(persister domain.CollectionPersister, seeds []domain.URLGroup, logger *zap.Logger) (*Store, error) {
	rules, err := persister.LoadRules()
	if err != nil {
		logger.Warn("failed to load rules, starting empty", zap.Error(err))
		rules = nil
	}
	groups, err := persister.LoadGroups()
	if err != nil {
		logger.Warn("failed to load groups, starting empty", zap.Error(err))
		groups = nil
	}

	s := &Store{
		persister: persister,
		logger:    logger,
		rules:     rules,
		groups:    groups,
	}

	seeded := false
	for _, seed := range seeds {
		if s.findGroup(seed.ID) >= 0 {
			continue
		}
		g := seed.Clone()
		g.IsEnabled = false // re-seeded built-ins come back disabled
		normalizeGroup(&g)
		s.groups = append(domain.CloneGroups(s.groups), g)
		seeded = true
		logger.Info("re-seeded built-in group", zap.String("group", g.Name))
	}

	for i := range s.groups {
		normalizeGroup(&s.groups[i])
	}

	if seeded {
		if err := s.saveGroups(); err != nil {
			return nil, fmt.Errorf("failed to persist seeded groups: %w", err)
		}
	}

	return s, nil
}

// Rules returns an independent snapshot of the rule collection.
func (s *Store) Rules() []domain.URLRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneRules(s.rules)
}

// Groups returns an independent snapshot of the group collection.
func (s *Store) Groups() []domain.URLGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneGroups(s.groups)
}

// AddRule appends a rule at the end of the stored sequence and
// returns it with its minted id.
func (s *Store) AddRule(rule domain.URLRule) (domain.URLRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.Profile.ID == "" {
		rule.Profile.ID = uuid.NewString()
	}

	s.rules = append(domain.CloneRules(s.rules), rule)
	if err := s.saveRules(); err != nil {
		return domain.URLRule{}, err
	}
	s.logger.Info("rule added",
		zap.String("pattern", rule.Pattern),
		zap.String("browser", rule.Profile.BrowserName))
	return rule, nil
}

// UpdateRule replaces an existing rule, denormalized profile fields
// included, keyed by id.
func (s *Store) UpdateRule(rule domain.URLRule) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findRule(rule.ID)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	rules := domain.CloneRules(s.rules)
	rules[idx] = rule
	s.rules = rules
	if err := s.saveRules(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// DeleteRule removes a rule by id.
func (s *Store) DeleteRule(id string) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRuleLocked(id)
}

func (s *Store) deleteRuleLocked(id string) (domain.MutationStatus, error) {
	idx := s.findRule(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	rules := domain.CloneRules(s.rules)
	s.rules = append(rules[:idx], rules[idx+1:]...)
	if err := s.saveRules(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// ClearRules removes every individual rule.
func (s *Store) ClearRules() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = nil
	return s.saveRules()
}

// SetRuleEnabled toggles a rule without touching its other fields.
func (s *Store) SetRuleEnabled(id string, enabled bool) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findRule(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	rules := domain.CloneRules(s.rules)
	rules[idx].IsEnabled = enabled
	s.rules = rules
	if err := s.saveRules(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// MoveRule moves a rule to a new position in the stored sequence.
// Order is the user's priority mechanism, so it gets a first-class
// operation.
func (s *Store) MoveRule(id string, index int) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findRule(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	rules := domain.CloneRules(s.rules)
	moved := rules[idx]
	rules = append(rules[:idx], rules[idx+1:]...)
	index = clamp(index, 0, len(rules))
	rules = append(rules[:index], append([]domain.URLRule{moved}, rules[index:]...)...)
	s.rules = rules
	if err := s.saveRules(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// AddGroup appends a group at the end of the stored sequence.
func (s *Store) AddGroup(group domain.URLGroup) (domain.URLGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := group.Clone()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	for i := range g.Profiles {
		if g.Profiles[i].ID == "" {
			g.Profiles[i].ID = uuid.NewString()
		}
	}
	normalizeGroup(&g)

	s.groups = append(domain.CloneGroups(s.groups), g)
	if err := s.saveGroups(); err != nil {
		return domain.URLGroup{}, err
	}
	s.logger.Info("group added", zap.String("group", g.Name))
	return g, nil
}

// UpdateGroup replaces an existing group keyed by id.
func (s *Store) UpdateGroup(group domain.URLGroup) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(group.ID)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	g := group.Clone()
	normalizeGroup(&g)
	groups := domain.CloneGroups(s.groups)
	groups[idx] = g
	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// DeleteGroup removes a group by id. Built-in groups are never
// permanently deleted: deleting one disables it instead, and the
// seed step restores missing built-ins on next initialization.
func (s *Store) DeleteGroup(id string) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	groups := domain.CloneGroups(s.groups)
	if groups[idx].IsBuiltIn {
		groups[idx].IsEnabled = false
		s.groups = groups
		s.logger.Info("built-in group disabled instead of deleted",
			zap.String("group", groups[idx].Name))
	} else {
		s.groups = append(groups[:idx], groups[idx+1:]...)
	}
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// SetGroupEnabled toggles a group.
func (s *Store) SetGroupEnabled(id string, enabled bool) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	groups := domain.CloneGroups(s.groups)
	groups[idx].IsEnabled = enabled
	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// MoveGroup moves a group to a new position in the stored sequence.
func (s *Store) MoveGroup(id string, index int) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(id)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	groups := domain.CloneGroups(s.groups)
	moved := groups[idx]
	groups = append(groups[:idx], groups[idx+1:]...)
	index = clamp(index, 0, len(groups))
	groups = append(groups[:index], append([]domain.URLGroup{moved}, groups[index:]...)...)
	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// AddProfileToGroup appends a profile to a group's candidate list.
// An identical (browser path, profile path) pair already present in
// that group reports StatusDuplicateEntry and changes nothing.
func (s *Store) AddProfileToGroup(groupID string, profile domain.RuleProfile) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(groupID)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	groups := domain.CloneGroups(s.groups)
	g := &groups[idx]
	for _, existing := range g.Profiles {
		if existing.SamePaths(profile) {
			return domain.StatusDuplicateEntry, nil
		}
	}

	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.DisplayOrder = len(g.Profiles)
	g.Profiles = append(g.Profiles, profile)
	normalizeGroup(g)

	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// RemoveProfileFromGroup removes one profile and re-packs the
// remaining display orders into a dense 0..n-1 sequence. Removing the
// last profile leaves the group in place with an empty candidate
// list.
func (s *Store) RemoveProfileFromGroup(groupID, profileID string) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findGroup(groupID)
	if idx < 0 {
		return domain.StatusNotFound, nil
	}

	groups := domain.CloneGroups(s.groups)
	g := &groups[idx]
	pos := -1
	for i, p := range g.Profiles {
		if p.ID == profileID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return domain.StatusNotFound, nil
	}

	g.Profiles = append(g.Profiles[:pos], g.Profiles[pos+1:]...)
	normalizeGroup(g)

	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, err
	}
	return domain.StatusOK, nil
}

// MovePatternToGroup moves a rule's pattern into a group. The two
// steps are deliberately not transactional: the pattern is added to
// the destination first, and the source rule is removed only after
// that succeeded. A partially completed move (pattern in both places)
// is a valid, recoverable state resolved by store order.
func (s *Store) MovePatternToGroup(ruleID, groupID string) (domain.MutationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ruleIdx := s.findRule(ruleID)
	if ruleIdx < 0 {
		return domain.StatusNotFound, nil
	}
	groupIdx := s.findGroup(groupID)
	if groupIdx < 0 {
		return domain.StatusNotFound, nil
	}
	pattern := s.rules[ruleIdx].Pattern

	groups := domain.CloneGroups(s.groups)
	g := &groups[groupIdx]
	if !containsString(g.URLPatterns, pattern) {
		g.URLPatterns = append(g.URLPatterns, pattern)
	}
	s.groups = groups
	if err := s.saveGroups(); err != nil {
		return domain.StatusOK, fmt.Errorf("failed to add pattern to group: %w", err)
	}

	if status, err := s.deleteRuleLocked(ruleID); err != nil {
		// Pattern landed in the group but the rule survived. Both
		// entries now match; store order decides. Recoverable.
		s.logger.Warn("pattern added to group but source rule not removed",
			zap.String("pattern", pattern),
			zap.String("group", g.Name),
			zap.Error(err))
		return status, err
	}
	return domain.StatusOK, nil
}

func (s *Store) findRule(id string) int {
	for i, r := range s.rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findGroup(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveRules() error {
	return s.persister.SaveRules(domain.CloneRules(s.rules))
}

func (s *Store) saveGroups() error {
	return s.persister.SaveGroups(domain.CloneGroups(s.groups))
}

// normalizeGroup restores the group's structural invariants: profiles
// ordered and re-packed to a dense 0..n-1 display order, and the
// legacy single-profile mirror fields synced to Profiles[0].
func normalizeGroup(g *domain.URLGroup) {
	sort.SliceStable(g.Profiles, func(i, j int) bool {
		return g.Profiles[i].DisplayOrder < g.Profiles[j].DisplayOrder
	})
	for i := range g.Profiles {
		g.Profiles[i].DisplayOrder = i
	}

	if len(g.Profiles) == 0 {
		g.DefaultBrowserName = ""
		g.DefaultBrowserPath = ""
		g.DefaultProfileName = ""
		g.DefaultProfilePath = ""
		g.DefaultProfileArguments = ""
		return
	}
	first := g.Profiles[0]
	g.DefaultBrowserName = first.BrowserName
	g.DefaultBrowserPath = first.BrowserExecutablePath
	g.DefaultProfileName = first.ProfileName
	g.DefaultProfilePath = first.ProfilePath
	g.DefaultProfileArguments = first.ProfileArguments
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
