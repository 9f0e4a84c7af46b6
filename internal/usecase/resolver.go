// Package usecase contains application business logic.
package usecase

import (
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/match"
)

// Resolver decides which configured entity, if any, governs a URL.
//
// Precedence is a user-facing contract, not an implementation detail:
// enabled groups are tested before any individual rule, and within
// each collection the first entry in store order wins. Users
// prioritize by reordering; patterns are never scored by specificity.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve matches url against the snapshot collections and returns
// the winning match, or nil when nothing matches. It never mutates
// its inputs and is safe to call concurrently with store edits, as
// long as callers pass snapshot copies.
func (r *Resolver) Resolve(url string, groups []domain.URLGroup, rules []domain.URLRule) *domain.Match {
	for i := range groups {
		g := &groups[i]
		if !g.IsEnabled {
			continue
		}
		for _, pattern := range g.URLPatterns {
			if !match.Matches(pattern, url) {
				continue
			}
			r.logger.Debug("url matched group",
				zap.String("url", url),
				zap.String("group", g.Name),
				zap.String("pattern", pattern))
			won := g.Clone()
			return &domain.Match{
				Source:   domain.SourceGroup,
				Group:    &won,
				Profiles: won.Profiles,
				Behavior: won.Behavior,
			}
		}
	}

	for i := range rules {
		rule := rules[i]
		if !rule.IsEnabled {
			continue
		}
		if !match.Matches(rule.Pattern, url) {
			continue
		}
		r.logger.Debug("url matched rule",
			zap.String("url", url),
			zap.String("pattern", rule.Pattern),
			zap.String("browser", rule.Profile.BrowserName))
		return &domain.Match{
			Source:   domain.SourceRule,
			Rule:     &rule,
			Profiles: []domain.RuleProfile{rule.Profile},
			Behavior: domain.UseDefault,
		}
	}

	r.logger.Debug("no match for url", zap.String("url", url))
	return nil
}
