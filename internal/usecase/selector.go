package usecase

import (
	"sort"

	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/domain"
)

// Selector turns a match into a concrete launch plan or a picker
// request. It is pure over its input: repeated calls with the same
// match yield the same decision and mutate nothing.
type Selector struct {
	logger *zap.Logger
}

// NewSelector creates a selector.
func NewSelector(logger *zap.Logger) *Selector {
	return &Selector{logger: logger}
}

// Select applies the profile-selection policy.
//
// A rule match launches its one denormalized profile. A group match
// launches Profiles[0] unless the group both holds more than one
// profile and asks for a picker; a group with no profiles yields no
// plan and the caller falls back to the default browser.
func (s *Selector) Select(m *domain.Match) domain.Decision {
	if m == nil {
		return domain.Decision{Kind: domain.DecisionNone}
	}

	if m.Source == domain.SourceRule {
		profile := m.Rule.Profile
		return domain.Decision{Kind: domain.DecisionLaunch, Plan: &profile}
	}

	candidates := append([]domain.RuleProfile(nil), m.Profiles...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DisplayOrder < candidates[j].DisplayOrder
	})

	switch {
	case len(candidates) == 0:
		s.logger.Debug("matched group has no profiles, no launch plan",
			zap.String("group", groupName(m)))
		return domain.Decision{Kind: domain.DecisionNone}

	case len(candidates) == 1 || m.Behavior != domain.ShowProfilePicker:
		profile := candidates[0]
		return domain.Decision{Kind: domain.DecisionLaunch, Plan: &profile}

	default:
		return domain.Decision{Kind: domain.DecisionPicker, Candidates: candidates}
	}
}

func groupName(m *domain.Match) string {
	if m.Group == nil {
		return ""
	}
	return m.Group.Name
}
