// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import "time"

// BrowserType identifies the browser family a profile belongs to.
// The family decides how profile launch arguments are built.
type BrowserType string

const (
	BrowserChromium BrowserType = "chromium"
	BrowserFirefox  BrowserType = "firefox"
	BrowserEdge     BrowserType = "edge"
	BrowserOther    BrowserType = "other"
)

// GroupBehavior controls what happens when a group with multiple
// profiles matches a URL.
type GroupBehavior string

const (
	// UseDefault launches the group's first profile without asking.
	UseDefault GroupBehavior = "UseDefault"
	// ShowProfilePicker defers the choice to an interactive picker.
	// Only meaningful with more than one profile; degrades to the
	// single profile (or no launch) otherwise.
	ShowProfilePicker GroupBehavior = "ShowProfilePicker"
)

// RuleProfile is one browser+profile binding.
type RuleProfile struct {
	ID                    string      `json:"id"`
	BrowserName           string      `json:"browserName"`
	BrowserExecutablePath string      `json:"browserExecutablePath"`
	BrowserType           BrowserType `json:"browserType"`
	ProfileName           string      `json:"profileName"`
	ProfilePath           string      `json:"profilePath"`
	ProfileArguments      string      `json:"profileArguments"`
	DisplayOrder          int         `json:"displayOrder"`
	CustomDisplayName     string      `json:"customDisplayName,omitempty"`
}

// SamePaths reports whether two profiles point at the same browser
// executable and profile directory. Duplicate detection uses exact
// path equality, never display names.
func (p RuleProfile) SamePaths(other RuleProfile) bool {
	return p.BrowserExecutablePath == other.BrowserExecutablePath &&
		p.ProfilePath == other.ProfilePath
}

// URLRule maps one URL pattern to one browser profile.
// The profile is an owned value copy, not a reference: a rule stays
// valid and displayable even after the originating browser is
// uninstalled.
type URLRule struct {
	ID        string      `json:"id"`
	Pattern   string      `json:"pattern"`
	IsEnabled bool        `json:"isEnabled"`
	Profile   RuleProfile `json:"profile"`
}

// URLGroup maps one or more URL patterns to one or more candidate
// profiles as a named unit.
type URLGroup struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	URLPatterns []string      `json:"urlPatterns"`
	Profiles    []RuleProfile `json:"profiles"`
	Behavior    GroupBehavior `json:"behavior"`
	IsEnabled   bool          `json:"isEnabled"`
	IsBuiltIn   bool          `json:"isBuiltIn,omitempty"`

	// Legacy single-profile fields mirror Profiles[0] for
	// backward-compatible readers. Kept in sync on every mutation,
	// cleared when Profiles is empty.
	DefaultBrowserName      string `json:"defaultBrowserName,omitempty"`
	DefaultBrowserPath      string `json:"defaultBrowserPath,omitempty"`
	DefaultProfileName      string `json:"defaultProfileName,omitempty"`
	DefaultProfilePath      string `json:"defaultProfilePath,omitempty"`
	DefaultProfileArguments string `json:"defaultProfileArguments,omitempty"`
}

// Clone returns a deep copy of the group.
func (g URLGroup) Clone() URLGroup {
	out := g
	out.URLPatterns = append([]string(nil), g.URLPatterns...)
	out.Profiles = append([]RuleProfile(nil), g.Profiles...)
	return out
}

// CloneRules deep-copies a rule collection. Snapshots handed to
// readers must never alias store-owned slices.
func CloneRules(rules []URLRule) []URLRule {
	if rules == nil {
		return nil
	}
	return append([]URLRule(nil), rules...)
}

// CloneGroups deep-copies a group collection.
func CloneGroups(groups []URLGroup) []URLGroup {
	if groups == nil {
		return nil
	}
	out := make([]URLGroup, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

// MatchSource identifies which kind of entity won resolution.
type MatchSource string

const (
	SourceGroup MatchSource = "group"
	SourceRule  MatchSource = "rule"
)

// Match is the outcome of resolving a URL against the configured
// collections. Exactly one of Group/Rule is set, per Source.
type Match struct {
	Source   MatchSource
	Group    *URLGroup
	Rule     *URLRule
	Profiles []RuleProfile
	Behavior GroupBehavior
}

// DecisionKind classifies the profile selector's verdict.
type DecisionKind string

const (
	// DecisionLaunch means a single concrete profile was chosen.
	DecisionLaunch DecisionKind = "launch"
	// DecisionPicker means the caller must present an interactive
	// choice between Candidates.
	DecisionPicker DecisionKind = "picker"
	// DecisionNone means the match yields nothing to launch; the
	// caller falls back to the system default browser.
	DecisionNone DecisionKind = "none"
)

// Decision is the profile selector's output for one match.
type Decision struct {
	Kind       DecisionKind
	Plan       *RuleProfile  // set when Kind == DecisionLaunch
	Candidates []RuleProfile // set when Kind == DecisionPicker, ordered by DisplayOrder
}

// MutationStatus distinguishes no-op store mutations from real ones.
// Conflicts are reported, never raised.
type MutationStatus int

const (
	StatusOK MutationStatus = iota
	StatusDuplicateEntry
	StatusNotFound
)

func (s MutationStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDuplicateEntry:
		return "duplicate entry"
	case StatusNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// LaunchRecord is one entry in the launch history.
type LaunchRecord struct {
	ID          int64
	URL         string
	SourceKind  MatchSource
	SourceID    string
	BrowserPath string
	ProfilePath string
	LaunchedAt  time.Time
}
