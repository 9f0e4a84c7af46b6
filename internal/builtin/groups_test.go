package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urlpick/urlpick/internal/match"
)

func TestSeeded_StableIDs(t *testing.T) {
	seeds := Seeded()
	require.NotEmpty(t, seeds)

	seen := map[string]bool{}
	for _, g := range seeds {
		assert.NotEmpty(t, g.ID)
		assert.False(t, seen[g.ID], "built-in ids must be unique")
		seen[g.ID] = true
		assert.True(t, g.IsBuiltIn)
		assert.NotEmpty(t, g.URLPatterns)
	}
	assert.True(t, seen[Microsoft365GroupID])
}

func TestMicrosoft365_PatternsCoverTheSuite(t *testing.T) {
	var m365 []string
	for _, g := range Seeded() {
		if g.ID == Microsoft365GroupID {
			m365 = g.URLPatterns
		}
	}
	require.NotEmpty(t, m365)

	urls := []string{
		"https://login.microsoftonline.com/common/oauth2/authorize",
		"https://www.office.com/launch/word",
		"https://contoso.sharepoint.com/sites/finance",
		"https://teams.microsoft.com/v2/",
		"https://outlook.office.com/mail/",
	}
	for _, url := range urls {
		hit := false
		for _, pattern := range m365 {
			if match.Matches(pattern, url) {
				hit = true
				break
			}
		}
		assert.True(t, hit, "no pattern matched %s", url)
	}
}
