package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches_Wildcards(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{
			name:    "wildcard host and path",
			pattern: "*.example.com/*",
			url:     "https://mail.example.com/inbox",
			want:    true,
		},
		{
			name:    "bare pattern requires exact match",
			pattern: "example.com",
			url:     "https://example.com/x",
			want:    false,
		},
		{
			name:    "bare pattern exact hit",
			pattern: "example.com",
			url:     "example.com",
			want:    true,
		},
		{
			name:    "surrounding wildcards match anywhere",
			pattern: "*example.com*",
			url:     "https://example.com/x",
			want:    true,
		},
		{
			name:    "leading wildcard only anchors the tail",
			pattern: "*.google.com/*",
			url:     "https://mail.google.com/mail/u/0",
			want:    true,
		},
		{
			name:    "tail anchor rejects trailing content",
			pattern: "*example.com",
			url:     "https://example.com/path",
			want:    false,
		},
		{
			name:    "star matches zero characters",
			pattern: "https://example.com*",
			url:     "https://example.com",
			want:    true,
		},
		{
			name:    "multiple stars",
			pattern: "https://*.sharepoint.com/sites/*",
			url:     "https://contoso.sharepoint.com/sites/finance",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.pattern, tt.url))
		})
	}
}

func TestMatches_CaseInsensitive(t *testing.T) {
	assert.True(t, Matches("*EXAMPLE.com*", "https://example.COM/x"))
	assert.True(t, Matches("HTTPS://example.com", "https://EXAMPLE.com"))
}

func TestMatches_EmptyAndWhitespacePatterns(t *testing.T) {
	assert.False(t, Matches("", "https://example.com"))
	assert.False(t, Matches("   ", "https://example.com"))
	assert.False(t, Matches("\t\n", ""))
}

func TestMatches_MetacharactersAreLiteral(t *testing.T) {
	// Regex metacharacters in patterns must not gain meaning.
	assert.True(t, Matches("https://example.com/a+b?c=[1]", "https://example.com/a+b?c=[1]"))
	assert.False(t, Matches("example.c.m", "example.cxm"))
	assert.False(t, Matches("(unclosed", "anything"))
	assert.True(t, Matches("(unclosed", "(UNCLOSED"))
}

func TestMatches_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.True(t, Matches("*.example.com/*", "https://mail.example.com/inbox"))
		assert.False(t, Matches("example.com", "https://example.com/x"))
	}
}
