package infra

import (
	"github.com/atotto/clipboard"

	"github.com/urlpick/urlpick/internal/domain"
)

// SystemClipboard implements domain.ClipboardReader with the OS
// clipboard.
type SystemClipboard struct{}

// NewSystemClipboard creates a clipboard reader.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Read returns the current clipboard text.
func (c *SystemClipboard) Read() (string, error) {
	return clipboard.ReadAll()
}

// Ensure SystemClipboard implements domain.ClipboardReader.
var _ domain.ClipboardReader = (*SystemClipboard)(nil)
