package domain

import "context"

// CollectionPersister loads and saves the two persisted collections.
// Absence of a file is an empty collection, not an error.
// Implementation: JSON files under the application data directory.
type CollectionPersister interface {
	// LoadRules returns the persisted rule collection.
	LoadRules() ([]URLRule, error)

	// SaveRules replaces the persisted rule collection atomically.
	SaveRules(rules []URLRule) error

	// LoadGroups returns the persisted group collection.
	LoadGroups() ([]URLGroup, error)

	// SaveGroups replaces the persisted group collection atomically.
	SaveGroups(groups []URLGroup) error
}

// BrowserEnumerator discovers installed browsers and their profiles.
// Consumed only while the user is building new rules, never by the
// resolution path.
type BrowserEnumerator interface {
	// Enumerate returns candidate profiles for every installed
	// browser it can find.
	Enumerate() ([]RuleProfile, error)
}

// Launcher spawns a browser process for a chosen profile and URL.
type Launcher interface {
	// Launch starts the profile's browser with the URL appended to
	// its argument list. The process is detached; Launch does not
	// wait for it.
	Launch(ctx context.Context, profile RuleProfile, url string) error
}

// ClipboardReader reads the current clipboard text.
type ClipboardReader interface {
	Read() (string, error)
}

// HistoryRecorder persists launch and match history.
// Recording failures must never block routing.
type HistoryRecorder interface {
	// Record appends one entry.
	Record(rec LaunchRecord) error

	// Recent returns up to limit entries, newest first.
	Recent(limit int) ([]LaunchRecord, error)

	// Close releases the underlying database connection.
	Close() error
}

// KeyProvider abstracts the source of the history database key.
type KeyProvider interface {
	// GetKey returns the encryption key bytes.
	GetKey() ([]byte, error)

	// StoreKey persists a new encryption key.
	StoreKey(key []byte) error

	// KeyExists checks if a key has been generated.
	KeyExists() bool
}
