package corpus

import "time"

// Document describes a stored submission. The body itself lives in the blob
// store, addressed by StorageKey; metadata is immutable once created.
type Document struct {
	ID          string
	OwnerID     string
	StorageKey  string
	DisplayName string
	CreatedAt   time.Time
}
