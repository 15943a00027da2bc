package repository

import (
	"errors"

	"mpfm/model"
)

// ErrNotFound is returned by Load when no sidecar record exists for a title.
var ErrNotFound = errors.New("sidecar record not found")

// SidecarStore persists one TrackRecord per track file, keyed by the track's
// title (its base file name). Implementations: JSON file sidecar, MySQL,
// Redis.
type SidecarStore interface {
	Load(title string) (*model.TrackRecord, error)
	Save(rec *model.TrackRecord) error
}
