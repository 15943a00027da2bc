package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mpfm/model"
)

// fileSidecarStore keeps one <title>.json record next to each track file.
type fileSidecarStore struct {
	dir string
}

// NewFileSidecarStore creates a store writing JSON sidecar files into dir.
// The directory is created if it does not exist.
func NewFileSidecarStore(dir string) (SidecarStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sidecar directory %s: %w", dir, err)
	}
	return &fileSidecarStore{dir: dir}, nil
}

func (s *fileSidecarStore) path(title string) string {
	return filepath.Join(s.dir, title+".json")
}

func (s *fileSidecarStore) Load(title string) (*model.TrackRecord, error) {
	data, err := os.ReadFile(s.path(title))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
		}
		return nil, fmt.Errorf("failed to read sidecar for %s: %w", title, err)
	}

	rec := &model.TrackRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode sidecar for %s: %w", title, err)
	}
	return rec, nil
}

func (s *fileSidecarStore) Save(rec *model.TrackRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode sidecar for %s: %w", rec.Title, err)
	}
	if err := os.WriteFile(s.path(rec.Title), data, 0644); err != nil {
		return fmt.Errorf("failed to write sidecar for %s: %w", rec.Title, err)
	}
	return nil
}
