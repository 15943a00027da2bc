package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mpfm/core/analyzer"
	"mpfm/logger"
	"mpfm/model"
	"mpfm/repository"
)

var (
	// ErrUnreadableSource indicates a track file could not be read, probed
	// or analyzed. Scans skip such tracks instead of aborting.
	ErrUnreadableSource = errors.New("track source unreadable")

	// ErrStarsOutOfRange indicates a rating outside [0,5] was rejected.
	ErrStarsOutOfRange = errors.New("stars out of range")
)

// Placeholder values carried over from the legacy sidecar format. Neither is
// derived from real data yet.
const (
	placeholderTimeOfDay = "6:15 pm"
	placeholderDisk      = "1"
)

const defaultStars = 4

// Prober supplies container-level facts for a track file.
type Prober interface {
	Probe(path string) (seconds float64, rawBytes int64, err error)
}

// Deps bundles the capabilities a Song needs: where its sidecar record is
// persisted, how tempo is detected and how the container is probed.
type Deps struct {
	Store    repository.SidecarStore
	Analyzer analyzer.Analyzer
	Prober   Prober
}

// Song is one track file plus its derived metadata record. On construction
// it either loads the persisted sidecar record or derives a fresh one from
// the source file.
type Song struct {
	data      *model.TrackRecord
	newData   bool
	autoWrite bool
	store     repository.SidecarStore
}

// NewSong builds the Song for fileName inside dir. A stored sidecar record
// wins over re-derivation; on a store miss the record is derived from the
// file's mtime, the container probe and the analyzer, then persisted when
// write-through is enabled.
func NewSong(fileName, dir string, deps Deps, autoWrite bool) (*Song, error) {
	s := &Song{autoWrite: autoWrite, store: deps.Store}

	rec, err := deps.Store.Load(fileName)
	if err == nil {
		s.data = rec
		return s, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		// A present but undecodable record makes the track unreadable,
		// same as a broken source file.
		return nil, fmt.Errorf("%w: sidecar for %s: %v", ErrUnreadableSource, fileName, err)
	}

	rec, err = derive(fileName, dir, deps)
	if err != nil {
		return nil, err
	}
	s.data = rec
	s.newData = true
	if autoWrite {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// derive builds a fresh record from the source file.
func derive(fileName, dir string, deps Deps) (*model.TrackRecord, error) {
	path := filepath.Join(dir, fileName)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, path, err)
	}

	seconds, rawBytes, err := deps.Prober.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, path, err)
	}

	report, err := deps.Analyzer.Analyze(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, path, err)
	}

	logger.Debug("derived track metadata",
		logger.String("track", fileName),
		logger.Float64("seconds", seconds),
		logger.Int64("rawBytes", rawBytes),
		logger.Int("bpm", report.BPM))

	return &model.TrackRecord{
		Title:    fileName,
		Date:     formatModDate(fi.ModTime()),
		Time:     placeholderTimeOfDay,
		Length:   seconds,
		BPM:      report.BPM,
		UserBPM:  report.BPM,
		Location: fileName,
		Stars:    defaultStars,
		Playing:  0,
		Disk:     placeholderDisk,
	}, nil
}

// monthTable maps ctime-style month names to two-digit numbers. A fixed
// table, not locale-dependent parsing.
var monthTable = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// formatModDate renders a modification time as year-month-day with a
// zero-padded month and an unpadded day, e.g. "2023-01-5".
func formatModDate(t time.Time) string {
	return fmt.Sprintf("%d-%s-%d", t.Year(), monthTable[t.Format("Jan")], t.Day())
}

func (s *Song) persist() error {
	if err := s.store.Save(s.data); err != nil {
		return fmt.Errorf("failed to persist track %s: %w", s.data.Title, err)
	}
	return nil
}

func (s *Song) persistIfAuto() error {
	if !s.autoWrite {
		return nil
	}
	return s.persist()
}

// Title returns the track's title (its base file name).
func (s *Song) Title() string { return s.data.Title }

func (s *Song) SetTitle(title string) error {
	s.data.Title = title
	s.newData = true
	return s.persistIfAuto()
}

// Date returns the derived creation date.
func (s *Song) Date() string { return s.data.Date }

func (s *Song) SetDate(date string) error {
	s.data.Date = date
	s.newData = true
	return s.persistIfAuto()
}

// TimeOfDay returns the time-of-day field (a placeholder value).
func (s *Song) TimeOfDay() string { return s.data.Time }

// Length returns the track's playable length in seconds.
func (s *Song) Length() float64 { return s.data.Length }

// BPM returns the analyzer-detected tempo.
func (s *Song) BPM() int { return s.data.BPM }

// UserBPM returns the user-overridable tempo.
func (s *Song) UserBPM() int { return s.data.UserBPM }

func (s *Song) SetUserBPM(bpm int) error {
	s.data.UserBPM = bpm
	s.newData = true
	return s.persistIfAuto()
}

// Location returns the filename used to re-locate the source file.
func (s *Song) Location() string { return s.data.Location }

// Stars returns the track's rating.
func (s *Song) Stars() int { return s.data.Stars }

// SetStars sets the rating. Values outside [0,5] leave the prior rating
// unchanged and return ErrStarsOutOfRange.
func (s *Song) SetStars(stars int) error {
	if stars < 0 || stars > 5 {
		logger.Warn("rejected out-of-range rating",
			logger.String("track", s.data.Title),
			logger.Int("stars", stars))
		return fmt.Errorf("%w: %d", ErrStarsOutOfRange, stars)
	}
	s.data.Stars = stars
	s.newData = true
	return s.persistIfAuto()
}

// Playing reports the cursor-synced playing flag (1 or 0).
func (s *Song) Playing() int { return s.data.Playing }

// SetPlaying sets the playing flag. Not written through; the flag is
// normalized on every view call and would thrash the store otherwise.
func (s *Song) SetPlaying(playing int) {
	s.data.Playing = playing
	s.newData = true
}

// NewData reports whether the record has unpersisted or freshly derived
// state.
func (s *Song) NewData() bool { return s.newData }

func (s *Song) SetNewData(newData bool) { s.newData = newData }

// Record returns the live underlying record.
func (s *Song) Record() *model.TrackRecord { return s.data }

// ToMap returns a snapshot of the record as a key/value mapping.
func (s *Song) ToMap() map[string]interface{} { return s.data.ToMap() }

// ToList returns a snapshot of the record as a fixed-order field list.
func (s *Song) ToList() []interface{} { return s.data.ToList() }
