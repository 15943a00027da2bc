package library

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"mpfm/logger"
)

var (
	// ErrCursorOutOfRange indicates an index outside the track sequence.
	ErrCursorOutOfRange = errors.New("cursor index out of range")

	// ErrEmptyPlaylist indicates a cursor operation on a playlist with no
	// tracks.
	ErrEmptyPlaylist = errors.New("playlist has no tracks")
)

// unsetCursor is the sentinel for "no current track chosen yet"; it resolves
// to the first track on first use.
const unsetCursor = -1

// Playlist owns an ordered track collection scanned from one directory plus
// the current-track cursor. The mutex makes the read-then-write view
// operations safe when the playlist backs a server.
type Playlist struct {
	mu        sync.Mutex
	dir       string
	exts      []string
	deps      Deps
	autoWrite bool
	songs     []*Song
	current   int
}

// NewPlaylist scans dir and returns the resulting playlist. exts is the
// recognized set of track file extensions, matched case-insensitively.
func NewPlaylist(dir string, exts []string, deps Deps, autoWrite bool) (*Playlist, error) {
	p := &Playlist{
		dir:       dir,
		exts:      exts,
		deps:      deps,
		autoWrite: autoWrite,
		current:   unsetCursor,
	}
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// Refresh re-scans the playlist directory and replaces the track sequence
// wholesale. Tracks that fail derivation are logged and skipped; a single
// bad file never aborts the scan.
func (p *Playlist) Refresh() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("failed to list playlist directory %s: %w", p.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if p.recognized(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	p.mu.Lock()
	defer p.mu.Unlock()

	songs := make([]*Song, 0, len(names))
	for _, name := range names {
		song, err := NewSong(name, p.dir, p.deps, p.autoWrite)
		if err != nil {
			logger.Warn("track is not readable and will be skipped",
				logger.String("track", name),
				logger.ErrorField(err))
			continue
		}
		songs = append(songs, song)
	}
	p.songs = songs

	// A cursor that no longer fits the new sequence goes back to the
	// sentinel rather than pointing past the end.
	if p.current >= len(p.songs) {
		p.current = unsetCursor
	}

	logger.Info("playlist refreshed",
		logger.String("dir", p.dir),
		logger.Int("tracks", len(p.songs)))
	return nil
}

// recognized reports whether name carries one of the configured track
// extensions.
func (p *Playlist) recognized(name string) bool {
	for _, ext := range p.exts {
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// resolveCursor commits the unset sentinel to the first track and returns
// the cursor. Idempotent; every cursor dependent goes through here. Caller
// must hold the lock.
func (p *Playlist) resolveCursor() int {
	if p.current == unsetCursor && len(p.songs) > 0 {
		p.current = 0
	}
	return p.current
}

// CurrentSong returns the track at the resolved cursor.
func (p *Playlist) CurrentSong() (*Song, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.resolveCursor()
	if idx == unsetCursor {
		return nil, ErrEmptyPlaylist
	}
	return p.songs[idx], nil
}

// CurrentIndex resolves and returns the cursor. Returns the sentinel -1 only
// when the playlist is empty.
func (p *Playlist) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolveCursor()
}

// SetCurrentIndex moves the cursor. Out-of-range indexes are rejected with
// ErrCursorOutOfRange instead of faulting on the next dereference.
func (p *Playlist) SetCurrentIndex(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.songs) {
		return fmt.Errorf("%w: %d with %d tracks", ErrCursorOutOfRange, i, len(p.songs))
	}
	p.current = i
	return nil
}

// SetCurrentByTitle moves the cursor to the first track with the given
// title. A miss leaves the cursor unchanged and returns false.
func (p *Playlist) SetCurrentByTitle(title string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, song := range p.songs {
		if song.Title() == title {
			p.current = i
			return true
		}
	}
	return false
}

// FindByTitle returns the first track with the given title.
func (p *Playlist) FindByTitle(title string) (*Song, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, song := range p.songs {
		if song.Title() == title {
			return song, true
		}
	}
	return nil, false
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.songs)
}

// syncPlaying clears the playing flag on every track and sets it on the
// cursor-resolved one, keeping the flag a singleton across the collection.
// Caller must hold the lock.
func (p *Playlist) syncPlaying() {
	idx := p.resolveCursor()
	for _, song := range p.songs {
		song.SetPlaying(0)
	}
	if idx != unsetCursor {
		p.songs[idx].SetPlaying(1)
	}
}

// Songs returns the live track sequence after normalizing the playing flag.
// Mutations through the returned slice are visible to the playlist.
func (p *Playlist) Songs() []*Song {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.syncPlaying()
	return p.songs
}

// AsMaps returns one snapshot key/value mapping per track after normalizing
// the playing flag.
func (p *Playlist) AsMaps() []map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.syncPlaying()
	out := make([]map[string]interface{}, 0, len(p.songs))
	for _, song := range p.songs {
		out = append(out, song.ToMap())
	}
	return out
}

// AsLists returns one snapshot fixed-order field list per track after
// normalizing the playing flag.
func (p *Playlist) AsLists() [][]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.syncPlaying()
	out := make([][]interface{}, 0, len(p.songs))
	for _, song := range p.songs {
		out = append(out, song.ToList())
	}
	return out
}
