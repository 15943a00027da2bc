package watcher

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	w := &Watcher{exts: []string{".mid"}}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "new track",
			event: fsnotify.Event{Name: "/tracks/new.mid", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "uppercase extension",
			event: fsnotify.Event{Name: "/tracks/NEW.MID", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "removed track",
			event: fsnotify.Event{Name: "/tracks/old.mid", Op: fsnotify.Remove},
			want:  true,
		},
		{
			name:  "unrelated file",
			event: fsnotify.Event{Name: "/tracks/cover.jpg", Op: fsnotify.Create},
			want:  false,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: "/tracks/new.mid", Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}
