package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.PlaylistDir != "playlists" {
		t.Errorf("PlaylistDir = %q, want playlists", cfg.PlaylistDir)
	}
	if cfg.SidecarDir != cfg.PlaylistDir {
		t.Errorf("SidecarDir = %q, want to default to the playlist dir", cfg.SidecarDir)
	}
	if cfg.StoreBackend != StoreFile {
		t.Errorf("StoreBackend = %q, want file", cfg.StoreBackend)
	}
	if !cfg.AutoWrite {
		t.Error("AutoWrite = false, want write-through on by default")
	}
	if len(cfg.TrackExts) != 1 || cfg.TrackExts[0] != ".mid" {
		t.Errorf("TrackExts = %v, want [.mid]", cfg.TrackExts)
	}
}

func TestLoadTrackExtensions(t *testing.T) {
	t.Setenv("TRACK_EXTENSIONS", ".mid, .midi ,.kar")

	cfg := Load()
	want := []string{".mid", ".midi", ".kar"}
	if len(cfg.TrackExts) != len(want) {
		t.Fatalf("TrackExts = %v, want %v", cfg.TrackExts, want)
	}
	for i := range want {
		if cfg.TrackExts[i] != want[i] {
			t.Errorf("TrackExts[%d] = %q, want %q", i, cfg.TrackExts[i], want[i])
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PLAYLIST_DIR", "/srv/midi")
	t.Setenv("SIDECAR_DIR", "/srv/sidecars")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("AUTO_WRITE", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.PlaylistDir != "/srv/midi" {
		t.Errorf("PlaylistDir = %q", cfg.PlaylistDir)
	}
	if cfg.SidecarDir != "/srv/sidecars" {
		t.Errorf("SidecarDir = %q", cfg.SidecarDir)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("StoreBackend = %q, want redis", cfg.StoreBackend)
	}
	if cfg.AutoWrite {
		t.Error("AutoWrite = true, want false")
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
}
