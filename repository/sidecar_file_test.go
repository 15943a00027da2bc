package repository

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mpfm/model"
)

func TestFileSidecarRoundTrip(t *testing.T) {
	store, err := NewFileSidecarStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	rec := &model.TrackRecord{
		Title:    "song.mid",
		Date:     "2023-01-5",
		Time:     "6:15 pm",
		Length:   93.75,
		BPM:      120,
		UserBPM:  128,
		Location: "song.mid",
		Stars:    3,
		Playing:  1,
		Disk:     "1",
	}

	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load("song.mid")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestFileSidecarLoadMissing(t *testing.T) {
	store, err := NewFileSidecarStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load("absent.mid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestFileSidecarLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSidecarStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.mid.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = store.Load("bad.mid")
	if err == nil {
		t.Fatal("Load succeeded on corrupt sidecar")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("corrupt sidecar reported as not found")
	}
}

func TestFileSidecarLegacyKeys(t *testing.T) {
	// Records written by the original sidecar format use these exact keys.
	dir := t.TempDir()
	store, err := NewFileSidecarStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	legacy := `{"title": "old.mid", "date": "2019-11-2", "time": "6:15 pm",
	            "length": 42.5, "bpm": 100, "userBPM": 110,
	            "location": "old.mid", "stars": 5, "playing": 0, "disk": "1"}`
	if err := os.WriteFile(filepath.Join(dir, "old.mid.json"), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	rec, err := store.Load("old.mid")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Date != "2019-11-2" || rec.UserBPM != 110 || rec.Stars != 5 {
		t.Errorf("legacy record decoded as %+v", rec)
	}
}
