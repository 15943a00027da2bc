package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"mpfm/core/analyzer"
	"mpfm/core/library"
	"mpfm/model"
	"mpfm/repository"
)

type memStore struct {
	recs map[string]*model.TrackRecord
}

func (m *memStore) Load(title string) (*model.TrackRecord, error) {
	if rec, ok := m.recs[title]; ok {
		return rec.Clone(), nil
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) Save(rec *model.TrackRecord) error {
	m.recs[rec.Title] = rec.Clone()
	return nil
}

type fixedAnalyzer struct{ bpm int }

func (f fixedAnalyzer) Analyze(path string) (*analyzer.Report, error) {
	return &analyzer.Report{BPM: f.bpm}, nil
}

type fixedProber struct{ seconds float64 }

func (f fixedProber) Probe(path string) (float64, int64, error) {
	return f.seconds, 512, nil
}

func newTestRouter(t *testing.T, names ...string) *mux.Router {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("dummy"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	deps := library.Deps{
		Store:    &memStore{recs: map[string]*model.TrackRecord{}},
		Analyzer: fixedAnalyzer{bpm: 110},
		Prober:   fixedProber{seconds: 45},
	}
	playlist, err := library.NewPlaylist(dir, []string{".mid"}, deps, true)
	if err != nil {
		t.Fatalf("NewPlaylist failed: %v", err)
	}

	h := NewAPIHandler(playlist)
	router := mux.NewRouter()
	router.HandleFunc("/api/playlist", h.GetPlaylist).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/list", h.GetPlaylistLists).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/current", h.GetCurrent).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/current", h.SetCurrent).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{title}/stars", h.SetStars).Methods(http.MethodPut)
	return router
}

func doRequest(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetPlaylist(t *testing.T) {
	router := newTestRouter(t, "a.mid", "b.mid")

	rec := doRequest(router, http.MethodGet, "/api/playlist", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		CurrentIndex int                      `json:"currentIndex"`
		Tracks       []map[string]interface{} `json:"tracks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(resp.Tracks))
	}
	if resp.CurrentIndex != 0 {
		t.Errorf("currentIndex = %d, want 0", resp.CurrentIndex)
	}
	if resp.Tracks[0]["playing"].(float64) != 1 || resp.Tracks[1]["playing"].(float64) != 0 {
		t.Errorf("playing flags = %v,%v, want 1,0",
			resp.Tracks[0]["playing"], resp.Tracks[1]["playing"])
	}
}

func TestSetCurrentByTitleAndMiss(t *testing.T) {
	router := newTestRouter(t, "a.mid", "b.mid")

	rec := doRequest(router, http.MethodPut, "/api/playlist/current", `{"title":"b.mid"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/api/playlist/current", `{"title":"ghost.mid"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for absent title, want 404", rec.Code)
	}
}

func TestSetCurrentIndexOutOfRange(t *testing.T) {
	router := newTestRouter(t, "a.mid")

	rec := doRequest(router, http.MethodPut, "/api/playlist/current", `{"index":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for out-of-range index, want 400", rec.Code)
	}
}

func TestSetStarsValidation(t *testing.T) {
	router := newTestRouter(t, "a.mid")

	rec := doRequest(router, http.MethodPut, "/api/tracks/a.mid/stars", `{"stars":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/api/tracks/a.mid/stars", `{"stars":9}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for out-of-range stars, want 400", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/api/tracks/ghost.mid/stars", `{"stars":3}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for absent track, want 404", rec.Code)
	}
}
