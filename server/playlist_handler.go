package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"mpfm/core/library"
	"mpfm/logger"
)

// APIHandler serves the playlist API.
type APIHandler struct {
	playlist *library.Playlist
}

// NewAPIHandler creates the handler for a playlist instance.
func NewAPIHandler(playlist *library.Playlist) *APIHandler {
	return &APIHandler{playlist: playlist}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// GetPlaylist returns the track collection as key/value mappings.
func (h *APIHandler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentIndex": h.playlist.CurrentIndex(),
		"tracks":       h.playlist.AsMaps(),
	})
}

// GetPlaylistLists returns the track collection as fixed-order field lists.
func (h *APIHandler) GetPlaylistLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentIndex": h.playlist.CurrentIndex(),
		"tracks":       h.playlist.AsLists(),
	})
}

// RefreshPlaylist re-scans the playlist directory.
func (h *APIHandler) RefreshPlaylist(w http.ResponseWriter, r *http.Request) {
	if err := h.playlist.Refresh(); err != nil {
		logger.Error("playlist refresh failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": h.playlist.Len()})
}

// GetCurrent returns the cursor-resolved current track.
func (h *APIHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	song, err := h.playlist.CurrentSong()
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentIndex": h.playlist.CurrentIndex(),
		"track":        song.ToMap(),
	})
}

type setCurrentRequest struct {
	Index *int    `json:"index,omitempty"`
	Title *string `json:"title,omitempty"`
}

// SetCurrent moves the cursor by index or by title.
func (h *APIHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	var req setCurrentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.Index != nil:
		if err := h.playlist.SetCurrentIndex(*req.Index); err != nil {
			if errors.Is(err, library.ErrCursorOutOfRange) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case req.Title != nil:
		if !h.playlist.SetCurrentByTitle(*req.Title) {
			writeError(w, http.StatusNotFound, "no track with that title")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "index or title required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"currentIndex": h.playlist.CurrentIndex()})
}

type setStarsRequest struct {
	Stars int `json:"stars"`
}

// SetStars updates a track's rating.
func (h *APIHandler) SetStars(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]
	song, ok := h.playlist.FindByTitle(title)
	if !ok {
		writeError(w, http.StatusNotFound, "no track with that title")
		return
	}

	var req setStarsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := song.SetStars(req.Stars); err != nil {
		if errors.Is(err, library.ErrStarsOutOfRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, song.ToMap())
}

type setBPMRequest struct {
	UserBPM int `json:"userBPM"`
}

// SetUserBPM updates a track's user tempo override.
func (h *APIHandler) SetUserBPM(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]
	song, ok := h.playlist.FindByTitle(title)
	if !ok {
		writeError(w, http.StatusNotFound, "no track with that title")
		return
	}

	var req setBPMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := song.SetUserBPM(req.UserBPM); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, song.ToMap())
}
