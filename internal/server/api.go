package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ytget/yt-desktop/internal/bridge"
)

// FetchInfoRequest is the body of fetch_info
type FetchInfoRequest struct {
	URL string `json:"url"`
}

// DownloadFormatRequest is the body of download_format
type DownloadFormatRequest struct {
	FormatID string `json:"format_id"`
	Type     string `json:"type"`
}

// DownloadPresetRequest is the body of download_preset
type DownloadPresetRequest struct {
	MaxHeight int `json:"max_height"`
}

// DownloadSubtitleRequest is the body of download_subtitle
type DownloadSubtitleRequest struct {
	Lang   string `json:"lang"`
	Format string `json:"fmt"`
	IsAuto bool   `json:"is_auto"`
}

// SetDownloadDirRequest is the body of set_download_dir
type SetDownloadDirRequest struct {
	Path string `json:"path"`
}

// GetHistoryRequest is the body of get_history
type GetHistoryRequest struct {
	Limit int `json:"limit"`
}

// ErrorResponse represents an API error outside the envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// --- Handlers ---

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.config.Version,
		"clients": s.wsHub.ClientCount(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.GetProgress().Envelope())
}

func (s *Server) handleAppInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.GetAppInfo().Envelope())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err.Error())
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.bridge.GetHistory(r.Context(), limit).Envelope())
}

// handleOperation runs one bridge operation. Operation failures are
// reported in the envelope with status 200; only malformed requests get an
// HTTP error.
func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	op := r.PathValue("op")
	ctx := r.Context()

	var env bridge.Envelope
	switch op {
	case bridge.OpFetchInfo:
		var req FetchInfoRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.FetchInfo(ctx, req.URL).Envelope()

	case bridge.OpDownloadFormat:
		var req DownloadFormatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.DownloadFormat(req.FormatID, req.Type).Envelope()

	case bridge.OpDownloadPreset:
		var req DownloadPresetRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.DownloadPreset(req.MaxHeight).Envelope()

	case bridge.OpDownloadSubtitle:
		var req DownloadSubtitleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.DownloadSubtitle(req.Lang, req.Format, req.IsAuto).Envelope()

	case bridge.OpGetProgress:
		env = s.bridge.GetProgress().Envelope()

	case bridge.OpSelectDirectory:
		env = s.bridge.SelectDirectory(ctx).Envelope()

	case bridge.OpGetDownloadDir:
		env = s.bridge.GetDownloadDir().Envelope()

	case bridge.OpSetDownloadDir:
		var req SetDownloadDirRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.SetDownloadDir(req.Path).Envelope()

	case bridge.OpGetAppInfo:
		env = s.bridge.GetAppInfo().Envelope()

	case bridge.OpGetHistory:
		var req GetHistoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		env = s.bridge.GetHistory(ctx, req.Limit).Envelope()

	default:
		writeJSON(w, http.StatusNotFound, bridge.Envelope{Error: "unknown operation: " + op})
		return
	}

	writeJSON(w, http.StatusOK, env)
}

// decodeBody reads an optional JSON body into dst. An empty body leaves
// dst zeroed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
	return false
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
