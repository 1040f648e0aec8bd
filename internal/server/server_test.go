package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ytget/yt-desktop/internal/bridge"
	"github.com/ytget/yt-desktop/internal/download"
	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

const testURL = "https://youtu.be/abc123"

type fakeEngine struct {
	extractErr error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Extract(ctx context.Context, url string) (*engine.Info, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return &engine.Info{
		ID:    "abc123",
		Title: "Sample",
		Formats: []engine.Format{
			{FormatID: "22", FormatNote: "720p", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 720},
		},
	}, nil
}

func (f *fakeEngine) Download(ctx context.Context, req engine.Request, onEvent func(engine.Event)) (*engine.Outcome, error) {
	return &engine.Outcome{Filename: "out.mp4"}, nil
}

type testServer struct {
	srv   *Server
	store *progress.Store
	eng   *fakeEngine
}

func newTestServer(t *testing.T, cfg Config) testServer {
	t.Helper()
	eng := &fakeEngine{}
	store := progress.NewStore()
	service := download.NewService(eng, store, t.TempDir())
	b := bridge.New(bridge.Options{
		Resolver:  download.NewResolver(eng, store),
		Downloads: service,
		Store:     store,
		App:       bridge.AppInfo{Brand: "yt-desktop", Version: "test", Engine: "fake"},
	})
	srv := New(cfg, b, store)
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		service.Shutdown(ctx)
	})
	return testServer{srv: srv, store: store, eng: eng}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, Config{Version: "1.2.3"})

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "1.2.3" {
		t.Errorf("version = %v, want 1.2.3", body["version"])
	}
}

func TestHandleOperation_FetchInfo(t *testing.T) {
	ts := newTestServer(t, Config{})

	req := httptest.NewRequest("POST", "/api/fetch_info", strings.NewReader(`{"url":"`+testURL+`"}`))
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("success = %v, body %s", body["success"], rec.Body.String())
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data is %T", body["data"])
	}
	if data["title"] != "Sample" {
		t.Errorf("title = %v, want Sample", data["title"])
	}
}

func TestHandleOperation_FailureEnvelope(t *testing.T) {
	ts := newTestServer(t, Config{})
	ts.eng.extractErr = errors.New("Video unavailable")

	req := httptest.NewRequest("POST", "/api/fetch_info", strings.NewReader(`{"url":"`+testURL+`"}`))
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Video unavailable" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestHandleOperation_Errors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown op", "/api/explode", `{}`, http.StatusNotFound},
		{"bad json", "/api/fetch_info", `{"url":`, http.StatusBadRequest},
		{"empty body allowed", "/api/get_progress", ``, http.StatusOK},
		{"download before fetch", "/api/download_preset", `{"max_height":720}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ts.srv.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandleProgress(t *testing.T) {
	ts := newTestServer(t, Config{})
	ts.store.Begin(model.StatusDownloading, 0)
	ts.store.Update(func(ps *model.ProgressState) { ps.Percent = 42.5 })

	req := httptest.NewRequest("GET", "/api/progress", nil)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	if data["status"] != "downloading" {
		t.Errorf("status = %v, want downloading", data["status"])
	}
	if data["percent"] != 42.5 {
		t.Errorf("percent = %v, want 42.5", data["percent"])
	}
}

func TestHandleHistory_InvalidLimit(t *testing.T) {
	ts := newTestServer(t, Config{})

	req := httptest.NewRequest("GET", "/api/history?limit=abc", nil)
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"loopback default", nil, "http://localhost:3000", "http://localhost:3000"},
		{"foreign default", nil, "https://evil.example", ""},
		{"allow-list hit", []string{"https://app.example"}, "https://app.example", "https://app.example"},
		{"allow-list miss", []string{"https://app.example"}, "http://localhost:3000", ""},
		{"wildcard", []string{"*"}, "https://any.example", "https://any.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Config{AllowedOrigins: tt.allowed})
			req := httptest.NewRequest("OPTIONS", "/api/fetch_info", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			ts.srv.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want 204", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWebSocket_InitAndProgress(t *testing.T) {
	ts := newTestServer(t, Config{})
	httpSrv := httptest.NewServer(ts.srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MsgInit {
		t.Fatalf("first message type = %q, want %q", msg.Type, MsgInit)
	}

	// Wait for registration before publishing
	deadline := time.Now().Add(5 * time.Second)
	for ts.srv.wsHub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ts.store.Begin(model.StatusFetching, 0)

	var raw json.RawMessage
	msg = WSMessage{Data: &raw}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MsgProgress {
		t.Fatalf("message type = %q, want %q", msg.Type, MsgProgress)
	}
	var ps model.ProgressState
	if err := json.Unmarshal(raw, &ps); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if ps.Status != model.StatusFetching {
		t.Errorf("pushed status = %q, want fetching", ps.Status)
	}
}

func TestWSHub_Broadcast(t *testing.T) {
	hub := NewWSHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &WSClient{send: make(chan []byte, 4), hub: hub}
	hub.register <- client
	hub.Broadcast(MsgProgress, map[string]any{"percent": 10})

	select {
	case got := <-client.send:
		if !bytes.Contains(got, []byte(`"type":"progress"`)) {
			t.Errorf("message = %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast not delivered")
	}

	if n := hub.ClientCount(); n != 1 {
		t.Errorf("ClientCount() = %d, want 1", n)
	}
}

func TestIsLoopbackOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:8080", true},
		{"http://127.0.0.1", true},
		{"http://[::1]:9000", true},
		{"https://example.com", false},
		{"::bad", false},
	}
	for _, tt := range tests {
		if got := isLoopbackOrigin(tt.origin); got != tt.want {
			t.Errorf("isLoopbackOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
