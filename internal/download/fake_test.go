package download

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
)

// fakeEngine records requests and runs scripted downloads
type fakeEngine struct {
	mu         sync.Mutex
	info       *engine.Info
	extractErr error
	onExtract  func()
	download   func(ctx context.Context, req engine.Request, onEvent func(engine.Event)) (*engine.Outcome, error)
	requests   []engine.Request
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Extract(ctx context.Context, url string) (*engine.Info, error) {
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.info, nil
}

func (f *fakeEngine) Download(ctx context.Context, req engine.Request, onEvent func(engine.Event)) (*engine.Outcome, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	fn := f.download
	f.mu.Unlock()

	if fn == nil {
		return &engine.Outcome{Filename: "out.mp4"}, nil
	}
	return fn(ctx, req, onEvent)
}

func (f *fakeEngine) Requests() []engine.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.Request(nil), f.requests...)
}

// fakeRecorder collects history entries
type fakeRecorder struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

func (r *fakeRecorder) Record(ctx context.Context, entry model.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRecorder) Entries() []model.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.HistoryEntry(nil), r.entries...)
}

// sampleInfo is the 22/140 scenario: one progressive and one audio format
func sampleInfo() *engine.Info {
	return &engine.Info{
		ID:       "abc123",
		Title:    "Sample",
		Uploader: "Uploader",
		Duration: 125,
		Formats: []engine.Format{
			{FormatID: "22", FormatNote: "720p", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 720, FileSize: 50 * 1024 * 1024, TBR: 1200},
			{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a", TBR: 129.5},
		},
		Subtitles: map[string][]engine.SubtitleTrack{
			"en": {{Ext: "vtt"}},
		},
		AutomaticCaptions: map[string][]engine.SubtitleTrack{
			"de": {{Ext: "vtt"}},
			"sw": {{Ext: "vtt"}},
		},
	}
}

func waitJob(t *testing.T, job *Job) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := job.Wait(ctx)
	if err == context.DeadlineExceeded {
		t.Fatalf("job %s did not finish in time", job.ID)
	}
	return err
}
