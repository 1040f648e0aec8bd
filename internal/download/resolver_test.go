package download

import (
	"context"
	"errors"
	"testing"

	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

func TestResolve_Success(t *testing.T) {
	store := progress.NewStore()
	store.Fail(errors.New("previous failure"))

	var during model.ProgressState
	fake := &fakeEngine{info: sampleInfo()}
	fake.onExtract = func() { during = store.Snapshot() }

	info, err := NewResolver(fake, store).Resolve(context.Background(), "  https://youtu.be/abc123  ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if during.Status != model.StatusFetching || during.Percent != 0 || during.Error != "" {
		t.Errorf("Expected fetching state with cleared error during extraction, got %+v", during)
	}

	snap := store.Snapshot()
	if snap.Status != model.StatusIdle {
		t.Errorf("Expected idle after success, got %s", snap.Status)
	}

	if info.Title != "Sample" || info.Author != "Uploader" || info.Duration != "2:05" {
		t.Errorf("Unexpected info: %+v", info)
	}
	if len(info.Formats) != 2 || info.Formats[0].FormatID != "22" {
		t.Errorf("Unexpected formats: %+v", info.Formats)
	}
	// en authored, de auto; sw auto filtered out
	if len(info.Subtitles) != 2 {
		t.Errorf("Expected 2 subtitles, got %+v", info.Subtitles)
	}
}

func TestResolve_Failure(t *testing.T) {
	store := progress.NewStore()
	cause := errors.New("Video unavailable")
	fake := &fakeEngine{extractErr: cause}

	info, err := NewResolver(fake, store).Resolve(context.Background(), "https://youtu.be/gone")
	if info != nil {
		t.Errorf("Expected nil info, got %+v", info)
	}

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Expected *ExtractionError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to the engine cause")
	}
	if xerr.URL != "https://youtu.be/gone" {
		t.Errorf("Unexpected URL %q", xerr.URL)
	}

	snap := store.Snapshot()
	if snap.Status != model.StatusError || snap.Error != "Video unavailable" {
		t.Errorf("Expected error state with engine message, got %+v", snap)
	}
}
