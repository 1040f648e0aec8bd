package download

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/ytget/yt-desktop/internal/engine"
	"github.com/ytget/yt-desktop/internal/model"
	"github.com/ytget/yt-desktop/internal/progress"
)

// subtitleStartPercent is shown while a subtitle job runs; the engine
// reports no byte progress for subtitles
const subtitleStartPercent = 50

// retryBackoff is the delay between download attempts
var retryBackoff = 2 * time.Second

// Service dispatches download requests to background jobs
type Service struct {
	engine engine.Extractor
	store  *progress.Store

	mu          sync.RWMutex
	downloadDir string
	retries     int
	recorder    Recorder
	onUpdate    func(*Job) // called when a job finishes
	jobs        map[string]*Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new download service
func NewService(ex engine.Extractor, store *progress.Store, downloadDir string) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		engine:      ex,
		store:       store,
		downloadDir: downloadDir,
		jobs:        make(map[string]*Job),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetDownloadDirectory sets the download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadDir = dir
}

// DownloadDirectory returns the current download directory
func (s *Service) DownloadDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.downloadDir
}

// SetRetries sets how many times a failed download is retried
func (s *Service) SetRetries(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retries = n
}

// SetRecorder sets where finished jobs are persisted
func (s *Service) SetRecorder(r Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// SetUpdateCallback sets the callback function for finished jobs
func (s *Service) SetUpdateCallback(callback func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Jobs returns running jobs, oldest first
func (s *Service) Jobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartedAt.Before(jobs[j].StartedAt)
	})
	return jobs
}

// DownloadVideo downloads one video or combined format. With merge set the
// best audio track is muxed in.
func (s *Service) DownloadVideo(target Target, formatID string, merge bool) (*Job, error) {
	if target.URL == "" {
		return nil, ErrNoActiveVideo
	}
	req := engine.Request{
		URL:       target.URL,
		Selector:  videoSelector(formatID, merge),
		MergeInto: mergeContainer,
		Template:  videoTemplate,
	}
	return s.start(KindVideo, target, req, 0, nil), nil
}

// DownloadAudio downloads one audio-only format
func (s *Service) DownloadAudio(target Target, formatID string) (*Job, error) {
	if target.URL == "" {
		return nil, ErrNoActiveVideo
	}
	req := engine.Request{
		URL:      target.URL,
		Selector: formatID,
		Template: audioTemplate,
	}
	return s.start(KindAudio, target, req, 0, nil), nil
}

// DownloadBest downloads the best quality not taller than maxHeight.
// maxHeight <= 0 removes the limit.
func (s *Service) DownloadBest(target Target, maxHeight int) (*Job, error) {
	if target.URL == "" {
		return nil, ErrNoActiveVideo
	}
	req := engine.Request{
		URL:       target.URL,
		Selector:  presetSelector(maxHeight),
		MergeInto: mergeContainer,
		Template:  videoTemplate,
	}
	return s.start(KindPreset, target, req, 0, nil), nil
}

// DownloadSubtitle writes one subtitle track in format (srt, vtt) without
// downloading media. A language missing from the fetched track list fails
// the job, not the call.
func (s *Service) DownloadSubtitle(target Target, lang, format string, auto bool) (*Job, error) {
	if target.URL == "" {
		return nil, ErrNoActiveVideo
	}
	req := engine.Request{
		URL:      target.URL,
		Template: subtitleTemplate,
		Subtitles: &engine.SubtitleRequest{
			Lang:   lang,
			Format: format,
			Auto:   auto,
		},
	}
	check := func() error {
		if !target.Info.HasSubtitle(lang, auto) {
			kind := "subtitles"
			if auto {
				kind = "automatic captions"
			}
			return fmt.Errorf("no %s available for language %q", kind, lang)
		}
		return nil
	}
	return s.start(KindSubtitle, target, req, subtitleStartPercent, check), nil
}

// start resets the store, registers a job and runs it in the background.
// The store already shows downloading when start returns.
func (s *Service) start(kind JobKind, target Target, req engine.Request, percent float64, check func() error) *Job {
	req.OutputDir = s.DownloadDirectory()
	job := newJob(kind, target, req.Selector)

	s.store.Begin(model.StatusDownloading, percent)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	log.Printf("[download] job %s started: %s %s (%s)", job.ID, kind, target.URL, req.Selector)

	s.wg.Add(1)
	go s.run(job, req, check)
	return job
}

// run executes a job and publishes its terminal state
func (s *Service) run(job *Job, req engine.Request, check func() error) {
	defer s.wg.Done()

	var outcome *engine.Outcome
	var err error
	if check != nil {
		err = check()
	}
	if err == nil {
		onEvent := s.handleEvent
		if req.Subtitles != nil {
			onEvent = nil
		}
		outcome, err = s.downloadWithRetry(s.ctx, job, req, onEvent)
	}

	filename := ""
	if outcome != nil {
		filename = outcome.Filename
	}

	if err != nil {
		err = wrapJobError(job, req, err)
		log.Printf("[download] job %s failed: %v", job.ID, err)
		s.store.Fail(err)
	} else {
		log.Printf("[download] job %s done: %s", job.ID, filename)
		s.store.Update(func(ps *model.ProgressState) {
			ps.Status = model.StatusDone
			ps.Percent = 100
			ps.Speed = ""
			ps.ETA = ""
			if filename != "" {
				ps.Filename = filename
			}
		})
	}
	title := job.Title
	if title == "" && outcome != nil {
		title = outcome.Title
	}

	s.mu.Lock()
	delete(s.jobs, job.ID)
	recorder := s.recorder
	callback := s.onUpdate
	s.mu.Unlock()

	job.complete(filename, err)
	s.record(recorder, job, title)

	if callback != nil {
		callback(job)
	}
	close(job.done)
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, job *Job, req engine.Request, onEvent func(engine.Event)) (*engine.Outcome, error) {
	s.mu.RLock()
	maxRetries := s.retries
	s.mu.RUnlock()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Printf("[download] retrying job %s, attempt %d", job.ID, attempt+1)
		}

		outcome, err := s.engine.Download(ctx, req, onEvent)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
		log.Printf("[download] attempt %d failed for job %s: %v", attempt+1, job.ID, err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// handleEvent maps one engine event into the progress store
func (s *Service) handleEvent(ev engine.Event) {
	switch ev.Status {
	case engine.EventDownloading:
		s.store.Update(func(ps *model.ProgressState) {
			ps.Status = model.StatusDownloading
			ps.Percent = model.ClampPercent(model.PercentOf(ev.DownloadedBytes, ev.TotalBytes))
			ps.Speed = model.FormatSpeed(ev.Speed)
			ps.ETA = model.FormatETA(ev.ETA)
			if ev.Filename != "" {
				ps.Filename = ev.Filename
			}
		})
	case engine.EventFinished:
		s.store.Update(func(ps *model.ProgressState) {
			ps.Status = model.StatusMerging
			ps.Percent = 99
			ps.Speed = ""
			ps.ETA = ""
			if ev.Filename != "" {
				ps.Filename = ev.Filename
			}
		})
	}
}

func (s *Service) record(r Recorder, job *Job, title string) {
	if r == nil {
		return
	}
	entry := model.HistoryEntry{
		ID:         job.ID,
		Kind:       string(job.Kind),
		URL:        job.URL,
		Title:      title,
		Selector:   job.Selector,
		Status:     model.StatusDone,
		Filename:   job.Filename(),
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt(),
	}
	if err := job.Err(); err != nil {
		entry.Status = model.StatusError
		entry.Error = err.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Record(ctx, entry); err != nil {
		log.Printf("[download] failed to record job %s: %v", job.ID, err)
	}
}

// Shutdown cancels running jobs and waits for them to exit
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func wrapJobError(job *Job, req engine.Request, err error) error {
	if req.Subtitles != nil {
		return &SubtitleError{Lang: req.Subtitles.Lang, Auto: req.Subtitles.Auto, Err: err}
	}
	return &DownloadError{URL: job.URL, Selector: job.Selector, Err: err}
}
