package download

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobKind identifies which entry point started a job
type JobKind string

const (
	KindVideo    JobKind = "video"
	KindAudio    JobKind = "audio"
	KindSubtitle JobKind = "subtitle"
	KindPreset   JobKind = "preset"
)

// Job is the handle of one background download. Callers may ignore it;
// the outcome is always mirrored into the progress store.
type Job struct {
	ID        string
	Kind      JobKind
	URL       string
	Title     string
	Selector  string
	StartedAt time.Time

	done chan struct{}

	mu         sync.Mutex
	err        error
	filename   string
	finishedAt time.Time
}

func newJob(kind JobKind, target Target, selector string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		URL:       target.URL,
		Title:     target.Title(),
		Selector:  selector,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// Done is closed once the job has finished, successfully or not
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the job's failure, nil while running or on success
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Filename returns the output path reported by the engine
func (j *Job) Filename() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filename
}

// FinishedAt is zero while the job runs
func (j *Job) FinishedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finishedAt
}

// Wait blocks until the job finishes or ctx is done
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete stores the outcome; Done is closed separately once every
// observer has been notified
func (j *Job) complete(filename string, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.filename = filename
	j.err = err
	j.finishedAt = time.Now()
}
