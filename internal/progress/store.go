// Package progress holds the shared record of the current operation. Every
// component that reports or reads progress receives the same *Store; no
// package-level state is involved.
package progress

import (
	"sync"

	"github.com/ytget/yt-desktop/internal/model"
)

// Listener receives a snapshot after every update
type Listener func(model.ProgressState)

// Store guards one ProgressState with a mutex.
// Concurrent operations write into the same record; last writer wins per field.
type Store struct {
	mu        sync.Mutex
	state     model.ProgressState
	listeners []Listener
}

// NewStore creates a store in the idle state
func NewStore() *Store {
	return &Store{state: model.NewProgressState()}
}

// Update applies fn to the state under the lock and notifies listeners with
// the resulting snapshot. fn must not block.
func (s *Store) Update(fn func(*model.ProgressState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Snapshot returns an independent copy of the current state
func (s *Store) Snapshot() model.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener called outside the lock after each update
func (s *Store) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// copy-on-write so Update can iterate without holding the lock
	next := make([]Listener, len(s.listeners), len(s.listeners)+1)
	copy(next, s.listeners)
	s.listeners = append(next, l)
}

// Begin resets transfer fields and enters status at the given percent
func (s *Store) Begin(status model.ProgressStatus, percent float64) {
	s.Update(func(ps *model.ProgressState) {
		ps.Status = status
		ps.Percent = model.ClampPercent(percent)
		ps.Speed = ""
		ps.ETA = ""
		ps.Error = ""
		if status == model.StatusDownloading {
			ps.Filename = ""
		}
	})
}

// Idle marks the store idle without touching the last filename
func (s *Store) Idle() {
	s.Update(func(ps *model.ProgressState) {
		ps.Status = model.StatusIdle
		ps.Percent = 0
	})
}

// Fail records err as the terminal error of the current operation
func (s *Store) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.Update(func(ps *model.ProgressState) {
		ps.Status = model.StatusError
		ps.Error = msg
		ps.Speed = ""
		ps.ETA = ""
	})
}

// Finish marks the current operation done at 100%
func (s *Store) Finish() {
	s.Update(func(ps *model.ProgressState) {
		ps.Status = model.StatusDone
		ps.Percent = 100
		ps.Speed = ""
		ps.ETA = ""
	})
}
