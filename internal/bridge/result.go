package bridge

import (
	"encoding/json"
	"errors"
)

// ErrCancelled is returned when the user dismisses a dialog
var ErrCancelled = errors.New("cancelled by user")

// Result is the outcome of one bridge operation: a value or an error
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports success
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Envelope converts the result to its wire form
func (r Result[T]) Envelope() Envelope {
	if r.Err != nil {
		return Envelope{Success: false, Error: r.Err.Error()}
	}
	return Envelope{Success: true, Data: r.Value}
}

// MarshalJSON serializes the result as an Envelope
func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Envelope())
}

// Envelope is the {success, data|error} shape handed to UI clients
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}
