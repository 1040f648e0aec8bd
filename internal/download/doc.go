// Package download resolves video metadata and dispatches background
// downloads on top of an engine.Extractor. Every operation reports its
// state through a shared progress.Store; finished jobs are handed to an
// optional Recorder.
package download
