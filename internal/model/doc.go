package model

// Package model defines domain data structures used across the app: the
// progress record shared between the dispatcher and the UI, the normalized
// video/format/subtitle descriptors returned by the resolver, and history
// entries. Structures carry JSON tags so the bridge can serialize them as-is.
