package platform

// Package platform contains OS integration glue: standard directories,
// revealing and opening downloaded files, and YouTube URL checks.
