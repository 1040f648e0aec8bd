package model

// ProgressStatus represents the status of the current fetch or download operation
type ProgressStatus string

const (
	// StatusIdle means no operation is running
	StatusIdle ProgressStatus = "idle"

	// StatusFetching means video metadata is being retrieved
	StatusFetching ProgressStatus = "fetching"

	// StatusDownloading means media bytes are being transferred
	StatusDownloading ProgressStatus = "downloading"

	// StatusMerging means streams finished and are being muxed into one container
	StatusMerging ProgressStatus = "merging"

	// StatusDone means the operation finished successfully
	StatusDone ProgressStatus = "done"

	// StatusError means the operation failed
	StatusError ProgressStatus = "error"
)

// String returns the string representation of ProgressStatus
func (ps ProgressStatus) String() string {
	return string(ps)
}

// IsActive returns true if an operation is in flight
func (ps ProgressStatus) IsActive() bool {
	return ps == StatusFetching || ps == StatusDownloading || ps == StatusMerging
}

// IsFinished returns true if the operation reached a terminal state (done or error)
func (ps ProgressStatus) IsFinished() bool {
	return ps == StatusDone || ps == StatusError
}
