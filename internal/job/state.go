package job

// Status is one stage of a job's lifecycle. A job advances strictly forward
// through the working statuses and settles in exactly one terminal status.
type Status string

const (
	StatusPending        Status = "pending"
	StatusExtracting     Status = "extracting"
	StatusTranscribing   Status = "transcribing"
	StatusFetchingTrends Status = "fetching_trends"
	StatusGenerating     Status = "generating"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// isValidTransition enforces the allowed job state machine edges. Failed is
// reachable from every working status; Completed only from Generating.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusExtracting || to == StatusFailed
	case StatusExtracting:
		return to == StatusTranscribing || to == StatusFailed
	case StatusTranscribing:
		return to == StatusFetchingTrends || to == StatusFailed
	case StatusFetchingTrends:
		return to == StatusGenerating || to == StatusFailed
	case StatusGenerating:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
