package domain

// BuildState represents the lifecycle state of a single build.
type BuildState string

const (
	// BuildStateNotStarted indicates nothing has happened yet.
	BuildStateNotStarted BuildState = "not_started"
	// BuildStateEntryPrepared indicates the snapshot was read and the engine configuration assembled.
	BuildStateEntryPrepared BuildState = "entry_prepared"
	// BuildStateRunning indicates the engine run phase is in progress.
	BuildStateRunning BuildState = "running"
	// BuildStateSucceeded indicates the run phase produced an artifact.
	BuildStateSucceeded BuildState = "succeeded"
	// BuildStateFailed indicates the run phase failed.
	BuildStateFailed BuildState = "failed"
	// BuildStateClosed indicates engine resources were released. It is always the final state.
	BuildStateClosed BuildState = "closed"
)

// IsTerminal reports whether no further transition can follow.
func (s BuildState) IsTerminal() bool {
	return s == BuildStateClosed
}

// CanTransition reports whether moving from s to next is a valid lifecycle step.
func (s BuildState) CanTransition(next BuildState) bool {
	switch s {
	case BuildStateNotStarted:
		return next == BuildStateEntryPrepared
	case BuildStateEntryPrepared:
		return next == BuildStateRunning
	case BuildStateRunning:
		return next == BuildStateSucceeded || next == BuildStateFailed
	case BuildStateSucceeded, BuildStateFailed:
		return next == BuildStateClosed
	default:
		return false
	}
}
