package tui

import (
	"time"

	"github.com/vebulogmetra/pports/internal/control"
)

// tickMsg drives the periodic re-poll.
type tickMsg time.Time

// snapshotMsg carries one completed poll. seq orders polls so that a slow
// scan finishing after a newer one is discarded instead of merged.
type snapshotMsg struct {
	seq  int
	rows []row
	err  error
}

// killDoneMsg reports a finished termination attempt.
type killDoneMsg struct {
	outcome control.Outcome
}
