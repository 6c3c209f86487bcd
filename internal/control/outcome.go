package control

import (
	"fmt"
	"time"
)

type Status int

const (
	// StatusTerminated means the signal path completed; Forced tells
	// whether escalation to SIGKILL happened.
	StatusTerminated Status = iota
	StatusNotFound
	StatusProtected
	StatusPermissionDenied
	StatusAlreadyExited
	StatusTimedOut
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusTerminated:
		return "terminated"
	case StatusNotFound:
		return "not found"
	case StatusProtected:
		return "protected"
	case StatusPermissionDenied:
		return "permission denied"
	case StatusAlreadyExited:
		return "already exited"
	case StatusTimedOut:
		return "timed out"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports the result of one termination attempt. Failures are data,
// not errors: every path the policy can take ends in exactly one Outcome.
type Outcome struct {
	Status   Status
	PID      int32
	Name     string
	Port     uint32
	Forced   bool
	DryRun   bool
	Duration time.Duration
	Err      error
}

func (o Outcome) Success() bool {
	return o.Status == StatusTerminated
}

func (o Outcome) Message() string {
	label := o.Name
	if label == "" {
		label = fmt.Sprintf("PID %d", o.PID)
	} else {
		label = fmt.Sprintf("%s (PID %d)", o.Name, o.PID)
	}

	switch o.Status {
	case StatusTerminated:
		if o.DryRun {
			return fmt.Sprintf("[dry-run] would terminate %s", label)
		}
		signal := "SIGTERM"
		if o.Forced {
			signal = "SIGKILL"
		}
		return fmt.Sprintf("terminated %s with %s in %s", label, signal, o.Duration.Round(time.Millisecond))
	case StatusNotFound:
		if o.PID == 0 && o.Port != 0 {
			if o.Err != nil {
				return fmt.Sprintf("port %d: %v", o.Port, o.Err)
			}
			return fmt.Sprintf("no process found on port %d", o.Port)
		}
		if o.Err != nil {
			return fmt.Sprintf("%s: %v", label, o.Err)
		}
		return fmt.Sprintf("%s not found", label)
	case StatusProtected:
		return fmt.Sprintf("%s is protected, pass --force to override", label)
	case StatusPermissionDenied:
		return fmt.Sprintf("not permitted to signal %s, try elevated privileges", label)
	case StatusAlreadyExited:
		return fmt.Sprintf("%s already exited", label)
	case StatusTimedOut:
		return fmt.Sprintf("%s did not exit within the graceful timeout", label)
	default:
		return fmt.Sprintf("failed to terminate %s: %v", label, o.Err)
	}
}
