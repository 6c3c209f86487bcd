package process

import (
	"errors"
	"syscall"
)

type Signal syscall.Signal

const (
	SignalTerm Signal = Signal(syscall.SIGTERM)
	SignalKill Signal = Signal(syscall.SIGKILL)
)

var (
	// ErrNotFound is returned when the target process does not exist
	// (or exited between enumeration and signal delivery).
	ErrNotFound = errors.New("no such process")

	// ErrPermission is returned when the caller lacks the rights to
	// signal or inspect the target process.
	ErrPermission = errors.New("operation not permitted")
)

// Provider abstracts per-OS process lookup and signal delivery.
type Provider interface {
	Lookup(pid int32) (*Info, error)
	Terminate(pid int32) error
	Kill(pid int32) error
	Signal(pid int32, sig Signal) error
	IsRunning(pid int32) bool
}
