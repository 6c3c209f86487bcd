// Package control terminates socket-owning processes under a protection
// policy: graceful first, a single escalation to forced kill, and a
// categorized Outcome for every path.
package control

import (
	"errors"
	"time"

	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
)

// DefaultTimeout bounds the graceful wait when no timeout is configured.
const DefaultTimeout = 5 * time.Second

const pollInterval = 200 * time.Millisecond

// Target identifies a process either by an owning port or directly by PID.
// Exactly one of Port and PID must be set.
type Target struct {
	Port     uint32
	Protocol inventory.Protocol
	PID      int32
}

type Options struct {
	// Force skips the graceful signal and overrides the protection policy.
	Force bool
	// Timeout bounds the wait for a graceful exit before escalation.
	Timeout time.Duration
	// NoEscalate reports StatusTimedOut instead of following up with a
	// forced kill.
	NoEscalate bool
	// DryRun resolves and policy-checks the target but sends no signal.
	DryRun bool
}

// Lister is the slice of the inventory the controller needs to resolve
// port targets and owner metadata.
type Lister interface {
	List(inventory.Filter) ([]inventory.PortRecord, error)
	Lookup(pid int32) (*process.Info, error)
}

type Controller struct {
	inv       Lister
	prov      process.Provider
	protected ProtectedSet
}

func New(inv Lister, prov process.Provider, protected ProtectedSet) *Controller {
	return &Controller{inv: inv, prov: prov, protected: protected}
}

// Terminate resolves the target, applies the protection policy, and signals
// the process. Graceful termination that does not exit within the bound is
// escalated to a forced kill exactly once unless NoEscalate is set.
func (c *Controller) Terminate(t Target, opts Options) Outcome {
	pid := t.PID
	port := t.Port

	if pid == 0 {
		rec, fail := c.resolvePort(t)
		if fail != nil {
			return *fail
		}
		pid = rec.PID
		port = rec.LocalPort
	}

	name := ""
	info, err := c.inv.Lookup(pid)
	switch {
	case err == nil && info != nil:
		name = info.Name
	case t.PID != 0:
		// direct PID target with no matching process
		return Outcome{Status: StatusNotFound, PID: pid, Err: err}
	}

	if !opts.Force && c.isProtected(pid, name, port) {
		return Outcome{Status: StatusProtected, PID: pid, Name: name, Port: port}
	}

	if opts.DryRun {
		return Outcome{Status: StatusTerminated, PID: pid, Name: name, Port: port, Forced: opts.Force, DryRun: true}
	}

	start := time.Now()

	if opts.Force {
		if err := c.prov.Kill(pid); err != nil {
			return c.signalFailure(pid, name, port, err)
		}
		return Outcome{Status: StatusTerminated, PID: pid, Name: name, Port: port, Forced: true, Duration: time.Since(start)}
	}

	if err := c.prov.Terminate(pid); err != nil {
		return c.signalFailure(pid, name, port, err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	deadline := time.After(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			if opts.NoEscalate {
				return Outcome{Status: StatusTimedOut, PID: pid, Name: name, Port: port, Duration: time.Since(start)}
			}
			if err := c.prov.Kill(pid); err != nil {
				if errors.Is(err, process.ErrNotFound) {
					// exited right at the deadline; the graceful signal landed
					return Outcome{Status: StatusTerminated, PID: pid, Name: name, Port: port, Duration: time.Since(start)}
				}
				return c.signalFailure(pid, name, port, err)
			}
			return Outcome{Status: StatusTerminated, PID: pid, Name: name, Port: port, Forced: true, Duration: time.Since(start)}
		case <-ticker.C:
			if !c.prov.IsRunning(pid) {
				return Outcome{Status: StatusTerminated, PID: pid, Name: name, Port: port, Duration: time.Since(start)}
			}
		}
	}
}

// resolvePort maps a port target to the first bound socket after the
// deterministic sort: a TCP listener or a UDP socket, never an established
// peer that merely shares the port number.
func (c *Controller) resolvePort(t Target) (inventory.PortRecord, *Outcome) {
	records, err := c.inv.List(inventory.Filter{Port: t.Port, Protocol: t.Protocol})
	if err != nil {
		return inventory.PortRecord{}, &Outcome{Status: StatusFailed, Port: t.Port, Err: err}
	}

	for _, rec := range records {
		if !rec.Bound() {
			continue
		}
		if rec.PID == 0 {
			return inventory.PortRecord{}, &Outcome{
				Status: StatusNotFound,
				Port:   t.Port,
				Err:    errors.New("owning process undisclosed by the OS"),
			}
		}
		return rec, nil
	}
	return inventory.PortRecord{}, &Outcome{Status: StatusNotFound, Port: t.Port}
}

func (c *Controller) isProtected(pid int32, name string, port uint32) bool {
	if c.protected.Name(name) {
		return true
	}
	if port != 0 {
		return c.protected.Port(port)
	}

	// PID target: any port the process is bound to can protect it. When
	// port ownership cannot be verified the policy refuses the termination
	// rather than bypassing itself.
	records, err := c.inv.List(inventory.Filter{})
	if err != nil {
		return true
	}
	for _, r := range records {
		if r.PID == pid && r.Bound() && c.protected.Port(r.LocalPort) {
			return true
		}
	}
	return false
}

func (c *Controller) signalFailure(pid int32, name string, port uint32, err error) Outcome {
	o := Outcome{PID: pid, Name: name, Port: port, Err: err}
	switch {
	case errors.Is(err, process.ErrNotFound):
		o.Status = StatusAlreadyExited
	case errors.Is(err, process.ErrPermission):
		o.Status = StatusPermissionDenied
	default:
		o.Status = StatusFailed
	}
	return o
}
