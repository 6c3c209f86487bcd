package control

import (
	"errors"
	"testing"
	"time"

	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
)

type fakeLister struct {
	records []inventory.PortRecord
	infos   map[int32]*process.Info
	listErr error
}

func (f *fakeLister) List(filter inventory.Filter) ([]inventory.PortRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []inventory.PortRecord
	for _, r := range f.records {
		if filter.Port != 0 && r.LocalPort != filter.Port {
			continue
		}
		if filter.Protocol != "" && r.Protocol != filter.Protocol {
			continue
		}
		if filter.ListeningOnly && r.State != inventory.StateListen {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLister) Lookup(pid int32) (*process.Info, error) {
	return f.infos[pid], nil
}

type fakeSignaller struct {
	termErr   error
	killErr   error
	running   bool
	termCalls int
	killCalls int
}

func (f *fakeSignaller) Lookup(pid int32) (*process.Info, error) { return nil, process.ErrNotFound }

func (f *fakeSignaller) Terminate(int32) error {
	f.termCalls++
	return f.termErr
}

func (f *fakeSignaller) Kill(int32) error {
	f.killCalls++
	return f.killErr
}

func (f *fakeSignaller) Signal(int32, process.Signal) error { return nil }
func (f *fakeSignaller) IsRunning(int32) bool               { return f.running }

func listener(port uint32, pid int32) inventory.PortRecord {
	return inventory.PortRecord{
		Protocol:  inventory.ProtocolTCP,
		LocalAddr: "0.0.0.0",
		LocalPort: port,
		State:     inventory.StateListen,
		PID:       pid,
	}
}

func datagram(port uint32, pid int32) inventory.PortRecord {
	return inventory.PortRecord{
		Protocol:  inventory.ProtocolUDP,
		LocalAddr: "0.0.0.0",
		LocalPort: port,
		PID:       pid,
	}
}

func testController(sig *fakeSignaller) *Controller {
	inv := &fakeLister{
		records: []inventory.PortRecord{
			listener(80, 200),
			listener(8080, 100),
			listener(9000, 0),
			datagram(5353, 400),
		},
		infos: map[int32]*process.Info{
			100: {PID: 100, Name: "node"},
			200: {PID: 200, Name: "nginx"},
			300: {PID: 300, Name: "sshd"},
			400: {PID: 400, Name: "avahi-daemon"},
		},
	}
	protected := NewProtectedSet([]uint32{22, 80, 443}, []string{"sshd", "systemd"})
	return New(inv, sig, protected)
}

func TestProtectedPortWithoutForce(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 80}, Options{})
	if o.Status != StatusProtected {
		t.Fatalf("status = %v, want protected", o.Status)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatalf("signals sent to a protected target: term=%d kill=%d", sig.termCalls, sig.killCalls)
	}
}

func TestProtectedNameByPID(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{PID: 300}, Options{})
	if o.Status != StatusProtected {
		t.Fatalf("status = %v, want protected", o.Status)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatal("signals sent to a protected process")
	}
}

func TestProtectedPortByPIDTarget(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	// nginx is not a protected name but listens on protected port 80
	o := c.Terminate(Target{PID: 200}, Options{})
	if o.Status != StatusProtected {
		t.Fatalf("status = %v, want protected", o.Status)
	}
}

func TestForceOverridesProtection(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 80}, Options{Force: true})
	if o.Status != StatusTerminated || !o.Forced {
		t.Fatalf("outcome = %+v, want forced termination", o)
	}
	if sig.killCalls != 1 || sig.termCalls != 0 {
		t.Fatalf("force must go straight to kill: term=%d kill=%d", sig.termCalls, sig.killCalls)
	}
}

func TestUDPPortTarget(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 5353, Protocol: inventory.ProtocolUDP}, Options{Timeout: time.Second})
	if o.Status != StatusTerminated || o.PID != 400 {
		t.Fatalf("outcome = %+v, want graceful termination of the UDP owner", o)
	}
	if sig.termCalls != 1 {
		t.Fatalf("term calls = %d, want 1", sig.termCalls)
	}
}

func TestPortResolutionSkipsEstablishedPeers(t *testing.T) {
	sig := &fakeSignaller{}
	inv := &fakeLister{
		records: []inventory.PortRecord{
			{Protocol: inventory.ProtocolTCP, LocalPort: 8080, State: inventory.StateEstablished, PID: 50},
			listener(8080, 100),
		},
		infos: map[int32]*process.Info{100: {PID: 100, Name: "node"}},
	}
	c := New(inv, sig, NewProtectedSet(nil, nil))

	o := c.Terminate(Target{Port: 8080}, Options{Timeout: time.Second})
	if o.PID != 100 {
		t.Fatalf("resolved PID %d, want the listener 100", o.PID)
	}
}

func TestProtectionFailsClosedOnEnumerationError(t *testing.T) {
	sig := &fakeSignaller{}
	inv := &fakeLister{
		listErr: errors.New("connections unreadable"),
		infos:   map[int32]*process.Info{200: {PID: 200, Name: "nginx"}},
	}
	c := New(inv, sig, NewProtectedSet([]uint32{80}, nil))

	o := c.Terminate(Target{PID: 200}, Options{})
	if o.Status != StatusProtected {
		t.Fatalf("status = %v, want protected when port ownership cannot be verified", o.Status)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatal("signals sent while the protection check could not run")
	}
}

func TestNotFoundPort(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 12345}, Options{})
	if o.Status != StatusNotFound {
		t.Fatalf("status = %v, want not found", o.Status)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatal("termination of a missing target must have no side effects")
	}
}

func TestNotFoundUndisclosedOwner(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 9000}, Options{})
	if o.Status != StatusNotFound || o.Err == nil {
		t.Fatalf("outcome = %+v, want not found with cause", o)
	}
}

func TestNotFoundPID(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{PID: 999}, Options{})
	if o.Status != StatusNotFound {
		t.Fatalf("status = %v, want not found", o.Status)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatal("termination of a missing target must have no side effects")
	}
}

func TestGracefulExitWithinBound(t *testing.T) {
	sig := &fakeSignaller{running: false}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{Timeout: time.Second})
	if o.Status != StatusTerminated || o.Forced {
		t.Fatalf("outcome = %+v, want graceful termination", o)
	}
	if sig.termCalls != 1 || sig.killCalls != 0 {
		t.Fatalf("want one SIGTERM and no SIGKILL: term=%d kill=%d", sig.termCalls, sig.killCalls)
	}
}

func TestEscalationExactlyOnce(t *testing.T) {
	sig := &fakeSignaller{running: true}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{Timeout: 50 * time.Millisecond})
	if o.Status != StatusTerminated || !o.Forced {
		t.Fatalf("outcome = %+v, want forced termination after escalation", o)
	}
	if sig.termCalls != 1 || sig.killCalls != 1 {
		t.Fatalf("escalation must kill exactly once: term=%d kill=%d", sig.termCalls, sig.killCalls)
	}
}

func TestNoEscalateTimesOut(t *testing.T) {
	sig := &fakeSignaller{running: true}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{Timeout: 50 * time.Millisecond, NoEscalate: true})
	if o.Status != StatusTimedOut {
		t.Fatalf("status = %v, want timed out", o.Status)
	}
	if sig.killCalls != 0 {
		t.Fatal("no-escalate must not send SIGKILL")
	}
}

func TestAlreadyExited(t *testing.T) {
	sig := &fakeSignaller{termErr: process.ErrNotFound}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{})
	if o.Status != StatusAlreadyExited {
		t.Fatalf("status = %v, want already exited", o.Status)
	}
}

func TestPermissionDenied(t *testing.T) {
	sig := &fakeSignaller{termErr: process.ErrPermission}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{})
	if o.Status != StatusPermissionDenied {
		t.Fatalf("status = %v, want permission denied", o.Status)
	}
}

func TestDryRunSendsNoSignal(t *testing.T) {
	sig := &fakeSignaller{}
	c := testController(sig)

	o := c.Terminate(Target{Port: 8080}, Options{DryRun: true})
	if o.Status != StatusTerminated || !o.DryRun {
		t.Fatalf("outcome = %+v, want dry-run termination", o)
	}
	if sig.termCalls != 0 || sig.killCalls != 0 {
		t.Fatal("dry run must not signal")
	}
}
