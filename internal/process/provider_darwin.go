package process

import "syscall"

type darwinProvider struct{}

func New() Provider {
	return &darwinProvider{}
}

func (p *darwinProvider) Lookup(pid int32) (*Info, error) {
	return lookupInfo(pid)
}

func (p *darwinProvider) Kill(pid int32) error {
	return p.Signal(pid, SignalKill)
}

func (p *darwinProvider) Terminate(pid int32) error {
	return p.Signal(pid, SignalTerm)
}

func (p *darwinProvider) Signal(pid int32, sig Signal) error {
	return mapErrno(syscall.Kill(int(pid), syscall.Signal(sig)))
}

func (p *darwinProvider) IsRunning(pid int32) bool {
	return isRunning(pid)
}

func mapErrno(err error) error {
	switch err {
	case nil:
		return nil
	case syscall.ESRCH:
		return ErrNotFound
	case syscall.EPERM:
		return ErrPermission
	default:
		return err
	}
}
