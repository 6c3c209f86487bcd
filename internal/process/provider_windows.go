package process

import (
	"errors"

	"golang.org/x/sys/windows"
)

type windowsProvider struct{}

func New() Provider {
	return &windowsProvider{}
}

func (p *windowsProvider) Lookup(pid int32) (*Info, error) {
	return lookupInfo(pid)
}

func (p *windowsProvider) Kill(pid int32) error {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return ErrNotFound
		}
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			return ErrPermission
		}
		return err
	}
	defer windows.CloseHandle(handle)
	return windows.TerminateProcess(handle, 1)
}

// Windows has no SIGTERM equivalent; graceful and forced paths converge.
func (p *windowsProvider) Terminate(pid int32) error {
	return p.Kill(pid)
}

func (p *windowsProvider) Signal(pid int32, _ Signal) error {
	return p.Kill(pid)
}

func (p *windowsProvider) IsRunning(pid int32) bool {
	return isRunning(pid)
}
