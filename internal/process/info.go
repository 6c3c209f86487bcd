package process

import (
	"time"

	gopsProcess "github.com/shirou/gopsutil/v4/process"
)

// Info is the metadata for a socket-owning process, resolved lazily per PID.
// The process itself is owned by the operating system; Info is a read-only
// snapshot and may describe a process that has since exited.
type Info struct {
	PID        int32
	Name       string
	Exe        string
	Cmdline    string
	User       string
	CreateTime time.Time
}

func lookupInfo(pid int32) (*Info, error) {
	proc, err := gopsProcess.NewProcess(pid)
	if err != nil {
		return nil, ErrNotFound
	}

	// Individual fields can be withheld under restricted permissions;
	// a partial Info is still useful.
	name, _ := proc.Name()
	exe, _ := proc.Exe()
	cmdline, _ := proc.Cmdline()
	user, _ := proc.Username()
	createMs, _ := proc.CreateTime()

	return &Info{
		PID:        pid,
		Name:       name,
		Exe:        exe,
		Cmdline:    cmdline,
		User:       user,
		CreateTime: time.UnixMilli(createMs),
	}, nil
}

func isRunning(pid int32) bool {
	proc, err := gopsProcess.NewProcess(pid)
	if err != nil {
		return false
	}
	running, err := proc.IsRunning()
	if err != nil {
		return false
	}
	return running
}
