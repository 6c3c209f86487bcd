package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vebulogmetra/pports/internal/control"
	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
	"github.com/vebulogmetra/pports/internal/ui"
)

type killFlags struct {
	port       uint32
	pid        int32
	protocol   string
	force      bool
	yes        bool
	timeout    string
	noEscalate bool
	dryRun     bool
}

func newKillCmd() *cobra.Command {
	f := &killFlags{}

	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Terminate the process owning a port, or a process by PID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runKill(f)
		},
	}

	cmd.Flags().Uint32VarP(&f.port, "port", "p", 0, "terminate the owner of this port")
	cmd.Flags().Int32Var(&f.pid, "pid", 0, "terminate this process id")
	cmd.Flags().StringVar(&f.protocol, "protocol", "", "protocol for --port (tcp or udp)")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "SIGKILL directly and override protection")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "skip confirmation")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "graceful wait before escalation (default from config)")
	cmd.Flags().BoolVar(&f.noEscalate, "no-escalate", false, "never follow SIGTERM with SIGKILL")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "resolve and policy-check without signalling")

	return cmd
}

func runKill(f *killFlags) error {
	if (f.port == 0) == (f.pid == 0) {
		return usageError("pass exactly one of --port or --pid")
	}

	proto, err := parseProtocol(f.protocol)
	if err != nil {
		return err
	}

	cfg, scanner, ctrl := loadStack()

	timeout := cfg.GracefulTimeout
	if f.timeout != "" {
		timeout, err = time.ParseDuration(f.timeout)
		if err != nil {
			return usageError("invalid --timeout: %v", err)
		}
	}

	target := control.Target{Port: f.port, Protocol: proto, PID: f.pid}

	if !f.yes && !f.dryRun {
		if err := confirmKill(scanner, target); err != nil {
			return err
		}
	}

	outcome := ctrl.Terminate(target, control.Options{
		Force:      f.force,
		Timeout:    timeout,
		NoEscalate: f.noEscalate,
		DryRun:     f.dryRun,
	})

	fmt.Println(outcome.Message())
	return outcomeExit(outcome)
}

// confirmKill previews what would be signalled before asking. The preview
// is best-effort; the authoritative resolution happens inside Terminate.
func confirmKill(scanner *inventory.Scanner, t control.Target) error {
	var (
		records []inventory.PortRecord
		err     error
	)
	if t.PID != 0 {
		records, err = scanner.List(inventory.Filter{})
	} else {
		records, err = scanner.List(inventory.Filter{Port: t.Port, Protocol: t.Protocol})
	}
	if err != nil {
		return &exitError{code: codeFailure, message: err.Error()}
	}
	records = boundRecords(records, t.PID)

	prompt := fmt.Sprintf("Terminate PID %d?", t.PID)
	detail := ""
	if len(records) > 0 {
		infos := make(map[int32]*process.Info)
		for _, r := range records {
			if r.PID != 0 {
				info, _ := scanner.Lookup(r.PID)
				infos[r.PID] = info
			}
		}
		fmt.Println(ui.RenderRecords(records, infos, true))

		first := records[0]
		name := "unknown"
		if info := infos[first.PID]; info != nil && info.Name != "" {
			name = info.Name
		}
		prompt = fmt.Sprintf("Terminate %s (PID %d) on port %d?", name, first.PID, first.LocalPort)
		detail = fmt.Sprintf("%s %s", first.Protocol, ui.FormatAddr(first.LocalAddr, first.LocalPort))
	}

	confirmed, err := ui.ConfirmTermination(prompt, detail)
	if err != nil || !confirmed {
		return &exitError{code: 130, message: "cancelled"}
	}
	return nil
}

// boundRecords keeps the sockets that own their port; pid 0 keeps every
// owner, otherwise only that process's.
func boundRecords(records []inventory.PortRecord, pid int32) []inventory.PortRecord {
	var out []inventory.PortRecord
	for _, r := range records {
		if !r.Bound() {
			continue
		}
		if pid != 0 && r.PID != pid {
			continue
		}
		out = append(out, r)
	}
	return out
}
