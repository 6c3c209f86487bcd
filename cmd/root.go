package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vebulogmetra/pports/internal/config"
	"github.com/vebulogmetra/pports/internal/control"
	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
)

var (
	versionString = "dev"
)

func SetVersionInfo(version, commit, date string) {
	versionString = version
	if commit != "none" {
		versionString = fmt.Sprintf("%s\n  commit: %s\n  built:  %s", version, commit, date)
	}
}

// Exit codes distinguish the reported error categories.
const (
	codeFailure    = 1
	codeUsage      = 2
	codeNotFound   = 3
	codeProtected  = 4
	codePermission = 5
)

type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string { return e.message }

func usageError(format string, args ...any) error {
	return &exitError{code: codeUsage, message: fmt.Sprintf(format, args...)}
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			log.Error(ee.message)
			return ee.code
		}
		if ctx.Err() != nil {
			return 130
		}
		// anything else that escapes unclassified is an argument error
		// from cobra itself
		log.Error(err.Error())
		return codeUsage
	}
	return 0
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pports",
		Short:   "List open network ports and terminate their owning processes",
		Long:    fmt.Sprintf("pports — inspect active sockets, map them to processes, and free busy ports.\n\nConfig: %s", config.Path()),
		Version: versionString,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, _ := cmd.Flags().GetBool("verbose")
			q, _ := cmd.Flags().GetBool("quiet")
			if v {
				log.SetLevel(log.DebugLevel)
			}
			if q {
				log.SetLevel(log.FatalLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.AddCommand(
		newScanCmd(),
		newKillCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)

	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "suppress output")

	return cmd
}

// loadStack wires the inventory and controller from configuration. The
// protected set is built once here and injected; it never changes within
// a run.
func loadStack() (*config.Config, *inventory.Scanner, *control.Controller) {
	cfg, err := config.Load()
	if err != nil {
		log.Warn("config load failed, using defaults", "err", err)
	}

	prov := process.New()
	scanner := inventory.NewScanner(prov)
	protected := control.NewProtectedSet(cfg.ProtectedPortNumbers(), cfg.Protected)
	ctrl := control.New(scanner, prov, protected)
	return cfg, scanner, ctrl
}

func outcomeExit(o control.Outcome) error {
	switch o.Status {
	case control.StatusTerminated:
		return nil
	case control.StatusNotFound, control.StatusAlreadyExited:
		return &exitError{code: codeNotFound, message: o.Message()}
	case control.StatusProtected:
		return &exitError{code: codeProtected, message: o.Message()}
	case control.StatusPermissionDenied:
		return &exitError{code: codePermission, message: o.Message()}
	default:
		return &exitError{code: codeFailure, message: o.Message()}
	}
}
