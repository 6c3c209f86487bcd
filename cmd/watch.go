package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vebulogmetra/pports/internal/control"
	"github.com/vebulogmetra/pports/internal/tui"
)

func newWatchCmd() *cobra.Command {
	var interval string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactive live table of active ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, scanner, ctrl := loadStack()

			refresh := cfg.RefreshInterval
			if interval != "" {
				d, err := time.ParseDuration(interval)
				if err != nil {
					return usageError("invalid --interval: %v", err)
				}
				refresh = d
			}
			if refresh <= 0 {
				refresh = 2 * time.Second
			}

			protected := control.NewProtectedSet(cfg.ProtectedPortNumbers(), cfg.Protected)
			model := tui.New(scanner, ctrl, protected, refresh, cfg.GracefulTimeout)

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return &exitError{code: codeFailure, message: err.Error()}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "", "refresh interval (default from config)")

	return cmd
}
