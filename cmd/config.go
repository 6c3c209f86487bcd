package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vebulogmetra/pports/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pports configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newConfigPathCmd(),
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigResetCmd(),
		newConfigProtectCmd(),
		newConfigEditCmd(),
	)

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.Path())
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, f := range config.Schema {
				val, _ := config.GetValue(cfg, f.Key)
				fmt.Printf("%-20s = %-30s # %s\n", f.Key, config.FormatValue(&f, val), f.Desc)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a config value",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			f := config.LookupField(key)
			if f == nil {
				return usageError("unknown config key: %s", key)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			val, err := config.GetValue(cfg, key)
			if err != nil {
				return err
			}

			fmt.Println(config.FormatValue(f, val))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a config value",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConfigKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, raw := args[0], args[1]
			f := config.LookupField(key)
			if f == nil {
				return usageError("unknown config key: %s", key)
			}

			val, err := config.ParseValue(f, raw)
			if err != nil {
				return usageError("invalid value for %s: %v", key, err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := config.SetValue(cfg, key, val); err != nil {
				return err
			}

			return config.Save(cfg)
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Reset(); err != nil {
				return err
			}
			fmt.Println("config reset to defaults")
			return nil
		},
	}
}

// newConfigProtectCmd adds or removes a protected entry. A numeric argument
// is treated as a port, anything else as a process name.
func newConfigProtectCmd() *cobra.Command {
	var del bool

	cmd := &cobra.Command{
		Use:   "protect <port|name>",
		Short: "Add or remove a protected port or process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			entry := args[0]
			if port, perr := strconv.Atoi(entry); perr == nil {
				if port < 1 || port > 65535 {
					return usageError("port %d out of range", port)
				}
				return protectPort(cfg, port, del)
			}
			return protectName(cfg, entry, del)
		},
	}

	cmd.Flags().BoolVar(&del, "delete", false, "remove from the protected list")
	return cmd
}

func protectPort(cfg *config.Config, port int, del bool) error {
	idx := slices.Index(cfg.ProtectedPorts, port)

	if del {
		if idx < 0 {
			return fmt.Errorf("port %d not in protected list", port)
		}
		cfg.ProtectedPorts = slices.Delete(cfg.ProtectedPorts, idx, idx+1)
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("removed port %d from protected list\n", port)
		return nil
	}

	if idx >= 0 {
		fmt.Printf("port %d is already protected\n", port)
		return nil
	}
	cfg.ProtectedPorts = append(cfg.ProtectedPorts, port)
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("added port %d to protected list\n", port)
	return nil
}

func protectName(cfg *config.Config, name string, del bool) error {
	idx := slices.IndexFunc(cfg.Protected, func(p string) bool {
		return strings.EqualFold(p, name)
	})

	if del {
		if idx < 0 {
			return fmt.Errorf("process %q not in protected list", name)
		}
		cfg.Protected = slices.Delete(cfg.Protected, idx, idx+1)
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("removed %q from protected list\n", name)
		return nil
	}

	if idx >= 0 {
		fmt.Printf("%q is already protected\n", name)
		return nil
	}
	cfg.Protected = append(cfg.Protected, name)
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("added %q to protected list\n", name)
	return nil
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.Path()); os.IsNotExist(err) {
				if err := config.Reset(); err != nil {
					return err
				}
			}

			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}

			c := exec.Command(editor, config.Path())
			c.Stdin = os.Stdin
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			return c.Run()
		},
	}
}

func completeConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	keys := make([]string, 0, len(config.Schema))
	for _, f := range config.Schema {
		keys = append(keys, f.Key)
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}
