package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/f130r/workspace01/internal/ui"
)

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective config to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				ui.Warn(a.Err, a.configPath+" already exists (use --force to overwrite)")
				return exit(1)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return exit(a.fail(1, err.Error()))
			}
			if err := a.Cfg.Save(a.configPath); err != nil {
				return exit(a.fail(1, err.Error()))
			}
			ui.OK(a.Out, "wrote "+a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(a.Out, a.configPath)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := yaml.Marshal(a.Cfg)
				if err != nil {
					return exit(a.fail(1, err.Error()))
				}
				fmt.Fprint(a.Out, string(out))
				return nil
			},
		},
		initCmd,
	)
	return cmd
}
