package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the effective configuration as YAML",
		Long: `Prints the configuration after defaults, the config file, the .env file
and CALCDASH_* environment variables have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.conf.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}, &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and list warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			warnings := a.conf.ValidateConfiguration()
			if len(warnings) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
				return err
			}
			for _, w := range warnings {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), "warning: "+w); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return cmd
}
