package main

import (
	"os"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	profile   string
	configDir string
	overrides map[string]string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision test data from declarative setup files",
		Long: `provision turns declarative setup files into live objects in the backend.

A setup file lists specifications under "module" and "function" sections.
Objects may refer to earlier objects by name; references are resolved in
file order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("APP_PROFILE"),
		"configuration profile (e.g. local, ci); defaults to $APP_PROFILE")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs",
		"directory holding base.yaml and the profile files")
	cmd.PersistentFlags().StringToStringVar(&opts.overrides, "set", nil,
		"override a configuration key, e.g. --set client.base_url=http://localhost:9000")

	cmd.AddCommand(
		newRunCmd(opts),
		newValidateCmd(opts),
		newCategoriesCmd(opts),
	)
	return cmd
}
