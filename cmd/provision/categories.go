package main

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/catalog"
	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/report"
)

func newCategoriesCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the kinds that setup files can request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			c := do.MustInvoke[*catalog.Catalog](rt.injector)
			return report.Kinds(cmd.OutOrStdout(), c.Kinds(), c)
		},
	}
}
