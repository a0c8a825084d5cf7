package main

import (
	"errors"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/catalog"
	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/specfile"
	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

func newValidateCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [setup-file]",
		Short: "Check that a setup file parses and names only known kinds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context(), global, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			path := rt.cfg.Setup.SpecFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errNoSpecFile
			}

			plan, err := specfile.Load(path, domain.Scope(rt.cfg.Setup.Scope))
			if err != nil {
				return err
			}

			c := do.MustInvoke[*catalog.Catalog](rt.injector)
			if err := checkKinds(c, plan); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d module and %d function specifications\n",
				path, len(plan.Module), len(plan.Function))
			return err
		},
	}
}

// checkKinds reports every entry whose kind the catalog does not know.
func checkKinds(c *catalog.Catalog, plan domain.Plan) error {
	var errs []error
	for _, specs := range [][]domain.Spec{plan.Module, plan.Function} {
		for _, spec := range specs {
			for _, entry := range spec {
				if _, err := c.Lookup(entry.Kind); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}
