package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/report"
	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/specfile"
	"github.com/jsamuelsen11/testdata-provisioner/internal/app"
	"github.com/jsamuelsen11/testdata-provisioner/internal/app/registry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/health"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/httpclient"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
)

var errNoSpecFile = errors.New("no setup file: pass one as an argument or set setup.spec_file")

type runOptions struct {
	scope string
	dump  bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [setup-file]",
		Short: "Provision the objects described by a setup file",
		Long: `Run the module section, then the function section, of a setup file.

A file holding a bare sequence of specifications is provisioned with
--scope, or setup.scope from the configuration when the flag is absent.

Examples:
  provision run --profile local testdata/setup.yaml
  APP_SETUP_SCOPE=function provision run --profile ci seed.yaml --dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.scope, "scope", "", "scope for bare setup files (module or function)")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "print the registry after provisioning")
	return cmd
}

func runSetup(cmd *cobra.Command, global *globalOptions, opts *runOptions, args []string) error {
	ctx := cmd.Context()

	rt, err := bootstrap(ctx, global, cmd.ErrOrStderr())
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

	scope := rt.cfg.Setup.Scope
	if opts.scope != "" {
		scope = opts.scope
	}

	plan, err := specfile.Load(path, domain.Scope(scope))
	if err != nil {
		return err
	}

	if rt.cfg.Setup.Preflight {
		if err := do.MustInvoke[*health.Registry](rt.injector).Preflight(ctx); err != nil {
			return err
		}
	}

	resolver, err := do.Invoke[*app.Resolver](rt.injector)
	if err != nil {
		return fmt.Errorf("resolving provisioner: %w", err)
	}
	reg := do.MustInvoke[*registry.Registry](rt.injector)

	runID := uuid.NewString()
	ctx = httpclient.WithRunID(ctx, runID)
	logger := rt.logger.With(slog.String("run_id", runID))
	ctx = logging.WithLogger(ctx, logger)
	logger.InfoContext(ctx, "setup started",
		slog.String("file", path),
		slog.Int("module_specs", len(plan.Module)),
		slog.Int("function_specs", len(plan.Function)),
	)

	if err := resolver.Process(ctx, domain.ScopeModule, plan.Module); err != nil {
		return fmt.Errorf("module setup: %w", err)
	}
	if err := resolver.Process(ctx, domain.ScopeFunction, plan.Function); err != nil {
		return fmt.Errorf("function setup: %w", err)
	}

	logger.InfoContext(ctx, "setup complete",
		slog.Int("objects", reg.Len()),
		slog.String("backend_breaker", do.MustInvoke[*httpclient.Client](rt.injector).CircuitBreakerState()),
	)

	if opts.dump {
		report.Dump(cmd.OutOrStdout(), reg)
	}
	return nil
}
