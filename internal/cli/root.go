// internal/cli/root.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"capital-match/internal/app"
	"capital-match/internal/common/config"
	"capital-match/internal/common/database"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/observability"
	"capital-match/internal/fixtures"
	"capital-match/internal/matching"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
}

// env is what PersistentPreRunE builds for the subcommands.
type env struct {
	opts    *RootOptions
	cfg     *config.Config
	log     logger.Logger
	clients *database.Clients
	catalog *fixtures.Catalog
	engine  matching.Engine
}

func NewRootCmd() *cobra.Command {
	opts := &RootOptions{}
	e := &env{opts: opts}

	cmd := &cobra.Command{
		Use:     "capmatch",
		Short:   "Operator CLI for the capital match service",
		Long:    "capmatch inspects the LP/deal catalog, runs match evaluations and\nwhat-if simulations offline, and validates the workflow activity registry.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.clients != nil {
				e.clients.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./configs/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "global operation timeout")

	cmd.AddCommand(
		newTopCmd(e),
		newZoningCmd(e),
		newEvaluateCmd(e),
		newSimulateCmd(e),
		newRegistryCmd(e),
	)
	return cmd
}

// Execute runs the command tree against args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func (e *env) init(cmd *cobra.Command) error {
	if e.opts.OutputFormat != OutputText && e.opts.OutputFormat != OutputJSON {
		return fmt.Errorf("unknown output format %q", e.opts.OutputFormat)
	}
	e.log = logger.NewStructured(e.opts.LogLevel, "console")

	var err error
	if e.opts.ConfigPath != "" {
		e.cfg, err = config.LoadFromFile(e.opts.ConfigPath)
	} else {
		e.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	return nil
}

// load opens the catalog and the engine on first use; zoning and registry
// commands never need them.
func (e *env) load(ctx context.Context) error {
	if e.catalog != nil {
		return nil
	}
	if e.cfg.Fixtures.Source == config.FixtureSourcePostgres {
		clients, err := database.Open(ctx, e.cfg, e.log)
		if err != nil {
			return err
		}
		e.clients = clients
	}
	c, err := app.LoadCatalog(ctx, e.cfg, e.clients, e.log)
	if err != nil {
		return err
	}
	e.catalog = c
	e.engine = matching.Build(e.cfg.Matching, nil, observability.NewNoop(), e.log)
	return nil
}

// Catalog lets the worker handlers read the loaded catalog.
func (e *env) Catalog() *fixtures.Catalog {
	return e.catalog
}

func (e *env) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.opts.Timeout)
}

func (e *env) printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
