package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/buildinfo"
	"github.com/opdot/opdot/pkg/observability"
)

// Execute runs the opdot CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (export,
// render, view, serve, cache), configures logging based on the --verbose
// flag, and executes the command tree. Persistent defaults are read from
// the config file (see LoadConfig); its location can be overridden with
// the OPDOT_CONFIG environment variable.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level, plus pipeline instrumentation
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	cfg, err := LoadConfig(os.Getenv("OPDOT_CONFIG"))
	if err != nil {
		return err
	}

	var verbose bool

	root := &cobra.Command{
		Use:          "opdot",
		Short:        "opdot exports IR operation graphs as Graphviz documents",
		Long:         `opdot walks a nested intermediate representation (regions, blocks, instructions) and renders it as a clustered Graphviz DOT document, with optional SVG/PNG output, an interactive viewer, and an HTTP export service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if verbose {
				observability.SetPipelineHooks(&logPipelineHooks{logger: logger})
				observability.SetCacheHooks(&logCacheHooks{logger: logger})
			}
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("opdot %s\ncommit: %s\nbuilt: %s\n",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newExportCmd(cfg))
	root.AddCommand(newRenderCmd(cfg))
	root.AddCommand(newViewCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))

	return root.ExecuteContext(ctx)
}
