package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/cache"
	"github.com/opdot/opdot/pkg/pipeline"
)

// newRenderCmd creates the render command for generating artifacts.
func newRenderCmd(cfg Config) *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		flags      exportFlags
	)

	cmd := &cobra.Command{
		Use:   "render [module.json]",
		Short: "Render a module to DOT, SVG, or PNG",
		Long: `Render runs the full pipeline: parse the module document, export its
operation graph as DOT, and render the requested output formats.

Rendered artifacts are cached by content hash, so re-rendering an
unchanged module is instant. Use --no-cache to bypass the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			formats := pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if len(formats) > 1 && output != "" {
				// Multiple formats share a base path; extensions are appended.
				logger.Debug("treating --output as base path", "output", output)
			}

			runner := pipeline.NewRunner(newArtifactCache(cfg, noCache, logger), logger)
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Rendering...")
			spinner.Start()
			result, err := runner.Execute(ctx, pipeline.Options{
				Input:   args[0],
				Export:  flags.options(cmd, logger),
				Formats: formats,
			})
			if err != nil {
				spinner.StopWithError("Render failed")
				return err
			}
			spinner.Stop()

			paths, err := writeArtifacts(result.Artifacts, formats, args[0], output)
			if err != nil {
				return err
			}

			printSuccess(fmt.Sprintf("Rendered %s", result.Module.Name))
			printKeyValue("instructions", fmt.Sprintf("%d", result.Stats.InstructionCount))
			for _, p := range paths {
				printKeyValue("wrote", p)
			}
			if result.CacheHits > 0 {
				printKeyValue("cache hits", fmt.Sprintf("%d", result.CacheHits))
			}
			logger.Debug("pipeline stats", "stats", result.Stats.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "dot", "output format(s): dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	flags.register(cmd, cfg.Export)

	return cmd
}

// newArtifactCache builds the artifact cache selected by the config and
// flags. Cache setup failures degrade to no caching.
func newArtifactCache(cfg Config, noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		logger.Warn("cache disabled", "dir", cfg.CacheDir, "err", err)
		return cache.NewNullCache()
	}
	return c
}

// writeArtifacts writes each artifact next to the input (or to the given
// output path) and returns the written paths.
//
// With one format, --output names the file exactly. With several, the
// format extension is appended to the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		if input == "-" {
			base = "module"
		}
	}

	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// renderToFormat runs the pipeline for a single format and returns the
// artifact bytes. Shared by the view command.
func renderToFormat(ctx context.Context, cfg Config, input string, opts pipeline.Options) ([]byte, error) {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(newArtifactCache(cfg, false, logger), logger)
	defer runner.Close()

	opts.Input = input
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts[opts.Formats[0]], nil
}
