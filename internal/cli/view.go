package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/pipeline"
)

// newViewCmd creates the view command: render the graph to a temp file and
// open it in the system viewer.
func newViewCmd(cfg Config) *cobra.Command {
	var (
		format string
		keep   bool
		flags  exportFlags
	)

	cmd := &cobra.Command{
		Use:   "view [module.json]",
		Short: "Render the graph and open it in the system viewer",
		Long: `View renders the module's operation graph to a uniquely named file in
the temp directory and opens it with the platform viewer (xdg-open, open,
or start). Where the opener waits for the viewer to exit, the file is
removed afterwards unless --keep is set; elsewhere it stays in the temp
directory and its path is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}

			data, err := renderToFormat(ctx, cfg, args[0], pipeline.Options{
				Export:  flags.options(cmd, logger),
				Formats: []string{format},
			})
			if err != nil {
				return err
			}

			path := filepath.Join(os.TempDir(), fmt.Sprintf("opdot-%s.%s", uuid.NewString(), format))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			viewer, waits := viewerCommand(runtime.GOOS, path)
			logger.Debug("opening viewer", "path", path, "waits", waits)
			if err := viewer.Run(); err != nil {
				return fmt.Errorf("open viewer for %s: %w", path, err)
			}

			// Remove the file only once a waiting viewer has exited. A
			// non-waiting opener hands the path to a handler that resolves
			// it later, so the file must outlive this command.
			if !keep && waits {
				_ = os.Remove(path)
				return nil
			}
			printKeyValue("wrote", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "viewer format: svg, png, dot")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the rendered file after the viewer closes")
	flags.register(cmd, cfg.Export)

	return cmd
}

// viewerCommand builds the platform command that opens path with the
// default application. waits reports whether the command blocks until the
// viewer exits; xdg-open returns as soon as the desktop handler takes over.
func viewerCommand(goos, path string) (cmd *exec.Cmd, waits bool) {
	switch goos {
	case "darwin":
		return exec.Command("open", "-W", path), true
	case "windows":
		return exec.Command("cmd", "/c", "start", "/wait", "", path), true
	default:
		return exec.Command("xdg-open", path), false
	}
}
