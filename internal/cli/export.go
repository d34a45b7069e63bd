package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/pipeline"
)

// newExportCmd creates the export command: module document in, DOT text out.
func newExportCmd(cfg Config) *cobra.Command {
	var output string
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export [module.json]",
		Short: "Emit the DOT document for a module",
		Long: `Export walks the module document and emits its operation graph as a
clustered Graphviz DOT document on stdout (or to --output).

Pass "-" to read the module from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner := pipeline.NewRunner(nil, logger)
			defer runner.Close()

			prog := newProgress(logger)
			mod, err := runner.Parse(ctx, args[0])
			if err != nil {
				return err
			}
			dotText, err := runner.Export(ctx, mod, flags.options(cmd, logger))
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dotText)
			} else {
				if err := os.WriteFile(output, []byte(dotText), 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			}
			prog.done(fmt.Sprintf("Exported %d instructions", mod.CountInstructions()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the DOT document to this file instead of stdout")
	flags.register(cmd, cfg.Export)

	return cmd
}
