package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache command with its subcommands.
func newCacheCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local artifact cache",
	}
	cmd.AddCommand(newCachePathCmd(cfg))
	cmd.AddCommand(newCacheClearCmd(cfg))
	return cmd
}

func newCachePathCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cfg.CacheDir)
			return nil
		},
	}
}

func newCacheClearCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.RemoveAll(cfg.CacheDir); err != nil {
				return fmt.Errorf("clear cache %s: %w", cfg.CacheDir, err)
			}
			printSuccess(fmt.Sprintf("Cleared cache at %s", cfg.CacheDir))
			return nil
		},
	}
}
