package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rwpspread/pkg/cache"
	"github.com/matzehuels/rwpspread/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage generated wallpapers",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all generated wallpapers and sidecars",
		Long: `Remove every file rwpspread generated in a work directory, forcing the
next run to resplit. Other files in the directory are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				var err error
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count, err := clearDir(dir)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d files", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", "", "work directory to clear (default: the daemon cache directory)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the directory daemon and backend runs write to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheDir returns the work directory of daemon and backend runs.
func cacheDir() (string, error) {
	opts := pipeline.Options{Daemon: true}
	return opts.Workdir()
}

// clearDir removes the owned files in dir and returns how many there were.
func clearDir(dir string) (int, error) {
	gate, err := cache.NewFileGate(dir)
	if err != nil {
		return 0, err
	}
	names, err := gate.Present()
	if err != nil {
		return 0, err
	}
	if err := gate.Invalidate(); err != nil {
		return 0, err
	}
	return len(names), nil
}
