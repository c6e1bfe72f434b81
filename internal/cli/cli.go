package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rwpspread/pkg/buildinfo"
	"github.com/matzehuels/rwpspread/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = pipeline.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself splits the wallpaper.
func (c *CLI) RootCommand() *cobra.Command {
	var flags splitFlags

	root := &cobra.Command{
		Use:   "rwpspread",
		Short: "Multi-monitor wallpaper utility",
		Long: `rwpspread splits one wallpaper across all connected monitors so that it
spans them as a single image, following their real arrangement.

It can hand the result to wpaperd, hyprpaper or swaybg, write lockscreen
configs for hyprlock or swaylock, and keep running to resplit whenever
monitors are plugged in or the image changes.`,
		Example: `  rwpspread -i ~/wallpaper.png
  rwpspread -i ~/wallpapers -b hyprpaper -d -w
  rwpspread -i wall.jpg -a ct --bezel 40 -m "DP-1:27 HDMI-A-1:24" --ppi`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSplit(cmd, &flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags.register(root.Flags())
	root.MarkFlagsMutuallyExclusive("image", "info")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
