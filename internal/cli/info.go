package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rwpspread/pkg/monitor"
	"github.com/matzehuels/rwpspread/pkg/outputs"
)

// infoCommand creates the "info" subcommand, the same as --info.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the detected monitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return showMonitors(ctx, loggerFromContext(ctx))
		},
	}
}

func showMonitors(ctx context.Context, logger *log.Logger) error {
	provider, err := outputs.Detect(logger)
	if err != nil {
		return err
	}
	monitors, err := provider.Monitors(ctx)
	if err != nil {
		return err
	}
	printKeyValue("Compositor", provider.Name())
	fmt.Println(monitorTable(monitors))
	return nil
}

// monitorTable renders monitors sorted by name.
func monitorTable(monitors []monitor.Monitor) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(monitors))
	for _, m := range monitor.Sorted(monitors) {
		rows = append(rows, []string{
			m.Name,
			strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height),
			strconv.Itoa(m.X) + ":" + strconv.Itoa(m.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Monitor", "Resolution", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			default:
				return cellStyle
			}
		})
	return t.Render()
}
