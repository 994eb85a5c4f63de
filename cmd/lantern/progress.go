package main

import (
	"fmt"

	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/ui"
	"github.com/spf13/cobra"
)

const barWidth = 20

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show today's and the month's progress",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	overview := a.engine.Overview()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), overview)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconChart,
		fmt.Sprintf("Day %d of %d · %s", overview.DayNumber, overview.WindowDays, overview.Today)))
	fmt.Fprintf(out, "%s %s %s\n",
		ui.Key.Render("Today:"),
		ui.Bar(overview.Overall.Ratio, barWidth),
		summaryText(overview.Overall),
	)

	fmt.Fprintln(out)
	w := newTabWriter(out)
	for _, c := range overview.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			ui.CategoryTitle(c.Category),
			ui.Bar(c.Ratio, barWidth),
			summaryText(c.Summary),
		)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.H2.Render("Month"))
	w = newTabWriter(out)
	fmt.Fprintln(w, "DAY\tDATE\tPROGRESS\tDONE")
	for _, d := range overview.Days {
		marker := ""
		if d.DateKey == overview.Today {
			marker = " ◀"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d%s\n",
			d.DayNumber,
			d.DateKey,
			ui.Bar(d.CompletionRatio, barWidth/2),
			d.CompletedCount,
			d.TotalCount,
			marker,
		)
	}
	w.Flush()
	return nil
}

func summaryText(s types.Summary) string {
	return fmt.Sprintf("%s (%d/%d)", ui.Percent(s.Ratio), s.DoneCount, s.TotalCount)
}
