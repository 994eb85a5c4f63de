package main

import (
	"fmt"

	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/ui"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task's completion for today",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	id := args[0]

	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	task, ok := a.engine.Registry().Get(id)
	if !ok {
		return fmt.Errorf("task %q not found", id)
	}

	done := a.engine.Toggle(cmd.Context(), id)
	today := a.engine.Today()

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), types.ToggleResponse{
			TaskID:   id,
			Day:      today,
			Complete: done,
		})
	}

	summary := a.engine.TodaySummary()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Check(done), task.Icon, task.Label)
	fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(
		fmt.Sprintf("%s: %d/%d done", today, summary.DoneCount, summary.TotalCount)))
	return nil
}
