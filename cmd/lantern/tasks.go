package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperengineering/lantern/internal/tracker"
	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/ui"
	"github.com/hyperengineering/lantern/internal/validation"
	"github.com/spf13/cobra"
)

var taskIcon string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List and manage tracked tasks",
	Long:  "List built-in and custom tasks with today's state, or add and remove custom tasks.",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks with today's state",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a custom personal task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTasksAdd,
}

var tasksRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a custom task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksRemove,
}

func init() {
	tasksAddCmd.Flags().StringVar(&taskIcon, "icon", "",
		"Icon shown next to the task (default "+tracker.DefaultIcon+")")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksRemoveCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tasks := a.engine.Tasks()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), types.TaskListResponse{
			Tasks: tasks,
			Total: len(tasks),
		})
	}

	out := cmd.OutOrStdout()
	today := a.engine.Today()
	fmt.Fprintln(out, ui.Heading(ui.IconLantern, fmt.Sprintf("Day %d of %d", a.engine.DayNumber(), tracker.WindowDays)))
	fmt.Fprintln(out, ui.Muted.Render(string(today)))

	for _, c := range types.Categories {
		group := a.engine.Registry().ByCategory(c)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.H2.Render(ui.CategoryTitle(c)))

		w := newTabWriter(out)
		for _, t := range group {
			fmt.Fprintf(w, "%s\t%s %s\t%s\n",
				ui.Check(a.engine.Ledger().IsComplete(today, t.ID)),
				t.Icon,
				t.Label,
				ui.Muted.Render(t.ID),
			)
		}
		w.Flush()
	}
	return nil
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	req := types.AddTaskRequest{
		Label: strings.Join(args, " "),
		Icon:  taskIcon,
	}
	if errs := validation.ValidateAddTask(req); len(errs) > 0 {
		return validationFailure(errs)
	}

	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	task, ok := a.engine.AddTask(cmd.Context(), req.Label, req.Icon)
	if !ok {
		return errors.New("task label must not be blank")
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), task)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added "+task.Icon+" "+task.Label))
	fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("ID", task.ID))
	return nil
}

func runTasksRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	if tracker.IsBuiltin(id) {
		return fmt.Errorf("built-in task %q cannot be removed", id)
	}

	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	removed := a.engine.RemoveTask(cmd.Context(), id)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      id,
			"removed": removed,
		})
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("No custom task %q.", id)))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconTrash+" Removed "+id))
	return nil
}

// validationFailure folds field errors into one command error.
func validationFailure(errs []validation.ValidationError) error {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + " " + e.Message
	}
	return fmt.Errorf("invalid input: %s", strings.Join(parts, "; "))
}
