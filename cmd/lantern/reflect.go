package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/ui"
	"github.com/hyperengineering/lantern/internal/validation"
	"github.com/spf13/cobra"
)

var (
	reflectClear bool
	reflectDay   string
)

var reflectCmd = &cobra.Command{
	Use:   "reflect [text]",
	Short: "Write today's reflection",
	Long: "Write today's reflection, replacing any earlier text for the day.\n" +
		"With no text, prints today's reflection. Use --clear to erase it.",
	RunE: runReflect,
}

var reflectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the reflection and completions for a day",
	Args:  cobra.NoArgs,
	RunE:  runReflectShow,
}

func init() {
	reflectCmd.Flags().BoolVar(&reflectClear, "clear", false,
		"Erase today's reflection")
	reflectShowCmd.Flags().StringVar(&reflectDay, "day", "",
		"Day to show as YYYY-MM-DD (default today)")

	reflectCmd.AddCommand(reflectShowCmd)
}

func runReflect(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if reflectClear && text != "" {
		return errors.New("--clear does not take text")
	}
	if errs := validation.ValidateReflection(types.ReflectionRequest{Text: text}); len(errs) > 0 {
		return validationFailure(errs)
	}

	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 || reflectClear {
		a.engine.SetReflection(cmd.Context(), text)
	}
	return printDayView(cmd, a.engine.DayView(a.engine.Today()))
}

func runReflectShow(cmd *cobra.Command, args []string) error {
	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	day := a.engine.Today()
	if reflectDay != "" {
		day, err = types.ParseDayKey(reflectDay)
		if err != nil {
			return fmt.Errorf("--day: %w", err)
		}
	}
	return printDayView(cmd, a.engine.DayView(day))
}

func printDayView(cmd *cobra.Command, view types.DayView) error {
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), view)
	}

	out := cmd.OutOrStdout()
	title := string(view.Day)
	if view.DayNumber > 0 {
		title = fmt.Sprintf("Day %d · %s", view.DayNumber, view.Day)
	}
	fmt.Fprintln(out, ui.Heading(ui.IconMoon, title))
	fmt.Fprintln(out, ui.LabelValue("Completed", len(view.Completed)))
	if len(view.Completed) > 0 {
		fmt.Fprintln(out, ui.Muted.Render(strings.Join(view.Completed, ", ")))
	}

	fmt.Fprintln(out)
	if view.Reflection == "" {
		fmt.Fprintln(out, ui.Muted.Render("No reflection written."))
		return nil
	}
	fmt.Fprintln(out, ui.Panel.Render(ui.IconPen+" "+view.Reflection))
	return nil
}
