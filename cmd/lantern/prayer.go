package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperengineering/lantern/internal/api"
	"github.com/hyperengineering/lantern/internal/prayer"
	"github.com/hyperengineering/lantern/internal/types"
	"github.com/hyperengineering/lantern/internal/ui"
	"github.com/hyperengineering/lantern/internal/validation"
	"github.com/spf13/cobra"
)

var (
	prayerCity    string
	prayerCountry string
	prayerMethod  int
	prayerDate    string
)

var prayerCmd = &cobra.Command{
	Use:   "prayer",
	Short: "Show the day's prayer times",
	Long:  "Show prayer times for the configured location, or the one given by flags.",
	Args:  cobra.NoArgs,
	RunE:  runPrayer,
}

func init() {
	prayerCmd.Flags().StringVar(&prayerCity, "city", "", "City (default from config)")
	prayerCmd.Flags().StringVar(&prayerCountry, "country", "", "Country (default from config)")
	prayerCmd.Flags().IntVar(&prayerMethod, "method", 0, "Calculation method (default from config)")
	prayerCmd.Flags().StringVar(&prayerDate, "date", "", "Date as YYYY-MM-DD (default today)")
}

func runPrayer(cmd *cobra.Command, args []string) error {
	a, err := openCommandApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.prayer == nil {
		return errors.New("prayer lookup is disabled in the configuration")
	}

	q := a.place()
	if v := strings.TrimSpace(prayerCity); v != "" {
		q.City = v
	}
	if v := strings.TrimSpace(prayerCountry); v != "" {
		q.Country = v
	}
	if cmd.Flags().Changed("method") {
		q.Method = prayerMethod
	}
	today := a.engine.Today()
	q.Date = today
	if prayerDate != "" {
		q.Date = types.DayKey(prayerDate)
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("city", q.City))
	c.Add(validation.ValidateMinInt("method", q.Method, 0))
	c.Add(validation.ValidateDayKey("date", string(q.Date)))
	validation.ValidateText(&c, "city", q.City, validation.MaxCityLength)
	if c.HasErrors() {
		return validationFailure(c.Errors())
	}

	times, err := a.prayer.Times(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("prayer times for %s: %w", q.City, err)
	}

	next := ""
	if q.Date == today {
		next = prayer.NextPrayer(times, a.engine.Now())
	}

	display := make(map[string]string, len(prayer.Names))
	for _, e := range times.Entries() {
		display[e.Name] = prayer.Format12h(e.Time)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), api.PrayerTimesResponse{
			City:    q.City,
			Country: q.Country,
			Method:  q.Method,
			Date:    q.Date,
			Times:   times,
			Display: display,
			Next:    next,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconClock, fmt.Sprintf("Prayer times · %s · %s", q.City, q.Date)))
	w := newTabWriter(out)
	for _, e := range times.Entries() {
		marker := ""
		if e.Name == next {
			marker = ui.Good.Render("next")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", strings.ToUpper(e.Name[:1])+e.Name[1:], display[e.Name], marker)
	}
	w.Flush()
	return nil
}
