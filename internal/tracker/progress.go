package tracker

import "github.com/hyperengineering/lantern/internal/types"

// CompletionReader is the read side of a ledger.
type CompletionReader interface {
	IsComplete(day types.DayKey, id string) bool
}

// DailySummaries derives one ProgressRecord per window day. The denominator
// is always the current task set, so adding a task lowers the ratio of past
// days too. Ids in the ledger that are not in tasks are not counted.
func DailySummaries(w Window, tasks []types.Task, ledger CompletionReader) []types.ProgressRecord {
	keys := w.Keys()
	out := make([]types.ProgressRecord, len(keys))
	for i, day := range keys {
		s := summarize(tasks, ledger, day)
		out[i] = types.ProgressRecord{
			DayNumber:       i + 1,
			DateKey:         day,
			CompletedCount:  s.DoneCount,
			TotalCount:      s.TotalCount,
			CompletionRatio: s.Ratio,
		}
	}
	return out
}

// TodaySummary summarizes completion of every task on today.
func TodaySummary(tasks []types.Task, ledger CompletionReader, today types.DayKey) types.Summary {
	return summarize(tasks, ledger, today)
}

// CategorySummary summarizes completion of the tasks in c on today.
func CategorySummary(tasks []types.Task, ledger CompletionReader, today types.DayKey, c types.Category) types.Summary {
	var in []types.Task
	for _, t := range tasks {
		if t.Category == c {
			in = append(in, t)
		}
	}
	return summarize(in, ledger, today)
}

// CategoryBreakdown returns CategorySummary for every category in display order.
func CategoryBreakdown(tasks []types.Task, ledger CompletionReader, today types.DayKey) []types.CategorySummary {
	out := make([]types.CategorySummary, 0, len(types.Categories))
	for _, c := range types.Categories {
		out = append(out, types.CategorySummary{
			Category: c,
			Summary:  CategorySummary(tasks, ledger, today, c),
		})
	}
	return out
}

func summarize(tasks []types.Task, ledger CompletionReader, day types.DayKey) types.Summary {
	done := 0
	for _, t := range tasks {
		if ledger.IsComplete(day, t.ID) {
			done++
		}
	}
	return types.Summary{
		DoneCount:  done,
		TotalCount: len(tasks),
		Ratio:      ratio(done, len(tasks)),
	}
}

func ratio(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}
