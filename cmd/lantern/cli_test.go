package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hyperengineering/lantern/internal/api"
	"github.com/hyperengineering/lantern/internal/types"
)

const aladhanBody = `{"code":200,"status":"OK","data":{"timings":{
	"Fajr":"05:01","Sunrise":"06:15","Dhuhr":"12:09","Asr":"15:27","Maghrib":"18:03","Isha":"19:17"}}}`

// testEnv points the CLI at a temporary database and a fake prayer upstream.
type testEnv struct {
	dbPath        string
	upstreamCalls *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	calls := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, aladhanBody)
	}))
	t.Cleanup(upstream.Close)

	dir := t.TempDir()
	env := &testEnv{
		dbPath:        filepath.Join(dir, "lantern.db"),
		upstreamCalls: calls,
	}
	t.Setenv("LANTERN_CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("LANTERN_DB_PATH", env.dbPath)
	t.Setenv("LANTERN_TIMEZONE", "UTC")
	t.Setenv("LANTERN_LOG_LEVEL", "error")
	t.Setenv("LANTERN_PRAYER_ENABLED", "true")
	t.Setenv("LANTERN_PRAYER_BASE_URL", upstream.URL)
	t.Setenv("LANTERN_PRAYER_RETRY_MAX", "0")
	return env
}

// executeCmd runs the root command with captured output.
func executeCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	// Cobra parses into package-level variables, so reset them between runs.
	configPath = ""
	jsonOutput = false
	taskIcon = ""
	reflectClear = false
	reflectDay = ""
	prayerCity = ""
	prayerCountry = ""
	prayerMethod = 0
	prayerDate = ""
	if f := prayerCmd.Flags().Lookup("method"); f != nil {
		f.Changed = false
	}

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()

	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	rootCmd.SetArgs(nil)

	return outBuf.String(), errBuf.String(), err
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out, err)
	}
	return v
}

func TestTasksList_JSON(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "tasks", "list", "--json")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	resp := decodeOutput[types.TaskListResponse](t, out)
	if resp.Total != 14 || len(resp.Tasks) != 14 {
		t.Errorf("total = %d, tasks = %d, want 14", resp.Total, len(resp.Tasks))
	}
	if resp.Tasks[0].ID != "fajr" {
		t.Errorf("first task = %q, want fajr", resp.Tasks[0].ID)
	}
}

func TestTasksList_Text(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "tasks")
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	for _, want := range []string{"Worship", "Health", "Personal", "Fajr Salah", "gratitude"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTasksAddRemove_Persists(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "tasks", "add", "Call", "parents", "--icon", "📞", "--json")
	if err != nil {
		t.Fatalf("tasks add: %v", err)
	}
	task := decodeOutput[types.Task](t, out)
	if task.Label != "Call parents" || task.Icon != "📞" || task.Category != types.CategoryPersonal {
		t.Errorf("task = %+v", task)
	}
	if !strings.HasPrefix(task.ID, "custom_") {
		t.Errorf("id = %q, want custom_ prefix", task.ID)
	}

	out, _, err = executeCmd(t, "tasks", "list", "--json")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if resp := decodeOutput[types.TaskListResponse](t, out); resp.Total != 15 {
		t.Errorf("total after add = %d, want 15", resp.Total)
	}

	if _, _, err := executeCmd(t, "tasks", "remove", task.ID); err != nil {
		t.Fatalf("tasks remove: %v", err)
	}

	out, _, err = executeCmd(t, "tasks", "list", "--json")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if resp := decodeOutput[types.TaskListResponse](t, out); resp.Total != 14 {
		t.Errorf("total after remove = %d, want 14", resp.Total)
	}
}

func TestTasksAdd_BlankLabelFails(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := executeCmd(t, "tasks", "add", "   ")
	if err == nil || !strings.Contains(err.Error(), "label") {
		t.Errorf("error = %v, want label failure", err)
	}
	if matches, _ := filepath.Glob(env.dbPath); len(matches) != 0 {
		t.Error("validation failure should not open the store")
	}
}

func TestTasksRemove_BuiltinFails(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCmd(t, "tasks", "remove", "fajr")
	if err == nil || !strings.Contains(err.Error(), "built-in") {
		t.Errorf("error = %v, want built-in failure", err)
	}
}

func TestToggle_FlipsTwice(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "toggle", "water", "--json")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if resp := decodeOutput[types.ToggleResponse](t, out); !resp.Complete || resp.TaskID != "water" {
		t.Errorf("first toggle = %+v, want complete", resp)
	}

	out, _, err = executeCmd(t, "toggle", "water", "--json")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if resp := decodeOutput[types.ToggleResponse](t, out); resp.Complete {
		t.Errorf("second toggle = %+v, want incomplete", resp)
	}
}

func TestToggle_UnknownTaskFails(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCmd(t, "toggle", "nope")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestReflect_SetShowClear(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "reflect", "Grateful", "for", "iftar", "--json")
	if err != nil {
		t.Fatalf("reflect: %v", err)
	}
	if view := decodeOutput[types.DayView](t, out); view.Reflection != "Grateful for iftar" {
		t.Errorf("reflection = %q", view.Reflection)
	}

	out, _, err = executeCmd(t, "reflect", "show", "--json")
	if err != nil {
		t.Fatalf("reflect show: %v", err)
	}
	if view := decodeOutput[types.DayView](t, out); view.Reflection != "Grateful for iftar" {
		t.Errorf("show reflection = %q", view.Reflection)
	}

	out, _, err = executeCmd(t, "reflect", "--clear", "--json")
	if err != nil {
		t.Fatalf("reflect --clear: %v", err)
	}
	if view := decodeOutput[types.DayView](t, out); view.Reflection != "" {
		t.Errorf("cleared reflection = %q", view.Reflection)
	}
}

func TestReflectShow_PastDayIsEmpty(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "reflect", "show", "--day", "2026-03-01", "--json")
	if err != nil {
		t.Fatalf("reflect show: %v", err)
	}
	view := decodeOutput[types.DayView](t, out)
	if view.Day != "2026-03-01" || view.DayNumber != 2 {
		t.Errorf("view = %+v, want day 2", view)
	}
	if view.Completed == nil || len(view.Completed) != 0 {
		t.Errorf("completed = %#v, want empty list", view.Completed)
	}
}

func TestReflectShow_BadDayFails(t *testing.T) {
	newTestEnv(t)

	if _, _, err := executeCmd(t, "reflect", "show", "--day", "03/01/2026"); err == nil {
		t.Error("expected error for malformed --day")
	}
}

func TestProgress_JSON(t *testing.T) {
	newTestEnv(t)

	if _, _, err := executeCmd(t, "toggle", "iftar"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	out, _, err := executeCmd(t, "progress", "--json")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	overview := decodeOutput[types.Overview](t, out)
	if overview.WindowDays != 30 || len(overview.Days) != 30 {
		t.Errorf("window = %d, days = %d", overview.WindowDays, len(overview.Days))
	}
	if overview.Overall.DoneCount != 1 || overview.Overall.TotalCount != 14 {
		t.Errorf("overall = %+v, want 1/14", overview.Overall)
	}
}

func TestProgress_Text(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "progress")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	for _, want := range []string{"of 30", "Today:", "Month", "DAY"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPrayer_FetchesThenCaches(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := executeCmd(t, "prayer", "--date", "2026-03-05", "--json")
	if err != nil {
		t.Fatalf("prayer: %v", err)
	}
	resp := decodeOutput[api.PrayerTimesResponse](t, out)
	if resp.City != "Dhaka" || resp.Times.Maghrib != "18:03" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Display["maghrib"] != "6:03 PM" {
		t.Errorf("display maghrib = %q", resp.Display["maghrib"])
	}

	if _, _, err := executeCmd(t, "prayer", "--date", "2026-03-05"); err != nil {
		t.Fatalf("prayer (cached): %v", err)
	}
	if got := env.upstreamCalls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestPrayer_FlagOverrides(t *testing.T) {
	newTestEnv(t)

	out, _, err := executeCmd(t, "prayer", "--city", "Sylhet", "--method", "1", "--date", "2026-03-05", "--json")
	if err != nil {
		t.Fatalf("prayer: %v", err)
	}
	resp := decodeOutput[api.PrayerTimesResponse](t, out)
	if resp.City != "Sylhet" || resp.Method != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPrayer_InvalidInputFails(t *testing.T) {
	newTestEnv(t)

	if _, _, err := executeCmd(t, "prayer", "--method=-1"); err == nil {
		t.Error("expected error for negative method")
	}
	if _, _, err := executeCmd(t, "prayer", "--date", "tomorrow"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestPrayer_Disabled(t *testing.T) {
	newTestEnv(t)
	t.Setenv("LANTERN_PRAYER_ENABLED", "false")

	_, _, err := executeCmd(t, "prayer")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("error = %v, want disabled", err)
	}
}

func TestConfigFlag_MissingFileFails(t *testing.T) {
	newTestEnv(t)

	_, _, err := executeCmd(t, "tasks", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %v, want config failure", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "lantern "+Version {
		t.Errorf("output = %q", out)
	}
}
