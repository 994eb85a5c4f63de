package prayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperengineering/lantern/internal/persist"
	"github.com/hyperengineering/lantern/internal/store"
	"github.com/hyperengineering/lantern/internal/types"
)

const aladhanBody = `{
	"code": 200,
	"status": "OK",
	"data": {
		"timings": {
			"Fajr": "05:01 (+06)",
			"Sunrise": "06:15",
			"Dhuhr": "12:09",
			"Asr": "15:27",
			"Maghrib": "18:03",
			"Isha": "19:17"
		}
	}
}`

var dhakaTimes = Times{Fajr: "05:01", Dhuhr: "12:09", Asr: "15:27", Maghrib: "18:03", Isha: "19:17"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOptions{
		BaseURL:      baseURL,
		RetryMax:     1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		Logger:       discardLogger(),
	})
}

var dhakaQuery = Query{City: "Dhaka", Country: "BD", Method: 2, Date: "2026-03-05"}

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, aladhanBody)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Fetch(context.Background(), dhakaQuery)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got != dhakaTimes {
		t.Errorf("Fetch = %+v, want %+v", got, dhakaTimes)
	}
	if gotPath != "/timingsByCity/05-03-2026" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "city=Dhaka&country=BD&method=2" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestClient_Fetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, aladhanBody)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Fetch(context.Background(), dhakaQuery); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{}`},
		{"server error", http.StatusInternalServerError, `{}`},
		{"bad json", http.StatusOK, `{"data": `},
		{"missing timing", http.StatusOK, `{"data":{"timings":{"Fajr":"05:01"}}}`},
		{"garbage timing", http.StatusOK, `{"data":{"timings":{"Fajr":"dawn","Dhuhr":"12:00","Asr":"15:00","Maghrib":"18:00","Isha":"19:00"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Fetch(context.Background(), dhakaQuery)
			if !errors.Is(err, ErrUpstream) {
				t.Errorf("Fetch error = %v, want ErrUpstream", err)
			}
		})
	}
}

func TestClient_Fetch_InvalidDate(t *testing.T) {
	q := dhakaQuery
	q.Date = "tomorrow"
	if _, err := newTestClient("http://127.0.0.1:1").Fetch(context.Background(), q); err == nil {
		t.Error("expected error for invalid date")
	}
}

// stubFetcher counts calls and returns a canned result.
type stubFetcher struct {
	calls int
	times Times
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, q Query) (Times, error) {
	f.calls++
	return f.times, f.err
}

func newTestService(t *testing.T, f Fetcher) (*Service, *store.MemoryStore) {
	t.Helper()
	kv := store.NewMemoryStore()
	return NewService(f, persist.New(kv, discardLogger()), discardLogger()), kv
}

func TestService_CachesSuccess(t *testing.T) {
	f := &stubFetcher{times: dhakaTimes}
	svc, kv := newTestService(t, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.Times(ctx, dhakaQuery)
		if err != nil {
			t.Fatalf("Times failed: %v", err)
		}
		if got != dhakaTimes {
			t.Errorf("Times = %+v", got)
		}
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
	if _, err := kv.Get(ctx, "ramadan_prayer_times_Dhaka_2026-03-05"); err != nil {
		t.Errorf("cache record missing: %v", err)
	}
}

func TestService_DoesNotCacheFailure(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("%w: status 500", ErrUpstream)}
	svc, kv := newTestService(t, f)
	ctx := context.Background()

	if _, err := svc.Times(ctx, dhakaQuery); !errors.Is(err, ErrUpstream) {
		t.Fatalf("Times error = %v, want ErrUpstream", err)
	}
	keys, _ := kv.Keys(ctx, CacheKeyPrefix)
	if len(keys) != 0 {
		t.Errorf("failure was cached: %v", keys)
	}

	f.err = nil
	f.times = dhakaTimes
	if _, err := svc.Times(ctx, dhakaQuery); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if f.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", f.calls)
	}
}

func TestService_IgnoresCorruptCache(t *testing.T) {
	f := &stubFetcher{times: dhakaTimes}
	svc, kv := newTestService(t, f)
	ctx := context.Background()
	_ = kv.Put(ctx, CacheKey("Dhaka", "2026-03-05"), `{"fajr":"soon"}`)

	got, err := svc.Times(ctx, dhakaQuery)
	if err != nil || got != dhakaTimes {
		t.Fatalf("Times = %+v, %v", got, err)
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", f.calls)
	}
}

func TestService_SeparateEntriesPerCityAndDate(t *testing.T) {
	f := &stubFetcher{times: dhakaTimes}
	svc, _ := newTestService(t, f)
	ctx := context.Background()

	queries := []Query{
		dhakaQuery,
		{City: "Dhaka", Country: "BD", Method: 2, Date: "2026-03-06"},
		{City: "Chittagong", Country: "BD", Method: 2, Date: "2026-03-05"},
	}
	for _, q := range queries {
		if _, err := svc.Times(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls != 3 {
		t.Errorf("fetch calls = %d, want 3", f.calls)
	}
}

func TestService_Prune(t *testing.T) {
	svc, kv := newTestService(t, &stubFetcher{times: dhakaTimes})
	ctx := context.Background()
	for _, day := range []types.DayKey{"2026-03-01", "2026-03-04", "2026-03-05"} {
		q := dhakaQuery
		q.Date = day
		if _, err := svc.Times(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	_ = kv.Put(ctx, persist.KeyCompleted, `{}`)

	if got := svc.Prune(ctx, "2026-03-05"); got != 2 {
		t.Errorf("Prune = %d, want 2", got)
	}
	keys, _ := kv.Keys(ctx, CacheKeyPrefix)
	if len(keys) != 1 || keys[0] != CacheKey("Dhaka", "2026-03-05") {
		t.Errorf("remaining keys = %v", keys)
	}
	if _, err := kv.Get(ctx, persist.KeyCompleted); err != nil {
		t.Error("Prune touched unrelated records")
	}
}

func TestNextPrayer(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2026, 3, 5, h, m, 0, 0, time.UTC) }

	tests := []struct {
		now  time.Time
		want string
	}{
		{day(0, 0), Fajr},
		{day(5, 0), Fajr},
		{day(5, 1), Dhuhr},
		{day(12, 8), Dhuhr},
		{day(15, 30), Maghrib},
		{day(19, 16), Isha},
		{day(19, 17), Fajr},
		{day(23, 59), Fajr},
	}

	for _, tt := range tests {
		if got := NextPrayer(dhakaTimes, tt.now); got != tt.want {
			t.Errorf("NextPrayer(%s) = %s, want %s", tt.now.Format("15:04"), got, tt.want)
		}
	}
}

func TestFormat12h(t *testing.T) {
	tests := map[string]string{
		"16:05": "4:05 PM",
		"04:30": "4:30 AM",
		"00:15": "12:15 AM",
		"12:00": "12:00 PM",
		"":      "",
		"noon":  "noon",
	}

	for in, want := range tests {
		if got := Format12h(in); got != want {
			t.Errorf("Format12h(%q) = %q, want %q", in, got, want)
		}
	}
}
