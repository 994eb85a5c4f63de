package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the public Aladhan API.
const DefaultBaseURL = "https://api.aladhan.com/v1"

// Fetcher retrieves prayer times for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Times, error)
}

// Compile-time interface check
var _ Fetcher = (*Client)(nil)

// ClientOptions configures a Client. Zero values pick the defaults.
type ClientOptions struct {
	BaseURL      string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

// Client calls the Aladhan timingsByCity endpoint with retries.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = opts.Timeout
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.Logger = opts.Logger.With("component", "prayer")
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    rc,
	}
}

type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// Fetch requests the times for q. Timings carrying a zone suffix such as
// "05:01 (+06)" are cut to HH:MM.
func (c *Client) Fetch(ctx context.Context, q Query) (Times, error) {
	reqURL, err := c.timingsURL(q)
	if err != nil {
		return Times{}, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Times{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return Times{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Times{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Times{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	t := Times{
		Fajr:    cleanTiming(body.Data.Timings["Fajr"]),
		Dhuhr:   cleanTiming(body.Data.Timings["Dhuhr"]),
		Asr:     cleanTiming(body.Data.Timings["Asr"]),
		Maghrib: cleanTiming(body.Data.Timings["Maghrib"]),
		Isha:    cleanTiming(body.Data.Timings["Isha"]),
	}
	if err := t.Validate(); err != nil {
		return Times{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return t, nil
}

func (c *Client) timingsURL(q Query) (string, error) {
	day, err := q.Date.Midnight(time.UTC)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("city", q.City)
	params.Set("country", q.Country)
	params.Set("method", fmt.Sprint(q.Method))

	return fmt.Sprintf("%s/timingsByCity/%s?%s", c.baseURL, day.Format("02-01-2006"), params.Encode()), nil
}

func cleanTiming(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, ' '); i >= 0 {
		v = v[:i]
	}
	return v
}
