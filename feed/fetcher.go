package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultFetchMaxSize = 4 << 20 // 4 MB
)

// Fetches one schedule body per (route, date) pair. Individual
// request failures are logged and skipped; the schedule API routinely
// 404s for dates it hasn't published yet, and a partial feed beats no
// feed.
type Fetcher struct {
	BaseURL string
	Delay   time.Duration
	Timeout time.Duration
	MaxSize int
	Logger  zerolog.Logger

	TimeNow func() time.Time
}

func NewFetcher(baseURL string, delay time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		Delay:   delay,
		Timeout: DefaultFetchTimeout,
		MaxSize: DefaultFetchMaxSize,
		Logger:  logger,
		TimeNow: time.Now,
	}
}

// Raw body of a single schedule request, before parsing.
type Body struct {
	Route string
	Date  string
	Data  []byte
}

// Retrieves schedule bodies for every route and every date in
// [start, end], sequentially with Delay between requests.
func (f *Fetcher) FetchRange(ctx context.Context, routes []string, start, end time.Time) ([]Body, error) {
	bodies := []Body{}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		for _, route := range routes {
			url := fmt.Sprintf("%s/%s/%s", f.BaseURL, route, date)

			body, err := f.get(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return bodies, ctx.Err()
				}
				f.Logger.Warn().
					Str("route", route).
					Str("date", date).
					Err(err).
					Msg("Failed to fetch schedule")
				continue
			}

			f.Logger.Info().
				Str("route", route).
				Str("date", date).
				Msg("Fetched schedule")

			bodies = append(bodies, Body{Route: route, Date: date, Data: body})

			if f.Delay > 0 {
				select {
				case <-ctx.Done():
					return bodies, ctx.Err()
				case <-time.After(f.Delay):
				}
			}
		}
	}

	return bodies, nil
}

// Parses fetched bodies into Records, skipping (and logging) any that
// don't decode.
func (f *Fetcher) ParseBodies(bodies []Body) []Record {
	records := make([]Record, 0, len(bodies))
	for _, b := range bodies {
		record, err := ParseRecord(b.Route, b.Date, b.Data)
		if err != nil {
			f.Logger.Warn().
				Str("route", b.Route).
				Str("date", b.Date).
				Err(err).
				Msg("Skipping malformed schedule body")
			continue
		}
		records = append(records, record)
	}
	return records
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{
		Timeout: f.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if f.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(f.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}
