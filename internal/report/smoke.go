package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/iplstats/internal/domain/stats"
	"github.com/okian/iplstats/pkg/logger"
)

const (
	defaultSmokeRounds  = 1
	defaultSmokeTimeout = 30 * time.Second
	defaultSmokeRetries = 5
	defaultRetryAfter   = time.Second
	maxRetryAfter       = 2 * time.Minute
	maxErrorBody        = 4 << 10
)

// SmokeConfig drives a smoke run against a live server.
type SmokeConfig struct {
	BaseURL string
	Rounds  int // each view is requested once per selection per round
	Workers int
	Timeout time.Duration
	// MaxRetries bounds how often one request is retried after a 429,
	// waiting for the server's Retry-After each time.
	MaxRetries int
}

// SmokeStats summarises a smoke run.
type SmokeStats struct {
	Requests  int64
	Succeeded int64
	Failed    int64
	Throttled int64 // 429 answers that were waited out and retried
	Duration  time.Duration
	Failures  []string
}

type smokeRequest struct {
	view  string
	query url.Values
}

type viewBody struct {
	View  string      `json:"view"`
	Table stats.Table `json:"table"`
}

func (c *cli) smokeCmd() *cobra.Command {
	cfg := SmokeConfig{}
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Request every view from a running server concurrently and check the answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := RunSmoke(cmd.Context(), cfg)
			if st != nil {
				t := stats.Table{Columns: []string{"Metric", "Value"}, Rows: [][]any{
					{"Requests", st.Requests},
					{"Succeeded", st.Succeeded},
					{"Failed", st.Failed},
					{"Throttled", st.Throttled},
					{"Duration", st.Duration.Round(time.Millisecond).String()},
				}}
				for _, f := range st.Failures {
					t.Rows = append(t.Rows, []any{"Failure", f})
				}
				if rerr := c.renderTable("smoke", t); rerr != nil {
					return rerr
				}
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&cfg.Rounds, "rounds", defaultSmokeRounds, "times each request is repeated")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", defaultSmokeTimeout, "HTTP request timeout")
	f.IntVar(&cfg.MaxRetries, "retries", defaultSmokeRetries, "retries per request when the server rate limits")
	return cmd
}

// RunSmoke checks the service health, lists its views and requests each
// one unfiltered and once per default season, concurrently. Rate-limited
// answers are retried after the server's Retry-After. It fails when any
// request does not return a well-formed table.
func RunSmoke(ctx context.Context, cfg SmokeConfig) (*SmokeStats, error) {
	if cfg.Rounds < 1 {
		cfg.Rounds = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSmokeTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	log := logger.Get().Named("smoke")
	var st SmokeStats
	client := &smokeClient{
		http:       &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		throttled:  &st.Throttled,
	}
	start := time.Now()

	if _, err := client.fetch(ctx, cfg.BaseURL+"/healthz"); err != nil {
		return nil, fmt.Errorf("%w: health: %w", ErrSmokeFailed, err)
	}

	var list struct {
		Views []string `json:"views"`
	}
	if err := client.fetchJSON(ctx, cfg.BaseURL+"/api/v1/views", &list); err != nil {
		return nil, fmt.Errorf("%w: list views: %w", ErrSmokeFailed, err)
	}
	var opts struct {
		DefaultSeasons []string `json:"default_seasons"`
	}
	if err := client.fetchJSON(ctx, cfg.BaseURL+"/api/v1/options", &opts); err != nil {
		return nil, fmt.Errorf("%w: options: %w", ErrSmokeFailed, err)
	}

	selections := []url.Values{{}}
	for _, s := range opts.DefaultSeasons {
		selections = append(selections, url.Values{"season": {s}})
	}
	var reqs []smokeRequest
	for range cfg.Rounds {
		for _, q := range selections {
			for _, v := range list.Views {
				reqs = append(reqs, smokeRequest{view: v, query: q})
			}
		}
	}
	log.Info(ctx, "starting smoke run",
		logger.String("url", cfg.BaseURL),
		logger.Int("views", len(list.Views)),
		logger.Int("requests", len(reqs)),
		logger.Int("workers", cfg.Workers))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		requests = make(chan smokeRequest, cfg.Workers*2)
	)
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range requests {
				atomic.AddInt64(&st.Requests, 1)
				if err := client.checkView(ctx, cfg.BaseURL, r); err != nil {
					atomic.AddInt64(&st.Failed, 1)
					mu.Lock()
					st.Failures = append(st.Failures, err.Error())
					mu.Unlock()
					continue
				}
				atomic.AddInt64(&st.Succeeded, 1)
			}
		}()
	}

	go func() {
		defer close(requests)
		for _, r := range reqs {
			select {
			case <-ctx.Done():
				return
			case requests <- r:
			}
		}
	}()
	wg.Wait()
	st.Duration = time.Since(start)

	log.Info(ctx, "smoke run finished",
		logger.Int("succeeded", int(st.Succeeded)),
		logger.Int("failed", int(st.Failed)),
		logger.Int("throttled", int(atomic.LoadInt64(&st.Throttled))),
		logger.Duration("took", st.Duration))
	if st.Failed > 0 {
		return &st, fmt.Errorf("%w: %d of %d requests", ErrSmokeFailed, st.Failed, st.Requests)
	}
	if err := ctx.Err(); err != nil {
		return &st, err
	}
	return &st, nil
}

// smokeClient is an HTTP client that retries rate-limited requests.
type smokeClient struct {
	http       *http.Client
	maxRetries int
	throttled  *int64
}

// checkView verifies one view answers 200 with a table whose rows all have
// one cell per column.
func (c *smokeClient) checkView(ctx context.Context, base string, r smokeRequest) error {
	target := base + "/api/v1/views/" + url.PathEscape(r.view)
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	var body viewBody
	if err := c.fetchJSON(ctx, target, &body); err != nil {
		return fmt.Errorf("%s: %w", r.view, err)
	}
	if body.View != r.view {
		return fmt.Errorf("%s: answered as %q", r.view, body.View)
	}
	if len(body.Table.Columns) == 0 {
		return fmt.Errorf("%s: table has no columns", r.view)
	}
	for i, row := range body.Table.Rows {
		if len(row) != len(body.Table.Columns) {
			return fmt.Errorf("%s: row %d has %d cells for %d columns", r.view, i, len(row), len(body.Table.Columns))
		}
	}
	return nil
}

// fetch GETs target, waiting out 429 answers up to maxRetries times.
func (c *smokeClient) fetch(ctx context.Context, target string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		b, wait, err := c.get(ctx, target)
		if err == nil || wait == 0 || attempt >= c.maxRetries {
			return b, err
		}
		atomic.AddInt64(c.throttled, 1)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// get performs one request. A non-zero wait means the server rate limited
// the call and asked to retry after that long.
func (c *smokeClient) get(ctx context.Context, target string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("unexpected status %s: %s", resp.Status, b)
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, retryAfter(resp.Header.Get("Retry-After")), err
		}
		return nil, 0, err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return b, 0, nil
}

func (c *smokeClient) fetchJSON(ctx context.Context, target string, v any) error {
	b, err := c.fetch(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// retryAfter reads a Retry-After value in seconds, falling back to one
// second when it is absent or unparseable.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}
