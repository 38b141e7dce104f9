package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of page requests in flight
// at once. A large limit keeps wall-clock latency low; the limit does
// not affect which pages end up in the total.
const DefaultConcurrency = 200

// Scanner fans out concurrent page fetches for one year and finds the
// first page past the end of the valid data.
type Scanner struct {
	fetcher     PageFetcher
	concurrency int
	logger      zerolog.Logger
}

// NewScanner creates a scanner that keeps at most concurrency page
// requests outstanding. Values below 1 fall back to DefaultConcurrency.
func NewScanner(fetcher PageFetcher, concurrency int, logger zerolog.Logger) *Scanner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Scanner{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ScanFrom runs one scanning pass for year, submitting fetches for
// consecutive pages beginning at start until a non-successful outcome
// has been observed, then waits for every submitted fetch to land.
//
// Fetches already submitted when the stop condition triggers are not
// cancelled; their results are recorded but non-successful entries never
// contribute to a total, so the extra requests are harmless. The
// returned boundary is the lowest-numbered non-successful page of the
// pass. Completion order is unconstrained, so the lowest page number,
// not the first failure to complete, marks the provisional end of data.
func (s *Scanner) ScanFrom(ctx context.Context, year, start int, session Session) (Result, PageOutcome, error) {
	started := time.Now()

	var (
		mu      sync.Mutex
		result  = make(Result)
		stopped atomic.Bool
	)

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	pages := 0
	for page := start; ctx.Err() == nil && !stopped.Load(); page++ {
		g.Go(func() error {
			out := s.fetcher.FetchPage(ctx, year, page, session.Token)
			if out.Status != StatusSuccess {
				stopped.Store(true)
			}
			pagesFetched.WithLabelValues(out.Status.String()).Inc()
			mu.Lock()
			result[out.Page] = out
			mu.Unlock()
			return nil
		})
		pages++
	}

	// Barrier: the pass is only finished once every submitted fetch,
	// including speculative ones past the boundary, has completed.
	_ = g.Wait()
	passesTotal.Inc()

	if err := ctx.Err(); err != nil {
		return nil, PageOutcome{}, err
	}

	boundary, err := findBoundary(result)
	if err != nil {
		return nil, PageOutcome{}, err
	}

	s.logger.Debug().
		Int("year", year).
		Int("start", start).
		Int("submitted", pages).
		Int("boundary", boundary.Page).
		Str("boundary_status", boundary.Status.String()).
		Dur("duration", time.Since(started)).
		Msg("Scanning pass complete")

	return result, boundary, nil
}

// findBoundary selects the minimum-page non-successful outcome of a pass.
func findBoundary(result Result) (PageOutcome, error) {
	var boundary PageOutcome
	found := false
	for _, out := range result {
		if out.Status == StatusSuccess {
			continue
		}
		if !found || out.Page < boundary.Page {
			boundary = out
			found = true
		}
	}
	if !found {
		return PageOutcome{}, ErrNoBoundary
	}
	return boundary, nil
}
