package scan

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves scripted per-year page counts. A reject hook
// simulates expired sessions.
type fakeFetcher struct {
	mu      sync.Mutex
	counts  map[int][]int // year -> movie count per page, 1-based
	reject  func(year, page int, token string) bool
	fetches int
}

func (f *fakeFetcher) FetchPage(_ context.Context, year, page int, token string) PageOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.reject != nil && f.reject(year, page, token) {
		return PageOutcome{Page: page, Status: StatusUnauthorized}
	}
	counts := f.counts[year]
	if page < 1 || page > len(counts) {
		return PageOutcome{Page: page, Status: StatusEndOfData}
	}
	return PageOutcome{Page: page, Count: counts[page-1], Status: StatusSuccess}
}

func TestScanFromFindsBoundary(t *testing.T) {
	fetcher := &fakeFetcher{counts: map[int][]int{1905: {10, 6}}}
	scanner := NewScanner(fetcher, 4, zerolog.Nop())

	result, boundary, err := scanner.ScanFrom(context.Background(), 1905, 1, Session{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, 3, boundary.Page)
	assert.Equal(t, StatusEndOfData, boundary.Status)
	assert.Equal(t, 16, result.Total())
	assert.Equal(t, 2, result.Pages())

	// Every page below the boundary was fetched successfully.
	for page := 1; page < boundary.Page; page++ {
		out, ok := result[page]
		require.True(t, ok, "page %d missing from pass result", page)
		assert.Equal(t, StatusSuccess, out.Status)
	}
}

func TestScanFromSpeculativeResultsAreRecordedButNotCounted(t *testing.T) {
	fetcher := &fakeFetcher{counts: map[int][]int{1900: {2}}}
	scanner := NewScanner(fetcher, 16, zerolog.Nop())

	result, boundary, err := scanner.ScanFrom(context.Background(), 1900, 1, Session{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, 2, boundary.Page)
	// Speculative fetches past the boundary may have landed; none of
	// them may contribute to the total.
	assert.Equal(t, 2, result.Total())
	for page, out := range result {
		if page > 1 {
			assert.NotEqual(t, StatusSuccess, out.Status)
		}
	}
}

func TestScanFromDeterministicAcrossConcurrency(t *testing.T) {
	counts := make([]int, 40)
	want := 0
	for i := range counts {
		counts[i] = i + 1
		want += i + 1
	}

	for _, limit := range []int{1, 200} {
		fetcher := &fakeFetcher{counts: map[int][]int{1999: counts}}
		scanner := NewScanner(fetcher, limit, zerolog.Nop())

		result, boundary, err := scanner.ScanFrom(context.Background(), 1999, 1, Session{Token: "tok"})
		require.NoError(t, err)
		assert.Equal(t, want, result.Total(), "concurrency limit %d", limit)
		assert.Equal(t, 41, boundary.Page, "concurrency limit %d", limit)
	}
}

func TestScanFromStartsAtResumePage(t *testing.T) {
	fetcher := &fakeFetcher{counts: map[int][]int{1950: {5, 7, 9}}}
	scanner := NewScanner(fetcher, 4, zerolog.Nop())

	result, boundary, err := scanner.ScanFrom(context.Background(), 1950, 2, Session{Token: "tok"})
	require.NoError(t, err)

	assert.NotContains(t, result, 1)
	assert.Equal(t, 4, boundary.Page)
	assert.Equal(t, 16, result.Total())
}

func TestScanFromEmptyYear(t *testing.T) {
	fetcher := &fakeFetcher{counts: map[int][]int{}}
	scanner := NewScanner(fetcher, 4, zerolog.Nop())

	result, boundary, err := scanner.ScanFrom(context.Background(), 1800, 1, Session{Token: "tok"})
	require.NoError(t, err)

	assert.Equal(t, 1, boundary.Page)
	assert.Equal(t, StatusEndOfData, boundary.Status)
	assert.Zero(t, result.Total())
}

func TestScanFromExpiredSessionBoundary(t *testing.T) {
	fetcher := &fakeFetcher{
		counts: map[int][]int{2020: {14808}},
		reject: func(_, _ int, token string) bool { return token != "fresh" },
	}
	scanner := NewScanner(fetcher, 4, zerolog.Nop())

	_, boundary, err := scanner.ScanFrom(context.Background(), 2020, 1, Session{Token: "stale"})
	require.NoError(t, err)

	assert.Equal(t, 1, boundary.Page)
	assert.Equal(t, StatusUnauthorized, boundary.Status)
}

func TestScanFromCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{counts: map[int][]int{1905: {10, 6}}}
	scanner := NewScanner(fetcher, 4, zerolog.Nop())

	_, _, err := scanner.ScanFrom(ctx, 1905, 1, Session{Token: "tok"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindBoundary(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		wantPage int
		wantErr  bool
	}{
		{
			name: "minimum page wins over completion order",
			result: Result{
				2: {Page: 2, Status: StatusEndOfData},
				5: {Page: 5, Status: StatusUnauthorized},
				1: {Page: 1, Count: 3, Status: StatusSuccess},
			},
			wantPage: 2,
		},
		{
			name: "single failure",
			result: Result{
				1: {Page: 1, Status: StatusUnauthorized},
			},
			wantPage: 1,
		},
		{
			name:    "no failure",
			result:  Result{1: {Page: 1, Count: 3, Status: StatusSuccess}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boundary, err := findBoundary(tt.result)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoBoundary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, boundary.Page)
		})
	}
}
