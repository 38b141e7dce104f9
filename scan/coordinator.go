package scan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultMaxReauth is the default cap on consecutive session renewals
// for a single year without the boundary page advancing.
const DefaultMaxReauth = 5

// Coordinator drives scanning passes for a year, renewing the session
// and resuming from a safe earlier page when it expires mid-scan.
type Coordinator struct {
	scanner   *Scanner
	auth      Authenticator
	maxReauth int
	logger    zerolog.Logger
}

// NewCoordinator wires a scanner to an authenticator. Values of
// maxReauth below 1 fall back to DefaultMaxReauth.
func NewCoordinator(scanner *Scanner, auth Authenticator, maxReauth int, logger zerolog.Logger) *Coordinator {
	if maxReauth < 1 {
		maxReauth = DefaultMaxReauth
	}
	return &Coordinator{
		scanner:   scanner,
		auth:      auth,
		maxReauth: maxReauth,
		logger:    logger,
	}
}

// yearState tracks one year's scan across passes.
type yearState struct {
	year        int
	resume      int
	accumulated Result
}

// ScanYear runs scanning passes for year until the boundary signals the
// true end of data, renewing the session whenever the boundary is an
// authorization rejection. The renewed session is returned so callers
// can carry it into later years.
//
// Each retried pass restarts one page before the boundary, so the page
// whose fetch was rejected by the expired session is re-verified and
// never skipped. Pass results merge into the accumulated result with
// successful entries taking precedence, so a page counted in an earlier
// pass is never counted again. Consecutive renewals without the boundary
// advancing are capped; beyond the cap the year fails with ErrReauthLimit
// instead of looping forever against a server that keeps rejecting
// freshly issued tokens.
func (c *Coordinator) ScanYear(ctx context.Context, year int, session Session) (Result, Session, error) {
	state := yearState{year: year, resume: 1, accumulated: make(Result)}

	consecutive := 0
	lastBoundary := 0
	for {
		pass, boundary, err := c.scanner.ScanFrom(ctx, year, state.resume, session)
		if err != nil {
			return nil, session, fmt.Errorf("year %d: %w", year, err)
		}
		state.accumulated.Merge(pass)

		if boundary.Status != StatusUnauthorized {
			return state.accumulated, session, nil
		}

		if boundary.Page > lastBoundary {
			consecutive = 0
		}
		lastBoundary = boundary.Page
		consecutive++
		if consecutive > c.maxReauth {
			return nil, session, fmt.Errorf("year %d: %w", year, ErrReauthLimit)
		}

		c.logger.Debug().
			Int("year", year).
			Int("boundary", boundary.Page).
			Msg("Session expired, re-authenticating")

		token, err := c.auth.Authenticate(ctx)
		if err != nil {
			return nil, session, fmt.Errorf("year %d: re-authentication failed: %w", year, err)
		}
		reauthsTotal.Inc()

		// The token is only replaced here, after the prior pass's
		// barrier, so no in-flight fetch ever races the write.
		session = Session{Token: token}
		state.resume = resumePage(boundary.Page)

		c.logger.Debug().
			Int("year", year).
			Int("resume", state.resume).
			Msg("Resuming scan")
	}
}

// resumePage re-verifies the page immediately before the boundary,
// clamped to the first page.
func resumePage(boundary int) int {
	if boundary <= 1 {
		return 1
	}
	return boundary - 1
}
