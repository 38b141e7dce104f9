package scan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Orchestrator resolves movie totals for a list of years in request order.
type Orchestrator struct {
	coordinator *Coordinator
	auth        Authenticator
	logger      zerolog.Logger
}

// NewOrchestrator creates an orchestrator around a coordinator and the
// authenticator used for the initial login.
func NewOrchestrator(coordinator *Coordinator, auth Authenticator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		coordinator: coordinator,
		auth:        auth,
		logger:      logger,
	}
}

// Run authenticates once, then scans each requested year in the order
// given. Years are independent; a session renewed while scanning one
// year is reused for the next. A failed initial authentication aborts
// the whole run.
func (o *Orchestrator) Run(ctx context.Context, years []int) ([]YearTotal, error) {
	token, err := o.auth.Authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	session := Session{Token: token}

	totals := make([]YearTotal, 0, len(years))
	for _, year := range years {
		result, renewed, err := o.coordinator.ScanYear(ctx, year, session)
		if err != nil {
			return nil, err
		}
		session = renewed

		total := YearTotal{Year: year, Total: result.Total(), Pages: result.Pages()}
		totals = append(totals, total)

		o.logger.Debug().
			Int("year", year).
			Int("total", total.Total).
			Int("pages", total.Pages).
			Msg("Year finalized")
	}

	return totals, nil
}
