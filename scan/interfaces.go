package scan

import "context"

// PageFetcher issues one page request and classifies the outcome.
// Implementations perform a single network read and never retry;
// retry policy belongs to the coordinator.
type PageFetcher interface {
	FetchPage(ctx context.Context, year, page int, token string) PageOutcome
}

// Authenticator exchanges credentials for a fresh session token.
type Authenticator interface {
	Authenticate(ctx context.Context) (string, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context) (string, error)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context) (string, error) {
	return f(ctx)
}
