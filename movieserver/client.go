package movieserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/movietally/movietally/scan"
)

// Client talks to the movie catalog server's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a client for the server at host:port.
func NewClient(host string, port int, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("server host is required")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", port)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	}

	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		httpClient: httpClient,
		limiter:    options.limiter,
		logger:     logger,
	}, nil
}

// Authenticate exchanges credentials for a bearer token. A non-200
// response or a response without a token means the credentials were
// rejected; failing to reach the server at all is a transport error.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	c.logger.Debug().Str("username", username).Msg("Authenticating")

	body, err := json.Marshal(AuthRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("failed to encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %s", ErrAuthRejected,
			&APIError{StatusCode: resp.StatusCode, Body: string(b)})
	}

	var auth AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if auth.Bearer == "" {
		return "", fmt.Errorf("%w: no bearer token in response", ErrAuthRejected)
	}

	c.logger.Debug().Msg("Login successful")
	return auth.Bearer, nil
}

// FetchPage performs one page request and classifies the outcome. A 200
// with a parseable JSON array is a success with the array length as the
// movie count; a 401 marks the session expired; everything else,
// transport failures and malformed bodies included, is indistinguishable
// from the end of the year's data and classifies as such. No retries
// happen here; retry policy belongs to the scan coordinator.
func (c *Client) FetchPage(ctx context.Context, year, page int, token string) scan.PageOutcome {
	out := scan.PageOutcome{Page: page, Status: scan.StatusEndOfData}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return out
		}
	}

	url := fmt.Sprintf("%s/api/movies/%d/%d", c.baseURL, year, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return out
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Int("year", year).Int("page", page).Msg("Page request failed")
		return out
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("year", year).
		Int("page", page).
		Int("status", resp.StatusCode).
		Msg("Fetched page")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		out.Status = scan.StatusUnauthorized
	case resp.StatusCode != http.StatusOK:
		// End of the year's data, or some other failure the status does
		// not let us tell apart from it. Both stop pagination.
	default:
		// Only the element count is meaningful, so the entries are left
		// undecoded. A 200 with a malformed body is rejected rather than
		// trusted.
		var entries []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			c.logger.Warn().Err(err).Int("year", year).Int("page", page).Msg("Malformed page body")
			return out
		}
		out.Status = scan.StatusSuccess
		out.Count = len(entries)
	}

	return out
}
