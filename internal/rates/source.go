package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RateSource supplies the base-currency rate of one currency for a given
// effective date.
type RateSource interface {
	DailyRate(ctx context.Context, currency string, date time.Time) (float64, error)
}

// SourceClient queries the central-bank plain-text rate endpoint.
type SourceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSourceClient constructs a client for the rate endpoint.
func NewSourceClient(baseURL string) (*SourceClient, error) {
	if baseURL == "" {
		return nil, errors.New("rate source: empty base url")
	}
	return &SourceClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// DailyRate fetches and parses the published rate of currency against the
// base currency for the given effective date, normalized per single unit.
func (c *SourceClient) DailyRate(ctx context.Context, currency string, date time.Time) (float64, error) {
	if c == nil || c.httpClient == nil {
		return 0, errors.New("rate source: nil client")
	}
	day := date.Format("2006-01-02")
	query := url.Values{}
	query.Set("from", day)
	query.Set("to", day)
	query.Set("currency", currency)
	query.Set("format", "txt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("rate source: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate source: fetch %s: %w", currency, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("rate source: fetch %s: status %d", currency, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("rate source: read body: %w", err)
	}
	return parseRatePayload(string(body))
}

// parseRatePayload parses the line-oriented source payload. Line 0 is a
// header whose "Amount: N" token gives the quoted unit (default 1); the
// remaining lines are date|rate pairs with a comma decimal separator. The
// newest usable quote is the last non-empty date|rate line.
func parseRatePayload(payload string) (float64, error) {
	payload = strings.ReplaceAll(payload, "\r\n", "\n")
	lines := strings.Split(payload, "\n")
	if len(lines) < 2 {
		return 0, errors.New("rate source: payload too short")
	}

	amount := headerAmount(lines[0])

	for i := len(lines) - 1; i >= 1; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(parts[1]), ",", ".")
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if rate <= 0 {
			return 0, fmt.Errorf("rate source: non-positive rate %q", parts[1])
		}
		return rate / amount, nil
	}
	return 0, errors.New("rate source: no rate line in payload")
}

func headerAmount(header string) float64 {
	for _, field := range strings.Split(header, "|") {
		field = strings.TrimSpace(field)
		if !strings.HasPrefix(field, "Amount:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(field, "Amount:"))
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return 1
		}
		return float64(parsed)
	}
	return 1
}
