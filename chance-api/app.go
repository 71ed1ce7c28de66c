package chance_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	ErrAPIStatus   = errors.New("chance api returned non-200 status")
	ErrInvalidJSON = errors.New("chance api returned invalid JSON")
	ErrGraphQL     = errors.New("chance api returned graphql errors")
)

// maxLotteries is the largest page the subgraph serves.
const maxLotteries = 1000

const lotteryFields = `
    id
    prizeProvider
    prizeAmount
    ticketPrice
    pickRange
    maxTickets
    duration
    affiliatePercentage
    ticketsSold
    grossRevenue
    status
    hasWinner
    winner
    createdAt`

// ChanceAPI queries the Chance lottery subgraph.
type ChanceAPI struct {
	HttpClient *http.Client
	APIUrl     string
}

// NewHTTPClient returns a client with the dial and header timeouts the bot uses.
func NewHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
		},
	}
}

func InitChanceAPI(httpClient *http.Client, apiURL string) *ChanceAPI {
	if httpClient == nil {
		httpClient = NewHTTPClient(30 * time.Second)
	}
	return &ChanceAPI{
		HttpClient: httpClient,
		APIUrl:     apiURL,
	}
}

// RecentLotteries returns the newest n lotteries, newest first.
func (c *ChanceAPI) RecentLotteries(ctx context.Context, n int) ([]Lottery, error) {
	if n <= 0 || n > maxLotteries {
		n = maxLotteries
	}
	query := fmt.Sprintf(`query RecentLotteries {
  lotteries(first: %d, orderBy: createdAt, orderDirection: desc) {%s
  }
}`, n, lotteryFields)
	return c.lotteries(ctx, query)
}

// AllLotteries returns up to the subgraph page limit, newest first. Used for
// leaderboards and platform stats.
func (c *ChanceAPI) AllLotteries(ctx context.Context) ([]Lottery, error) {
	return c.RecentLotteries(ctx, maxLotteries)
}

func (c *ChanceAPI) lotteries(ctx context.Context, query string) ([]Lottery, error) {
	var env lotteriesEnvelope
	if err := c.post(ctx, query, &env); err != nil {
		return nil, err
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}
	return env.Data.Lotteries, nil
}

func (c *ChanceAPI) post(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIUrl, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request to chance api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s - %s", ErrAPIStatus, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}
