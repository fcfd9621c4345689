package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/iho/gosettle/internal/domain"
)

// Client implements usecase.ChainGateway against an indexer API that
// exposes the mirror contract's event log and balances. Calls run
// through a circuit breaker and retry transient failures with
// exponential backoff.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	breaker         *gobreaker.CircuitBreaker
	maxRetries      uint64
	initialInterval time.Duration
}

// NewClient creates a new chain gateway client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "chain-gateway",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
			// An unknown group is an answer, not an outage.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, domain.ErrGroupNotFound)
			},
		}),
		maxRetries:      3,
		initialInterval: 100 * time.Millisecond,
	}
}

type settlementEventPayload struct {
	Seq        uint64    `json:"seq"`
	Ref        string    `json:"ref"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SettlementEvents returns mirror settlement events after the cursor.
func (c *Client) SettlementEvents(ctx context.Context, groupID string, afterSeq uint64, limit int) ([]domain.MirrorSettlement, error) {
	url := fmt.Sprintf("%s/v1/groups/%s/settlements?after_seq=%d&limit=%d", c.baseURL, groupID, afterSeq, limit)

	var payload struct {
		Events []settlementEventPayload `json:"events"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	events := make([]domain.MirrorSettlement, 0, len(payload.Events))
	for _, ev := range payload.Events {
		from, err := domain.ParseAddress(ev.From)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}

		to, err := domain.ParseAddress(ev.To)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}

		amount, err := domain.ParseMoney(ev.Amount)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}

		events = append(events, domain.MirrorSettlement{
			Seq:        ev.Seq,
			Ref:        ev.Ref,
			GroupID:    groupID,
			From:       from,
			To:         to,
			Amount:     amount,
			OccurredAt: ev.OccurredAt,
		})
	}

	return events, nil
}

// GroupBalances returns the mirror's signed balance per member.
func (c *Client) GroupBalances(ctx context.Context, groupID string) (map[domain.Address]domain.Money, error) {
	url := fmt.Sprintf("%s/v1/groups/%s/balances", c.baseURL, groupID)

	var payload struct {
		Balances map[string]string `json:"balances"`
	}
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	balances := make(map[domain.Address]domain.Money, len(payload.Balances))
	for member, amount := range payload.Balances {
		addr, err := domain.ParseAddress(member)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", member, err)
		}

		m, err := domain.ParseMoney(amount)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", member, err)
		}

		balances[addr] = m
	}

	return balances, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.initialInterval

		return nil, backoff.Retry(func() error {
			return c.doGet(ctx, url, out)
		}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
	})

	return err
}

func (c *Client) doGet(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(domain.ErrGroupNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("chain gateway returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("chain gateway returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode chain gateway response: %w", err))
	}

	return nil
}
