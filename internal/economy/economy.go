// Package economy gates paid actions against the host bot's currency
// bank. The bank is an external collaborator: balances live there, and
// a failed debit is a hard stop before any local state changes.
package economy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paimonworks/harem-service/internal/domain"
)

// Gate checks and debits user balances.
type Gate interface {
	Balance(ctx context.Context, guildID, userID string) (int64, error)
	// Debit withdraws amount from the user's balance. It returns
	// domain.ErrInsufficientFunds when the balance does not cover it.
	Debit(ctx context.Context, guildID, userID string, amount int64) error
}

// BankClient talks to the host bank over HTTP.
type BankClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBankClient(baseURL string) *BankClient {
	return &BankClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (c *BankClient) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	url := fmt.Sprintf("%s/guilds/%s/users/%s/balance", c.baseURL, guildID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("bank balance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bank returned status %d", resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	return body.Balance, nil
}

type debitRequest struct {
	Amount int64 `json:"amount"`
}

func (c *BankClient) Debit(ctx context.Context, guildID, userID string, amount int64) error {
	payload, err := json.Marshal(debitRequest{Amount: amount})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/guilds/%s/users/%s/withdraw", c.baseURL, guildID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bank debit request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusPaymentRequired, http.StatusConflict:
		return domain.ErrInsufficientFunds
	default:
		return fmt.Errorf("bank returned status %d", resp.StatusCode)
	}
}

// FreeGate is used when no bank is configured. Every paid action is
// free and balances are unbounded.
type FreeGate struct{}

func (FreeGate) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	return 1<<62 - 1, nil
}

func (FreeGate) Debit(ctx context.Context, guildID, userID string, amount int64) error {
	return nil
}
