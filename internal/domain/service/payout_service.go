package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tradevault/pkg/logger"
)

// PayoutService is the opaque external payout capability used when an admin
// approves a withdrawal. The ledger debit has already been committed by the
// time Payout is called; a payout failure is reported to the caller but must
// never unwind ledger state.
type PayoutService interface {
	Payout(ctx context.Context, amount int64, destination string) (*PayoutResult, error)
}

type PayoutResult struct {
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
}

type httpPayoutService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPPayoutService(baseURL, apiKey string) PayoutService {
	return &httpPayoutService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type payoutRequest struct {
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
}

func (s *httpPayoutService) Payout(ctx context.Context, amount int64, destination string) (*PayoutResult, error) {
	logger.Info("Requesting payout of %d coins to %s", amount, destination)

	body, err := json.Marshal(payoutRequest{Amount: amount, Destination: destination})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payout request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(s.apiKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payout request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payout response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payout gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result PayoutResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse payout response: %w", err)
	}

	logger.Info("Payout accepted: batch=%s status=%s", result.BatchID, result.Status)
	return &result, nil
}
