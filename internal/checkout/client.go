package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
)

// SubmitResult mirrors the intake endpoint's response body.
type SubmitResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
}

// Client posts order payloads to the intake endpoint.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(intakeURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:  intakeURL,
		http: &http.Client{Timeout: timeout},
	}
}

// Submit sends the payload. A transport or serialization failure returns an
// error; a structurally valid response is returned as-is, success or not.
func (c *Client) Submit(ctx context.Context, p domain.OrderPayload, idemKey string) (SubmitResult, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("X-Idempotency-Key", idemKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	var res SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return SubmitResult{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !res.Success && res.Error == "" {
		res.Error = fmt.Sprintf("order intake returned status %d", resp.StatusCode)
	}
	return res, nil
}
