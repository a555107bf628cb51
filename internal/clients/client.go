package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmsavelev/tripbooking/internal/domain"
)

// envelope mirrors the JSON shape every service responds with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// httpClient is the shared base for all capability clients. Every call is
// bounded by the client timeout; transport failures surface as
// RemoteCallError so callers can distinguish them from business rejections.
type httpClient struct {
	service string
	baseURL string
	client  *http.Client
}

func newHTTPClient(service, baseURL string, timeout time.Duration) httpClient {
	return httpClient{
		service: service,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c httpClient) call(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.RemoteCallError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &domain.RemoteCallError{Service: c.service, Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Resource: c.service + " resource"}
	case resp.StatusCode == http.StatusBadRequest:
		return &domain.BusinessRuleError{Reason: env.Message}
	case resp.StatusCode >= 400:
		return &domain.RemoteCallError{Service: c.service, Err: fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domain.RemoteCallError{Service: c.service, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
