package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// EmailFunctionConfig points at the hosted email function.
type EmailFunctionConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// EmailFunction posts notifications to the hosted email function.
// It implements ports.EmailSender.
type EmailFunction struct {
	url    string
	apiKey string
	client *http.Client
}

func NewEmailFunction(cfg EmailFunctionConfig) *EmailFunction {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &EmailFunction{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

type emailPayload struct {
	Event    domain.NotificationEvent `json:"event"`
	To       string                   `json:"to"`
	Name     string                   `json:"name,omitempty"`
	Language string                   `json:"language,omitempty"`
	Subject  string                   `json:"subject,omitempty"`
	Message  string                   `json:"message,omitempty"`
	Data     map[string]string        `json:"data,omitempty"`
}

// Send performs one POST. Any non-2xx response is an error.
func (e *EmailFunction) Send(ctx context.Context, n domain.Notification) error {
	if e.url == "" {
		return fmt.Errorf("email function url not configured")
	}

	data := n.Data
	if n.Reference != "" {
		data = make(map[string]string, len(n.Data)+1)
		for k, v := range n.Data {
			data[k] = v
		}
		data["reference"] = n.Reference
	}

	body, err := json.Marshal(emailPayload{
		Event:    n.Event,
		To:       n.To,
		Name:     n.Name,
		Language: n.Language,
		Subject:  n.Subject,
		Message:  n.Message,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("call email function: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email function returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	return nil
}
