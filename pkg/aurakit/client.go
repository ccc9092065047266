package aurakit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// APIError is a non-2xx answer of the service.
type APIError struct {
	Status  int
	Message string
}

func (v *APIError) Error() string {
	return fmt.Sprintf("aura service answered %d: %s", v.Status, v.Message)
}

// Client talks to the AuraHeart HTTP API.
type Client struct {
	Endpoint string
	AppID    string
	HTTP     *http.Client

	mu        sync.RWMutex
	token     string
	onExpired func()
}

func NewClient(cfg Config) *Client {
	return &Client{
		Endpoint: cfg.Endpoint,
		AppID:    cfg.AppID,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (v *Client) Token() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.token
}

func (v *Client) SetToken(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.token = token
}

// OnSessionExpired registers a callback fired when the service rejects the
// token of the client. The token is already cleared by then.
func (v *Client) OnSessionExpired(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onExpired = fn
}

// expire drops the token when it is still the one the service rejected.
func (v *Client) expire(token string) {
	v.mu.Lock()
	if v.token != token {
		v.mu.Unlock()
		return
	}
	v.token = ""
	fn := v.onExpired
	v.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (v *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.Endpoint+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Aura-App", v.AppID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := v.Token()
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && len(token) > 0 &&
		strings.Contains(resp.Header.Get("WWW-Authenticate"), "invalid_token") {
		v.expire(token)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return jsoniter.Unmarshal(raw, out)
}
