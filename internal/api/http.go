package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/logging"
)

// HTTPClient implements Client against the momAI REST backend.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewHTTPClient creates a client for the given base URL. The timeout bounds
// every request; callers may tighten it further per call via ctx.
func NewHTTPClient(baseURL string, timeout time.Duration, log *logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.Sub("api"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccountID string `json:"accountId"`
	Token     string `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", domain.Identity{}, loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return domain.Identity{}, err
	}
	if out.Token == "" {
		return domain.Identity{}, fmt.Errorf("login response missing token")
	}
	return domain.Identity{AccountID: out.AccountID, Token: out.Token}, nil
}

func (c *HTTPClient) ListConversations(ctx context.Context, identity domain.Identity) ([]domain.Conversation, error) {
	var out []domain.Conversation
	if err := c.do(ctx, http.MethodGet, "/conversations", identity, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizeMessages(out[i].Messages)
	}
	return out, nil
}

type createConversationRequest struct {
	Title string `json:"title,omitempty"`
}

func (c *HTTPClient) CreateConversation(ctx context.Context, identity domain.Identity, title string) (*domain.Conversation, error) {
	var out domain.Conversation
	err := c.do(ctx, http.MethodPost, "/conversations", identity, createConversationRequest{Title: title}, &out)
	if err != nil {
		return nil, err
	}
	normalizeMessages(out.Messages)
	return &out, nil
}

type postMessageRequest struct {
	Text string `json:"text"`
}

// PostMessage returns the assistant reply when the backend includes it
// inline, or nil on an empty (202/204) acceptance.
func (c *HTTPClient) PostMessage(ctx context.Context, identity domain.Identity, conversationID, text string) (*domain.Message, error) {
	path := "/conversations/" + conversationID + "/messages"
	body, status, err := c.doRaw(ctx, http.MethodPost, path, identity, postMessageRequest{Text: text})
	if err != nil {
		return nil, err
	}
	if status == http.StatusAccepted || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var reply domain.Message
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("decoding reply: %w", err)
	}
	if reply.Text == "" && reply.ID == "" {
		// Accepted but the reply shape is unrecognized; let the caller reconcile.
		return nil, nil
	}
	if reply.State == "" {
		reply.State = domain.StateConfirmed
	}
	return &reply, nil
}

func (c *HTTPClient) ListMessages(ctx context.Context, identity domain.Identity, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	path := "/conversations/" + conversationID + "/messages"
	if err := c.do(ctx, http.MethodGet, path, identity, nil, &out); err != nil {
		return nil, err
	}
	normalizeMessages(out)
	return out, nil
}

// do issues a JSON request and decodes a JSON response into out (which may
// be nil for empty responses).
func (c *HTTPClient) do(ctx context.Context, method, path string, identity domain.Identity, in, out any) error {
	body, _, err := c.doRaw(ctx, method, path, identity, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// doRaw issues a request and returns the raw body and status. Non-2xx
// responses become *APIError carrying the server's error string when one
// can be extracted.
func (c *HTTPClient) doRaw(ctx context.Context, method, path string, identity domain.Identity, in any) ([]byte, int, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if identity.Known() {
		req.Header.Set("Authorization", "Bearer "+identity.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("request rejected")
		return nil, resp.StatusCode, &APIError{Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, resp.StatusCode, nil
}

// errorMessage extracts a human-readable error string from a response body.
func errorMessage(body []byte) string {
	var shape struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		if shape.Error != "" {
			return shape.Error
		}
		if shape.Message != "" {
			return shape.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// normalizeMessages stamps remote messages as confirmed; the backend does
// not track client-side delivery state.
func normalizeMessages(msgs []domain.Message) {
	for i := range msgs {
		if msgs[i].State == "" {
			msgs[i].State = domain.StateConfirmed
		}
	}
}
