// Package assistants is a minimal client for the OpenAI Assistants v2
// threads API: create a thread, add messages, start a run and read the
// reply.
package assistants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client drives assistant threads.
type Client interface {
	CreateThread(ctx context.Context) (*Thread, error)
	AddMessage(ctx context.Context, threadID, role, content string) error
	CreateRun(ctx context.Context, threadID string, req RunRequest) (*Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*Run, error)
	LatestReply(ctx context.Context, threadID string) (string, error)
}

// Thread is a server-side conversation.
type Thread struct {
	ID string `json:"id"`
}

// RunRequest starts an assistant run on a thread.
type RunRequest struct {
	AssistantID            string `json:"assistant_id"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// Run statuses reported by the API.
const (
	RunQueued         = "queued"
	RunInProgress     = "in_progress"
	RunRequiresAction = "requires_action"
	RunCancelling     = "cancelling"
	RunCancelled      = "cancelled"
	RunFailed         = "failed"
	RunCompleted      = "completed"
	RunIncomplete     = "incomplete"
	RunExpired        = "expired"
)

// Run is one assistant execution on a thread.
type Run struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Status    string    `json:"status"`
	LastError *RunError `json:"last_error,omitempty"`
}

// RunError describes why a run failed.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("assistants: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an assistants API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreateThread(ctx context.Context) (*Thread, error) {
	var t Thread
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &t); err != nil {
		return nil, eris.Wrap(err, "assistants: create thread")
	}
	return &t, nil
}

func (c *httpClient) AddMessage(ctx context.Context, threadID, role, content string) error {
	body := map[string]string{"role": role, "content": content}
	err := c.do(ctx, http.MethodPost, "/threads/"+url.PathEscape(threadID)+"/messages", body, nil)
	return eris.Wrapf(err, "assistants: add message to %s", threadID)
}

func (c *httpClient) CreateRun(ctx context.Context, threadID string, req RunRequest) (*Run, error) {
	var r Run
	if err := c.do(ctx, http.MethodPost, "/threads/"+url.PathEscape(threadID)+"/runs", req, &r); err != nil {
		return nil, eris.Wrapf(err, "assistants: create run on %s", threadID)
	}
	return &r, nil
}

func (c *httpClient) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var r Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs/" + url.PathEscape(runID)
	if err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, eris.Wrapf(err, "assistants: get run %s", runID)
	}
	return &r, nil
}

type messageList struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// LatestReply returns the text of the newest assistant message.
func (c *httpClient) LatestReply(ctx context.Context, threadID string) (string, error) {
	var list messageList
	path := "/threads/" + url.PathEscape(threadID) + "/messages?order=desc&limit=10"
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return "", eris.Wrapf(err, "assistants: list messages on %s", threadID)
	}
	for _, m := range list.Data {
		if m.Role != "assistant" {
			continue
		}
		var parts []string
		for _, part := range m.Content {
			if part.Type == "text" {
				parts = append(parts, part.Text.Value)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
	}
	return "", eris.Errorf("assistants: no assistant reply on %s", threadID)
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("OpenAI-Beta", "assistants=v2")
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := string(respBody)
		if json.Unmarshal(respBody, &e) == nil && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
