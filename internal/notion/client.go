package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/voice2doc/internal/logging"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

// Client is a minimal Notion API client covering page creation. The rest of
// the API surface is out of scope for publishing.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	logger  *logrus.Entry
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Client authenticated with the given integration token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewLogger("notion"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePageRequest describes the page to create under a parent page.
type CreatePageRequest struct {
	ParentPageID string
	Title        string
	EmojiIcon    string
	Children     []Block
}

// CreatePage creates a Notion page and returns its ID.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (string, error) {
	if c.token == "" {
		return "", fmt.Errorf("notion token is not set")
	}
	if req.ParentPageID == "" {
		return "", fmt.Errorf("parent page id is required")
	}

	payload := map[string]any{
		"parent": map[string]any{"page_id": req.ParentPageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []Span{{
					"type": "text",
					"text": map[string]any{"content": req.Title},
				}},
			},
		},
		"children": req.Children,
	}
	if req.EmojiIcon != "" {
		payload["icon"] = map[string]any{"type": "emoji", "emoji": req.EmojiIcon}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding page payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building page request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Notion-Version", apiVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading page response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("notion API returned %s: %s", resp.Status, string(respBody))
	}

	var page struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &page); err != nil {
		return "", fmt.Errorf("decoding page response: %w", err)
	}

	c.logger.WithField("page", page.ID).Debug("created notion page")
	return page.ID, nil
}
