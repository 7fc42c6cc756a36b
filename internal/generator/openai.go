// Package generator produces persona-voiced answers via the OpenAI chat
// completions API. Its one exported call never fails past the boundary:
// every internal error comes back as a marked placeholder string so a
// successful unlock always stores something.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production OpenAI endpoint
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultModel keeps answers cheap and quick
const DefaultModel = "gpt-4.1-mini"

// Placeholder markers stored verbatim when generation cannot happen
const (
	unavailableMarker = "[generator unavailable]"
	errorMarker       = "[generator error]"
)

// Client calls the chat completions endpoint with a bounded timeout
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// New builds a generator client. An empty apiKey is allowed; Generate then
// degrades to placeholder answers instead of failing requests.
func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Wire types for the chat completions call
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// systemPrompt instructs the model to stay in the persona's voice
func systemPrompt(name, description string) string {
	return fmt.Sprintf(`You are a character named %q.

Character description:
%s

Answer entirely in this character's personality, speech style and values.
Keep the answer natural and in character, about 2–4 sentences, in a casual
friendly register.`, name, description)
}

// Generate asks the model to answer a daily question in the persona's voice.
// It never returns an error: missing credentials, timeouts and upstream
// failures all come back as placeholder strings that the ledger stores
// verbatim.
func (c *Client) Generate(ctx context.Context, name, description, question string) string {
	if c.apiKey == "" {
		return fmt.Sprintf("%s no API key configured; cannot answer for %s", unavailableMarker, name)
	}

	// Bound the upstream call so a slow model cannot pin a request slot
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(name, description)},
			{Role: "user", Content: "Question: " + question},
		},
		MaxTokens:   300,
		Temperature: 0.8,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%s %v", errorMarker, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("%s %v", errorMarker, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("%s %v", errorMarker, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Sprintf("%s %v", errorMarker, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Sprintf("%s unexpected response (status %d)", errorMarker, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return fmt.Sprintf("%s %s", errorMarker, parsed.Error.Message)
		}
		return fmt.Sprintf("%s upstream returned status %d", errorMarker, resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return fmt.Sprintf("%s upstream returned no choices", errorMarker)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content)
}
