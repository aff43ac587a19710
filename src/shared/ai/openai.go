package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/campus-assist/enquiry-relay/src/shared/httpx"
)

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// defaultHTTPTimeout bounds one provider call end to end; the relay's
// per-request context deadline is usually tighter.
const defaultHTTPTimeout = 120 * time.Second

type OpenAIClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	endpoint    string
	httpClient  *http.Client
}

func NewOpenAIClient(apiKey, model string, temperature float64, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		apiKey:      apiKey,
		model:       valueOrDefault(model, "gpt-4o-mini"),
		temperature: orFloat(temperature, 0.7),
		maxTokens:   orInt(maxTokens, 1000),
		endpoint:    openAIEndpoint,
		httpClient:  httpx.NewDefault(defaultHTTPTimeout),
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (Outcome, error) {
	reqBody := map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Outcome{Status: resp.StatusCode, Body: string(body)}, nil
	}
	return decodeCompletion(resp.StatusCode, body), nil
}

// decodeCompletion extracts choices[0].message.content from a chat-completion
// response. A 200 that does not match the expected shape fails closed as a
// non-OK outcome so the caller treats it as a hard provider failure.
func decodeCompletion(status int, body []byte) Outcome {
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return Outcome{Status: status, Body: string(body)}
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return Outcome{Status: status, Body: string(body)}
	}
	return Outcome{OK: true, Text: result.Choices[0].Message.Content}
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
