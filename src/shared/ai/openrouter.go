package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/campus-assist/enquiry-relay/src/shared/httpx"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouterClient is the fallback provider. OpenRouter speaks the same
// chat-completion dialect as OpenAI, so the response decoding is shared.
type OpenRouterClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	endpoint    string
	httpClient  *http.Client
}

func NewOpenRouterClient(apiKey, model string, temperature float64, maxTokens int) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:      apiKey,
		model:       valueOrDefault(model, "meta-llama/llama-3.1-70b-instruct"),
		temperature: orFloat(temperature, 0.7),
		maxTokens:   orInt(maxTokens, 1000),
		endpoint:    openRouterEndpoint,
		httpClient:  httpx.NewDefault(defaultHTTPTimeout),
	}
}

func (c *OpenRouterClient) Name() string { return "openrouter" }

func (c *OpenRouterClient) Complete(ctx context.Context, messages []Message) (Outcome, error) {
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
