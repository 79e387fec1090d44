package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter is an LLM-backed generator speaking the OpenAI-compatible chat
// completions wire format. It is an optional runtime backend; the pipeline's
// correctness never depends on it.
type OpenRouter struct {
	token   string
	model   string
	baseURL string
	client  *http.Client
}

// OpenRouterOption customizes the client.
type OpenRouterOption func(*OpenRouter)

// WithBaseURL points the client at an alternate endpoint (tests use a local
// httptest server).
func WithBaseURL(url string) OpenRouterOption {
	return func(o *OpenRouter) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) OpenRouterOption {
	return func(o *OpenRouter) {
		if client != nil {
			o.client = client
		}
	}
}

// NewOpenRouter builds an OpenRouter generator for the given model.
func NewOpenRouter(token, model string, opts ...OpenRouterOption) *OpenRouter {
	o := &OpenRouter{
		token:   token,
		model:   model,
		baseURL: openRouterBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat any           `json:"response_format,omitempty"`
	Temperature    float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements Generator by issuing one chat completion.
func (o *OpenRouter) Generate(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return Response{}, &Error{Backend: "openrouter", Err: err}
	}
	body := chatCompletionRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Instruction},
			{Role: "user", Content: string(payload)},
		},
	}
	if req.Mode == ModeStructured {
		body.ResponseFormat = map[string]any{"type": "json_object"}
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return Response{}, &Error{Backend: "openrouter", Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", buf)
	if err != nil {
		return Response{}, &Error{Backend: "openrouter", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.token)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := o.client.Do(httpReq)
	if err != nil {
		return Response{}, &Error{Backend: "openrouter", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return Response{}, &Error{Backend: "openrouter", Err: fmt.Errorf("status %d: %s", res.StatusCode, string(b))}
	}
	var cr chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return Response{}, &Error{Backend: "openrouter", Err: err}
	}
	if len(cr.Choices) == 0 {
		return Response{}, &Error{Backend: "openrouter", Err: fmt.Errorf("empty choices")}
	}
	return Response{Text: cr.Choices[0].Message.Content}, nil
}
