package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/timewell/timewell-backend/internal/logger"
)

// Error taxonomy for a single model invocation. The caller, not this
// package, decides whether a failure falls back or surfaces.
var (
	// ErrUnavailable: the provider could not be reached or refused the
	// request (network, timeout, auth, server error).
	ErrUnavailable = errors.New("openai: model unavailable")
	// ErrInvalidOutput: the provider responded but the output cannot be
	// interpreted as the requested shape.
	ErrInvalidOutput = errors.New("openai: model output invalid")
)

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type Completion struct {
	Text  string
	Model string
	Usage TokenUsage
}

// StructuredCompletion carries the raw text of a schema-constrained
// completion. Decoding belongs to the caller's parser, which tolerates
// near-JSON output from providers that do not honor strict mode.
type StructuredCompletion struct {
	Text  string
	Model string
	Usage TokenUsage
}

// Client is the language-model invoker used by the coach subsystem. Both
// calls are single-shot: no internal retry, one outbound request per call.
type Client interface {
	// GenerateText: free-form completion.
	GenerateText(ctx context.Context, system string, user string) (Completion, error)

	// GenerateJSON: schema-constrained structured completion.
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (StructuredCompletion, error)
}

// WithModel returns a client that uses the provided model for generation
// calls. If model is empty or base is nil, base is returned unchanged.
func WithModel(base Client, model string) Client {
	model = strings.TrimSpace(model)
	if base == nil || model == "" {
		return base
	}
	if c, ok := base.(*client); ok {
		clone := *c
		clone.model = model
		clone.log = c.log.With("model", model)
		return &clone
	}
	return base
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature *float64
	maxTokens   int
	httpClient  *http.Client
}

// Config bounds a single invocation. TimeoutSeconds is deployment
// configuration; a hung provider call must not pin a serving goroutine.
type Config struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeoutSec := cfg.TimeoutSeconds
	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	if timeoutSec <= 0 {
		timeoutSec = 60
	}

	var tempPtr *float64
	if cfg.Temperature > 0 {
		t := cfg.Temperature
		tempPtr = &t
	}

	return &client{
		log:         log.With("service", "OpenAIClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: tempPtr,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type responsesRequest struct {
	Model string `json:"model"`

	Input []responsesMessage `json:"input"`

	Text struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text,omitempty"`

	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"`
}

type responsesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Model  string `json:"model"`
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" && c.Text != "" {
					out.WriteString(c.Text)
				}
			}
		}
	}
	return out.String()
}

// doOnce performs exactly one request against the Responses API. Transport
// and non-2xx failures map to ErrUnavailable; an undecodable body maps to
// ErrInvalidOutput.
func (c *client) doOnce(ctx context.Context, req *responsesRequest) (responsesResponse, error) {
	var resp responsesResponse

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return resp, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", &buf)
	if err != nil {
		return resp, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return resp, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw, readErr := io.ReadAll(httpResp.Body)
	_ = httpResp.Body.Close()
	if readErr != nil {
		return resp, fmt.Errorf("%w: %v", ErrUnavailable, readErr)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		c.log.Warn("OpenAI request failed", "status", httpResp.StatusCode, "body", truncateBody(raw))
		return resp, fmt.Errorf("%w: status %d", ErrUnavailable, httpResp.StatusCode)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return resp, fmt.Errorf("%w: decode: %v", ErrInvalidOutput, err)
	}
	return resp, nil
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (Completion, error) {
	req := responsesRequest{
		Model: c.model,
		Input: []responsesMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:     c.temperature,
		MaxOutputTokens: c.maxTokens,
	}

	resp, err := c.doOnce(ctx, &req)
	if err != nil {
		return Completion{}, err
	}
	if resp.Refusal != "" {
		return Completion{}, fmt.Errorf("%w: model refused: %s", ErrInvalidOutput, resp.Refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return Completion{}, fmt.Errorf("%w: no output_text in response", ErrInvalidOutput)
	}
	return Completion{
		Text:  text,
		Model: modelOf(resp, c.model),
		Usage: TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (StructuredCompletion, error) {
	if schemaName == "" {
		return StructuredCompletion{}, fmt.Errorf("schemaName required")
	}
	if schema == nil {
		return StructuredCompletion{}, fmt.Errorf("schema required")
	}

	req := responsesRequest{
		Model: c.model,
		Input: []responsesMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:     c.temperature,
		MaxOutputTokens: c.maxTokens,
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}

	resp, err := c.doOnce(ctx, &req)
	if err != nil {
		return StructuredCompletion{}, err
	}
	if resp.Refusal != "" {
		return StructuredCompletion{}, fmt.Errorf("%w: model refused: %s", ErrInvalidOutput, resp.Refusal)
	}
	jsonText := extractOutputText(resp)
	if strings.TrimSpace(jsonText) == "" {
		return StructuredCompletion{}, fmt.Errorf("%w: no output_text in response", ErrInvalidOutput)
	}
	return StructuredCompletion{
		Text:  jsonText,
		Model: modelOf(resp, c.model),
		Usage: TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func modelOf(resp responsesResponse, fallback string) string {
	if strings.TrimSpace(resp.Model) != "" {
		return resp.Model
	}
	return fallback
}

func truncateBody(raw []byte) string {
	const max = 512
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
