// Scene client for OpenAI-compatible chat completions with local fallback
package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"venueops-sim/internal/config"
	"venueops-sim/internal/logging"
)

const maxErrorBody = 512

// Output is one generated scene. SceneText and ImagePrompt are never empty.
type Output struct {
	SceneText   string          `json:"scene_text"`
	ImagePrompt string          `json:"image_prompt"`
	ImageURL    string          `json:"image_url"`
	ModelUsed   string          `json:"model_used"`
	Failure     FailureCategory `json:"failure,omitempty"`
}

// Fallback reports whether the output was synthesized locally.
func (o Output) Fallback() bool { return o.Failure != "" }

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its own timeout applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records every request in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client turns scene requests into chat-completion calls. It holds no
// mutable state after construction.
type Client struct {
	cfg     config.Client
	http    *http.Client
	metrics *Metrics
}

// NewClient creates a Client from an immutable configuration value.
func NewClient(cfg config.Client, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultClient().Timeout
	}
	c := &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() config.Client { return c.cfg }

// ImageURL composes the image URL for prompt with the client's image settings.
func (c *Client) ImageURL(prompt string, seed int) string {
	return BuildImageURL(c.cfg, prompt, seed)
}

// GenerateScene requests one scene. It never fails: any error yields a
// locally synthesized scene tagged with the failure category.
func (c *Client) GenerateScene(ctx context.Context, sceneName, stateSummary, actionSummary, styleGuide string) Output {
	return c.Generate(ctx, Request{
		SceneName:     sceneName,
		StateSummary:  stateSummary,
		ActionSummary: actionSummary,
		StyleGuide:    styleGuide,
	})
}

// Generate is GenerateScene with optional context lines and an image seed.
func (c *Client) Generate(ctx context.Context, req Request) Output {
	log := logging.FromContext(ctx)
	start := time.Now()

	var out Output
	res, err := c.complete(ctx, req)
	if err != nil {
		cat := CategoryOf(err)
		log.Warn("scene generation fell back to local output", "scene", req.SceneName, "category", cat, "err", err)
		out = fallbackOutput(req, cat)
	} else {
		out = Output{SceneText: res.sceneText, ImagePrompt: res.imagePrompt, ModelUsed: res.model}
		attrs := []any{"scene", req.SceneName, "model", res.model}
		if res.usage != nil {
			attrs = append(attrs, "prompt_tokens", res.usage.PromptTokens, "completion_tokens", res.usage.CompletionTokens)
		}
		log.Debug("scene generated", attrs...)
	}

	seed := req.Seed
	if seed == 0 {
		seed = Unseeded
	}
	out.ImageURL = c.ImageURL(out.ImagePrompt, seed)
	c.metrics.observe(out, time.Since(start), res.usage)
	return out
}

type sceneResult struct {
	sceneText   string
	imagePrompt string
	model       string
	usage       *openai.Usage
}

func (c *Client) newChatRequest(req Request) chatRequest {
	return chatRequest{
		Model: c.cfg.TextModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
		Temperature: c.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Stream: false,
	}
}

func (c *Client) complete(ctx context.Context, req Request) (sceneResult, error) {
	body, err := json.Marshal(c.newChatRequest(req))
	if err != nil {
		return sceneResult{}, failf(TransportFailure, "marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return sceneResult{}, failf(TransportFailure, "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return sceneResult{}, failf(TransportFailure, "API call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return sceneResult{}, failf(TransportFailure, "read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return sceneResult{}, failf(TransportFailure, "API error %d: %s", resp.StatusCode, data)
	}

	comp, err := decodeEnvelope(data)
	if err != nil {
		return sceneResult{}, err
	}
	sceneText, imagePrompt, err := parseScene(comp.content.Text())
	if err != nil {
		return sceneResult{usage: comp.usage}, err
	}

	model := comp.model
	if model == "" {
		model = c.cfg.TextModel
	}
	return sceneResult{sceneText: sceneText, imagePrompt: imagePrompt, model: model, usage: comp.usage}, nil
}

func fallbackOutput(req Request, cat FailureCategory) Output {
	return Output{
		SceneText: fmt.Sprintf("Fallback scene (%s): %s. The staff watches operations closely while the venue atmosphere shifts through the evening.",
			req.SceneName, req.ActionSummary),
		ImagePrompt: fmt.Sprintf("clear photorealistic interior of a managed venue, scene %s, bright balanced lighting, vivid natural colors, detailed environment, manager perspective",
			req.SceneName),
		ModelUsed: fmt.Sprintf("fallback-local (%s)", cat),
		Failure:   cat,
	}
}
