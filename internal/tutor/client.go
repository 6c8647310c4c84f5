package tutor

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"github.com/alnah/go-mdmath/internal/assets"
)

// DefaultModels is the fallback chain, best model first.
var DefaultModels = []string{
	"gemini-3-flash-preview",
	"gemini-2.5-flash",
	"gemini-2.0-flash",
}

// Generation parameters.
const (
	ChatTemperature     float32 = 0.7
	ChatMaxOutputTokens int32   = 4096
	JSONTemperature     float32 = 0.5
)

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

var _ contentGenerator = (*genai.Models)(nil)

// Client sends conversations to Gemini with model fallback.
type Client struct {
	models contentGenerator
	chain  []string
	system string
	logf   func(format string, args ...any)
}

// Option configures a Client.
type Option func(*Client)

// WithModels replaces the fallback chain.
func WithModels(models ...string) Option {
	return func(c *Client) {
		c.chain = append([]string(nil), models...)
	}
}

// WithSystemInstruction replaces the tutor persona.
func WithSystemInstruction(s string) Option {
	return func(c *Client) {
		c.system = s
	}
}

// WithLogger sets a function receiving model switch notices.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(c *Client) {
		c.logf = logf
	}
}

// NewClient creates a Client for apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return newClient(gc.Models, opts...)
}

func newClient(models contentGenerator, opts ...Option) (*Client, error) {
	c := &Client{
		models: models,
		chain:  append([]string(nil), DefaultModels...),
		logf:   func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.chain) == 0 {
		return nil, ErrNoModels
	}
	if c.system == "" {
		prompt, err := assets.LoadPrompt(assets.TutorPromptName)
		if err != nil {
			return nil, err
		}
		c.system = prompt
	}
	return c, nil
}

// Models returns the fallback chain.
func (c *Client) Models() []string {
	return append([]string(nil), c.chain...)
}

// StreamChat sends history and passes each text chunk of the reply to
// onChunk. A model that fails before its first chunk is replaced by the
// next one in the chain; once text has been delivered, a failure is
// returned as is. An error from onChunk stops the stream and is returned
// unwrapped.
func (c *Client) StreamChat(ctx context.Context, history []Message, onChunk func(string) error) error {
	contents := BuildContents(history)
	if len(contents) == 0 {
		return ErrEmptyHistory
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.system, genai.RoleUser),
		Temperature:       genai.Ptr(ChatTemperature),
		MaxOutputTokens:   ChatMaxOutputTokens,
	}

	return c.fallback(ctx, func(model string) (bool, error) {
		started := false
		for resp, err := range c.models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				return started, err
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			started = true
			if err := onChunk(text); err != nil {
				return true, &callbackError{err}
			}
		}
		return started, nil
	})
}

// GenerateJSON sends a single prompt and returns the reply, requesting a
// JSON response. system replaces the client's instruction for this call.
func (c *Client) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyHistory
	}
	if system == "" {
		system = c.system
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(JSONTemperature),
	}

	var text string
	err := c.fallback(ctx, func(model string) (bool, error) {
		resp, err := c.models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return false, err
		}
		text = resp.Text()
		if strings.TrimSpace(text) == "" {
			return false, ErrEmptyResponse
		}
		return true, nil
	})
	return text, err
}

// callbackError marks an error returned by the caller's chunk handler.
type callbackError struct{ err error }

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

// fallback runs attempt for each model of the chain. attempt reports
// whether it produced output; a model that did is never replaced.
func (c *Client) fallback(ctx context.Context, attempt func(model string) (bool, error)) error {
	var lastErr error
	for i, model := range c.chain {
		started, err := attempt(model)
		if err == nil {
			return nil
		}
		if cb, ok := err.(*callbackError); ok {
			return cb.err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = classify(model, err)
		if started {
			return lastErr
		}

		msg := errorMessage(err)
		last := i == len(c.chain)-1
		if isRetryable(msg) && !last {
			c.logf("model %s unavailable (%v), switching to %s", model, err, c.chain[i+1])
			continue
		}
		if isKeyFailure(msg) {
			return lastErr
		}
		if !last {
			c.logf("model %s failed (%v), switching to %s", model, err, c.chain[i+1])
		}
	}
	return lastErr
}
