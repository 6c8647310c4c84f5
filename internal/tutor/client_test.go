package tutor

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"
)

// fakeReply scripts one model: chunks are streamed, then err (if any).
type fakeReply struct {
	chunks []string
	err    error
}

// fakeGenerator replays scripted replies per model and records calls.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]fakeReply
	calls   []string
	configs []*genai.GenerateContentConfig
}

func (f *fakeGenerator) record(model string, config *genai.GenerateContentConfig) fakeReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, model)
	f.configs = append(f.configs, config)
	return f.replies[model]
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	reply := f.record(model, config)
	if reply.err != nil {
		return nil, reply.err
	}
	return textResponse(strings.Join(reply.chunks, "")), nil
}

func (f *fakeGenerator) GenerateContentStream(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	reply := f.record(model, config)
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range reply.chunks {
			if !yield(textResponse(c), nil) {
				return
			}
		}
		if reply.err != nil {
			yield(nil, reply.err)
		}
	}
}

func newTestClient(t *testing.T, replies map[string]fakeReply) (*Client, *fakeGenerator) {
	t.Helper()

	gen := &fakeGenerator{replies: replies}
	c, err := newClient(gen, WithModels("m1", "m2", "m3"))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	return c, gen
}

var question = []Message{{Role: RoleUser, Text: "Giải phương trình $x^2 = 4$"}}

func TestClient_StreamChat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		replies   map[string]fakeReply
		wantText  string
		wantCalls []string
		wantErr   error
	}{
		{
			name:      "first model answers",
			replies:   map[string]fakeReply{"m1": {chunks: []string{"Ta có ", "$x = \\pm 2$"}}},
			wantText:  "Ta có $x = \\pm 2$",
			wantCalls: []string{"m1"},
		},
		{
			name: "rate limit falls back",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 429, Message: quota exceeded, Status: RESOURCE_EXHAUSTED")},
				"m2": {chunks: []string{"ok"}},
			},
			wantText:  "ok",
			wantCalls: []string{"m1", "m2"},
		},
		{
			name: "overload falls back twice",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 503, Status: UNAVAILABLE")},
				"m2": {err: errors.New("The model is overloaded")},
				"m3": {chunks: []string{"ok"}},
			},
			wantText:  "ok",
			wantCalls: []string{"m1", "m2", "m3"},
		},
		{
			name: "invalid key stops the chain",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT")},
			},
			wantCalls: []string{"m1"},
			wantErr:   ErrInvalidKey,
		},
		{
			name: "forbidden stops the chain",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 403, Status: PERMISSION_DENIED")},
			},
			wantCalls: []string{"m1"},
			wantErr:   ErrKeyRejected,
		},
		{
			name: "other error tries next model",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 404, Message: models/m1 is not found")},
				"m2": {chunks: []string{"ok"}},
			},
			wantText:  "ok",
			wantCalls: []string{"m1", "m2"},
		},
		{
			name: "all models fail with last error",
			replies: map[string]fakeReply{
				"m1": {err: errors.New("Error 503")},
				"m2": {err: errors.New("Error 503")},
				"m3": {err: errors.New("Error 429")},
			},
			wantCalls: []string{"m1", "m2", "m3"},
			wantErr:   ErrQuota,
		},
		{
			name: "no fallback after first chunk",
			replies: map[string]fakeReply{
				"m1": {chunks: []string{"Ta có"}, err: errors.New("Error 503")},
				"m2": {chunks: []string{"never"}},
			},
			wantText:  "Ta có",
			wantCalls: []string{"m1"},
			wantErr:   ErrOverloaded,
		},
		{
			name: "json error body unwrapped",
			replies: map[string]fakeReply{
				"m1": {err: errors.New(`{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`)},
			},
			wantCalls: []string{"m1"},
			wantErr:   ErrInvalidKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, gen := newTestClient(t, tt.replies)

			var got strings.Builder
			err := c.StreamChat(context.Background(), question, func(chunk string) error {
				got.WriteString(chunk)
				return nil
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("StreamChat() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("StreamChat() error = %v", err)
			}
			if got.String() != tt.wantText {
				t.Errorf("StreamChat() text = %q, want %q", got.String(), tt.wantText)
			}
			if strings.Join(gen.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("models called = %v, want %v", gen.calls, tt.wantCalls)
			}
		})
	}
}

func TestClient_StreamChat_Config(t *testing.T) {
	t.Parallel()

	c, gen := newTestClient(t, map[string]fakeReply{"m1": {chunks: []string{"ok"}}})
	if err := c.StreamChat(context.Background(), question, func(string) error { return nil }); err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	cfg := gen.configs[0]
	if cfg.Temperature == nil || *cfg.Temperature != ChatTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, ChatTemperature)
	}
	if cfg.MaxOutputTokens != ChatMaxOutputTokens {
		t.Errorf("MaxOutputTokens = %d, want %d", cfg.MaxOutputTokens, ChatMaxOutputTokens)
	}
	if cfg.SystemInstruction == nil || !strings.Contains(cfg.SystemInstruction.Parts[0].Text, "Thầy Long") {
		t.Error("SystemInstruction does not carry the tutor persona")
	}
}

func TestClient_StreamChat_CallbackError(t *testing.T) {
	t.Parallel()

	c, gen := newTestClient(t, map[string]fakeReply{"m1": {chunks: []string{"a", "b"}}})
	stop := errors.New("stop")

	err := c.StreamChat(context.Background(), question, func(string) error { return stop })
	if err != stop {
		t.Errorf("StreamChat() error = %v, want callback error unwrapped", err)
	}
	if len(gen.calls) != 1 {
		t.Errorf("models called = %v, want one", gen.calls)
	}
}

func TestClient_StreamChat_EmptyHistory(t *testing.T) {
	t.Parallel()

	c, gen := newTestClient(t, nil)
	history := []Message{{Role: RoleUser, Text: "  "}, {Role: RoleModel, Text: "lỗi", IsError: true}}

	err := c.StreamChat(context.Background(), history, func(string) error { return nil })
	if !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("StreamChat() error = %v, want ErrEmptyHistory", err)
	}
	if len(gen.calls) != 0 {
		t.Errorf("models called = %v, want none", gen.calls)
	}
}

func TestClient_StreamChat_ContextCancelled(t *testing.T) {
	t.Parallel()

	c, gen := newTestClient(t, map[string]fakeReply{"m1": {err: context.Canceled}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.StreamChat(ctx, question, func(string) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("StreamChat() error = %v, want context.Canceled", err)
	}
	if len(gen.calls) != 1 {
		t.Errorf("models called = %v, want no fallback after cancellation", gen.calls)
	}
}

func TestClient_GenerateJSON(t *testing.T) {
	t.Parallel()

	c, gen := newTestClient(t, map[string]fakeReply{
		"m1": {chunks: []string{"  "}},
		"m2": {chunks: []string{`{"ok":true}`}},
	})

	got, err := c.GenerateJSON(context.Background(), "Chỉ trả JSON.", "Soạn giáo án")
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("GenerateJSON() = %q", got)
	}
	if strings.Join(gen.calls, ",") != "m1,m2" {
		t.Errorf("models called = %v, want empty reply to fall back", gen.calls)
	}

	cfg := gen.configs[1]
	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
	}
	if cfg.Temperature == nil || *cfg.Temperature != JSONTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, JSONTemperature)
	}
	if cfg.SystemInstruction.Parts[0].Text != "Chỉ trả JSON." {
		t.Errorf("SystemInstruction = %q", cfg.SystemInstruction.Parts[0].Text)
	}
}

func TestClient_GenerateJSON_AllEmpty(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, map[string]fakeReply{})
	_, err := c.GenerateJSON(context.Background(), "", "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("GenerateJSON() error = %v, want ErrEmptyResponse", err)
	}
}

func TestNewClient_Options(t *testing.T) {
	t.Parallel()

	if _, err := newClient(&fakeGenerator{}, WithModels()); !errors.Is(err, ErrNoModels) {
		t.Errorf("newClient(WithModels()) error = %v, want ErrNoModels", err)
	}

	c, err := newClient(&fakeGenerator{}, WithSystemInstruction("persona"))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}
	if c.system != "persona" {
		t.Errorf("system = %q, want %q", c.system, "persona")
	}
	if got := c.Models(); strings.Join(got, ",") != strings.Join(DefaultModels, ",") {
		t.Errorf("Models() = %v, want %v", got, DefaultModels)
	}
}

func TestClient_LogsModelSwitch(t *testing.T) {
	t.Parallel()

	var logs []string
	gen := &fakeGenerator{replies: map[string]fakeReply{
		"m1": {err: errors.New("Error 429")},
		"m2": {chunks: []string{"ok"}},
	}}
	c, err := newClient(gen, WithModels("m1", "m2"), WithLogger(func(format string, args ...any) {
		logs = append(logs, format)
	}))
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}

	if err := c.StreamChat(context.Background(), question, func(string) error { return nil }); err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("logged %d switches, want 1", len(logs))
	}
}
