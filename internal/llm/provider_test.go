package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysReadingCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"passage":"..."}`), Usage: Usage{InputTokens: 420, OutputTokens: 310, TotalTokens: 730}},
		MockResponse{Content: json.RawMessage(`{"overall_feedback":"good"}`)},
	)

	gen := WithPurpose(context.Background(), PurposeReadingGen)
	resp, err := mock.Generate(gen, Request{System: "write a passage", Messages: []Message{{Role: RoleUser, Content: "level: toeic"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"passage":"..."}`, string(resp.Content))
	assert.Equal(t, 420, resp.Usage.InputTokens)
	assert.Equal(t, "mock", resp.Model)

	grade := WithPurpose(context.Background(), PurposeReadingGrade)
	resp, err = mock.Generate(grade, Request{Messages: []Message{{Role: RoleUser, Content: "answers: B, C"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall_feedback":"good"}`, string(resp.Content))

	assert.Equal(t, 2, mock.CallCount())
	assert.Equal(t, []string{PurposeReadingGen, PurposeReadingGrade}, mock.Purposes)
	assert.Equal(t, "write a passage", mock.Calls[0].System)
}

func TestMockProvider_ExhaustedScriptIsUnavailable(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	mock.AddResponse(MockResponse{Err: &ErrRateLimit{}})
	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)
}

func TestPurposeFrom(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(context.Background(), "")))
	assert.Equal(t, PurposeReadingGrade, PurposeFrom(WithPurpose(context.Background(), PurposeReadingGrade)))
}

func TestConfig_Validate(t *testing.T) {
	keyed := OpenAIConfig{APIKey: "sk-test"}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default provider needs a key", Config{Provider: "openai"}, true},
		{"openai", Config{Provider: "openai", OpenAI: keyed}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-ant"}}, false},
		{"openrouter ignores the openai key", Config{Provider: "openrouter", OpenAI: keyed}, true},
		{"gemini", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-test"}}, false},
		{"negative rate limit", Config{Provider: "openai", OpenAI: keyed, RateLimit: RateLimitConfig{PerMinute: -1}}, true},
		{"mock for offline runs", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "ollama"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
