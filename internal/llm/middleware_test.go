package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsRequest(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3, TotalTokens: 15},
	})
	p := WithLogging(mock, repo, logger.Nop())

	ctx := WithPurpose(context.Background(), "reading-gen")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Purpose != "reading-gen" || !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 3 {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.ResponseBody != `{"ok":true}` {
		t.Errorf("ResponseBody = %q", ev.ResponseBody)
	}
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	p := WithLogging(mock, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %T", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("failed request not recorded: %+v", repo.events)
	}
}

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithRateLimit(mock, RateLimitConfig{}); p != Provider(mock) {
		t.Fatal("zero rate limit should not wrap the provider")
	}
}

func TestRateLimit_WaitHonoursContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRateLimit(mock, RateLimitConfig{PerMinute: 1, Burst: 1})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("second request reached the provider")
	}
}
