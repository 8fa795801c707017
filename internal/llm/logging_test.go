package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/parley/internal/store"
)

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "Nice to meet you!", Usage: Usage{InputTokens: 12, OutputTokens: 4}})
	repo := &recordingRepo{}
	p := WithLogging(mock, "mock", repo, zerolog.Nop())

	ctx := WithSession(WithPurpose(context.Background(), "conversation"), "sess-42")
	resp, err := p.Generate(ctx, Request{
		System:   "be kind",
		Messages: []Message{{Role: RoleUser, Content: "Hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Nice to meet you!" {
		t.Fatalf("unexpected text %q", resp.Text)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.SessionID != "sess-42" || ev.Purpose != "conversation" || ev.Provider != "mock" {
		t.Errorf("unexpected event metadata: %+v", ev)
	}
	if !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Errorf("unexpected event counters: %+v", ev)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nbe kind") || !strings.Contains(ev.RequestBody, "[user]\nHello") {
		t.Errorf("unexpected request body %q", ev.RequestBody)
	}
	if ev.ResponseBody != "Nice to meet you!" {
		t.Errorf("unexpected response body %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	repo := &recordingRepo{}
	p := WithLogging(mock, "mock", repo, zerolog.Nop())

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	if repo.events[0].Success || !strings.Contains(repo.events[0].ErrorMessage, "down") {
		t.Errorf("unexpected event: %+v", repo.events[0])
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", repo.events[0].Purpose)
	}
}

func TestLoggingProvider_RepoErrorDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})
	p := WithLogging(mock, "mock", &recordingRepo{err: errors.New("disk full")}, zerolog.Nop())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), "mock", nil, zerolog.Nop())
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}
func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout did not fire")
	}

	if WithTimeout(blockingProvider{}, 0) != (blockingProvider{}) {
		t.Fatal("expected zero timeout to return the provider unchanged")
	}
}

func TestSessionContext(t *testing.T) {
	if s := SessionFrom(context.Background()); s != "" {
		t.Fatalf("expected empty session, got %q", s)
	}
	if s := SessionFrom(WithSession(context.Background(), "abc")); s != "abc" {
		t.Fatalf("expected 'abc', got %q", s)
	}
}
