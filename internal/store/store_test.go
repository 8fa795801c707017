package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSchemaCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"llm_request_events", "practice_sessions"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestLLMEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	in := LLMRequestEventData{
		SessionID:    "sess-1",
		Provider:     "openai",
		Model:        "gpt-4o",
		Purpose:      "conversation",
		InputTokens:  120,
		OutputTokens: 40,
		LatencyMs:    850,
		Success:      true,
		RequestBody:  "[user]\nHello\n\n",
		ResponseBody: "Hi! How are you?",
	}
	if err := repo.AppendLLMRequest(ctx, in); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].LLMRequestEventData != in {
		t.Errorf("event data = %+v, want %+v", events[0].LLMRequestEventData, in)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != in.ResponseBody {
		t.Fatalf("get returned %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing event")
	}
}

func TestLLMEventQueryFiltersAndOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, purpose := range []string{"conversation", "conversation", "other"} {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "mock", Model: "mock", Purpose: purpose, Success: true,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].ID < all[1].ID {
		t.Error("expected newest first")
	}

	conv, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "conversation", Limit: 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(conv) != 1 || conv[0].Purpose != "conversation" {
		t.Fatalf("unexpected filtered result: %+v", conv)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	rows := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o", Purpose: "conversation", InputTokens: 100, OutputTokens: 10, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "conversation", InputTokens: 50, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "conversation", Success: false, ErrorMessage: "boom"},
	}
	for _, r := range rows {
		if err := repo.AppendLLMRequest(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 1 {
		t.Fatalf("expected 1 purpose, got %d", len(byPurpose))
	}
	if byPurpose[0].Calls != 3 || byPurpose[0].InputTokens != 150 || byPurpose[0].OutputTokens != 30 {
		t.Errorf("unexpected purpose usage: %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 133 {
		t.Errorf("avg latency = %d, want 133", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("expected 2 models, got %d", len(byModel))
	}
	if byModel[0].Model != "gpt-4o" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel[0])
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	if err := repo.StartSession(ctx, "a", "intermediate", "openai"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := repo.EndSession(ctx, "a", "advanced", 3, 7); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := repo.EndSession(ctx, "missing", "beginner", 0, 0); err == nil {
		t.Fatal("expected error ending unknown session")
	}

	sessions, err := repo.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.Difficulty != "advanced" || got.Turns != 3 || got.Messages != 7 || got.Provider != "openai" {
		t.Errorf("unexpected session: %+v", got)
	}
	if got.EndedAt.IsZero() {
		t.Error("expected end time to be set")
	}
}
