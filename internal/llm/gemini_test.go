package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi there"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "Hi there" {
		t.Fatalf("unexpected text %q", contents[1].Parts[0].Text)
	}
}

func TestMapGeminiStopReason(t *testing.T) {
	tests := []struct {
		reason genai.FinishReason
		want   string
	}{
		{genai.FinishReasonStop, "end"},
		{genai.FinishReasonMaxTokens, "max_tokens"},
		{genai.FinishReasonSafety, "end"},
	}
	for _, tt := range tests {
		result := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: tt.reason}},
		}
		if got := mapGeminiStopReason(result); got != tt.want {
			t.Errorf("mapGeminiStopReason(%q) = %q, want %q", tt.reason, got, tt.want)
		}
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("empty candidates = %q, want end", got)
	}
}
