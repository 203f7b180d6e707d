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
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_feedback": map[string]any{"type": "string"},
			"answer":           map[string]any{"type": "string", "enum": []any{"A", "B", "C", "D"}},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items": map[string]any{
					"type":       "object",
					"properties": map[string]any{"correct": map[string]any{"type": "boolean"}},
				},
			},
		},
		"required": []any{"overall_feedback", "questions"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(s.Properties))
	}
	if len(s.Properties["answer"].Enum) != 4 {
		t.Fatalf("expected 4 enum values, got %d", len(s.Properties["answer"].Enum))
	}
	q := s.Properties["questions"]
	if q.Type != genai.TypeArray || q.Items == nil || q.Items.Type != genai.TypeObject {
		t.Fatalf("questions schema = %+v", q)
	}
	if q.Items.Properties["correct"].Type != genai.TypeBoolean {
		t.Fatalf("expected BOOLEAN for correct, got %s", q.Items.Properties["correct"].Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(s.Required))
	}
}
