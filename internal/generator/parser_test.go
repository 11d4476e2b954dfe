package generator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/linguareader/backend/internal/models"
)

func validBatchJSON(count int) string {
	batch := GeneratedBatch{Excerpts: make([]GeneratedExcerpt, count)}
	for i := 0; i < count; i++ {
		batch.Excerpts[i] = GeneratedExcerpt{
			Title:   "El mercado de la mañana",
			Content: strings.Repeat("Cada mañana el mercado abre temprano y la gente compra pan y fruta. ", 8),
		}
	}
	data, _ := json.Marshal(batch)
	return string(data)
}

func TestParseResponse_ValidJSON(t *testing.T) {
	input := validBatchJSON(4)

	batch, err := ParseResponse(input, models.LevelA2)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(batch.Excerpts) != 4 {
		t.Errorf("expected 4 excerpts, got %d", len(batch.Excerpts))
	}
	for i, e := range batch.Excerpts {
		if e.Title == "" || e.Content == "" {
			t.Errorf("excerpt %d: empty title or content", i+1)
		}
	}
}

func TestParseResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validBatchJSON(2) + "\n```"

	batch, err := ParseResponse(input, models.LevelA2)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}

	if len(batch.Excerpts) != 2 {
		t.Errorf("expected 2 excerpts, got %d", len(batch.Excerpts))
	}
}

func TestParseResponse_EmptyBatch(t *testing.T) {
	_, err := ParseResponse(`{"excerpts":[]}`, models.LevelB1)
	if err == nil {
		t.Fatal("expected validation error for empty batch")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got: %T", err)
	}
	if len(ve.Errors) == 0 || !strings.Contains(ve.Errors[0], "no excerpts") {
		t.Errorf("expected 'no excerpts' error, got: %v", ve.Errors)
	}
}

func TestParseResponse_EmptyTitle(t *testing.T) {
	batch := GeneratedBatch{
		Excerpts: []GeneratedExcerpt{
			{Title: "  ", Content: strings.Repeat("Una frase corta y clara. ", 20)},
		},
	}
	data, _ := json.Marshal(batch)

	_, err := ParseResponse(string(data), models.LevelA2)
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}

	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got: %T", err)
	}
	found := false
	for _, e := range ve.Errors {
		if strings.Contains(e, "empty title") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error about empty title, got: %v", ve.Errors)
	}
}

func TestParseResponse_EmptyContent(t *testing.T) {
	batch := GeneratedBatch{
		Excerpts: []GeneratedExcerpt{
			{Title: "Un título", Content: ""},
		},
	}
	data, _ := json.Marshal(batch)

	_, err := ParseResponse(string(data), models.LevelA2)
	if err == nil {
		t.Fatal("expected validation error for empty content")
	}
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse("this is not json at all", models.LevelA1)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	// Should NOT be a ValidationError — should be a parse error
	if _, ok := err.(*ValidationError); ok {
		t.Fatal("expected parse error, not ValidationError")
	}
}

func TestParseResponse_WordBandIsAdvisory(t *testing.T) {
	// A very short excerpt is outside every band but only warns
	batch := GeneratedBatch{
		Excerpts: []GeneratedExcerpt{
			{Title: "Corto", Content: "Una sola frase."},
		},
	}
	data, _ := json.Marshal(batch)

	parsed, err := ParseResponse(string(data), models.LevelC2)
	if err != nil {
		t.Fatalf("word band should not fail validation, got: %v", err)
	}
	if len(parsed.Excerpts) != 1 {
		t.Errorf("expected 1 excerpt, got %d", len(parsed.Excerpts))
	}
}

func TestMockClient_ProducesParseableBatch(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), SystemPrompt(), "ignored")
	if err != nil {
		t.Fatalf("mock generate failed: %v", err)
	}

	batch, err := ParseResponse(resp.Content, models.LevelA2)
	if err != nil {
		t.Fatalf("mock output should parse, got: %v", err)
	}
	if len(batch.Excerpts) == 0 {
		t.Error("mock batch should not be empty")
	}
}
