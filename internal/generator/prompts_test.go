package generator

import (
	"strings"
	"testing"

	"github.com/linguareader/backend/internal/models"
)

func TestLevelGuidance_AllLevelsCovered(t *testing.T) {
	for level := range models.ValidLevels {
		if LevelGuidance(level) == "" {
			t.Errorf("no guidance for level %s", level)
		}
	}
}

func TestWordBand_AllLevelsCovered(t *testing.T) {
	for level := range models.ValidLevels {
		min, max := WordBand(level)
		if min <= 0 || max <= min {
			t.Errorf("level %s: invalid band [%d, %d]", level, min, max)
		}
	}
}

func TestWordBand_UnknownLevelFallsBack(t *testing.T) {
	min, max := WordBand(models.Level("z9"))
	if min != 40 || max != 520 {
		t.Errorf("fallback band = [%d, %d], want [40, 520]", min, max)
	}
}

func TestSystemPrompt_Contents(t *testing.T) {
	prompt := SystemPrompt()

	for _, want := range []string{"CEFR", "JSON", "excerpts", "title", "content"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestBuildUserPrompt_Contents(t *testing.T) {
	prompt := BuildUserPrompt("Spanish", models.LevelB1, "travel", 5)

	if !strings.Contains(prompt, "5 reading excerpts") {
		t.Error("prompt missing excerpt count")
	}
	if !strings.Contains(prompt, "Spanish") {
		t.Error("prompt missing language")
	}
	if !strings.Contains(prompt, "b1") {
		t.Error("prompt missing level")
	}
	if !strings.Contains(prompt, "travel") {
		t.Error("prompt missing topic")
	}
}

func TestBuildUserPrompt_NoTopic(t *testing.T) {
	prompt := BuildUserPrompt("French", models.LevelA1, "", 3)

	if strings.Contains(prompt, "topic:") {
		t.Error("prompt should not mention a topic when none is given")
	}
}
