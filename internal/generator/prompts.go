package generator

import (
	"fmt"

	"github.com/linguareader/backend/internal/models"
)

// levelGuidance describes, per CEFR level, the vocabulary and grammar
// the generated text may use and the word band it should land in.
var levelGuidance = map[models.Level]string{
	models.LevelA1: "Use only the most common everyday vocabulary. Short, simple sentences in the present tense. 60-120 words per excerpt.",
	models.LevelA2: "Everyday vocabulary with some common phrasal expressions. Simple past and future are allowed. 80-150 words per excerpt.",
	models.LevelB1: "Broader vocabulary about work, travel, and daily life. Compound sentences and common connectors. 120-220 words per excerpt.",
	models.LevelB2: "Varied vocabulary including some abstract topics. Complex sentences, conditionals, and passive voice are fine. 150-280 words per excerpt.",
	models.LevelC1: "Rich, idiomatic vocabulary. Nuanced argumentation and varied register. 200-350 words per excerpt.",
	models.LevelC2: "Near-native vocabulary including low-frequency words and figurative language. 250-400 words per excerpt.",
}

// wordBands is the structural word-count band the parser warns outside
// of, per level.
var wordBands = map[models.Level][2]int{
	models.LevelA1: {40, 160},
	models.LevelA2: {60, 200},
	models.LevelB1: {90, 280},
	models.LevelB2: {110, 350},
	models.LevelC1: {150, 450},
	models.LevelC2: {180, 520},
}

// LevelGuidance returns the prompt guidance for a level (empty string
// for unknown levels).
func LevelGuidance(level models.Level) string {
	return levelGuidance[level]
}

// WordBand returns the acceptable word-count band for a level.
func WordBand(level models.Level) (min, max int) {
	band, ok := wordBands[level]
	if !ok {
		return 40, 520
	}
	return band[0], band[1]
}

func SystemPrompt() string {
	return `You are an expert writer of language-learning reading material. You write short, self-contained READING EXCERPTS calibrated to CEFR proficiency levels.

Rules:
- Every excerpt must be a complete, coherent text: a beginning, a middle, and an end.
- Vocabulary and grammar must match the requested CEFR LEVEL exactly. Never drift above the level.
- Each excerpt gets a short TITLE in the target language.
- Excerpts must be culturally neutral and suitable for all ages.
- Write entirely in the target LANGUAGE. No translations, no glossaries, no notes.

Output format: respond with JSON only, no prose around it:
{"excerpts":[{"title":"...","content":"..."}]}`
}

func BuildUserPrompt(language string, level models.Level, topic string, count int) string {
	prompt := fmt.Sprintf(
		"Write %d reading excerpts in %s at CEFR level %s.\n\n%s\n",
		count, language, level, levelGuidance[level],
	)
	if topic != "" {
		prompt += fmt.Sprintf("\nAll excerpts should relate to the topic: %s.\n", topic)
	}
	prompt += "\nReturn JSON with an \"excerpts\" array; each element has \"title\" and \"content\"."
	return prompt
}
