package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/linguareader/backend/internal/models"
)

type GeneratedBatch struct {
	Excerpts []GeneratedExcerpt `json:"excerpts"`
}

type GeneratedExcerpt struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseResponse(responseBody string, level models.Level) (*GeneratedBatch, error) {
	cleaned := stripCodeFences(responseBody)

	var batch GeneratedBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateBatch(&batch, level); err != nil {
		return nil, err
	}

	return &batch, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateBatch(batch *GeneratedBatch, level models.Level) error {
	var errs []string

	if len(batch.Excerpts) == 0 {
		return &ValidationError{Errors: []string{"no excerpts in batch"}}
	}

	minWords, maxWords := WordBand(level)

	for i, e := range batch.Excerpts {
		num := i + 1

		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Sprintf("excerpt %d: empty title", num))
		}
		if strings.TrimSpace(e.Content) == "" {
			errs = append(errs, fmt.Sprintf("excerpt %d: empty content", num))
			continue
		}

		// Word band is advisory: the model often lands a little outside
		words := len(strings.Fields(e.Content))
		if words < minWords || words > maxWords {
			log.Printf("WARNING: excerpt %d word count %d outside level %s band [%d, %d]",
				num, words, level, minWords, maxWords)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
