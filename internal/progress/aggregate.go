package progress

import (
	"sort"

	"github.com/linguareader/backend/internal/models"
)

// DefaultTopAttempts is how many of an excerpt's earliest attempts
// count toward the best-accuracy score.
const DefaultTopAttempts = 3

// ChapterSummary holds the computed fields of a chapter progress
// recomputation.
type ChapterSummary struct {
	CompletedExcerpts int
	TotalExcerpts     int
	OverallAccuracy   float64
	Completed         bool
}

// SummarizeChapter computes a user's progress over a chapter's active
// excerpts. Progress records for excerpts no longer active in the
// chapter are ignored. The accuracy mean is 0 for an empty relevant
// set (explicit check, never a 0/0 division), and a chapter with no
// active excerpts and no relevant progress counts as completed.
func SummarizeChapter(activeExcerptIDs []int64, excerptProgress []models.UserExcerptProgress) ChapterSummary {
	active := make(map[int64]bool, len(activeExcerptIDs))
	for _, id := range activeExcerptIDs {
		active[id] = true
	}

	var relevant int
	var sum float64
	for _, p := range excerptProgress {
		if active[p.ExcerptID] {
			relevant++
			sum += p.BestAccuracy
		}
	}

	accuracy := 0.0
	if relevant > 0 {
		accuracy = sum / float64(relevant)
	}

	return ChapterSummary{
		CompletedExcerpts: relevant,
		TotalExcerpts:     len(activeExcerptIDs),
		OverallAccuracy:   accuracy,
		Completed:         relevant == len(activeExcerptIDs),
	}
}

// BestAccuracyFromTopAttempts scores a user's practice history while
// rewarding early mastery: per excerpt, only the earliest maxAttempts
// attempts count, the best of those is the excerpt's score, and the
// result is the mean of those per-excerpt scores. Returns 0 when there
// are no practice records.
//
// The truncate-then-max order matters: a high score on a later attempt
// must not count once the excerpt already has maxAttempts earlier ones.
func BestAccuracyFromTopAttempts(practices []models.ExcerptPractice, maxAttempts int) float64 {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTopAttempts
	}

	byExcerpt := make(map[int64][]models.ExcerptPractice)
	var excerptOrder []int64
	for _, p := range practices {
		if _, seen := byExcerpt[p.ExcerptID]; !seen {
			excerptOrder = append(excerptOrder, p.ExcerptID)
		}
		byExcerpt[p.ExcerptID] = append(byExcerpt[p.ExcerptID], p)
	}

	if len(excerptOrder) == 0 {
		return 0
	}

	var sum float64
	for _, excerptID := range excerptOrder {
		attempts := byExcerpt[excerptID]
		sort.SliceStable(attempts, func(i, j int) bool {
			return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
		})
		if len(attempts) > maxAttempts {
			attempts = attempts[:maxAttempts]
		}

		best := 0.0
		for _, a := range attempts {
			if a.OverallAccuracy > best {
				best = a.OverallAccuracy
			}
		}
		sum += best
	}

	return sum / float64(len(excerptOrder))
}
