package progress

import (
	"math"
	"testing"
	"time"

	"github.com/linguareader/backend/internal/models"
)

func excerptProgress(excerptID int64, best float64) models.UserExcerptProgress {
	return models.UserExcerptProgress{
		UserID:       1,
		ChapterID:    10,
		ExcerptID:    excerptID,
		BestAccuracy: best,
	}
}

func practiceAt(excerptID int64, accuracy float64, minute int) models.ExcerptPractice {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return models.ExcerptPractice{
		UserID:          1,
		ExcerptID:       excerptID,
		OverallAccuracy: accuracy,
		CreatedAt:       base.Add(time.Duration(minute) * time.Minute),
	}
}

func TestSummarizeChapter_EmptyChapter(t *testing.T) {
	// No active excerpts and no progress → vacuously complete, zero accuracy
	got := SummarizeChapter(nil, nil)

	if got.TotalExcerpts != 0 || got.CompletedExcerpts != 0 {
		t.Errorf("counts = (%d, %d), want (0, 0)", got.CompletedExcerpts, got.TotalExcerpts)
	}
	if got.OverallAccuracy != 0 {
		t.Errorf("OverallAccuracy = %f, want 0", got.OverallAccuracy)
	}
	if !got.Completed {
		t.Error("empty chapter should count as completed")
	}
}

func TestSummarizeChapter_PartialProgress(t *testing.T) {
	active := []int64{1, 2, 3}
	prog := []models.UserExcerptProgress{
		excerptProgress(1, 0.8),
		excerptProgress(2, 1.0),
	}

	got := SummarizeChapter(active, prog)

	if got.CompletedExcerpts != 2 {
		t.Errorf("CompletedExcerpts = %d, want 2", got.CompletedExcerpts)
	}
	if got.TotalExcerpts != 3 {
		t.Errorf("TotalExcerpts = %d, want 3", got.TotalExcerpts)
	}
	if math.Abs(got.OverallAccuracy-0.9) > 1e-9 {
		t.Errorf("OverallAccuracy = %f, want 0.9", got.OverallAccuracy)
	}
	if got.Completed {
		t.Error("2 of 3 excerpts should not be completed")
	}
}

func TestSummarizeChapter_AllPracticed(t *testing.T) {
	active := []int64{1, 2}
	prog := []models.UserExcerptProgress{
		excerptProgress(1, 0.8),
		excerptProgress(2, 1.0),
	}

	got := SummarizeChapter(active, prog)

	if !got.Completed {
		t.Error("all active excerpts practiced → completed")
	}
	if math.Abs(got.OverallAccuracy-0.9) > 1e-9 {
		t.Errorf("OverallAccuracy = %f, want 0.9", got.OverallAccuracy)
	}
}

func TestSummarizeChapter_IgnoresRevokedExcerpts(t *testing.T) {
	// Excerpt 3's link was revoked: its old progress row must not count
	active := []int64{1, 2}
	prog := []models.UserExcerptProgress{
		excerptProgress(1, 1.0),
		excerptProgress(3, 0.2),
	}

	got := SummarizeChapter(active, prog)

	if got.CompletedExcerpts != 1 {
		t.Errorf("CompletedExcerpts = %d, want 1", got.CompletedExcerpts)
	}
	if got.TotalExcerpts != 2 {
		t.Errorf("TotalExcerpts = %d, want 2", got.TotalExcerpts)
	}
	if math.Abs(got.OverallAccuracy-1.0) > 1e-9 {
		t.Errorf("OverallAccuracy = %f, want 1.0 (revoked excerpt excluded)", got.OverallAccuracy)
	}
	if got.Completed {
		t.Error("1 of 2 should not be completed")
	}
}

func TestSummarizeChapter_CompletedNeverExceedsTotal(t *testing.T) {
	// Stale rows for many revoked excerpts must never push completed past total
	active := []int64{1}
	prog := []models.UserExcerptProgress{
		excerptProgress(1, 0.9),
		excerptProgress(2, 0.9),
		excerptProgress(3, 0.9),
		excerptProgress(4, 0.9),
	}

	got := SummarizeChapter(active, prog)

	if got.CompletedExcerpts > got.TotalExcerpts {
		t.Errorf("CompletedExcerpts (%d) exceeds TotalExcerpts (%d)",
			got.CompletedExcerpts, got.TotalExcerpts)
	}
}

func TestSummarizeChapter_Deterministic(t *testing.T) {
	active := []int64{5, 6, 7}
	prog := []models.UserExcerptProgress{
		excerptProgress(5, 0.75),
		excerptProgress(7, 0.5),
	}

	first := SummarizeChapter(active, prog)
	second := SummarizeChapter(active, prog)

	if first != second {
		t.Errorf("recomputation not deterministic: %+v vs %+v", first, second)
	}
}

func TestBestAccuracy_NoPractices(t *testing.T) {
	got := BestAccuracyFromTopAttempts(nil, 3)
	if got != 0 {
		t.Errorf("BestAccuracyFromTopAttempts(nil, 3) = %f, want 0", got)
	}
}

func TestBestAccuracy_TruncatesToEarliestAttempts(t *testing.T) {
	// Five attempts on one excerpt; only the earliest three count, so
	// the 1.0 on attempt four is excluded and the best is 0.9.
	practices := []models.ExcerptPractice{
		practiceAt(1, 0.5, 0),
		practiceAt(1, 0.6, 1),
		practiceAt(1, 0.9, 2),
		practiceAt(1, 1.0, 3),
		practiceAt(1, 0.2, 4),
	}

	got := BestAccuracyFromTopAttempts(practices, 3)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("BestAccuracyFromTopAttempts = %f, want 0.9", got)
	}
}

func TestBestAccuracy_OrderedByTimeNotInput(t *testing.T) {
	// Same attempts fed out of order: truncation is by creation time
	practices := []models.ExcerptPractice{
		practiceAt(1, 1.0, 3),
		practiceAt(1, 0.9, 2),
		practiceAt(1, 0.5, 0),
		practiceAt(1, 0.6, 1),
	}

	got := BestAccuracyFromTopAttempts(practices, 3)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("BestAccuracyFromTopAttempts = %f, want 0.9", got)
	}
}

func TestBestAccuracy_MeanAcrossExcerpts(t *testing.T) {
	practices := []models.ExcerptPractice{
		practiceAt(1, 0.8, 0),
		practiceAt(1, 0.6, 1),
		practiceAt(2, 1.0, 2),
	}

	// Excerpt 1 best = 0.8, excerpt 2 best = 1.0, mean = 0.9
	got := BestAccuracyFromTopAttempts(practices, 3)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("BestAccuracyFromTopAttempts = %f, want 0.9", got)
	}
}

func TestBestAccuracy_FewerAttemptsThanMax(t *testing.T) {
	practices := []models.ExcerptPractice{
		practiceAt(1, 0.7, 0),
	}

	got := BestAccuracyFromTopAttempts(practices, 3)
	if math.Abs(got-0.7) > 1e-9 {
		t.Errorf("BestAccuracyFromTopAttempts = %f, want 0.7", got)
	}
}

func TestBestAccuracy_NonPositiveMaxUsesDefault(t *testing.T) {
	practices := []models.ExcerptPractice{
		practiceAt(1, 0.5, 0),
		practiceAt(1, 0.6, 1),
		practiceAt(1, 0.9, 2),
		practiceAt(1, 1.0, 3),
	}

	got := BestAccuracyFromTopAttempts(practices, 0)
	if math.Abs(got-0.9) > 1e-9 {
		t.Errorf("maxAttempts=0 should fall back to %d, got %f", DefaultTopAttempts, got)
	}
}
