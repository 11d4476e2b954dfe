package models

import "time"

// ExcerptPractice is one practice attempt. Attempts are append-only:
// every attempt is kept, nothing here ever deletes one.
type ExcerptPractice struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ExcerptID       int64     `json:"excerpt_id"`
	OverallAccuracy float64   `json:"overall_accuracy"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserExcerptProgress is the best score a user has reached on an
// excerpt, scoped to the chapter they practiced it in.
type UserExcerptProgress struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ChapterID    int64     `json:"chapter_id"`
	ExcerptID    int64     `json:"excerpt_id"`
	BestAccuracy float64   `json:"best_accuracy"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserChapterProgress is the denormalized per-(user, chapter) aggregate.
// It is owned exclusively by the progress recomputation: created on the
// first run, patched in place on every later run, never deleted.
type UserChapterProgress struct {
	ID                     int64     `json:"id"`
	UserID                 int64     `json:"user_id"`
	ChapterID              int64     `json:"chapter_id"`
	CompletedExcerptsCount int       `json:"completed_excerpts_count"`
	TotalExcerptsInChapter int       `json:"total_excerpts_in_chapter"`
	OverallAccuracy        float64   `json:"overall_accuracy"`
	Completed              bool      `json:"completed"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ── Request Types ────────────────────────────────────────

type RecordPracticeRequest struct {
	ChapterID       int64   `json:"chapter_id"`
	ExcerptID       int64   `json:"excerpt_id"`
	OverallAccuracy float64 `json:"overall_accuracy"`
}

// ── Response Types ────────────────────────────────────────

type ChapterProgressListResponse struct {
	Progress []UserChapterProgress `json:"progress"`
	Total    int                   `json:"total"`
}

type BestAccuracyResponse struct {
	BestAccuracy float64 `json:"best_accuracy"`
	MaxAttempts  int     `json:"max_attempts"`
}
