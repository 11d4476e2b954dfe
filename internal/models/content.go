package models

import "time"

// Level is a CEFR proficiency band. Excerpts and chapters are tagged
// with the level their text is written for.
type Level string

const (
	LevelA1 Level = "a1"
	LevelA2 Level = "a2"
	LevelB1 Level = "b1"
	LevelB2 Level = "b2"
	LevelC1 Level = "c1"
	LevelC2 Level = "c2"
)

var ValidLevels = map[Level]bool{
	LevelA1: true,
	LevelA2: true,
	LevelB1: true,
	LevelB2: true,
	LevelC1: true,
	LevelC2: true,
}

type Chapter struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Language    string     `json:"language"`
	Level       Level      `json:"level"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Excerpt struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Level     Level     `json:"level"`
	ModelUsed *string   `json:"model_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChapterExcerpt links an excerpt into a chapter at an explicit
// position. A link with revoked_at set no longer counts as chapter
// membership; the row itself is kept.
type ChapterExcerpt struct {
	ID        int64      `json:"id"`
	ChapterID int64      `json:"chapter_id"`
	ExcerptID int64      `json:"excerpt_id"`
	Position  int        `json:"order"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChapterExcerptView is an excerpt as served inside a chapter, carrying
// its position in the reading order.
type ChapterExcerptView struct {
	Excerpt
	Position int `json:"order"`
}

// ── Request Types ────────────────────────────────────────

type CreateChapterRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Level       Level  `json:"level"`
}

type CreateExcerptRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Level    Level  `json:"level"`
}

type LinkExcerptRequest struct {
	ExcerptID int64 `json:"excerpt_id"`
	// Position 0 means "append after the current highest position".
	Position int `json:"order"`
}

type GenerateExcerptsRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// ── Response Types ────────────────────────────────────────

type ChapterDetailResponse struct {
	Chapter  Chapter              `json:"chapter"`
	Excerpts []ChapterExcerptView `json:"excerpts"`
}

type ChapterListResponse struct {
	Chapters []Chapter `json:"chapters"`
	Total    int       `json:"total"`
}

type GenerateExcerptsResponse struct {
	Chapter   Chapter              `json:"chapter"`
	Generated []ChapterExcerptView `json:"generated"`
	ModelUsed string               `json:"model_used"`
}
