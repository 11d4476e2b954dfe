package models

import "time"

// PracticeStats tracks a user's daily practice streak and lifetime
// counters. One row per user, created lazily on first practice.
type PracticeStats struct {
	UserID                 int64      `json:"user_id"`
	CurrentStreak          int        `json:"current_streak"`
	LongestStreak          int        `json:"longest_streak"`
	LastPracticeDate       *time.Time `json:"last_practice_date,omitempty"`
	PracticesTotal         int        `json:"practices_total"`
	ExcerptsCompletedTotal int        `json:"excerpts_completed_total"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}
