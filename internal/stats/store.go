package stats

import (
	"database/sql"
	"fmt"

	"github.com/linguareader/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetOrCreateStats(userID int64) (*models.PracticeStats, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_practice_stats (user_id)
		 VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert stats: %w", err)
	}

	var ps models.PracticeStats
	err = s.db.QueryRow(
		`SELECT user_id, current_streak, longest_streak, last_practice_date,
		        practices_total, excerpts_completed_total, created_at, updated_at
		 FROM user_practice_stats WHERE user_id = $1`,
		userID,
	).Scan(&ps.UserID, &ps.CurrentStreak, &ps.LongestStreak, &ps.LastPracticeDate,
		&ps.PracticesTotal, &ps.ExcerptsCompletedTotal, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &ps, nil
}

func (s *Store) UpdateOnPractice(userID int64, currentStreak, longestStreak int, newExcerpt bool) error {
	excerptIncrement := 0
	if newExcerpt {
		excerptIncrement = 1
	}
	_, err := s.db.Exec(
		`UPDATE user_practice_stats
		 SET current_streak = $1,
		     longest_streak = $2,
		     last_practice_date = CURRENT_DATE,
		     practices_total = practices_total + 1,
		     excerpts_completed_total = excerpts_completed_total + $3,
		     updated_at = NOW()
		 WHERE user_id = $4`,
		currentStreak, longestStreak, excerptIncrement, userID,
	)
	return err
}
