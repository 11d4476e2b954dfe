package stats

import (
	"fmt"
	"time"

	"github.com/linguareader/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// RecordPractice rolls the user's streak forward and bumps lifetime
// counters. newExcerpt marks the first recorded attempt on an excerpt
// within its chapter.
func (s *Service) RecordPractice(userID int64, newExcerpt bool) error {
	ps, err := s.store.GetOrCreateStats(userID)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	current, longest := NextStreak(ps.CurrentStreak, ps.LongestStreak, ps.LastPracticeDate, time.Now())
	return s.store.UpdateOnPractice(userID, current, longest, newExcerpt)
}

func (s *Service) GetStats(userID int64) (*models.PracticeStats, error) {
	return s.store.GetOrCreateStats(userID)
}
