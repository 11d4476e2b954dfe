package progress

import (
	"context"
	"fmt"
	"log"

	"github.com/linguareader/backend/internal/models"
	"github.com/linguareader/backend/internal/stats"
)

type Service struct {
	store        *Store
	statsService *stats.Service
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SetStatsService injects the stats service for streak/counter tracking.
func (s *Service) SetStatsService(ss *stats.Service) {
	s.statsService = ss
}

// RecordPractice is the upstream write path: it appends the attempt,
// raises the per-excerpt best score if beaten, and recomputes the
// chapter aggregate. Returns the freshly stored aggregate.
func (s *Service) RecordPractice(ctx context.Context, userID int64, req models.RecordPracticeRequest) (*models.UserChapterProgress, error) {
	firstAttempt := false
	existed, err := s.store.HasExcerptProgress(userID, req.ChapterID, req.ExcerptID)
	if err != nil {
		return nil, fmt.Errorf("check excerpt progress: %w", err)
	}
	firstAttempt = !existed

	if _, err := s.store.InsertPractice(userID, req.ExcerptID, req.OverallAccuracy); err != nil {
		return nil, err
	}

	if err := s.store.UpsertExcerptProgress(userID, req.ChapterID, req.ExcerptID, req.OverallAccuracy); err != nil {
		return nil, fmt.Errorf("upsert excerpt progress: %w", err)
	}

	cp, err := s.store.RecomputeChapterProgress(ctx, userID, req.ChapterID)
	if err != nil {
		return nil, err
	}

	// Stats failures must not fail the practice write
	if s.statsService != nil {
		if err := s.statsService.RecordPractice(userID, firstAttempt); err != nil {
			log.Printf("[progress] failed to update practice stats for user %d: %v", userID, err)
		}
	}

	return cp, nil
}

// UpdateUserChapterProgress recomputes the denormalized aggregate for
// the (user, chapter) pair. Idempotent: unchanged inputs produce the
// same stored values, timestamps aside. A chapter id that matches
// nothing yields an empty active set and a 0/0 "completed" aggregate
// rather than an error.
func (s *Service) UpdateUserChapterProgress(ctx context.Context, userID, chapterID int64) error {
	_, err := s.store.RecomputeChapterProgress(ctx, userID, chapterID)
	return err
}

// RefreshChapterProgress recomputes and returns the stored aggregate.
func (s *Service) RefreshChapterProgress(ctx context.Context, userID, chapterID int64) (*models.UserChapterProgress, error) {
	return s.store.RecomputeChapterProgress(ctx, userID, chapterID)
}

func (s *Service) GetChapterProgress(userID, chapterID int64) (*models.UserChapterProgress, error) {
	return s.store.GetChapterProgress(userID, chapterID)
}

func (s *Service) ListChapterProgress(userID int64) ([]models.UserChapterProgress, error) {
	return s.store.ListChapterProgress(userID)
}

// GetBestAccuracyFromTopAttempts averages each practiced excerpt's best
// score among its earliest maxAttempts attempts. maxAttempts <= 0 falls
// back to DefaultTopAttempts.
func (s *Service) GetBestAccuracyFromTopAttempts(userID int64, maxAttempts int) (float64, error) {
	practices, err := s.store.GetPracticesForUser(userID)
	if err != nil {
		return 0, err
	}
	return BestAccuracyFromTopAttempts(practices, maxAttempts), nil
}
