package progress

import (
	"context"
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

// ── Practice Attempts ───────────────────────────────────

func (s *Store) InsertPractice(userID, excerptID int64, accuracy float64) (*models.ExcerptPractice, error) {
	var p models.ExcerptPractice
	err := s.db.QueryRow(
		`INSERT INTO excerpt_practices (user_id, excerpt_id, overall_accuracy)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, excerpt_id, overall_accuracy, created_at`,
		userID, excerptID, accuracy,
	).Scan(&p.ID, &p.UserID, &p.ExcerptID, &p.OverallAccuracy, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert practice: %w", err)
	}
	return &p, nil
}

func (s *Store) GetPracticesForUser(userID int64) ([]models.ExcerptPractice, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, excerpt_id, overall_accuracy, created_at
		 FROM excerpt_practices
		 WHERE user_id = $1
		 ORDER BY excerpt_id, created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get practices: %w", err)
	}
	defer rows.Close()

	var practices []models.ExcerptPractice
	for rows.Next() {
		var p models.ExcerptPractice
		if err := rows.Scan(&p.ID, &p.UserID, &p.ExcerptID, &p.OverallAccuracy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan practice: %w", err)
		}
		practices = append(practices, p)
	}
	return practices, rows.Err()
}

// ── Per-Excerpt Progress ────────────────────────────────

func (s *Store) HasExcerptProgress(userID, chapterID, excerptID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(
			SELECT 1 FROM user_excerpt_progress
			WHERE user_id = $1 AND chapter_id = $2 AND excerpt_id = $3
		 )`,
		userID, chapterID, excerptID,
	).Scan(&exists)
	return exists, err
}

// UpsertExcerptProgress keeps the best score ever reached: an update
// never lowers best_accuracy.
func (s *Store) UpsertExcerptProgress(userID, chapterID, excerptID int64, accuracy float64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_excerpt_progress (user_id, chapter_id, excerpt_id, best_accuracy)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, chapter_id, excerpt_id)
		 DO UPDATE SET best_accuracy = GREATEST(user_excerpt_progress.best_accuracy, EXCLUDED.best_accuracy),
		               updated_at = NOW()`,
		userID, chapterID, excerptID, accuracy,
	)
	return err
}

// ── Chapter Aggregate ───────────────────────────────────

// RecomputeChapterProgress reads the chapter's active excerpt set and
// the user's per-excerpt progress, computes the summary, and upserts
// the denormalized aggregate — all inside one transaction. The
// ON CONFLICT upsert keyed on (user_id, chapter_id) guarantees that
// concurrent recomputations never create duplicate aggregate rows;
// the last committed transaction wins.
func (s *Store) RecomputeChapterProgress(ctx context.Context, userID, chapterID int64) (*models.UserChapterProgress, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	activeRows, err := tx.Query(
		`SELECT excerpt_id FROM chapter_excerpts
		 WHERE chapter_id = $1 AND revoked_at IS NULL`,
		chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("active excerpts: %w", err)
	}
	var activeIDs []int64
	for activeRows.Next() {
		var id int64
		if err := activeRows.Scan(&id); err != nil {
			activeRows.Close()
			return nil, fmt.Errorf("scan active excerpt: %w", err)
		}
		activeIDs = append(activeIDs, id)
	}
	activeRows.Close()
	if err := activeRows.Err(); err != nil {
		return nil, err
	}

	progressRows, err := tx.Query(
		`SELECT excerpt_id, best_accuracy FROM user_excerpt_progress
		 WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("excerpt progress: %w", err)
	}
	var excerptProgress []models.UserExcerptProgress
	for progressRows.Next() {
		var p models.UserExcerptProgress
		if err := progressRows.Scan(&p.ExcerptID, &p.BestAccuracy); err != nil {
			progressRows.Close()
			return nil, fmt.Errorf("scan excerpt progress: %w", err)
		}
		excerptProgress = append(excerptProgress, p)
	}
	progressRows.Close()
	if err := progressRows.Err(); err != nil {
		return nil, err
	}

	summary := SummarizeChapter(activeIDs, excerptProgress)

	var cp models.UserChapterProgress
	err = tx.QueryRow(
		`INSERT INTO user_chapter_progress
		 (user_id, chapter_id, completed_excerpts_count, total_excerpts_in_chapter, overall_accuracy, completed)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, chapter_id)
		 DO UPDATE SET completed_excerpts_count = EXCLUDED.completed_excerpts_count,
		               total_excerpts_in_chapter = EXCLUDED.total_excerpts_in_chapter,
		               overall_accuracy = EXCLUDED.overall_accuracy,
		               completed = EXCLUDED.completed,
		               updated_at = NOW()
		 RETURNING id, user_id, chapter_id, completed_excerpts_count, total_excerpts_in_chapter,
		           overall_accuracy, completed, created_at, updated_at`,
		userID, chapterID, summary.CompletedExcerpts, summary.TotalExcerpts,
		summary.OverallAccuracy, summary.Completed,
	).Scan(&cp.ID, &cp.UserID, &cp.ChapterID, &cp.CompletedExcerptsCount, &cp.TotalExcerptsInChapter,
		&cp.OverallAccuracy, &cp.Completed, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert chapter progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &cp, nil
}

func (s *Store) GetChapterProgress(userID, chapterID int64) (*models.UserChapterProgress, error) {
	var cp models.UserChapterProgress
	err := s.db.QueryRow(
		`SELECT id, user_id, chapter_id, completed_excerpts_count, total_excerpts_in_chapter,
		        overall_accuracy, completed, created_at, updated_at
		 FROM user_chapter_progress
		 WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	).Scan(&cp.ID, &cp.UserID, &cp.ChapterID, &cp.CompletedExcerptsCount, &cp.TotalExcerptsInChapter,
		&cp.OverallAccuracy, &cp.Completed, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *Store) ListChapterProgress(userID int64) ([]models.UserChapterProgress, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, chapter_id, completed_excerpts_count, total_excerpts_in_chapter,
		        overall_accuracy, completed, created_at, updated_at
		 FROM user_chapter_progress
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chapter progress: %w", err)
	}
	defer rows.Close()

	var progress []models.UserChapterProgress
	for rows.Next() {
		var cp models.UserChapterProgress
		if err := rows.Scan(&cp.ID, &cp.UserID, &cp.ChapterID, &cp.CompletedExcerptsCount,
			&cp.TotalExcerptsInChapter, &cp.OverallAccuracy, &cp.Completed,
			&cp.CreatedAt, &cp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chapter progress: %w", err)
		}
		progress = append(progress, cp)
	}
	return progress, rows.Err()
}
