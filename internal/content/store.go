package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linguareader/backend/internal/generator"
	"github.com/linguareader/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Chapters ────────────────────────────────────────────

func (s *Store) CreateChapter(req models.CreateChapterRequest) (*models.Chapter, error) {
	var c models.Chapter
	err := s.db.QueryRow(
		`INSERT INTO chapters (title, description, language, level)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, description, language, level, revoked_at, created_at, updated_at`,
		req.Title, req.Description, req.Language, req.Level,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Language, &c.Level, &c.RevokedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return &c, nil
}

func (s *Store) GetChapter(chapterID int64) (*models.Chapter, error) {
	var c models.Chapter
	err := s.db.QueryRow(
		`SELECT id, title, description, language, level, revoked_at, created_at, updated_at
		 FROM chapters WHERE id = $1`,
		chapterID,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Language, &c.Level, &c.RevokedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListChapters() ([]models.Chapter, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, language, level, revoked_at, created_at, updated_at
		 FROM chapters
		 WHERE revoked_at IS NULL
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Language, &c.Level,
			&c.RevokedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// RevokeChapter soft-deletes: the chapter stops being served but its
// rows, links, and any user progress are kept.
func (s *Store) RevokeChapter(chapterID int64) error {
	res, err := s.db.Exec(
		`UPDATE chapters SET revoked_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND revoked_at IS NULL`,
		chapterID,
	)
	if err != nil {
		return fmt.Errorf("revoke chapter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ── Excerpts ────────────────────────────────────────────

func (s *Store) CreateExcerpt(req models.CreateExcerptRequest, modelUsed *string) (*models.Excerpt, error) {
	var e models.Excerpt
	err := s.db.QueryRow(
		`INSERT INTO excerpts (title, content, language, level, model_used)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, content, language, level, model_used, created_at`,
		req.Title, req.Content, req.Language, req.Level, modelUsed,
	).Scan(&e.ID, &e.Title, &e.Content, &e.Language, &e.Level, &e.ModelUsed, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create excerpt: %w", err)
	}
	return &e, nil
}

func (s *Store) GetExcerpt(excerptID int64) (*models.Excerpt, error) {
	var e models.Excerpt
	err := s.db.QueryRow(
		`SELECT id, title, content, language, level, model_used, created_at
		 FROM excerpts WHERE id = $1`,
		excerptID,
	).Scan(&e.ID, &e.Title, &e.Content, &e.Language, &e.Level, &e.ModelUsed, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ── Chapter–Excerpt Links ───────────────────────────────

// LinkExcerpt attaches an excerpt to a chapter. Position <= 0 appends
// after the current highest active position. Relinking a revoked pair
// reactivates the existing row instead of violating the unique key.
func (s *Store) LinkExcerpt(chapterID, excerptID int64, position int) (*models.ChapterExcerpt, error) {
	var link models.ChapterExcerpt
	err := s.db.QueryRow(
		`INSERT INTO chapter_excerpts (chapter_id, excerpt_id, position)
		 VALUES ($1, $2,
		         CASE WHEN $3 > 0 THEN $3
		              ELSE (SELECT COALESCE(MAX(position), 0) + 1
		                    FROM chapter_excerpts
		                    WHERE chapter_id = $1 AND revoked_at IS NULL)
		         END)
		 ON CONFLICT (chapter_id, excerpt_id)
		 DO UPDATE SET position = EXCLUDED.position, revoked_at = NULL
		 RETURNING id, chapter_id, excerpt_id, position, revoked_at, created_at`,
		chapterID, excerptID, position,
	).Scan(&link.ID, &link.ChapterID, &link.ExcerptID, &link.Position, &link.RevokedAt, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("link excerpt: %w", err)
	}
	return &link, nil
}

// RevokeLink marks a chapter–excerpt link inactive. The next progress
// recomputation drops the excerpt from the chapter's active set.
func (s *Store) RevokeLink(chapterID, excerptID int64) error {
	res, err := s.db.Exec(
		`UPDATE chapter_excerpts SET revoked_at = NOW()
		 WHERE chapter_id = $1 AND excerpt_id = $2 AND revoked_at IS NULL`,
		chapterID, excerptID,
	)
	if err != nil {
		return fmt.Errorf("revoke link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) GetChapterExcerpts(chapterID int64) ([]models.ChapterExcerptView, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.title, e.content, e.language, e.level, e.model_used, e.created_at, ce.position
		 FROM chapter_excerpts ce
		 JOIN excerpts e ON e.id = ce.excerpt_id
		 WHERE ce.chapter_id = $1 AND ce.revoked_at IS NULL
		 ORDER BY ce.position ASC`,
		chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("get chapter excerpts: %w", err)
	}
	defer rows.Close()

	var views []models.ChapterExcerptView
	for rows.Next() {
		var v models.ChapterExcerptView
		if err := rows.Scan(&v.ID, &v.Title, &v.Content, &v.Language, &v.Level,
			&v.ModelUsed, &v.CreatedAt, &v.Position); err != nil {
			return nil, fmt.Errorf("scan chapter excerpt: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// SaveGeneratedExcerpts stores a generated batch and links every
// excerpt to the chapter after its current highest position, all in one
// transaction.
func (s *Store) SaveGeneratedExcerpts(ctx context.Context, chapter *models.Chapter, batch *generator.GeneratedBatch, modelUsed string) ([]models.ChapterExcerptView, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var nextPosition int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM chapter_excerpts
		 WHERE chapter_id = $1 AND revoked_at IS NULL`,
		chapter.ID,
	).Scan(&nextPosition)
	if err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	var views []models.ChapterExcerptView
	for _, ge := range batch.Excerpts {
		var v models.ChapterExcerptView
		err := tx.QueryRow(
			`INSERT INTO excerpts (title, content, language, level, model_used)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, title, content, language, level, model_used, created_at`,
			ge.Title, ge.Content, chapter.Language, chapter.Level, modelUsed,
		).Scan(&v.ID, &v.Title, &v.Content, &v.Language, &v.Level, &v.ModelUsed, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert generated excerpt: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO chapter_excerpts (chapter_id, excerpt_id, position)
			 VALUES ($1, $2, $3)`,
			chapter.ID, v.ID, nextPosition,
		)
		if err != nil {
			return nil, fmt.Errorf("link generated excerpt: %w", err)
		}
		v.Position = nextPosition
		nextPosition++

		views = append(views, v)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return views, nil
}
