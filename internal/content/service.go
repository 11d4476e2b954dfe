package content

import (
	"context"
	"fmt"
	"log"

	"github.com/linguareader/backend/internal/generator"
	"github.com/linguareader/backend/internal/models"
)

type Service struct {
	store *Store
	gen   *generator.Generator
}

func NewService(store *Store, gen *generator.Generator) *Service {
	return &Service{store: store, gen: gen}
}

func (s *Service) CreateChapter(req models.CreateChapterRequest) (*models.Chapter, error) {
	return s.store.CreateChapter(req)
}

func (s *Service) ListChapters() ([]models.Chapter, error) {
	return s.store.ListChapters()
}

// GetChapterDetail returns a chapter with its active excerpts in
// reading order.
func (s *Service) GetChapterDetail(chapterID int64) (*models.ChapterDetailResponse, error) {
	chapter, err := s.store.GetChapter(chapterID)
	if err != nil {
		return nil, err
	}
	excerpts, err := s.store.GetChapterExcerpts(chapterID)
	if err != nil {
		return nil, err
	}
	return &models.ChapterDetailResponse{
		Chapter:  *chapter,
		Excerpts: excerpts,
	}, nil
}

func (s *Service) RevokeChapter(chapterID int64) error {
	return s.store.RevokeChapter(chapterID)
}

func (s *Service) CreateExcerpt(req models.CreateExcerptRequest) (*models.Excerpt, error) {
	return s.store.CreateExcerpt(req, nil)
}

func (s *Service) GetExcerpt(excerptID int64) (*models.Excerpt, error) {
	return s.store.GetExcerpt(excerptID)
}

func (s *Service) LinkExcerpt(chapterID, excerptID int64, position int) (*models.ChapterExcerpt, error) {
	if _, err := s.store.GetChapter(chapterID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetExcerpt(excerptID); err != nil {
		return nil, err
	}
	return s.store.LinkExcerpt(chapterID, excerptID, position)
}

func (s *Service) RevokeLink(chapterID, excerptID int64) error {
	return s.store.RevokeLink(chapterID, excerptID)
}

// GenerateExcerpts asks the LLM for a batch of excerpts matching the
// chapter's language and level, then saves and links them in one
// transaction. Nothing is persisted if generation or validation fails.
func (s *Service) GenerateExcerpts(ctx context.Context, chapterID int64, req models.GenerateExcerptsRequest) (*models.GenerateExcerptsResponse, error) {
	chapter, err := s.store.GetChapter(chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.RevokedAt != nil {
		return nil, fmt.Errorf("chapter %d is revoked", chapterID)
	}

	batch, resp, err := s.gen.GenerateExcerptBatch(ctx, chapter.Language, chapter.Level, req.Topic, req.Count)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		log.Printf("[content] generated %d excerpts for chapter %d (prompt=%d output=%d tokens)",
			len(batch.Excerpts), chapterID, resp.PromptTokens, resp.OutputTokens)
	}

	views, err := s.store.SaveGeneratedExcerpts(ctx, chapter, batch, s.gen.ModelName())
	if err != nil {
		return nil, err
	}

	return &models.GenerateExcerptsResponse{
		Chapter:   *chapter,
		Generated: views,
		ModelUsed: s.gen.ModelName(),
	}, nil
}
