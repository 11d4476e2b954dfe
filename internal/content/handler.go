package content

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/linguareader/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers content endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/chapters", h.CreateChapter).Methods("POST")
	protected.HandleFunc("/chapters", h.ListChapters).Methods("GET")
	protected.HandleFunc("/chapters/{chapterID}", h.GetChapter).Methods("GET")
	protected.HandleFunc("/chapters/{chapterID}", h.RevokeChapter).Methods("DELETE")
	protected.HandleFunc("/chapters/{chapterID}/excerpts", h.LinkExcerpt).Methods("POST")
	protected.HandleFunc("/chapters/{chapterID}/excerpts/{excerptID}", h.RevokeLink).Methods("DELETE")
	protected.HandleFunc("/chapters/{chapterID}/generate", h.GenerateExcerpts).Methods("POST")
	protected.HandleFunc("/excerpts", h.CreateExcerpt).Methods("POST")
	protected.HandleFunc("/excerpts/{excerptID}", h.GetExcerpt).Methods("GET")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func (h *Handler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Language = strings.TrimSpace(req.Language)
	if req.Title == "" || req.Language == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title and language are required"})
		return
	}
	if !models.ValidLevels[req.Level] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level (expected a1-c2)"})
		return
	}

	chapter, err := h.service.CreateChapter(req)
	if err != nil {
		log.Printf("[handler] CreateChapter error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create chapter"})
		return
	}

	writeJSON(w, http.StatusCreated, chapter)
}

func (h *Handler) ListChapters(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapters, err := h.service.ListChapters()
	if err != nil {
		log.Printf("[handler] ListChapters error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list chapters"})
		return
	}

	if chapters == nil {
		chapters = []models.Chapter{}
	}
	writeJSON(w, http.StatusOK, models.ChapterListResponse{
		Chapters: chapters,
		Total:    len(chapters),
	})
}

func (h *Handler) GetChapter(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := pathID(r, "chapterID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	detail, err := h.service.GetChapterDetail(chapterID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Chapter not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] GetChapter error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get chapter"})
		return
	}

	if detail.Excerpts == nil {
		detail.Excerpts = []models.ChapterExcerptView{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) RevokeChapter(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := pathID(r, "chapterID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	err = h.service.RevokeChapter(chapterID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Chapter not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] RevokeChapter error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to revoke chapter"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateExcerpt(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateExcerptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title and content are required"})
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "language is required"})
		return
	}
	if !models.ValidLevels[req.Level] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level (expected a1-c2)"})
		return
	}

	excerpt, err := h.service.CreateExcerpt(req)
	if err != nil {
		log.Printf("[handler] CreateExcerpt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create excerpt"})
		return
	}

	writeJSON(w, http.StatusCreated, excerpt)
}

func (h *Handler) GetExcerpt(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	excerptID, err := pathID(r, "excerptID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid excerpt ID"})
		return
	}

	excerpt, err := h.service.GetExcerpt(excerptID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Excerpt not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] GetExcerpt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get excerpt"})
		return
	}

	writeJSON(w, http.StatusOK, excerpt)
}

func (h *Handler) LinkExcerpt(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := pathID(r, "chapterID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	var req models.LinkExcerptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ExcerptID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "excerpt_id is required"})
		return
	}
	if req.Position < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "order must not be negative"})
		return
	}

	link, err := h.service.LinkExcerpt(chapterID, req.ExcerptID, req.Position)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Chapter or excerpt not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] LinkExcerpt error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to link excerpt"})
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

func (h *Handler) RevokeLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := pathID(r, "chapterID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}
	excerptID, err := pathID(r, "excerptID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid excerpt ID"})
		return
	}

	err = h.service.RevokeLink(chapterID, excerptID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] RevokeLink error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to revoke link"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GenerateExcerpts(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := pathID(r, "chapterID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	var req models.GenerateExcerptsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Count <= 0 {
		req.Count = 4
	}
	if req.Count > 10 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "count must be at most 10"})
		return
	}

	resp, err := h.service.GenerateExcerpts(r.Context(), chapterID, req)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Chapter not found"})
		return
	}
	if err != nil {
		log.Printf("[handler] GenerateExcerpts error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate excerpts"})
		return
	}

	if resp.Generated == nil {
		resp.Generated = []models.ChapterExcerptView{}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
