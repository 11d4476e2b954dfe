package progress

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/linguareader/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers progress endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/progress/practice", h.RecordPractice).Methods("POST")
	protected.HandleFunc("/progress/chapters", h.ListChapterProgress).Methods("GET")
	protected.HandleFunc("/progress/chapters/{chapterID}", h.GetChapterProgress).Methods("GET")
	protected.HandleFunc("/progress/chapters/{chapterID}/refresh", h.RefreshChapterProgress).Methods("POST")
	protected.HandleFunc("/progress/best-accuracy", h.GetBestAccuracy).Methods("GET")
}

// getUserID extracts the authenticated user ID from the request context.
func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) RecordPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordPracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.ChapterID <= 0 || req.ExcerptID <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "chapter_id and excerpt_id are required"})
		return
	}
	if req.OverallAccuracy < 0 || req.OverallAccuracy > 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "overall_accuracy must be between 0 and 1"})
		return
	}

	cp, err := h.service.RecordPractice(r.Context(), userID, req)
	if err != nil {
		log.Printf("[handler] RecordPractice error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record practice"})
		return
	}

	writeJSON(w, http.StatusCreated, cp)
}

func (h *Handler) RefreshChapterProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := strconv.ParseInt(mux.Vars(r)["chapterID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	cp, err := h.service.RefreshChapterProgress(r.Context(), userID, chapterID)
	if err != nil {
		log.Printf("[handler] RefreshChapterProgress error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update chapter progress"})
		return
	}

	writeJSON(w, http.StatusOK, cp)
}

func (h *Handler) GetChapterProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	chapterID, err := strconv.ParseInt(mux.Vars(r)["chapterID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter ID"})
		return
	}

	cp, err := h.service.GetChapterProgress(userID, chapterID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No progress recorded for this chapter"})
		return
	}
	if err != nil {
		log.Printf("[handler] GetChapterProgress error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get chapter progress"})
		return
	}

	writeJSON(w, http.StatusOK, cp)
}

func (h *Handler) ListChapterProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	progress, err := h.service.ListChapterProgress(userID)
	if err != nil {
		log.Printf("[handler] ListChapterProgress error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list chapter progress"})
		return
	}

	if progress == nil {
		progress = []models.UserChapterProgress{}
	}
	writeJSON(w, http.StatusOK, models.ChapterProgressListResponse{
		Progress: progress,
		Total:    len(progress),
	})
}

func (h *Handler) GetBestAccuracy(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	maxAttempts := intQueryParam(r.URL.Query(), "max_attempts", DefaultTopAttempts)
	if maxAttempts <= 0 {
		maxAttempts = DefaultTopAttempts
	}

	best, err := h.service.GetBestAccuracyFromTopAttempts(userID, maxAttempts)
	if err != nil {
		log.Printf("[handler] GetBestAccuracy error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to compute best accuracy"})
		return
	}

	writeJSON(w, http.StatusOK, models.BestAccuracyResponse{
		BestAccuracy: best,
		MaxAttempts:  maxAttempts,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
