package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/linguareader/backend/internal/models"
)

// The auth check runs before any service call, so a handler with a nil
// service is enough to exercise the unauthenticated paths.
func newTestRouter() *mux.Router {
	h := NewHandler(nil)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandlers_RequireAuthentication(t *testing.T) {
	router := newTestRouter()

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/progress/practice", `{"chapter_id":1,"excerpt_id":2,"overall_accuracy":0.9}`},
		{"GET", "/progress/chapters", ""},
		{"GET", "/progress/chapters/1", ""},
		{"POST", "/progress/chapters/1/refresh", ""},
		{"GET", "/progress/best-accuracy", ""},
	}

	for _, tt := range requests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, http.StatusUnauthorized)
		}

		var resp models.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("%s %s: invalid error body: %v", tt.method, tt.path, err)
		}
		if resp.Error != "Authentication required" {
			t.Errorf("%s %s: error = %q, want %q", tt.method, tt.path, resp.Error, "Authentication required")
		}
	}
}

func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), "user_id", userID))
}

func TestRecordPractice_RejectsBadInput(t *testing.T) {
	router := newTestRouter()

	bodies := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{not json`},
		{"missing ids", `{"overall_accuracy":0.5}`},
		{"negative accuracy", `{"chapter_id":1,"excerpt_id":2,"overall_accuracy":-0.1}`},
		{"accuracy above one", `{"chapter_id":1,"excerpt_id":2,"overall_accuracy":1.5}`},
	}

	for _, tt := range bodies {
		req := httptest.NewRequest("POST", "/progress/practice", strings.NewReader(tt.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withUser(req, 1))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestGetChapterProgress_InvalidID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/progress/chapters/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withUser(req, 1))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
