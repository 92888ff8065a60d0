package profiles

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fiascohq/fiasco/backend/internal/service/analyzer"
	profilesService "github.com/fiascohq/fiasco/backend/internal/service/profiles"
	"github.com/fiascohq/fiasco/backend/internal/store"
)

func setupRouter() *chi.Mux {
	svc := profilesService.NewService(store.NewMemory(), analyzer.NewSimulated(analyzer.Config{}))
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func submitBody(t *testing.T, urls []string, sessionID string) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"urls": urls, "session_id": sessionID})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(payload)
}

func TestSubmitProfiles(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles", submitBody(t, []string{"https://twitter.com/alice"}, ""))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Status    string `json:"status"`
		SessionID string `json:"session_id"`
		Results   map[string]struct {
			Platform string `json:"platform"`
			Username string `json:"username"`
		} `json:"results"`
		Aggregates struct {
			OverallScore int `json:"overall_score"`
		} `json:"aggregates"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Status != "processed" {
		t.Fatalf("expected status processed, got %q", body.Status)
	}
	if body.SessionID == "" {
		t.Fatal("expected a session id in the response")
	}
	entry, ok := body.Results["https://twitter.com/alice"]
	if !ok {
		t.Fatalf("results not keyed by submitted url: %v", body.Results)
	}
	if entry.Platform != "twitter" || entry.Username != "alice" {
		t.Fatalf("unexpected analysis: %+v", entry)
	}
	if body.Aggregates.OverallScore != 35 {
		t.Fatalf("expected aggregate score 35, got %d", body.Aggregates.OverallScore)
	}
}

func TestSubmitProfilesBlankURLs(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles", submitBody(t, []string{"", "  "}, ""))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSubmitProfilesInvalidBody(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetProfilesUnknownSession(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/profiles/missing", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "profile not found" {
		t.Fatalf("unexpected error message: %v", body)
	}
}

func TestGetProfilesRoundTrip(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles", submitBody(t, []string{"https://facebook.com/bob"}, ""))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var submitted struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/profiles/"+submitted.SessionID, nil)
	getResp := httptest.NewRecorder()
	r.ServeHTTP(getResp, getReq)

	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}

	var loaded struct {
		URLs    []string                   `json:"urls"`
		Results map[string]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(getResp.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if len(loaded.URLs) != 1 || len(loaded.Results) != 1 {
		t.Fatalf("stored session not returned: %+v", loaded)
	}
}

func TestRefreshUnknownSession(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles/missing/refresh", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestClearSession(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/profiles/anything", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestErrorFieldOmittedOnSuccess(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/profiles", submitBody(t, []string{"https://twitter.com/alice"}, ""))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if bytes.Contains(resp.Body.Bytes(), []byte(`"error"`)) {
		t.Fatal("successful analyses must omit the error field entirely")
	}
}
