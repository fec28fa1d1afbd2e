// Cinelog - Self-Hosted Movie Catalog and Review Tracker
// Copyright 2026 Cinelog contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinelog/cinelog

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/catalog"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/reviews"
	"github.com/cinelog/cinelog/internal/store"
	"github.com/cinelog/cinelog/internal/users"
)

type testServer struct {
	handler http.Handler
	store   *store.Store
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.Open(config.StorageConfig{Path: t.TempDir(), GCDiscardRatio: 0.5})
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			SessionTimeout:    time.Hour,
			BcryptCost:        4,
			RateLimitDisabled: true,
		},
	}

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	handler := NewHandler(
		st,
		catalog.New(st),
		reviews.New(st),
		users.New(st, cfg.Security.BcryptCost),
		jwtManager,
		cfg,
	)
	router := NewRouter(handler, NewChiMiddleware(cfg.Security, jwtManager))

	return &testServer{handler: router.Setup(), store: st, jwt: jwtManager}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

// registerAndLogin creates an account over HTTP and returns its id and
// bearer token.
func (ts *testServer) registerAndLogin(t *testing.T, username, email string) (string, string) {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	userID := resp.Data.(map[string]interface{})["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "correct horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	resp = decodeEnvelope(t, rec)
	token := resp.Data.(map[string]interface{})["token"].(string)
	return userID, token
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	_, token := ts.registerAndLogin(t, "alice", "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Data.(map[string]interface{})["username"] != "alice" {
		t.Errorf("me data = %+v", resp.Data)
	}
	// Password material never leaves the API.
	if _, ok := resp.Data.(map[string]interface{})["password_hash"]; ok {
		t.Error("password_hash leaked in response")
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me without token: status %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/v1/auth/me", "bogus", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me with bad token: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status %d", rec.Code)
	}
	resp = decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "AUTHENTICATION_ERROR" {
		t.Errorf("bad login error = %+v", resp.Error)
	}
}

func TestMovieEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice", "alice@example.com")

	// Mutations require auth.
	rec := ts.do(t, http.MethodPost, "/api/v1/movies/", "", map[string]interface{}{
		"title": "Heat", "year": 1995,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/movies/", token, map[string]interface{}{
		"title":  "Heat",
		"year":   1995,
		"genres": []string{"Crime"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	movieID := decodeEnvelope(t, rec).Data.(map[string]interface{})["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/v1/movies/", token, map[string]interface{}{
		"title": "", "year": 1995,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/movies/"+movieID, "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get: status %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/v1/movies/no-such-movie", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get missing: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/movies/?q=heat", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d", rec.Code)
	}
	if results := decodeEnvelope(t, rec).Data.([]interface{}); len(results) != 1 {
		t.Errorf("search results = %+v", results)
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/movies/"+movieID, token, map[string]interface{}{
		"description": "LA cat and mouse",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	for _, path := range []string{"/featured", "/top-rated", "/genres", "/years", "/stats"} {
		rec = ts.do(t, http.MethodGet, "/api/v1/movies"+path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET movies%s: status %d", path, rec.Code)
		}
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/movies/"+movieID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete: status %d", rec.Code)
	}
}

func TestReviewEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice", "alice@example.com")

	rec := ts.do(t, http.MethodPost, "/api/v1/movies/", token, map[string]interface{}{
		"title": "Heat", "year": 1995,
	})
	movieID := decodeEnvelope(t, rec).Data.(map[string]interface{})["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/v1/reviews/", token, map[string]interface{}{
		"movie_id": movieID,
		"rating":   8.5,
		"comment":  "A classic",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create review: status %d body %s", rec.Code, rec.Body.String())
	}
	reviewID := decodeEnvelope(t, rec).Data.(map[string]interface{})["id"].(string)

	// Second review of the same movie conflicts.
	rec = ts.do(t, http.MethodPost, "/api/v1/reviews/", token, map[string]interface{}{
		"movie_id": movieID,
		"rating":   5,
		"comment":  "Changed my mind",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate review: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/reviews/", token, map[string]interface{}{
		"movie_id": movieID,
		"rating":   42,
		"comment":  "out of range",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid rating: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/reviews/"+reviewID+"/like", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("like: status %d", rec.Code)
	}
	rec = ts.do(t, http.MethodPost, "/api/v1/reviews/"+reviewID+"/tags", token, map[string]interface{}{
		"tag": "classic",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("tag: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/movies/"+movieID+"/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("movie stats: status %d", rec.Code)
	}
	stats := decodeEnvelope(t, rec).Data.(map[string]interface{})
	if stats["total_reviews"].(float64) != 1 {
		t.Errorf("movie stats = %+v", stats)
	}

	for _, path := range []string{"/recent", "/trending", "/search?q=classic", "/stats"} {
		rec = ts.do(t, http.MethodGet, "/api/v1/reviews"+path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET reviews%s: status %d", path, rec.Code)
		}
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete review: status %d", rec.Code)
	}
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerAndLogin(t, "alice", "alice@example.com")

	rec := ts.do(t, http.MethodPost, "/api/v1/movies/", token, map[string]interface{}{
		"title": "Heat", "year": 1995, "genres": []string{"Crime"},
	})
	movieID := decodeEnvelope(t, rec).Data.(map[string]interface{})["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/v1/users/me/collections/watched", token, map[string]interface{}{
		"movie_id": movieID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to collection: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = ts.do(t, http.MethodPost, "/api/v1/users/me/collections/binge", token, map[string]interface{}{
		"movie_id": movieID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown bucket: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/users/"+userID+"/collections/watched", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("collection: status %d", rec.Code)
	}
	if movies := decodeEnvelope(t, rec).Data.([]interface{}); len(movies) != 1 {
		t.Errorf("collection = %+v", movies)
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/users/me/preferences", token, map[string]interface{}{
		"theme": "dark",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("preferences: status %d body %s", rec.Code, rec.Body.String())
	}

	for _, path := range []string{
		"/api/v1/users/" + userID,
		"/api/v1/users/" + userID + "/stats",
		"/api/v1/users/" + userID + "/activity",
		"/api/v1/users/" + userID + "/recommendations",
		"/api/v1/users/search?q=ali",
		"/api/v1/users/stats",
	} {
		rec = ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status %d", path, rec.Code)
		}
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/users/me/collections/watched/"+movieID, token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("remove from collection: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete account: status %d", rec.Code)
	}
	rec = ts.do(t, http.MethodGet, "/api/v1/users/"+userID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted account lookup: status %d", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice", "alice@example.com")

	rec := ts.do(t, http.MethodGet, "/api/v1/settings/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings: status %d", rec.Code)
	}
	settings := decodeEnvelope(t, rec).Data.(map[string]interface{})
	if settings["theme"] != "light" || settings["movies_per_page"].(float64) != 12 {
		t.Errorf("default settings = %+v", settings)
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/settings/", token, map[string]interface{}{
		"theme": "dark",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/settings/", token, map[string]interface{}{
		"theme": "neon",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid theme: status %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/settings/", "", nil)
	settings = decodeEnvelope(t, rec).Data.(map[string]interface{})
	if settings["theme"] != "dark" {
		t.Errorf("settings after update = %+v", settings)
	}
}

func TestEnvelopeShape(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/movies/no-such-movie", "", nil)
	resp := decodeEnvelope(t, rec)
	if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error envelope = %+v", resp)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("metadata timestamp missing")
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/movies/", "", nil)
	resp = decodeEnvelope(t, rec)
	if resp.Status != "success" || resp.Error != nil {
		t.Errorf("success envelope = %+v", resp)
	}
}
