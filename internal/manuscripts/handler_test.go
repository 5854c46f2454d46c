package manuscripts

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globizsReact/dmu-journal-sub000/internal/auth"
	"github.com/globizsReact/dmu-journal-sub000/internal/journals"
	"github.com/globizsReact/dmu-journal-sub000/pkg/database"
)

// newTestRouter wires the real middleware, service, and handler the
// way cmd/api-server does, against a throwaway database.
func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB, auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	seed := []struct {
		id, role, approval string
	}{
		{"author-1", "author", "approved"},
		{"author-2", "author", "approved"},
		{"reviewer-2", "reviewer", "pending"},
		{"admin-1", "admin", "approved"},
	}
	for _, u := range seed {
		_, err := db.Exec(`
			INSERT INTO users (id, username, email, password_hash, role, approval_status)
			VALUES (?, ?, ?, 'x', ?, ?)
		`, u.id, u.id, u.id+"@example.com", u.role, u.approval)
		require.NoError(t, err)
	}
	_, err = db.Exec(`
		INSERT INTO journal_categories (id, name) VALUES (?, 'Agricultural Sciences')
	`, testCategoryID)
	require.NoError(t, err)

	tokens := auth.TokenService{Secret: []byte("test-secret"), Issuer: "dmu-journal", Duration: time.Hour}
	authRepo := auth.NewRepo(db)

	svc := NewService(NewRepo(db), journals.NewRepo(db), nil)
	handler := NewHandler(svc)

	router := gin.New()
	group := router.Group("/manuscripts")
	group.Use(auth.AuthMiddleware(tokens, authRepo))
	handler.RegisterRoutes(group)

	return router, db, tokens
}

func bearerToken(t *testing.T, db *sql.DB, tokens auth.TokenService, userID string) string {
	t.Helper()
	u, err := auth.NewRepo(db).GetByID(t.Context(), userID)
	require.NoError(t, err)
	require.NotNil(t, u)

	token, _, err := tokens.Sign(u)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerRequiresToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/manuscripts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerSubmitAndStatusFlow(t *testing.T) {
	router, db, tokens := newTestRouter(t)
	authorTok := bearerToken(t, db, tokens, "author-1")
	adminTok := bearerToken(t, db, tokens, "admin-1")

	w := doJSON(router, http.MethodPost, "/manuscripts", authorTok, validSubmission())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Submitted", created.Status)

	w = doJSON(router, http.MethodPut, "/manuscripts/"+created.ID+"/status", adminTok, gin.H{"status": "InReview"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "InReview", updated.Status)
}

func TestHandlerValidationMapsTo422(t *testing.T) {
	router, db, tokens := newTestRouter(t)
	authorTok := bearerToken(t, db, tokens, "author-1")

	in := validSubmission()
	in.AuthorAgreement = false

	w := doJSON(router, http.MethodPost, "/manuscripts", authorTok, in)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Kind  string `json:"kind"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_input", body.Kind)
	assert.Equal(t, "authorAgreement", body.Field)
}

func TestHandlerPendingReviewerForbidden(t *testing.T) {
	router, db, tokens := newTestRouter(t)
	authorTok := bearerToken(t, db, tokens, "author-1")
	pendingTok := bearerToken(t, db, tokens, "reviewer-2")

	w := doJSON(router, http.MethodPost, "/manuscripts", authorTok, validSubmission())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPut, "/manuscripts/"+created.ID+"/status", pendingTok, gin.H{"status": "InReview"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "role_not_permitted", body.Kind)
}

func TestHandlerOwnershipForbidden(t *testing.T) {
	router, db, tokens := newTestRouter(t)
	authorTok := bearerToken(t, db, tokens, "author-1")
	strangerTok := bearerToken(t, db, tokens, "author-2")

	w := doJSON(router, http.MethodPost, "/manuscripts", authorTok, validSubmission())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodDelete, "/manuscripts/"+created.ID, strangerTok, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not_owner", body.Kind)

	// record is untouched
	w = doJSON(router, http.MethodGet, "/manuscripts/"+created.ID, authorTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerPublishedDeleteConflict(t *testing.T) {
	router, db, tokens := newTestRouter(t)
	authorTok := bearerToken(t, db, tokens, "author-1")
	adminTok := bearerToken(t, db, tokens, "admin-1")

	w := doJSON(router, http.MethodPost, "/manuscripts", authorTok, validSubmission())
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPut, "/manuscripts/"+created.ID+"/status", adminTok, gin.H{"status": "Published"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/manuscripts/"+created.ID, authorTok, nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "published_not_deletable", body.Kind)
}
