package community

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexoecos/internal/common"
	"nexoecos/internal/dbmysql"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) (*CommunityHandler, *gorm.DB) {
	t.Helper()
	svc, db := newTestService(t)
	return NewCommunityHandler(svc), db
}

func authedRequest(t *testing.T, method, target string, body interface{}, u *dbmysql.User) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(common.WithTestUser(req.Context(), u.ID, u.Username))
}

func TestCreatePostHandler(t *testing.T) {
	h, db := newTestHandler(t)
	author := seedUser(t, db, "eco1", false)

	req := authedRequest(t, http.MethodPost, "/posts", map[string]string{
		"title": "Primer eco",
		"body":  "hola",
	}, author)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var post dbmysql.Post
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&post))
	assert.NotEmpty(t, post.Slug)
	assert.Equal(t, author.ID, post.AuthorID)
}

func TestCreatePostHandlerRequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewBufferString(`{"title":"x","body":"y"}`))
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReactToPostHandler(t *testing.T) {
	h, db := newTestHandler(t)
	author := seedUser(t, db, "autor", false)
	fan := seedUser(t, db, "fan", false)
	post := seedPost(t, db, author, "eco")

	router := mux.NewRouter()
	router.HandleFunc("/posts/{slug}/react/{reaction}", h.ReactToPost).Methods(http.MethodPost)

	req := authedRequest(t, http.MethodPost, "/posts/"+post.Slug+"/react/like", nil, fan)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Equal(t, "added", payload["result"])
	assert.Equal(t, float64(1), payload["count"])
}

func TestReactToPostHandlerUnknownSlug(t *testing.T) {
	h, db := newTestHandler(t)
	fan := seedUser(t, db, "fan", false)

	router := mux.NewRouter()
	router.HandleFunc("/posts/{slug}/react/{reaction}", h.ReactToPost).Methods(http.MethodPost)

	req := authedRequest(t, http.MethodPost, "/posts/no-existe/react/like", nil, fan)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestModerationLogHandlerForbiddenForRegularUser(t *testing.T) {
	h, db := newTestHandler(t)
	user := seedUser(t, db, "eco1", false)

	req := authedRequest(t, http.MethodGet, "/moderation/log", nil, user)
	rr := httptest.NewRecorder()
	h.ModerationLog(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestModerationLogHandlerListsForSuperuser(t *testing.T) {
	h, db := newTestHandler(t)
	author := seedUser(t, db, "autor", false)
	mod := seedUser(t, db, "mod", true)
	post := seedPost(t, db, author, "eco")

	_, err := h.service.RequestRemoval(context.Background(), common.ContentPost, post.ID, mod.ID, "spam")
	require.NoError(t, err)

	req := authedRequest(t, http.MethodGet, "/moderation/log", nil, mod)
	rr := httptest.NewRecorder()
	h.ModerationLog(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var entries []dbmysql.ModerationLog
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, post.ID, entries[0].ObjectID)
}
