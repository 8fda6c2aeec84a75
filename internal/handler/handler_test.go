package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animotheque/animotheque/internal/config"
	"github.com/animotheque/animotheque/internal/handler"
	"github.com/animotheque/animotheque/internal/middleware"
	"github.com/animotheque/animotheque/internal/models"
	"github.com/animotheque/animotheque/internal/repository"
	"github.com/animotheque/animotheque/internal/service"
)

// memoryStore is an in-memory stand-in for the Postgres repository,
// honoring the same sentinels and owner scoping.
type memoryStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
	animes []models.Anime
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*models.User{}}
}

func (m *memoryStore) id() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func (m *memoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrEmailTaken
	}
	user.ID = m.id()
	m.users[user.Email] = user
	return nil
}

func (m *memoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[email]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *memoryStore) ListAnimes(ctx context.Context, ownerID string) ([]models.Anime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Anime{}
	for _, a := range m.animes {
		if a.UserID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateAnime(ctx context.Context, anime *models.Anime) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	anime.ID = m.id()
	m.animes = append(m.animes, *anime)
	return nil
}

func (m *memoryStore) UpdateAnime(ctx context.Context, anime *models.Anime) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.animes {
		if a.ID == anime.ID && a.UserID == anime.UserID {
			anime.CreatedAt = a.CreatedAt
			m.animes[i] = *anime
			return nil
		}
	}
	return repository.ErrAnimeNotFound
}

func (m *memoryStore) DeleteAnime(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.animes {
		if a.ID == id && a.UserID == ownerID {
			m.animes = append(m.animes[:i], m.animes[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := newMemoryStore()
	svc := service.NewService(store, store, nil, log, &config.Config{JWTSecret: "test-secret"})
	h := handler.NewHandler(svc, log)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", h.Test).Methods("GET")
	api.HandleFunc("/register", h.Register).Methods("POST")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/reset-password", h.ResetPassword).Methods("POST")
	animes := api.PathPrefix("/animes").Subrouter()
	animes.Use(middleware.Auth(svc, log))
	animes.HandleFunc("", h.ListAnimes).Methods("GET")
	animes.HandleFunc("", h.CreateAnime).Methods("POST")
	animes.HandleFunc("/export", h.ExportAnimes).Methods("GET")
	animes.HandleFunc("/{id}", h.UpdateAnime).Methods("PUT")
	animes.HandleFunc("/{id}", h.DeleteAnime).Methods("DELETE")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	decoded := map[string]interface{}{}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func register(t *testing.T, srv *httptest.Server, email, password string) {
	t.Helper()
	resp, _ := call(t, srv, http.MethodPost, "/api/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := call(t, srv, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLiveness(t *testing.T) {
	srv := newTestServer(t)
	resp, body := call(t, srv, http.MethodGet, "/api/test", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}

func TestRegisterAndLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	register(t, srv, "a@x.com", "secret1")
	login(t, srv, "a@x.com", "secret1")

	resp, body := call(t, srv, http.MethodPost, "/api/register", "", map[string]string{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email déjà utilisé", body["message"])

	resp, wrongPassword := call(t, srv, http.MethodPost, "/api/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, unknownEmail := call(t, srv, http.MethodPost, "/api/login", "", map[string]string{"email": "b@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Same generic body for wrong password and unknown email.
	assert.Equal(t, wrongPassword["message"], unknownEmail["message"])
}

func TestRegisterMissingFields(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := call(t, srv, http.MethodPost, "/api/register", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetPassword(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "a@x.com", "secret1")

	resp, _ := call(t, srv, http.MethodPost, "/api/reset-password", "", map[string]string{"email": "a@x.com", "password": "newpass"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	login(t, srv, "a@x.com", "newpass")

	resp, _ = call(t, srv, http.MethodPost, "/api/reset-password", "", map[string]string{"email": "nobody@x.com", "password": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodPost, "/api/reset-password", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnimesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := call(t, srv, http.MethodGet, "/api/animes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, srv, http.MethodGet, "/api/animes", "garbage-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAnimeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "a@x.com", "secret1")
	token := login(t, srv, "a@x.com", "secret1")

	resp, created := call(t, srv, http.MethodPost, "/api/animes", token, map[string]interface{}{
		"title": "Naruto", "status": "fini",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp, _ = call(t, srv, http.MethodGet, "/api/animes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, listContains(t, srv, token, id))

	resp, updated := call(t, srv, http.MethodPut, "/api/animes/"+id, token, map[string]interface{}{
		"title": "Naruto", "lastEpisode": "Saison 2", "episode": 12, "watchDate": "2020-01-01", "status": "fini",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Saison 2", updated["lastEpisode"])
	assert.Equal(t, id, updated["id"])

	resp, _ = call(t, srv, http.MethodDelete, "/api/animes/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, listContains(t, srv, token, id))

	// Idempotent: the second delete succeeds too.
	resp, _ = call(t, srv, http.MethodDelete, "/api/animes/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func listContains(t *testing.T, srv *httptest.Server, token, id string) bool {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/animes", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var animes []models.Anime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&animes))
	for _, a := range animes {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestCreateAnimeRequiresTitle(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "a@x.com", "secret1")
	token := login(t, srv, "a@x.com", "secret1")

	resp, _ := call(t, srv, http.MethodPost, "/api/animes", token, map[string]string{"status": "fini"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOwnerIsolation(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "u1@x.com", "secret1")
	register(t, srv, "u2@x.com", "secret2")
	token1 := login(t, srv, "u1@x.com", "secret1")
	token2 := login(t, srv, "u2@x.com", "secret2")

	_, created := call(t, srv, http.MethodPost, "/api/animes", token1, map[string]string{"title": "Naruto", "status": "fini"})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	// U2 never sees U1's entry.
	assert.False(t, listContains(t, srv, token2, id))

	// U2's update attempt matches nothing and leaks nothing.
	resp, _ := call(t, srv, http.MethodPut, "/api/animes/"+id, token2, map[string]string{"title": "Hacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// U2's delete is a no-op; U1 keeps the entry untouched.
	resp, _ = call(t, srv, http.MethodDelete, "/api/animes/"+id, token2, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, listContains(t, srv, token1, id))

	animes := listOf(t, srv, token1)
	require.Len(t, animes, 1)
	assert.Equal(t, "Naruto", animes[0].Title)
}

func listOf(t *testing.T, srv *httptest.Server, token string) []models.Anime {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/animes", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var animes []models.Anime
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&animes))
	return animes
}

func TestExportAnimes(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "a@x.com", "secret1")
	token := login(t, srv, "a@x.com", "secret1")

	_, _ = call(t, srv, http.MethodPost, "/api/animes", token, map[string]string{"title": "Naruto", "status": "fini"})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/animes/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<series_title>Naruto</series_title>")
}
