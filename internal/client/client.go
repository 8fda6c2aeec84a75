// Package client implements the sync logic of the Animothèque front end
// without any UI: an API client with a local list cache, table
// comparators with sort-direction state, the debounced title search, the
// season-field state machine and the dialog guard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/animotheque/animotheque/internal/models"
)

// ErrAuthExpired reports a 401/403 from the API. The stored token is
// dropped so the caller can re-authenticate.
var ErrAuthExpired = errors.New("authentication expired")

// Entry is the mutable field set sent on add and update.
type Entry struct {
	Title       string `json:"title"`
	LastEpisode string `json:"lastEpisode"`
	Episode     *int   `json:"episode"`
	WatchDate   string `json:"watchDate"`
	Status      string `json:"status"`
	Image       string `json:"image,omitempty"`
	Sortie      string `json:"sortie,omitempty"`
}

// Client talks to the Animothèque API and caches the last fetched list so
// dialogs can name entries without refetching.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	token string
	cache []models.Anime
}

// New initializes a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs a previously stored bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register", credentials{email, password}, nil)
}

// Login authenticates and stores the returned bearer token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", credentials{email, password}, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// ResetPassword replaces the account password.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/reset-password", credentials{email, newPassword}, nil)
}

// List fetches the library and refreshes the local cache.
func (c *Client) List(ctx context.Context) ([]models.Anime, error) {
	var animes []models.Anime
	if err := c.do(ctx, http.MethodGet, "/api/animes", nil, &animes); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache = animes
	c.mu.Unlock()
	return animes, nil
}

// Add creates an entry and returns it with its assigned id.
func (c *Client) Add(ctx context.Context, entry Entry) (*models.Anime, error) {
	var anime models.Anime
	if err := c.do(ctx, http.MethodPost, "/api/animes", entry, &anime); err != nil {
		return nil, err
	}
	return &anime, nil
}

// Update replaces the mutable fields of an entry.
func (c *Client) Update(ctx context.Context, id string, entry Entry) (*models.Anime, error) {
	var anime models.Anime
	if err := c.do(ctx, http.MethodPut, "/api/animes/"+id, entry, &anime); err != nil {
		return nil, err
	}
	return &anime, nil
}

// Delete removes an entry. The server answers 200 even when the id no
// longer exists, so repeating a delete is safe.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/animes/"+id, nil, nil)
}

// Export downloads the library as MyAnimeList XML.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/animes/export", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp, true); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// Cached returns the last fetched list without calling the API.
func (c *Client) Cached() []models.Anime {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Anime, len(c.cache))
	copy(out, c.cache)
	return out
}

// FindCached looks an entry up by id in the local cache.
func (c *Client) FindCached(id string) (*models.Anime, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cache {
		if c.cache[i].ID == id {
			anime := c.cache[i]
			return &anime, true
		}
	}
	return nil, false
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	hadToken := c.Token() != ""
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, hadToken); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) checkStatus(resp *http.Response, hadToken bool) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	// 401/403 on an authenticated call means the session is gone, not
	// that this particular request was wrong.
	if hadToken && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.SetToken("")
		return ErrAuthExpired
	}

	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("api error %d: %s", resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("api error %d", resp.StatusCode)
}
