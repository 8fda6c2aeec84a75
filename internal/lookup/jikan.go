package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// JikanClient queries the Jikan API: a title search first, then the
// relations of the best match. The season count is one plus the number of
// "Sequel" relations.
type JikanClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewJikanClient initializes a new Jikan client
func NewJikanClient(baseURL string, log *logrus.Logger) *JikanClient {
	return &JikanClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type searchResponse struct {
	Data []struct {
		MalID  int    `json:"mal_id"`
		Title  string `json:"title"`
		Images struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
	} `json:"data"`
}

type relationsResponse struct {
	Data []struct {
		Relation string `json:"relation"`
		Entry    []struct {
			Title string `json:"title"`
		} `json:"entry"`
	} `json:"data"`
}

// Lookup searches the title and counts sequel relations of the top result.
func (c *JikanClient) Lookup(ctx context.Context, title string) (*Metadata, error) {
	var search searchResponse
	searchURL := fmt.Sprintf("%s/anime?q=%s&limit=10&sfw", c.baseURL, url.QueryEscape(title))
	if err := c.getJSON(ctx, searchURL, &search); err != nil {
		c.log.Debugf("Jikan search failed for %q: %v", title, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(search.Data) == 0 {
		return nil, ErrUnavailable
	}
	best := search.Data[0]

	var relations relationsResponse
	relationsURL := fmt.Sprintf("%s/anime/%d/relations", c.baseURL, best.MalID)
	if err := c.getJSON(ctx, relationsURL, &relations); err != nil {
		c.log.Debugf("Jikan relations failed for %q: %v", title, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	seasonCount := 1
	for _, relation := range relations.Data {
		if relation.Relation == "Sequel" {
			seasonCount++
		}
	}

	c.log.Infof("Jikan lookup %q: %d seasons", best.Title, seasonCount)
	return &Metadata{
		CanonicalTitle: best.Title,
		SeasonCount:    seasonCount,
		ImageURL:       best.Images.JPG.ImageURL,
	}, nil
}

func (c *JikanClient) getJSON(ctx context.Context, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
