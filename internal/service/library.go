package service

import (
	"context"
	"strings"

	"github.com/animotheque/animotheque/internal/models"
)

// AnimeFields is the mutable field set of an entry, supplied by the client.
type AnimeFields struct {
	Title       string
	LastEpisode string
	Episode     *int
	WatchDate   string
	Status      string
	Image       string
	Sortie      string
}

// ListAnimes returns all entries owned by the user.
func (s *Service) ListAnimes(ctx context.Context, ownerID string) ([]models.Anime, error) {
	return s.animes.ListAnimes(ctx, ownerID)
}

// CreateAnime stores a new entry for the user and returns it with its id.
func (s *Service) CreateAnime(ctx context.Context, ownerID string, fields AnimeFields) (*models.Anime, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return nil, ErrTitleRequired
	}

	anime := &models.Anime{
		UserID:      ownerID,
		Title:       fields.Title,
		LastEpisode: fields.LastEpisode,
		Episode:     fields.Episode,
		WatchDate:   fields.WatchDate,
		Status:      fields.Status,
		Image:       fields.Image,
		Sortie:      fields.Sortie,
	}
	if err := s.animes.CreateAnime(ctx, anime); err != nil {
		return nil, err
	}

	s.log.Infof("Anime added for user %s: %s", ownerID, anime.Title)
	return anime, nil
}

// UpdateAnime replaces the mutable fields of an owned entry. Updating a
// missing or foreign entry returns repository.ErrAnimeNotFound.
func (s *Service) UpdateAnime(ctx context.Context, id, ownerID string, fields AnimeFields) (*models.Anime, error) {
	if strings.TrimSpace(fields.Title) == "" {
		return nil, ErrTitleRequired
	}

	anime := &models.Anime{
		ID:          id,
		UserID:      ownerID,
		Title:       fields.Title,
		LastEpisode: fields.LastEpisode,
		Episode:     fields.Episode,
		WatchDate:   fields.WatchDate,
		Status:      fields.Status,
		Image:       fields.Image,
		Sortie:      fields.Sortie,
	}
	if err := s.animes.UpdateAnime(ctx, anime); err != nil {
		return nil, err
	}
	return anime, nil
}

// DeleteAnime removes an owned entry. Idempotent: deleting a missing or
// foreign entry succeeds without touching anything.
func (s *Service) DeleteAnime(ctx context.Context, id, ownerID string) error {
	return s.animes.DeleteAnime(ctx, id, ownerID)
}
