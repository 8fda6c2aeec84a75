package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/animotheque/animotheque/internal/models"
)

const animeColumns = `id, user_id, title, last_episode, episode, watch_date, status, image, sortie, created_at`

// ListAnimes returns all entries owned by ownerID in insertion order.
func (r *Repository) ListAnimes(ctx context.Context, ownerID string) ([]models.Anime, error) {
	query := `
		SELECT ` + animeColumns + `
		FROM animes
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list animes: %w", err)
	}
	defer rows.Close()
	return scanAnimes(rows)
}

// CreateAnime stores a new entry and assigns its id.
func (r *Repository) CreateAnime(ctx context.Context, anime *models.Anime) error {
	anime.ID = uuid.NewString()
	query := `
		INSERT INTO animes (id, user_id, title, last_episode, episode, watch_date, status, image, sortie)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		anime.ID, anime.UserID, anime.Title, anime.LastEpisode, anime.Episode,
		anime.WatchDate, anime.Status, anime.Image, anime.Sortie).
		Scan(&anime.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create anime: %w", err)
	}
	return nil
}

// UpdateAnime replaces the mutable fields of the entry scoped to (id, owner).
// Returns ErrAnimeNotFound when no owned row matches, without revealing
// whether the id exists for another user.
func (r *Repository) UpdateAnime(ctx context.Context, anime *models.Anime) error {
	query := `
		UPDATE animes
		SET title = $1, last_episode = $2, episode = $3, watch_date = $4, status = $5, image = $6, sortie = $7
		WHERE id = $8 AND user_id = $9
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		anime.Title, anime.LastEpisode, anime.Episode, anime.WatchDate,
		anime.Status, anime.Image, anime.Sortie, anime.ID, anime.UserID).
		Scan(&anime.CreatedAt)
	if err == sql.ErrNoRows {
		return ErrAnimeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update anime: %w", err)
	}
	return nil
}

// DeleteAnime removes the entry scoped to (id, owner). Deleting a missing
// or foreign entry is a no-op.
func (r *Repository) DeleteAnime(ctx context.Context, id, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM animes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete anime: %w", err)
	}
	return nil
}

// ListUpcoming returns entries across all users whose status marks an
// upcoming season, for the release-estimate refresher.
func (r *Repository) ListUpcoming(ctx context.Context) ([]models.Anime, error) {
	query := `
		SELECT ` + animeColumns + `
		FROM animes
		WHERE status = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, models.StatusUpcoming)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming animes: %w", err)
	}
	defer rows.Close()
	return scanAnimes(rows)
}

// UpdateSortie sets the release-estimate text of an entry.
func (r *Repository) UpdateSortie(ctx context.Context, id, sortie string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE animes SET sortie = $1 WHERE id = $2`, sortie, id)
	if err != nil {
		return fmt.Errorf("failed to update sortie: %w", err)
	}
	return nil
}

func scanAnimes(rows *sql.Rows) ([]models.Anime, error) {
	animes := []models.Anime{}
	for rows.Next() {
		var a models.Anime
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.LastEpisode, &a.Episode,
			&a.WatchDate, &a.Status, &a.Image, &a.Sortie, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan anime: %w", err)
		}
		animes = append(animes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read animes: %w", err)
	}
	return animes, nil
}
