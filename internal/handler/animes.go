package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/animotheque/animotheque/internal/export"
	"github.com/animotheque/animotheque/internal/middleware"
	"github.com/animotheque/animotheque/internal/repository"
	"github.com/animotheque/animotheque/internal/service"
)

type animeRequest struct {
	Title       string `json:"title" validate:"required"`
	LastEpisode string `json:"lastEpisode"`
	Episode     *int   `json:"episode"`
	WatchDate   string `json:"watchDate"`
	Status      string `json:"status"`
	Image       string `json:"image"`
	Sortie      string `json:"sortie"`
}

func (req animeRequest) fields() service.AnimeFields {
	return service.AnimeFields{
		Title:       req.Title,
		LastEpisode: req.LastEpisode,
		Episode:     req.Episode,
		WatchDate:   req.WatchDate,
		Status:      req.Status,
		Image:       req.Image,
		Sortie:      req.Sortie,
	}
}

// ListAnimes returns the authenticated user's library.
func (h *Handler) ListAnimes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token manquant")
		return
	}

	animes, err := h.svc.ListAnimes(r.Context(), userID)
	if err != nil {
		h.serverError(w, "List animes failed", err)
		return
	}
	respondJSON(w, http.StatusOK, animes)
}

// CreateAnime adds an entry to the authenticated user's library.
func (h *Handler) CreateAnime(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token manquant")
		return
	}

	var req animeRequest
	if err := decodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		respondMessage(w, http.StatusBadRequest, "Titre requis")
		return
	}

	anime, err := h.svc.CreateAnime(r.Context(), userID, req.fields())
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			respondMessage(w, http.StatusBadRequest, "Titre requis")
			return
		}
		h.serverError(w, "Create anime failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, anime)
}

// UpdateAnime replaces the mutable fields of an owned entry.
func (h *Handler) UpdateAnime(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token manquant")
		return
	}

	var req animeRequest
	if err := decodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		respondMessage(w, http.StatusBadRequest, "Titre requis")
		return
	}

	anime, err := h.svc.UpdateAnime(r.Context(), mux.Vars(r)["id"], userID, req.fields())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			respondMessage(w, http.StatusBadRequest, "Titre requis")
		case errors.Is(err, repository.ErrAnimeNotFound):
			respondMessage(w, http.StatusNotFound, "Animé introuvable")
		default:
			h.serverError(w, "Update anime failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, anime)
}

// DeleteAnime removes an owned entry. Deleting a missing or foreign entry
// still answers 200, keeping the operation idempotent.
func (h *Handler) DeleteAnime(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token manquant")
		return
	}

	if err := h.svc.DeleteAnime(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		h.serverError(w, "Delete anime failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Animé supprimé")
}

// ExportAnimes serves the user's library as MyAnimeList-compatible XML.
func (h *Handler) ExportAnimes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Token manquant")
		return
	}

	animes, err := h.svc.ListAnimes(r.Context(), userID)
	if err != nil {
		h.serverError(w, "Export animes failed", err)
		return
	}

	data, err := export.XML(animes)
	if err != nil {
		h.serverError(w, "Export animes failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="animotheque.xml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
