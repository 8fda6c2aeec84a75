package handler

import (
	"errors"
	"net/http"

	"github.com/animotheque/animotheque/internal/repository"
	"github.com/animotheque/animotheque/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		respondMessage(w, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	if _, err := h.svc.Register(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			respondMessage(w, http.StatusConflict, "Email déjà utilisé")
			return
		}
		h.serverError(w, "Register failed", err)
		return
	}

	respondMessage(w, http.StatusCreated, "Compte créé")
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Email et mot de passe requis")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondMessage(w, http.StatusUnauthorized, "Email ou mot de passe incorrect")
			return
		}
		h.serverError(w, "Login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ResetPassword replaces the password of an existing account. Knowing the
// email is the only required proof, matching the product's documented flow.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		respondMessage(w, http.StatusBadRequest, "Email et nouveau mot de passe requis")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "Aucun compte avec cet email")
			return
		}
		h.serverError(w, "Reset password failed", err)
		return
	}

	respondMessage(w, http.StatusOK, "Mot de passe réinitialisé avec succès")
}
