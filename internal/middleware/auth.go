package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenVerifier validates a bearer token and resolves the user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Auth rejects requests without a valid bearer token. A missing or
// malformed Authorization header yields 401 before any store access; a
// token that fails verification yields 403. On success the resolved user
// id is attached to the request context, which is the only identity
// source downstream handlers trust.
func Auth(verifier TokenVerifier, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Debugf("Missing or malformed authorization header on %s", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "Token manquant")
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				log.Debugf("Token rejected on %s: %v", r.URL.Path, err)
				writeError(w, http.StatusForbidden, "Token invalide")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id from the request context.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
