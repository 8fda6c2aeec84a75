package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/animotheque/animotheque/internal/service"
)

// Handler wires HTTP endpoints to the service layer. Every error body has
// the shape {"message": "..."}; detail of unclassified failures only
// reaches the log, never the client.
type Handler struct {
	svc      *service.Service
	log      *logrus.Logger
	validate *validator.Validate
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, validate: validator.New()}
}

// Test is the liveness endpoint.
func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Serveur backend fonctionnel !"})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func (h *Handler) serverError(w http.ResponseWriter, context string, err error) {
	h.log.Errorf("%s: %v", context, err)
	respondMessage(w, http.StatusInternalServerError, "Erreur serveur")
}

func decodeJSON(r *http.Request, target interface{}) error {
	return json.NewDecoder(r.Body).Decode(target)
}
