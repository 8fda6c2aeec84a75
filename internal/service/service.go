package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/animotheque/animotheque/internal/config"
	"github.com/animotheque/animotheque/internal/models"
)

// Errors returned by the service layer. Login deliberately collapses
// unknown email and wrong password into ErrInvalidCredentials, and token
// verification collapses every failure kind into ErrInvalidToken.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTitleRequired      = errors.New("title is required")
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// AnimeRepository persists library entries, always scoped by owner.
type AnimeRepository interface {
	ListAnimes(ctx context.Context, ownerID string) ([]models.Anime, error)
	CreateAnime(ctx context.Context, anime *models.Anime) error
	UpdateAnime(ctx context.Context, anime *models.Anime) error
	DeleteAnime(ctx context.Context, id, ownerID string) error
}

// Mailer sends account notifications. May be nil when SMTP is not configured.
type Mailer interface {
	SendPasswordResetNotice(to string) error
}

// Service handles business logic
type Service struct {
	users  UserRepository
	animes AnimeRepository
	mailer Mailer
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(users UserRepository, animes AnimeRepository, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{users: users, animes: animes, mailer: mailer, log: log, config: cfg}
}
