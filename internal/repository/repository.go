package repository

import (
	"database/sql"
	"errors"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrEmailTaken    = errors.New("email already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrAnimeNotFound = errors.New("anime not found")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}
