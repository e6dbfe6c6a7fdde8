package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/moneta-app/moneta/internal/apperr"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrNotFound           = apperr.NotFound("user not found")
	ErrDuplicateEmail     = apperr.Conflict("an account with this email already exists")
	ErrInvalidCredentials = apperr.Validation("invalid email or password")
)
