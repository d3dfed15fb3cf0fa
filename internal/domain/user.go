package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the single profile that owns the displayed collection.
type User struct {
	ID            uuid.UUID
	Name          string
	AvatarURL     *string
	Bio           *string
	BirthDate     *time.Time
	FavoriteQuote *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
