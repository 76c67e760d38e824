package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	BandsColName = "bands"
	BandsTable   = "bands"
)

type Band struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// PublicBand is what the API echoes back about a band. The credential never leaves the store.
type PublicBand struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (b *Band) Public() PublicBand {
	return PublicBand{ID: b.ID, Name: b.Name, Email: b.Email}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BandRepo stores bands. CreateBand returns ErrConflict when the email is taken.
type BandRepo interface {
	CreateBand(ctx context.Context, band *Band) error
	FindBandByEmail(ctx context.Context, email string) (*Band, error)
	FindBandByID(ctx context.Context, id uuid.UUID) (*Band, error)
}
