package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
)

type BandService struct {
	bandRepo models.BandRepo
	issuer   *helpers.TokenIssuer
	now      func() time.Time
}

func NewBandService(bandRepo models.BandRepo, issuer *helpers.TokenIssuer) *BandService {
	return &BandService{
		bandRepo: bandRepo,
		issuer:   issuer,
		now:      time.Now,
	}
}

// Register creates a band with a bcrypt credential. A taken email returns
// models.ErrConflict.
func (bs *BandService) Register(ctx context.Context, in models.RegisterInput) (*models.Band, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = helpers.NormalizeEmail(in.Email)
	if err := models.Validate.Struct(in); err != nil {
		return nil, models.ValidationErrorFrom(err)
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		ve := &models.ValidationError{}
		ve.AddInvalid("password", fmt.Sprintf("must be at most %d bytes", helpers.MaxPasswordBytes))
		return nil, ve
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := bs.now().UTC()
	band := &models.Band{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := bs.bandRepo.CreateBand(ctx, band); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register band: %w", err)
	}
	return band, nil
}

// Authenticate checks the credential. Unknown email and wrong password are
// both reported as models.ErrUnauthorized.
func (bs *BandService) Authenticate(ctx context.Context, in models.LoginInput) (*models.Band, error) {
	in.Email = helpers.NormalizeEmail(in.Email)
	if err := models.Validate.Struct(in); err != nil {
		return nil, models.ValidationErrorFrom(err)
	}

	band, err := bs.bandRepo.FindBandByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up band: %w", err)
	}
	if !helpers.CheckPassword(band.PasswordHash, in.Password) {
		return nil, models.ErrUnauthorized
	}
	return band, nil
}

type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Band      models.PublicBand `json:"band"`
}

func (bs *BandService) Login(ctx context.Context, in models.LoginInput) (*Session, error) {
	band, err := bs.Authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	token, expires, err := bs.issuer.Issue(band.ID, band.Name, band.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Band: band.Public()}, nil
}

// Profile returns the band a token names. A band that no longer exists is
// treated like a bad token.
func (bs *BandService) Profile(ctx context.Context, id uuid.UUID) (*models.Band, error) {
	if id == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	band, err := bs.bandRepo.FindBandByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up band: %w", err)
	}
	return band, nil
}
