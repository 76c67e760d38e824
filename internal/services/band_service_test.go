package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBandService() (*BandService, *models.MemoryRepo) {
	repo := models.NewMemoryRepo()
	return NewBandService(repo, helpers.NewTokenIssuer("test-secret", time.Hour)), repo
}

func TestRegisterHashesAndNormalizes(t *testing.T) {
	ctx := context.Background()
	bs, repo := newBandService()

	band, err := bs.Register(ctx, models.RegisterInput{Name: " The Tide ", Email: " Tide@Example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "The Tide", band.Name)
	assert.Equal(t, "tide@example.com", band.Email)
	assert.NotEqual(t, "hunter22", band.PasswordHash)
	assert.True(t, helpers.CheckPassword(band.PasswordHash, "hunter22"))

	stored, err := repo.FindBandByEmail(ctx, "tide@example.com")
	require.NoError(t, err)
	assert.Equal(t, band.ID, stored.ID)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	bs, repo := newBandService()

	first, err := bs.Register(ctx, models.RegisterInput{Name: "The Tide", Email: "tide@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = bs.Register(ctx, models.RegisterInput{Name: "Imposters", Email: "TIDE@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := repo.FindBandByEmail(ctx, "tide@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "The Tide", stored.Name)
}

func TestRegisterMissingFields(t *testing.T) {
	bs, _ := newBandService()

	_, err := bs.Register(context.Background(), models.RegisterInput{Email: "tide@example.com"})
	ve := validationErr(t, err)
	assert.ElementsMatch(t, []string{"name", "password"}, ve.Missing)
}

func TestRegisterRejectsPasswordBcryptCannotHash(t *testing.T) {
	bs, _ := newBandService()

	// 71 ASCII bytes plus one two-byte rune is 73 bytes in 72 characters
	long := strings.Repeat("a", 71) + "é"
	_, err := bs.Register(context.Background(), models.RegisterInput{
		Name: "The Tide", Email: "tide@example.com", Password: long,
	})
	ve := validationErr(t, err)
	assert.Contains(t, ve.Invalid, "password")

	_, err = bs.Register(context.Background(), models.RegisterInput{
		Name: "The Tide", Email: "tide@example.com", Password: strings.Repeat("a", 72),
	})
	assert.NoError(t, err)
}

func TestLoginIssuesTokenForBand(t *testing.T) {
	ctx := context.Background()
	bs, _ := newBandService()

	band, err := bs.Register(ctx, models.RegisterInput{Name: "The Tide", Email: "tide@example.com", Password: "pw"})
	require.NoError(t, err)

	session, err := bs.Login(ctx, models.LoginInput{Email: "Tide@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, band.Public(), session.Band)

	claims, err := bs.issuer.Validate(session.Token)
	require.NoError(t, err)
	id, err := claims.BandID()
	require.NoError(t, err)
	assert.Equal(t, band.ID, id)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	bs, _ := newBandService()

	_, err := bs.Register(ctx, models.RegisterInput{Name: "The Tide", Email: "tide@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = bs.Login(ctx, models.LoginInput{Email: "tide@example.com", Password: "nope"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = bs.Login(ctx, models.LoginInput{Email: "ghost@example.com", Password: "pw"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestProfileResolvesBandID(t *testing.T) {
	ctx := context.Background()
	bs, _ := newBandService()
	band, err := bs.Register(ctx, models.RegisterInput{Name: "The Tide", Email: "tide@example.com", Password: "s3cret"})
	require.NoError(t, err)

	got, err := bs.Profile(ctx, band.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Tide", got.Name)

	_, err = bs.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = bs.Profile(ctx, uuid.Nil)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
