package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01T18:00:00Z", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"2024-06-01T20:00:00+02:00", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"2024-06-01T20:00", time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
		{"2024-06-01T20:00:30", time.Date(2024, 6, 1, 18, 0, 30, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in, berlin)
		require.NoError(t, err, c.in)
		assert.True(t, c.want.Equal(got), "%s: got %s", c.in, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	for _, bad := range []string{"", "  ", "not-a-date", "2024-13-01"} {
		_, err := ParseDate(bad, berlin)
		assert.Error(t, err, bad)
	}
}

func TestFormatLocalDateTimeRoundTrips(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	local := FormatLocalDateTime(instant, loc)
	assert.Equal(t, "2024-06-01T18:30", local)

	back, err := ParseDate(local, loc)
	require.NoError(t, err)
	assert.True(t, instant.Equal(back))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "band@example.com", NormalizeEmail("  Band@Example.COM "))
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	id := uuid.New()

	token, expires, err := issuer.Issue(id, "The Tide", "band@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	got, err := claims.BandID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "band@example.com", claims.Email)
}

func TestTokenIssuerRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	foreign, _, err := other.Issue(uuid.New(), "x", "x@example.com")
	require.NoError(t, err)
	_, err = issuer.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := issuer.Issue(uuid.New(), "x", "x@example.com")
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = issuer.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Validate(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidatorsFallThrough(t *testing.T) {
	first := NewTokenIssuer("first", time.Hour)
	second := NewTokenIssuer("second", time.Hour)
	chain := Validators{first, second}

	token, _, err := second.Issue(uuid.New(), "x", "x@example.com")
	require.NoError(t, err)
	_, err = chain.Validate(token)
	assert.NoError(t, err)

	_, err = chain.Validate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsBandIDRequiresUUIDSubject(t *testing.T) {
	c := &Claims{}
	c.Subject = "not-a-uuid"
	_, err := c.BandID()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
