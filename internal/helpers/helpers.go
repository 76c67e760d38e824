package helpers

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// LocalDateTimeLayout is the value format of a datetime-local input.
	LocalDateTimeLayout = "2006-01-02T15:04"
	DateLayout          = "2006-01-02"

	AccessTokenCookie = "access_token"

	PasswordCost = 12
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

// zone-less layouts are read in the caller's location
var localLayouts = []string{
	"2006-01-02T15:04:05",
	LocalDateTimeLayout,
	DateLayout,
}

// ParseDate accepts RFC 3339 or one of the local layouts and returns the
// instant in UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a recognised date", s)
}

// FormatLocalDateTime renders t for a datetime-local input in loc.
func FormatLocalDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(LocalDateTimeLayout)
}

// LoadLocation resolves an IANA zone name. A blank name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
