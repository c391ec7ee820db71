package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testShareSecret = []byte("0123456789abcdef0123456789abcdef")

func TestBuildAndParseShareToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	raw := PregnancyInputRaw{LastPeriod: " 2024-01-01 ", CycleLength: "30", WeightKg: "60", HeightCm: "165"}

	token, expiresAt, err := BuildShareToken(testShareSecret, raw, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("BuildShareToken() unexpected error: %v", err)
	}
	if !expiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry %s, got %s", now.Add(24*time.Hour), expiresAt)
	}

	claims, err := ParseShareToken(testShareSecret, token, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ParseShareToken() unexpected error: %v", err)
	}

	got := claims.Input()
	want := PregnancyInputRaw{LastPeriod: "2024-01-01", CycleLength: "30", WeightKg: "60", HeightCm: "165"}
	if got != want {
		t.Fatalf("expected input %+v, got %+v", want, got)
	}
}

func TestParseShareTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	token, _, err := BuildShareToken(testShareSecret, PregnancyInputRaw{LastPeriod: "2024-01-01"}, time.Minute, now)
	if err != nil {
		t.Fatalf("BuildShareToken() unexpected error: %v", err)
	}

	_, err = ParseShareToken(testShareSecret, token, now.Add(2*time.Minute))
	if !errors.Is(err, ErrShareTokenExpired) {
		t.Fatalf("expected ErrShareTokenExpired, got %v", err)
	}
}

func TestParseShareTokenRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	token, _, err := BuildShareToken(testShareSecret, PregnancyInputRaw{LastPeriod: "2024-01-01"}, time.Hour, now)
	if err != nil {
		t.Fatalf("BuildShareToken() unexpected error: %v", err)
	}

	_, err = ParseShareToken([]byte("another-secret-another-secret-000"), token, now)
	if !errors.Is(err, ErrShareTokenInvalid) {
		t.Fatalf("expected ErrShareTokenInvalid, got %v", err)
	}
}

func TestParseShareTokenRejectsWrongPurpose(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	claims := ShareClaims{
		Purpose:    "password_reset",
		LastPeriod: "2024-01-01",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    shareTokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testShareSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = ParseShareToken(testShareSecret, token, now)
	if !errors.Is(err, ErrShareTokenInvalidPurpose) {
		t.Fatalf("expected ErrShareTokenInvalidPurpose, got %v", err)
	}
}

func TestParseShareTokenRejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	claims := ShareClaims{
		Purpose:          shareTokenPurpose,
		LastPeriod:       "2024-01-01",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: shareTokenIssuer},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testShareSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, err = ParseShareToken(testShareSecret, token, now)
	if !errors.Is(err, ErrShareTokenInvalid) {
		t.Fatalf("expected ErrShareTokenInvalid, got %v", err)
	}
}

func TestShareTokenGuards(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	if _, _, err := BuildShareToken(nil, PregnancyInputRaw{LastPeriod: "2024-01-01"}, time.Hour, now); !errors.Is(err, ErrShareSecretMissing) {
		t.Fatalf("expected ErrShareSecretMissing from build, got %v", err)
	}
	if _, err := ParseShareToken(nil, "token", now); !errors.Is(err, ErrShareSecretMissing) {
		t.Fatalf("expected ErrShareSecretMissing from parse, got %v", err)
	}
	if _, err := ParseShareToken(testShareSecret, "   ", now); !errors.Is(err, ErrShareTokenMissing) {
		t.Fatalf("expected ErrShareTokenMissing, got %v", err)
	}
	if _, err := ParseShareToken(testShareSecret, "not-a-jwt", now); !errors.Is(err, ErrShareTokenInvalid) {
		t.Fatalf("expected ErrShareTokenInvalid, got %v", err)
	}
}
