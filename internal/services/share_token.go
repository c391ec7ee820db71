package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	shareTokenPurpose = "share_calculation"
	shareTokenIssuer  = "pregcalc"
	DefaultShareTTL   = 30 * 24 * time.Hour
)

var (
	ErrShareTokenMissing        = errors.New("missing share token")
	ErrShareTokenInvalid        = errors.New("invalid share token")
	ErrShareTokenInvalidPurpose = errors.New("invalid share token purpose")
	ErrShareTokenExpired        = errors.New("expired share token")
	ErrShareSecretMissing       = errors.New("share secret is not configured")
)

// ShareClaims carries only the inputs of a calculation; results are
// recomputed against the current date whenever the token is opened.
type ShareClaims struct {
	Purpose     string `json:"purpose"`
	LastPeriod  string `json:"lmp"`
	CycleLength string `json:"cycle,omitempty"`
	WeightKg    string `json:"weight,omitempty"`
	HeightCm    string `json:"height,omitempty"`
	BMI         string `json:"bmi,omitempty"`
	jwt.RegisteredClaims
}

func (claims ShareClaims) Input() PregnancyInputRaw {
	return PregnancyInputRaw{
		LastPeriod:  claims.LastPeriod,
		CycleLength: claims.CycleLength,
		WeightKg:    claims.WeightKg,
		HeightCm:    claims.HeightCm,
		BMI:         claims.BMI,
	}
}

func BuildShareToken(secretKey []byte, raw PregnancyInputRaw, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if len(secretKey) == 0 {
		return "", time.Time{}, ErrShareSecretMissing
	}
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	if now.IsZero() {
		now = time.Now()
	}

	expiresAt := now.Add(ttl)
	claims := ShareClaims{
		Purpose:     shareTokenPurpose,
		LastPeriod:  strings.TrimSpace(raw.LastPeriod),
		CycleLength: strings.TrimSpace(raw.CycleLength),
		WeightKg:    strings.TrimSpace(raw.WeightKg),
		HeightCm:    strings.TrimSpace(raw.HeightCm),
		BMI:         strings.TrimSpace(raw.BMI),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    shareTokenIssuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return signed, expiresAt, nil
}

func ParseShareToken(secretKey []byte, rawToken string, now time.Time) (*ShareClaims, error) {
	if len(secretKey) == 0 {
		return nil, ErrShareSecretMissing
	}
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrShareTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuer(shareTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrShareTokenExpired
		}
		return nil, ErrShareTokenInvalid
	}
	if !token.Valid {
		return nil, ErrShareTokenInvalid
	}
	if claims.Purpose != shareTokenPurpose {
		return nil, ErrShareTokenInvalidPurpose
	}
	if strings.TrimSpace(claims.LastPeriod) == "" {
		return nil, ErrShareTokenInvalid
	}
	return claims, nil
}
