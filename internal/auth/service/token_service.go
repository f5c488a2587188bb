package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// Claims are the JWT claims of an admin bearer token. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type tokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates an HS256 TokenService.
func NewTokenService(secret, issuer string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	return &tokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

func (t *tokenService) Issue(now time.Time, userID uuid.UUID, email string) (string, time.Time, error) {
	expiresAt := now.Add(t.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign token")
	}

	return signed, expiresAt, nil
}

// Verify checks the signature, algorithm, issuer and expiry of token as of now.
func (t *tokenService) Verify(token string, now time.Time) (*Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, err.Error())
	}

	if _, err := claims.UserID(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid subject")
	}

	return &claims, nil
}
