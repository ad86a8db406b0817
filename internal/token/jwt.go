package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

// Claims represents JWT claims carrying the user's identity and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

var _ model.TokenManager = (*JWT)(nil)

// GenerateAccessToken creates an access token for the user.
func (j *JWT) GenerateAccessToken(user model.User) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates the token and returns its claims. Every
// failure wraps model.ErrUnauthorized.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("%w: failed to parse access token: %v", model.ErrUnauthorized, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("%w: access token is invalid", model.ErrUnauthorized)
	}

	role := model.Role(claims.Role)
	if claims.UserID == uuid.Nil || !role.Valid() {
		return model.TokenClaims{}, fmt.Errorf("%w: access token has no identity", model.ErrUnauthorized)
	}

	return model.TokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
