package model

import "github.com/google/uuid"

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	ParseAccessToken(token string) (TokenClaims, error)
}

// TokenClaims is the identity material carried by an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}
