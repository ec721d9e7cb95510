package model

import "github.com/google/uuid"

// TokenManager issues and verifies stateless session tokens.
type TokenManager interface {
	GenerateToken(userID uuid.UUID) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}
