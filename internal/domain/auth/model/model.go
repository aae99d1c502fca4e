package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored account record. It is created once at signup and never
// updated afterwards; Username is the unique lookup key.
type User struct {
	ID           uuid.UUID
	FullName     string
	Username     string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenKind selects which TTL a token is issued with. The kind is never
// serialized into the token itself.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	Subject      string
}
