package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	IsProgenitor bool      `db:"is_progenitor"`
	CreatedAt    time.Time `db:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	Email        string `json:"email"`
	IsProgenitor bool   `json:"is_progenitor"`
	jwt.RegisteredClaims
}
