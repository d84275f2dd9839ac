package models

import "time"

// Account is a registered identity. PasswordHash is a bcrypt digest and
// must never leave the server.
type Account struct {
	ID           string    `db:"id"`
	Handle       string    `db:"handle"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
