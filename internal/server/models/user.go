// Package models holds the server-side records stored in PostgreSQL.
package models

import "time"

// User is a profile service account. Salt and Verifier are the client's
// argon2id parameters; the password itself never reaches the server.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
