// Package models defines the client-side records persisted by moodtrack.
package models

// UserAccount is a locally registered account. Email is the natural key.
// Accounts are immutable once created.
type UserAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PasswordVerifier is the salted argon2id verifier stored per account.
type PasswordVerifier struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// Credential is the content of the single keychain slot.
type Credential struct {
	Account string `json:"account"`
	Secret  string `json:"secret"`
}
