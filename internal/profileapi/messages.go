package profileapi

import "time"

type Profile struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	Provider       string    `json:"provider"`
	DisplayName    string    `json:"displayName"`
	CreatedAt      time.Time `json:"createdAt"`
	OnboardingDone bool      `json:"onboardingDone"`
}

type RegisterUserRequest struct {
	Email    string `json:"email"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterUserResponse struct {
	UserID string `json:"userId"`
}

type GetSaltRequest struct {
	Email string `json:"email"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// UpsertProfileRequest creates the caller's profile if it does not exist.
// UID and CreatedAt in Profile are ignored; the server assigns both.
type UpsertProfileRequest struct {
	Profile Profile `json:"profile"`
}

type UpsertProfileResponse struct {
	Profile Profile `json:"profile"`
	Created bool    `json:"created"`
}

type GetProfileRequest struct{}

type GetProfileResponse struct {
	Profile Profile `json:"profile"`
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName    *string `json:"displayName,omitempty"`
	OnboardingDone *bool   `json:"onboardingDone,omitempty"`
}

type UpdateProfileResponse struct {
	Profile Profile `json:"profile"`
}
