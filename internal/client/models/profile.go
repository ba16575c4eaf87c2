package models

import "time"

const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderApple    = "apple"
	ProviderFacebook = "facebook"
)

// Profile is the remote user document kept by the profile service.
type Profile struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	Provider       string    `json:"provider"`
	DisplayName    string    `json:"displayName"`
	CreatedAt      time.Time `json:"createdAt"`
	OnboardingDone bool      `json:"onboardingDone"`
}

// FederatedIdentity is the opaque result of a third-party sign-in.
type FederatedIdentity struct {
	Provider       string
	ProviderUserID string
	DisplayName    string
	Email          string
}
