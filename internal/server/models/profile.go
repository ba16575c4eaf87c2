package models

import "time"

// Profile is the per-user document kept by the profile service. UID is the
// owning user's id.
type Profile struct {
	UID            string
	Email          string
	Provider       string
	DisplayName    string
	OnboardingDone bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfilePatch lists the fields UpdateProfile may change; nil leaves a
// field as it is.
type ProfilePatch struct {
	DisplayName    *string
	OnboardingDone *bool
}

func (p ProfilePatch) Empty() bool {
	return p.DisplayName == nil && p.OnboardingDone == nil
}
