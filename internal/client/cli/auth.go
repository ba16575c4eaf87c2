package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/common"
)

var errNotSignedIn = errors.New("not signed in, use 'login' or 'register' first")

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for a name, email and password and creates a local
// account, signing it in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", account.Username)
	return nil
}

// Login prompts for credentials and signs in to an existing local account.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	account, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", account.Username)
	return nil
}

// SignIn simulates a federated provider sign-in by asking for the identity
// the provider would return.
func (a *App) SignIn(ctx context.Context, provider string) error {
	switch strings.ToLower(provider) {
	case models.ProviderGoogle, models.ProviderApple, models.ProviderFacebook:
	default:
		return fmt.Errorf("%w: unknown provider %q (google, apple or facebook)", common.ErrValidation, provider)
	}

	userID, err := getSimpleText(a.reader, "Enter "+provider+" account id", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}

	account, err := a.auth.SignInWithProvider(ctx, models.FederatedIdentity{
		Provider:       provider,
		ProviderUserID: userID,
		DisplayName:    name,
		Email:          email,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", account.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.auth.CurrentUser(ctx)
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	return nil
}

// Profile prints the remote profile; a non-empty newName renames it first.
func (a *App) Profile(ctx context.Context, newName string) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}

	var (
		p   *models.Profile
		err error
	)
	if strings.TrimSpace(newName) != "" {
		p, err = a.auth.UpdateDisplayName(ctx, newName)
	} else {
		p, err = a.auth.Profile(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Name:       %s\n", p.DisplayName)
	fmt.Fprintf(a.out, "Email:      %s\n", p.Email)
	fmt.Fprintf(a.out, "Provider:   %s\n", p.Provider)
	fmt.Fprintf(a.out, "Onboarded:  %t\n", p.OnboardingDone)
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Member since %s\n", p.CreatedAt.Local().Format("2006-01-02"))
	}
	return nil
}

func (a *App) Onboard(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}
	if _, err := a.auth.CompleteOnboarding(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Onboarding complete")
	return nil
}
