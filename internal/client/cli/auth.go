package cli

import (
	"context"
	"fmt"
	"os"

	"nearwave/internal/client/models"
	"nearwave/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the profile fields and a password and creates a new
// local account.
//
// On success it prints a confirmation and returns nil. The password byte
// slice is securely wiped before returning. Validation errors are reported
// to the user and returned unchanged.
func (a *App) Register(ctx context.Context) error {
	u, err := a.inputProfile()
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	u.Password = string(password)

	if err := a.sess.Register(ctx, u); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts for credentials and authenticates against the local store.
// A successful login also seeds the follow cache and preloads the nearby
// directory, so the first 'list' has data.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.sess.Login(ctx, username, string(password))
	if err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Printf("Welcome, %s!\n", u.FirstName)
	return nil
}

// Whoami prints the current user and their now-playing track.
func (a *App) Whoami(ctx context.Context) error {
	u := a.sess.CurrentUser()
	if u == nil {
		fmt.Printf("Not logged in (session %s).\n", a.sess.State())
		return nil
	}

	fmt.Printf("%s %s (@%s), %s\n", u.FirstName, u.LastName, u.Username, u.Email)
	if u.NowPlaying != nil {
		fmt.Printf("Now playing: %s by %s\n", u.NowPlaying.Title, u.NowPlaying.Artist)
	} else {
		fmt.Println("Not playing anything right now.")
	}
	return nil
}

// Logout clears the session and every session-scoped cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sess.Clear(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

// DeleteAccount removes the local account after an explicit confirmation.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to permanently delete your account", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.sess.DeleteAccount(ctx); err != nil {
		fmt.Println("Could not delete account:", err)
		return err
	}
	fmt.Println("Account deleted.")
	return nil
}

// inputProfile collects the registration fields, password excluded.
func (a *App) inputProfile() (*models.LocalUser, error) {
	u := &models.LocalUser{}
	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter first name", &u.FirstName},
		{"Enter last name", &u.LastName},
		{"Enter username", &u.Username},
		{"Enter email", &u.Email},
		{"Enter birthdate (YYYY-MM-DD)", &u.Birthdate},
	}

	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.text, os.Stdout)
		if err != nil {
			return nil, err
		}
		*p.dst = v
	}
	return u, nil
}
