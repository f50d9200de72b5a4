package cli

import (
	"context"
	"os"

	"github.com/avelkov/dreamchat/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, and password with confirmation, then
// drives the registration flow. Validation failures and server rejections
// are printed; a successful registration signs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	return a.finishLogin(ctx, session.RegisterSubmitted{
		Name:     name,
		Email:    email,
		Password: password,
		Confirm:  confirm,
	})
}

// Login prompts for email and password and tries to authenticate.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	return a.finishLogin(ctx, session.LoginSubmitted{Email: email, Password: password})
}

// GoogleLogin exchanges a Google ID token for a session.
func (a *App) GoogleLogin(ctx context.Context, idToken string) error {
	return a.finishLogin(ctx, session.GoogleLoginSubmitted{IDToken: idToken})
}

// AppleLogin exchanges an Apple identity token for a session.
func (a *App) AppleLogin(ctx context.Context, idToken string) error {
	return a.finishLogin(ctx, session.AppleLoginSubmitted{IDToken: idToken})
}

// finishLogin runs one login flow to completion: dispatch the submission,
// wait for the network round trip, then hand a successful result to the
// auth session and move the coordinator to the main screen.
func (a *App) finishLogin(ctx context.Context, ev session.LoginEvent) error {
	a.login.Dispatch(ctx, ev)
	a.login.Wait()

	st := a.login.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
		a.login.Dispatch(ctx, session.LoginDismissError{})
		return nil
	}
	if st.Result == nil {
		return nil
	}

	a.auth.Dispatch(ctx, session.AuthLoginSucceeded{
		User:  st.Result.User,
		Token: st.Result.AccessToken,
	})
	a.auth.Wait()
	a.login.Dispatch(ctx, session.LoginResultConsumed{})

	if msg := a.auth.State().ErrorMessage; msg != "" {
		printlnFn(msg)
		a.auth.Dispatch(ctx, session.AuthDismissError{})
		return nil
	}

	a.coordinator.Dispatch(ctx, session.AppLoggedIn{})
	printlnFn("Signed in as", a.auth.State().CurrentUser.Name)
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.auth.State()
	if st.CurrentUser == nil {
		printlnFn("Not signed in.")
		return nil
	}
	plan := "free"
	if st.CurrentUser.IsPremium {
		plan = "premium"
	}
	printlnFn(st.CurrentUser.Name, "<"+st.CurrentUser.Email+">", plan)
	return nil
}

// Logout clears the session and returns to the login surface.
func (a *App) Logout(ctx context.Context) error {
	a.coordinator.Dispatch(ctx, session.AppLogoutRequested{})
	a.coordinator.Wait()
	printlnFn("Signed out.")
	return nil
}
