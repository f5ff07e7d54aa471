// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account commands: login, signup, logout, whoami.
//
// Examples:
//   t2t login                          Prompt for email and password
//   t2t login --email ada@example.com  Prompt for the password only
//   t2t signup --name "Ada Lovelace"
//   t2t whoami --json
//
// Passwords are never accepted as flags. On a terminal they are read
// without echo; piped input is read line by line.

package cli

import (
	"fmt"

	"github.com/jeranaias/t2t-tui/internal/commands"
	"github.com/jeranaias/t2t-tui/internal/controller"
)

// =============================================================================
// HANDLERS
// =============================================================================

// HandleLogin handles "t2t login".
func HandleLogin(args Args) error {
	return withApp(args, runLogin)
}

// HandleSignup handles "t2t signup".
func HandleSignup(args Args) error {
	return withApp(args, runSignup)
}

// HandleLogout handles "t2t logout".
func HandleLogout(args Args) error {
	return withApp(args, runLogout)
}

// HandleWhoAmI handles "t2t whoami".
func HandleWhoAmI(args Args) error {
	return withApp(args, runWhoAmI)
}

func withApp(args Args, run func(*App) error) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Close()
	return run(app)
}

// =============================================================================
// LOGIN
// =============================================================================

func runLogin(app *App) error {
	p := app.Args.Parser()

	email := p.Flag("email")
	if email == "" {
		var err error
		if email, err = app.Prompt.Ask("Email", app.Sessions.LastEmail()); err != nil {
			return WrapError(err, "read email")
		}
	}
	password, err := app.Prompt.Secret("Password")
	if err != nil {
		return WrapError(err, "read password")
	}

	ctx, cancel := app.Context()
	defer cancel()

	if err := app.Ctrl.Login(ctx, email, password); err != nil {
		if app.Ctrl.Snapshot().AuthPanel == controller.PanelSignup {
			app.notice("%s", WarningStyle.Render("No account for that email yet. Create one with: t2t signup --email "+email))
		}
		return err
	}
	return finishSignIn(app, "login")
}

// finishSignIn remembers the email and prints the account.
func finishSignIn(app *App, command string) error {
	user := app.Ctrl.Snapshot().User
	if user == nil {
		return ErrNotSignedIn
	}
	if err := app.Sessions.SetLastEmail(user.Email); err != nil {
		app.Logger.Warn("cli", "could not remember email", map[string]interface{}{"error": err.Error()})
	}
	app.Logger.Info("cli", "signed in", map[string]interface{}{"user_id": user.ID})

	if app.Args.JSON {
		return NewJSONResponse(command, newUserData(user, app.Client.BaseURL())).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s %s\n", SuccessStyle.Render("✓"), "Welcome, "+user.FirstName()+".")
	if !user.HasSeenOnboarding {
		fmt.Fprintln(app.Out, DimStyle.Render("Run t2t to take the quick tour."))
	}
	return nil
}

// =============================================================================
// SIGNUP
// =============================================================================

func runSignup(app *App) error {
	p := app.Args.Parser()
	form := controller.SignupForm{
		Name:  p.Flag("name"),
		Email: p.Flag("email"),
		Phone: p.Flag("phone"),
	}

	var err error
	if form.Name == "" {
		if form.Name, err = app.Prompt.Ask("Full name", ""); err != nil {
			return WrapError(err, "read name")
		}
	}
	if form.Email == "" {
		if form.Email, err = app.Prompt.Ask("Email", app.Sessions.LastEmail()); err != nil {
			return WrapError(err, "read email")
		}
	}
	if !p.HasFlag("phone") {
		if form.Phone, err = app.Prompt.Ask("Phone (optional)", ""); err != nil {
			return WrapError(err, "read phone")
		}
	}
	if form.Password, err = app.Prompt.Secret("Password"); err != nil {
		return WrapError(err, "read password")
	}
	confirm, err := app.Prompt.Secret("Confirm password")
	if err != nil {
		return WrapError(err, "read password")
	}
	if confirm != form.Password {
		return NewValidationErrorWithExample("password", "", "passwords do not match", "t2t signup")
	}

	ctx, cancel := app.Context()
	defer cancel()

	if err := app.Ctrl.Signup(ctx, form); err != nil {
		return err
	}
	return finishSignIn(app, "signup")
}

// =============================================================================
// LOGOUT / WHOAMI
// =============================================================================

func runLogout(app *App) error {
	ctx, cancel := app.Context()
	defer cancel()

	app.Ctrl.Logout(ctx)
	app.Logger.Info("cli", "signed out", nil)

	if app.Args.JSON {
		return NewJSONResponse("logout", newUserData(nil, app.Client.BaseURL())).Write(app.Out)
	}
	fmt.Fprintf(app.Out, "%s Signed out.\n", SuccessStyle.Render("✓"))
	return nil
}

func runWhoAmI(app *App) error {
	ctx, cancel := app.Context()
	defer cancel()

	app.Ctrl.CheckSession(ctx)
	user := app.Ctrl.Snapshot().User

	if app.Args.JSON {
		return NewJSONResponse("whoami", newUserData(user, app.Client.BaseURL())).Write(app.Out)
	}
	fmt.Fprintln(app.Out, commands.DescribeUser(user))
	fmt.Fprintln(app.Out, RenderField("Server", app.Client.BaseURL()))
	if user == nil {
		return ErrNotSignedIn
	}
	return nil
}
