package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/printshop/internal/client/client"
	"github.com/dmitrijs2005/printshop/internal/client/guard"
	"github.com/dmitrijs2005/printshop/internal/client/models"
	"github.com/dmitrijs2005/printshop/internal/client/services"
	"github.com/dmitrijs2005/printshop/internal/common"
)

// Register creates an account. It does not sign the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, name, email, password); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Account created. Use 'login' to sign in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	if err := a.login(ctx, a.auth.Login); err != nil {
		return err
	}
	return a.Open(ctx, guard.HomePath)
}

// AdminLogin signs in through the admin entry point and opens the
// dashboard. Non-admin accounts are refused with the same message as a
// wrong password.
func (a *App) AdminLogin(ctx context.Context) error {
	if err := a.login(ctx, a.auth.AdminLogin); err != nil {
		return err
	}
	return a.Open(ctx, "/admin")
}

func (a *App) login(ctx context.Context,
	call func(context.Context, string, []byte) (*models.CachedUser, error)) error {

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := call(ctx, email, password)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

// Logout forgets the local session. The token itself stays valid on the
// server until it expires.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return a.Open(ctx, guard.HomePath)
}

// WhoAmI prints the cached identity without contacting the server.
func (a *App) WhoAmI(context.Context) error {
	a.printIdentity(a.auth.Snapshot())
	return nil
}

// Check re-runs the identity check.
func (a *App) Check(ctx context.Context) error {
	snap, err := a.auth.CheckIdentity(ctx)
	if err != nil {
		a.report(err)
	}
	a.printIdentity(snap)
	return err
}

func (a *App) printIdentity(snap services.Snapshot) {
	switch snap.State {
	case services.StateAuthenticated:
		fmt.Fprintf(a.out, "Signed in as %s <%s> (%s)\n", snap.User.Name, snap.User.Email, snap.User.Role)
	case services.StatePending:
		fmt.Fprintln(a.out, "Checking session...")
	default:
		fmt.Fprintln(a.out, "Not signed in.")
	}
}

// report prints a user-facing message for err.
func (a *App) report(err error) {
	var msg string
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		msg = "Invalid email or password."
	case errors.Is(err, common.ErrDuplicateEmail):
		msg = "That email is already registered."
	case errors.Is(err, common.ErrInvalidInput):
		msg = err.Error()
	case errors.Is(err, common.ErrUnauthenticated):
		msg = "Your session has expired. Please sign in again."
	case errors.Is(err, common.ErrForbidden):
		msg = "Access denied."
	case errors.Is(err, client.ErrTooManyRequests):
		msg = "Too many attempts. Try again later."
	case errors.Is(err, client.ErrUnavailable):
		msg = "Server unavailable. Try again later."
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintln(a.out, msg)
}
