package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/printshop/internal/client/guard"
	"github.com/dmitrijs2005/printshop/internal/common"
)

// Open navigates to p through the route guard.
func (a *App) Open(ctx context.Context, p string) error {
	r, ok := guard.Lookup(p)
	if !ok {
		fmt.Fprintf(a.out, "Page not found: %s\n", p)
		return nil
	}

	d := guard.Evaluate(a.auth.Snapshot(), r)
	if d.Kind == guard.Wait {
		fmt.Fprintln(a.out, "Loading...")
		snap, err := a.auth.CheckIdentity(ctx)
		if err != nil {
			a.report(err)
		}
		d = guard.Evaluate(snap, r)
	}

	switch d.Kind {
	case guard.Redirect:
		return a.redirect(ctx, d.Target)
	case guard.Render:
		return a.render(ctx, r)
	default:
		fmt.Fprintln(a.out, "Loading...")
		return nil
	}
}

// redirect shows a public page. Redirect targets are always public, so
// this never loops back into the guard.
func (a *App) redirect(ctx context.Context, target string) error {
	fmt.Fprintf(a.out, "redirect → %s\n", target)
	r, _ := guard.Lookup(target)
	return a.render(ctx, r)
}

func (a *App) render(ctx context.Context, r guard.Route) error {
	switch r.Path {
	case guard.HomePath:
		fmt.Fprintln(a.out, "== Print shop ==")
		if snap := a.auth.Snapshot(); snap.User != nil {
			fmt.Fprintf(a.out, "Welcome back, %s.\n", snap.User.Name)
		} else {
			fmt.Fprintln(a.out, "Welcome. Browse /products or sign in with 'login'.")
		}

	case "/products":
		fmt.Fprintln(a.out, "== Products ==")

	case "/register":
		fmt.Fprintln(a.out, "== Register ==")
		fmt.Fprintln(a.out, "Create an account with 'register'.")

	case guard.LoginPath:
		fmt.Fprintln(a.out, "== Sign in ==")
		fmt.Fprintln(a.out, "Sign in with 'login'.")

	case guard.AdminLoginPath:
		fmt.Fprintln(a.out, "== Admin sign in ==")
		fmt.Fprintln(a.out, "Sign in with 'admin-login'.")

	case "/profile", "/orders":
		user, err := a.auth.Profile(ctx)
		if err != nil {
			return a.denied(ctx, r, err)
		}
		if r.Path == "/orders" {
			fmt.Fprintln(a.out, "== Orders ==")
			fmt.Fprintf(a.out, "No orders for %s yet.\n", user.Email)
			return nil
		}
		fmt.Fprintln(a.out, "== Profile ==")
		fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\nRole:  %s\n", user.Name, user.Email, user.Role)

	case "/admin", "/admin/products":
		if err := a.auth.AdminCheck(ctx); err != nil {
			return a.denied(ctx, r, err)
		}
		if r.Path == "/admin" {
			fmt.Fprintln(a.out, "== Admin dashboard ==")
		} else {
			fmt.Fprintln(a.out, "== Manage products ==")
		}
	}
	return nil
}

// denied handles a protected view the server refused. The transport has
// already cleared the session on 401.
func (a *App) denied(ctx context.Context, r guard.Route, err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		a.report(err)
		if r.Access == guard.Admin {
			return a.redirect(ctx, guard.AdminLoginPath)
		}
		return a.redirect(ctx, guard.LoginPath)
	case errors.Is(err, common.ErrForbidden):
		return a.redirect(ctx, guard.HomePath)
	default:
		a.report(err)
		return err
	}
}
