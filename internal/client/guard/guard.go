// Package guard decides what the storefront shows for a route given the
// client's identity snapshot. Its decisions are advisory: every protected
// view still asks the server, which is the only authoritative gate.
package guard

import (
	"path"
	"strings"

	"github.com/dmitrijs2005/printshop/internal/client/services"
)

// Access is what a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

type Route struct {
	Path   string
	Access Access
}

// Navigation targets.
const (
	HomePath       = "/"
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
)

// Routes is the storefront route table.
var Routes = []Route{
	{Path: "/", Access: Public},
	{Path: "/products", Access: Public},
	{Path: "/register", Access: Public},
	{Path: LoginPath, Access: Public},
	{Path: AdminLoginPath, Access: Public},
	{Path: "/profile", Access: Authenticated},
	{Path: "/orders", Access: Authenticated},
	{Path: "/admin", Access: Admin},
	{Path: "/admin/products", Access: Admin},
}

// Lookup finds the route for p. Nested paths inherit the closest
// registered ancestor ("/admin/products/42" is an admin route); "/" itself
// only matches exactly.
func Lookup(p string) (Route, bool) {
	if p == "" {
		p = "/"
	}
	p = path.Clean("/" + strings.TrimPrefix(p, "/"))

	best, found := Route{}, false
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
		if r.Path == "/" || !strings.HasPrefix(p, r.Path+"/") {
			continue
		}
		if !found || len(r.Path) > len(best.Path) {
			best, found = r, true
		}
	}
	return best, found
}

// Kind is the outcome of Evaluate.
type Kind int

const (
	// Wait shows a neutral loading state; identity is not known yet.
	Wait Kind = iota
	Render
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Decision struct {
	Kind   Kind
	Target string
}

// Evaluate is the guard decision table:
//
//	pending                          -> Wait
//	public route                     -> Render
//	anonymous on an admin route      -> Redirect /admin/login
//	anonymous otherwise              -> Redirect /login
//	authenticated, role insufficient -> Redirect / (no message)
//	otherwise                        -> Render
func Evaluate(snap services.Snapshot, r Route) Decision {
	if snap.State == services.StatePending {
		return Decision{Kind: Wait}
	}
	if r.Access == Public {
		return Decision{Kind: Render}
	}
	if snap.State != services.StateAuthenticated || snap.User == nil {
		if r.Access == Admin {
			return Decision{Kind: Redirect, Target: AdminLoginPath}
		}
		return Decision{Kind: Redirect, Target: LoginPath}
	}
	if r.Access == Admin && !snap.User.IsAdmin() {
		return Decision{Kind: Redirect, Target: HomePath}
	}
	return Decision{Kind: Render}
}
