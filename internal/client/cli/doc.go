// Package cli provides the interactive print shop storefront client.
//
// It wires configuration, the local session database, the HTTP API client
// and the identity service, then runs a REPL. Navigation goes through the
// route guard: "open <path>" either renders the view, waits for the
// identity check, or redirects.
//
// Commands:
//   - register, login, admin-login, logout
//   - whoami
//   - open <path>
//   - exit | quit
//
// Protected views always ask the server before showing anything. A 401
// from the server clears the local session and sends the user to login.
package cli
