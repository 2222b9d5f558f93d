package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Check(ctx context.Context) error
	Open(ctx context.Context, path string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The prompt shows statusFn(). The loop ends on EOF or "exit"/"quit".
//
//	Anonymous:
//	  - help             show available commands
//	  - register         create an account
//	  - login            sign in
//	  - admin-login      sign in through the admin entry point
//	  - open <path>      navigate to a page
//	  - whoami | check   show or re-check the current identity
//	  - exit | quit      leave the program
//
//	Signed in: the same, plus logout.
//
// Command errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "printshop %s > ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: open <path>, whoami, check, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: open <path>, register, login, admin-login, whoami, check, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "admin-login":
			_ = a.AdminLogin(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "check":
			_ = a.Check(ctx)

		case "open", "o":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
