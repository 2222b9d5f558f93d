package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	paths []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) AdminLogin(ctx context.Context) error {
	f.calls = append(f.calls, "admin-login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Check(ctx context.Context) error {
	f.calls = append(f.calls, "check")
	return nil
}
func (f *fakeExec) Open(ctx context.Context, path string) error {
	f.calls = append(f.calls, "open")
	f.paths = append(f.paths, path)
	return nil
}

func repl(t *testing.T, exec *fakeExec, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, in, &out)
	return out.String()
}

func TestRunREPL_Dispatch(t *testing.T) {
	exec := &fakeExec{}
	out := repl(t, exec,
		"help",
		"register",
		"login",
		"help",
		"",
		"open /profile",
		"o /admin",
		"whoami",
		"check",
		"admin-login",
		"logout",
		"foobar",
		"exit",
		"login",
	)

	assert.Equal(t, []string{"register", "login", "open", "open", "whoami", "check", "admin-login", "logout"}, exec.calls)
	assert.Equal(t, []string{"/profile", "/admin"}, exec.paths)
	assert.Contains(t, out, "printshop status > ")
	assert.Contains(t, out, "Available commands: open <path>, register")
	assert.Contains(t, out, "Available commands: open <path>, whoami, check, logout")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_OpenUsage(t *testing.T) {
	exec := &fakeExec{}
	out := repl(t, exec, "open", "open /a /b", "quit")

	assert.Empty(t, exec.calls)
	assert.Equal(t, 2, strings.Count(out, "Usage: open <path>"))
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	exec := &fakeExec{}
	repl(t, exec, "whoami", "open /orders")

	assert.Equal(t, []string{"whoami", "open"}, exec.calls)
	assert.Equal(t, []string{"/orders"}, exec.paths)
}

func TestRunREPL_EmptyInput(t *testing.T) {
	exec := &fakeExec{}
	out := repl(t, exec)

	assert.Empty(t, exec.calls)
	assert.Equal(t, "printshop status > \n", out)
}
