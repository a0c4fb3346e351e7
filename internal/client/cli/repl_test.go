package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/flow"
	"github.com/dmitrijs2005/gamehub/internal/client/services"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	st flow.State

	calls []string
	err   error
}

func (f *fakeExec) call(name string, args ...any) error {
	for _, a := range args {
		name += " " + fmt.Sprint(a)
	}
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) state() flow.State { return f.st }

func (f *fakeExec) Signup(ctx context.Context) error { return f.call("signup") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.st = flow.Verifying
	return f.call("login")
}
func (f *fakeExec) Paste(ctx context.Context, code string) error { return f.call("paste", code) }
func (f *fakeExec) Digits(ctx context.Context, d string) error { return f.call("digits", d) }
func (f *fakeExec) Backspace(ctx context.Context) error { return f.call("backspace") }
func (f *fakeExec) Focus(ctx context.Context, slot int) error { return f.call("focus", slot) }
func (f *fakeExec) Verify(ctx context.Context) error { return f.call("verify") }
func (f *fakeExec) OTP(ctx context.Context, code string) error { return f.call("otp", code) }
func (f *fakeExec) Resend(ctx context.Context) error { return f.call("resend") }
func (f *fakeExec) Back(ctx context.Context) error { return f.call("back") }
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.call("whoami") }
func (f *fakeExec) Export(ctx context.Context) error { return f.call("export") }
func (f *fakeExec) Deactivate(ctx context.Context) error { return f.call("deactivate") }
func (f *fakeExec) Reactivate(ctx context.Context) error { return f.call("reactivate") }
func (f *fakeExec) Delete(ctx context.Context) error { return f.call("delete") }
func (f *fakeExec) Logout(ctx context.Context) error { return f.call("logout") }
func (f *fakeExec) Notifications(ctx context.Context, a string) error {
	return f.call("notifications", a)
}
func (f *fakeExec) SetDigit(ctx context.Context, slot int, d string) error {
	return f.call("set", slot, d)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	input := strings.Join([]string{
		"",
		"login",
		"paste 123456",
		"d 12",
		"set 2 7",
		"focus 6",
		"bs",
		"verify",
		"otp 654321",
		"resend",
		"back",
		"whoami",
		"export",
		"deactivate",
		"reactivate",
		"delete",
		"logout",
		"notifications off",
		"notifications",
		"exit",
		"signup",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	require.Equal(t, []string{
		"login", "paste 123456", "digits 12", "set 1 7", "focus 5", "backspace",
		"verify", "otp 654321", "resend", "back", "whoami", "export", "deactivate",
		"reactivate", "delete", "logout", "notifications off", "notifications ",
	}, exec.calls)
}

func TestRunREPL_UsageErrorsDoNotDispatch(t *testing.T) {
	out := captureOutput(t)

	input := "paste\nset 0 1\nset 7 1\nfocus x\notp 1 2\nfoobar\nquit\n"
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr(input))

	require.Empty(t, exec.calls)
	require.Contains(t, *out, "Usage: paste <code>")
	require.Contains(t, *out, "Usage: set <slot 1-6> <digit>")
	require.Contains(t, *out, "Usage: focus <slot 1-6>")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpFollowsState(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{st: flow.Credentials}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("help\nlogin\nhelp\n"))

	require.Contains(t, *out, helpByState[flow.Credentials])
	require.Contains(t, *out, helpByState[flow.Verifying])
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message verbatim", &client.ServerError{StatusCode: 400, Message: "Email already registered"}, "Email already registered"},
		{"network", &client.NetworkError{Err: errors.New("refused")}, client.GenericMessage},
		{"not allowed", flow.ErrNotAllowed, "That command is not available right now. Type 'help' to see what you can do."},
		{"incomplete", services.ErrIncompleteCode, "Please enter all 6 digits."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := captureOutput(t)
			exec := &fakeExec{err: tc.err}
			runREPL(context.Background(), exec, func() string { return "s" }, rdr("verify\n"))
			require.Contains(t, *out, tc.want)
		})
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, rdr("login\n"))
	require.Empty(t, exec.calls)
}

func TestParseSlot(t *testing.T) {
	slot, ok := parseSlot([]string{"1"}, 1)
	require.True(t, ok)
	require.Equal(t, 0, slot)

	slot, ok = parseSlot([]string{"6", "9"}, 2)
	require.True(t, ok)
	require.Equal(t, 5, slot)

	_, ok = parseSlot([]string{"6"}, 2)
	require.False(t, ok)
	_, ok = parseSlot([]string{"-1"}, 1)
	require.False(t, ok)
}
