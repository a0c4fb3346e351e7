package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gamehub/internal/client/flow"
	"github.com/dmitrijs2005/gamehub/internal/client/otp"
	"github.com/dmitrijs2005/gamehub/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() flow.State

	Signup(ctx context.Context) error
	Login(ctx context.Context) error

	Paste(ctx context.Context, code string) error
	Digits(ctx context.Context, digits string) error
	SetDigit(ctx context.Context, slot int, digit string) error
	Backspace(ctx context.Context) error
	Focus(ctx context.Context, slot int) error
	Verify(ctx context.Context) error
	OTP(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	Back(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Export(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Reactivate(ctx context.Context) error
	Delete(ctx context.Context) error
	Logout(ctx context.Context) error
	Notifications(ctx context.Context, arg string) error
}

var helpByState = map[flow.State]string{
	flow.Credentials:   "Available commands: signup, login, exit",
	flow.Verifying:     "Available commands: otp <code>, paste <code>, (d)igit <digits>, set <slot> <digit>, (bs) backspace, focus <slot>, verify, resend, back, exit",
	flow.Acknowledging: "Finishing sign in, please wait.",
	flow.Authenticated: "Available commands: whoami, export, deactivate, delete, logout, notifications [on|off], exit",
	flow.Deactivated:   "Your account is deactivated. Available commands: whoami, reactivate, delete, logout, exit",
}

// runREPL starts a simple read-eval-print loop for the GameHub client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Slots are numbered 1 to 6 at the prompt. Errors returned by command
// handlers are shown as their user-facing message and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gamehub> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpByState[a.state()])

		case "signup":
			report(a.Signup(ctx))

		case "login":
			report(a.Login(ctx))

		case "paste":
			if len(args) != 1 {
				printlnFn("Usage: paste <code>")
				continue
			}
			report(a.Paste(ctx, args[0]))

		case "otp":
			if len(args) != 1 {
				printlnFn("Usage: otp <code>")
				continue
			}
			report(a.OTP(ctx, args[0]))

		case "d", "digit":
			if len(args) != 1 {
				printlnFn("Usage: digit <digits>")
				continue
			}
			report(a.Digits(ctx, args[0]))

		case "set":
			slot, ok := parseSlot(args, 2)
			if !ok {
				printlnFn("Usage: set <slot 1-6> <digit>")
				continue
			}
			report(a.SetDigit(ctx, slot, args[1]))

		case "focus":
			slot, ok := parseSlot(args, 1)
			if !ok {
				printlnFn("Usage: focus <slot 1-6>")
				continue
			}
			report(a.Focus(ctx, slot))

		case "bs", "backspace":
			report(a.Backspace(ctx))

		case "verify":
			report(a.Verify(ctx))

		case "resend":
			report(a.Resend(ctx))

		case "back":
			report(a.Back(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "export":
			report(a.Export(ctx))

		case "deactivate":
			report(a.Deactivate(ctx))

		case "reactivate":
			report(a.Reactivate(ctx))

		case "delete":
			report(a.Delete(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "notifications":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			report(a.Notifications(ctx, arg))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// parseSlot reads a 1-based slot number from args[0] and returns it 0-based.
func parseSlot(args []string, want int) (int, bool) {
	if len(args) != want {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > otp.Length {
		return 0, false
	}
	return n - 1, true
}

func report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flow.ErrNotAllowed) {
		printlnFn("That command is not available right now. Type 'help' to see what you can do.")
		return
	}
	printlnFn(services.UserMessage(err))
}
