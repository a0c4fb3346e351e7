package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gamehub/internal/client/flow"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/client/otp"
	"github.com/dmitrijs2005/gamehub/internal/client/services"
	"github.com/dmitrijs2005/gamehub/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

var errBadPaste = &services.ValidationError{Field: "otp", Message: "Please paste exactly 6 digits."}

// Signup prompts for email, username and a repeated password and asks the
// backend to send a signup code.
func (a *App) Signup(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	repeated, err := getPassword(a.out, "Repeat password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeated)

	return a.submit(ctx, models.PurposeSignup, models.CredentialDraft{
		Email:           email,
		Username:        username,
		Password:        string(password),
		ConfirmPassword: string(repeated),
	})
}

// Login prompts for email and password and asks the backend to send a login
// code. No session exists until the code is verified.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.submit(ctx, models.PurposeLogin, models.CredentialDraft{
		Email:    email,
		Password: string(password),
	})
}

func (a *App) submit(ctx context.Context, purpose models.Purpose, draft models.CredentialDraft) error {
	if err := a.flow.Submit(ctx, purpose, draft); err != nil {
		return err
	}
	p := a.flow.Pending()
	if p != nil {
		a.printf("We sent a 6-digit code to %s.\n", p.Email)
	}
	a.println("Type 'otp <code>' to verify, or 'help' for more options.")
	a.showChallenge()
	return nil
}

func (a *App) challenge() (*services.Challenge, error) {
	ch := a.flow.Challenge()
	if ch == nil {
		return nil, fmt.Errorf("%w: no verification in progress", flow.ErrNotAllowed)
	}
	return ch, nil
}

// edit applies fn to the open code entry and shows the result.
func (a *App) edit(fn func(e *otp.Entry) bool) error {
	ch, err := a.challenge()
	if err != nil {
		return err
	}
	accepted := false
	if !ch.Edit(func(e *otp.Entry) { accepted = fn(e) }) {
		return services.ErrChallengeClosed
	}
	a.showChallenge()
	if !accepted {
		return errBadPaste
	}
	return nil
}

func (a *App) Paste(ctx context.Context, code string) error {
	return a.edit(func(e *otp.Entry) bool { return e.Paste(code) })
}

// Digits types each rune at the focused slot. Non-digits are skipped.
func (a *App) Digits(ctx context.Context, digits string) error {
	return a.edit(func(e *otp.Entry) bool {
		for _, r := range digits {
			e.Input(r)
		}
		return true
	})
}

func (a *App) SetDigit(ctx context.Context, slot int, digit string) error {
	ch, err := a.challenge()
	if err != nil {
		return err
	}
	accepted := false
	if !ch.Edit(func(e *otp.Entry) { accepted = e.Set(slot, digit) }) {
		return services.ErrChallengeClosed
	}
	a.showChallenge()
	if !accepted {
		return &services.ValidationError{Field: "otp", Message: "Each slot holds a single digit."}
	}
	return nil
}

func (a *App) Backspace(ctx context.Context) error {
	return a.edit(func(e *otp.Entry) bool {
		e.Backspace()
		return true
	})
}

func (a *App) Focus(ctx context.Context, slot int) error {
	return a.edit(func(e *otp.Entry) bool {
		e.Focus(slot)
		return true
	})
}

// OTP pastes code and verifies it in one step.
func (a *App) OTP(ctx context.Context, code string) error {
	if err := a.Paste(ctx, code); err != nil {
		return err
	}
	return a.Verify(ctx)
}

// Verify submits the entered code. On success the welcome message stays on
// screen for SuccessAckDelay before the account screen is entered.
func (a *App) Verify(ctx context.Context) error {
	ch, err := a.challenge()
	if err != nil {
		return err
	}

	user, err := a.flow.Verify(ctx)
	if err != nil {
		a.printf("Code: %s\n", renderSlots(ch.View()))
		return err
	}

	a.printf("Verified! Welcome, %s.\n", user.DisplayName())
	sleepFn(a.config.SuccessAckDelay)

	st, err := a.flow.Acknowledge(ctx)
	if err != nil {
		return err
	}
	if st == flow.Deactivated {
		a.println("Your account is deactivated. You can reactivate it, delete it or log out.")
	}
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	ch, err := a.challenge()
	if err != nil {
		return err
	}
	if err := a.flow.Resend(ctx); err != nil {
		return err
	}
	if n := ch.Notice(); n != "" {
		a.println(n)
	}
	a.showChallenge()
	return nil
}

func (a *App) Back(ctx context.Context) error {
	if err := a.flow.Back(); err != nil {
		return err
	}
	a.println("Verification cancelled.")
	return nil
}

func (a *App) showChallenge() {
	ch := a.flow.Challenge()
	if ch == nil {
		return
	}
	v := ch.View()
	a.printf("Code: %s\n", renderSlots(v))
	if v.Error != "" {
		a.println(v.Error)
	}
	if v.Notice != "" {
		a.println(v.Notice)
	}
}

// renderSlots draws the code entry with the focused slot in brackets.
func renderSlots(v services.ChallengeView) string {
	cells := make([]string, 0, otp.Length)
	for i, s := range v.Slots {
		if s == "" {
			s = "_"
		}
		if i == v.Focus && !v.Complete {
			s = "[" + s + "]"
		}
		cells = append(cells, s)
	}
	return strings.Join(cells, " ")
}
