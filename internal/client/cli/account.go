package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gamehub/internal/client/services"
)

func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.store.Get(ctx)
	if err != nil {
		return err
	}
	status := "active"
	if !s.User.IsActive {
		status = "deactivated"
	}
	a.printf("%s <%s> (%s)\n", s.User.DisplayName(), s.User.Email, status)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	loc, err := a.flow.Export(ctx)
	if err != nil {
		return err
	}
	a.printf("Your data was exported to %s\n", loc)
	return nil
}

// Deactivate asks for confirmation first. A successful deactivation signs the
// user out.
func (a *App) Deactivate(ctx context.Context) error {
	ok, err := confirm(a.reader, "Deactivating hides your profile until you reactivate it.", "yes", a.out)
	if err != nil {
		return err
	}
	return a.cancelled(a.flow.Deactivate(ctx, ok))
}

func (a *App) Reactivate(ctx context.Context) error {
	u, err := a.flow.Reactivate(ctx)
	if err != nil {
		return err
	}
	a.printf("Welcome back, %s. Your account is active again.\n", u.DisplayName())
	return nil
}

// Delete removes the account permanently after the user types DELETE.
func (a *App) Delete(ctx context.Context) error {
	ok, err := confirm(a.reader, "This permanently deletes your account and all of its data. This cannot be undone.", "DELETE", a.out)
	if err != nil {
		return err
	}
	return a.cancelled(a.flow.Delete(ctx, ok))
}

func (a *App) cancelled(err error) error {
	if errors.Is(err, services.ErrNotConfirmed) {
		a.println("Cancelled.")
		return nil
	}
	return err
}

func (a *App) Logout(ctx context.Context) error {
	return a.flow.Logout(ctx)
}

// Notifications shows the notification preference, or sets it with "on" or "off".
func (a *App) Notifications(ctx context.Context, arg string) error {
	arg = strings.ToLower(arg)
	switch arg {
	case "":
		on, err := a.prefs.NotificationsEnabled(ctx)
		if err != nil {
			return err
		}
		if on {
			a.println("Notifications are on.")
		} else {
			a.println("Notifications are off.")
		}
		return nil
	case "on", "off":
		on := arg == "on"
		if err := a.prefs.SetNotificationsEnabled(ctx, on); err != nil {
			return err
		}
		a.println("Notifications are " + arg + ".")
		return nil
	default:
		return &services.ValidationError{Field: "notifications", Message: "Use 'notifications on' or 'notifications off'."}
	}
}
