package cli

import (
	"context"
	"fmt"

	"github.com/noverdy/ispcli/internal/common"
)

// Login prompts for credentials and authenticates. The session's last error
// carries the display message on failure.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.session.Login(ctx, email, string(password)) {
		return fmt.Errorf("login failed: %s", a.session.LastError())
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.User().Name)
	return nil
}

// Register creates a new account. Registration does not authenticate; the
// user is expected to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if err := validatePassword(string(password)); err != nil {
		return err
	}

	if !a.session.Register(ctx, name, email, string(password)) {
		return fmt.Errorf("registration failed: %s", a.session.LastError())
	}

	fmt.Fprintln(a.out, "Registration successful. Please login to continue.")
	return nil
}

// ForgotPassword requests a reset token for the given account email.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	if !a.session.ForgotPassword(ctx, email) {
		return fmt.Errorf("password recovery failed: %s", a.session.LastError())
	}

	fmt.Fprintln(a.out, "If the email exists, a reset token has been sent.")
	return nil
}

// ResetPassword exchanges a reset token for a new password.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if err := validatePassword(string(password)); err != nil {
		return err
	}

	if !a.session.ResetPassword(ctx, token, string(password)) {
		return fmt.Errorf("password reset failed: %s", a.session.LastError())
	}

	fmt.Fprintln(a.out, "Password reset successfully. Please login with your new password.")
	return nil
}

// Logout clears the session locally.
func (a *App) Logout() {
	a.session.Logout()
	fmt.Fprintln(a.out, "Logged out.")
}
