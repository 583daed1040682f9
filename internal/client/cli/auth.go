package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for the account fields and signs the new user in.
func (a *App) Register(ctx context.Context) error {
	var form models.RegisterForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Phone, err = getSimpleText(a.reader, "Enter phone (10 digits)", a.out); err != nil {
		return err
	}

	pw, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	u, err := a.auth.Register(ctx, form)
	if err != nil {
		return a.report(err, a.auth.Snapshot().Error)
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	return nil
}

// Login prompts for credentials and establishes a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	u, err := a.auth.Login(ctx, models.LoginForm{Email: email, Password: string(pw)})
	if err != nil {
		return a.report(err, a.auth.Snapshot().Error)
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", u.Name, u.Role)
	return nil
}

// Logout drops the session locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.log.Warn(ctx, "error clearing stored session", "error", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Profile reloads and prints the signed-in user.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.auth.FetchProfile(ctx)
	if err != nil {
		return a.report(err, a.auth.Snapshot().Error)
	}
	renderUser(a.out, *u)
	return nil
}

// EditProfile updates name and phone. Empty answers keep the current value.
func (a *App) EditProfile(ctx context.Context) error {
	cur := a.session.User()
	if cur == nil {
		return common.ErrLoginRequired
	}

	name, err := GetTextWithDefault(a.reader, "Enter name", cur.Name, a.out)
	if err != nil {
		return err
	}
	phone, err := GetTextWithDefault(a.reader, "Enter phone", cur.Phone, a.out)
	if err != nil {
		return err
	}

	var form models.ProfileForm
	if name != cur.Name {
		form.Name = name
	}
	if phone != cur.Phone {
		form.Phone = phone
	}

	u, err := a.auth.UpdateProfile(ctx, form)
	if err != nil {
		return a.report(err, a.auth.Snapshot().Error)
	}
	fmt.Fprintln(a.out, "Profile updated")
	renderUser(a.out, *u)
	return nil
}

// ChangePassword asks for the current password and a new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	var secrets [3][]byte
	defer func() {
		for _, s := range secrets {
			common.WipeByteArray(s)
		}
	}()

	for i, prompt := range []string{"Enter current password", "Enter new password", "Confirm new password"} {
		pw, err := getPassword(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		secrets[i] = pw
	}

	err := a.auth.ChangePassword(ctx, models.PasswordForm{
		CurrentPassword: string(secrets[0]),
		NewPassword:     string(secrets[1]),
		ConfirmPassword: string(secrets[2]),
	})
	if err != nil {
		return a.report(err, a.auth.Snapshot().Error)
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}
