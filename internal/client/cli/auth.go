package cli

import (
	"context"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, phone and password and creates an
// account. A successful registration also signs the user in.
//
// The password byte slice is wiped before returning. Server validation
// messages are returned unchanged for the REPL to print.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Register(ctx, models.RegisterInput{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	a.printf("Welcome, %s!\n", user.DisplayName())
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.printf("Logged in as %s\n", user.DisplayName())
	return nil
}

// Logout ends the session locally and on the server.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.println("Logged out")
	return nil
}

// Profile refreshes and prints the current user.
func (a *App) Profile(ctx context.Context) error {
	u, err := a.session.FetchProfile(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

// EditProfile prompts for name, phone and bio. Empty answers keep the
// current value. Email cannot be edited.
func (a *App) EditProfile(ctx context.Context) error {
	cur := a.session.State().User
	if cur == nil {
		u, err := a.session.FetchProfile(ctx)
		if err != nil {
			return err
		}
		cur = &u
	}

	upd := models.ProfileUpdate{Name: cur.Name, Phone: cur.Phone, Bio: cur.Bio}
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name [" + cur.Name + "]", &upd.Name},
		{"Phone [" + cur.Phone + "]", &upd.Phone},
		{"Bio [" + cur.Bio + "]", &upd.Bio},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	u, err := a.session.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	a.println("Profile updated")
	printUser(a.out, u)
	return nil
}
