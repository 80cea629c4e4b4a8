// Package auth holds the account commands of REST services.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekslot/internal/cli"
	"github.com/julianstephens/weekslot/internal/constants"
	wserrors "github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/keyring"
	"github.com/julianstephens/weekslot/internal/storage/remote"
)

// promptFunc asks for missing credentials; swapped in tests.
var promptFunc = promptCredentials

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Account username."`
	Password string `help:"Account password. Prompted for when omitted." env:"WEEKSLOT_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	authn, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	if c.Username == "" || c.Password == "" {
		if err := promptFunc(&c.Username, &c.Password); err != nil {
			return err
		}
	}

	tokens, err := authn.Login(ctx.Context(), strings.TrimSpace(c.Username), c.Password)
	if err != nil {
		if wserrors.IsRejection(err) {
			return errors.New(constants.MsgInvalidLogin)
		}
		return errors.New(wserrors.UserMessage(err, constants.MsgInvalidLogin))
	}
	if err := ctx.SaveLogin(tokens); err != nil {
		return err
	}

	if err := ctx.Ready(); err != nil {
		return err
	}
	if u := ctx.Session.CurrentUser(); u != nil && u.Username != "" {
		ctx.Printf("✓ Logged in as %s\n", u.Username)
		return nil
	}
	ctx.Println("✓ Logged in")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	rc, ok := ctx.Store.(*remote.Client)
	if !ok {
		return fmt.Errorf("logout is only available for REST services")
	}
	if err := keyring.DeleteTokens(rc.BaseURL()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.Println("Not logged in.")
			return nil
		}
		return err
	}
	ctx.Session.Clear()
	ctx.Println("✓ Logged out")
	return nil
}

type RegisterCmd struct {
	Username string `arg:"" help:"Account username."`
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Account password. Prompted for when omitted." env:"WEEKSLOT_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	authn, err := ctx.Authenticator()
	if err != nil {
		return err
	}
	if c.Password == "" {
		user := c.Username
		if err := promptFunc(&user, &c.Password); err != nil {
			return err
		}
	}
	if err := authn.Register(ctx.Context(), c.Username, c.Email, c.Password); err != nil {
		return errors.New(wserrors.UserMessage(err, "Registration failed"))
	}
	ctx.Printf("✓ Registered %s. Run '%s login %s' to sign in.\n", c.Username, constants.AppName, c.Username)
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Ready(); err != nil {
		return err
	}
	u := ctx.Session.CurrentUser()
	if u == nil {
		return fmt.Errorf("not logged in (run '%s login')", constants.AppName)
	}

	name := u.Username
	if name == "" {
		name = "user " + u.ID.String()
	}
	role := ""
	if u.IsStaff {
		role = " (staff)"
	}
	ctx.Printf("%s%s on %s\n", name, role, ctx.Store.Describe())
	return nil
}

func promptCredentials(username, password *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Username").Value(username),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("login cancelled: %w", err)
	}
	if strings.TrimSpace(*username) == "" || *password == "" {
		return errors.New(constants.MsgFillAllFields)
	}
	return nil
}
