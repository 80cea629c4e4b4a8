package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/julianstephens/weekslot/internal/booking"
	"github.com/julianstephens/weekslot/internal/keyring"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
	"github.com/julianstephens/weekslot/internal/session"
	"github.com/julianstephens/weekslot/internal/storage"
	"github.com/julianstephens/weekslot/internal/storage/remote"
)

// ErrReported marks a failure whose message was already shown to the user.
var ErrReported = errors.New("failure already reported")

// Reported wraps err so main exits non-zero without printing it again.
func Reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrReported, err)
}

type Context struct {
	Store    storage.Provider
	Session  *session.Session
	Location *time.Location
	// Notifier receives booking outcomes in addition to stdout.
	Notifier booking.Notifier
	Out      io.Writer
	Base     context.Context

	readyOnce sync.Once
	readyErr  error
}

// Context returns the base context commands run under.
func (c *Context) Context() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

// Stdout returns the writer command output goes to.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Ready loads the store and resolves the viewer once. Commands that talk to
// the authority call it first; init and keyring commands do not.
func (c *Context) Ready() error {
	c.readyOnce.Do(func() {
		c.readyErr = c.ready(c.Context())
	})
	return c.readyErr
}

func (c *Context) ready(ctx context.Context) error {
	if c.Store == nil {
		return fmt.Errorf("no store configured")
	}
	if c.Session == nil {
		c.Session = session.New()
	}
	if err := c.Store.Load(ctx); err != nil {
		return err
	}

	var access string
	if rc, ok := c.Store.(*remote.Client); ok {
		access = rc.Tokens().Access
		if access == "" {
			// Anonymous browsing is allowed; booking will be rejected by the service.
			logger.Debug("no stored login for service", "url", rc.BaseURL())
			return nil
		}
	}
	if err := session.Resolve(ctx, c.Session, access, c.Store); err != nil {
		logger.Warn("could not resolve current user", "error", err)
		if access == "" {
			return err
		}
	}
	return nil
}

// Controller returns a booking controller bound to this context. Outcomes
// are printed and forwarded to Notifier.
func (c *Context) Controller() *booking.Controller {
	return booking.New(c.Store, c.Session, booking.MultiNotifier(PrintNotifier(c.Stdout()), c.Notifier), c.Location)
}

// Authenticator returns the store as an Authenticator when it issues
// credentials.
func (c *Context) Authenticator() (storage.Authenticator, error) {
	a, ok := c.Store.(storage.Authenticator)
	if !ok {
		return nil, fmt.Errorf("%s does not issue credentials; login is only available for REST services", c.Store.Describe())
	}
	return a, nil
}

// SaveLogin stores tokens for the REST service and applies them to the client.
func (c *Context) SaveLogin(tokens models.TokenPair) error {
	rc, ok := c.Store.(*remote.Client)
	if !ok {
		return fmt.Errorf("login is only available for REST services")
	}
	rc.SetTokens(tokens)
	if err := keyring.SaveTokens(rc.BaseURL(), tokens); err != nil {
		return err
	}
	return nil
}

// PrintNotifier writes each notice's message on its own line.
func PrintNotifier(w io.Writer) booking.Notifier {
	return booking.NotifierFunc(func(n booking.Notice) {
		if n.Message == "" {
			return
		}
		if n.Failed() {
			fmt.Fprintf(w, "✗ %s\n", n.Message)
			return
		}
		if n.Slot.Title != "" {
			fmt.Fprintf(w, "✓ %s %s\n", n.Message, n.Slot.Title)
			return
		}
		fmt.Fprintf(w, "✓ %s\n", n.Message)
	})
}
