package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

// getSimpleText, getMultiline and getPassword are indirections for tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

func (a *App) credentials() (string, []byte, error) {
	handle, err := getSimpleText(a.reader, "Enter handle", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return handle, password, nil
}

// Register prompts for a handle and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	handle, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.api.Register(ctx, handle, password)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateIdentity) {
			return fmt.Errorf("handle %q is already taken", handle)
		}
		return err
	}

	fmt.Fprintf(a.out, "Account %s created, you can log in now\n", acc.Handle)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	handle, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.api.Login(ctx, handle, password)
	if err != nil {
		return err
	}

	a.handle = acc.Handle
	fmt.Fprintf(a.out, "Logged in as %s\n", acc.Handle)
	return nil
}

// Logout ends the session. The local state is cleared even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.handle = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthenticated) {
			a.handle = ""
		}
		return err
	}

	fmt.Fprintf(a.out, "handle:    %s\nid:        %s\nlogged in: %s\n", p.Handle, p.ID, p.IssuedAt.Local().Format(time.DateTime))
	return nil
}
