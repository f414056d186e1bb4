package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mazury/mazury-client/internal/client/services"
	"github.com/mazury/mazury-client/internal/client/wallet"
	"github.com/mazury/mazury-client/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	getMetadata   = GetMetadata
)

// Keystore seams.
var (
	createKeystore = wallet.CreateKeystore
	unlockKeystore = func(path string, password []byte) (wallet.Connector, error) {
		return wallet.UnlockKeystore(path, password)
	}
)

var errPasswordMismatch = errors.New("passwords do not match")

// Keygen creates a new wallet keystore at the configured path. The password
// is asked twice and wiped before returning.
func (a *App) Keygen(ctx context.Context) error {
	path := a.config.KeystorePath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", wallet.ErrKeystoreExists, path)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if len(password) == 0 || !bytes.Equal(password, confirm) {
		return errPasswordMismatch
	}

	k, err := createKeystore(path, password)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "keystore created", "path", path, "address", k.Address())
	fmt.Fprintf(a.out, "Wallet created: %s\nKeystore: %s\n", k.Address(), path)
	return nil
}

// unlock asks for the keystore password and opens the wallet.
func (a *App) unlock() (wallet.Connector, error) {
	path := a.config.KeystorePath()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no wallet keystore at %s, run 'keygen' first", path)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	return unlockKeystore(path, password)
}

// ensureConnector returns an unlocked connector for the logged-in address,
// prompting for the keystore password when the session was resumed from
// disk.
func (a *App) ensureConnector() (wallet.Connector, error) {
	u := a.session.CurrentUser()
	if u == nil {
		return nil, services.ErrNotLoggedIn
	}
	if a.connector != nil && strings.EqualFold(a.connector.Address(), u.Address) {
		return a.connector, nil
	}
	conn, err := a.unlock()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(conn.Address(), u.Address) {
		return nil, fmt.Errorf("keystore wallet %s does not match the logged-in address %s", conn.Address(), u.Address)
	}
	a.connector = conn
	return conn, nil
}

// Login unlocks the keystore wallet and signs in with it.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Type 'logout' first to switch wallets.")
		return nil
	}

	conn, err := a.unlock()
	if err != nil {
		return err
	}

	if _, err := a.session.Login(ctx, conn); err != nil {
		a.log.Warn(ctx, "login failed", "error", err)
		return err
	}
	a.connector = conn
	a.greet()
	return nil
}

// Logout clears the persisted session. The onboarding progress is kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.connector = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the session status and the cached profile.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "Session: %s\n", a.session.Status())
	if mode := a.Mode(); mode != "" {
		fmt.Fprintf(a.out, "Backend: %s\n", mode)
	}

	u := a.session.CurrentUser()
	if u == nil {
		return nil
	}
	fmt.Fprintf(a.out, "Address: %s\n", u.Address)
	for _, f := range []struct{ name, value string }{
		{"Username", u.Username},
		{"Email", u.Email},
		{"Type", u.ProfileType},
		{"Location", u.Location},
		{"Company", u.Company},
		{"Roles", strings.Join(u.Roles(), ", ")},
	} {
		if f.value != "" {
			fmt.Fprintf(a.out, "%s: %s\n", f.name, f.value)
		}
	}
	fmt.Fprintf(a.out, "Onboarded: %t\n", u.Onboarded)
	return nil
}
