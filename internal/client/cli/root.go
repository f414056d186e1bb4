package cli

import (
	"context"
	"fmt"

	"github.com/mazury/mazury-client/internal/client/services"
	"github.com/mazury/mazury-client/internal/common"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.CurrentUser(); u != nil {
		name := u.Username
		if name == "" {
			name = shortAddress(u.Address)
		}
		s = name + " "
	}
	if mode := a.Mode(); mode != "" {
		s = s + string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// Root resolves the persisted session, starts the reachability watcher and
// runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Mazury CLI (type 'help' for commands)")

	status, err := a.session.Resolve(ctx)
	if err != nil {
		fmt.Fprintln(a.out, common.Describe(err))
	}
	switch status {
	case services.StatusLoggedIn:
		a.greet()
	default:
		fmt.Fprintln(a.out, "Not logged in. Type 'login' to sign in or 'keygen' to create a wallet.")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) greet() {
	u := a.session.CurrentUser()
	if u == nil {
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Address)
	if !u.Onboarded {
		fmt.Fprintln(a.out, "Your profile is not complete yet. Type 'onboard' to finish it.")
	}
}
