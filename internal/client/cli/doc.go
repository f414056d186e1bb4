// Package cli provides the interactive Mazury command-line client.
//
// It wires configuration, the local token store, the backend API client and
// the session service, then runs a REPL. On start the persisted session is
// resolved without a network round trip when the cache allows it, and a
// background watcher tracks backend reachability.
//
// Key features:
//   - keygen: create an encrypted wallet keystore
//   - login / logout: sign-in with the wallet, clear the session
//   - status: show the cached profile
//   - onboard: the resumable onboarding wizard (":back" and ":quit" navigate)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
