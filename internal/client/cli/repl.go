package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mazury/mazury-client/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Onboard(ctx context.Context) error
	Keygen(ctx context.Context) error
}

// dispatch runs one command. Errors and panics are reported to the user
// through common.Describe and never end the loop.
func dispatch(ctx context.Context, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			printlnFn(common.Describe(fmt.Errorf("internal error: %v", r)))
		}
	}()
	if err := fn(ctx); err != nil {
		printlnFn(common.Describe(err))
	}
}

// runREPL starts a simple read-eval-print loop for the Mazury CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - keygen         create a wallet keystore
//	  - login          sign in with the keystore wallet
//	  - status         show session status
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - status|whoami  show the current profile
//	  - onboard        run or resume the onboarding wizard
//	  - logout         log out
//	  - exit | quit    leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mz %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, onboard, logout, exit")
			} else {
				printlnFn("Available commands: keygen, login, status, exit")
			}

		case "keygen":
			dispatch(ctx, a.Keygen)

		case "login":
			dispatch(ctx, a.Login)

		case "status", "whoami":
			dispatch(ctx, a.Status)

		case "onboard":
			dispatch(ctx, a.Onboard)

		case "logout":
			dispatch(ctx, a.Logout)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
