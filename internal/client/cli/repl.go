package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context, idToken string) error
	AppleLogin(ctx context.Context, idToken string) error
	OpenRoom(ctx context.Context) error
	Send(ctx context.Context, text string) error
	SelectPersona(ctx context.Context, name string) error
	GenerateImage(ctx context.Context) error
	Calendar(ctx context.Context, month string) error
	Day(ctx context.Context, date string) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the dream chat CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               — show available commands
//	  - register           — create an account
//	  - login              — authenticate with email and password
//	  - google <token>     — authenticate with a Google ID token
//	  - apple <token>      — authenticate with an Apple identity token
//	  - exit | quit        — leave the program
//
//	Logged in:
//	  - help               — show available commands
//	  - room               — open today's chat room
//	  - send <text>        — tell the bot about a dream
//	  - persona <name>     — switch the bot persona
//	  - image              — illustrate today's dream
//	  - calendar <YYYY-MM> — list recorded days of a month
//	  - day <YYYY-MM-DD>   — show the record of one day
//	  - whoami             — show the signed-in account
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dream %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: room, send <text>, persona <name>, image, calendar <YYYY-MM>, day <YYYY-MM-DD>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, google <token>, apple <token>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "google":
			_ = a.GoogleLogin(ctx, rest)

		case "apple":
			_ = a.AppleLogin(ctx, rest)

		case "room":
			_ = a.OpenRoom(ctx)

		case "send":
			_ = a.Send(ctx, rest)

		case "persona":
			_ = a.SelectPersona(ctx, rest)

		case "image":
			_ = a.GenerateImage(ctx)

		case "calendar":
			_ = a.Calendar(ctx, rest)

		case "day":
			_ = a.Day(ctx, rest)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
