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
	Whoami(ctx context.Context) error
	Scan(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Follow(ctx context.Context, id string) error
	Following(ctx context.Context) error
	Followers(ctx context.Context) error
	NowPlaying(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the nearwave CLI.
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
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help             — show available commands
//	  - whoami           — show the current user and their track
//	  - scan [radius]    — scan for nearby users (meters)
//	  - list             — re-print the last scan result
//	  - follow <id>      — follow or unfollow a nearby user
//	  - following        — list who you follow
//	  - followers        — list who follows you
//	  - nowplaying [n]   — pick the track you are playing
//	  - logout           — log out
//	  - delete-account   — delete the local account
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("nw %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, scan [radius], (l)ist, follow <id>, following, followers, nowplaying [n], logout, delete-account, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "scan":
			_ = a.Scan(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "follow":
			if len(args) == 0 {
				printlnFn("Usage: follow <user-id>")
				continue
			}
			_ = a.Follow(ctx, args[0])

		case "following":
			_ = a.Following(ctx)

		case "followers":
			_ = a.Followers(ctx)

		case "nowplaying":
			_ = a.NowPlaying(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
