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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context) error
	Files(ctx context.Context) error
	Channels(ctx context.Context) error
	NewChannel(ctx context.Context) error
	Post(ctx context.Context) error
	Messages(ctx context.Context) error
	Projects(ctx context.Context) error
	NewProject(ctx context.Context) error
	AddMember(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Collabpack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cp> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, upload, files, channels, newchannel, post, messages, projects, newproject, addmember, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "files":
			_ = a.Files(ctx)

		case "channels":
			_ = a.Channels(ctx)

		case "newchannel":
			_ = a.NewChannel(ctx)

		case "post":
			_ = a.Post(ctx)

		case "messages":
			_ = a.Messages(ctx)

		case "projects":
			_ = a.Projects(ctx)

		case "newproject":
			_ = a.NewProject(ctx)

		case "addmember":
			_ = a.AddMember(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
