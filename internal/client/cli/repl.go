package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Post(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Cover(ctx context.Context, id, path string) error
}

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop goes on.
//
//	Not logged in:  help, register, login, list, show <id>, cover <id> <file>, exit
//	Logged in:      the above plus profile, post, edit <id>, logout
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gb%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, show <id>, post, edit <id>, cover <id> <file>, profile, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (l)ist, show <id>, cover <id> <file>, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "show":
			if len(args) != 1 {
				printlnFn("Usage: show <id>")
				continue
			}
			cmdErr = a.Show(ctx, args[0])

		case "post":
			cmdErr = a.Post(ctx)

		case "edit":
			if len(args) != 1 {
				printlnFn("Usage: edit <id>")
				continue
			}
			cmdErr = a.Edit(ctx, args[0])

		case "cover":
			if len(args) != 2 {
				printlnFn("Usage: cover <id> <file>")
				continue
			}
			cmdErr = a.Cover(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("error:", cmdErr)
		}
	}
}
