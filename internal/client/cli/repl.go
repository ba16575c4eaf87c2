package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	SignIn(ctx context.Context, provider string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	LogMood(ctx context.Context, args []string) error
	History(ctx context.Context, limit int) error
	Stats(ctx context.Context, days int) error
	Clear(ctx context.Context, force bool) error
	Backup(ctx context.Context) error
	Profile(ctx context.Context, newName string) error
	Onboard(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, signin <google|apple|facebook>, exit"
	helpSignedIn  = "Available commands: log <1-5> [note], history [n], stats [days], clear, backup, profile [new name], onboard, whoami, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit". Command
// errors are printed to out and the loop continues.
//
// Prompts issued by the commands themselves read from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "mood %s> \n", statusFn())
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
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(out, helpSignedIn)
			} else {
				fmt.Fprintln(out, helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "signin":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: signin <google|apple|facebook>")
				continue
			}
			cmdErr = a.SignIn(ctx, args[0])
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "log":
			cmdErr = a.LogMood(ctx, args)
		case "history", "h":
			n, ok := optionalInt(args)
			if !ok {
				fmt.Fprintln(out, "Usage: history [n]")
				continue
			}
			cmdErr = a.History(ctx, n)
		case "stats":
			n, ok := optionalInt(args)
			if !ok {
				fmt.Fprintln(out, "Usage: stats [days]")
				continue
			}
			cmdErr = a.Stats(ctx, n)
		case "clear":
			cmdErr = a.Clear(ctx, false)
		case "backup":
			cmdErr = a.Backup(ctx)

		case "profile":
			cmdErr = a.Profile(ctx, strings.Join(args, " "))
		case "onboard":
			cmdErr = a.Onboard(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}

// optionalInt parses the first argument if present; 0 means absent.
func optionalInt(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, true
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (a *App) getStatus(ctx context.Context) string {
	s := ""
	if u := a.auth.CurrentUser(ctx); u != nil {
		s = u.Username + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive session until the user exits or ctx ends.
func (a *App) Root(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to moodctl (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.Mode() != ModeLocal {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader, a.out)
	return nil
}
