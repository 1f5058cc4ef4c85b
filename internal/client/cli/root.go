package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var errUsage = errors.New("usage")

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.Username)
}

func (a *App) printHelp() {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Available commands: upload <path>, download <id> [dir], list, rotate, logout, exit")
	} else {
		fmt.Fprintln(a.out, "Available commands: register, login, exit")
	}
}

// Execute runs one command with its operands.
func (a *App) Execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.printHelp()
		return nil
	case "ping":
		if err := a.api.Ping(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "OK")
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "rotate":
		return a.Rotate(ctx)
	case "logout":
		return a.Logout(ctx)
	case "list", "l":
		return a.List(ctx)
	case "upload":
		if len(args) != 1 {
			return fmt.Errorf("%w: upload <path>", errUsage)
		}
		return a.Upload(ctx, args[0])
	case "download":
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("%w: download <id> [dir]", errUsage)
		}
		dir := "."
		if len(args) == 2 {
			dir = args[1]
		}
		return a.Download(ctx, args[0], dir)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// Run executes a single command given on the command line, or starts the
// interactive prompt when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.Close()

	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.Execute(ctx, args[0], args[1:])
}

// Root is the interactive prompt. It returns on "exit", "quit" or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the vault CLI (type 'help' for commands)")

	// prompts inside commands read from the same reader, so no Scanner here
	for {
		fmt.Fprintf(a.out, "vault %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return
		}

		if err := a.Execute(ctx, cmd, parts[1:]); err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}
