package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	ListPets(ctx context.Context, args []string) error
	Cached(ctx context.Context) error
	ShowPet(ctx context.Context, id string) error
	AddPet(ctx context.Context) error
	EditPet(ctx context.Context, id string) error
	DeletePet(ctx context.Context, id string) error

	Apply(ctx context.Context, petID string) error
	MyApplications(ctx context.Context) error
	AllApplications(ctx context.Context) error
	Decide(ctx context.Context, id string, status models.ApplicationStatus) error
}

const (
	helpGuest = "Available commands: pets [page] [search] [species], cached, show <id>, apply <petId>, register, login, exit"
	helpUser  = "Available commands: pets [page] [search] [species], cached, show <id>, apply <petId>, myapps, profile, editprofile, passwd, logout, exit"
	helpAdmin = "Available commands: pets [page] [search] [species], cached, show <id>, addpet, editpet <id>, delpet <id>, allapps, approve <id>, reject <id>, profile, editprofile, passwd, logout, exit"
)

// adminOnly lists the commands hidden from and refused to non-admins.
var adminOnly = map[string]bool{
	"addpet":  true,
	"editpet": true,
	"delpet":  true,
	"allapps": true,
	"approve": true,
	"reject":  true,
}

// loginOnly lists the commands that need a session.
var loginOnly = map[string]bool{
	"myapps":      true,
	"profile":     true,
	"editprofile": true,
	"passwd":      true,
	"logout":      true,
}

// usage maps commands taking one id argument to their usage line.
var usage = map[string]string{
	"show":    "Usage: show <id>",
	"editpet": "Usage: editpet <id>",
	"delpet":  "Usage: delpet <id>",
	"apply":   "Usage: apply <petId>",
	"approve": "Usage: approve <id>",
	"reject":  "Usage: reject <id>",
}

// runREPL starts a simple read-eval-print loop for the petadopt CLI.
//
// It reads a line from in, parses the first token as the command and
// dispatches to methods on a. The prompt shows the signed-in user from
// statusFn. The loop exits on EOF, when ctx is cancelled, or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print
// their own notices.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(out, "petadopt%s> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !dispatch(ctx, a, cmd, args, out) {
			return
		}
	}
}

// dispatch runs one command and reports whether the loop should continue.
func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) bool {
	switch {
	case adminOnly[cmd] && !a.isAdmin():
		fmt.Fprintln(out, "Admin access required")
		return true
	case loginOnly[cmd] && !a.isLoggedIn():
		fmt.Fprintln(out, "Please login to continue")
		return true
	case usage[cmd] != "" && len(args) == 0:
		fmt.Fprintln(out, usage[cmd])
		return true
	}

	switch cmd {
	case "help":
		switch {
		case a.isAdmin():
			fmt.Fprintln(out, helpAdmin)
		case a.isLoggedIn():
			fmt.Fprintln(out, helpUser)
		default:
			fmt.Fprintln(out, helpGuest)
		}

	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "profile":
		_ = a.Profile(ctx)
	case "editprofile":
		_ = a.EditProfile(ctx)
	case "passwd":
		_ = a.ChangePassword(ctx)

	case "pets":
		_ = a.ListPets(ctx, args)
	case "cached":
		_ = a.Cached(ctx)
	case "show":
		_ = a.ShowPet(ctx, args[0])
	case "addpet":
		_ = a.AddPet(ctx)
	case "editpet":
		_ = a.EditPet(ctx, args[0])
	case "delpet":
		_ = a.DeletePet(ctx, args[0])

	case "apply":
		_ = a.Apply(ctx, args[0])
	case "myapps":
		_ = a.MyApplications(ctx)
	case "allapps":
		_ = a.AllApplications(ctx)
	case "approve":
		_ = a.Decide(ctx, args[0], models.StatusApproved)
	case "reject":
		_ = a.Decide(ctx, args[0], models.StatusRejected)

	case "exit", "quit":
		fmt.Fprintln(out, "Bye!")
		return false

	default:
		fmt.Fprintln(out, "Unknown command:", cmd)
	}
	return true
}
