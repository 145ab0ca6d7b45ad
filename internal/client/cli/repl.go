package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error

	Skills(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	ShowSkill(ctx context.Context, args []string) error
	MySkills(ctx context.Context) error
	OfferSkill(ctx context.Context) error
	EditSkill(ctx context.Context, args []string) error
	DeleteSkill(ctx context.Context, args []string) error

	SendRequest(ctx context.Context, args []string) error
	Requests(ctx context.Context, args []string) error
	SkillRequests(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
	Complete(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error

	Dashboard(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, exit"
	helpSignedIn  = "Available commands: dashboard, skills, search, skill, myskills, offer, editskill, delskill, " +
		"request, requests, skillrequests, accept, reject, complete, cancel, profile, editprofile, logout, exit"
)

// errUsage marks a command invoked with the wrong arguments.
var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// runREPL starts a simple read-eval-print loop for the SkillSwap CLI.
//
// It reads a line from r, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that need a session are refused
// while signed out. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Prompt & Commands
//
//	Signed out:
//	  - help                         : show available commands
//	  - register | login             : authenticate
//	  - exit | quit                  : leave the program
//
//	Signed in:
//	  - dashboard                    : profile, own skills and requests at a glance
//	  - skills [category=..] [level=..]
//	  - search <text>                : full-text skill search
//	  - skill <id>                   : skill details
//	  - myskills | offer | editskill <id> | delskill <id>
//	  - request <skillId> [message]  : ask the owner for an exchange
//	  - requests [sent|received] [status]
//	  - skillrequests <skillId>
//	  - accept | reject | complete | cancel <requestId>
//	  - profile | editprofile | logout
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("skillswap %s> ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn("Error:", api.Message(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpSignedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if cmd != "logout" {
			printlnFn("Unknown command or not signed in:", cmd)
		}
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "editprofile":
		return a.EditProfile(ctx)
	case "dashboard", "d":
		return a.Dashboard(ctx)

	case "skills", "l", "list":
		return a.Skills(ctx, args)
	case "search":
		return a.Search(ctx, args)
	case "skill", "show":
		return a.ShowSkill(ctx, args)
	case "myskills":
		return a.MySkills(ctx)
	case "offer":
		return a.OfferSkill(ctx)
	case "editskill":
		return a.EditSkill(ctx, args)
	case "delskill":
		return a.DeleteSkill(ctx, args)

	case "request":
		return a.SendRequest(ctx, args)
	case "requests":
		return a.Requests(ctx, args)
	case "skillrequests":
		return a.SkillRequests(ctx, args)
	case "accept":
		return a.Accept(ctx, args)
	case "reject":
		return a.Reject(ctx, args)
	case "complete":
		return a.Complete(ctx, args)
	case "cancel":
		return a.Cancel(ctx, args)
	}

	printlnFn("Unknown command:", cmd)
	return nil
}
