package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/lostfound/internal/client/models"
	"github.com/dmitrijs2005/lostfound/internal/client/services"
)

// console is the terminal output. REPL lines and App output (status watcher
// notices included) both go through it and its lock.
var console io.Writer = &lockedWriter{w: os.Stdout}

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(console, a...) }

// access says who may run a command.
type access int

const (
	accessAny   access = iota
	accessGuest        // logged out only
	accessUser         // any authenticated role
	accessStaff
	accessAdmin
)

// command is one REPL verb. minArgs is checked before run is called.
type command struct {
	name    string
	usage   string
	help    string
	access  access
	minArgs int
	run     func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	hasRole(roles ...models.Role) bool
	commands() []command
}

func allowed(a execIface, c command) bool {
	switch c.access {
	case accessGuest:
		return !a.isLoggedIn()
	case accessUser:
		return a.isLoggedIn()
	case accessStaff:
		return a.isLoggedIn() && a.hasRole(models.RoleStaff, models.RoleAdmin)
	case accessAdmin:
		return a.isLoggedIn() && a.hasRole(models.RoleAdmin)
	}
	return true
}

func printHelp(a execIface) {
	printlnFn("Available commands:")
	for _, c := range a.commands() {
		if allowed(a, c) {
			printlnFn(fmt.Sprintf("  %-28s %s", c.usage, c.help))
		}
	}
	printlnFn(fmt.Sprintf("  %-28s %s", "exit | quit", "leave the program"))
}

// runREPL reads commands line by line and dispatches them to a. Errors
// returned by handlers are printed inline and the loop keeps going. The loop
// exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	index := make(map[string]command)
	for _, c := range a.commands() {
		index[c.name] = c
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lf %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := index[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if !allowed(a, c) {
			switch {
			case c.access == accessGuest:
				printlnFn("You are already logged in. Log out first.")
			case !a.isLoggedIn():
				printlnFn(services.MsgNotLoggedIn)
			default:
				printlnFn("You do not have permission to run", name)
			}
			continue
		}
		if len(args) < c.minArgs {
			printlnFn("Usage:", c.usage)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", services.ErrorMessage(err))
		}
	}
}
