package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/assignhub/internal/client/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. route, when set, names the page the command
// stands for; the guard is evaluated for it before run is called.
type command struct {
	name  string
	usage string
	args  int
	route func(args []string) guard.Route
	run   func(ctx context.Context, args []string) error
}

func fixed(r guard.Route) func([]string) guard.Route {
	return func([]string) guard.Route { return r }
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	commands() []command
	navigate(route guard.Route) guard.Decision
	signedIn() bool
	report(ctx context.Context, err error)
}

func lookup(a execIface, name string) (command, bool) {
	for _, c := range a.commands() {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// helpText lists the commands the guard currently lets through.
func helpText(a execIface) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range a.commands() {
		if c.route != nil && a.navigate(c.route(nil)).Kind != guard.Allow {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", c.usage)
	}
	b.WriteString("  help\n  exit | quit")
	return b.String()
}

// runREPL reads commands line by line from reader and dispatches them.
//
// Each line is split on whitespace; the first token picks the command and
// the rest are its arguments. A command bound to a route is refused unless
// the guard allows that route for the current identity. Command errors are
// reported through a.report and never stop the loop. The loop ends on EOF
// or on "exit" / "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ah %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(a))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := lookup(a, name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if len(args) < c.args {
			printlnFn("Usage:", c.usage)
			continue
		}

		if c.route != nil {
			d := a.navigate(c.route(args))
			switch d.Kind {
			case guard.RedirectLogin:
				if a.signedIn() {
					printlnFn("Access denied: your account cannot open this page.")
				} else {
					printlnFn("Please sign in first (login or discord).")
				}
				continue
			case guard.RedirectHome:
				printlnFn("You are already signed in. Type 'home' to open", string(d.Target))
				continue
			}
		}

		if err := c.run(ctx, args); err != nil {
			a.report(ctx, err)
		}
	}
}
