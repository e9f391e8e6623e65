package commands

import (
	"context"
	"errors"
	"fmt"
	"invoicer/internal/config"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when its arguments are wrong.
var ErrUsage = errors.New("usage")

// Command is one invctl subcommand.
type Command interface {
	// Name is what the user types, e.g. "invoices".
	Name() string
	// Description is the one-line help text.
	Description() string
	// Usage is the argument synopsis, e.g. "pdf <id> [output-file]".
	Usage() string
	// Run executes the command with the arguments that follow its name.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// Out receives everything the CLI prints. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Called from init().
// Registering the same name twice is a programming error.
func RegisterCmd(cmd Command) {
	name := strings.ToLower(cmd.Name())
	if _, dup := registry[name]; dup {
		panic("commands: duplicate command " + name)
	}
	registry[name] = cmd
}

// Get looks a command up by name, case-insensitively.
func Get(name string) (Command, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage renders the help screen.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("Invoice CLI\n\n")
	b.WriteString("Usage:\n")
	b.WriteString("  invctl [--base-url <host:port>] [--https] [--token-file <path>] <command> [args]\n\n")
	b.WriteString("Commands:\n")

	width := 0
	for _, c := range List() {
		width = max(width, len(c.Usage()))
	}
	for _, c := range List() {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, c.Usage(), c.Description())
	}

	b.WriteString("\nEnvironment:\n")
	b.WriteString("  BASE_URL, ENABLE_HTTPS, TOKEN_FILE override the defaults; flags win over them.\n")
	return b.String()
}
