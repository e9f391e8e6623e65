package commands

import (
	"context"
	"errors"
	"fmt"
	"invoicer/internal/config"
	"os"
	"slices"
)

// Process exit codes returned by Dispatch.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Dispatch runs the command named by args[0] and returns the process exit code.
// args are what remains after global flags were parsed.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if wantsHelp(os.Args[1:]) {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := args[0]
	if name == "help" {
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		return unknown(name)
	}

	err := c.Run(ctx, cfg, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: invctl %s\n", c.Usage())
		return ExitUsage
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return ExitError
	}
}

// help handles "invctl help [command]".
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	c, ok := Get(args[0])
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprintf(Out, "Usage: invctl %s\n  %s\n", c.Usage(), c.Description())
	return ExitOK
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return ExitUsage
}

func wantsHelp(args []string) bool {
	return slices.Contains(args, "--help") || slices.Contains(args, "-h")
}
