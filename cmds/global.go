package cmds

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// Execute runs args against the global executor and exits on error.
func Execute(args []string) {
	if err := GlobalExecutor.Execute(args); err != nil {
		fmt.Fprintf(GlobalExecutor.Output, "%v\n", err)
		GlobalExecutor.PrintUsage()
		os.Exit(2)
	}
}

func printUsage(w io.Writer, commands map[string]*Command, depth int) {
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		command := commands[name]
		if command == nil || slices.Contains(command.Aliases, name) {
			continue
		}
		line := indent + name
		if len(command.Aliases) > 0 {
			line += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if command.Description != "" {
			line += "\t" + command.Description
		}
		fmt.Fprintln(w, line)
		if len(command.Subs) > 0 {
			printUsage(w, command.Subs, depth+1)
		}
	}
}
