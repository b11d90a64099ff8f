package cmds

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
)

type Executor struct {
	commands map[string]*Command
	Output   io.Writer
}

func NewExecutor() *Executor {
	ret := &Executor{
		commands: make(map[string]*Command),
		Output:   os.Stderr,
	}

	usage := Func(func() {
		ret.PrintUsage()
		os.Exit(0)
	}).
		Desc("print this usage").
		Alias("help", "-help", "--help")
	ret.Define("-h", usage)

	return ret
}

func (p *Executor) Define(name string, command *Command) {
	for _, name := range append([]string{name}, command.Aliases...) {
		if _, ok := p.commands[name]; ok {
			panic(fmt.Errorf("duplicated command %s", name))
		}
		p.commands[name] = command
	}
}

// Execute runs the commands named in args from left to right. A command with
// sub commands brings them into scope for the rest of args.
func (p *Executor) Execute(args []string) error {
	scope := p.commands
	for len(args) > 0 {
		name := strings.TrimSpace(args[0])
		args = args[1:]

		command, ok := scope[name]
		if !ok {
			return fmt.Errorf("unknown command: %s", name)
		}

		if command.Func.IsValid() {
			values, rest, err := command.bind(name, args, scope)
			if err != nil {
				return err
			}
			args = rest
			if rets := command.Func.Call(values); len(rets) > 0 && !rets[0].IsNil() {
				return rets[0].Interface().(error)
			}
		}

		if len(command.Subs) > 0 {
			scope = maps.Clone(scope)
			for subname, sub := range command.Subs {
				if _, ok := scope[subname]; ok {
					return fmt.Errorf("duplicated sub command: %s %s", name, subname)
				}
				scope[subname] = sub
			}
		}
	}
	return nil
}

func (p *Executor) MustExecute(args []string) {
	if err := p.Execute(args); err != nil {
		panic(err)
	}
}

func (p *Executor) PrintUsage() {
	printUsage(p.Output, p.commands, 0)
}
