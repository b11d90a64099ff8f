package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/exindent/cmds"
	"github.com/reusee/exindent/debugs"
	"github.com/reusee/exindent/indents"
	"github.com/reusee/exindent/logs"
	"github.com/reusee/exindent/modes"
	"github.com/reusee/exindent/sources"
	"github.com/reusee/exindent/styles"
	"github.com/reusee/exindent/vars"
	"golang.org/x/term"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

type action uint8

const (
	actionCheck action = iota
	actionFormat
)

var (
	currentAction = actionCheck
	roots         []string
	writeFlag     = cmds.Switch("-w")
	tapFlag       = cmds.Switch("-tap")
	extensions    = cmds.CollectList("-ext")
)

func init() {
	cmds.Define("check", cmds.Func(func(path *string) {
		currentAction = actionCheck
		addRoot(vars.DerefOrZero(path))
	}).Desc("verify indentation of files under path, or stdin"))
	cmds.Define("fmt", cmds.Func(func(path *string) {
		currentAction = actionFormat
		addRoot(vars.DerefOrZero(path))
	}).Desc("reformat indentation; -w writes files in place"))
	cmds.Define("-path", cmds.Func(addRoot).Desc("add a file or directory to process"))
}

func addRoot(path string) {
	if path != "" {
		roots = append(roots, path)
	}
}

func main() {
	cmds.Execute(os.Args[1:])
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	code := 0
	scope.Call(func(
		logger logs.Logger,
		style styles.Style,
		analyze indents.AnalyzeFile,
		checkFiles sources.CheckFiles,
		tap debugs.Tap,
	) {
		var err error
		var results []sources.Result
		if len(roots) == 0 {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				fmt.Fprintln(os.Stderr, "no input: give a path or pipe source to stdin")
				code = 2
				return
			}
			results, err = analyzeStdin(ctx, analyze)
		} else {
			exts := sources.DefaultExtensions
			if len(*extensions) > 0 {
				exts = nil
				for _, ext := range *extensions {
					if !strings.HasPrefix(ext, ".") {
						ext = "." + ext
					}
					exts = append(exts, ext)
				}
			}
			results, err = checkFiles(ctx, sources.Enumerate(roots, exts))
		}
		if err != nil {
			logger.Error("analyze", "error", err)
			code = 2
			return
		}

		switch currentAction {
		case actionCheck:
			code = report(os.Stdout, results)
		case actionFormat:
			code, err = format(os.Stdout, results, len(roots) == 0, *writeFlag)
			if err != nil {
				logger.Error("format", "error", err)
				code = 2
			}
		}

		if *tapFlag {
			tap(ctx, "results", map[string]any{
				"results": results,
				"style":   style,
				"analyze": func(src string) (indents.Report, error) {
					return indents.Analyze(src, style)
				},
			})
		}
	})

	os.Exit(code)
}

const stdinName = "<stdin>"

func analyzeStdin(ctx context.Context, analyze indents.AnalyzeFile) ([]sources.Result, error) {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, wrap(err)
	}
	report, err := analyze(ctx, stdinName, content)
	if err != nil {
		return nil, wrap(err)
	}
	return []sources.Result{
		{
			Path:    stdinName,
			Content: content,
			Report:  report,
		},
	}, nil
}
