package main

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/exindent/indents"
	"github.com/reusee/exindent/sources"
)

// report prints every diagnostic as path:message and returns the exit code.
func report(w io.Writer, results []sources.Result) int {
	code := 0
	for _, result := range results {
		for _, d := range result.Report.Diagnostics {
			fmt.Fprintf(w, "%s:%s\n", result.Path, d.Error())
			code = 1
		}
	}
	return code
}

// format writes reformatted stdin to w, or rewrites changed files when
// write is set, or lists the files that would change.
func format(w io.Writer, results []sources.Result, stdin bool, write bool) (code int, err error) {
	for _, result := range results {
		if len(result.Report.Structural()) > 0 {
			for _, d := range result.Report.Structural() {
				fmt.Fprintf(os.Stderr, "%s:%s\n", result.Path, d.Error())
			}
			code = 1
		}

		src := string(result.Content)
		formatted := indents.Apply(src, result.Report)

		switch {
		case stdin:
			if _, err := io.WriteString(w, formatted); err != nil {
				return 2, wrap(err)
			}
		case formatted == src:
		case write:
			info, err := os.Stat(result.Path)
			if err != nil {
				return 2, wrap(err)
			}
			if err := os.WriteFile(result.Path, []byte(formatted), info.Mode().Perm()); err != nil {
				return 2, wrap(err)
			}
		default:
			fmt.Fprintln(w, result.Path)
		}
	}
	return code, nil
}
