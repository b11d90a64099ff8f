package indents

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/lines"
	"github.com/reusee/exindent/styles"
)

var ErrInvalidEncoding = errors.New("invalid encoding")

type Mismatch struct {
	Line     int
	Expected int
	Actual   int
}

type Report struct {
	Lines       []lines.Record
	Mismatches  []Mismatch
	Diagnostics []diags.Diagnostic
}

// Passed reports whether every checked line has its expected indentation.
func (r Report) Passed() bool {
	return len(r.Mismatches) == 0
}

// Clean reports whether the pass produced no diagnostics at all.
func (r Report) Clean() bool {
	return len(r.Diagnostics) == 0
}

// Structural returns the diagnostics other than indentation mismatches.
func (r Report) Structural() []diags.Diagnostic {
	var ret []diags.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind != diags.KindIndentationMismatch {
			ret = append(ret, d)
		}
	}
	return ret
}

func Analyze(src string, style styles.Style) (report Report, err error) {
	if err := style.Validate(); err != nil {
		return report, err
	}
	if !utf8.ValidString(src) {
		return report, ErrInvalidEncoding
	}

	var list diags.List
	report.Lines = lines.Resolve(src, &style, &list)
	for _, record := range report.Lines {
		if !record.Checked() || record.LeadingWidth == record.Expected {
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			Line:     record.Line,
			Expected: record.Expected,
			Actual:   record.LeadingWidth,
		})
		list.Add(diags.Diagnostic{
			Kind:     diags.KindIndentationMismatch,
			Line:     record.Line,
			Expected: record.Expected,
			Actual:   record.LeadingWidth,
		})
	}
	report.Diagnostics = list.Sorted()

	return
}

func Verify(src string, style styles.Style) ([]Mismatch, error) {
	report, err := Analyze(src, style)
	if err != nil {
		return nil, err
	}
	return report.Mismatches, nil
}

func Reformat(src string, style styles.Style) (string, error) {
	report, err := Analyze(src, style)
	if err != nil {
		return "", err
	}
	return Apply(src, report), nil
}

// Apply rewrites the leading whitespace of every mismatched line in src.
// report must come from analyzing src.
func Apply(src string, report Report) string {
	if report.Passed() {
		return src
	}
	physical := strings.SplitAfter(src, "\n")
	for _, mismatch := range report.Mismatches {
		line := physical[mismatch.Line-1]
		physical[mismatch.Line-1] = strings.Repeat(" ", mismatch.Expected) +
			line[lines.LeadingBytes(line):]
	}
	return strings.Join(physical, "")
}
