package diags

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnterminatedLiteral
	KindStructuralMismatch
	KindIndentationMismatch
)

var (
	ErrUnterminatedLiteral = errors.New("unterminated literal")
	ErrStructuralMismatch  = errors.New("structural mismatch")
	ErrIndentationMismatch = errors.New("indentation mismatch")
)

func (k Kind) String() string {
	switch k {
	case KindUnterminatedLiteral:
		return "UnterminatedLiteral"
	case KindStructuralMismatch:
		return "StructuralMismatch"
	case KindIndentationMismatch:
		return "IndentationMismatch"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnterminatedLiteral:
		return ErrUnterminatedLiteral
	case KindStructuralMismatch:
		return ErrStructuralMismatch
	case KindIndentationMismatch:
		return ErrIndentationMismatch
	}
	return nil
}

// Diagnostic is one finding. OpenerLine is the line of the earliest
// unmatched opener involved, or zero.
type Diagnostic struct {
	Kind       Kind
	Line       int
	OpenerLine int
	Expected   int
	Actual     int
	Message    string
}

func (d Diagnostic) Error() string {
	switch {
	case d.Kind == KindIndentationMismatch:
		return fmt.Sprintf("line %d: %s: expected %d, got %d", d.Line, d.Kind, d.Expected, d.Actual)
	case d.OpenerLine > 0 && d.OpenerLine != d.Line:
		return fmt.Sprintf("line %d: %s: %s (opened at line %d)", d.Line, d.Kind, d.Message, d.OpenerLine)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

func (d Diagnostic) Unwrap() error {
	return d.Kind.sentinel()
}

// List accumulates diagnostics across the stages of one analysis pass.
type List struct {
	items []Diagnostic
}

func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

func (l *List) Addf(kind Kind, line int, openerLine int, format string, args ...any) {
	l.Add(Diagnostic{
		Kind:       kind,
		Line:       line,
		OpenerLine: openerLine,
		Message:    fmt.Sprintf(format, args...),
	})
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) All() iter.Seq[Diagnostic] {
	return slices.Values(l.items)
}

func (l *List) Of(kind Kind) []Diagnostic {
	var ret []Diagnostic
	for _, d := range l.items {
		if d.Kind == kind {
			ret = append(ret, d)
		}
	}
	return ret
}

// Sorted returns a copy ordered by line, stable for equal lines.
func (l *List) Sorted() []Diagnostic {
	ret := slices.Clone(l.items)
	slices.SortStableFunc(ret, func(a, b Diagnostic) int {
		return a.Line - b.Line
	})
	return ret
}

func (l *List) Err() error {
	if len(l.items) == 0 {
		return nil
	}
	errs := make([]error, 0, len(l.items))
	for _, d := range l.Sorted() {
		errs = append(errs, d)
	}
	return errors.Join(errs...)
}
