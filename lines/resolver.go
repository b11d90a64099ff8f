package lines

import (
	"strings"

	"github.com/reusee/exindent/constructs"
	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/lexers"
	"github.com/reusee/exindent/styles"
)

// Record is the resolved state of one physical line. Widths are columns.
type Record struct {
	Line         int
	LeadingWidth int
	Expected     int
	FirstKind    lexers.Kind
	Blank        bool
	// Opaque lines start inside a literal and are never checked.
	Opaque bool
}

// Checked reports whether the line takes part in verification.
func (r Record) Checked() bool {
	return !r.Blank && !r.Opaque
}

// Split returns the physical lines of src without terminators.
func Split(src string) []string {
	if src == "" {
		return nil
	}
	ret := strings.Split(src, "\n")
	if ret[len(ret)-1] == "" {
		ret = ret[:len(ret)-1]
	}
	return ret
}

// LeadingBytes is the byte length of the blank prefix of line.
func LeadingBytes(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// Width measures the blank prefix of line in columns, tabs advancing to the
// next multiple of tabWidth.
func Width(line string, tabWidth int) int {
	col := 0
	for i := range LeadingBytes(line) {
		if line[i] == '\t' {
			col = (col/tabWidth + 1) * tabWidth
		} else {
			col++
		}
	}
	return col
}

type comment struct {
	index int
	peek  int
}

// Resolve runs the lexer and tracker over src and returns one record per
// physical line. Diagnostics from both stages are added to list.
func Resolve(src string, style *styles.Style, list *diags.List) []Record {
	physical := Split(src)
	records := make([]Record, len(physical))
	for i, line := range physical {
		blank := strings.TrimSpace(line) == ""
		records[i] = Record{
			Line:         i + 1,
			LeadingWidth: Width(line, style.TabWidth),
			Blank:        blank,
			Opaque:       !blank,
		}
	}

	lexer := lexers.New(src, style, list)
	tracker := constructs.New(style, list)

	lastStarted := 0
	starts := func(tok *lexers.Token) bool {
		if tok.Kind == lexers.KindNewline || tok.Kind == lexers.KindEOF || tok.Literal {
			return false
		}
		if tok.Line <= lastStarted || tok.Line > len(physical) {
			return false
		}
		return tok.Column-1 == LeadingBytes(physical[tok.Line-1])
	}

	// comment-only lines settle once the next code line is known
	var comments []comment
	settle := func(first *lexers.Token, expected int) {
		for _, c := range comments {
			if first == nil || constructs.IsCloser(first) {
				records[c.index].Expected = c.peek
			} else {
				records[c.index].Expected = expected
			}
		}
		comments = comments[:0]
	}

	var buffer []*lexers.Token
	flush := func() {
		for _, tok := range buffer {
			if starts(tok) {
				lastStarted = tok.Line
				record := &records[tok.Line-1]
				record.Opaque = false
				record.FirstKind = tok.Kind
				if tok.Kind == lexers.KindComment {
					comments = append(comments, comment{
						index: tok.Line - 1,
						peek:  tracker.Peek(tok),
					})
				} else {
					record.Expected = tracker.BeginLine(tok, constructs.HasClause(buffer))
					settle(tok, record.Expected)
				}
			}
			tracker.Consume(tok)
		}
		buffer = buffer[:0]
	}

	for tok := range lexer.All() {
		buffer = append(buffer, tok)
		switch tok.Kind {
		case lexers.KindNewline:
			flush()
		case lexers.KindEOF:
			flush()
			tracker.Finish(min(tok.Line, max(len(physical), 1)))
			settle(nil, 0)
		}
	}

	return records
}
