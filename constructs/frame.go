package constructs

import (
	"fmt"

	"github.com/reusee/exindent/styles"
)

type FrameKind uint8

const (
	FrameInvalid FrameKind = iota
	FrameBlock
	FrameDelimiter
	FrameHeredoc
	FrameClause
	FrameContinuation
)

var frameKindNames = [...]string{
	FrameInvalid:      "invalid",
	FrameBlock:        "block",
	FrameDelimiter:    "delimiter",
	FrameHeredoc:      "heredoc",
	FrameClause:       "clause",
	FrameContinuation: "continuation",
}

func (k FrameKind) String() string {
	if int(k) < len(frameKindNames) {
		return frameKindNames[k]
	}
	return fmt.Sprintf("frame(%d)", k)
}

// Frame is one open construct. BaseIndent and Align are columns,
// IndentDelta and CloseDelta are units.
type Frame struct {
	Kind   FrameKind
	Opener string
	// Owner is the keyword that introduced the line a block opened on.
	Owner  string
	Line   int
	Column int

	BaseIndent  int
	IndentDelta int
	CloseDelta  int
	Align       int

	// Soft continuations are ended by a following `do`.
	Soft bool
	// Header continuations follow a bare definition keyword.
	Header bool
	// Pending continuations end at the next line unless it starts with a leading operator.
	Pending bool
}

func (f *Frame) ChildIndent(style *styles.Style) int {
	if f.Align > 0 {
		return f.Align
	}
	return f.BaseIndent + style.Width(f.IndentDelta)
}

func (f *Frame) CloseIndent(style *styles.Style) int {
	return f.BaseIndent + style.Width(f.CloseDelta)
}

func (f *Frame) String() string {
	return fmt.Sprintf("%s %q at %d:%d base %d", f.Kind, f.Opener, f.Line, f.Column, f.BaseIndent)
}

// describe names the frame in diagnostics.
func (f *Frame) describe() string {
	if f.Owner != "" {
		return f.Owner
	}
	return f.Opener
}

var closerOpeners = map[string]string{
	")":  "(",
	"]":  "[",
	">>": "<<",
}

// Matches reports whether closer closes this delimiter frame.
func (f *Frame) Matches(closer string) bool {
	if f.Kind != FrameDelimiter {
		return false
	}
	if closer == "}" {
		return len(f.Opener) > 0 && f.Opener[len(f.Opener)-1] == '{'
	}
	return closerOpeners[closer] == f.Opener
}
