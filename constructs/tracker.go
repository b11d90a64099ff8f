package constructs

import (
	"slices"

	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/lexers"
	"github.com/reusee/exindent/styles"
)

// Tracker maintains the stack of open constructs over a token stream.
//
// Frames capture as base the expected indentation of the line opening them,
// not its actual indentation, so a misindented line does not shift its
// children.
type Tracker struct {
	style *styles.Style
	diags *diags.List
	stack []*Frame

	line         int
	anchor       int
	lineExpected int
	lineFirst    *lexers.Token
	lineLast     *lexers.Token

	// the two significant tokens before the current one
	prev  *lexers.Token
	prev2 *lexers.Token
}

func New(style *styles.Style, list *diags.List) *Tracker {
	return &Tracker{
		style: style,
		diags: list,
	}
}

func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Frames returns a copy of the stack, bottom first.
func (t *Tracker) Frames() []Frame {
	ret := make([]Frame, 0, len(t.stack))
	for _, frame := range t.stack {
		ret = append(ret, *frame)
	}
	return ret
}

func (t *Tracker) top() *Frame {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tracker) push(frame *Frame) {
	t.stack = append(t.stack, frame)
}

// IsCloser reports whether the token dedents its own line.
func IsCloser(tok *lexers.Token) bool {
	switch tok.Kind {
	case lexers.KindKeywordClose, lexers.KindDelimClose, lexers.KindHeredocClose:
		return true
	case lexers.KindKeywordMid:
		return tok.Text != "->"
	}
	return false
}

// HasClause reports a `->` at the nesting level the line starts at.
// tokens are the tokens of one line.
func HasClause(tokens []*lexers.Token) bool {
	depth := 0
	for _, tok := range tokens {
		if tok.Literal {
			continue
		}
		switch tok.Kind {
		case lexers.KindDelimOpen, lexers.KindKeywordOpen:
			depth++
		case lexers.KindDelimClose, lexers.KindKeywordClose:
			depth--
		case lexers.KindKeywordMid:
			if tok.Text == "->" && depth == 0 {
				return true
			}
		}
	}
	return false
}

// Peek returns the indentation a line starting with first would get, without
// changing the stack.
func (t *Tracker) Peek(first *lexers.Token) int {
	stack, _ := t.plan(first, false)
	return t.expected(stack, first)
}

// BeginLine is called before the first token of a physical line is consumed.
// clause tells whether the line holds a `->` at its own nesting level.
func (t *Tracker) BeginLine(first *lexers.Token, clause bool) int {
	stack, leading := t.plan(first, clause)
	if leading {
		for _, frame := range stack {
			frame.Pending = false
		}
	}
	t.stack = stack
	expected := t.expected(t.stack, first)
	t.line = first.Line
	t.anchor = expected
	t.lineExpected = expected
	t.lineFirst = first
	return expected
}

// plan returns the stack as seen by a line starting with first.
func (t *Tracker) plan(first *lexers.Token, clause bool) ([]*Frame, bool) {
	stack := t.stack
	leading := first.Kind == lexers.KindOperator && t.style.IsLeadingOperator(first.Text)
	if !leading {
		for len(stack) > 0 && stack[len(stack)-1].Pending {
			stack = stack[:len(stack)-1]
		}
	}
	if clause && !IsCloser(first) {
		if n := len(stack); n > 0 && stack[n-1].Kind == FrameClause {
			stack = stack[:n-1]
		}
	}
	return slices.Clip(stack), leading
}

func (t *Tracker) expected(stack []*Frame, first *lexers.Token) int {
	find := func(fn func(*Frame) bool) *Frame {
		for i := len(stack) - 1; i >= 0; i-- {
			if fn(stack[i]) {
				return stack[i]
			}
		}
		return nil
	}

	switch {
	case first.Kind == lexers.KindKeywordClose, first.Kind == lexers.KindKeywordMid && first.Text != "->":
		if block := find(isBlock); block != nil {
			return block.BaseIndent
		}
		if delim := find(isStructure); delim != nil {
			return delim.CloseIndent(t.style)
		}
	case first.Kind == lexers.KindDelimClose:
		if delim := find(func(f *Frame) bool { return f.Matches(first.Text) }); delim != nil {
			return delim.CloseIndent(t.style)
		}
		if delim := find(isStructure); delim != nil && delim.Kind == FrameDelimiter {
			return delim.CloseIndent(t.style)
		}
	case first.Kind == lexers.KindHeredocClose:
		if heredoc := find(isHeredoc); heredoc != nil {
			return heredoc.BaseIndent
		}
	}

	if n := len(stack); n > 0 {
		return stack[n-1].ChildIndent(t.style)
	}
	return 0
}

func isBlock(f *Frame) bool {
	return f.Kind == FrameBlock
}

func isStructure(f *Frame) bool {
	return f.Kind == FrameBlock || f.Kind == FrameDelimiter
}

func isHeredoc(f *Frame) bool {
	return f.Kind == FrameHeredoc
}

// Consume applies one token to the stack.
func (t *Tracker) Consume(tok *lexers.Token) {
	if tok.Literal {
		return
	}

	switch tok.Kind {
	case lexers.KindComment:
		return
	case lexers.KindNewline, lexers.KindEOF:
		t.endLine()
		t.lineLast = nil
		return
	}

	switch tok.Kind {

	case lexers.KindKeywordOpen:
		t.openBlock(tok)

	case lexers.KindKeywordClose:
		t.closeBlock(tok)

	case lexers.KindKeywordMid:
		if tok.Text == "->" {
			t.openClause(tok)
		} else {
			t.midKeyword(tok)
		}

	case lexers.KindDelimOpen:
		frame := &Frame{
			Kind:        FrameDelimiter,
			Opener:      tok.Text,
			Line:        tok.Line,
			Column:      tok.Column,
			BaseIndent:  t.anchor,
			IndentDelta: t.style.DelimiterUnits,
		}
		if t.isHeaderParen(tok) {
			frame.IndentDelta = t.style.HeaderArgUnits
			frame.CloseDelta = t.style.HeaderCloseUnits
		}
		t.push(frame)

	case lexers.KindDelimClose:
		t.closeDelimiter(tok)

	case lexers.KindHeredocOpen:
		t.push(&Frame{
			Kind:       FrameHeredoc,
			Opener:     tok.Text,
			Line:       tok.Line,
			Column:     tok.Column,
			BaseIndent: t.anchor,
		})

	case lexers.KindHeredocClose:
		if top := t.top(); top != nil && top.Kind == FrameHeredoc {
			t.stack = t.stack[:len(t.stack)-1]
		}

	}

	t.prev2 = t.prev
	t.prev = tok
	t.lineLast = tok
}

// isHeaderParen reports `(` directly after the name in `def name(`.
func (t *Tracker) isHeaderParen(tok *lexers.Token) bool {
	if tok.Text != "(" || t.prev == nil || t.prev2 == nil {
		return false
	}
	return t.prev.Kind == lexers.KindIdentifier &&
		t.prev.End() == tok.Offset &&
		t.prev2.Kind == lexers.KindKeyword &&
		t.style.IsHeaderKeyword(t.prev2.Text)
}

func (t *Tracker) openBlock(tok *lexers.Token) {
	base := t.anchor
	if tok.Text == "do" {
		// `with a <- b,\n     c do` and similar lists end at their `do`
		for {
			top := t.top()
			if top == nil || top.Kind != FrameContinuation || !(top.Soft || top.Align > 0) {
				break
			}
			base = top.BaseIndent
			t.stack = t.stack[:len(t.stack)-1]
		}
	}
	frame := &Frame{
		Kind:        FrameBlock,
		Opener:      tok.Text,
		Line:        tok.Line,
		Column:      tok.Column,
		BaseIndent:  base,
		IndentDelta: t.style.BlockUnits,
	}
	if first := t.lineFirst; first != nil && first.Line == t.line && first != tok &&
		(first.Kind == lexers.KindKeyword || first.Kind == lexers.KindKeywordOpen) {
		frame.Owner = first.Text
	}
	t.push(frame)
}

func (t *Tracker) closeBlock(tok *lexers.Token) {
	i := t.findFrom(isBlock)
	if i < 0 {
		t.recoverCloser(tok)
		return
	}
	t.discardAbove(i, tok)
	block := t.stack[i]
	t.stack = t.stack[:i]
	t.anchor = block.BaseIndent
}

func (t *Tracker) midKeyword(tok *lexers.Token) {
	i := t.findFrom(isBlock)
	if i < 0 {
		t.recoverCloser(tok)
		return
	}
	t.discardAbove(i, tok)
	t.stack = t.stack[:i+1]
	t.anchor = t.stack[i].BaseIndent
}

func (t *Tracker) openClause(tok *lexers.Token) {
	top := t.top()
	if top == nil {
		return
	}
	switch {
	case top.Kind == FrameBlock:
	case top.Kind == FrameClause && top.Line < tok.Line:
		t.stack = t.stack[:len(t.stack)-1]
	default:
		// typespecs and other arrows inside delimiters
		return
	}
	t.push(&Frame{
		Kind:        FrameClause,
		Opener:      tok.Text,
		Line:        tok.Line,
		Column:      tok.Column,
		BaseIndent:  t.anchor,
		IndentDelta: t.style.BlockUnits,
	})
}

func (t *Tracker) closeDelimiter(tok *lexers.Token) {
	i := t.findFrom(func(f *Frame) bool {
		return f.Matches(tok.Text)
	})
	if i < 0 {
		t.recoverCloser(tok)
		return
	}
	t.discardAbove(i, tok)
	frame := t.stack[i]
	t.stack = t.stack[:i]
	t.anchor = frame.BaseIndent
}

// recoverCloser handles a closer that matches no open frame. It closes the
// innermost delimiter as if its own closer had been present. Inside a block,
// or with nothing open, the closer is dropped.
func (t *Tracker) recoverCloser(tok *lexers.Token) {
	i := t.findFrom(isStructure)
	if i < 0 {
		t.diags.Addf(diags.KindStructuralMismatch, tok.Line, 0, "unexpected %q", tok.Text)
		return
	}
	frame := t.stack[i]
	if frame.Kind == FrameBlock {
		t.diags.Addf(diags.KindStructuralMismatch, tok.Line, frame.Line,
			"unexpected %q in %s block", tok.Text, frame.describe())
		return
	}
	t.diags.Addf(diags.KindStructuralMismatch, tok.Line, frame.Line,
		"%q closes unclosed %q", tok.Text, frame.Opener)
	t.stack = t.stack[:i]
	t.anchor = frame.BaseIndent
}

func (t *Tracker) findFrom(fn func(*Frame) bool) int {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if fn(t.stack[i]) {
			return i
		}
	}
	return -1
}

// discardAbove reports every block or delimiter above index i as unclosed
// at tok, treating it as if its closer had been present.
func (t *Tracker) discardAbove(i int, tok *lexers.Token) {
	for j := len(t.stack) - 1; j > i; j-- {
		frame := t.stack[j]
		switch frame.Kind {
		case FrameBlock:
			t.diags.Addf(diags.KindStructuralMismatch, tok.Line, frame.Line,
				"%q closes unterminated %s block", tok.Text, frame.describe())
		case FrameDelimiter:
			t.diags.Addf(diags.KindStructuralMismatch, tok.Line, frame.Line,
				"%q closes unclosed %q", tok.Text, frame.Opener)
		}
	}
}

func (t *Tracker) continues(tok *lexers.Token) bool {
	switch tok.Kind {
	case lexers.KindOperator:
		return t.style.IsContinuationOperator(tok.Text)
	case lexers.KindComma, lexers.KindKey:
		return true
	case lexers.KindKeyword:
		return t.style.IsHeaderKeyword(tok.Text)
	}
	return false
}

func (t *Tracker) endLine() {
	tok := t.lineLast
	if tok == nil {
		return
	}

	if !t.continues(tok) {
		for i := len(t.stack) - 1; i >= 0; i-- {
			frame := t.stack[i]
			if frame.Kind != FrameContinuation {
				break
			}
			frame.Pending = true
		}
		return
	}

	top := t.top()
	if top != nil && top.Kind == FrameDelimiter && tok.Kind == lexers.KindComma {
		return
	}
	if top != nil && top.Kind == FrameContinuation && top.Line < tok.Line &&
		top.Opener == tok.Text &&
		(t.style.FlattenContinuations || tok.Kind == lexers.KindComma) {
		return
	}

	frame := &Frame{
		Kind:        FrameContinuation,
		Opener:      tok.Text,
		Line:        tok.Line,
		Column:      tok.Column,
		BaseIndent:  t.anchor,
		IndentDelta: t.style.ContinuationUnits,
		Soft:        tok.Kind != lexers.KindOperator,
		Header:      tok.Kind == lexers.KindKeyword,
	}
	if first := t.lineFirst; tok.Kind == lexers.KindComma && first != nil &&
		first.Line == t.line && t.style.IsAlignKeyword(first.Text) {
		frame.Align = t.lineExpected + len(first.Text) + 1
	}
	t.push(frame)
}

// Finish reports constructs still open at end of input and empties the stack.
func (t *Tracker) Finish(line int) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		frame := t.stack[i]
		switch frame.Kind {
		case FrameBlock:
			t.diags.Addf(diags.KindStructuralMismatch, line, frame.Line,
				"unterminated %s block", frame.describe())
		case FrameDelimiter:
			t.diags.Addf(diags.KindStructuralMismatch, line, frame.Line,
				"unclosed %q", frame.Opener)
		case FrameContinuation:
			if frame.Pending {
				continue
			}
			if frame.Header {
				t.diags.Addf(diags.KindStructuralMismatch, line, frame.Line,
					"unterminated %s", frame.Opener)
			} else {
				t.diags.Addf(diags.KindStructuralMismatch, line, frame.Line,
					"unterminated expression after %q", frame.Opener)
			}
		}
	}
	t.stack = t.stack[:0]
}
