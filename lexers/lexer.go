package lexers

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/styles"
)

// Lexer is a forward-only tokenizer over one source text.
// Current returns the token under the cursor, Consume advances past it.
type Lexer struct {
	src   string
	style *styles.Style
	diags *diags.List

	offset int
	line   int
	column int

	modes   []*mode
	current *Token
	prev    *Token
}

type modeKind uint8

const (
	modeLiteral modeKind = iota + 1
	modeInterpolation
)

type mode struct {
	kind modeKind

	// literal
	what    string
	closer  string
	heredoc bool
	head    bool
	interp  bool
	sigil   bool
	started bool
	nested  bool

	start       int
	startLine   int
	startColumn int
	openLine    int

	// interpolation
	braces int
}

func New(src string, style *styles.Style, list *diags.List) *Lexer {
	return &Lexer{
		src:    src,
		style:  style,
		diags:  list,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Current() *Token {
	if l.current == nil {
		l.current = l.next()
	}
	return l.current
}

func (l *Lexer) Consume() {
	l.current = nil
}

// All yields every remaining token, ending with the EOF token.
func (l *Lexer) All() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for {
			tok := l.Current()
			l.Consume()
			if !yield(tok) || tok.Kind == KindEOF {
				return
			}
		}
	}
}

func (l *Lexer) advance(n int) {
	for range n {
		if l.offset >= len(l.src) {
			return
		}
		if l.src[l.offset] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.offset++
	}
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.advance(size)
}

func (l *Lexer) peek(i int) byte {
	if l.offset+i < len(l.src) {
		return l.src[l.offset+i]
	}
	return 0
}

func (l *Lexer) rest() string {
	return l.src[l.offset:]
}

func (l *Lexer) emit(kind Kind, start, line, column int, literal bool) *Token {
	text := l.src[start:l.offset]
	tok := &Token{
		Kind:    kind,
		Text:    text,
		Offset:  start,
		Line:    line,
		Column:  column,
		EndLine: endLine(line, text),
		Literal: literal,
	}
	if kind != KindNewline && kind != KindComment {
		l.prev = tok
	}
	return tok
}

func (l *Lexer) inLiteral() bool {
	return len(l.modes) > 0
}

func (l *Lexer) interpolation() *mode {
	if n := len(l.modes); n > 0 && l.modes[n-1].kind == modeInterpolation {
		return l.modes[n-1]
	}
	return nil
}

func (l *Lexer) push(m *mode) {
	m.nested = l.inLiteral()
	l.modes = append(l.modes, m)
}

func (l *Lexer) pop() {
	l.modes = l.modes[:len(l.modes)-1]
}

func (l *Lexer) next() *Token {
	if n := len(l.modes); n > 0 && l.modes[n-1].kind == modeLiteral {
		return l.scanLiteral(l.modes[n-1])
	}
	return l.scanCode()
}

func (l *Lexer) skipBlank() {
	for l.offset < len(l.src) {
		switch l.src[l.offset] {
		case ' ', '\t', '\r', '\f', '\v':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *Lexer) scanCode() *Token {
	l.skipBlank()
	start, line, column := l.offset, l.line, l.column
	literal := l.inLiteral()

	if l.offset >= len(l.src) {
		l.unwind()
		return &Token{
			Kind:    KindEOF,
			Offset:  start,
			Line:    line,
			Column:  column,
			EndLine: line,
		}
	}

	c := l.src[l.offset]
	switch {

	case c == '\n':
		l.advance(1)
		tok := l.emit(KindNewline, start, line, column, literal)
		tok.EndLine = line
		return tok

	case c == '#':
		for l.offset < len(l.src) && l.src[l.offset] != '\n' {
			l.advance(1)
		}
		return l.emit(KindComment, start, line, column, literal)

	case c == '"' || c == '\'':
		quote := strings.Repeat(string(c), 3)
		if strings.HasPrefix(l.rest(), quote) {
			l.advance(3)
			return l.openHeredoc(quote, true, false, start, line, column)
		}
		l.advance(1)
		what := "string"
		if c == '\'' {
			what = "charlist"
		}
		return l.openLiteral(&mode{
			what:   what,
			closer: string(c),
			interp: true,
		}, start, line, column)

	case c == '~':
		if tok := l.scanSigil(start, line, column); tok != nil {
			return tok
		}

	case c == '?':
		l.advance(1)
		if l.peek(0) == '\\' {
			l.advance(1)
		}
		if l.offset < len(l.src) {
			l.advanceRune()
		}
		return l.emit(KindOther, start, line, column, literal)

	case c == ':':
		return l.scanColon(start, line, column)

	case c >= '0' && c <= '9':
		return l.scanNumber(start, line, column)

	case c == '%':
		if tok := l.scanStruct(start, line, column); tok != nil {
			return tok
		}

	case c == ',':
		l.advance(1)
		return l.emit(KindComma, start, line, column, literal)

	case c == '(' || c == '[' || c == '{':
		if m := l.interpolation(); m != nil && c == '{' {
			m.braces++
		}
		l.advance(1)
		return l.emit(KindDelimOpen, start, line, column, literal)

	case c == ')' || c == ']' || c == '}':
		if m := l.interpolation(); m != nil && c == '}' {
			if m.braces == 0 {
				l.advance(1)
				l.pop()
				return l.emit(KindDelimClose, start, line, column, true)
			}
			m.braces--
		}
		l.advance(1)
		return l.emit(KindDelimClose, start, line, column, literal)

	}

	if r, _ := utf8.DecodeRuneInString(l.rest()); r == '_' || unicode.IsLetter(r) {
		return l.scanWord(start, line, column)
	}

	if strings.HasPrefix(l.rest(), "<<") && !isOperatorPrefix(l.rest(), "<<") {
		l.advance(2)
		return l.emit(KindDelimOpen, start, line, column, literal)
	}
	if strings.HasPrefix(l.rest(), ">>") && !isOperatorPrefix(l.rest(), ">>") {
		l.advance(2)
		return l.emit(KindDelimClose, start, line, column, literal)
	}

	if op := matchOperator(l.rest()); op != "" {
		l.advance(len(op))
		kind := KindOperator
		if op == "->" {
			kind = KindKeywordMid
		}
		return l.emit(kind, start, line, column, literal)
	}

	l.advanceRune()
	return l.emit(KindOther, start, line, column, literal)
}

// lastLine is the current line clamped to the last physical line, for
// reports at end of input after a final newline.
func (l *Lexer) lastLine() int {
	if l.line > 1 && l.offset >= len(l.src) && strings.HasSuffix(l.src, "\n") {
		return l.line - 1
	}
	return l.line
}

// unwind reports literals still open at end of input.
func (l *Lexer) unwind() {
	for i := len(l.modes) - 1; i >= 0; i-- {
		m := l.modes[i]
		if m.kind != modeLiteral {
			continue
		}
		l.diags.Addf(diags.KindUnterminatedLiteral, l.lastLine(), m.openLine, "unterminated %s", m.what)
	}
	l.modes = l.modes[:0]
}

func (l *Lexer) scanWord(start, line, column int) *Token {
	literal := l.inLiteral()
	for l.offset < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.rest())
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			l.advance(size)
			continue
		}
		break
	}
	if c := l.peek(0); c == '?' || c == '!' {
		l.advance(1)
	}
	word := l.src[start:l.offset]

	if l.peek(0) == ':' && isKeySeparator(l.peek(1)) {
		l.advance(1)
		return l.emit(KindKey, start, line, column, literal)
	}

	if l.prev != nil && l.prev.Kind == KindOperator && l.prev.Text == "." {
		// field access or remote call
		return l.emit(KindIdentifier, start, line, column, literal)
	}

	kind := KindIdentifier
	switch {
	case l.style.IsBlockOpener(word):
		kind = KindKeywordOpen
	case l.style.IsBlockCloser(word):
		kind = KindKeywordClose
	case l.style.IsMidKeyword(word):
		kind = KindKeywordMid
	case wordOperators[word]:
		kind = KindOperator
	case l.style.IsKeyword(word):
		kind = KindKeyword
	}
	return l.emit(kind, start, line, column, literal)
}

var wordOperators = map[string]bool{
	"and":  true,
	"or":   true,
	"not":  true,
	"in":   true,
	"when": true,
}

func isKeySeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', 0:
		return true
	}
	return false
}

func (l *Lexer) scanNumber(start, line, column int) *Token {
	for l.offset < len(l.src) {
		c := l.src[l.offset]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			l.advance(1)
		case c == '.' && l.peek(1) >= '0' && l.peek(1) <= '9':
			l.advance(1)
		case (c == '-' || c == '+') && (l.src[l.offset-1] == 'e' || l.src[l.offset-1] == 'E'):
			l.advance(1)
		default:
			return l.emit(KindOther, start, line, column, l.inLiteral())
		}
	}
	return l.emit(KindOther, start, line, column, l.inLiteral())
}

func (l *Lexer) scanColon(start, line, column int) *Token {
	literal := l.inLiteral()
	next := l.peek(1)
	switch {

	case next == ':':
		l.advance(2)
		return l.emit(KindOperator, start, line, column, literal)

	case next == '"' || next == '\'':
		l.advance(2)
		return l.openLiteral(&mode{
			what:   "quoted atom",
			closer: string(next),
			interp: true,
		}, start, line, column)

	}

	l.advance(1)
	if r, _ := utf8.DecodeRuneInString(l.rest()); r == '_' || unicode.IsLetter(r) {
		for l.offset < len(l.src) {
			r, size := utf8.DecodeRuneInString(l.rest())
			if r == '_' || r == '@' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				l.advance(size)
				continue
			}
			break
		}
		if c := l.peek(0); c == '?' || c == '!' {
			l.advance(1)
		}
	} else if strings.HasPrefix(l.rest(), "<<>>") {
		l.advance(4)
	} else if strings.HasPrefix(l.rest(), "%{}") {
		l.advance(3)
	} else if op := matchOperator(l.rest()); op != "" {
		l.advance(len(op))
	}
	return l.emit(KindOther, start, line, column, literal)
}

// scanStruct lexes `%{` and `%Name{` as one opening delimiter.
func (l *Lexer) scanStruct(start, line, column int) *Token {
	i := 1
	for l.offset+i < len(l.src) {
		c := l.src[l.offset+i]
		if c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			i++
			continue
		}
		break
	}
	if l.peek(i) != '{' {
		return nil
	}
	if m := l.interpolation(); m != nil {
		m.braces++
	}
	l.advance(i + 1)
	return l.emit(KindDelimOpen, start, line, column, l.inLiteral())
}

var sigilClosers = map[byte]string{
	'(':  ")",
	'[':  "]",
	'{':  "}",
	'<':  ">",
	'/':  "/",
	'|':  "|",
	'"':  `"`,
	'\'': "'",
}

func (l *Lexer) scanSigil(start, line, column int) *Token {
	i := 1
	lower := l.peek(1) >= 'a' && l.peek(1) <= 'z'
	if lower {
		i++
	} else {
		for c := l.peek(i); c >= 'A' && c <= 'Z' || i > 1 && c >= '0' && c <= '9'; c = l.peek(i) {
			i++
		}
	}
	if i == 1 {
		return nil
	}

	rest := l.src[l.offset+i:]
	for _, quote := range []string{`"""`, `'''`} {
		if strings.HasPrefix(rest, quote) {
			l.advance(i + 3)
			return l.openHeredoc(quote, lower, true, start, line, column)
		}
	}

	closer, ok := sigilClosers[l.peek(i)]
	if !ok {
		return nil
	}
	l.advance(i + 1)
	return l.openLiteral(&mode{
		what:   "sigil",
		closer: closer,
		interp: lower,
		sigil:  true,
	}, start, line, column)
}

func (l *Lexer) openLiteral(m *mode, start, line, column int) *Token {
	m.kind = modeLiteral
	m.start = start
	m.startLine = line
	m.startColumn = column
	m.openLine = line
	l.push(m)
	return l.scanLiteral(m)
}

func (l *Lexer) openHeredoc(quote string, interp bool, sigil bool, start, line, column int) *Token {
	literal := l.inLiteral()
	tok := l.emit(KindHeredocOpen, start, line, column, literal)
	l.push(&mode{
		kind:     modeLiteral,
		what:     "heredoc " + quote,
		closer:   quote,
		heredoc:  true,
		head:     true,
		interp:   interp,
		sigil:    sigil,
		started:  true,
		openLine: line,
	})
	return tok
}

func (l *Lexer) skipModifiers() {
	for c := l.peek(0); c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'; c = l.peek(0) {
		l.advance(1)
	}
}

func (l *Lexer) atLineStart() bool {
	return l.offset == 0 || l.src[l.offset-1] == '\n'
}

// heredocCloser reports the width of the blanks before the closing quotes
// when the current line closes the heredoc.
func (l *Lexer) heredocCloser(closer string) (int, bool) {
	i := 0
	for c := l.peek(i); c == ' ' || c == '\t'; c = l.peek(i) {
		i++
	}
	return i, strings.HasPrefix(l.src[l.offset+i:], closer)
}

func (l *Lexer) scanLiteral(m *mode) *Token {

	if m.head {
		l.skipBlank()
		if l.offset < len(l.src) && l.src[l.offset] == '\n' {
			start, line, column := l.offset, l.line, l.column
			l.advance(1)
			m.head = false
			tok := l.emit(KindNewline, start, line, column, m.nested)
			tok.EndLine = line
			return tok
		}
		// text after the opening quotes; lex it as body
		m.head = false
	}

	start, line, column := l.offset, l.line, l.column
	if !m.started {
		start, line, column = m.start, m.startLine, m.startColumn
	}
	literal := m.started || m.nested

	segment := func(kind Kind) *Token {
		m.started = true
		return l.emit(kind, start, line, column, literal)
	}

	for {

		if l.offset >= len(l.src) {
			l.diags.Addf(diags.KindUnterminatedLiteral, l.lastLine(), m.openLine, "unterminated %s", m.what)
			l.pop()
			if l.offset > start {
				return segment(KindString)
			}
			return l.next()
		}

		if m.heredoc && l.atLineStart() {
			if blanks, ok := l.heredocCloser(m.closer); ok {
				if l.offset > start {
					return segment(KindString)
				}
				l.advance(blanks)
				closeStart, closeLine, closeColumn := l.offset, l.line, l.column
				l.advance(len(m.closer))
				if m.sigil {
					l.skipModifiers()
				}
				l.pop()
				return l.emit(KindHeredocClose, closeStart, closeLine, closeColumn, l.inLiteral())
			}
		}

		c := l.src[l.offset]
		switch {

		case c == '\\':
			l.advance(1)
			if l.offset < len(l.src) {
				l.advanceRune()
			}
			continue

		case m.interp && c == '#' && l.peek(1) == '{':
			if l.offset > start {
				return segment(KindString)
			}
			l.advance(2)
			m.started = true
			l.push(&mode{
				kind:     modeInterpolation,
				openLine: line,
			})
			return l.emit(KindDelimOpen, start, line, column, true)

		case !m.heredoc && strings.HasPrefix(l.rest(), m.closer):
			l.advance(len(m.closer))
			kind := KindString
			if m.sigil {
				l.skipModifiers()
			} else if l.peek(0) == ':' && isKeySeparator(l.peek(1)) && m.what != "quoted atom" {
				l.advance(1)
				kind = KindKey
			}
			l.pop()
			return segment(kind)

		}

		l.advanceRune()
	}
}
