package lexers

import (
	"fmt"
	"strings"
)

type Token struct {
	Kind   Kind
	Text   string
	Offset int
	Line   int
	Column int

	// EndLine is the line holding the last byte of Text.
	EndLine int

	// Literal marks tokens that start inside a string literal opened by an
	// earlier token: body segments, interpolation code and delimiters.
	Literal bool
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Kind, t.Text, t.Line, t.Column)
}

// End is the byte offset just past the token.
func (t *Token) End() int {
	return t.Offset + len(t.Text)
}

type Kind uint8

const (
	KindInvalid Kind = iota
	KindEOF
	KindNewline
	KindComment
	KindKeywordOpen
	KindKeywordClose
	KindKeywordMid
	KindKeyword
	KindIdentifier
	KindKey
	KindDelimOpen
	KindDelimClose
	KindHeredocOpen
	KindHeredocClose
	KindString
	KindOperator
	KindComma
	KindOther
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindEOF:          "eof",
	KindNewline:      "newline",
	KindComment:      "comment",
	KindKeywordOpen:  "keyword_open",
	KindKeywordClose: "keyword_close",
	KindKeywordMid:   "keyword_mid",
	KindKeyword:      "keyword",
	KindIdentifier:   "identifier",
	KindKey:          "key",
	KindDelimOpen:    "delim_open",
	KindDelimClose:   "delim_close",
	KindHeredocOpen:  "heredoc_open",
	KindHeredocClose: "heredoc_close",
	KindString:       "string",
	KindOperator:     "operator",
	KindComma:        "comma",
	KindOther:        "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func endLine(line int, text string) int {
	return line + strings.Count(strings.TrimSuffix(text, "\n"), "\n")
}
