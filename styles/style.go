package styles

import (
	"errors"
	"fmt"
	"slices"
)

// Style holds every convention the engine consults when computing indentation.
// Widths are columns, deltas are indentation units.
type Style struct {
	UnitWidth int
	TabWidth  int

	BlockUnits        int
	DelimiterUnits    int
	ContinuationUnits int
	HeaderArgUnits    int
	HeaderCloseUnits  int

	FlattenContinuations bool

	BlockOpeners          []string
	BlockClosers          []string
	MidKeywords           []string
	HeaderKeywords        []string
	Keywords              []string
	ContinuationOperators []string
	LeadingOperators      []string
	AlignKeywords         []string
}

var ErrInvalidStyle = errors.New("invalid style")

func Default() Style {
	return Style{
		UnitWidth: 2,
		TabWidth:  8,

		BlockUnits:        1,
		DelimiterUnits:    1,
		ContinuationUnits: 1,
		HeaderArgUnits:    1,
		HeaderCloseUnits:  0,

		FlattenContinuations: true,

		BlockOpeners: []string{"do", "fn"},
		BlockClosers: []string{"end"},
		MidKeywords:  []string{"else", "rescue", "catch", "after"},
		HeaderKeywords: []string{
			"def", "defp",
			"defmacro", "defmacrop",
			"defmodule", "defprotocol", "defimpl",
			"defguard", "defguardp",
		},
		Keywords: []string{
			"case", "cond", "if", "unless", "with", "for", "receive", "try", "quote",
			"defstruct", "defexception", "defdelegate", "defoverridable",
			"alias", "import", "require", "use",
		},
		ContinuationOperators: []string{
			"=", "<>", "|>", "++", "--", "+", "-", "*", "/",
			"&&", "||", "and", "or", "in", "when", "::", "|",
			"==", "!=", "===", "!==", "<", ">", "<=", ">=", "=~",
			"=>", "<-", "\\\\", "..", "//", "**",
			"<<<", ">>>", "&&&", "|||", "^^^", "<~", "~>", "<<~", "~>>", "<~>", "<|>",
		},
		LeadingOperators: []string{
			"|>", "<>", "++", "--", "&&", "||", "and", "or", "when", "::", "|",
			"==", "!=", "===", "!==", "=~", "=>", "<-", "**", "//",
			"<<<", ">>>", "&&&", "|||", "^^^", "<~", "~>", "<<~", "~>>", "<~>", "<|>",
		},
		AlignKeywords: []string{"with", "for"},
	}
}

// MixFormat follows `mix format` for multi-line function headers: arguments
// sit three units deep and the closing `) do` two units deep.
func MixFormat() Style {
	style := Default()
	style.HeaderArgUnits = 3
	style.HeaderCloseUnits = 2
	return style
}

func Preset(name string) (Style, error) {
	switch name {
	case "", "default":
		return Default(), nil
	case "mix":
		return MixFormat(), nil
	}
	return Style{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidStyle, name)
}

func (s Style) Validate() error {
	if s.UnitWidth <= 0 {
		return fmt.Errorf("%w: unit width must be positive, got %d", ErrInvalidStyle, s.UnitWidth)
	}
	if s.TabWidth <= 0 {
		return fmt.Errorf("%w: tab width must be positive, got %d", ErrInvalidStyle, s.TabWidth)
	}
	for name, units := range map[string]int{
		"block":        s.BlockUnits,
		"delimiter":    s.DelimiterUnits,
		"continuation": s.ContinuationUnits,
		"header arg":   s.HeaderArgUnits,
		"header close": s.HeaderCloseUnits,
	} {
		if units < 0 {
			return fmt.Errorf("%w: %s units must not be negative, got %d", ErrInvalidStyle, name, units)
		}
	}
	if len(s.BlockOpeners) == 0 || len(s.BlockClosers) == 0 {
		return fmt.Errorf("%w: block openers and closers must not be empty", ErrInvalidStyle)
	}
	return nil
}

func (s Style) Width(units int) int {
	return units * s.UnitWidth
}

func (s Style) IsBlockOpener(word string) bool {
	return slices.Contains(s.BlockOpeners, word)
}

func (s Style) IsBlockCloser(word string) bool {
	return slices.Contains(s.BlockClosers, word)
}

func (s Style) IsMidKeyword(word string) bool {
	return slices.Contains(s.MidKeywords, word)
}

func (s Style) IsHeaderKeyword(word string) bool {
	return slices.Contains(s.HeaderKeywords, word)
}

func (s Style) IsKeyword(word string) bool {
	return slices.Contains(s.Keywords, word) ||
		slices.Contains(s.HeaderKeywords, word)
}

func (s Style) IsContinuationOperator(op string) bool {
	return slices.Contains(s.ContinuationOperators, op)
}

func (s Style) IsLeadingOperator(op string) bool {
	return slices.Contains(s.LeadingOperators, op)
}

func (s Style) IsAlignKeyword(word string) bool {
	return slices.Contains(s.AlignKeywords, word)
}
