package lexers

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/reusee/exindent/diags"
	"github.com/reusee/exindent/styles"
)

func lex(src string) ([]*Token, *diags.List) {
	style := styles.Default()
	list := new(diags.List)
	return slices.Collect(New(src, &style, list).All()), list
}

func describe(tokens []*Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == KindEOF {
			break
		}
		fmt.Fprintf(&b, "%s %q\n", tok.Kind, tok.Text)
	}
	return b.String()
}

func TestLexer(t *testing.T) {
	for i, c := range []struct {
		src      string
		expected string
	}{
		{
			`def foo(a), do: a`,
			`keyword "def"
identifier "foo"
delim_open "("
identifier "a"
delim_close ")"
comma ","
key "do:"
identifier "a"
`,
		},
		{
			`x = "a#{b}c" <> ~s(d)`,
			`identifier "x"
operator "="
string "\"a"
delim_open "#{"
identifier "b"
delim_close "}"
string "c\""
operator "<>"
string "~s(d)"
`,
		},
		{
			"@doc \"\"\"\n  text #{x}\n  \"\"\"\n",
			`operator "@"
identifier "doc"
heredoc_open "\"\"\""
newline "\n"
string "  text "
delim_open "#{"
identifier "x"
delim_close "}"
string "\n"
heredoc_close "\"\"\""
newline "\n"
`,
		},
		{
			`%{a: 1, "b": :c, d: ?x}`,
			`delim_open "%{"
key "a:"
other "1"
comma ","
key "\"b\":"
other ":c"
comma ","
key "d:"
other "?x"
delim_close "}"
`,
		},
		{
			`%Date{year: y} = <<1, 2>> <<< 1..10`,
			`delim_open "%Date{"
key "year:"
identifier "y"
delim_close "}"
operator "="
delim_open "<<"
other "1"
comma ","
other "2"
delim_close ">>"
operator "<<<"
other "1"
operator ".."
other "10"
`,
		},
		{
			"fn x when x > 0 -> x end # do\n",
			`keyword_open "fn"
identifier "x"
operator "when"
identifier "x"
operator ">"
other "0"
keyword_mid "->"
identifier "x"
keyword_close "end"
comment "# do"
newline "\n"
`,
		},
		{
			`Foo.end(?#) :: x \\ 1.5`,
			`identifier "Foo"
operator "."
identifier "end"
delim_open "("
other "?#"
delim_close ")"
operator "::"
identifier "x"
operator "\\\\"
other "1.5"
`,
		},
		{
			`~r/a(b/i ~W[x y]a :"do end" :+ else`,
			`string "~r/a(b/i"
string "~W[x y]a"
string ":\"do end\""
other ":+"
keyword_mid "else"
`,
		},
		{
			"~S\"\"\"\n#{x} end\n\"\"\"",
			`heredoc_open "~S\"\"\""
newline "\n"
string "#{x} end\n"
heredoc_close "\"\"\""
`,
		},
		{
			`"#{"#{1}"}"`,
			`string "\""
delim_open "#{"
string "\""
delim_open "#{"
other "1"
delim_close "}"
string "\""
delim_close "}"
string "\""
`,
		},
	} {
		tokens, list := lex(c.src)
		if got := describe(tokens); got != c.expected {
			t.Fatalf("%d: got\n%s", i, got)
		}
		if list.Len() > 0 {
			t.Fatalf("%d: got %v", i, list.Err())
		}
	}
}

func TestLiteralFlag(t *testing.T) {
	tokens, _ := lex("x = \"\"\"\n  a #{b}\n  \"\"\"\n")
	for _, tok := range tokens {
		switch tok.Kind {
		case KindHeredocOpen, KindHeredocClose:
			if tok.Literal {
				t.Fatalf("got %v", tok)
			}
		case KindString, KindIdentifier, KindDelimOpen, KindDelimClose:
			if tok.Text == "x" {
				continue
			}
			if !tok.Literal {
				t.Fatalf("got %v", tok)
			}
		}
	}
}

func TestPositions(t *testing.T) {
	tokens, _ := lex("case x do\n  \"a\nb\" -> 1\nend")
	var got []string
	for _, tok := range tokens {
		got = append(got, fmt.Sprintf("%d:%d-%d", tok.Line, tok.Column, tok.EndLine))
	}
	// case x do \n "a\nb" -> 1 \n end eof
	expected := []string{
		"1:1-1", "1:6-1", "1:8-1", "1:10-1",
		"2:3-3", "3:4-3", "3:7-3", "3:8-3",
		"4:1-4", "4:4-4",
	}
	if !slices.Equal(got, expected) {
		t.Fatalf("got %v", got)
	}
	if tokens[4].End() != tokens[4].Offset+len(`"a`+"\n"+`b"`) {
		t.Fatalf("got %v", tokens[4].End())
	}
}

func TestUnterminated(t *testing.T) {
	for _, c := range []struct {
		src     string
		message string
		opener  int
	}{
		{`x = "abc`, "unterminated string", 1},
		{"x\n@doc \"\"\"\nabc\n", `unterminated heredoc """`, 2},
		{"~r/abc", "unterminated sigil", 1},
		{`"#{x`, "unterminated string", 1},
		{`:'atom`, "unterminated quoted atom", 1},
	} {
		tokens, list := lex(c.src)
		if tokens[len(tokens)-1].Kind != KindEOF {
			t.Fatalf("%s: got %v", c.src, tokens[len(tokens)-1])
		}
		ds := list.Of(diags.KindUnterminatedLiteral)
		if len(ds) != 1 {
			t.Fatalf("%s: got %v", c.src, list.Err())
		}
		if ds[0].Message != c.message || ds[0].OpenerLine != c.opener {
			t.Fatalf("%s: got %+v", c.src, ds[0])
		}
		if !errors.Is(ds[0], diags.ErrUnterminatedLiteral) {
			t.Fatal()
		}
	}
}

func TestCurrentConsume(t *testing.T) {
	style := styles.Default()
	lexer := New("do end", &style, new(diags.List))
	if tok := lexer.Current(); tok.Kind != KindKeywordOpen {
		t.Fatalf("got %v", tok)
	}
	// Current does not advance
	if tok := lexer.Current(); tok.Text != "do" {
		t.Fatalf("got %v", tok)
	}
	lexer.Consume()
	if tok := lexer.Current(); tok.Kind != KindKeywordClose {
		t.Fatalf("got %v", tok)
	}
	lexer.Consume()
	if tok := lexer.Current(); tok.Kind != KindEOF {
		t.Fatalf("got %v", tok)
	}
}

func TestUnterminatedLine(t *testing.T) {
	for src, line := range map[string]int{
		"x = \"abc\n":       1,
		"x = \"abc":         1,
		"x = \"abc\n\n":     2,
		"@doc \"\"\"\na\nb": 3,
	} {
		_, list := lex(src)
		ds := list.Of(diags.KindUnterminatedLiteral)
		if len(ds) != 1 || ds[0].Line != line {
			t.Fatalf("%q: got %v", src, list.Err())
		}
	}
}
