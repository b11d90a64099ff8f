package lexers

import "strings"

var operators = [...][]string{
	{
		"===", "!==", "<<<", ">>>", "|||", "&&&", "^^^", "~~~",
		"<<~", "~>>", "<~>", "<|>", "...",
	},
	{
		"==", "!=", "<=", ">=", "&&", "||", "<>", "++", "--", "|>",
		"=~", "->", "<-", "..", "//", "**", "~>", "<~", `\\`, "=>",
	},
	{
		"+", "-", "*", "/", "=", "<", ">", "|", "&", "!", "^", ".", "@", `\`,
	},
}

// matchOperator returns the longest operator prefixing s.
func matchOperator(s string) string {
	for _, ops := range operators {
		for _, op := range ops {
			if strings.HasPrefix(s, op) {
				return op
			}
		}
	}
	return ""
}

func isOperatorPrefix(s string, prefix string) bool {
	return len(matchOperator(s)) > len(prefix)
}
