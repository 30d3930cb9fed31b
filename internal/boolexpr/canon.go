package boolexpr

import "strings"

// Canonicalize renders a normalized (negation-folded, implicit-AND
// inserted) token stream back to a string: leading '~' for negated
// literals, '+' surrounded by spaces, juxtaposition (a single space) for
// AND, bare parens, and single spaces between adjacent operands. This is
// the form used to round-trip a user-entered expression against its
// stored tokens (spec.md §4.2, §8 property 4).
func Canonicalize(tokens []Token) string {
	var parts []string
	for _, t := range tokens {
		switch t.Kind {
		case Var:
			if t.Negated {
				parts = append(parts, "~"+t.Name)
			} else {
				parts = append(parts, t.Name)
			}
		case OpAnd:
			// juxtaposition: no operator token is emitted, just a join space
		case OpOr:
			parts = append(parts, "+")
		case NotPrefix, NotPostfix:
			parts = append(parts, "~")
		case LParen:
			parts = append(parts, "(")
		case RParen:
			parts = append(parts, ")")
		}
	}
	return strings.Join(parts, " ")
}
