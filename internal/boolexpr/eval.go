package boolexpr

import (
	"fmt"
	"strings"
)

// ErrInvalidExpression is returned for any evaluation failure: a missing
// variable binding or a malformed RPN stream (underflow / leftover values).
var ErrInvalidExpression = fmt.Errorf("invalid expression")

// normalizeName canonicalizes a variable name for fallback lookup:
// lowercase, strip whitespace and the combining overline.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == combiningOverline || r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// NormalizeName exposes normalizeName for packages (such as kmap) that need
// to match a literal's variable name against a canonical variable list the
// same way expression evaluation falls back on one.
func NormalizeName(name string) string {
	return normalizeName(name)
}

// lookup resolves a variable name against an assignment, falling back to
// normalized-name matching if the exact name isn't present.
func lookup(assignment map[string]bool, name string) (bool, bool) {
	if v, ok := assignment[name]; ok {
		return v, true
	}
	target := normalizeName(name)
	for k, v := range assignment {
		if normalizeName(k) == target {
			return v, true
		}
	}
	return false, false
}

// Eval walks an RPN token stream with a Boolean stack, evaluating against
// the supplied assignment. A missing variable or stack underflow/overflow
// yields ErrInvalidExpression.
func Eval(rpn []Token, assignment map[string]bool) (bool, error) {
	var stack []bool
	push := func(v bool) { stack = append(stack, v) }
	pop := func() (bool, error) {
		if len(stack) == 0 {
			return false, ErrInvalidExpression
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, t := range rpn {
		switch t.Kind {
		case Var:
			v, ok := lookup(assignment, t.Name)
			if !ok {
				return false, fmt.Errorf("%w: unknown variable %q", ErrInvalidExpression, t.Name)
			}
			if t.Negated {
				v = !v
			}
			push(v)
		case NotPrefix, NotPostfix:
			a, err := pop()
			if err != nil {
				return false, err
			}
			push(!a)
		case OpAnd:
			b, err := pop()
			if err != nil {
				return false, err
			}
			a, err := pop()
			if err != nil {
				return false, err
			}
			push(a && b)
		case OpOr:
			b, err := pop()
			if err != nil {
				return false, err
			}
			a, err := pop()
			if err != nil {
				return false, err
			}
			push(a || b)
		default:
			return false, ErrInvalidExpression
		}
	}
	if len(stack) != 1 {
		return false, ErrInvalidExpression
	}
	return stack[0], nil
}

// Evaluate runs the full pipeline (tokenize, normalize, implicit-AND,
// shunting-yard, eval) against one assignment.
func Evaluate(expr string, assignment map[string]bool) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return false, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	return Eval(ToRPN(Prepare(expr)), assignment)
}
