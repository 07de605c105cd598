package mathengine

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokString
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokGroup // already rewritten, behaves as a single operand
)

type token struct {
	kind tokenKind
	text string
	call bool // identifier directly followed by "("
}

var operators = []string{"==", "!=", "<=", ">=", "&&", "||", "+", "-", "*", "/", "%", "^", "<", ">", "!", "?", ":"}

// Normalize rewrites a notebook expression into HCL expression syntax.
//
//	"100 KB"      -> "(100 * KB)"
//	"2^3^2"       -> "pow(2, pow(3, 2))"
//	"2(3 + 4)"    -> "2 * (3 + 4)"
//	".5 + 1"      -> "0.5 + 1"
func Normalize(src string) (string, error) {
	toks, err := lex(src)
	if err != nil {
		return "", err
	}
	return render(toks)
}

func render(toks []token) (string, error) {
	toks, err := rewritePow(dropUnaryPlus(toks))
	if err != nil {
		return "", err
	}
	return join(implicitMul(toks)), nil
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && unicode.IsDigit(rs[i]) {
				i++
			}
			if i < len(rs) && rs[i] == '.' {
				i++
				for i < len(rs) && unicode.IsDigit(rs[i]) {
					i++
				}
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			text := strings.TrimSuffix(string(rs[start:i]), ".")
			if strings.HasPrefix(text, ".") {
				text = "0" + text
			}
			toks = append(toks, token{kind: tokNumber, text: text})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i])})
		case r == '"':
			start := i
			i++
			for i < len(rs) && rs[i] != '"' {
				if rs[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(rs) {
				return nil, fail(ErrSyntax, "unterminated string")
			}
			i++
			toks = append(toks, token{kind: tokString, text: string(rs[start:i])})
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ","})
			i++
		default:
			op := matchOperator(rs[i:])
			if op == "" {
				return nil, fail(ErrSyntax, "unexpected character %q", r)
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i += len([]rune(op))
		}
	}
	for i := range toks {
		if toks[i].kind == tokIdent && i+1 < len(toks) && toks[i+1].kind == tokLParen {
			toks[i].call = true
		}
	}
	return toks, nil
}

func matchOperator(rs []rune) string {
	s := string(rs[:min(2, len(rs))])
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

// rewritePow replaces every "a ^ b" with a pow(a, b) group, working from the
// rightmost operator so that chains associate to the right.
func rewritePow(toks []token) ([]token, error) {
	for {
		idx := -1
		for i := len(toks) - 1; i >= 0; i-- {
			if toks[i].kind == tokOp && toks[i].text == "^" {
				idx = i
				break
			}
		}
		if idx < 0 {
			return toks, nil
		}

		start, err := operandStart(toks, idx-1)
		if err != nil {
			return nil, err
		}
		begin := idx + 1
		sign := ""
		if begin < len(toks) && toks[begin].kind == tokOp && toks[begin].text == "-" {
			sign = "-"
			begin++
		}
		end, err := operandEnd(toks, begin)
		if err != nil {
			return nil, err
		}

		base, err := render(toks[start:idx])
		if err != nil {
			return nil, err
		}
		exp, err := render(toks[begin : end+1])
		if err != nil {
			return nil, err
		}
		group := token{kind: tokGroup, text: "pow(" + base + ", " + sign + exp + ")"}

		next := make([]token, 0, len(toks))
		next = append(next, toks[:start]...)
		next = append(next, group)
		next = append(next, toks[end+1:]...)
		toks = next
	}
}

func operandStart(toks []token, end int) (int, error) {
	if end < 0 {
		return 0, fail(ErrSyntax, "missing left operand for ^")
	}
	switch toks[end].kind {
	case tokNumber, tokIdent, tokGroup, tokString:
		return end, nil
	case tokRParen:
		depth := 0
		for i := end; i >= 0; i-- {
			switch toks[i].kind {
			case tokRParen:
				depth++
			case tokLParen:
				depth--
				if depth == 0 {
					if i > 0 && toks[i-1].call {
						return i - 1, nil
					}
					return i, nil
				}
			}
		}
		return 0, fail(ErrSyntax, "unbalanced parentheses")
	}
	return 0, fail(ErrSyntax, "missing left operand for ^")
}

func operandEnd(toks []token, begin int) (int, error) {
	if begin >= len(toks) {
		return 0, fail(ErrSyntax, "missing right operand for ^")
	}
	open := begin
	switch toks[begin].kind {
	case tokNumber, tokGroup, tokString:
		return begin, nil
	case tokIdent:
		if !toks[begin].call {
			return begin, nil
		}
		open = begin + 1
	case tokLParen:
	default:
		return 0, fail(ErrSyntax, "missing right operand for ^")
	}
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].kind {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fail(ErrSyntax, "unbalanced parentheses")
}

// implicitMul inserts the multiplications a reader assumes between adjacent
// operands. A number directly followed by a unit binds tighter than any
// operator, so "10 km / 2 h" reads as (10 km) / (2 h).
func implicitMul(toks []token) []token {
	out := make([]token, 0, len(toks))
	for _, tok := range toks {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if endsOperand(prev) && startsOperand(tok) {
				if prev.kind == tokNumber && ((tok.kind == tokIdent && !tok.call) || tok.kind == tokGroup) {
					out[len(out)-1] = token{kind: tokGroup, text: "(" + prev.text + " * " + tok.text + ")"}
					continue
				}
				out = append(out, token{kind: tokOp, text: "*"})
			}
		}
		out = append(out, tok)
	}
	return out
}

func endsOperand(t token) bool {
	switch t.kind {
	case tokNumber, tokGroup, tokRParen:
		return true
	case tokIdent:
		return !t.call
	}
	return false
}

func startsOperand(t token) bool {
	switch t.kind {
	case tokIdent, tokGroup, tokLParen:
		return true
	}
	return false
}

func join(toks []token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 {
			prev := toks[i-1]
			space := true
			switch {
			case prev.kind == tokLParen:
				space = false
			case tok.kind == tokRParen, tok.kind == tokComma:
				space = false
			case prev.call && tok.kind == tokLParen:
				space = false
			case prev.kind == tokOp && isUnary(toks, i-1):
				space = false
			}
			if space {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.text)
	}
	return b.String()
}

// dropUnaryPlus removes prefix "+" signs, which HCL does not accept.
func dropUnaryPlus(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, tok := range toks {
		if tok.kind == tokOp && tok.text == "+" && isUnary(toks, i) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// isUnary reports whether the operator at i is a prefix sign or negation.
func isUnary(toks []token, i int) bool {
	if toks[i].text != "-" && toks[i].text != "+" && toks[i].text != "!" {
		return false
	}
	if i == 0 {
		return true
	}
	switch toks[i-1].kind {
	case tokOp, tokLParen, tokComma:
		return true
	}
	return false
}
