package rootfind

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// normalize rewrites a math expression into a fully parenthesized govaluate
// expression with the usual precedence:
//
//	-x^2   is -(x^2)
//	x^2^3  is x^(2^3)
//	2^-1   is 2^(-1)
//
// Numbers in scientific notation are expanded since govaluate cannot read
// them. Only arithmetic, calls and parentheses are accepted.
func normalize(src string) (string, error) {
	toks, err := lex(src)
	if err != nil {
		return "", err
	}
	p := &parser{toks: toks}
	out, err := p.sum()
	if err != nil {
		return "", err
	}
	if t := p.peek(); t.kind != tokEOF {
		return "", p.unexpected(t)
	}
	return out, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			n, end, err := lexNumber(rs, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNum, text: n, pos: i})
			i = end
		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[i:j]), pos: i})
			i = j
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/%^", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrExpression, r, i+1)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

// lexNumber reads digits, an optional fraction and an optional exponent.
// The result is printed back without an exponent.
func lexNumber(rs []rune, i int) (string, int, error) {
	start := i
	digits := func() {
		for i < len(rs) && unicode.IsDigit(rs[i]) {
			i++
		}
	}
	digits()
	if i < len(rs) && rs[i] == '.' {
		i++
		digits()
	}
	// an e only starts an exponent when digits follow, so 2e stays 2 then e
	if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
		j := i + 1
		if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
			j++
		}
		if j < len(rs) && unicode.IsDigit(rs[j]) {
			i = j
			digits()
		}
	}

	text := string(rs[start:i])
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", i, fmt.Errorf("%w: bad number %q at %d", ErrExpression, text, start+1)
	}
	return strconv.FormatFloat(v, 'f', -1, 64), i, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(ops string) bool {
	t := p.peek()
	return t.kind == tokOp && strings.Contains(ops, t.text)
}

func (p *parser) unexpected(t token) error {
	if t.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of expression", ErrExpression)
	}
	return fmt.Errorf("%w: unexpected %q at %d", ErrExpression, t.text, t.pos+1)
}

// sum := product (("+" | "-") product)*
func (p *parser) sum() (string, error) {
	left, err := p.product()
	if err != nil {
		return "", err
	}
	for p.isOp("+-") {
		op := p.next().text
		right, err := p.product()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
	return left, nil
}

// product := unary (("*" | "/" | "%") unary)*
func (p *parser) product() (string, error) {
	left, err := p.unary()
	if err != nil {
		return "", err
	}
	for p.isOp("*/%") {
		op := p.next().text
		right, err := p.unary()
		if err != nil {
			return "", err
		}
		left = "(" + left + " " + op + " " + right + ")"
	}
	return left, nil
}

// unary := ("-" | "+") unary | power
func (p *parser) unary() (string, error) {
	if p.isOp("+-") {
		op := p.next().text
		operand, err := p.unary()
		if err != nil {
			return "", err
		}
		if op == "+" {
			return operand, nil
		}
		return "(-" + operand + ")", nil
	}
	return p.power()
}

// power := primary ("^" unary)?
// The exponent is parsed as unary, which makes ^ right-associative and lets
// it take a sign.
func (p *parser) power() (string, error) {
	base, err := p.primary()
	if err != nil {
		return "", err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return "", err
	}
	return "(" + base + " ** " + exp + ")", nil
}

// primary := number | name | name "(" args ")" | "(" sum ")"
func (p *parser) primary() (string, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		return t.text, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return t.text, nil
		}
		p.next()
		args, err := p.args()
		if err != nil {
			return "", err
		}
		return t.text + "(" + strings.Join(args, ", ") + ")", nil
	case tokLParen:
		inner, err := p.sum()
		if err != nil {
			return "", err
		}
		if r := p.next(); r.kind != tokRParen {
			return "", p.unexpected(r)
		}
		return inner, nil
	}
	return "", p.unexpected(t)
}

func (p *parser) args() ([]string, error) {
	var args []string
	if p.peek().kind == tokRParen {
		p.next()
		return args, nil
	}
	for {
		a, err := p.sum()
		if err != nil {
			return nil, err
		}
		args = append(args, a)

		switch t := p.next(); t.kind {
		case tokComma:
		case tokRParen:
			return args, nil
		default:
			return nil, p.unexpected(t)
		}
	}
}
