package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrEmpty is returned for blank expressions.
	ErrEmpty = errors.New("formula: empty expression")
	// ErrDivisionByZero is returned when a divisor evaluates to zero.
	ErrDivisionByZero = errors.New("formula: division by zero")
)

// Env resolves identifiers to numbers. A nil Env rejects every identifier.
type Env map[string]float64

// Expr is a parsed expression tree.
type Expr interface {
	Eval(env Env) (float64, error)
	String() string
}

// Evaluate parses and evaluates input against env.
func Evaluate(input string, env Env) (float64, error) {
	expr, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return expr.Eval(env)
}

// Parse converts input into an expression tree.
func Parse(input string) (Expr, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, ErrEmpty
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}

	stream := &tokenStream{tokens: tokens}
	expr, err := parseSum(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("formula: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return expr, nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdentifier
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

var operatorTokens = map[byte]tokenKind{
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'(': tokenLParen,
	')': tokenRParen,
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		if kind, ok := operatorTokens[ch]; ok {
			tokens = append(tokens, token{kind: kind, raw: string(ch)})
			i++
			continue
		}

		switch {
		case isDigit(ch) || ch == '.':
			start := i
			seenDot := false
			for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
				if input[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("formula: malformed number %q", input[start:i+1])
					}
					seenDot = true
				}
				i++
			}
			if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
				j := i + 1
				if j < len(input) && (input[j] == '+' || input[j] == '-') {
					j++
				}
				if j < len(input) && isDigit(input[j]) {
					for j < len(input) && isDigit(input[j]) {
						j++
					}
					i = j
				}
			}
			raw := input[start:i]
			if raw == "." {
				return nil, errors.New("formula: malformed number \".\"")
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw})
		case isIdentStart(ch):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: input[start:i]})
		default:
			return nil, fmt.Errorf("formula: unexpected character %q", ch)
		}
	}

	return tokens, nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kinds ...tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	tok := s.tokens[s.pos]
	for _, kind := range kinds {
		if tok.kind == kind {
			s.pos++
			return tok, true
		}
	}
	return token{}, false
}

func parseSum(stream *tokenStream) (Expr, error) {
	left, err := parseProduct(stream)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := stream.match(tokenPlus, tokenMinus)
		if !ok {
			return left, nil
		}
		right, err := parseProduct(stream)
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op.kind, left: left, right: right}
	}
}

func parseProduct(stream *tokenStream) (Expr, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := stream.match(tokenStar, tokenSlash)
		if !ok {
			return left, nil
		}
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op.kind, left: left, right: right}
	}
}

func parseUnary(stream *tokenStream) (Expr, error) {
	if op, ok := stream.match(tokenPlus, tokenMinus); ok {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return unaryExpr{negate: op.kind == tokenMinus, inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (Expr, error) {
	if _, ok := stream.match(tokenLParen); ok {
		inner, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		if _, ok := stream.match(tokenRParen); !ok {
			return nil, errors.New("formula: missing closing ')'")
		}
		return groupExpr{inner: inner}, nil
	}
	if tok, ok := stream.match(tokenNumber); ok {
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("formula: invalid number %q", tok.raw)
		}
		return numberExpr{value: value, raw: tok.raw}, nil
	}
	if tok, ok := stream.match(tokenIdentifier); ok {
		return identExpr{name: tok.raw}, nil
	}
	if stream.pos >= len(stream.tokens) {
		return nil, errors.New("formula: unexpected end of expression")
	}
	return nil, fmt.Errorf("formula: unexpected token %q", stream.tokens[stream.pos].raw)
}

type numberExpr struct {
	value float64
	raw   string
}

func (n numberExpr) Eval(Env) (float64, error) { return n.value, nil }
func (n numberExpr) String() string           { return n.raw }

type identExpr struct {
	name string
}

func (n identExpr) Eval(env Env) (float64, error) {
	value, ok := env[n.name]
	if !ok {
		return 0, fmt.Errorf("formula: unknown identifier %q", n.name)
	}
	return value, nil
}

func (n identExpr) String() string { return n.name }

type groupExpr struct {
	inner Expr
}

func (n groupExpr) Eval(env Env) (float64, error) { return n.inner.Eval(env) }
func (n groupExpr) String() string               { return "(" + n.inner.String() + ")" }

type unaryExpr struct {
	negate bool
	inner  Expr
}

func (n unaryExpr) Eval(env Env) (float64, error) {
	value, err := n.inner.Eval(env)
	if err != nil {
		return 0, err
	}
	if n.negate {
		return -value, nil
	}
	return value, nil
}

func (n unaryExpr) String() string {
	if n.negate {
		return "-" + n.inner.String()
	}
	return "+" + n.inner.String()
}

type binaryExpr struct {
	op          tokenKind
	left, right Expr
}

func (n binaryExpr) Eval(env Env) (float64, error) {
	left, err := n.left.Eval(env)
	if err != nil {
		return 0, err
	}
	right, err := n.right.Eval(env)
	if err != nil {
		return 0, err
	}

	var out float64
	switch n.op {
	case tokenPlus:
		out = left + right
	case tokenMinus:
		out = left - right
	case tokenStar:
		out = left * right
	case tokenSlash:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		out = left / right
	default:
		return 0, fmt.Errorf("formula: unsupported operator %q", n.opString())
	}
	if math.IsInf(out, 0) || math.IsNaN(out) {
		return 0, fmt.Errorf("formula: %s overflows", n.String())
	}
	return out, nil
}

func (n binaryExpr) opString() string {
	switch n.op {
	case tokenPlus:
		return "+"
	case tokenMinus:
		return "-"
	case tokenStar:
		return "*"
	case tokenSlash:
		return "/"
	default:
		return "?"
	}
}

func (n binaryExpr) String() string {
	return n.left.String() + " " + n.opString() + " " + n.right.String()
}
