package parser

import (
	"fmt"
	"strings"

	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/lexer"
)

// fstringSegment is one piece of a split f-string: either a literal text
// run, or the raw text of an embedded `{expr}`/`{expr:spec}` placeholder.
type fstringSegment struct {
	text   string
	spec   string
	isExpr bool
}

// splitFString walks an f-string's already-escape-decoded literal body
// (spec.md §4.11) into literal-text and placeholder segments, honouring
// `{{`/`}}` as escaped literal braces and splitting a placeholder's
// top-level `:` (one not nested inside `()`/`[]`/`{}`) off as its format
// spec — the same rule CPython's f-string parser uses to avoid colliding
// with a slice expression's own colon.
func splitFString(s string) ([]fstringSegment, error) {
	runes := []rune(s)
	var segs []fstringSegment
	var lit strings.Builder
	i := 0
	for i < len(runes) {
		ch := runes[i]
		switch {
		case ch == '{' && i+1 < len(runes) && runes[i+1] == '{':
			lit.WriteRune('{')
			i += 2
		case ch == '}' && i+1 < len(runes) && runes[i+1] == '}':
			lit.WriteRune('}')
			i += 2
		case ch == '{':
			if lit.Len() > 0 {
				segs = append(segs, fstringSegment{text: lit.String()})
				lit.Reset()
			}
			exprText, specText, next, err := scanPlaceholder(runes, i+1)
			if err != nil {
				return nil, err
			}
			segs = append(segs, fstringSegment{text: exprText, spec: specText, isExpr: true})
			i = next
		case ch == '}':
			return nil, fmt.Errorf("single '}' is not allowed in an f-string")
		default:
			lit.WriteRune(ch)
			i++
		}
	}
	if lit.Len() > 0 {
		segs = append(segs, fstringSegment{text: lit.String()})
	}
	return segs, nil
}

// scanPlaceholder scans from just after a placeholder's opening `{` to its
// matching `}`, returning the expression text, the format spec text (if
// any), and the index just past the closing brace.
func scanPlaceholder(runes []rune, start int) (exprText, specText string, next int, err error) {
	depth := 0
	colon := -1
	var quote rune
	i := start
	for i < len(runes) {
		ch := runes[i]
		if quote != 0 {
			if ch == '\\' {
				i += 2
				continue
			}
			if ch == quote {
				quote = 0
			}
			i++
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			depth++
		case '}':
			if depth == 0 {
				if colon >= 0 {
					return string(runes[start:colon]), string(runes[colon+1 : i]), i + 1, nil
				}
				return string(runes[start:i]), "", i + 1, nil
			}
			depth--
		case ':':
			if depth == 0 && colon == -1 {
				colon = i
			}
		}
		i++
	}
	return "", "", i, fmt.Errorf("unterminated f-string placeholder")
}

func (p *Parser) parseFStringLiteral(tok lexer.Token) (ast.Expression, error) {
	segs, err := splitFString(tok.Literal)
	if err != nil {
		return nil, &ParseError{Msg: err.Error(), Pos: tok.Pos}
	}
	parts := make([]ast.FStringPart, 0, len(segs))
	for _, seg := range segs {
		if !seg.isExpr {
			parts = append(parts, ast.FStringPart{Literal: seg.text})
			continue
		}
		expr, err := parseSubExpression(stripConversion(seg.text), tok.Pos)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ast.FStringPart{Expr: expr, FormatSpec: seg.spec})
	}
	return &ast.FString{Base: ast.Base{P: tok.Pos}, Parts: parts}, nil
}

// stripConversion drops a trailing `!s`/`!r`/`!a` conversion marker
// (`{x!r}`): the evaluator formats every value the same way regardless of
// conversion, so only the expression text itself needs to survive.
func stripConversion(exprText string) string {
	trimmed := strings.TrimRight(exprText, " ")
	if len(trimmed) >= 2 && trimmed[len(trimmed)-2] == '!' {
		switch trimmed[len(trimmed)-1] {
		case 's', 'r', 'a':
			return trimmed[:len(trimmed)-2]
		}
	}
	return exprText
}

// parseSubExpression re-lexes and parses the raw text captured inside an
// f-string placeholder as a standalone expression.
func parseSubExpression(src string, pos lexer.Position) (ast.Expression, error) {
	toks, errs := lexer.New(src).Tokenize()
	if len(errs) > 0 {
		return nil, &ParseError{Msg: errs[0].Msg, Pos: pos}
	}
	sub := &Parser{toks: toks}
	expr, err := sub.parseTest()
	if err != nil {
		return nil, err
	}
	return expr, nil
}
