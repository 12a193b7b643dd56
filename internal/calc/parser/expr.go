package parser

import (
	"fmt"

	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/lexer"
)

// atExprStart reports whether the current token could begin an expression,
// used to detect trailing commas and optional values (bare `return`,
// value-less `yield`).
func (p *Parser) atExprStart() bool {
	switch p.cur().Type {
	case lexer.NEWLINE, lexer.EOF, lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE,
		lexer.COMMA, lexer.COLON, lexer.SEMICOLON, lexer.ASSIGN:
		return false
	}
	return true
}

// parseCommaList parses a comma-separated run of next(), folding into a
// TupleLiteral when there is more than one element (or a trailing comma),
// and returning the bare element otherwise.
func (p *Parser) parseCommaList(next func() (ast.Expression, error), stopAtIn bool) (ast.Expression, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.COMMA) {
		return first, nil
	}
	pos := first.Pos()
	elems := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if !p.atExprStart() || (stopAtIn && p.at(lexer.IN)) {
			break
		}
		e, err := next()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &ast.TupleLiteral{Base: ast.Base{P: pos}, Elements: elems}, nil
}

func (p *Parser) parseTestList() (ast.Expression, error) { return p.parseCommaList(p.parseTest, false) }
func (p *Parser) parseTargetList() (ast.Expression, error) {
	return p.parseCommaList(p.parseOrTest, true)
}

// parseTest is the entry point for a full expression: a conditional
// (`a if c else b`) wrapping an or_test, or a lambda.
func (p *Parser) parseTest() (ast.Expression, error) {
	if p.at(lexer.LAMBDA) {
		return p.parseLambda()
	}
	e, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.IF) {
		pos := e.Pos()
		p.advance()
		test, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ELSE); err != nil {
			return nil, err
		}
		orelse, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Base: ast.Base{P: pos}, Test: test, Body: e, OrElse: orelse}, nil
	}
	return e, nil
}

func (p *Parser) parseLambda() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // lambda
	var params []string
	for !p.at(lexer.COLON) {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Literal)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Base: ast.Base{P: pos}, Params: params, Body: body}, nil
}

func (p *Parser) parseOrTest() (ast.Expression, error) {
	left, err := p.parseAndTest()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.OR) {
		return left, nil
	}
	pos := left.Pos()
	values := []ast.Expression{left}
	for p.at(lexer.OR) {
		p.advance()
		v, err := p.parseAndTest()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &ast.BoolOp{Base: ast.Base{P: pos}, Op: "or", Values: values}, nil
}

func (p *Parser) parseAndTest() (ast.Expression, error) {
	left, err := p.parseNotTest()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.AND) {
		return left, nil
	}
	pos := left.Pos()
	values := []ast.Expression{left}
	for p.at(lexer.AND) {
		p.advance()
		v, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &ast.BoolOp{Base: ast.Base{P: pos}, Op: "and", Values: values}, nil
}

func (p *Parser) parseNotTest() (ast.Expression, error) {
	if p.at(lexer.NOT) {
		pos := p.cur().Pos
		p.advance()
		operand, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{P: pos}, Op: "not", Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var ops []string
	var comps []ast.Expression
	for {
		op, ok, err := p.tryCompareOp()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comps = append(comps, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Base: ast.Base{P: left.Pos()}, Left: left, Ops: ops, Comps: comps}, nil
}

func (p *Parser) tryCompareOp() (string, bool, error) {
	switch p.cur().Type {
	case lexer.LT:
		p.advance()
		return "<", true, nil
	case lexer.LE:
		p.advance()
		return "<=", true, nil
	case lexer.GT:
		p.advance()
		return ">", true, nil
	case lexer.GE:
		p.advance()
		return ">=", true, nil
	case lexer.EQ:
		p.advance()
		return "==", true, nil
	case lexer.NE:
		p.advance()
		return "!=", true, nil
	case lexer.IN:
		p.advance()
		return "in", true, nil
	case lexer.IS:
		p.advance()
		if p.at(lexer.NOT) {
			p.advance()
			return "is not", true, nil
		}
		return "is", true, nil
	case lexer.NOT:
		if p.peekAt(1, lexer.IN) {
			p.advance()
			p.advance()
			return "not in", true, nil
		}
		return "", false, nil
	}
	return "", false, nil
}

func (p *Parser) parseBinaryLeft(next func() (ast.Expression, error), ops map[lexer.TokenType]string) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur().Type]
		if !ok {
			return left, nil
		}
		pos := left.Pos()
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Base: ast.Base{P: pos}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseBitOr() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseBitXor, map[lexer.TokenType]string{lexer.PIPE: "|"})
}

func (p *Parser) parseBitXor() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseBitAnd, map[lexer.TokenType]string{lexer.CARET: "^"})
}

func (p *Parser) parseBitAnd() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseShift, map[lexer.TokenType]string{lexer.AMP: "&"})
}

func (p *Parser) parseShift() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseArith, map[lexer.TokenType]string{lexer.LSHIFT: "<<", lexer.RSHIFT: ">>"})
}

func (p *Parser) parseArith() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseTerm, map[lexer.TokenType]string{lexer.PLUS: "+", lexer.MINUS: "-"})
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.parseBinaryLeft(p.parseFactor, map[lexer.TokenType]string{
		lexer.STAR: "*", lexer.SLASH: "/", lexer.DSLASH: "//", lexer.PERCENT: "%", lexer.AT: "@",
	})
}

var unaryOpNames = map[lexer.TokenType]string{lexer.PLUS: "+", lexer.MINUS: "-", lexer.TILDE: "~"}

func (p *Parser) parseFactor() (ast.Expression, error) {
	if op, ok := unaryOpNames[p.cur().Type]; ok {
		pos := p.cur().Pos
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Base: ast.Base{P: pos}, Op: op, Operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower binds `**` tighter than unary operators on its left operand
// but lets its right operand recurse through parseFactor, so `-2 ** 2`
// parses as `-(2 ** 2)` and `2 ** -2` parses as `2 ** (-2)`.
func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.DSTAR) {
		pos := base.Pos()
		p.advance()
		exponent, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Base: ast.Base{P: pos}, Op: "**", Left: base, Right: exponent}, nil
	}
	return base, nil
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case lexer.DOT:
			pos := p.cur().Pos
			p.advance()
			tok, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			e = &ast.Attribute{Base: ast.Base{P: pos}, Value: e, Attr: tok.Literal}
		case lexer.LPAREN:
			call, err := p.parseCallTrailer(e)
			if err != nil {
				return nil, err
			}
			e = call
		case lexer.LBRACKET:
			sub, err := p.parseSubscriptTrailer(e)
			if err != nil {
				return nil, err
			}
			e = sub
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseCallTrailer(fn ast.Expression) (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // (
	var args []ast.Expression
	var kwargs []ast.Keyword
	first := true
	for !p.at(lexer.RPAREN) {
		if !first {
			if _, err := p.expect(lexer.COMMA); err != nil {
				return nil, err
			}
			if p.at(lexer.RPAREN) {
				break
			}
		}
		first = false
		if p.at(lexer.IDENT) && p.peekAt(1, lexer.ASSIGN) {
			name := p.advance().Literal
			p.advance() // =
			val, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			kwargs = append(kwargs, ast.Keyword{Name: name, Value: val})
			continue
		}
		val, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if len(args) == 0 && len(kwargs) == 0 && p.at(lexer.FOR) {
			gens, err := p.parseComprehensionClauses()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
			genexp := &ast.GeneratorExp{Base: ast.Base{P: pos}, Element: val, Generators: gens}
			return &ast.Call{Base: ast.Base{P: pos}, Func: fn, Args: []ast.Expression{genexp}}, nil
		}
		args = append(args, val)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Base: ast.Base{P: pos}, Func: fn, Args: args, Kwargs: kwargs}, nil
}

func (p *Parser) parseSubscriptTrailer(value ast.Expression) (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // [
	index, err := p.parseSubscriptIndex()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Subscript{Base: ast.Base{P: pos}, Value: value, Index: index}, nil
}

func (p *Parser) parseSubscriptIndex() (ast.Expression, error) {
	first, err := p.parseSliceOrTest()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.COMMA) {
		return first, nil
	}
	pos := first.Pos()
	items := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		it, err := p.parseSliceOrTest()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return &ast.TupleLiteral{Base: ast.Base{P: pos}, Elements: items}, nil
}

// parseSliceOrTest parses one subscript element: a plain expression, or a
// `lower:upper:step` slice (any part may be absent).
func (p *Parser) parseSliceOrTest() (ast.Expression, error) {
	pos := p.cur().Pos
	var lower ast.Expression
	if !p.at(lexer.COLON) {
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if !p.at(lexer.COLON) {
			return e, nil
		}
		lower = e
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	var upper, step ast.Expression
	if !p.at(lexer.COLON) && !p.at(lexer.RBRACKET) && !p.at(lexer.COMMA) {
		u, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		upper = u
	}
	if p.at(lexer.COLON) {
		p.advance()
		if !p.at(lexer.RBRACKET) && !p.at(lexer.COMMA) {
			s, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			step = s
		}
	}
	return &ast.Slice{Base: ast.Base{P: pos}, Lower: lower, Upper: upper, Step: step}, nil
}

func (p *Parser) parseComprehensionClauses() ([]ast.Comprehension, error) {
	var gens []ast.Comprehension
	for p.at(lexer.FOR) {
		p.advance()
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.IN); err != nil {
			return nil, err
		}
		iter, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}
		var ifs []ast.Expression
		for p.at(lexer.IF) {
			p.advance()
			cond, err := p.parseOrTest()
			if err != nil {
				return nil, err
			}
			ifs = append(ifs, cond)
		}
		gens = append(gens, ast.Comprehension{Target: target, Iter: iter, Ifs: ifs})
	}
	return gens, nil
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		return &ast.IntLiteral{Base: ast.Base{P: tok.Pos}, Text: tok.Literal}, nil
	case lexer.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Base: ast.Base{P: tok.Pos}, Text: tok.Literal}, nil
	case lexer.STRING:
		p.advance()
		return p.collectAdjacentStrings(tok)
	case lexer.BYTESTRING:
		p.advance()
		return &ast.BytesLiteral{Base: ast.Base{P: tok.Pos}, Value: tok.Literal}, nil
	case lexer.FSTRING:
		p.advance()
		return p.parseFStringLiteral(tok)
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{P: tok.Pos}, Value: true}, nil
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{P: tok.Pos}, Value: false}, nil
	case lexer.NONE:
		p.advance()
		return &ast.NoneLiteral{Base: ast.Base{P: tok.Pos}}, nil
	case lexer.ELLIPSIS:
		p.advance()
		return &ast.EllipsisLiteral{Base: ast.Base{P: tok.Pos}}, nil
	case lexer.IDENT:
		p.advance()
		return &ast.Name{Base: ast.Base{P: tok.Pos}, Ident: tok.Literal}, nil
	case lexer.AWAIT:
		p.advance()
		val, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.Await{Base: ast.Base{P: tok.Pos}, Value: val}, nil
	case lexer.YIELD:
		p.advance()
		if p.at(lexer.FROM) {
			p.advance()
			val, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			return &ast.YieldFrom{Base: ast.Base{P: tok.Pos}, Value: val}, nil
		}
		if p.atExprStart() {
			val, err := p.parseTestList()
			if err != nil {
				return nil, err
			}
			return &ast.Yield{Base: ast.Base{P: tok.Pos}, Value: val}, nil
		}
		return &ast.Yield{Base: ast.Base{P: tok.Pos}}, nil
	case lexer.LPAREN:
		return p.parseParenForm()
	case lexer.LBRACKET:
		return p.parseListForm()
	case lexer.LBRACE:
		return p.parseBraceForm()
	}
	return nil, &ParseError{Msg: fmt.Sprintf("unexpected token in expression: %q", tok.Literal), Pos: tok.Pos}
}

// collectAdjacentStrings folds Python's implicit adjacent-string-literal
// concatenation (`"a" "b"` == `"ab"`) into a single StringLiteral.
func (p *Parser) collectAdjacentStrings(first lexer.Token) (ast.Expression, error) {
	value := first.Literal
	for p.at(lexer.STRING) {
		value += p.advance().Literal
	}
	return &ast.StringLiteral{Base: ast.Base{P: first.Pos}, Value: value}, nil
}

func (p *Parser) parseParenForm() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // (
	if p.at(lexer.RPAREN) {
		p.advance()
		return &ast.TupleLiteral{Base: ast.Base{P: pos}}, nil
	}
	first, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.GeneratorExp{Base: ast.Base{P: pos}, Element: first, Generators: gens}, nil
	}
	if !p.at(lexer.COMMA) {
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	}
	elems := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RPAREN) {
			break
		}
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.TupleLiteral{Base: ast.Base{P: pos}, Elements: elems}, nil
}

func (p *Parser) parseListForm() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // [
	if p.at(lexer.RBRACKET) {
		p.advance()
		return &ast.ListLiteral{Base: ast.Base{P: pos}}, nil
	}
	first, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ListComp{Base: ast.Base{P: pos}, Element: first, Generators: gens}, nil
	}
	elems := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListLiteral{Base: ast.Base{P: pos}, Elements: elems}, nil
}

func (p *Parser) parseBraceForm() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // {
	if p.at(lexer.RBRACE) {
		p.advance()
		return &ast.DictLiteral{Base: ast.Base{P: pos}}, nil
	}
	first, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.COLON) {
		p.advance()
		val, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		if p.at(lexer.FOR) {
			gens, err := p.parseComprehensionClauses()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACE); err != nil {
				return nil, err
			}
			return &ast.DictComp{Base: ast.Base{P: pos}, Key: first, Value: val, Generators: gens}, nil
		}
		entries := []ast.DictEntry{{Key: first, Value: val}}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RBRACE) {
				break
			}
			k, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &ast.DictLiteral{Base: ast.Base{P: pos}, Entries: entries}, nil
	}
	if p.at(lexer.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return &ast.SetComp{Base: ast.Base{P: pos}, Element: first, Generators: gens}, nil
	}
	elems := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.SetLiteral{Base: ast.Base{P: pos}, Elements: elems}, nil
}
