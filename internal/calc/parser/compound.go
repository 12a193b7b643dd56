package parser

import (
	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/lexer"
)

// parseBlock parses the suite following a COLON: either an indented block
// of statements, or a single line of semicolon-separated simple statements.
func (p *Parser) parseBlock() (*ast.Block, error) {
	pos := p.cur().Pos
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
		if _, err := p.expect(lexer.INDENT); err != nil {
			return nil, err
		}
		stmts, err := p.parseStatements(true)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Base: ast.Base{P: pos}, Statements: stmts}, nil
	}
	stmts, err := p.parseSimpleLine()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Base: ast.Base{P: pos}, Statements: stmts}, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	pos := p.cur().Pos
	p.advance() // if
	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	elseBlock, err := p.parseIfTail()
	if err != nil {
		return nil, err
	}
	return &ast.If{Base: ast.Base{P: pos}, Test: test, Body: body, Else: elseBlock}, nil
}

// parseIfTail handles `elif`/`else`, folding a chain of elifs into nested
// If nodes the same way CPython's AST does.
func (p *Parser) parseIfTail() (*ast.Block, error) {
	switch p.cur().Type {
	case lexer.ELIF:
		pos := p.cur().Pos
		p.advance()
		test, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		tail, err := p.parseIfTail()
		if err != nil {
			return nil, err
		}
		nested := &ast.If{Base: ast.Base{P: pos}, Test: test, Body: body, Else: tail}
		return &ast.Block{Base: ast.Base{P: pos}, Statements: []ast.Statement{nested}}, nil
	case lexer.ELSE:
		p.advance()
		return p.parseBlock()
	}
	return nil, nil
}

func (p *Parser) parseFor() (*ast.For, error) {
	pos := p.cur().Pos
	p.advance() // for
	target, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseTestList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.at(lexer.ELSE) {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.For{Base: ast.Base{P: pos}, Target: target, Iter: iter, Body: body, Else: elseBlock}, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	pos := p.cur().Pos
	p.advance() // while
	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.at(lexer.ELSE) {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.While{Base: ast.Base{P: pos}, Test: test, Body: body, Else: elseBlock}, nil
}

// The constructs below are denied the moment the classifier sees their node
// kind, so only enough structure is built to get there — their suites are
// skipped as raw tokens rather than fully parsed into statements.

func (p *Parser) parseFunctionDef() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // def
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if err := p.skipParenBalanced(); err != nil {
		return nil, err
	}
	if p.at(lexer.ARROW) {
		p.advance()
		if _, err := p.parseTest(); err != nil {
			return nil, err
		}
	}
	if err := p.skipBlock(); err != nil {
		return nil, err
	}
	return &ast.FunctionDef{Base: ast.Base{P: pos}, Name: nameTok.Literal}, nil
}

func (p *Parser) parseClassDef() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // class
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if p.at(lexer.LPAREN) {
		if err := p.skipParenBalanced(); err != nil {
			return nil, err
		}
	}
	if err := p.skipBlock(); err != nil {
		return nil, err
	}
	return &ast.ClassDef{Base: ast.Base{P: pos}, Name: nameTok.Literal}, nil
}

func (p *Parser) parseAsync() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // async
	switch p.cur().Type {
	case lexer.DEF:
		s, err := p.parseFunctionDef()
		if err != nil {
			return nil, err
		}
		fd := s.(*ast.FunctionDef)
		return &ast.AsyncFunctionDef{Base: ast.Base{P: pos}, Name: fd.Name}, nil
	case lexer.FOR:
		p.advance()
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.IN); err != nil {
			return nil, err
		}
		iter, err := p.parseTestList()
		if err != nil {
			return nil, err
		}
		if err := p.skipBlock(); err != nil {
			return nil, err
		}
		return &ast.AsyncFor{Base: ast.Base{P: pos}, Target: target, Iter: iter}, nil
	case lexer.WITH:
		p.advance()
		if err := p.skipWithItems(); err != nil {
			return nil, err
		}
		if err := p.skipBlock(); err != nil {
			return nil, err
		}
		return &ast.AsyncWith{Base: ast.Base{P: pos}}, nil
	}
	return nil, &ParseError{Msg: "expected def, for or with after async", Pos: p.cur().Pos}
}

func (p *Parser) parseTry() (*ast.Try, error) {
	pos := p.cur().Pos
	p.advance() // try
	if err := p.skipBlock(); err != nil {
		return nil, err
	}
	for p.at(lexer.EXCEPT) {
		p.advance()
		if !p.at(lexer.COLON) {
			if _, err := p.parseTest(); err != nil {
				return nil, err
			}
			if p.at(lexer.AS) {
				p.advance()
				if _, err := p.expect(lexer.IDENT); err != nil {
					return nil, err
				}
			}
		}
		if err := p.skipBlock(); err != nil {
			return nil, err
		}
	}
	if p.at(lexer.ELSE) {
		p.advance()
		if err := p.skipBlock(); err != nil {
			return nil, err
		}
	}
	if p.at(lexer.FINALLY) {
		p.advance()
		if err := p.skipBlock(); err != nil {
			return nil, err
		}
	}
	return &ast.Try{Base: ast.Base{P: pos}}, nil
}

func (p *Parser) parseWith() (*ast.With, error) {
	pos := p.cur().Pos
	p.advance() // with
	if err := p.skipWithItems(); err != nil {
		return nil, err
	}
	if err := p.skipBlock(); err != nil {
		return nil, err
	}
	return &ast.With{Base: ast.Base{P: pos}}, nil
}

func (p *Parser) skipWithItems() error {
	for {
		if _, err := p.parseTest(); err != nil {
			return err
		}
		if p.at(lexer.AS) {
			p.advance()
			if _, err := p.parseTest(); err != nil {
				return err
			}
		}
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return nil
}

// skipParenBalanced consumes a LPAREN ... RPAREN run without attempting to
// parse the contents, tolerating anything a def's parameter list or a
// class's base-class list can legally contain.
func (p *Parser) skipParenBalanced() error {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.at(lexer.EOF) {
			return &ParseError{Msg: "unexpected end of input inside parentheses", Pos: p.cur().Pos}
		}
		switch p.cur().Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		}
		p.advance()
	}
	return nil
}

// skipBlock consumes the suite following a COLON without building
// statement nodes for it: a denied compound statement's body never runs,
// so the classifier only needs the header parsed into a concrete node.
func (p *Parser) skipBlock() error {
	if _, err := p.expect(lexer.COLON); err != nil {
		return err
	}
	if !p.at(lexer.NEWLINE) {
		for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) {
			p.advance()
		}
		if p.at(lexer.NEWLINE) {
			p.advance()
		}
		return nil
	}
	p.advance() // NEWLINE
	if _, err := p.expect(lexer.INDENT); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.at(lexer.EOF) {
			return &ParseError{Msg: "unexpected end of input inside block", Pos: p.cur().Pos}
		}
		switch p.cur().Type {
		case lexer.INDENT:
			depth++
		case lexer.DEDENT:
			depth--
		}
		p.advance()
	}
	return nil
}
