// Package parser builds the AST this module's policy classifier and
// evaluator dispatch over, from the lexer's token stream. It is a
// recursive-descent/precedence-climbing parser over the Python-subset
// grammar spec.md §3 enumerates — both the permitted node shapes and the
// denied ones, since the classifier needs concrete nodes to reject with
// spec.md §4.1's exact messages rather than the parser rejecting them as
// syntax errors.
package parser

import (
	"fmt"

	"github.com/dev-jelly/yui/internal/calc/ast"
	"github.com/dev-jelly/yui/internal/calc/lexer"
)

// ParseError is a syntax-level failure distinct from a policy denial: the
// fragment simply isn't well-formed source, independent of the allow-list.
type ParseError struct {
	Msg string
	Pos lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse lexes and parses a full source fragment into a Program.
func Parse(source string) (*ast.Program, error) {
	toks, errs := lexer.New(source).Tokenize()
	if len(errs) > 0 {
		return nil, &ParseError{Msg: errs[0].Msg, Pos: errs[0].Pos}
	}
	p := &Parser{toks: toks}
	stmts, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) peekAt(offset int, t lexer.TokenType) bool {
	i := p.pos + offset
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].Type == t
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.at(t) {
		return lexer.Token{}, &ParseError{Msg: fmt.Sprintf("unexpected token %v", p.cur()), Pos: p.cur().Pos}
	}
	return p.advance(), nil
}

// parseStatements parses a run of statements. When untilDedent is true it
// stops at (and consumes) a DEDENT token; otherwise it runs to EOF.
func (p *Parser) parseStatements(untilDedent bool) ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		for p.at(lexer.NEWLINE) {
			p.advance()
		}
		if untilDedent && p.at(lexer.DEDENT) {
			p.advance()
			return out, nil
		}
		if p.at(lexer.EOF) {
			if untilDedent {
				return nil, &ParseError{Msg: "unexpected end of input, expected DEDENT", Pos: p.cur().Pos}
			}
			return out, nil
		}
		stmts, err := p.parseStatementOrLine()
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
}

// parseStatementOrLine parses either one compound statement, or a
// semicolon-separated run of simple statements terminated by NEWLINE/EOF.
func (p *Parser) parseStatementOrLine() ([]ast.Statement, error) {
	switch p.cur().Type {
	case lexer.IF:
		s, err := p.parseIf()
		return wrap(s, err)
	case lexer.FOR:
		s, err := p.parseFor()
		return wrap(s, err)
	case lexer.WHILE:
		s, err := p.parseWhile()
		return wrap(s, err)
	case lexer.DEF:
		s, err := p.parseFunctionDef()
		return wrap(s, err)
	case lexer.CLASS:
		s, err := p.parseClassDef()
		return wrap(s, err)
	case lexer.ASYNC:
		s, err := p.parseAsync()
		return wrap(s, err)
	case lexer.TRY:
		s, err := p.parseTry()
		return wrap(s, err)
	case lexer.WITH:
		s, err := p.parseWith()
		return wrap(s, err)
	}
	return p.parseSimpleLine()
}

func wrap(s ast.Statement, err error) ([]ast.Statement, error) {
	if err != nil {
		return nil, err
	}
	return []ast.Statement{s}, nil
}

// parseSimpleLine parses one or more semicolon-separated simple statements
// followed by a NEWLINE (or EOF).
func (p *Parser) parseSimpleLine() ([]ast.Statement, error) {
	var out []ast.Statement
	for {
		s, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.at(lexer.SEMICOLON) {
			p.advance()
			if p.at(lexer.NEWLINE) || p.at(lexer.EOF) {
				break
			}
			continue
		}
		break
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
	}
	return out, nil
}

func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	switch p.cur().Type {
	case lexer.BREAK:
		p.advance()
		return &ast.Break{Base: ast.Base{P: pos}}, nil
	case lexer.CONTINUE:
		p.advance()
		return &ast.Continue{Base: ast.Base{P: pos}}, nil
	case lexer.PASS:
		p.advance()
		return &ast.Pass{Base: ast.Base{P: pos}}, nil
	case lexer.DEL:
		return p.parseDelete()
	case lexer.RAISE:
		return p.parseRaise()
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.FROM:
		return p.parseImportFrom()
	case lexer.GLOBAL:
		return p.parseGlobal()
	case lexer.NONLOCAL:
		return p.parseNonlocal()
	case lexer.ASSERT:
		return p.parseAssert()
	case lexer.RETURN:
		return p.parseReturn()
	}
	return p.parseExprOrAssign()
}

var augAssignOps = map[lexer.TokenType]string{
	lexer.PLUSEQ: "+=", lexer.MINUSEQ: "-=", lexer.STAREQ: "*=", lexer.SLASHEQ: "/=",
	lexer.DSLASHEQ: "//=", lexer.PERCENTEQ: "%=", lexer.DSTAREQ: "**=", lexer.AMPEQ: "&=",
	lexer.PIPEEQ: "|=", lexer.CARETEQ: "^=", lexer.LSHIFTEQ: "<<=", lexer.RSHIFTEQ: ">>=",
}

// parseExprOrAssign parses a bare expression statement, a (possibly
// chained or destructuring) assignment, an augmented assignment, or an
// annotated assignment — all of which start by parsing the same
// expression and then branch on what follows it.
func (p *Parser) parseExprOrAssign() (ast.Statement, error) {
	pos := p.cur().Pos
	first, err := p.parseTestList()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.COLON) {
		if _, isName := first.(*ast.Name); isName {
			p.advance()
			if _, err := p.parseTest(); err != nil {
				return nil, err
			}
			if p.at(lexer.ASSIGN) {
				p.advance()
				if _, err := p.parseTestList(); err != nil {
					return nil, err
				}
			}
			return &ast.AnnAssign{Base: ast.Base{P: pos}, Target: first}, nil
		}
	}

	if op, ok := augAssignOps[p.cur().Type]; ok {
		p.advance()
		value, err := p.parseTestList()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{Base: ast.Base{P: pos}, Target: first, Op: op, Value: value}, nil
	}

	if p.at(lexer.ASSIGN) {
		targets := []ast.Expression{first}
		var value ast.Expression
		for p.at(lexer.ASSIGN) {
			p.advance()
			v, err := p.parseTestList()
			if err != nil {
				return nil, err
			}
			value = v
			if p.at(lexer.ASSIGN) {
				targets = append(targets, value)
			}
		}
		return &ast.Assign{Base: ast.Base{P: pos}, Targets: targets, Value: value}, nil
	}

	return &ast.ExprStatement{Base: ast.Base{P: pos}, Value: first}, nil
}

func (p *Parser) parseDelete() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // del
	targets, err := p.parseTargetCommaList()
	if err != nil {
		return nil, err
	}
	return &ast.Delete{Base: ast.Base{P: pos}, Targets: targets}, nil
}

func (p *Parser) parseTargetCommaList() ([]ast.Expression, error) {
	first, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	targets := []ast.Expression{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if !p.atExprStart() {
			break
		}
		e, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}
		targets = append(targets, e)
	}
	return targets, nil
}

func (p *Parser) parseRaise() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // raise
	var exc ast.Expression
	if p.atExprStart() {
		e, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		exc = e
		if p.at(lexer.FROM) {
			p.advance()
			if _, err := p.parseTest(); err != nil {
				return nil, err
			}
		}
	}
	return &ast.Raise{Base: ast.Base{P: pos}, Exc: exc}, nil
}

func (p *Parser) parseDottedName() (string, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	name := tok.Literal
	for p.at(lexer.DOT) {
		p.advance()
		t2, err := p.expect(lexer.IDENT)
		if err != nil {
			return "", err
		}
		name += "." + t2.Literal
	}
	return name, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // import
	var modules []string
	for {
		name, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		if p.at(lexer.AS) {
			p.advance()
			if _, err := p.expect(lexer.IDENT); err != nil {
				return nil, err
			}
		}
		modules = append(modules, name)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Import{Base: ast.Base{P: pos}, Modules: modules}, nil
}

func (p *Parser) parseImportFrom() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // from
	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IMPORT); err != nil {
		return nil, err
	}
	var names []string
	if p.at(lexer.STAR) {
		p.advance()
		names = append(names, "*")
		return &ast.ImportFrom{Base: ast.Base{P: pos}, Module: module, Names: names}, nil
	}
	paren := false
	if p.at(lexer.LPAREN) {
		paren = true
		p.advance()
	}
	for {
		t, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, t.Literal)
		if p.at(lexer.AS) {
			p.advance()
			if _, err := p.expect(lexer.IDENT); err != nil {
				return nil, err
			}
		}
		if p.at(lexer.COMMA) {
			p.advance()
			if paren && p.at(lexer.RPAREN) {
				break
			}
			continue
		}
		break
	}
	if paren {
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
	}
	return &ast.ImportFrom{Base: ast.Base{P: pos}, Module: module, Names: names}, nil
}

func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	for {
		t, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, t.Literal)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseGlobal() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // global
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	return &ast.Global{Base: ast.Base{P: pos}, Names: names}, nil
}

func (p *Parser) parseNonlocal() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // nonlocal
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	return &ast.Nonlocal{Base: ast.Base{P: pos}, Names: names}, nil
}

func (p *Parser) parseAssert() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // assert
	test, err := p.parseTest()
	if err != nil {
		return nil, err
	}
	var msg ast.Expression
	if p.at(lexer.COMMA) {
		p.advance()
		m, err := p.parseTest()
		if err != nil {
			return nil, err
		}
		msg = m
	}
	return &ast.Assert{Base: ast.Base{P: pos}, Test: test, Msg: msg}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // return
	var value ast.Expression
	if p.atExprStart() {
		v, err := p.parseTestList()
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &ast.Return{Base: ast.Base{P: pos}, Value: value}, nil
}
