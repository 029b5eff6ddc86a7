package parser

import (
	"strconv"

	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/lexer"
)

// parseExpr is the entry point for any expression: it dispatches the
// control forms (if/let/for/match), falling through to the binary
// precedence ladder for everything else.
func (p *Parser) parseExpr() (ast.Expr, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.KW {
		switch tok.Text {
		case "if":
			return p.parseIf()
		case "let":
			return p.parseLet()
		case "for":
			return p.parseFor()
		case "match":
			return p.parseMatch()
		}
	}
	return p.parseOr()
}

func (p *Parser) parseIf() (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.KW, "if"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.KW, "then"); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.KW, "else"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.IfExpr{Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (p *Parser) parseLet() (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.KW, "let"); err != nil {
		return nil, err
	}
	name, err := p.lex.Expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.OP, ":="); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.KW, "in"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LetExpr{Name: name.Text, Value: value, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.KW, "for"); err != nil {
		return nil, err
	}
	name, err := p.lex.Expect(lexer.IDENT, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.KW, "in"); err != nil {
		return nil, err
	}
	seq, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var where ast.Expr
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.KW && tok.Text == "where" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		where, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.lex.Expect(lexer.KW, "return"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ForExpr{Name: name.Text, Seq: seq, Where: where, Body: body}, nil
}

func (p *Parser) parseMatch() (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.KW, "match"); err != nil {
		return nil, err
	}
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ":"); err != nil {
		return nil, err
	}
	var cases []ast.MatchCase
	var def ast.Expr
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.KW && tok.Text == "case" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			pattern, err := p.parsePattern()
			if err != nil {
				return nil, err
			}
			// "=>" is lexed as two adjacent single-char operator tokens.
			if _, err := p.lex.Expect(lexer.OP, "="); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.OP, ">"); err != nil {
				return nil, err
			}
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
				return nil, err
			}
			cases = append(cases, ast.MatchCase{Pattern: pattern, Body: body})
			continue
		}
		if tok.Kind == lexer.KW && tok.Text == "default" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.OP, "="); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.OP, ">"); err != nil {
				return nil, err
			}
			def, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
				return nil, err
			}
			break
		}
		break
	}
	return &ast.MatchExpr{Target: target, Cases: cases, Default: def}, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.KW && tok.Text == "or") {
			return left, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: "or", Left: left, Right: right}
	}
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEq()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.KW && tok.Text == "and") {
			return left, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		right, err := p.parseEq()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: "and", Left: left, Right: right}
	}
}

func (p *Parser) parseEq() (ast.Expr, error) {
	left, err := p.parseRel()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.OP && (tok.Text == "=" || tok.Text == "!=")) {
			return left, nil
		}
		op, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		right, err := p.parseRel()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Text, Left: left, Right: right}
	}
}

func (p *Parser) parseRel() (ast.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.OP && (tok.Text == "<" || tok.Text == "<=" || tok.Text == ">" || tok.Text == ">=")) {
			return left, nil
		}
		op, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Text, Left: left, Right: right}
	}
}

func (p *Parser) parseAdd() (ast.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.OP && (tok.Text == "+" || tok.Text == "-")) {
			return left, nil
		}
		op, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Text, Left: left, Right: right}
	}
}

func (p *Parser) parseMul() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.OP && tok.Text == "*" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryOp{Op: "*", Left: left, Right: right}
			continue
		}
		if tok.Kind == lexer.KW && (tok.Text == "div" || tok.Text == "mod") {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &ast.BinaryOp{Op: tok.Text, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.OP && tok.Text == "-" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "-", Expr: operand}, nil
	}
	if tok.Kind == lexer.KW && tok.Text == "not" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "not", Expr: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.NUMBER:
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &lexer.SyntaxError{Msg: "invalid number literal " + strconv.Quote(tok.Text), Pos: tok.Pos}
		}
		return &ast.Literal{Value: n}, nil

	case lexer.STRING:
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Value: tok.Text}, nil

	case lexer.PUNCT:
		if tok.Text == "(" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, ")"); err != nil {
				return nil, err
			}
			return expr, nil
		}

	case lexer.IDENT:
		if tok.Text == "true" || tok.Text == "false" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			return &ast.Literal{Value: tok.Text == "true"}, nil
		}
		if tok.Text == "text" {
			savedPos := tok.Pos
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			next, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if next.Kind == lexer.PUNCT && next.Text == "{" {
				if _, err := p.lex.Next(); err != nil {
					return nil, err
				}
				expr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if _, err := p.lex.Expect(lexer.PUNCT, "}"); err != nil {
					return nil, err
				}
				return &ast.TextConstructor{Expr: expr}, nil
			}
			p.lex.Reset(savedPos)
		}

	case lexer.OP:
		if tok.Text == "<" {
			return p.parseConstructor()
		}

	case lexer.DOT, lexer.SLASH:
		return p.parsePath(nil)

	case lexer.AT:
		// Attribute shorthand: @name (or @*) is a context-rooted attr step.
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		test, err := p.parseAttrTest()
		if err != nil {
			return nil, err
		}
		return &ast.PathExpr{
			Start: ast.PathStart{Kind: "context"},
			Steps: []ast.PathStep{{Axis: "attr", Test: test}},
		}, nil
	}

	if tok.Kind == lexer.IDENT {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		next, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == lexer.PUNCT && next.Text == "(" {
			return p.parseFuncCall(tok.Text)
		}
		if continues, err := p.pathContinues(); err != nil {
			return nil, err
		} else if continues {
			return p.parsePath(&ast.PathStart{Kind: "var", Name: tok.Text})
		}
		return &ast.VarRef{Name: tok.Text}, nil
	}

	return nil, &lexer.SyntaxError{Msg: "unexpected token", Pos: tok.Pos}
}

func (p *Parser) parseFuncCall(name string) (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.PUNCT, "("); err != nil {
		return nil, err
	}
	var args []ast.Expr
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if !(tok.Kind == lexer.PUNCT && tok.Text == ")") {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for {
			tok, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if !(tok.Kind == lexer.PUNCT && tok.Text == ",") {
				break
			}
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ")"); err != nil {
		return nil, err
	}
	return &ast.FuncCall{Name: name, Args: args}, nil
}

func (p *Parser) pathContinues() (bool, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return false, err
	}
	return tok.Kind == lexer.SLASH || tok.Kind == lexer.DOT || tok.Kind == lexer.AT, nil
}
