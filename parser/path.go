package parser

import (
	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/lexer"
)

// parsePath parses a path expression. start is nil when the path begins
// with a DOT/SLASH token still unconsumed (the common case reached from
// parsePrimary); callers that already resolved a "var"-rooted path (the
// VarRef fallback) pass the start they built instead.
func (p *Parser) parsePath(start *ast.PathStart) (ast.Expr, error) {
	if start == nil {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.DOT:
			if tok.Text == ".//" {
				start = &ast.PathStart{Kind: "desc"}
			} else {
				start = &ast.PathStart{Kind: "context"}
			}
		case lexer.SLASH:
			if tok.Text == "//" {
				start = &ast.PathStart{Kind: "desc_root"}
			} else {
				start = &ast.PathStart{Kind: "root"}
			}
		default:
			return nil, &lexer.SyntaxError{Msg: "invalid path start", Pos: tok.Pos}
		}
	}

	var steps []ast.PathStep

	if start.Kind == "root" || start.Kind == "context" || start.Kind == "var" {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.AT {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			test, err := p.parseAttrTest()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: "attr", Test: test})
		} else if tok.Kind == lexer.OP && tok.Text == "*" || tok.Kind == lexer.IDENT {
			test, err := p.parseStepTest()
			if err != nil {
				return nil, err
			}
			preds, err := p.parsePredicates()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: "child", Test: test, Predicates: preds})
		}
	}

	if start.Kind == "desc" || start.Kind == "desc_root" {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.IDENT || (tok.Kind == lexer.OP && tok.Text == "*") {
			test, err := p.parseStepTest()
			if err != nil {
				return nil, err
			}
			preds, err := p.parsePredicates()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: "desc_or_self", Test: test, Predicates: preds})
		}
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.SLASH {
			axis := "child"
			if tok.Text == "//" {
				axis = "desc"
			}
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			next, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			var test ast.StepTest
			var preds []ast.Expr
			if next.Kind == lexer.AT {
				if _, err := p.lex.Next(); err != nil {
					return nil, err
				}
				test, err = p.parseAttrTest()
				if err != nil {
					return nil, err
				}
				axis = "attr"
			} else if next.Kind == lexer.DOT && next.Text == ".." {
				if _, err := p.lex.Next(); err != nil {
					return nil, err
				}
				test = ast.StepTest{Kind: "node"}
				axis = "parent"
			} else {
				test, err = p.parseStepTest()
				if err != nil {
					return nil, err
				}
				preds, err = p.parsePredicates()
				if err != nil {
					return nil, err
				}
			}
			steps = append(steps, ast.PathStep{Axis: axis, Test: test, Predicates: preds})
			continue
		}
		if tok.Kind == lexer.DOT {
			if tok.Text == "." {
				if _, err := p.lex.Next(); err != nil {
					return nil, err
				}
				next, err := p.lex.Peek()
				if err != nil {
					return nil, err
				}
				if next.Kind == lexer.AT {
					if _, err := p.lex.Next(); err != nil {
						return nil, err
					}
					test, err := p.parseAttrTest()
					if err != nil {
						return nil, err
					}
					steps = append(steps, ast.PathStep{Axis: "attr", Test: test})
				} else {
					steps = append(steps, ast.PathStep{Axis: "self", Test: ast.StepTest{Kind: "node"}})
				}
				continue
			}
			if tok.Text == ".." {
				if _, err := p.lex.Next(); err != nil {
					return nil, err
				}
				steps = append(steps, ast.PathStep{Axis: "parent", Test: ast.StepTest{Kind: "node"}})
				continue
			}
		}
		if tok.Kind == lexer.AT {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			test, err := p.parseAttrTest()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: "attr", Test: test})
			continue
		}
		break
	}

	return &ast.PathExpr{Start: *start, Steps: steps}, nil
}

// parseAttrTest parses the test following an "@": a plain attribute name
// or "*" for every attribute.
func (p *Parser) parseAttrTest() (ast.StepTest, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return ast.StepTest{}, err
	}
	if tok.Kind == lexer.OP && tok.Text == "*" {
		if _, err := p.lex.Next(); err != nil {
			return ast.StepTest{}, err
		}
		return ast.StepTest{Kind: "wildcard"}, nil
	}
	name, err := p.parseQName()
	if err != nil {
		return ast.StepTest{}, err
	}
	return ast.StepTest{Kind: "name", Name: name}, nil
}

func (p *Parser) parseStepTest() (ast.StepTest, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return ast.StepTest{}, err
	}
	if tok.Kind == lexer.OP && tok.Text == "*" {
		if _, err := p.lex.Next(); err != nil {
			return ast.StepTest{}, err
		}
		return ast.StepTest{Kind: "wildcard"}, nil
	}
	if tok.Kind == lexer.IDENT {
		switch tok.Text {
		case "text", "node", "comment", "pi":
			if _, err := p.lex.Next(); err != nil {
				return ast.StepTest{}, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, "("); err != nil {
				return ast.StepTest{}, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, ")"); err != nil {
				return ast.StepTest{}, err
			}
			return ast.StepTest{Kind: tok.Text}, nil
		}
		name, err := p.parseQName()
		if err != nil {
			return ast.StepTest{}, err
		}
		return ast.StepTest{Kind: "name", Name: name}, nil
	}
	return ast.StepTest{}, &lexer.SyntaxError{Msg: "invalid step test", Pos: tok.Pos}
}

func (p *Parser) parsePredicates() ([]ast.Expr, error) {
	var preds []ast.Expr
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if !(tok.Kind == lexer.PUNCT && tok.Text == "[") {
			return preds, nil
		}
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		pred, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.PUNCT, "]"); err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
}
