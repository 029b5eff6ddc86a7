package parser

import (
	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/lexer"
)

// parsePattern parses the shared pattern grammar used by both match
// expressions and rule definitions.
func (p *Parser) parsePattern() (ast.Pattern, error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == lexer.AT {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		name, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		return &ast.AttributePattern{Name: name}, nil
	}

	if tok.Kind == lexer.IDENT {
		switch tok.Text {
		case "node", "text", "comment":
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, "("); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, ")"); err != nil {
				return nil, err
			}
			return &ast.TypedPattern{Kind: tok.Text}, nil
		case "_":
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			return &ast.WildcardPattern{}, nil
		}
	}

	if tok.Kind == lexer.OP && tok.Text == "<" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		name, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.OP, ">"); err != nil {
			return nil, err
		}

		var varName string
		var child ast.Pattern

		next, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		switch {
		case next.Kind == lexer.PUNCT && next.Text == "{":
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			v, err := p.lex.Expect(lexer.IDENT, "")
			if err != nil {
				return nil, err
			}
			varName = v.Text
			if _, err := p.lex.Expect(lexer.PUNCT, "}"); err != nil {
				return nil, err
			}
		case next.Kind == lexer.OP && next.Text == "<":
			child, err = p.parsePattern()
			if err != nil {
				return nil, err
			}
		default:
			return nil, &lexer.SyntaxError{Msg: "invalid element pattern content", Pos: next.Pos}
		}

		if _, err := p.lex.Expect(lexer.OP, "<"); err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.SLASH, "/"); err != nil {
			return nil, err
		}
		end, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		if end != name {
			return nil, &lexer.SyntaxError{Msg: "mismatched pattern end tag", Pos: tok.Pos}
		}
		if _, err := p.lex.Expect(lexer.OP, ">"); err != nil {
			return nil, err
		}
		return &ast.ElementPattern{Name: name, Var: varName, Child: child}, nil
	}

	return nil, &lexer.SyntaxError{Msg: "invalid pattern", Pos: tok.Pos}
}
