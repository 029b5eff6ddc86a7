package parser

import (
	"strings"

	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/lexer"
)

// parseConstructor parses an element constructor. The opening tag
// (`<name attr={expr}...>` or the self-closing `<name attr={expr}.../>`)
// is read through the token lexer like any other expression; once past
// the closing `>`, the lexer's buffer is discarded and the remaining
// content is read directly out of the source buffer in character-data
// mode, re-entering token mode only inside `{...}` interpolations and
// `text{...}` constructors, and when a nested `<...>` constructor begins.
func (p *Parser) parseConstructor() (ast.Expr, error) {
	if _, err := p.lex.Expect(lexer.OP, "<"); err != nil {
		return nil, err
	}
	name, err := p.parseQName()
	if err != nil {
		return nil, err
	}

	var attrs []ast.ConstructorAttr
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.OP && tok.Text == ">" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			break
		}
		if tok.Kind == lexer.SLASH && tok.Text == "/" {
			if _, err := p.lex.Next(); err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.OP, ">"); err != nil {
				return nil, err
			}
			return &ast.Constructor{Name: name, Attrs: attrs}, nil
		}
		attrName, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.OP, "="); err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.PUNCT, "{"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.PUNCT, "}"); err != nil {
			return nil, err
		}
		attrs = append(attrs, ast.ConstructorAttr{Name: attrName, Value: value})
	}

	var contents []ast.Expr
	p.lex.Discard()
	for {
		if p.lex.Pos >= len(p.src) {
			return nil, &lexer.SyntaxError{Msg: "unterminated constructor", Pos: p.lex.Pos}
		}
		if strings.HasPrefix(p.src[p.lex.Pos:], "</") {
			endName, newPos, err := p.readEndTag()
			if err != nil {
				return nil, err
			}
			if endName != name {
				return nil, &lexer.SyntaxError{Msg: "mismatched end tag", Pos: p.lex.Pos}
			}
			p.lex.Reset(newPos)
			break
		}
		if strings.HasPrefix(p.src[p.lex.Pos:], "text{") {
			p.lex.Pos += 4
			p.lex.Discard()
			if _, err := p.lex.Expect(lexer.PUNCT, "{"); err != nil {
				return nil, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, "}"); err != nil {
				return nil, err
			}
			contents = append(contents, &ast.TextConstructor{Expr: expr})
			continue
		}
		ch := p.src[p.lex.Pos]
		if ch == '<' {
			p.lex.Discard()
			nested, err := p.parseConstructor()
			if err != nil {
				return nil, err
			}
			contents = append(contents, nested)
			continue
		}
		if ch == '{' {
			p.lex.Pos++
			p.lex.Discard()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.lex.Expect(lexer.PUNCT, "}"); err != nil {
				return nil, err
			}
			contents = append(contents, &ast.Interp{Expr: expr})
			continue
		}
		text := p.parseCharData()
		if text != "" && strings.TrimSpace(text) != "" {
			contents = append(contents, &ast.Text{Value: text})
		}
	}

	return &ast.Constructor{Name: name, Attrs: attrs, Contents: contents}, nil
}

func (p *Parser) parseCharData() string {
	start := p.lex.Pos
	for p.lex.Pos < len(p.src) {
		ch := p.src[p.lex.Pos]
		if ch == '<' || ch == '{' {
			break
		}
		p.lex.Pos++
	}
	return p.src[start:p.lex.Pos]
}

func (p *Parser) readEndTag() (name string, newPos int, err error) {
	pos := p.lex.Pos
	if !strings.HasPrefix(p.src[pos:], "</") {
		return "", 0, &lexer.SyntaxError{Msg: "expected end tag", Pos: pos}
	}
	pos += 2
	start := pos
	for pos < len(p.src) && (isNameByte(p.src[pos])) {
		pos++
	}
	name = p.src[start:pos]
	for pos < len(p.src) && isSpaceByte(p.src[pos]) {
		pos++
	}
	if pos >= len(p.src) || p.src[pos] != '>' {
		return "", 0, &lexer.SyntaxError{Msg: "unterminated end tag", Pos: pos}
	}
	return name, pos + 1, nil
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == ':' || c == '-'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
