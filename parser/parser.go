// Package parser implements XForm's recursive-descent grammar: module
// structure, the expression precedence ladder, and the two sub-grammars
// that the lexer alone cannot drive (element constructors and patterns),
// producing the ast package's tagged variant types.
package parser

import (
	"strconv"

	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/lexer"
)

// Parser holds the lexer driving one module's worth of source text. The
// source string is kept alongside the lexer because the constructor
// sub-grammar reads directly out of it, bypassing tokenization.
type Parser struct {
	src string
	lex *lexer.Lexer
}

// ParseModule parses src as a complete XForm module.
func ParseModule(src string) (*ast.Module, error) {
	p := &Parser{src: src, lex: lexer.New(src)}
	return p.parseModule()
}

func (p *Parser) parseModule() (*ast.Module, error) {
	mod := &ast.Module{
		Version:    "2.0",
		Functions:  map[string]*ast.FunctionDef{},
		Rules:      map[string][]*ast.RuleDef{},
		Vars:       map[string]ast.Expr{},
		Namespaces: map[string]string{},
	}

	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == lexer.KW && tok.Text == "xform" {
		if _, err := p.lex.Next(); err != nil {
			return nil, err
		}
		if _, err := p.lex.Expect(lexer.KW, "version"); err != nil {
			return nil, err
		}
		verTok, err := p.lex.Expect(lexer.STRING, "")
		if err != nil {
			return nil, err
		}
		if verTok.Text != "2.0" {
			return nil, &eval.StaticError{ErrCode: "XFST0005", Msg: "unsupported version " + strconv.Quote(verTok.Text)}
		}
		mod.Version = verTok.Text
		if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
			return nil, err
		}
	}

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.KW {
			break
		}
		switch tok.Text {
		case "ns":
			if err := p.parseNS(mod); err != nil {
				return nil, err
			}
			continue
		case "import":
			if err := p.parseImport(mod); err != nil {
				return nil, err
			}
			continue
		case "var":
			if err := p.parseVar(mod); err != nil {
				return nil, err
			}
			continue
		case "def":
			if err := p.parseDef(mod); err != nil {
				return nil, err
			}
			continue
		case "rule":
			if err := p.parseRule(mod); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	tok, err = p.lex.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != lexer.EOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		mod.Expr = expr
		tok, err = p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != lexer.EOF {
			return nil, &lexer.SyntaxError{Msg: "unexpected trailing token", Pos: tok.Pos}
		}
	}
	return mod, nil
}

func (p *Parser) parseNS(mod *ast.Module) error {
	if _, err := p.lex.Expect(lexer.KW, "ns"); err != nil {
		return err
	}
	prefix, err := p.lex.Expect(lexer.STRING, "")
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.OP, "="); err != nil {
		return err
	}
	uri, err := p.lex.Expect(lexer.STRING, "")
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
		return err
	}
	mod.Namespaces[prefix.Text] = uri.Text
	return nil
}

func (p *Parser) parseImport(mod *ast.Module) error {
	if _, err := p.lex.Expect(lexer.KW, "import"); err != nil {
		return err
	}
	iri, err := p.lex.Expect(lexer.STRING, "")
	if err != nil {
		return err
	}
	imp := ast.Import{IRI: iri.Text}
	tok, err := p.lex.Peek()
	if err != nil {
		return err
	}
	if tok.Kind == lexer.KW && tok.Text == "as" {
		if _, err := p.lex.Next(); err != nil {
			return err
		}
		alias, err := p.lex.Expect(lexer.IDENT, "")
		if err != nil {
			return err
		}
		imp.As = alias.Text
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
		return err
	}
	mod.Imports = append(mod.Imports, imp)
	return nil
}

func (p *Parser) parseVar(mod *ast.Module) error {
	if _, err := p.lex.Expect(lexer.KW, "var"); err != nil {
		return err
	}
	name, err := p.lex.Expect(lexer.IDENT, "")
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.OP, ":="); err != nil {
		return err
	}
	value, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
		return err
	}
	if _, exists := mod.Vars[name.Text]; !exists {
		mod.VarOrder = append(mod.VarOrder, name.Text)
	}
	mod.Vars[name.Text] = value
	return nil
}

func (p *Parser) parseDef(mod *ast.Module) error {
	if _, err := p.lex.Expect(lexer.KW, "def"); err != nil {
		return err
	}
	name, err := p.parseQName()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, "("); err != nil {
		return err
	}
	var params []ast.Param
	tok, err := p.lex.Peek()
	if err != nil {
		return err
	}
	if !(tok.Kind == lexer.PUNCT && tok.Text == ")") {
		param, err := p.parseParam()
		if err != nil {
			return err
		}
		params = append(params, param)
		for {
			tok, err := p.lex.Peek()
			if err != nil {
				return err
			}
			if !(tok.Kind == lexer.PUNCT && tok.Text == ",") {
				break
			}
			if _, err := p.lex.Next(); err != nil {
				return err
			}
			param, err := p.parseParam()
			if err != nil {
				return err
			}
			params = append(params, param)
		}
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ")"); err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.OP, ":="); err != nil {
		return err
	}
	body, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
		return err
	}
	mod.Functions[name] = &ast.FunctionDef{Params: params, Body: body}
	return nil
}

func (p *Parser) parseParam() (ast.Param, error) {
	name, err := p.lex.Expect(lexer.IDENT, "")
	if err != nil {
		return ast.Param{}, err
	}
	param := ast.Param{Name: name.Text}
	tok, err := p.lex.Peek()
	if err != nil {
		return ast.Param{}, err
	}
	if tok.Kind == lexer.PUNCT && tok.Text == ":" {
		if _, err := p.lex.Next(); err != nil {
			return ast.Param{}, err
		}
		typ, err := p.parseQName()
		if err != nil {
			return ast.Param{}, err
		}
		param.Type = typ
	}
	tok, err = p.lex.Peek()
	if err != nil {
		return ast.Param{}, err
	}
	if tok.Kind == lexer.OP && tok.Text == ":=" {
		if _, err := p.lex.Next(); err != nil {
			return ast.Param{}, err
		}
		def, err := p.parseExpr()
		if err != nil {
			return ast.Param{}, err
		}
		param.Default = def
	}
	return param, nil
}

func (p *Parser) parseRule(mod *ast.Module) error {
	if _, err := p.lex.Expect(lexer.KW, "rule"); err != nil {
		return err
	}
	name, err := p.parseQName()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.KW, "match"); err != nil {
		return err
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.OP, ":="); err != nil {
		return err
	}
	body, err := p.parseExpr()
	if err != nil {
		return err
	}
	if _, err := p.lex.Expect(lexer.PUNCT, ";"); err != nil {
		return err
	}
	mod.Rules[name] = append(mod.Rules[name], &ast.RuleDef{Pattern: pattern, Body: body})
	return nil
}

func (p *Parser) parseQName() (string, error) {
	tok, err := p.lex.Expect(lexer.IDENT, "")
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}
