package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/lexer"
)

func collect(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			return toks
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect(t, "let x in for")
	assert.Equal(t, lexer.KW, toks[0].Kind)
	assert.Equal(t, lexer.IDENT, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Text)
	assert.Equal(t, lexer.KW, toks[2].Kind)
	assert.Equal(t, lexer.KW, toks[3].Kind)
}

func TestQualifiedIdentifierEmbedsColon(t *testing.T) {
	toks := collect(t, "prefix:local")
	require.Equal(t, lexer.IDENT, toks[0].Kind)
	assert.Equal(t, "prefix:local", toks[0].Text)
}

func TestTwoCharOperators(t *testing.T) {
	toks := collect(t, "<= >= != == :=")
	assert.Equal(t, "<=", toks[0].Text)
	assert.Equal(t, ">=", toks[1].Text)
	assert.Equal(t, "!=", toks[2].Text)
	assert.Equal(t, "==", toks[3].Text)
	assert.Equal(t, ":=", toks[4].Text)
}

func TestDotAndSlashVariants(t *testing.T) {
	toks := collect(t, ". .. .// / //")
	assert.Equal(t, lexer.DOT, toks[0].Kind)
	assert.Equal(t, ".", toks[0].Text)
	assert.Equal(t, "..", toks[1].Text)
	assert.Equal(t, ".//", toks[2].Text)
	assert.Equal(t, lexer.SLASH, toks[3].Kind)
	assert.Equal(t, "/", toks[3].Text)
	assert.Equal(t, "//", toks[4].Text)
}

func TestStringEscapes(t *testing.T) {
	toks := collect(t, `'a\nb\tcA'`)
	require.Equal(t, lexer.STRING, toks[0].Kind)
	assert.Equal(t, "a\nb\tcA", toks[0].Text)
}

func TestCommentsAndWhitespaceSkipped(t *testing.T) {
	toks := collect(t, "let # trailing comment\n x")
	assert.Equal(t, lexer.KW, toks[0].Kind)
	assert.Equal(t, lexer.IDENT, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Text)
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	l := lexer.New(`'abc`)
	_, err := l.Next()
	require.Error(t, err)
	var syn *lexer.SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := lexer.New("if then")
	first, err := l.Peek()
	require.NoError(t, err)
	second, err := l.Peek()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	consumed, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, first, consumed)
}

func TestResetResumesScanningAtOffset(t *testing.T) {
	l := lexer.New("abc{xyz}")
	l.Reset(3)
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, lexer.PUNCT, tok.Kind)
	assert.Equal(t, "{", tok.Text)
}
