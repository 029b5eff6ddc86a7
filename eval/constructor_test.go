package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/parser"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

func TestConstructorWithAttributesAndMixedContent(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`<wrapper id={1+1}>hello {'world'}</wrapper>`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	require.Len(t, result, 1)
	out := result[0].(*xmlmodel.Node)
	assert.Equal(t, `<wrapper id="2">hello world</wrapper>`, xmlmodel.Serialize(out))
}

func TestConstructorWhitespaceOnlyTextIsDropped(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule("<a>\n  {'x'}\n</a>")
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	out := result[0].(*xmlmodel.Node)
	assert.Equal(t, "<a>x</a>", xmlmodel.Serialize(out))
}

func TestNestedConstructor(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`<outer><inner>{'x'}</inner></outer>`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	out := result[0].(*xmlmodel.Node)
	assert.Equal(t, "<outer><inner>x</inner></outer>", xmlmodel.Serialize(out))
}

func TestSelfClosingConstructor(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`<empty/>`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	out := result[0].(*xmlmodel.Node)
	assert.Equal(t, "<empty/>", xmlmodel.Serialize(out))
}

func TestTextConstructorStringifiesExpr(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`<a>{text{1+1}}</a>`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	out := result[0].(*xmlmodel.Node)
	assert.Equal(t, "<a>2</a>", xmlmodel.Serialize(out))
}
