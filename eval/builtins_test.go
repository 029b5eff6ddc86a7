package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/parser"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

func evalExpr(t *testing.T, src string) eval.Sequence {
	t.Helper()
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(src)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	return result
}

func TestConcatLengthAndOrder(t *testing.T) {
	result := evalExpr(t, `concat(seq(1,2), seq(3,4,5))`)
	assert.Equal(t, eval.Sequence{1.0, 2.0, 3.0, 4.0, 5.0}, result)
}

func TestDistinctPreservesFirstOccurrenceOrder(t *testing.T) {
	result := evalExpr(t, `distinct(seq('b', 'a', 'b', 'c', 'a'))`)
	assert.Equal(t, eval.Sequence{"b", "a", "c"}, result)
}

func TestSortIsStableUnderEqualKeys(t *testing.T) {
	result := evalExpr(t, `def parity(x) := x mod 2; sort(seq(3, 1, 2, 4), parity)`)
	assert.Equal(t, eval.Sequence{2.0, 4.0, 3.0, 1.0}, result)
}

func TestHeadTailLast(t *testing.T) {
	assert.Equal(t, eval.Sequence{1.0}, evalExpr(t, `head(seq(1,2,3))`))
	assert.Equal(t, eval.Sequence{2.0, 3.0}, evalExpr(t, `tail(seq(1,2,3))`))
	assert.Equal(t, eval.Sequence{3.0}, evalExpr(t, `last(seq(1,2,3))`))
}

func TestSumAddsToNumberOfEachItem(t *testing.T) {
	assert.Equal(t, eval.Sequence{6.0}, evalExpr(t, `sum(seq(1,2,3))`))
}

func TestEmptyAndCount(t *testing.T) {
	assert.Equal(t, eval.Sequence{true}, evalExpr(t, `empty(seq())`))
	assert.Equal(t, eval.Sequence{3.0}, evalExpr(t, `count(seq(1,2,3))`))
}

func TestUnknownFunctionIsXFST0003(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`thisFunctionDoesNotExist(1)`)
	require.NoError(t, err)
	_, err = eval.EvalModule(mod, doc)
	require.Error(t, err)
	var staticErr *eval.StaticError
	require.ErrorAs(t, err, &staticErr)
	assert.Equal(t, "XFST0003", staticErr.Code())
}

func TestUserFunctionArityErrors(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)

	mod, err := parser.ParseModule(`def f(a, b) := a; f(1,2,3)`)
	require.NoError(t, err)
	_, err = eval.EvalModule(mod, doc)
	require.Error(t, err)
	var dynErr *eval.DynamicError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, "XFDY0002", dynErr.Code())

	mod2, err := parser.ParseModule(`def f(a, b) := a; f(1)`)
	require.NoError(t, err)
	_, err = eval.EvalModule(mod2, doc)
	require.Error(t, err)
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, "XFDY0002", dynErr.Code())
}

func TestUserFunctionDefaultsEvaluatedInCallerContext(t *testing.T) {
	result := evalExpr(t, `var x := 10; def f(a, b := x) := a + b; f(5)`)
	assert.Equal(t, eval.Sequence{15.0}, result)
}
