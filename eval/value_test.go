package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

func TestToBooleanFalsyAtomics(t *testing.T) {
	assert.False(t, eval.ToBoolean(nil))
	assert.False(t, eval.ToBoolean(eval.Sequence{false}))
	assert.False(t, eval.ToBoolean(eval.Sequence{0.0}))
	assert.False(t, eval.ToBoolean(eval.Sequence{""}))
	assert.False(t, eval.ToBoolean(eval.Sequence{eval.Absent{}}))
}

func TestToBooleanNodePresentIsAlwaysTrue(t *testing.T) {
	n := xmlmodel.NewText("")
	assert.True(t, eval.ToBoolean(eval.Sequence{n}))
}

func TestToStringIntegralDoubleHasNoDecimalPoint(t *testing.T) {
	assert.Equal(t, "1", eval.ToString(eval.Sequence{1.0}))
	assert.Equal(t, "true", eval.ToString(eval.Sequence{true}))
	assert.Equal(t, "false", eval.ToString(eval.Sequence{false}))
	assert.Equal(t, "", eval.ToString(nil))
}

func TestToNumberRoundTripsCanonicalStrings(t *testing.T) {
	n, err := eval.ToNumber(eval.Sequence{"42"})
	require.NoError(t, err)
	assert.Equal(t, 42.0, n)
	assert.Equal(t, "42", eval.ToString(eval.Sequence{n}))
}

func TestToNumberParseFailureIsXFDY0002(t *testing.T) {
	_, err := eval.ToNumber(eval.Sequence{"not-a-number"})
	require.Error(t, err)
	var dynErr *eval.DynamicError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, "XFDY0002", dynErr.Code())
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := eval.NewMap()
	m.Put("z", eval.Sequence{"1"})
	m.Put("a", eval.Sequence{"2"})
	assert.Equal(t, []string{"z", "a"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, eval.Sequence{"2"}, v)
}

func TestValueEqualComparesByStringValue(t *testing.T) {
	el := xmlmodel.NewElement("item")
	el.Children = []*xmlmodel.Node{xmlmodel.NewText("42")}
	assert.True(t, eval.ValueEqual(eval.Sequence{el}, eval.Sequence{"42"}))
}
