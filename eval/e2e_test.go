package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/parser"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

func run(t *testing.T, xmlSrc, moduleSrc string) string {
	t.Helper()
	doc, err := xmlmodel.Load(xmlSrc)
	require.NoError(t, err)
	mod, err := parser.ParseModule(moduleSrc)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	require.Len(t, result, 1)
	node, ok := result[0].(*xmlmodel.Node)
	require.True(t, ok)
	return xmlmodel.Serialize(node)
}

func TestIdentityStyleConstructor(t *testing.T) {
	out := run(t, `<root><a/></root>`, `xform version '2.0'; <out>{'ok'}</out>`)
	assert.Equal(t, "<out>ok</out>", out)
}

func TestPathWithPredicate(t *testing.T) {
	doc, err := xmlmodel.Load(`<data><item id="1"/><item id="2"/></data>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`/data/item[attr(., "id")="2"]`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	require.Len(t, result, 1)
	node := result[0].(*xmlmodel.Node)
	assert.Equal(t, `<item id="2"/>`, xmlmodel.Serialize(node))
}

func TestForWhereWithPositionalBuiltins(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`for n in seq(1,2,3) where n > 1 return seq(position(), last())`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	assert.Equal(t, eval.Sequence{2.0, 3.0, 3.0, 3.0}, result)
}

func TestGroupBySortLookupPipeline(t *testing.T) {
	xmlSrc := `<data>` +
		`<item><category>b</category><value>1</value></item>` +
		`<item><category>a</category><value>2</value></item>` +
		`<item><category>b</category><value>3</value></item>` +
		`</data>`
	moduleSrc := `
def catKey(i) := string(i/category/text());
def groupKey(g) := string(lookup(g, "key"));
let items := .//item in
  <report total={count(items)}>
    {for g in sort(groupBy(items, catKey), groupKey) return
      <group name={groupKey(g)} count={count(lookup(g,"items"))} />}
  </report>`
	out := run(t, xmlSrc, moduleSrc)
	assert.Equal(t, `<report total="3"><group name="a" count="1"/><group name="b" count="2"/></report>`, out)
}

func TestMatchDefaultAndErrorPath(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)

	mod, err := parser.ParseModule(`match seq('a','b'): case _ => 'ok'; default => 'x';`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	assert.Equal(t, eval.Sequence{"ok", "ok"}, result)

	mod2, err := parser.ParseModule(`match seq('a','b'): case node() => 'ok';`)
	require.NoError(t, err)
	_, err = eval.EvalModule(mod2, doc)
	require.Error(t, err)
	var dynErr *eval.DynamicError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, "XFDY0001", dynErr.Code())
}

func TestRuleDispatch(t *testing.T) {
	doc, err := xmlmodel.Load(`<root><child/><child/></root>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`rule main match <child>{v}</child> := 'ok'; apply(/root/child)`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	assert.Equal(t, eval.Sequence{"ok", "ok"}, result)

	doc2, err := xmlmodel.Load(`<root><other/></root>`)
	require.NoError(t, err)
	mod2, err := parser.ParseModule(`rule main match <child>{v}</child> := 'ok'; apply(/root/other)`)
	require.NoError(t, err)
	_, err = eval.EvalModule(mod2, doc2)
	require.Error(t, err)
	var dynErr *eval.DynamicError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, "XFDY0001", dynErr.Code())
}

func TestShortCircuitAndOr(t *testing.T) {
	doc, err := xmlmodel.Load(`<root/>`)
	require.NoError(t, err)

	mod, err := parser.ParseModule(`false and undefinedFn()`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	assert.Equal(t, eval.Sequence{false}, result)

	mod2, err := parser.ParseModule(`true or undefinedFn()`)
	require.NoError(t, err)
	result2, err := eval.EvalModule(mod2, doc)
	require.NoError(t, err)
	assert.Equal(t, eval.Sequence{true}, result2)
}

func TestConstructorDeepCopyDoesNotAliasInput(t *testing.T) {
	doc, err := xmlmodel.Load(`<root><a/></root>`)
	require.NoError(t, err)
	mod, err := parser.ParseModule(`<out>{/root/a}</out>`)
	require.NoError(t, err)
	result, err := eval.EvalModule(mod, doc)
	require.NoError(t, err)
	out := result[0].(*xmlmodel.Node)

	out.Children[0].Name = "mutated"
	root := doc.Children[0]
	assert.Equal(t, "a", root.Children[0].Name, "mutating constructor output must not affect the input tree")
}
