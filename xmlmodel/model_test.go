package xmlmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-xform/xmlmodel"
)

func TestStringValueConcatenatesDescendantText(t *testing.T) {
	doc, err := xmlmodel.Load(`<root>a<child>b</child>c</root>`)
	require.NoError(t, err)

	root := doc.Children[0]
	assert.Equal(t, "abc", root.StringValue())
}

func TestStringValueOnTextAndAttribute(t *testing.T) {
	text := xmlmodel.NewText("hi")
	assert.Equal(t, "hi", text.StringValue())

	el := xmlmodel.NewElement("item")
	el.Attrs.Put("id", "7")
	attr := el.Attribute("id")
	assert.Equal(t, "7", attr.StringValue())
}

func TestDeepCopyIsIndependentOfSource(t *testing.T) {
	doc, err := xmlmodel.Load(`<root><a/></root>`)
	require.NoError(t, err)
	root := doc.Children[0]

	cp := root.DeepCopy(true)
	cp.Children = append(cp.Children, xmlmodel.NewElement("injected"))

	assert.Len(t, root.Children, 1, "mutating the copy must not affect the source tree")
	assert.Len(t, cp.Children, 2)
	assert.Nil(t, cp.Parent, "a fresh deep copy has no parent of its own")
	assert.Same(t, cp, cp.Children[0].Parent, "copied children must point back at the new root")
}

func TestDeepCopyShallowSkipsChildren(t *testing.T) {
	doc, err := xmlmodel.Load(`<root><a/></root>`)
	require.NoError(t, err)
	root := doc.Children[0]

	cp := root.DeepCopy(false)
	assert.Empty(t, cp.Children)
}

func TestDescendantsAreDocumentOrder(t *testing.T) {
	doc, err := xmlmodel.Load(`<root><a><b/></a><c/></root>`)
	require.NoError(t, err)
	root := doc.Children[0]

	var names []string
	for _, d := range xmlmodel.Descendants(root) {
		if d.Kind == xmlmodel.KindElement {
			names = append(names, d.Name)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestAttributesPreserveInsertionOrder(t *testing.T) {
	doc, err := xmlmodel.Load(`<item z="1" a="2"/>`)
	require.NoError(t, err)
	root := doc.Children[0]

	var names []string
	for _, a := range root.Attributes() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"z", "a"}, names)
}

func TestDirectTextOnlyConcatenatesDirectChildren(t *testing.T) {
	doc, err := xmlmodel.Load(`<root>a<child>nope</child>b</root>`)
	require.NoError(t, err)
	root := doc.Children[0]

	assert.Equal(t, "ab", root.DirectText())
	assert.Equal(t, "anopeb", root.StringValue())
}
