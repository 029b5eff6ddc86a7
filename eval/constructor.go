package eval

import (
	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

// EvalConstructor builds a fresh element with the constructor's literal
// tag name. Attribute expressions are stringified in declaration order;
// content items that evaluate to nodes are deep-copied (never aliased
// from the input tree), and atomics are stringified into text children.
func EvalConstructor(e *ast.Constructor, ctx *Context) (*xmlmodel.Node, error) {
	node := xmlmodel.NewElement(e.Name)

	for _, attr := range e.Attrs {
		v, err := Eval(attr.Value, ctx)
		if err != nil {
			return nil, err
		}
		node.Attrs.Put(attr.Name, ToString(v))
	}

	var children []*xmlmodel.Node
	for _, content := range e.Contents {
		if text, ok := content.(*ast.Text); ok {
			children = append(children, xmlmodel.NewText(text.Value))
			continue
		}
		seq, err := Eval(content, ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range seq {
			if n, ok := item.(*xmlmodel.Node); ok {
				children = append(children, n.DeepCopy(true))
			} else {
				children = append(children, xmlmodel.NewText(stringOf(item)))
			}
		}
	}
	for _, c := range children {
		c.Parent = node
	}
	node.Children = children
	return node, nil
}
