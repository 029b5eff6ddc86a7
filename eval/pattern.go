package eval

import (
	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

// MatchPattern tests item against pattern, shared by match expressions
// and rule dispatch. It reports whether the pattern matched and, if so,
// any variable bindings it produced.
func MatchPattern(pattern ast.Pattern, item any) (bool, map[string]Sequence) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil

	case *ast.AttributePattern:
		node, ok := item.(*xmlmodel.Node)
		if ok && node.Kind == xmlmodel.KindAttribute && node.Name == p.Name {
			return true, nil
		}
		return false, nil

	case *ast.TypedPattern:
		node, ok := item.(*xmlmodel.Node)
		if !ok {
			return false, nil
		}
		switch p.Kind {
		case "node":
			return true, nil
		case "text":
			return node.Kind == xmlmodel.KindText, nil
		case "comment":
			return node.Kind == xmlmodel.KindComment, nil
		}
		return false, nil

	case *ast.ElementPattern:
		node, ok := item.(*xmlmodel.Node)
		if !ok || node.Kind != xmlmodel.KindElement || node.Name != p.Name {
			return false, nil
		}
		if p.Var != "" {
			children := make(Sequence, len(node.Children))
			for i, c := range node.Children {
				children[i] = c
			}
			return true, map[string]Sequence{p.Var: children}
		}
		if p.Child != nil {
			for _, c := range node.Children {
				if ok, bindings := MatchPattern(p.Child, c); ok {
					return true, bindings
				}
			}
			return false, nil
		}
		return true, nil
	}
	return false, nil
}
