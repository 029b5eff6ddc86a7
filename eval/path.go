package eval

import (
	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

// EvalPath resolves a path expression's start, then threads the result
// through each step left to right.
func EvalPath(e *ast.PathExpr, ctx *Context) (Sequence, error) {
	steps := e.Steps
	var base Sequence

	switch e.Start.Kind {
	case "context", "desc":
		if ctx.Item != nil {
			base = Sequence{ctx.Item}
		}
	case "root", "desc_root":
		base = rootOf(ctx.Item)
	case "var":
		if v, ok := ctx.Vars[e.Start.Name]; ok {
			base = v
		} else {
			if ctx.Item != nil {
				base = Sequence{ctx.Item}
			}
			implicit := ast.PathStep{Axis: "child", Test: ast.StepTest{Kind: "name", Name: e.Start.Name}}
			steps = append([]ast.PathStep{implicit}, steps...)
		}
	}

	current := base
	for _, step := range steps {
		next, err := applyStep(current, step, ctx)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func rootOf(item any) Sequence {
	node, ok := item.(*xmlmodel.Node)
	if !ok {
		return nil
	}
	return Sequence{node.Root()}
}

func applyStep(items Sequence, step ast.PathStep, ctx *Context) (Sequence, error) {
	var out Sequence
	for _, item := range items {
		node, ok := item.(*xmlmodel.Node)
		if !ok {
			continue
		}

		var candidates []*xmlmodel.Node
		switch step.Axis {
		case "self":
			candidates = []*xmlmodel.Node{node}
		case "parent":
			if node.Parent != nil {
				candidates = []*xmlmodel.Node{node.Parent}
			}
		case "desc_or_self":
			candidates = append([]*xmlmodel.Node{node}, xmlmodel.Descendants(node)...)
		case "desc":
			candidates = xmlmodel.Descendants(node)
		case "attr":
			if node.Kind == xmlmodel.KindElement {
				switch step.Test.Kind {
				case "name":
					if attr := node.Attribute(step.Test.Name); attr != nil {
						candidates = []*xmlmodel.Node{attr}
					}
				case "wildcard":
					candidates = node.Attributes()
				}
			}
		default: // "child"
			if node.Kind == xmlmodel.KindElement || node.Kind == xmlmodel.KindDocument {
				candidates = node.Children
			}
		}

		// The attr axis synthesizes exactly the nodes its test names, so
		// re-filtering would reject the wildcard case (attribute nodes are
		// not elements).
		var matched []*xmlmodel.Node
		if step.Axis == "attr" {
			matched = candidates
		} else {
			for _, cand := range candidates {
				if matchesTest(cand, step.Test) {
					matched = append(matched, cand)
				}
			}
		}

		for _, cand := range matched {
			keep, err := satisfiesPredicates(cand, step.Predicates, ctx)
			if err != nil {
				return nil, err
			}
			if keep {
				out = append(out, cand)
			}
		}
	}
	return out, nil
}

func matchesTest(node *xmlmodel.Node, test ast.StepTest) bool {
	switch test.Kind {
	case "node":
		return true
	case "wildcard":
		return node.Kind == xmlmodel.KindElement
	case "text":
		return node.Kind == xmlmodel.KindText
	case "comment":
		return node.Kind == xmlmodel.KindComment
	case "pi":
		return node.Kind == xmlmodel.KindPI
	case "name":
		return node.Name == test.Name
	default:
		return false
	}
}

// satisfiesPredicates evaluates every predicate in order against cand as
// the context item; each is boolean-coerced — there is no XPath-style
// numeric-predicate-as-position-selector.
func satisfiesPredicates(cand *xmlmodel.Node, predicates []ast.Expr, ctx *Context) (bool, error) {
	predCtx := ctx.withItem(cand)
	for _, pred := range predicates {
		v, err := Eval(pred, predCtx)
		if err != nil {
			return false, err
		}
		if !ToBoolean(v) {
			return false, nil
		}
	}
	return true, nil
}
