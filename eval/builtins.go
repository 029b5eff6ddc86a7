package eval

import (
	"sort"

	"github.com/arturoeanton/go-xform/xmlmodel"
)

// builtinFunc is the shape every entry in the built-in library
// implements: it receives each argument already evaluated to a
// Sequence, plus the calling context (needed by position/last and by
// any built-in that itself invokes a function reference).
type builtinFunc func(args []Sequence, ctx *Context) (Sequence, error)

func builtins() map[string]builtinFunc {
	return map[string]builtinFunc{
		"string":   fnString,
		"number":   fnNumber,
		"boolean":  fnBoolean,
		"typeOf":   fnTypeOf,
		"name":     fnName,
		"attr":     fnAttr,
		"text":     fnText,
		"children": fnChildren,
		"elements": fnElements,
		"copy":     fnCopy,
		"count":    fnCount,
		"empty":    fnEmpty,
		"distinct": fnDistinct,
		"sort":     fnSort,
		"concat":   fnConcat,
		"seq":      fnConcat,
		"head":     fnHead,
		"tail":     fnTail,
		"last":     fnLast,
		"position": fnPosition,
		"sum":      fnSum,
		"index":    fnIndex,
		"lookup":   fnLookup,
		"groupBy":  fnGroupBy,
		"apply":    fnApply,
	}
}

func arg(args []Sequence, i int) Sequence {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func fnString(args []Sequence, ctx *Context) (Sequence, error) {
	return Sequence{ToString(arg(args, 0))}, nil
}

func fnNumber(args []Sequence, ctx *Context) (Sequence, error) {
	n, err := ToNumber(arg(args, 0))
	if err != nil {
		return nil, err
	}
	return Sequence{n}, nil
}

func fnBoolean(args []Sequence, ctx *Context) (Sequence, error) {
	return Sequence{ToBoolean(arg(args, 0))}, nil
}

func fnTypeOf(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return Sequence{"null"}, nil
	}
	switch seq[0].(type) {
	case *xmlmodel.Node:
		return Sequence{"node"}, nil
	case *Map:
		return Sequence{"map"}, nil
	case bool:
		return Sequence{"boolean"}, nil
	case float64:
		return Sequence{"number"}, nil
	case Absent, nil:
		return Sequence{"null"}, nil
	default:
		return Sequence{"string"}, nil
	}
}

func fnName(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return Sequence{""}, nil
	}
	if node, ok := seq[0].(*xmlmodel.Node); ok {
		return Sequence{node.Name}, nil
	}
	return Sequence{""}, nil
}

func fnAttr(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return Sequence{""}, nil
	}
	node, ok := seq[0].(*xmlmodel.Node)
	if !ok || node.Kind != xmlmodel.KindElement {
		return Sequence{""}, nil
	}
	if len(args) < 2 {
		return Sequence{""}, nil
	}
	key := ToString(args[1])
	val, ok := node.Attrs.Get(key)
	if !ok {
		return Sequence{""}, nil
	}
	return Sequence{val}, nil
}

func fnText(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return Sequence{""}, nil
	}
	node, ok := seq[0].(*xmlmodel.Node)
	if !ok {
		return Sequence{ToString(seq)}, nil
	}
	deep := true
	if len(args) > 1 {
		deep = ToBoolean(args[1])
	}
	if deep {
		return Sequence{node.StringValue()}, nil
	}
	if node.Kind == xmlmodel.KindElement || node.Kind == xmlmodel.KindDocument {
		return Sequence{node.DirectText()}, nil
	}
	return Sequence{node.StringValue()}, nil
}

func fnChildren(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return nil, nil
	}
	node, ok := seq[0].(*xmlmodel.Node)
	if !ok {
		return nil, nil
	}
	out := make(Sequence, len(node.Children))
	for i, c := range node.Children {
		out[i] = c
	}
	return out, nil
}

func fnElements(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return nil, nil
	}
	node, ok := seq[0].(*xmlmodel.Node)
	if !ok || (node.Kind != xmlmodel.KindElement && node.Kind != xmlmodel.KindDocument) {
		return nil, nil
	}
	nameTest := ""
	if len(args) > 1 {
		nameTest = ToString(args[1])
	}
	var out Sequence
	for _, c := range node.ChildElements(nameTest) {
		out = append(out, c)
	}
	return out, nil
}

func fnCopy(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return nil, nil
	}
	node, ok := seq[0].(*xmlmodel.Node)
	if !ok {
		return nil, nil
	}
	recurse := true
	if len(args) > 1 {
		recurse = ToBoolean(args[1])
	}
	return Sequence{node.DeepCopy(recurse)}, nil
}

func fnCount(args []Sequence, ctx *Context) (Sequence, error) {
	return Sequence{float64(len(arg(args, 0)))}, nil
}

func fnEmpty(args []Sequence, ctx *Context) (Sequence, error) {
	return Sequence{len(arg(args, 0)) == 0}, nil
}

func fnDistinct(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	seen := map[string]bool{}
	var out Sequence
	for _, item := range seq {
		key := ToString(Sequence{item})
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out, nil
}

func fnSort(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	keyFn := funcRefArg(args, 1)

	out := make(Sequence, len(seq))
	copy(out, seq)

	keys := make([]string, len(out))
	for i, item := range out {
		k, err := sortKey(item, keyFn, ctx)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	sorted := make(Sequence, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted, nil
}

func sortKey(item any, keyFn *FuncRef, ctx *Context) (string, error) {
	if keyFn == nil {
		return ToString(Sequence{item}), nil
	}
	result, err := CallFunction(keyFn.Name, []Sequence{{item}}, ctx)
	if err != nil {
		return "", err
	}
	return ToString(result), nil
}

func funcRefArg(args []Sequence, i int) *FuncRef {
	seq := arg(args, i)
	if len(seq) == 0 {
		return nil
	}
	if ref, ok := seq[0].(*FuncRef); ok {
		return ref
	}
	return nil
}

func fnConcat(args []Sequence, ctx *Context) (Sequence, error) {
	var out Sequence
	for _, seq := range args {
		out = append(out, seq...)
	}
	return out, nil
}

func fnHead(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return nil, nil
	}
	return Sequence{seq[0]}, nil
}

func fnTail(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		return nil, nil
	}
	out := make(Sequence, len(seq)-1)
	copy(out, seq[1:])
	return out, nil
}

func fnLast(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	if len(seq) == 0 {
		if !ctx.HasPosition {
			return nil, nil
		}
		return Sequence{float64(ctx.Last)}, nil
	}
	return Sequence{seq[len(seq)-1]}, nil
}

func fnPosition(args []Sequence, ctx *Context) (Sequence, error) {
	if !ctx.HasPosition {
		return nil, nil
	}
	return Sequence{float64(ctx.Position)}, nil
}

func fnSum(args []Sequence, ctx *Context) (Sequence, error) {
	seq := arg(args, 0)
	total := 0.0
	for _, item := range seq {
		n, err := ToNumber(Sequence{item})
		if err != nil {
			return nil, err
		}
		total += n
	}
	return Sequence{total}, nil
}

func fnIndex(args []Sequence, ctx *Context) (Sequence, error) {
	if len(args) == 0 {
		return nil, nil
	}
	seq := args[0]
	keyFn := funcRefArg(args, 1)
	m := NewMap()
	for _, item := range seq {
		key, err := sortKey(item, keyFn, ctx)
		if err != nil {
			return nil, err
		}
		existing, _ := m.Get(key)
		m.Put(key, append(existing, item))
	}
	return Sequence{m}, nil
}

func fnLookup(args []Sequence, ctx *Context) (Sequence, error) {
	if len(args) < 2 || len(args[0]) == 0 {
		return nil, nil
	}
	m, ok := args[0][0].(*Map)
	if !ok {
		return nil, nil
	}
	key := ToString(args[1])
	val, _ := m.Get(key)
	return val, nil
}

func fnGroupBy(args []Sequence, ctx *Context) (Sequence, error) {
	if len(args) < 2 {
		return nil, nil
	}
	seq := args[0]
	keyFn := funcRefArg(args, 1)
	groups := NewMap()
	var order []string
	for _, item := range seq {
		key, err := sortKey(item, keyFn, ctx)
		if err != nil {
			return nil, err
		}
		existing, ok := groups.Get(key)
		if !ok {
			order = append(order, key)
		}
		groups.Put(key, append(existing, item))
	}
	var out Sequence
	for _, key := range order {
		items, _ := groups.Get(key)
		group := NewMap()
		group.Put("key", Sequence{key})
		group.Put("items", items)
		out = append(out, group)
	}
	return out, nil
}

func fnApply(args []Sequence, ctx *Context) (Sequence, error) {
	if len(args) == 0 {
		return nil, nil
	}
	ruleSet := "main"
	if len(args) > 1 && len(args[1]) > 0 {
		ruleSet = ToString(args[1])
	}
	return Apply(args[0], ruleSet, ctx)
}
