package eval

import (
	"math"

	"github.com/arturoeanton/go-xform/ast"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

// EvalModule seeds a Context with doc as the context item, binds
// module-level variables in declaration order (each initializer sees
// every previously-bound variable), and evaluates the module's top-level
// expression. A module with no top-level expression evaluates to the
// empty sequence.
func EvalModule(mod *ast.Module, doc *xmlmodel.Node) (Sequence, error) {
	ctx := &Context{
		Item:      doc,
		Vars:      map[string]Sequence{},
		Functions: mod.Functions,
		Rules:     mod.Rules,
	}
	for _, name := range mod.VarOrder {
		value, err := Eval(mod.Vars[name], ctx)
		if err != nil {
			return nil, err
		}
		ctx.Vars[name] = value
	}
	if mod.Expr == nil {
		return nil, nil
	}
	return Eval(mod.Expr, ctx)
}

// Eval evaluates a single expression in ctx, returning its result
// sequence.
func Eval(expr ast.Expr, ctx *Context) (Sequence, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return Sequence{e.Value}, nil

	case *ast.VarRef:
		return evalVarRef(e, ctx), nil

	case *ast.IfExpr:
		cond, err := Eval(e.Cond, ctx)
		if err != nil {
			return nil, err
		}
		if ToBoolean(cond) {
			return Eval(e.Then, ctx)
		}
		return Eval(e.Else, ctx)

	case *ast.LetExpr:
		value, err := Eval(e.Value, ctx)
		if err != nil {
			return nil, err
		}
		return Eval(e.Body, ctx.withVar(e.Name, value))

	case *ast.ForExpr:
		return evalFor(e, ctx)

	case *ast.MatchExpr:
		return evalMatch(e, ctx)

	case *ast.FuncCall:
		args := make([]Sequence, len(e.Args))
		for i, a := range e.Args {
			v, err := Eval(a, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return CallFunction(e.Name, args, ctx)

	case *ast.UnaryOp:
		val, err := Eval(e.Expr, ctx)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "-":
			n, err := ToNumber(val)
			if err != nil {
				return nil, err
			}
			return Sequence{-n}, nil
		case "not":
			return Sequence{!ToBoolean(val)}, nil
		}
		return nil, &RuntimeError{Msg: "unknown unary operator " + e.Op}

	case *ast.BinaryOp:
		return evalBinaryOp(e, ctx)

	case *ast.PathExpr:
		return EvalPath(e, ctx)

	case *ast.Constructor:
		node, err := EvalConstructor(e, ctx)
		if err != nil {
			return nil, err
		}
		return Sequence{node}, nil

	case *ast.TextConstructor:
		v, err := Eval(e.Expr, ctx)
		if err != nil {
			return nil, err
		}
		return Sequence{xmlmodel.NewText(ToString(v))}, nil

	case *ast.Text:
		return Sequence{e.Value}, nil

	case *ast.Interp:
		return Eval(e.Expr, ctx)
	}
	return nil, &RuntimeError{Msg: "unknown expression form"}
}

// evalVarRef implements the four-rule VarRef resolution order: variable
// environment, then function table (as a function-reference value),
// then — if the context item is an element — its matching child
// elements, then the empty sequence. This makes a bare identifier double
// as a child-axis name test.
func evalVarRef(e *ast.VarRef, ctx *Context) Sequence {
	if v, ok := ctx.Vars[e.Name]; ok {
		return v
	}
	if _, ok := ctx.Functions[e.Name]; ok {
		return Sequence{&FuncRef{Name: e.Name}}
	}
	if node, ok := ctx.Item.(*xmlmodel.Node); ok && node.Kind == xmlmodel.KindElement {
		var out Sequence
		for _, c := range node.ChildElements(e.Name) {
			out = append(out, c)
		}
		return out
	}
	return nil
}

func evalFor(e *ast.ForExpr, ctx *Context) (Sequence, error) {
	seq, err := Eval(e.Seq, ctx)
	if err != nil {
		return nil, err
	}
	total := len(seq)
	var out Sequence
	for i, item := range seq {
		iterCtx := ctx.withIteration(e.Name, item, i+1, total)
		if e.Where != nil {
			cond, err := Eval(e.Where, iterCtx)
			if err != nil {
				return nil, err
			}
			if !ToBoolean(cond) {
				continue
			}
		}
		body, err := Eval(e.Body, iterCtx)
		if err != nil {
			return nil, err
		}
		out = append(out, body...)
	}
	return out, nil
}

func evalMatch(e *ast.MatchExpr, ctx *Context) (Sequence, error) {
	target, err := Eval(e.Target, ctx)
	if err != nil {
		return nil, err
	}
	var out Sequence
	for _, item := range target {
		matchedAny := false
		for _, c := range e.Cases {
			ok, bindings := MatchPattern(c.Pattern, item)
			if !ok {
				continue
			}
			matchedAny = true
			body, err := Eval(c.Body, ctx.withBindings(item, bindings))
			if err != nil {
				return nil, err
			}
			out = append(out, body...)
			break
		}
		if matchedAny {
			continue
		}
		if e.Default == nil {
			return nil, &DynamicError{ErrCode: "XFDY0001", Msg: "no matching case"}
		}
		body, err := Eval(e.Default, ctx.withItem(item))
		if err != nil {
			return nil, err
		}
		out = append(out, body...)
	}
	return out, nil
}

func evalBinaryOp(e *ast.BinaryOp, ctx *Context) (Sequence, error) {
	switch e.Op {
	case "and":
		left, err := Eval(e.Left, ctx)
		if err != nil {
			return nil, err
		}
		if !ToBoolean(left) {
			return Sequence{false}, nil
		}
		right, err := Eval(e.Right, ctx)
		if err != nil {
			return nil, err
		}
		return Sequence{ToBoolean(right)}, nil

	case "or":
		left, err := Eval(e.Left, ctx)
		if err != nil {
			return nil, err
		}
		if ToBoolean(left) {
			return Sequence{true}, nil
		}
		right, err := Eval(e.Right, ctx)
		if err != nil {
			return nil, err
		}
		return Sequence{ToBoolean(right)}, nil
	}

	left, err := Eval(e.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "=":
		return Sequence{ValueEqual(left, right)}, nil
	case "!=":
		return Sequence{!ValueEqual(left, right)}, nil
	}

	if e.Op == "<" || e.Op == "<=" || e.Op == ">" || e.Op == ">=" ||
		e.Op == "+" || e.Op == "-" || e.Op == "*" || e.Op == "div" || e.Op == "mod" {
		lnum, err := ToNumber(left)
		if err != nil {
			return nil, err
		}
		rnum, err := ToNumber(right)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "+":
			return Sequence{lnum + rnum}, nil
		case "-":
			return Sequence{lnum - rnum}, nil
		case "*":
			return Sequence{lnum * rnum}, nil
		case "div":
			return Sequence{lnum / rnum}, nil
		case "mod":
			return Sequence{math.Mod(lnum, rnum)}, nil
		case "<":
			return Sequence{lnum < rnum}, nil
		case "<=":
			return Sequence{lnum <= rnum}, nil
		case ">":
			return Sequence{lnum > rnum}, nil
		case ">=":
			return Sequence{lnum >= rnum}, nil
		}
	}

	return nil, &RuntimeError{Msg: "unknown binary operator " + e.Op}
}

