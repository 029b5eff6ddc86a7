package eval

import "github.com/arturoeanton/go-xform/ast"

// Context carries everything an expression needs to evaluate: the
// current context item, the variable environment, the function and
// rule tables, and the positional (position, last) pair used inside a
// for-iteration. Contexts are never mutated in place — every scoping
// form builds a derived Context via one of the with* helpers.
type Context struct {
	Item        any
	Vars        map[string]Sequence
	Functions   map[string]*ast.FunctionDef
	Rules       map[string][]*ast.RuleDef
	Position    int
	Last        int
	HasPosition bool
}

func cloneVars(vars map[string]Sequence) map[string]Sequence {
	out := make(map[string]Sequence, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	return out
}

// withVar returns a derived Context with name bound to value, leaving
// everything else (including the context item and positional pair)
// unchanged.
func (c *Context) withVar(name string, value Sequence) *Context {
	vars := cloneVars(c.Vars)
	vars[name] = value
	return &Context{
		Item: c.Item, Vars: vars, Functions: c.Functions, Rules: c.Rules,
		Position: c.Position, Last: c.Last, HasPosition: c.HasPosition,
	}
}

// withItem returns a derived Context with a new context item and the
// same variable environment, for evaluating path predicates and a match
// expression's default arm against the current item.
func (c *Context) withItem(item any) *Context {
	return &Context{
		Item: item, Vars: c.Vars, Functions: c.Functions, Rules: c.Rules,
		Position: c.Position, Last: c.Last, HasPosition: c.HasPosition,
	}
}

// withIteration returns a derived Context for one for-loop iteration:
// new context item, the loop variable bound to a singleton sequence, and
// a fresh positional pair.
func (c *Context) withIteration(name string, item any, position, last int) *Context {
	vars := cloneVars(c.Vars)
	vars[name] = Sequence{item}
	return &Context{
		Item: item, Vars: vars, Functions: c.Functions, Rules: c.Rules,
		Position: position, Last: last, HasPosition: true,
	}
}

// withBindings returns a derived Context with every entry in bindings
// merged into the variable environment (pattern bindings from match/
// apply), and the context item set to item.
func (c *Context) withBindings(item any, bindings map[string]Sequence) *Context {
	vars := cloneVars(c.Vars)
	for k, v := range bindings {
		vars[k] = v
	}
	return &Context{
		Item: item, Vars: vars, Functions: c.Functions, Rules: c.Rules,
		Position: c.Position, Last: c.Last, HasPosition: c.HasPosition,
	}
}
