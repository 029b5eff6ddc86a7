package eval

// CallFunction dispatches a call by name: a user function defined in the
// module if present, else a built-in. Unknown names fail with XFST0003.
func CallFunction(name string, args []Sequence, ctx *Context) (Sequence, error) {
	if fn, ok := ctx.Functions[name]; ok {
		if len(args) > len(fn.Params) {
			return nil, &DynamicError{ErrCode: "XFDY0002", Msg: "too many arguments to " + name}
		}
		vars := cloneVars(ctx.Vars)
		for i, param := range fn.Params {
			if i < len(args) {
				vars[param.Name] = args[i]
				continue
			}
			if param.Default == nil {
				return nil, &DynamicError{ErrCode: "XFDY0002", Msg: "missing required argument " + param.Name + " to " + name}
			}
			defVal, err := Eval(param.Default, ctx)
			if err != nil {
				return nil, err
			}
			vars[param.Name] = defVal
		}
		callCtx := &Context{
			Item: ctx.Item, Vars: vars, Functions: ctx.Functions, Rules: ctx.Rules,
			Position: ctx.Position, Last: ctx.Last, HasPosition: ctx.HasPosition,
		}
		return Eval(fn.Body, callCtx)
	}

	builtin, ok := builtins()[name]
	if !ok {
		return nil, &StaticError{ErrCode: "XFST0003", Msg: "unknown function " + name}
	}
	return builtin(args, ctx)
}

// Apply dispatches every item in seq to the first matching rule in the
// named rule set (default "main"); a rule set's rules are tried in
// declaration order. An item with no matching rule fails with XFDY0001.
func Apply(seq Sequence, ruleSet string, ctx *Context) (Sequence, error) {
	rules := ctx.Rules[ruleSet]
	var out Sequence
	for _, item := range seq {
		matched := false
		for _, rule := range rules {
			ok, bindings := MatchPattern(rule.Pattern, item)
			if !ok {
				continue
			}
			matched = true
			body, err := Eval(rule.Body, ctx.withBindings(item, bindings))
			if err != nil {
				return nil, err
			}
			out = append(out, body...)
			break
		}
		if !matched {
			return nil, &DynamicError{ErrCode: "XFDY0001", Msg: "no matching rule in rule set " + ruleSet}
		}
	}
	return out, nil
}
