package eval

// StaticError is a statically-detectable failure identified by an XFST
// error code: an unknown function name (XFST0003) or, when the parser
// surfaces it, an unsupported module version (XFST0005). Keeping both in
// this taxonomy package, rather than splitting XFST0005 off into the
// parser, lets the CLI print every error the same way.
type StaticError struct {
	ErrCode string
	Msg     string
}

func (e *StaticError) Error() string { return e.ErrCode + ": " + e.Msg }

// Code returns the error's XFST code.
func (e *StaticError) Code() string { return e.ErrCode }

// DynamicError is a dynamic type failure identified by an XFDY error
// code: no matching case/rule (XFDY0001) or an arity mismatch / number
// conversion failure (XFDY0002).
type DynamicError struct {
	ErrCode string
	Msg     string
}

func (e *DynamicError) Error() string { return e.ErrCode + ": " + e.Msg }

// Code returns the error's XFDY code.
func (e *DynamicError) Code() string { return e.ErrCode }

// RuntimeError is an unclassified dynamic failure: an unrecognized unary
// or binary operator, or an unknown expression form reaching Eval. An
// unbound name is not one of them; VarRef resolution ends in the empty
// sequence.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

// Code reports the empty string: RuntimeError carries no XFST/XFDY code.
func (e *RuntimeError) Code() string { return "" }
