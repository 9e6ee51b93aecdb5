package lattice

import (
	"strings"

	"github.com/sunholo/tycore/internal/ids"
)

// ParamKind distinguishes how a callable's parameter can be supplied (spec
// §4.G "Calls").
type ParamKind int

const (
	ParamPositionalOnly ParamKind = iota
	ParamPositionalOrKeyword
	ParamVarArgs
	ParamKeywordOnly
	ParamKwArgs
)

func (k ParamKind) String() string {
	switch k {
	case ParamPositionalOnly:
		return "positional-only"
	case ParamPositionalOrKeyword:
		return "positional-or-keyword"
	case ParamVarArgs:
		return "*args"
	case ParamKeywordOnly:
		return "keyword-only"
	case ParamKwArgs:
		return "**kwargs"
	default:
		return "?"
	}
}

// Param is one parameter of a Signature.
type Param struct {
	Name       string
	Type       Type
	Kind       ParamKind
	HasDefault bool
}

// Signature is one overload of a Callable.
type Signature struct {
	Params []Param
	Return Type
}

func (s *Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + s.Return.String()
}

func (s *Signature) Equals(o *Signature) bool {
	if len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i].Kind != o.Params[i].Kind || !s.Params[i].Type.Equals(o.Params[i].Type) {
			return false
		}
	}
	return s.Return.Equals(o.Return)
}

// Callable is a function type: one signature plus, for overloaded
// callables, the rest of the overload set.
type Callable struct {
	Signature *Signature
	Overloads []*Signature // additional overloads, tried in order after Signature
}

func (Callable) isType() {}
func (c Callable) String() string {
	if len(c.Overloads) == 0 {
		return c.Signature.String()
	}
	parts := []string{c.Signature.String()}
	for _, o := range c.Overloads {
		parts = append(parts, o.String())
	}
	return "overload[" + strings.Join(parts, " | ") + "]"
}
func (c Callable) Equals(o Type) bool {
	oc, ok := o.(Callable)
	if !ok || !c.Signature.Equals(oc.Signature) || len(c.Overloads) != len(oc.Overloads) {
		return false
	}
	for i := range c.Overloads {
		if !c.Overloads[i].Equals(oc.Overloads[i]) {
			return false
		}
	}
	return true
}

// AllSignatures returns the signature followed by every overload, the order
// overload resolution must try them in.
func (c Callable) AllSignatures() []*Signature {
	return append([]*Signature{c.Signature}, c.Overloads...)
}

// FunctionLiteral is a reference to a specific function definition's type.
type FunctionLiteral struct{ Func ids.DefID }

func (FunctionLiteral) isType()          {}
func (f FunctionLiteral) String() string { return "def#" + f.Func.String() }
func (f FunctionLiteral) Equals(o Type) bool {
	of, ok := o.(FunctionLiteral)
	return ok && of.Func == f.Func
}

// BoundMethod is a method bound to a concrete self/cls type.
type BoundMethod struct {
	Func ids.DefID
	Self Type
}

func (BoundMethod) isType()          {}
func (b BoundMethod) String() string { return "bound-method<" + b.Self.String() + ">" }
func (b BoundMethod) Equals(o Type) bool {
	ob, ok := o.(BoundMethod)
	return ok && ob.Func == b.Func && ob.Self.Equals(b.Self)
}

// WrapperDescriptor models a slot wrapper (e.g. `object.__init__`) that
// behaves like a callable but carries no independent signature of its own
// beyond the dunder it wraps.
type WrapperDescriptor struct{ Name string }

func (WrapperDescriptor) isType()          {}
func (w WrapperDescriptor) String() string { return "<slot wrapper '" + w.Name + "'>" }
func (w WrapperDescriptor) Equals(o Type) bool {
	ow, ok := o.(WrapperDescriptor)
	return ok && ow.Name == w.Name
}
