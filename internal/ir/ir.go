// Package ir defines the minimal expression representation the type-checker
// core consumes in place of a real parsed AST. Lexing and parsing are out
// of scope for this core: callers — a real parser, or a test building a
// synthetic program — construct this IR directly. It mirrors the
// shape of AILANG's Core ANF IR (internal/core/core.go) closely enough
// that expression dispatch, pattern matching and span tracking follow the
// same idiom, trimmed to the constructs the Python-like surface language
// actually needs: names, attributes, subscripts, calls, operators, literals,
// comprehension-free control flow and pattern-matching arms.
package ir

import "fmt"

// Pos is an opaque source position. The core never interprets a Pos beyond
// using it as an opaque range endpoint in diagnostics.
type Pos struct {
	File   string
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s@%d", p.File, p.Offset) }

// Span is an opaque source range.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string { return fmt.Sprintf("%s-%d", s.Start, s.End.Offset) }

// Expr is the base interface for every expression node.
type Expr interface {
	exprNode()
	Span() Span
	String() string
}

type base struct {
	Sp Span
}

func (b base) Span() Span { return b.Sp }

// LiteralKind enumerates the literal forms the lattice understands directly.
type LiteralKind int

const (
	LitNone LiteralKind = iota
	LitBool
	LitInt
	LitString
	LitBytes
	LitEllipsis
)

// Literal is a literal expression (int/bool/string/bytes/None/...).
type Literal struct {
	base
	Kind  LiteralKind
	Value any
}

func (l *Literal) exprNode() {}
func (l *Literal) String() string {
	return fmt.Sprintf("%v", l.Value)
}

// NewLiteral builds a Literal at span sp.
func NewLiteral(sp Span, kind LiteralKind, value any) *Literal {
	return &Literal{base: base{Sp: sp}, Kind: kind, Value: value}
}

// Name is a bare-name reference, the simplest Place root.
type Name struct {
	base
	Ident string
}

func (n *Name) exprNode()     {}
func (n *Name) String() string { return n.Ident }

// NewName builds a Name at span sp.
func NewName(sp Span, ident string) *Name { return &Name{base: base{Sp: sp}, Ident: ident} }

// Attribute is `Value.Attr`.
type Attribute struct {
	base
	Value Expr
	Attr  string
}

func (a *Attribute) exprNode()      {}
func (a *Attribute) String() string { return fmt.Sprintf("%s.%s", a.Value, a.Attr) }

// Subscript is `Value[Index]`.
type Subscript struct {
	base
	Value Expr
	Index Expr
}

func (s *Subscript) exprNode()      {}
func (s *Subscript) String() string { return fmt.Sprintf("%s[%s]", s.Value, s.Index) }

// Slice is a `start:stop:step` expression, valid only inside a Subscript's
// Index position.
type Slice struct {
	base
	Start, Stop, Step Expr // nil means omitted
}

func (s *Slice) exprNode() {}
func (s *Slice) String() string {
	str := func(e Expr) string {
		if e == nil {
			return ""
		}
		return e.String()
	}
	return fmt.Sprintf("%s:%s:%s", str(s.Start), str(s.Stop), str(s.Step))
}

// Tuple is a fixed-length sequence literal.
type Tuple struct {
	base
	Elts []Expr
}

func (t *Tuple) exprNode()      {}
func (t *Tuple) String() string { return fmt.Sprintf("(%v)", t.Elts) }

// List is a list display.
type List struct {
	base
	Elts []Expr
}

func (l *List) exprNode()      {}
func (l *List) String() string { return fmt.Sprintf("%v", l.Elts) }

// Starred is `*value`, valid in call-argument and unpacking-target position.
type Starred struct {
	base
	Value Expr
}

func (s *Starred) exprNode()      {}
func (s *Starred) String() string { return "*" + s.Value.String() }

// Arg is one call argument.
type Arg struct {
	Name       string // empty for positional
	Value      Expr
	Star       bool // *args
	DoubleStar bool // **kwargs
}

// Call is a function/method/constructor call.
type Call struct {
	base
	Func Expr
	Args []Arg
}

func (c *Call) exprNode()      {}
func (c *Call) String() string { return fmt.Sprintf("%s(...)", c.Func) }

// BinOp is a binary operator expression (`a + b`, `a | b`, ...).
type BinOp struct {
	base
	Op          string
	Left, Right Expr
}

func (b *BinOp) exprNode()      {}
func (b *BinOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnaryOp is a unary operator expression (`not x`, `-x`, `~x`).
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (u *UnaryOp) exprNode()      {}
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// BoolOp is `and`/`or` over two or more values (short-circuiting).
type BoolOp struct {
	base
	Op     string // "and" | "or"
	Values []Expr
}

func (b *BoolOp) exprNode()      {}
func (b *BoolOp) String() string { return fmt.Sprintf("(%s %v)", b.Op, b.Values) }

// Compare is a (possibly chained) comparison: `a < b < c`.
type Compare struct {
	base
	Left        Expr
	Ops         []string
	Comparators []Expr
}

func (c *Compare) exprNode()      {}
func (c *Compare) String() string { return fmt.Sprintf("(%s %v %v)", c.Left, c.Ops, c.Comparators) }

// IsChained reports whether this comparison has more than one operator,
// the case in which negation-narrowing is disabled.
func (c *Compare) IsChained() bool { return len(c.Ops) > 1 }

// IfExp is the ternary `body if test else orelse`.
type IfExp struct {
	base
	Test, Body, Orelse Expr
}

func (i *IfExp) exprNode()      {}
func (i *IfExp) String() string { return fmt.Sprintf("(%s if %s else %s)", i.Body, i.Test, i.Orelse) }

// Param is one lambda/function parameter.
type Param struct {
	Name       string
	Annotation Expr // optional, nil if unannotated
	Default    Expr // optional
	Kind       ParamKind
}

// ParamKind distinguishes positional-only, positional-or-keyword, *args,
// keyword-only and **kwargs parameters.
type ParamKind int

const (
	ParamPositionalOnly ParamKind = iota
	ParamPositionalOrKeyword
	ParamVarArgs
	ParamKeywordOnly
	ParamKwArgs
)

// Lambda is an anonymous function literal.
type Lambda struct {
	base
	Params []Param
	Body   Expr
}

func (l *Lambda) exprNode()      {}
func (l *Lambda) String() string { return fmt.Sprintf("lambda %v: %s", l.Params, l.Body) }

// StringAnnotation marks an expression that was written as a string literal
// in annotation position and must be re-parsed and deferred. The core does
// not parse the string itself (that
// would require the excluded parser); callers supply the already-parsed
// inner expression up front and the engine treats it as deferred.
type StringAnnotation struct {
	base
	Inner Expr
}

func (s *StringAnnotation) exprNode()      {}
func (s *StringAnnotation) String() string { return fmt.Sprintf("%q", s.Inner) }
