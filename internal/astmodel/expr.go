package astmodel

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{}

func (exprBase) astNode() {}
func (exprBase) exprNode() {}

// Name: a bare identifier reference. Renames (spec.md §4.3) substitute
// the Id field in place.
type Name struct {
	exprBase
	Id string
}

// Attribute: value.attr
type Attribute struct {
	exprBase
	Value Expr
	Attr  string
}

// Subscript: value[slice]
type Subscript struct {
	exprBase
	Value Expr
	Index Expr
}

// Call: func(args, kw=kwvalue...)
type Call struct {
	exprBase
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

type Keyword struct {
	Name  string // "" for **kwargs expansion
	Value Expr
}

// Literal kinds.
type IntLit struct {
	exprBase
	Value int64
}

type FloatLit struct {
	exprBase
	Value float64
}

type StrLit struct {
	exprBase
	Value string
}

type BoolLit struct {
	exprBase
	Value bool
}

type NoneLit struct{ exprBase }

type EllipsisLit struct{ exprBase }

// List, Tuple, Set: ordered/unordered element collections.
type List struct {
	exprBase
	Elts []Expr
}

type Tuple struct {
	exprBase
	Elts []Expr
}

type SetLit struct {
	exprBase
	Elts []Expr
}

// Dict: {key: value, ...}
type Dict struct {
	exprBase
	Keys   []Expr // a nil entry at index i means **value unpacking of Values[i]
	Values []Expr
}

// Comprehension is one `for target in iter if cond...` clause.
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

type ListComp struct {
	exprBase
	Elt        Expr
	Generators []Comprehension
}

type SetComp struct {
	exprBase
	Elt        Expr
	Generators []Comprehension
}

type DictComp struct {
	exprBase
	Key        Expr
	Value      Expr
	Generators []Comprehension
}

type GeneratorExp struct {
	exprBase
	Elt        Expr
	Generators []Comprehension
}

// BinOp: left op right (arithmetic/bitwise).
type BinOp struct {
	exprBase
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp: op operand (e.g. -x, not x, ~x).
type UnaryOp struct {
	exprBase
	Op      string
	Operand Expr
}

// BoolOp: v0 op v1 op v2... (and/or short-circuit chains).
type BoolOp struct {
	exprBase
	Op     string
	Values []Expr
}

// Compare: left op0 c0 op1 c1... (chained comparisons: a < b < c).
type Compare struct {
	exprBase
	Left        Expr
	Ops         []string
	Comparators []Expr
}

// IfExp: body if test else orelse
type IfExp struct {
	exprBase
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Starred: *value, used in call args and assignment targets.
type Starred struct {
	exprBase
	Value Expr
}

// SliceExpr: lower:upper:step, any of which may be nil.
type SliceExpr struct {
	exprBase
	Lower Expr
	Upper Expr
	Step  Expr
}

// Lambda: lambda params: body
type Lambda struct {
	exprBase
	Params []Param
	Body   Expr
}
