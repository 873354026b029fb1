package jsast

import "strconv"

// Expr is an expression node.
type Expr interface {
	Node
	isExpr()
}

func (*Ident) isExpr()          {}
func (*PropertyAccess) isExpr() {}
func (*ElementAccess) isExpr()  {}
func (*Call) isExpr()           {}
func (*New) isExpr()            {}
func (*StringLit) isExpr()      {}
func (*NumberLit) isExpr()      {}
func (*BoolLit) isExpr()        {}
func (*NullLit) isExpr()        {}
func (*UndefinedLit) isExpr()   {}
func (*ObjectLit) isExpr()      {}
func (*ArrayLit) isExpr()       {}
func (*Arrow) isExpr()          {}
func (*FuncExpr) isExpr()       {}
func (*Binary) isExpr()         {}
func (*Unary) isExpr()          {}
func (*Paren) isExpr()          {}
func (*This) isExpr()           {}
func (*Super) isExpr()          {}

// Ident is an identifier.
type Ident struct {
	Base
	Name string
}

// PropertyAccess is "X.Name".
type PropertyAccess struct {
	Base
	X    Expr
	Name string
}

// ElementAccess is "X[Index]".
type ElementAccess struct {
	Base
	X     Expr
	Index Expr
}

// Call is a call expression. TypeArgs are dropped on output.
type Call struct {
	Base
	Fn       Expr
	TypeArgs []TypeNode
	Args     []Expr
}

// New is "new X(args)".
type New struct {
	Base
	X    Expr
	Args []Expr
}

// StringLit is a string literal.
type StringLit struct {
	Base
	Value string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Base
	Value float64
}

// BoolLit is true or false.
type BoolLit struct {
	Base
	Value bool
}

// NullLit is null.
type NullLit struct {
	Base
}

// UndefinedLit is the undefined value.
type UndefinedLit struct {
	Base
}

// ObjectProp is one "Key: Value" entry.
type ObjectProp struct {
	Base
	Key   PropertyName
	Value Expr
}

// ObjectLit is an object literal. Multiline puts each property on its own line.
type ObjectLit struct {
	Base
	Props     []*ObjectProp
	Multiline bool
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Base
	Elems     []Expr
	Multiline bool
}

// Arrow is an arrow function with either a block Body or a concise Expr body.
type Arrow struct {
	Base
	Params []*Param
	Return TypeNode
	Body   *Block
	Expr   Expr
}

// FuncExpr is a function expression.
type FuncExpr struct {
	Base
	Name   *Ident
	Params []*Param
	Return TypeNode
	Body   *Block
}

// Binary is a binary or assignment expression.
type Binary struct {
	Base
	Op string
	X  Expr
	Y  Expr
}

// Unary is a prefix unary expression such as "-x", "!x" or "typeof x".
type Unary struct {
	Base
	Op string
	X  Expr
}

// Paren is a parenthesized expression.
type Paren struct {
	Base
	X Expr
}

// This is the this keyword.
type This struct {
	Base
}

// Super is the super keyword.
type Super struct {
	Base
}

// FormatNumber prints a number the way JavaScript source spells it.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
