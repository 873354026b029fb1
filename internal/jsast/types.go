package jsast

// TypeNode is a source type annotation. Type nodes never reach the output.
type TypeNode interface {
	Node
	isTypeNode()
}

func (*KeywordType) isTypeNode()      {}
func (*TypeRef) isTypeNode()          {}
func (*ArrayTypeNode) isTypeNode()    {}
func (*TupleTypeNode) isTypeNode()    {}
func (*UnionTypeNode) isTypeNode()    {}
func (*IntersectionType) isTypeNode() {}
func (*FunctionTypeNode) isTypeNode() {}
func (*TypeLiteral) isTypeNode()      {}
func (*LiteralTypeNode) isTypeNode()  {}
func (*TypeQuery) isTypeNode()        {}
func (*ParenType) isTypeNode()        {}
func (*OpaqueType) isTypeNode()       {}

// Keyword type names.
const (
	KwAny       = "any"
	KwUnknown   = "unknown"
	KwNumber    = "number"
	KwString    = "string"
	KwBoolean   = "boolean"
	KwBigInt    = "bigint"
	KwSymbol    = "symbol"
	KwVoid      = "void"
	KwUndefined = "undefined"
	KwNull      = "null"
	KwNever     = "never"
	KwObject    = "object"
	KwThis      = "this"
)

// KeywordType is a built-in type keyword.
type KeywordType struct {
	Base
	Name string
}

// TypeRef is a reference to a named type. Name is an *Ident or a chain of
// *PropertyAccess ending in an *Ident.
type TypeRef struct {
	Base
	Name     Expr
	TypeArgs []TypeNode
}

// ArrayTypeNode is "Elem[]".
type ArrayTypeNode struct {
	Base
	Elem TypeNode
}

// TupleTypeNode is "[A, B]".
type TupleTypeNode struct {
	Base
	Elems []TypeNode
}

// UnionTypeNode is "A | B".
type UnionTypeNode struct {
	Base
	Types []TypeNode
}

// IntersectionType is "A & B".
type IntersectionType struct {
	Base
	Types []TypeNode
}

// FunctionTypeNode is "(params) => Return" or "new (params) => Return".
type FunctionTypeNode struct {
	Base
	Constructor bool
	TypeParams  []*TypeParam
	Params      []*Param
	Return      TypeNode
}

// TypeLiteral is "{ members }".
type TypeLiteral struct {
	Base
	Members []TypeMember
}

// LiteralTypeNode is a literal used as a type: a *StringLit, *NumberLit,
// *BoolLit or *NullLit.
type LiteralTypeNode struct {
	Base
	Literal Expr
}

// TypeQuery is "typeof X".
type TypeQuery struct {
	Base
	X Expr
}

// ParenType is "(T)".
type ParenType struct {
	Base
	X TypeNode
}

// OpaqueType stands for type syntax the tree does not model (conditional,
// mapped, indexed access, template literal types). Kind names the form.
type OpaqueType struct {
	Base
	Kind string
}
