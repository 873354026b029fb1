package transpiler

import (
	"fmt"
	"strings"

	"martianoff/tsclosure/internal/jsast"
)

// Type is a canonical type handed out by the Checker. The set of
// implementations is closed; consumers switch over all of them and treat
// anything else as an internal error.
type Type interface {
	// Symbol is the declaration the type originates from, if any.
	Symbol() *Symbol
	// AliasSymbol is the type alias the type was written through, if any.
	AliasSymbol() *Symbol
	String() string
	isType()
}

// TypeInfo carries the symbol links shared by every type shape.
type TypeInfo struct {
	Sym   *Symbol
	Alias *Symbol
}

func (t *TypeInfo) Symbol() *Symbol      { return t.Sym }
func (t *TypeInfo) AliasSymbol() *Symbol { return t.Alias }
func (*TypeInfo) isType()                {}

// IntrinsicKind enumerates the built-in types.
type IntrinsicKind int

const (
	IntrinsicAny IntrinsicKind = iota
	IntrinsicUnknown
	IntrinsicString
	IntrinsicNumber
	IntrinsicBoolean
	IntrinsicBigInt
	IntrinsicESSymbol
	IntrinsicVoid
	IntrinsicUndefined
	IntrinsicNull
	IntrinsicNever
	IntrinsicNonPrimitive
)

var intrinsicNames = [...]string{
	IntrinsicAny:          "any",
	IntrinsicUnknown:      "unknown",
	IntrinsicString:       "string",
	IntrinsicNumber:       "number",
	IntrinsicBoolean:      "boolean",
	IntrinsicBigInt:       "bigint",
	IntrinsicESSymbol:     "symbol",
	IntrinsicVoid:         "void",
	IntrinsicUndefined:    "undefined",
	IntrinsicNull:         "null",
	IntrinsicNever:        "never",
	IntrinsicNonPrimitive: "object",
}

func (k IntrinsicKind) String() string {
	if int(k) < len(intrinsicNames) {
		return intrinsicNames[k]
	}
	return fmt.Sprintf("intrinsic(%d)", int(k))
}

// IntrinsicType is a built-in type such as string or any.
type IntrinsicType struct {
	TypeInfo
	Kind IntrinsicKind
}

func (t *IntrinsicType) String() string { return t.Kind.String() }

// Shared intrinsic instances. Checkers may return these or their own.
var (
	AnyType       = &IntrinsicType{Kind: IntrinsicAny}
	UnknownType   = &IntrinsicType{Kind: IntrinsicUnknown}
	StringType    = &IntrinsicType{Kind: IntrinsicString}
	NumberType    = &IntrinsicType{Kind: IntrinsicNumber}
	BooleanType   = &IntrinsicType{Kind: IntrinsicBoolean}
	BigIntType    = &IntrinsicType{Kind: IntrinsicBigInt}
	ESSymbolType  = &IntrinsicType{Kind: IntrinsicESSymbol}
	VoidType      = &IntrinsicType{Kind: IntrinsicVoid}
	UndefinedType = &IntrinsicType{Kind: IntrinsicUndefined}
	NullType      = &IntrinsicType{Kind: IntrinsicNull}
	NeverType     = &IntrinsicType{Kind: IntrinsicNever}
	ObjectType    = &IntrinsicType{Kind: IntrinsicNonPrimitive}
)

// BigIntLiteral is the value of a bigint literal type.
type BigIntLiteral string

// LiteralType is a string, number, boolean or bigint literal type. Value
// holds a string, float64, bool or BigIntLiteral.
type LiteralType struct {
	TypeInfo
	Value any
}

func (t *LiteralType) String() string {
	switch v := t.Value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case BigIntLiteral:
		return string(v) + "n"
	default:
		return fmt.Sprint(v)
	}
}

// EnumLiteralType is the type of a single enum member. Sym is the member
// symbol whose Parent is the enum.
type EnumLiteralType struct {
	TypeInfo
	Value any
}

// Enum returns the enum declaring the member, or nil.
func (t *EnumLiteralType) Enum() *Symbol {
	if t.Sym == nil {
		return nil
	}
	return t.Sym.Parent
}

func (t *EnumLiteralType) String() string {
	if t.Sym == nil {
		return "enum-literal"
	}
	return t.Sym.QualifiedName()
}

// EnumType is the declared type of an enum as a whole.
type EnumType struct {
	TypeInfo
}

func (t *EnumType) String() string { return symbolName(t.Sym) }

// UnionType is "A | B".
type UnionType struct {
	TypeInfo
	Types []Type
}

func (t *UnionType) String() string { return joinTypes(t.Types, " | ") }

// IntersectionType is "A & B".
type IntersectionType struct {
	TypeInfo
	Types []Type
}

func (t *IntersectionType) String() string { return joinTypes(t.Types, " & ") }

// InterfaceType is the declared instance type of a class or interface.
type InterfaceType struct {
	TypeInfo
	IsClass    bool
	TypeParams []*TypeParameter
	ThisType   *TypeParameter
}

func (t *InterfaceType) String() string { return symbolName(t.Sym) }

// TypeReference is an instantiation of a generic class or interface.
type TypeReference struct {
	TypeInfo
	Target   *InterfaceType
	TypeArgs []Type
}

func (t *TypeReference) String() string {
	return symbolName(t.Sym) + "<" + joinTypes(t.TypeArgs, ", ") + ">"
}

// ArrayType is "T[]" or "Array<T>".
type ArrayType struct {
	TypeInfo
	Elem     Type
	Readonly bool
}

func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

// TupleType is "[A, B]".
type TupleType struct {
	TypeInfo
	Elems []Type
}

func (t *TupleType) String() string { return "[" + joinTypes(t.Elems, ", ") + "]" }

// Property is one member of an anonymous object type.
type Property struct {
	Name     string
	Sym      *Symbol
	Type     Type
	Optional bool
	Readonly bool
}

// AnonymousType is an object type without a declared name: type literals,
// function types, inferred object literal types and the static side of
// classes, enums and namespaces ("typeof X", in which case Sym is set).
type AnonymousType struct {
	TypeInfo
	Props       []*Property
	Calls       []*Signature
	Constructs  []*Signature
	StringIndex Type
	NumberIndex Type
}

func (t *AnonymousType) String() string {
	if t.Sym != nil {
		return "typeof " + t.Sym.Name
	}
	var parts []string
	for _, p := range t.Props {
		parts = append(parts, p.Name+": "+p.Type.String())
	}
	for _, s := range t.Calls {
		parts = append(parts, s.String())
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// TypeParameter is a reference to a declared type parameter, or the
// polymorphic this type of a class when IsThisType is set.
type TypeParameter struct {
	TypeInfo
	Constraint Type
	IsThisType bool
}

func (t *TypeParameter) String() string {
	if t.IsThisType {
		return "this"
	}
	return symbolName(t.Sym)
}

// UnsupportedType stands for type forms with no annotation equivalent:
// conditional, mapped, indexed access, index query and template literal
// types. Kind names the form for diagnostics.
type UnsupportedType struct {
	TypeInfo
	Kind string
}

func (t *UnsupportedType) String() string { return t.Kind }

// SignatureParam is one parameter of a Signature.
type SignatureParam struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Signature is a call or construct signature.
type Signature struct {
	Decl       jsast.Node
	TypeParams []*TypeParameter
	This       Type
	Params     []*SignatureParam
	Return     Type
	MinArgs    int
}

func (s *Signature) String() string {
	var parts []string
	for _, p := range s.Params {
		prefix := ""
		if p.Rest {
			prefix = "..."
		}
		parts = append(parts, prefix+p.Name+": "+p.Type.String())
	}
	ret := "void"
	if s.Return != nil {
		ret = s.Return.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}

// HasRest reports whether the last parameter is a rest parameter.
func (s *Signature) HasRest() bool {
	return len(s.Params) > 0 && s.Params[len(s.Params)-1].Rest
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func symbolName(s *Symbol) string {
	if s == nil {
		return "<anonymous>"
	}
	return s.QualifiedName()
}
