package jsast

// ClassMember is a member of a class body.
type ClassMember interface {
	Node
	MemberName() PropertyName
	Modifiers() Modifiers
	MemberDecorators() []*Decorator
	isClassMember()
}

func (*PropertyDecl) isClassMember() {}
func (*MethodDecl) isClassMember()   {}
func (*Constructor) isClassMember()  {}

// PropertyDecl is a class field.
type PropertyDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Decorators []*Decorator
	Name       PropertyName
	Optional   bool
	Type       TypeNode
	Init       Expr
}

// MethodKind distinguishes methods from accessors.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGetter
	MethodSetter
)

// MethodDecl is a method or accessor. Overload signatures and abstract
// methods have a nil Body.
type MethodDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Decorators []*Decorator
	Kind       MethodKind
	Name       PropertyName
	Optional   bool
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
	Body       *Block
}

// Constructor is a class constructor or constructor overload.
type Constructor struct {
	Base
	Doc    string
	Mods   Modifiers
	Params []*Param
	Body   *Block
}

func (m *PropertyDecl) MemberName() PropertyName { return m.Name }
func (m *MethodDecl) MemberName() PropertyName   { return m.Name }
func (m *Constructor) MemberName() PropertyName  { return &Ident{Base: m.Base, Name: "constructor"} }

func (m *PropertyDecl) Modifiers() Modifiers { return m.Mods }
func (m *MethodDecl) Modifiers() Modifiers   { return m.Mods }
func (m *Constructor) Modifiers() Modifiers  { return m.Mods }

func (m *PropertyDecl) MemberDecorators() []*Decorator { return m.Decorators }
func (m *MethodDecl) MemberDecorators() []*Decorator   { return m.Decorators }
func (m *Constructor) MemberDecorators() []*Decorator  { return nil }

// TypeMember is a member of an interface body or type literal.
type TypeMember interface {
	Node
	isTypeMember()
}

func (*PropertySignature) isTypeMember()  {}
func (*MethodSignature) isTypeMember()    {}
func (*IndexSignature) isTypeMember()     {}
func (*CallSignature) isTypeMember()      {}
func (*ConstructSignature) isTypeMember() {}

// PropertySignature is "name?: Type".
type PropertySignature struct {
	Base
	Doc      string
	Mods     Modifiers
	Name     PropertyName
	Optional bool
	Type     TypeNode
}

// MethodSignature is "name(params): Return".
type MethodSignature struct {
	Base
	Doc        string
	Name       PropertyName
	Optional   bool
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
}

// IndexSignature is "[key: string]: Type".
type IndexSignature struct {
	Base
	Key  *Param
	Type TypeNode
}

// CallSignature is "(params): Return".
type CallSignature struct {
	Base
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
}

// ConstructSignature is "new (params): Return".
type ConstructSignature struct {
	Base
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
}
