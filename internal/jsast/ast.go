// Package jsast holds the syntax tree that flows through the transpiler.
//
// The tree is produced by an external front end from typed source. The
// transforms never mutate a node they received: they copy the nodes they
// change until only constructs the printer can emit as plain JavaScript
// remain. Type nodes, interfaces, type
// aliases, enums and namespaces are source-only constructs that the
// transforms remove or lower.
package jsast

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Node is implemented by every tree node.
type Node interface {
	Position() Pos
}

// Base carries the position shared by all nodes. Synthesized nodes have
// a zero position unless they inherit one from the node they replace.
type Base struct {
	Loc Pos
}

func (b *Base) Position() Pos { return b.Loc }

// At returns a Base positioned at n, or a zero Base when n is nil.
func At(n Node) Base {
	if n == nil {
		return Base{}
	}
	return Base{Loc: n.Position()}
}

// Modifiers is a bit set of declaration modifiers.
type Modifiers uint16

const (
	ModExport Modifiers = 1 << iota
	ModDefault
	ModDeclare
	ModConst
	ModStatic
	ModReadonly
	ModAbstract
	ModPublic
	ModPrivate
	ModProtected
	ModAsync
)

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

// AccessModifiers are the modifiers that turn a constructor parameter into
// a parameter property.
const AccessModifiers = ModPublic | ModPrivate | ModProtected | ModReadonly

// SourceFile is one input file.
type SourceFile struct {
	Base
	FileName          string
	Stmts             []Stmt
	IsDeclarationFile bool
}

// IsModule reports whether the file has any import or export, which makes
// its top-level declarations module scoped.
func (f *SourceFile) IsModule() bool {
	for _, s := range f.Stmts {
		switch s := s.(type) {
		case *ImportDecl, *ExportDecl, *ExportDefault:
			return true
		case Declaration:
			if s.Modifiers().Has(ModExport) {
				return true
			}
		}
	}
	return false
}

// Decorator is a single "@expr" application.
type Decorator struct {
	Base
	X Expr
}

// TypeParam is a declared type parameter.
type TypeParam struct {
	Base
	Name       *Ident
	Constraint TypeNode
	Default    TypeNode
}

// Param is a function or constructor parameter. Name is nil when the
// parameter is a destructuring pattern, which is then held in Pattern.
type Param struct {
	Base
	Mods       Modifiers
	Decorators []*Decorator
	Name       *Ident
	Pattern    Expr
	Type       TypeNode
	Optional   bool
	Rest       bool
	Init       Expr
}

// IsThis reports whether p is the TypeScript "this" pseudo-parameter.
func (p *Param) IsThis() bool {
	return p.Name != nil && p.Name.Name == "this"
}

// Declaration is a statement that declares a name.
type Declaration interface {
	Stmt
	DeclName() *Ident
	Modifiers() Modifiers
	DocComment() string
	SetDocComment(doc string)
}

// PropertyName is the name of a member: *Ident, *StringLit, *NumberLit or
// *ComputedName.
type PropertyName interface {
	Node
	isPropertyName()
}

func (*Ident) isPropertyName()        {}
func (*StringLit) isPropertyName()    {}
func (*NumberLit) isPropertyName()    {}
func (*ComputedName) isPropertyName() {}

// ComputedName is a "[expr]" member name.
type ComputedName struct {
	Base
	X Expr
}

// StaticName returns the name of a non-computed property name.
func StaticName(n PropertyName) (string, bool) {
	switch n := n.(type) {
	case *Ident:
		return n.Name, true
	case *StringLit:
		return n.Value, true
	case *NumberLit:
		return FormatNumber(n.Value), true
	}
	return "", false
}
