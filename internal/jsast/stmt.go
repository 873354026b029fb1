package jsast

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

func (*CommentStmt) isStmt()   {}
func (*ImportDecl) isStmt()    {}
func (*ExportDecl) isStmt()    {}
func (*ExportDefault) isStmt() {}
func (*VarDecl) isStmt()       {}
func (*FuncDecl) isStmt()      {}
func (*ClassDecl) isStmt()     {}
func (*InterfaceDecl) isStmt() {}
func (*TypeAliasDecl) isStmt() {}
func (*EnumDecl) isStmt()      {}
func (*NamespaceDecl) isStmt() {}
func (*ExprStmt) isStmt()      {}
func (*ReturnStmt) isStmt()    {}
func (*Block) isStmt()         {}
func (*IfStmt) isStmt()        {}

// CommentStmt emits nothing but its comment text. It holds the file
// overview comment.
type CommentStmt struct {
	Base
	Text string
}

// ImportSpec is one "Imported as Local" entry of a named import.
type ImportSpec struct {
	Base
	Imported string
	Local    *Ident
	TypeOnly bool
}

// ImportDecl is an import statement.
type ImportDecl struct {
	Base
	Path      string
	Default   *Ident
	Namespace *Ident
	Named     []*ImportSpec
	TypeOnly  bool
}

// ExportSpec is one "Local as Exported" entry of an export list.
type ExportSpec struct {
	Base
	Local    string
	Exported string
	TypeOnly bool
}

// ExportDecl is "export {a, b as c}", "export {a} from 'x'" or "export * from 'x'".
type ExportDecl struct {
	Base
	Specs    []*ExportSpec
	From     string
	Star     bool
	TypeOnly bool
}

// ExportDefault is "export default expr".
type ExportDefault struct {
	Base
	X Expr
}

// VarKind is the binding keyword of a variable statement.
type VarKind int

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	default:
		return "var"
	}
}

// VarBinding is one declarator of a variable statement.
type VarBinding struct {
	Base
	Name *Ident
	Type TypeNode
	Init Expr
}

// VarDecl is a variable statement.
type VarDecl struct {
	Base
	Doc      string
	Mods     Modifiers
	Kind     VarKind
	Bindings []*VarBinding
}

// FuncDecl is a function declaration or overload signature. Overload
// signatures have a nil Body.
type FuncDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Name       *Ident
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeNode
	Body       *Block
}

// Heritage is the "extends" clause of a class.
type Heritage struct {
	Base
	X        Expr
	TypeArgs []TypeNode
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Decorators []*Decorator
	Name       *Ident
	TypeParams []*TypeParam
	Extends    *Heritage
	Implements []*TypeRef
	Members    []ClassMember
}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Name       *Ident
	TypeParams []*TypeParam
	Extends    []*TypeRef
	Members    []TypeMember
}

// TypeAliasDecl is "type Name<T> = Type".
type TypeAliasDecl struct {
	Base
	Doc        string
	Mods       Modifiers
	Name       *Ident
	TypeParams []*TypeParam
	Type       TypeNode
}

// EnumMember is one member of an enum.
type EnumMember struct {
	Base
	Doc  string
	Name PropertyName
	Init Expr
}

// EnumDecl is an enum declaration. ModConst marks a const enum.
type EnumDecl struct {
	Base
	Doc     string
	Mods    Modifiers
	Name    *Ident
	Members []*EnumMember
}

// NamespaceDecl is "namespace Name { ... }". Dotted namespaces are
// represented as nested declarations. "declare global" has the name
// "global" and the ModDeclare modifier.
type NamespaceDecl struct {
	Base
	Doc  string
	Mods Modifiers
	Name *Ident
	Body []Stmt
}

// IsGlobalAugmentation reports whether n is a "declare global" block.
func (n *NamespaceDecl) IsGlobalAugmentation() bool {
	return n.Mods.Has(ModDeclare) && n.Name != nil && n.Name.Name == "global"
}

// ExprStmt is an expression statement.
type ExprStmt struct {
	Base
	Doc string
	X   Expr
}

// ReturnStmt is "return x;". X may be nil.
type ReturnStmt struct {
	Base
	X Expr
}

// Block is a braced statement list.
type Block struct {
	Base
	Stmts []Stmt
}

// IfStmt is an if statement. Else is nil, a *Block or an *IfStmt.
type IfStmt struct {
	Base
	Cond Expr
	Then *Block
	Else Stmt
}

func (d *VarDecl) DeclName() *Ident {
	if len(d.Bindings) == 0 {
		return nil
	}
	return d.Bindings[0].Name
}
func (d *FuncDecl) DeclName() *Ident      { return d.Name }
func (d *ClassDecl) DeclName() *Ident     { return d.Name }
func (d *InterfaceDecl) DeclName() *Ident { return d.Name }
func (d *TypeAliasDecl) DeclName() *Ident { return d.Name }
func (d *EnumDecl) DeclName() *Ident      { return d.Name }
func (d *NamespaceDecl) DeclName() *Ident { return d.Name }

func (d *VarDecl) Modifiers() Modifiers       { return d.Mods }
func (d *FuncDecl) Modifiers() Modifiers      { return d.Mods }
func (d *ClassDecl) Modifiers() Modifiers     { return d.Mods }
func (d *InterfaceDecl) Modifiers() Modifiers { return d.Mods }
func (d *TypeAliasDecl) Modifiers() Modifiers { return d.Mods }
func (d *EnumDecl) Modifiers() Modifiers      { return d.Mods }
func (d *NamespaceDecl) Modifiers() Modifiers { return d.Mods }

func (d *VarDecl) DocComment() string       { return d.Doc }
func (d *FuncDecl) DocComment() string      { return d.Doc }
func (d *ClassDecl) DocComment() string     { return d.Doc }
func (d *InterfaceDecl) DocComment() string { return d.Doc }
func (d *TypeAliasDecl) DocComment() string { return d.Doc }
func (d *EnumDecl) DocComment() string      { return d.Doc }
func (d *NamespaceDecl) DocComment() string { return d.Doc }

func (d *VarDecl) SetDocComment(doc string)       { d.Doc = doc }
func (d *FuncDecl) SetDocComment(doc string)      { d.Doc = doc }
func (d *ClassDecl) SetDocComment(doc string)     { d.Doc = doc }
func (d *InterfaceDecl) SetDocComment(doc string) { d.Doc = doc }
func (d *TypeAliasDecl) SetDocComment(doc string) { d.Doc = doc }
func (d *EnumDecl) SetDocComment(doc string)      { d.Doc = doc }
func (d *NamespaceDecl) SetDocComment(doc string) { d.Doc = doc }
