package transpiler

import "martianoff/tsclosure/internal/jsast"

// Checker is the type checking oracle of the front end. It is queried
// with nodes of a checked program and returns canonical types and
// symbols. Implementations must be safe for concurrent readers.
type Checker interface {
	// TypeAtLocation returns the type of the expression, declaration name,
	// declaration or type node n.
	TypeAtLocation(n jsast.Node) Type
	// SymbolAtLocation returns the symbol n refers to. For an ImportDecl
	// it returns the symbol of the imported module.
	SymbolAtLocation(n jsast.Node) *Symbol
	// AliasedSymbol follows alias symbols to the symbol they name.
	AliasedSymbol(s *Symbol) *Symbol
	// ExportsOfModule lists the exported symbols of a module symbol.
	ExportsOfModule(module *Symbol) []*Symbol
	// ConstantValue returns the folded value of an enum member, a string
	// or float64, and false when the member is not constant.
	ConstantValue(m *jsast.EnumMember) (any, bool)
	// SignatureFromDeclaration returns the signature of a function-like
	// declaration or signature node.
	SignatureFromDeclaration(decl jsast.Node) *Signature
	// ModuleSymbol returns the symbol of fileName when it is a module.
	ModuleSymbol(fileName string) *Symbol
}

// Host maps files and import paths to module names.
type Host interface {
	// PathToModuleName resolves importPath as written in the file context.
	PathToModuleName(context, importPath string) string
	// FileNameToModuleID returns the module name of a file.
	FileNameToModuleID(fileName string) string
}

// ResolveAlias follows s through checker when it is an alias symbol.
func ResolveAlias(checker Checker, s *Symbol) *Symbol {
	if s == nil || !s.IsAlias() {
		return s
	}
	if s.Target != nil {
		return ResolveAlias(checker, s.Target)
	}
	if checker == nil {
		return s
	}
	return checker.AliasedSymbol(s)
}
