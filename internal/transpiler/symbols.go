package transpiler

import (
	"strings"

	"martianoff/tsclosure/internal/jsast"
)

// SymbolFlags classify what a symbol declares. Merged declarations set
// several flags on one symbol.
type SymbolFlags uint32

const (
	SymbolVariable SymbolFlags = 1 << iota
	SymbolFunction
	SymbolClass
	SymbolInterface
	SymbolEnum
	SymbolConstEnum
	SymbolEnumMember
	SymbolTypeAlias
	SymbolNamespace
	SymbolTypeParameter
	SymbolProperty
	SymbolMethod
	SymbolAlias
	SymbolModule
	SymbolGlobal
	SymbolAmbient
)

// SymbolValue covers the flags that declare a runtime value.
const SymbolValue = SymbolVariable | SymbolFunction | SymbolClass | SymbolEnum | SymbolNamespace |
	SymbolEnumMember | SymbolProperty | SymbolMethod

// SymbolType covers the flags that declare a type.
const SymbolType = SymbolClass | SymbolInterface | SymbolEnum | SymbolTypeAlias | SymbolTypeParameter

func (f SymbolFlags) Has(flag SymbolFlags) bool { return f&flag != 0 }

// Symbol is a named declaration.
//
// Parent is the enclosing class, enum or namespace symbol for nested
// declarations and nil for file-level ones. Target is the resolved symbol
// of an alias; checkers may leave it nil and resolve lazily through
// Checker.AliasedSymbol.
type Symbol struct {
	Name     string
	Flags    SymbolFlags
	Decls    []jsast.Node
	Parent   *Symbol
	FileName string
	Target   *Symbol
}

// IsAlias reports whether s was introduced by an import or re-export.
func (s *Symbol) IsAlias() bool { return s.Flags.Has(SymbolAlias) }

// QualifiedName joins the names of s and its parents with dots.
func (s *Symbol) QualifiedName() string {
	var parts []string
	for p := s; p != nil; p = p.Parent {
		if p.Flags.Has(SymbolModule) {
			break
		}
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// ValueDeclaration returns the first declaration that produces a value.
func (s *Symbol) ValueDeclaration() jsast.Node {
	for _, d := range s.Decls {
		switch d.(type) {
		case *jsast.InterfaceDecl, *jsast.TypeAliasDecl:
			continue
		}
		return d
	}
	return nil
}

func (s *Symbol) String() string { return s.QualifiedName() }
