package typetranslator

import "martianoff/tsclosure/internal/transpiler"

// AliasTable maps symbols to the name annotations should use for them in
// the file being translated.
type AliasTable struct {
	names map[*transpiler.Symbol]string
}

// NewAliasTable returns an empty table.
func NewAliasTable() *AliasTable {
	return &AliasTable{names: make(map[*transpiler.Symbol]string)}
}

// Set registers name for sym.
func (a *AliasTable) Set(sym *transpiler.Symbol, name string) {
	a.names[sym] = name
}

// Get returns the name registered for sym.
func (a *AliasTable) Get(sym *transpiler.Symbol) (string, bool) {
	name, ok := a.names[sym]
	return name, ok
}

// MarkUnknown makes every later reference to sym translate to the unknown
// type. Used for type parameters of standalone function types.
func (a *AliasTable) MarkUnknown(sym *transpiler.Symbol) {
	a.names[sym] = Unknown
}

// Len returns the number of registered symbols.
func (a *AliasTable) Len() int {
	return len(a.names)
}
