package analyzer

import "martianoff/tsclosure/internal/transpiler"

// libType is a declaration of the default library.
type libType struct {
	name   string
	params []string
	// value marks types that also exist as a constructor at runtime.
	value bool
}

var libTypes = []libType{
	{name: "Object", value: true},
	{name: "Function", value: true},
	{name: "Array", params: []string{"T"}, value: true},
	{name: "ReadonlyArray", params: []string{"T"}},
	{name: "Promise", params: []string{"T"}, value: true},
	{name: "PromiseLike", params: []string{"T"}},
	{name: "Date", value: true},
	{name: "RegExp", value: true},
	{name: "Error", value: true},
	{name: "Map", params: []string{"K", "V"}, value: true},
	{name: "Set", params: []string{"T"}, value: true},
	{name: "WeakMap", params: []string{"K", "V"}, value: true},
	{name: "WeakSet", params: []string{"T"}, value: true},
	{name: "Iterable", params: []string{"T"}},
	{name: "Iterator", params: []string{"T"}},
	{name: "String", value: true},
	{name: "Number", value: true},
	{name: "Boolean", value: true},
}

var libValues = []string{"console", "Math", "JSON", "goog", "window", "document"}

// declareLib fills the global scope with the default library.
func (p *Program) declareLib() {
	ambient := transpiler.SymbolGlobal | transpiler.SymbolAmbient
	for _, lt := range libTypes {
		flags := ambient | transpiler.SymbolInterface
		if lt.value {
			flags = ambient | transpiler.SymbolClass
		}
		sym := &transpiler.Symbol{Name: lt.name, Flags: flags}
		p.globals.types[lt.name] = sym
		if lt.value {
			p.globals.values[lt.name] = sym
		}
		p.lib[lt.name] = sym
		if len(lt.params) > 0 {
			p.libParams[sym] = lt.params
		}
	}
	aliases := append([]string{"Record"}, mappedUtilities...)
	for _, name := range append(aliases, conditionalUtilities...) {
		sym := &transpiler.Symbol{Name: name, Flags: ambient | transpiler.SymbolTypeAlias}
		p.globals.types[name] = sym
		p.lib[name] = sym
	}
	for _, name := range libValues {
		p.globals.values[name] = &transpiler.Symbol{Name: name, Flags: ambient | transpiler.SymbolVariable}
	}
}
