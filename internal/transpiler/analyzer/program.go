// Package analyzer is an in-memory implementation of the type checking
// oracle. It binds the declarations of a set of files, resolves imports
// between them and answers type and symbol queries from the type
// annotations written in the source, with limited inference for
// unannotated expressions.
package analyzer

import (
	"sync"

	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/logger"
	"martianoff/tsclosure/internal/transpiler"
)

// Program is a checked set of source files. It implements
// transpiler.Checker and is safe for concurrent use.
type Program struct {
	mu   sync.Mutex
	host transpiler.Host

	files      []*jsast.SourceFile
	globals    *scope
	byModule   map[string]*jsast.SourceFile
	moduleSyms map[string]*transpiler.Symbol

	// nodeSymbols maps declarations and their name identifiers to the
	// symbol they declare.
	nodeSymbols map[jsast.Node]*transpiler.Symbol
	nameDecls   map[*jsast.Ident]jsast.Node
	// scopes holds the lookup scope of every reference node.
	scopes map[jsast.Node]*scope
	// members holds the exports of modules and namespaces, the static
	// members of classes and the members of enums.
	members     map[*transpiler.Symbol]map[string]*transpiler.Symbol
	memberOrder map[*transpiler.Symbol][]string
	// instanceMembers holds the instance members of classes and interfaces.
	instanceMembers map[*transpiler.Symbol]map[string]*transpiler.Symbol
	ctorClass       map[*jsast.Constructor]*transpiler.Symbol
	memberEnum      map[*jsast.EnumMember]*jsast.EnumDecl
	importTargets   map[*jsast.ImportDecl]*transpiler.Symbol

	lib       map[string]*transpiler.Symbol
	libParams map[*transpiler.Symbol][]string

	enumValues map[*jsast.EnumMember]constant
	unresolved map[string]*transpiler.Symbol

	declared   map[*transpiler.Symbol]transpiler.Type
	values     map[*transpiler.Symbol]transpiler.Type
	nodeTypes  map[jsast.Node]transpiler.Type
	signatures map[jsast.Node]*transpiler.Signature
	inProgress *set.Set[any]

	imports   []pendingImport
	reexports []pendingReexport
	stars     []pendingStar
}

// Check binds files and resolves the imports between them. The host maps
// import paths to module names; files are matched by the module name of
// their own file name.
func Check(files []*jsast.SourceFile, host transpiler.Host) *Program {
	p := &Program{
		host:            host,
		files:           files,
		byModule:        make(map[string]*jsast.SourceFile),
		moduleSyms:      make(map[string]*transpiler.Symbol),
		nodeSymbols:     make(map[jsast.Node]*transpiler.Symbol),
		scopes:          make(map[jsast.Node]*scope),
		members:         make(map[*transpiler.Symbol]map[string]*transpiler.Symbol),
		memberOrder:     make(map[*transpiler.Symbol][]string),
		instanceMembers: make(map[*transpiler.Symbol]map[string]*transpiler.Symbol),
		nameDecls:       make(map[*jsast.Ident]jsast.Node),
		ctorClass:       make(map[*jsast.Constructor]*transpiler.Symbol),
		memberEnum:      make(map[*jsast.EnumMember]*jsast.EnumDecl),
		importTargets:   make(map[*jsast.ImportDecl]*transpiler.Symbol),
		lib:             make(map[string]*transpiler.Symbol),
		libParams:       make(map[*transpiler.Symbol][]string),
		enumValues:      make(map[*jsast.EnumMember]constant),
		unresolved:      make(map[string]*transpiler.Symbol),
		declared:        make(map[*transpiler.Symbol]transpiler.Type),
		values:          make(map[*transpiler.Symbol]transpiler.Type),
		nodeTypes:       make(map[jsast.Node]transpiler.Type),
		signatures:      make(map[jsast.Node]*transpiler.Signature),
		inProgress:      set.New[any](8),
	}
	p.globals = newScope(nil)
	p.declareLib()

	for _, f := range files {
		p.byModule[p.moduleName(f.FileName)] = f
		if f.IsModule() {
			p.moduleSyms[f.FileName] = &transpiler.Symbol{
				Name:     p.moduleName(f.FileName),
				Flags:    transpiler.SymbolModule,
				Decls:    []jsast.Node{f},
				FileName: f.FileName,
			}
		}
	}
	for _, f := range files {
		p.bindFile(f)
	}
	p.resolveModules()

	logger.Named("analyzer").Debugw("program checked",
		logger.FieldCount, len(files),
		"symbols", len(p.nodeSymbols))
	return p
}

// Files returns the checked files.
func (p *Program) Files() []*jsast.SourceFile {
	return p.files
}

func (p *Program) moduleName(fileName string) string {
	if p.host == nil {
		return fileName
	}
	return p.host.PathToModuleName(fileName, fileName)
}

// TypeAtLocation implements transpiler.Checker.
func (p *Program) TypeAtLocation(n jsast.Node) transpiler.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typeAt(n)
}

// SymbolAtLocation implements transpiler.Checker.
func (p *Program) SymbolAtLocation(n jsast.Node) *transpiler.Symbol {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.symbolAt(n)
}

// AliasedSymbol implements transpiler.Checker. Unresolvable aliases are
// returned as is.
func (p *Program) AliasedSymbol(s *transpiler.Symbol) *transpiler.Symbol {
	for i := 0; s != nil && s.IsAlias() && s.Target != nil; i++ {
		if i > 64 {
			break
		}
		s = s.Target
	}
	return s
}

// ExportsOfModule implements transpiler.Checker.
func (p *Program) ExportsOfModule(module *transpiler.Symbol) []*transpiler.Symbol {
	p.mu.Lock()
	defer p.mu.Unlock()
	module = p.AliasedSymbol(module)
	var out []*transpiler.Symbol
	for _, name := range p.memberOrder[module] {
		out = append(out, p.members[module][name])
	}
	return out
}

// ConstantValue implements transpiler.Checker.
func (p *Program) ConstantValue(m *jsast.EnumMember) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.constValue(m)
}

// SignatureFromDeclaration implements transpiler.Checker.
func (p *Program) SignatureFromDeclaration(decl jsast.Node) *transpiler.Signature {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signatureOf(decl)
}

// ModuleSymbol implements transpiler.Checker.
func (p *Program) ModuleSymbol(fileName string) *transpiler.Symbol {
	return p.moduleSyms[fileName]
}

var _ transpiler.Checker = (*Program)(nil)
