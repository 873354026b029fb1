package analyzer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

const (
	valueFlags = transpiler.SymbolVariable | transpiler.SymbolFunction | transpiler.SymbolClass |
		transpiler.SymbolEnum | transpiler.SymbolNamespace | transpiler.SymbolEnumMember |
		transpiler.SymbolProperty | transpiler.SymbolMethod | transpiler.SymbolAlias
	typeFlags = transpiler.SymbolClass | transpiler.SymbolInterface | transpiler.SymbolEnum |
		transpiler.SymbolTypeAlias | transpiler.SymbolTypeParameter | transpiler.SymbolNamespace |
		transpiler.SymbolAlias
	declKinds = valueFlags | typeFlags

	// Kinds that live in only one of the two tables.
	typeOnlyFlags  = typeFlags &^ valueFlags
	valueOnlyFlags = valueFlags &^ typeFlags
)

// mergeTargets lists, per declaration kind, the kinds an existing symbol
// may have for the new declaration to merge into it.
var mergeTargets = map[transpiler.SymbolFlags]transpiler.SymbolFlags{
	transpiler.SymbolInterface: transpiler.SymbolInterface | transpiler.SymbolClass | transpiler.SymbolNamespace,
	transpiler.SymbolClass:     transpiler.SymbolInterface | transpiler.SymbolNamespace,
	transpiler.SymbolFunction:  transpiler.SymbolFunction | transpiler.SymbolNamespace,
	transpiler.SymbolEnum:      transpiler.SymbolEnum | transpiler.SymbolNamespace,
	transpiler.SymbolMethod:    transpiler.SymbolMethod,
	transpiler.SymbolNamespace: transpiler.SymbolNamespace | transpiler.SymbolClass | transpiler.SymbolFunction |
		transpiler.SymbolEnum | transpiler.SymbolInterface,
}

func canMerge(existing, added transpiler.SymbolFlags) bool {
	allowed, ok := mergeTargets[added&declKinds]
	if !ok {
		return false
	}
	kinds := existing & declKinds
	return kinds != 0 && kinds&^allowed == 0
}

// scope is a lexical scope. Values and types live in separate tables.
type scope struct {
	parent *scope
	values map[string]*transpiler.Symbol
	types  map[string]*transpiler.Symbol
	// ns is the namespace or enum whose members are visible here.
	ns *transpiler.Symbol
	// class owns the this type inside class and interface bodies.
	class *transpiler.Symbol
	// container becomes the Parent of symbols declared here.
	container *transpiler.Symbol
	fileName  string
	ambient   bool
	global    bool
}

func newScope(parent *scope) *scope {
	s := &scope{
		parent: parent,
		values: make(map[string]*transpiler.Symbol),
		types:  make(map[string]*transpiler.Symbol),
	}
	if parent != nil {
		s.fileName = parent.fileName
		s.ambient = parent.ambient
	}
	return s
}

func (s *scope) classSymbol() *transpiler.Symbol {
	for ; s != nil; s = s.parent {
		if s.class != nil {
			return s.class
		}
	}
	return nil
}

func (p *Program) lookup(sc *scope, name string, meaning transpiler.SymbolFlags) *transpiler.Symbol {
	searchTypes := meaning&typeOnlyFlags != 0 || meaning&valueOnlyFlags == 0
	searchValues := meaning&valueOnlyFlags != 0 || meaning&typeOnlyFlags == 0
	for s := sc; s != nil; s = s.parent {
		if searchTypes {
			if sym := s.types[name]; sym != nil {
				return sym
			}
		}
		if searchValues {
			if sym := s.values[name]; sym != nil {
				return sym
			}
		}
		if s.ns != nil {
			if sym := p.members[s.ns][name]; sym != nil && sym.Flags&meaning != 0 {
				return sym
			}
		}
	}
	return nil
}

// lookupAny finds name as a type, then as a value.
func (p *Program) lookupAny(sc *scope, name string) *transpiler.Symbol {
	if sym := p.lookup(sc, name, typeFlags); sym != nil {
		return sym
	}
	return p.lookup(sc, name, valueFlags)
}

func (p *Program) declare(sc *scope, name string, flags transpiler.SymbolFlags, decl jsast.Node) *transpiler.Symbol {
	if sc.global {
		flags |= transpiler.SymbolGlobal
	}
	if sc.ambient {
		flags |= transpiler.SymbolAmbient
	}
	var candidates []*transpiler.Symbol
	if flags&typeFlags != 0 {
		candidates = append(candidates, sc.types[name])
	}
	candidates = append(candidates, sc.values[name])
	for _, existing := range candidates {
		if existing != nil && canMerge(existing.Flags, flags) {
			existing.Flags |= flags
			existing.Decls = append(existing.Decls, decl)
			enter(sc, name, existing)
			return existing
		}
	}
	sym := &transpiler.Symbol{
		Name:     name,
		Flags:    flags,
		Decls:    []jsast.Node{decl},
		Parent:   sc.container,
		FileName: sc.fileName,
	}
	enter(sc, name, sym)
	return sym
}

func enter(sc *scope, name string, sym *transpiler.Symbol) {
	if sym.Flags&valueFlags != 0 {
		sc.values[name] = sym
	}
	if sym.Flags&typeFlags != 0 {
		sc.types[name] = sym
	}
}

// addMember records sym as the member name of owner, keeping the first
// registration.
func (p *Program) addMember(owner *transpiler.Symbol, name string, sym *transpiler.Symbol) {
	table := p.members[owner]
	if table == nil {
		table = make(map[string]*transpiler.Symbol)
		p.members[owner] = table
	}
	if _, ok := table[name]; ok {
		return
	}
	table[name] = sym
	p.memberOrder[owner] = append(p.memberOrder[owner], name)
}

// declareMember declares a class, interface or enum member. Method
// overloads merge into one symbol.
func (p *Program) declareMember(owner *transpiler.Symbol, static bool, name string, flags transpiler.SymbolFlags, decl jsast.Node) *transpiler.Symbol {
	var existing *transpiler.Symbol
	if static {
		existing = p.members[owner][name]
	} else {
		existing = p.instanceMembers[owner][name]
	}
	if existing != nil && canMerge(existing.Flags, flags) {
		existing.Decls = append(existing.Decls, decl)
		return existing
	}
	sym := &transpiler.Symbol{
		Name:     name,
		Flags:    flags,
		Decls:    []jsast.Node{decl},
		Parent:   owner,
		FileName: owner.FileName,
	}
	if static {
		p.addMember(owner, name, sym)
		return sym
	}
	table := p.instanceMembers[owner]
	if table == nil {
		table = make(map[string]*transpiler.Symbol)
		p.instanceMembers[owner] = table
	}
	table[name] = sym
	return sym
}

func (p *Program) record(sym *transpiler.Symbol, decl jsast.Node, name *jsast.Ident) {
	p.nodeSymbols[decl] = sym
	if name != nil {
		p.nodeSymbols[name] = sym
		p.nameDecls[name] = decl
	}
}

type pendingImport struct {
	decl     *jsast.ImportDecl
	sym      *transpiler.Symbol
	fileName string
	// name is the imported export, "" for a namespace import.
	name string
}

type pendingReexport struct {
	module   *transpiler.Symbol
	sc       *scope
	exported string
	local    string
	from     string
}

type pendingStar struct {
	module   *transpiler.Symbol
	fileName string
	from     string
}

func (p *Program) bindFile(f *jsast.SourceFile) {
	var sc *scope
	if mod := p.moduleSyms[f.FileName]; mod != nil {
		sc = newScope(p.globals)
		sc.container = mod
	} else {
		// Script files declare into the global scope.
		sc = &scope{parent: p.globals.parent, values: p.globals.values, types: p.globals.types, global: true}
	}
	sc.fileName = f.FileName
	sc.ambient = f.IsDeclarationFile
	p.bindStmts(f.Stmts, sc)
}

func (p *Program) bindStmts(stmts []jsast.Stmt, sc *scope) {
	for _, s := range stmts {
		p.bindStmt(s, sc)
	}
}

// exportFrom registers sym as an export of the enclosing module or
// namespace when mods say so.
func (p *Program) exportFrom(sc *scope, mods jsast.Modifiers, sym *transpiler.Symbol) {
	if sc.container == nil || !mods.Has(jsast.ModExport) {
		return
	}
	if mods.Has(jsast.ModDefault) {
		p.addMember(sc.container, "default", sym)
		return
	}
	p.addMember(sc.container, sym.Name, sym)
}

func (p *Program) bindStmt(s jsast.Stmt, sc *scope) {
	switch s := s.(type) {
	case *jsast.ImportDecl:
		p.bindImport(s, sc)

	case *jsast.ExportDecl:
		mod := sc.container
		if mod == nil {
			return
		}
		if s.Star {
			p.stars = append(p.stars, pendingStar{module: mod, fileName: sc.fileName, from: s.From})
			return
		}
		for _, spec := range s.Specs {
			p.reexports = append(p.reexports, pendingReexport{
				module: mod, sc: sc, exported: spec.Exported, local: spec.Local, from: s.From,
			})
		}

	case *jsast.ExportDefault:
		p.markRefs(s.X, sc)
		if id, ok := s.X.(*jsast.Ident); ok && sc.container != nil {
			p.reexports = append(p.reexports, pendingReexport{module: sc.container, sc: sc, exported: "default", local: id.Name})
			return
		}
		sym := &transpiler.Symbol{
			Name:     "default",
			Flags:    transpiler.SymbolVariable,
			Decls:    []jsast.Node{s},
			Parent:   sc.container,
			FileName: sc.fileName,
		}
		p.nodeSymbols[s] = sym
		if sc.container != nil {
			p.addMember(sc.container, "default", sym)
		}

	case *jsast.VarDecl:
		for _, b := range s.Bindings {
			p.markRefs(b.Type, sc)
			p.markRefs(b.Init, sc)
			if b.Name == nil {
				continue
			}
			flags := transpiler.SymbolVariable
			if s.Mods.Has(jsast.ModDeclare) {
				flags |= transpiler.SymbolAmbient
			}
			sym := p.declare(sc, b.Name.Name, flags, b)
			p.record(sym, b, b.Name)
			p.exportFrom(sc, s.Mods, sym)
		}

	case *jsast.FuncDecl:
		if s.Name != nil {
			flags := transpiler.SymbolFunction
			if s.Mods.Has(jsast.ModDeclare) {
				flags |= transpiler.SymbolAmbient
			}
			sym := p.declare(sc, s.Name.Name, flags, s)
			p.record(sym, s, s.Name)
			p.exportFrom(sc, s.Mods, sym)
		}
		fs := newScope(sc)
		p.bindSignature(fs, s.TypeParams, s.Params, s.Return)
		if s.Body != nil {
			p.bindStmts(s.Body.Stmts, fs)
		}

	case *jsast.ClassDecl:
		p.bindClass(s, sc)

	case *jsast.InterfaceDecl:
		p.bindInterface(s, sc)

	case *jsast.TypeAliasDecl:
		sym := p.declare(sc, s.Name.Name, transpiler.SymbolTypeAlias, s)
		p.record(sym, s, s.Name)
		p.exportFrom(sc, s.Mods, sym)
		ts := newScope(sc)
		p.bindTypeParams(ts, s.TypeParams)
		p.markRefs(s.Type, ts)

	case *jsast.EnumDecl:
		p.bindEnum(s, sc)

	case *jsast.NamespaceDecl:
		p.bindNamespace(s, sc)

	case *jsast.ExprStmt:
		p.markRefs(s.X, sc)
	case *jsast.ReturnStmt:
		p.markRefs(s.X, sc)
	case *jsast.Block:
		p.bindStmts(s.Stmts, newScope(sc))
	case *jsast.IfStmt:
		p.markRefs(s.Cond, sc)
		if s.Then != nil {
			p.bindStmts(s.Then.Stmts, newScope(sc))
		}
		if s.Else != nil {
			p.bindStmt(s.Else, sc)
		}
	}
}

func (p *Program) bindImport(s *jsast.ImportDecl, sc *scope) {
	p.imports = append(p.imports, pendingImport{decl: s, fileName: sc.fileName})
	alias := func(local *jsast.Ident, name string) {
		sym := &transpiler.Symbol{
			Name:     local.Name,
			Flags:    transpiler.SymbolAlias,
			FileName: sc.fileName,
		}
		enter(sc, local.Name, sym)
		p.nodeSymbols[local] = sym
		p.imports = append(p.imports, pendingImport{decl: s, sym: sym, fileName: sc.fileName, name: name})
	}
	if s.Default != nil {
		alias(s.Default, "default")
	}
	if s.Namespace != nil {
		alias(s.Namespace, "")
	}
	for _, spec := range s.Named {
		if spec.Local != nil {
			alias(spec.Local, spec.Imported)
			p.nodeSymbols[spec] = p.nodeSymbols[spec.Local]
		}
	}
}

func (p *Program) bindTypeParams(sc *scope, tps []*jsast.TypeParam) {
	for _, tp := range tps {
		sym := &transpiler.Symbol{
			Name:     tp.Name.Name,
			Flags:    transpiler.SymbolTypeParameter,
			Decls:    []jsast.Node{tp},
			FileName: sc.fileName,
		}
		sc.types[tp.Name.Name] = sym
		p.record(sym, tp, tp.Name)
		p.markRefs(tp.Constraint, sc)
		p.markRefs(tp.Default, sc)
	}
}

// bindSignature declares type parameters and parameters into fs, which is
// the scope of the function body.
func (p *Program) bindSignature(fs *scope, tps []*jsast.TypeParam, params []*jsast.Param, ret jsast.TypeNode) {
	p.bindTypeParams(fs, tps)
	for _, prm := range params {
		for _, d := range prm.Decorators {
			p.markRefs(d.X, fs.parent)
		}
		p.markRefs(prm.Type, fs)
		p.markRefs(prm.Init, fs)
		p.markRefs(prm.Pattern, fs)
		if prm.Name == nil || prm.IsThis() {
			continue
		}
		sym := &transpiler.Symbol{
			Name:     prm.Name.Name,
			Flags:    transpiler.SymbolVariable,
			Decls:    []jsast.Node{prm},
			FileName: fs.fileName,
		}
		fs.values[prm.Name.Name] = sym
		p.record(sym, prm, prm.Name)
	}
	p.markRefs(ret, fs)
}

func (p *Program) bindClass(c *jsast.ClassDecl, sc *scope) {
	var sym *transpiler.Symbol
	if c.Name != nil {
		flags := transpiler.SymbolClass
		if c.Mods.Has(jsast.ModDeclare) {
			flags |= transpiler.SymbolAmbient
		}
		sym = p.declare(sc, c.Name.Name, flags, c)
		p.record(sym, c, c.Name)
		p.exportFrom(sc, c.Mods, sym)
	} else {
		sym = &transpiler.Symbol{Name: "default", Flags: transpiler.SymbolClass, Decls: []jsast.Node{c}, Parent: sc.container, FileName: sc.fileName}
		p.nodeSymbols[c] = sym
		p.exportFrom(sc, c.Mods, sym)
	}

	for _, d := range c.Decorators {
		p.markRefs(d.X, sc)
	}
	cs := newScope(sc)
	cs.class = sym
	p.bindTypeParams(cs, c.TypeParams)
	if c.Extends != nil {
		p.markRefs(c.Extends.X, sc)
		for _, a := range c.Extends.TypeArgs {
			p.markRefs(a, cs)
		}
	}
	for _, i := range c.Implements {
		p.markRefs(i, cs)
	}

	for _, m := range c.Members {
		switch m := m.(type) {
		case *jsast.PropertyDecl:
			for _, d := range m.Decorators {
				p.markRefs(d.X, sc)
			}
			p.markRefs(m.Type, cs)
			p.markRefs(m.Init, cs)
			if name, ok := jsast.StaticName(m.Name); ok {
				ms := p.declareMember(sym, m.Mods.Has(jsast.ModStatic), name, transpiler.SymbolProperty, m)
				p.nodeSymbols[m] = ms
			} else {
				p.markRefs(m.Name, cs)
			}
		case *jsast.MethodDecl:
			for _, d := range m.Decorators {
				p.markRefs(d.X, sc)
			}
			if name, ok := jsast.StaticName(m.Name); ok {
				ms := p.declareMember(sym, m.Mods.Has(jsast.ModStatic), name, transpiler.SymbolMethod, m)
				p.nodeSymbols[m] = ms
			} else {
				p.markRefs(m.Name, cs)
			}
			fs := newScope(cs)
			p.bindSignature(fs, m.TypeParams, m.Params, m.Return)
			if m.Body != nil {
				p.bindStmts(m.Body.Stmts, fs)
			}
		case *jsast.Constructor:
			p.ctorClass[m] = sym
			fs := newScope(cs)
			p.bindSignature(fs, nil, m.Params, nil)
			for _, prm := range m.Params {
				if prm.Mods&jsast.AccessModifiers != 0 && prm.Name != nil {
					p.declareMember(sym, false, prm.Name.Name, transpiler.SymbolProperty, prm)
				}
			}
			if m.Body != nil {
				p.bindStmts(m.Body.Stmts, fs)
			}
		}
	}
}

func (p *Program) bindInterface(i *jsast.InterfaceDecl, sc *scope) {
	sym := p.declare(sc, i.Name.Name, transpiler.SymbolInterface, i)
	p.record(sym, i, i.Name)
	p.exportFrom(sc, i.Mods, sym)

	is := newScope(sc)
	is.class = sym
	p.bindTypeParams(is, i.TypeParams)
	for _, e := range i.Extends {
		p.markRefs(e, is)
	}
	for _, m := range i.Members {
		switch m := m.(type) {
		case *jsast.PropertySignature:
			p.markRefs(m.Type, is)
			if name, ok := jsast.StaticName(m.Name); ok {
				p.nodeSymbols[m] = p.declareMember(sym, false, name, transpiler.SymbolProperty, m)
			}
		case *jsast.MethodSignature:
			fs := newScope(is)
			p.bindSignature(fs, m.TypeParams, m.Params, m.Return)
			if name, ok := jsast.StaticName(m.Name); ok {
				p.nodeSymbols[m] = p.declareMember(sym, false, name, transpiler.SymbolMethod, m)
			}
		default:
			p.markRefs(m, is)
		}
	}
}

func (p *Program) bindEnum(e *jsast.EnumDecl, sc *scope) {
	flags := transpiler.SymbolEnum
	if e.Mods.Has(jsast.ModConst) {
		flags |= transpiler.SymbolConstEnum
	}
	if e.Mods.Has(jsast.ModDeclare) {
		flags |= transpiler.SymbolAmbient
	}
	sym := p.declare(sc, e.Name.Name, flags, e)
	p.record(sym, e, e.Name)
	p.exportFrom(sc, e.Mods, sym)

	es := newScope(sc)
	es.ns = sym
	for _, m := range e.Members {
		p.markRefs(m.Init, es)
		name, ok := jsast.StaticName(m.Name)
		if !ok {
			continue
		}
		ms := p.declareMember(sym, true, name, transpiler.SymbolEnumMember, m)
		ms.FileName = sc.fileName
		p.nodeSymbols[m] = ms
		p.memberEnum[m] = e
	}
}

func (p *Program) bindNamespace(n *jsast.NamespaceDecl, sc *scope) {
	if n.IsGlobalAugmentation() {
		gs := &scope{
			parent:   p.globals.parent,
			values:   p.globals.values,
			types:    p.globals.types,
			fileName: sc.fileName,
			ambient:  true,
			global:   true,
		}
		p.bindStmts(n.Body, gs)
		return
	}
	flags := transpiler.SymbolNamespace
	if n.Mods.Has(jsast.ModDeclare) {
		flags |= transpiler.SymbolAmbient
	}
	sym := p.declare(sc, n.Name.Name, flags, n)
	p.record(sym, n, n.Name)
	p.exportFrom(sc, n.Mods, sym)

	ns := newScope(sc)
	ns.ns = sym
	ns.container = sym
	ns.ambient = sc.ambient || n.Mods.Has(jsast.ModDeclare)
	p.bindStmts(n.Body, ns)
}

// markRefs records the lookup scope of every reference below n and binds
// the function expressions it contains.
func (p *Program) markRefs(n jsast.Node, sc *scope) {
	if n == nil {
		return
	}
	jsast.Inspect(n, func(x jsast.Node) bool {
		switch x := x.(type) {
		case *jsast.Ident, *jsast.TypeRef, *jsast.KeywordType, *jsast.This, *jsast.TypeQuery, *jsast.PropertyAccess:
			p.scopes[x] = sc
		case *jsast.Arrow:
			p.scopes[x] = sc
			fs := newScope(sc)
			p.bindSignature(fs, nil, x.Params, x.Return)
			if x.Body != nil {
				p.bindStmts(x.Body.Stmts, fs)
			}
			p.markRefs(x.Expr, fs)
			return false
		case *jsast.FuncExpr:
			p.scopes[x] = sc
			fs := newScope(sc)
			p.bindSignature(fs, nil, x.Params, x.Return)
			if x.Body != nil {
				p.bindStmts(x.Body.Stmts, fs)
			}
			return false
		case *jsast.FunctionTypeNode:
			fs := newScope(sc)
			p.bindSignature(fs, x.TypeParams, x.Params, x.Return)
			return false
		case *jsast.MethodSignature:
			fs := newScope(sc)
			p.bindSignature(fs, x.TypeParams, x.Params, x.Return)
			return false
		case *jsast.CallSignature:
			fs := newScope(sc)
			p.bindSignature(fs, x.TypeParams, x.Params, x.Return)
			return false
		case *jsast.ConstructSignature:
			fs := newScope(sc)
			p.bindSignature(fs, x.TypeParams, x.Params, x.Return)
			return false
		}
		return true
	})
}

// resolveModules links exports, re-exports and imports once every file
// is bound.
func (p *Program) resolveModules() {
	type deferred struct {
		alias  *transpiler.Symbol
		module *transpiler.Symbol
		name   string
	}
	var links []deferred

	for _, r := range p.reexports {
		if r.from != "" {
			continue
		}
		target := p.lookupAny(r.sc, r.local)
		if target == nil {
			continue
		}
		if r.exported == r.local && !target.IsAlias() {
			p.addMember(r.module, r.exported, target)
			continue
		}
		p.addMember(r.module, r.exported, &transpiler.Symbol{
			Name:     r.exported,
			Flags:    transpiler.SymbolAlias,
			Parent:   r.module,
			FileName: r.module.FileName,
			Target:   target,
		})
	}
	for _, r := range p.reexports {
		if r.from == "" {
			continue
		}
		alias := &transpiler.Symbol{
			Name:     r.exported,
			Flags:    transpiler.SymbolAlias,
			Parent:   r.module,
			FileName: r.module.FileName,
		}
		p.addMember(r.module, r.exported, alias)
		links = append(links, deferred{alias: alias, module: p.resolveImport(r.module.FileName, r.from), name: r.local})
	}

	// export * needs a fixed point since star exports can chain.
	for changed := true; changed; {
		changed = false
		for _, s := range p.stars {
			from := p.resolveImport(s.fileName, s.from)
			if from == nil {
				continue
			}
			for _, name := range p.memberOrder[from] {
				if name == "default" {
					continue
				}
				if _, ok := p.members[s.module][name]; !ok {
					p.addMember(s.module, name, p.members[from][name])
					changed = true
				}
			}
		}
	}

	for _, l := range links {
		if l.module != nil {
			p.link(l.alias, p.members[l.module][l.name])
		}
	}
	for _, imp := range p.imports {
		mod := p.resolveImport(imp.fileName, imp.decl.Path)
		if imp.sym == nil {
			if mod != nil {
				p.importTargets[imp.decl] = mod
			}
			continue
		}
		if mod == nil {
			continue
		}
		if imp.name == "" {
			p.link(imp.sym, mod)
			continue
		}
		p.link(imp.sym, p.members[mod][imp.name])
	}
}

// link points alias at target unless that would close an alias cycle.
func (p *Program) link(alias, target *transpiler.Symbol) {
	if target == nil {
		return
	}
	for s, i := target, 0; s != nil && i < 64; s, i = s.Target, i+1 {
		if s == alias {
			return
		}
	}
	alias.Target = target
}

func (p *Program) resolveImport(fileName, importPath string) *transpiler.Symbol {
	name := importPath
	if p.host != nil {
		name = p.host.PathToModuleName(fileName, importPath)
	}
	f, ok := p.byModule[name]
	if !ok {
		return nil
	}
	return p.moduleSyms[f.FileName]
}
