package transformer

import (
	"strings"

	"github.com/cockroachdb/errors"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/internal/transpiler/modtranslator"
	"martianoff/tsclosure/tscerr"
)

// annotate attaches Closure type annotations to every declaration, lowers
// type-only declarations into their annotation forms and collects ambient
// declarations for the externs.
func annotate(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	a := &annotator{fc: fc}
	return a.block(stmts, true)
}

type annotator struct {
	fc *fileContext
}

func (a *annotator) block(stmts []jsast.Stmt, top bool) ([]jsast.Stmt, error) {
	fc := a.fc
	out := make([]jsast.Stmt, 0, len(stmts))
	for i := 0; i < len(stmts); i++ {
		s := stmts[i]
		if fc.synthesized.Contains(s) {
			out = append(out, s)
			continue
		}
		if top && a.ambient(s) {
			continue
		}
		var (
			res []jsast.Stmt
			err error
		)
		switch s := s.(type) {
		case *jsast.ImportDecl:
			if imp := a.importDecl(s); imp != nil {
				res = []jsast.Stmt{imp}
			}
		case *jsast.ExportDecl:
			if exp := a.exportDecl(s); exp != nil {
				res = []jsast.Stmt{exp}
			}
		case *jsast.VarDecl:
			res, err = a.varDecl(s)
		case *jsast.FuncDecl:
			group := []jsast.Node{s}
			for s.Body == nil && i+1 < len(stmts) {
				next, ok := stmts[i+1].(*jsast.FuncDecl)
				if !ok || next.Name == nil || s.Name == nil || next.Name.Name != s.Name.Name {
					break
				}
				group = append(group, next)
				s = next
				i++
			}
			res, err = a.function(group)
		case *jsast.ClassDecl:
			res, err = a.class(s)
		case *jsast.InterfaceDecl:
			res, err = a.iface(s)
		case *jsast.TypeAliasDecl:
			res, err = a.typedef(s)
		case *jsast.NamespaceDecl:
			err = tscerr.NewInternalErrorAt(fc.file.FileName, s.Position().Line, s.Position().Column,
				errors.AssertionFailedf("namespace %s reached annotation", s.Name.Name))
		case *jsast.Block:
			var body []jsast.Stmt
			body, err = a.block(s.Stmts, false)
			res = []jsast.Stmt{&jsast.Block{Base: s.Base, Stmts: body}}
		case *jsast.IfStmt:
			var st jsast.Stmt
			st, err = a.ifStmt(s)
			res = []jsast.Stmt{st}
		default:
			res = []jsast.Stmt{s}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (a *annotator) ifStmt(s *jsast.IfStmt) (*jsast.IfStmt, error) {
	then, err := a.block(s.Then.Stmts, false)
	if err != nil {
		return nil, err
	}
	n := *s
	n.Then = &jsast.Block{Base: s.Then.Base, Stmts: then}
	switch e := s.Else.(type) {
	case *jsast.Block:
		els, err := a.block(e.Stmts, false)
		if err != nil {
			return nil, err
		}
		n.Else = &jsast.Block{Base: e.Base, Stmts: els}
	case *jsast.IfStmt:
		if n.Else, err = a.ifStmt(e); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

// ambient reports whether s was consumed as an ambient declaration.
// Statements of script declaration files and declare statements of
// scripts feed the externs; declare statements of modules are dropped.
func (a *annotator) ambient(s jsast.Stmt) bool {
	fc := a.fc
	if ns, ok := s.(*jsast.NamespaceDecl); ok && ns.IsGlobalAugmentation() {
		fc.ambient = append(fc.ambient, ns.Body...)
		return true
	}
	if fc.file.IsDeclarationFile {
		if _, isDecl := s.(jsast.Declaration); isDecl && !fc.isModule {
			fc.ambient = append(fc.ambient, s)
		}
		return true
	}
	d, ok := s.(jsast.Declaration)
	if !ok || !d.Modifiers().Has(jsast.ModDeclare) {
		return false
	}
	if fc.isModule {
		pos := s.Position()
		fc.diags.WarnWithHint(tscerr.CategoryExterns, pos.Line, pos.Column,
			"ambient declarations in modules produce no externs",
			"move the declaration into a declare global { ... } block")
		return true
	}
	fc.ambient = append(fc.ambient, s)
	return true
}

func (a *annotator) importDecl(imp *jsast.ImportDecl) jsast.Stmt {
	fc := a.fc
	modSym := fc.symbolOf(imp)
	moduleName := fc.host.PathToModuleName(fc.file.FileName, imp.Path)
	if imp.TypeOnly {
		fc.mtt.RequireType(imp, imp.Path, modSym, imp.Default != nil)
		return nil
	}
	if imp.Default == nil && imp.Namespace == nil && len(imp.Named) == 0 {
		fc.mtt.AddReferencedModule(moduleName)
		return imp
	}

	ni := *imp
	ni.Default, ni.Named = nil, nil
	typeOnly, typeOnlyDefault := false, false
	if imp.Default != nil {
		if fc.isTypeOnlyBinding(imp.Default) {
			typeOnly, typeOnlyDefault = true, true
		} else {
			ni.Default = imp.Default
			fc.mtt.RegisterImportAlias(fc.symbolOf(imp.Default), imp.Default.Name)
		}
	}
	if imp.Namespace != nil && modSym != nil {
		fc.mtt.RegisterImportAlias(modSym, imp.Namespace.Name)
		for _, exp := range fc.checker.ExportsOfModule(modSym) {
			fc.mtt.RegisterImportAlias(exp, imp.Namespace.Name+"."+exp.Name)
		}
	}
	for _, spec := range imp.Named {
		if spec.TypeOnly || fc.isTypeOnlyBinding(spec.Local) {
			typeOnly = true
			continue
		}
		fc.mtt.RegisterImportAlias(fc.symbolOf(spec.Local), spec.Local.Name)
		ni.Named = append(ni.Named, spec)
	}
	if typeOnly {
		fc.mtt.RequireType(imp, imp.Path, modSym, typeOnlyDefault)
	}
	if ni.Default == nil && ni.Namespace == nil && len(ni.Named) == 0 {
		return nil
	}
	fc.mtt.AddReferencedModule(moduleName)
	fc.derive(&ni, imp)
	return &ni
}

// isTypeOnlyBinding reports whether an imported name only denotes a type,
// so the import is needed for type checking alone.
func (fc *fileContext) isTypeOnlyBinding(local *jsast.Ident) bool {
	if local == nil {
		return false
	}
	target := fc.resolvedSymbolOf(local)
	return target != nil && !target.IsAlias() && !target.Flags.Has(transpiler.SymbolValue)
}

func (a *annotator) exportDecl(e *jsast.ExportDecl) jsast.Stmt {
	fc := a.fc
	if e.TypeOnly {
		return nil
	}
	if e.From != "" {
		fc.mtt.AddReferencedModule(fc.host.PathToModuleName(fc.file.FileName, e.From))
	}
	if e.Star {
		return e
	}
	ne := *e
	ne.Specs = nil
	for _, spec := range e.Specs {
		if !spec.TypeOnly {
			ne.Specs = append(ne.Specs, spec)
		}
	}
	if len(ne.Specs) == 0 {
		return nil
	}
	if len(ne.Specs) == len(e.Specs) {
		return e
	}
	fc.derive(&ne, e)
	return &ne
}

// varDecl splits a variable statement into one statement per binding,
// each with its @type.
func (a *annotator) varDecl(v *jsast.VarDecl) ([]jsast.Stmt, error) {
	fc := a.fc
	out := make([]jsast.Stmt, 0, len(v.Bindings))
	for i, b := range v.Bindings {
		typ, err := fc.mtt.TypeToClosure(b, nil)
		if err != nil {
			return nil, err
		}
		doc, base := "", b.Base
		if i == 0 {
			doc, base = v.Doc, v.Base
		}
		nb := &jsast.VarBinding{Base: b.Base, Name: b.Name, Init: b.Init}
		fc.derive(nb, b)
		nv := &jsast.VarDecl{
			Base:     base,
			Doc:      fc.withDoc(v, doc, &jsdoc.Tag{TagName: "type", Type: typ}),
			Mods:     v.Mods,
			Kind:     v.Kind,
			Bindings: []*jsast.VarBinding{nb},
		}
		fc.derive(nv, v)
		out = append(out, nv)
	}
	return out, nil
}

// function collapses an overload group into its implementation documented
// with the merged signature.
func (a *annotator) function(group []jsast.Node) ([]jsast.Stmt, error) {
	fc := a.fc
	impl := group[len(group)-1].(*jsast.FuncDecl)
	if impl.Body == nil {
		return nil, nil
	}
	doc, err := fc.mtt.FunctionTypeJSDoc(group, nil)
	if err != nil {
		return nil, err
	}
	body, err := a.block(impl.Body.Stmts, false)
	if err != nil {
		return nil, err
	}
	f := *impl
	f.Doc = jsdoc.ToString(doc.Tags, true)
	f.TypeParams = nil
	f.Return = nil
	f.Params = fc.stripParams(impl.Params)
	f.Body = &jsast.Block{Base: impl.Body.Base, Stmts: body}
	fc.derive(&f, impl)
	return []jsast.Stmt{&f}, nil
}

// stripParams copies params without their type syntax.
func (fc *fileContext) stripParams(params []*jsast.Param) []*jsast.Param {
	out := make([]*jsast.Param, len(params))
	for i, p := range params {
		np := *p
		np.Type = nil
		np.Optional = false
		np.Mods = 0
		fc.derive(&np, p)
		out[i] = &np
	}
	return out
}

// paramsFromDoc builds the parameter list of a declaration-only function
// from its merged @param tags.
func paramsFromDoc(doc *modtranslator.FunctionDoc) []*jsast.Param {
	var out []*jsast.Param
	for _, t := range doc.Tags {
		if t.TagName == "param" {
			out = append(out, &jsast.Param{Name: jsast.NewIdent(t.ParameterName), Rest: t.RestParam})
		}
	}
	return out
}

// typedef turns a type alias into "/** @typedef {T} */ let T;".
func (a *annotator) typedef(t *jsast.TypeAliasDecl) ([]jsast.Stmt, error) {
	fc := a.fc
	fc.mtt.MarkTypeParametersUnknown(t.TypeParams)
	typ, err := fc.mtt.TypedefToClosure(t, nil)
	if err != nil {
		return nil, err
	}
	v := &jsast.VarDecl{
		Base:     t.Base,
		Doc:      fc.withDoc(t, t.Doc, &jsdoc.Tag{TagName: "typedef", Type: typ}),
		Mods:     t.Mods & jsast.ModExport,
		Kind:     jsast.VarLet,
		Bindings: []*jsast.VarBinding{{Base: t.Name.Base, Name: t.Name}},
	}
	fc.derive(v, t)
	return []jsast.Stmt{v}, nil
}

func typeParamNames(tps []*jsast.TypeParam) string {
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name.Name
	}
	return strings.Join(names, ", ")
}
