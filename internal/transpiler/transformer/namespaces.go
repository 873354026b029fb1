package transformer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/tscerr"
)

// mergeTargets are the declarations a namespace may extend.
const mergeTargets = transpiler.SymbolClass | transpiler.SymbolInterface | transpiler.SymbolEnum

// flattenNamespaces hoists the declarations of namespaces merged with a
// class, interface or enum to file scope as Outer$Inner and attaches them
// to the outer declaration. Other runtime namespaces are rejected.
func flattenNamespaces(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	out := make([]jsast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		ns, ok := s.(*jsast.NamespaceDecl)
		if !ok || ns.Mods.Has(jsast.ModDeclare) || fc.file.IsDeclarationFile {
			out = append(out, s)
			continue
		}
		if !fc.canFlatten(ns) {
			continue
		}
		out = append(out, fc.flatten(ns, ns.Name.Name, ns.Name.Name)...)
	}
	return out, nil
}

func (fc *fileContext) canFlatten(ns *jsast.NamespaceDecl) bool {
	sym := fc.symbolOf(ns.Name)
	switch {
	case sym == nil:
		fc.errorAt(tscerr.CategoryNamespace, ns, "namespace %s could not be resolved", ns.Name.Name)
		return false
	case sym.Flags.Has(transpiler.SymbolFunction):
		fc.errorAt(tscerr.CategoryNamespace, ns, "namespace %s merging with a function is not supported", ns.Name.Name)
		return false
	case !sym.Flags.Has(mergeTargets):
		fc.errorAt(tscerr.CategoryNamespace, ns, "namespace %s is not supported: only namespaces merging with a class, interface or enum can be emitted", ns.Name.Name)
		return false
	}
	return true
}

// flatten hoists the body of ns. local is the emitted name of the merged
// declaration and qualified its dotted path.
func (fc *fileContext) flatten(ns *jsast.NamespaceDecl, local, qualified string) []jsast.Stmt {
	var out []jsast.Stmt
	for _, s := range ns.Body {
		switch s := s.(type) {
		case *jsast.ClassDecl:
			c := *s
			c.Name = fc.mangle(local, s.Name)
			c.Mods = unexported(s.Mods)
			fc.derive(&c, s)
			out = append(out, &c, fc.attachValue(s, local, s.Name.Name))
		case *jsast.FuncDecl:
			f := *s
			f.Name = fc.mangle(local, s.Name)
			f.Mods = unexported(s.Mods)
			fc.derive(&f, s)
			out = append(out, &f)
			// Overload signatures share one attachment, after the implementation.
			if s.Body != nil {
				out = append(out, fc.attachValue(s, local, s.Name.Name))
			}
		case *jsast.EnumDecl:
			e := *s
			e.Name = fc.mangle(local, s.Name)
			e.Mods = unexported(s.Mods)
			fc.derive(&e, s)
			out = append(out, &e, fc.attachValue(s, local, s.Name.Name))
		case *jsast.InterfaceDecl:
			i := *s
			i.Name = fc.mangle(local, s.Name)
			i.Mods = unexported(s.Mods)
			fc.derive(&i, s)
			out = append(out, &i, fc.attachType(s, local, s.Name.Name, "!"+i.Name.Name))
		case *jsast.TypeAliasDecl:
			a := *s
			a.Name = fc.mangle(local, s.Name)
			a.Mods = unexported(s.Mods)
			fc.derive(&a, s)
			out = append(out, &a, fc.attachType(s, local, s.Name.Name, a.Name.Name))
		case *jsast.NamespaceDecl:
			sym := fc.symbolOf(s.Name)
			if sym == nil || !sym.Flags.Has(mergeTargets) || s.Mods.Has(jsast.ModDeclare) {
				fc.errorAt(tscerr.CategoryNamespace, s, "nested namespace %s.%s has no class, interface or enum to merge with", qualified, s.Name.Name)
				continue
			}
			out = append(out, fc.flatten(s, local+"$"+s.Name.Name, qualified+"."+s.Name.Name)...)
		case *jsast.CommentStmt:
			out = append(out, s)
		default:
			fc.errorAt(tscerr.CategoryNamespace, s, "only classes, interfaces, enums, functions and type aliases can be declared in namespace %s", qualified)
		}
	}
	return out
}

// mangle returns the hoisted name of a nested declaration. The new
// identifier still resolves to the nested declaration's symbol.
func (fc *fileContext) mangle(local string, name *jsast.Ident) *jsast.Ident {
	id := &jsast.Ident{Base: name.Base, Name: local + "$" + name.Name}
	fc.derive(id, name)
	return id
}

func unexported(m jsast.Modifiers) jsast.Modifiers {
	return m &^ (jsast.ModExport | jsast.ModDefault)
}

// attachValue emits "/** @const */ Outer.Inner = Outer$Inner;".
func (fc *fileContext) attachValue(at jsast.Node, local, name string) jsast.Stmt {
	s := jsast.NewAssign(jsast.NewAccess(jsast.NewIdent(local), name), jsast.NewIdent(local+"$"+name))
	s.Base = jsast.At(at)
	s.Doc = jsdoc.ToString([]*jsdoc.Tag{{TagName: "const"}}, false)
	fc.synthesized.Insert(s)
	return s
}

// attachType emits "/** @typedef {T} */ Outer.Inner;".
func (fc *fileContext) attachType(at jsast.Node, local, name, typ string) jsast.Stmt {
	s := &jsast.ExprStmt{
		Base: jsast.At(at),
		Doc:  jsdoc.ToString([]*jsdoc.Tag{{TagName: "typedef", Type: typ}}, false),
		X:    jsast.NewAccess(jsast.NewIdent(local), name),
	}
	fc.synthesized.Insert(s)
	return s
}
