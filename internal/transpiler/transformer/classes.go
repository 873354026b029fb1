package transformer

import (
	"strings"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/tscerr"
)

const paramPropertyMods = jsast.ModPublic | jsast.ModPrivate | jsast.ModProtected | jsast.ModReadonly

// class annotates a class and returns it followed by an "if (false)"
// block declaring the members that have no initializer.
func (a *annotator) class(c *jsast.ClassDecl) ([]jsast.Stmt, error) {
	fc := a.fc
	tags := fc.userTags(c, c.Doc)
	if c.Mods.Has(jsast.ModAbstract) {
		tags = append(tags, &jsdoc.Tag{TagName: "abstract"})
	}
	if len(c.TypeParams) > 0 {
		tags = append(tags, &jsdoc.Tag{TagName: "template", Text: typeParamNames(c.TypeParams)})
	}
	if c.Extends != nil && len(c.Extends.TypeArgs) > 0 {
		t, err := a.extendsTag(c.Extends)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tags = append(tags, t)
		}
	}
	for _, ref := range c.Implements {
		if t := a.heritageTag(ref, "implements"); t != nil {
			tags = append(tags, t)
		}
	}

	className := ""
	if c.Name != nil {
		className = c.Name.Name
	}
	cb := &classBuilder{a: a, name: className}
	for i := 0; i < len(c.Members); i++ {
		m := c.Members[i]
		if fc.synthesized.Contains(m) {
			cb.members = append(cb.members, m)
			continue
		}
		var err error
		switch m := m.(type) {
		case *jsast.PropertyDecl:
			err = cb.property(m)
		case *jsast.MethodDecl:
			group := []jsast.Node{m}
			for m.Body == nil && i+1 < len(c.Members) {
				next, ok := c.Members[i+1].(*jsast.MethodDecl)
				if !ok || !sameMethod(m, next) {
					break
				}
				group = append(group, next)
				m = next
				i++
			}
			err = cb.method(group)
		case *jsast.Constructor:
			group := []jsast.Node{m}
			for m.Body == nil && i+1 < len(c.Members) {
				next, ok := c.Members[i+1].(*jsast.Constructor)
				if !ok {
					break
				}
				group = append(group, next)
				m = next
				i++
			}
			err = cb.constructor(group)
		}
		if err != nil {
			return nil, err
		}
	}

	nc := *c
	nc.Doc = jsdoc.ToString(tags, true)
	nc.TypeParams = nil
	nc.Implements = nil
	if c.Extends != nil {
		h := *c.Extends
		h.TypeArgs = nil
		nc.Extends = &h
	}
	nc.Members = cb.members
	fc.derive(&nc, c)

	out := []jsast.Stmt{&nc}
	if len(cb.decls) > 0 {
		if className == "" {
			fc.warnAt(tscerr.CategoryType, c, "member declarations of an anonymous class are dropped")
		} else {
			out = append(out, declarationBlock(cb.decls))
		}
	}
	return out, nil
}

func sameMethod(a, b *jsast.MethodDecl) bool {
	an, aok := jsast.StaticName(a.Name)
	bn, bok := jsast.StaticName(b.Name)
	return aok && bok && an == bn && a.Kind == b.Kind && a.Mods.Has(jsast.ModStatic) == b.Mods.Has(jsast.ModStatic)
}

// declarationBlock wraps property declarations in "if (false) { ... }" so
// they are seen by the compiler but never run.
func declarationBlock(stmts []jsast.Stmt) jsast.Stmt {
	return &jsast.IfStmt{Cond: &jsast.BoolLit{Value: false}, Then: &jsast.Block{Stmts: stmts}}
}

// extendsTag returns @extends {Base<Args>}. Type arguments beyond the
// base's declared type parameters are dropped.
func (a *annotator) extendsTag(h *jsast.Heritage) (*jsdoc.Tag, error) {
	fc := a.fc
	base := fc.resolvedSymbolOf(h.X)
	name := fc.mtt.SymbolToString(base)
	if name == "" {
		var ok bool
		if name, ok = jsast.EntityName(h.X); !ok {
			return nil, nil
		}
	}
	args := h.TypeArgs
	if limit := declaredTypeParamCount(base); limit >= 0 && len(args) > limit {
		args = args[:limit]
	}
	if len(args) == 0 {
		return nil, nil
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		s, err := fc.mtt.TypeToClosure(arg, nil)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return &jsdoc.Tag{TagName: "extends", Type: name + "<" + strings.Join(parts, ", ") + ">"}, nil
}

// declaredTypeParamCount returns the type parameter count of the class or
// interface sym, or -1 when it has no source declarations.
func declaredTypeParamCount(sym *transpiler.Symbol) int {
	if sym == nil || len(sym.Decls) == 0 {
		return -1
	}
	n := 0
	for _, d := range sym.Decls {
		switch d := d.(type) {
		case *jsast.ClassDecl:
			n = max(n, len(d.TypeParams))
		case *jsast.InterfaceDecl:
			n = max(n, len(d.TypeParams))
		}
	}
	return n
}

// heritageTag returns @implements or @extends naming the interface ref
// refers to. Classes cannot be implemented in Closure and are skipped.
func (a *annotator) heritageTag(ref *jsast.TypeRef, tagName string) *jsdoc.Tag {
	fc := a.fc
	sym := fc.resolvedSymbolOf(ref)
	if sym == nil {
		return nil
	}
	if sym.Flags.Has(transpiler.SymbolClass) {
		fc.warnAt(tscerr.CategoryType, ref, "dropped @%s of class %s: only interfaces are supported", tagName, sym.Name)
		return nil
	}
	name := fc.mtt.SymbolToString(sym)
	if name == "" {
		return nil
	}
	return &jsdoc.Tag{TagName: tagName, Type: name}
}

type classBuilder struct {
	a       *annotator
	name    string
	members []jsast.ClassMember
	decls   []jsast.Stmt
}

// memberTarget is C.prototype.name or C.name for static members.
func memberTarget(owner string, static bool, name jsast.PropertyName) (jsast.Expr, bool) {
	if _, computed := name.(*jsast.ComputedName); computed {
		return nil, false
	}
	n, ok := jsast.StaticName(name)
	if !ok {
		return nil, false
	}
	var base jsast.Expr = jsast.NewIdent(owner)
	if !static {
		base = jsast.NewAccess(base, "prototype")
	}
	if jsast.IsValidPropertyName(n) {
		return jsast.NewAccess(base, n), true
	}
	return &jsast.ElementAccess{X: base, Index: jsast.NewString(n)}, true
}

func visibilityTags(mods jsast.Modifiers) []*jsdoc.Tag {
	var tags []*jsdoc.Tag
	if mods.Has(jsast.ModReadonly) {
		tags = append(tags, &jsdoc.Tag{TagName: "const"})
	}
	switch {
	case mods.Has(jsast.ModPrivate):
		tags = append(tags, &jsdoc.Tag{TagName: "private"})
	case mods.Has(jsast.ModProtected):
		tags = append(tags, &jsdoc.Tag{TagName: "protected"})
	}
	return tags
}

// declare adds "/** doc */ target;" to the declaration block.
func (cb *classBuilder) declare(at jsast.Node, static bool, name jsast.PropertyName, doc string) {
	target, ok := memberTarget(cb.name, static, name)
	if !ok {
		cb.a.fc.warnAt(tscerr.CategoryType, at, "cannot declare a member with a computed name")
		return
	}
	cb.decls = append(cb.decls, &jsast.ExprStmt{Base: jsast.At(at), Doc: doc, X: target})
}

func (cb *classBuilder) property(p *jsast.PropertyDecl) error {
	fc := cb.a.fc
	typ, err := fc.mtt.TypeToClosure(p, nil)
	if err != nil {
		return err
	}
	generated := append([]*jsdoc.Tag{{TagName: "type", Type: typ}}, visibilityTags(p.Mods)...)
	doc := fc.withDoc(p, p.Doc, generated...)
	if p.Init == nil || p.Mods.Has(jsast.ModAbstract|jsast.ModDeclare) {
		cb.declare(p, p.Mods.Has(jsast.ModStatic), p.Name, doc)
		return nil
	}
	np := *p
	np.Doc = doc
	np.Type = nil
	np.Optional = false
	fc.derive(&np, p)
	cb.members = append(cb.members, &np)
	return nil
}

func (cb *classBuilder) method(group []jsast.Node) error {
	fc := cb.a.fc
	last := group[len(group)-1].(*jsast.MethodDecl)
	if last.Body == nil && !last.Mods.Has(jsast.ModAbstract) {
		// Overload signatures without an implementation.
		return nil
	}
	doc, err := fc.mtt.FunctionTypeJSDoc(group, visibilityTags(last.Mods&^jsast.ModReadonly))
	if err != nil {
		return err
	}
	docText := jsdoc.ToString(doc.Tags, true)
	if last.Body == nil {
		target, ok := memberTarget(cb.name, last.Mods.Has(jsast.ModStatic), last.Name)
		if !ok {
			fc.warnAt(tscerr.CategoryType, last, "cannot declare an abstract method with a computed name")
			return nil
		}
		fn := &jsast.FuncExpr{Params: paramsFromDoc(doc), Body: &jsast.Block{}}
		decl := jsast.NewAssign(target, fn)
		decl.Base = last.Base
		decl.Doc = docText
		cb.decls = append(cb.decls, decl)
		return nil
	}
	body, err := cb.a.block(last.Body.Stmts, false)
	if err != nil {
		return err
	}
	nm := *last
	nm.Doc = docText
	nm.TypeParams = nil
	nm.Return = nil
	nm.Optional = false
	nm.Params = fc.stripParams(last.Params)
	nm.Body = &jsast.Block{Base: last.Body.Base, Stmts: body}
	fc.derive(&nm, last)
	cb.members = append(cb.members, &nm)
	return nil
}

// constructor documents the constructor and turns parameter properties
// into assignments plus member declarations.
func (cb *classBuilder) constructor(group []jsast.Node) error {
	fc := cb.a.fc
	impl := group[len(group)-1].(*jsast.Constructor)
	if impl.Body == nil {
		return nil
	}
	doc, err := fc.mtt.FunctionTypeJSDoc(group, nil)
	if err != nil {
		return err
	}
	body, err := cb.a.block(impl.Body.Stmts, false)
	if err != nil {
		return err
	}

	var assigns []jsast.Stmt
	for _, prm := range impl.Params {
		if !prm.Mods.Has(paramPropertyMods) || prm.Name == nil {
			continue
		}
		name := prm.Name.Name
		assign := jsast.NewAssign(jsast.NewAccess(&jsast.This{}, name), jsast.NewIdent(name))
		assign.Base = prm.Base
		assigns = append(assigns, assign)

		typ, err := fc.mtt.TypeToClosure(prm, nil)
		if err != nil {
			return err
		}
		tags := append([]*jsdoc.Tag{{TagName: "type", Type: typ}}, visibilityTags(prm.Mods)...)
		cb.declare(prm, false, prm.Name, jsdoc.ToString(tags, true))
	}

	nc := *impl
	nc.Doc = jsdoc.ToString(doc.Tags, true)
	nc.Params = fc.stripParams(impl.Params)
	nc.Body = &jsast.Block{Base: impl.Body.Base, Stmts: insertAfterSuper(body, assigns)}
	fc.derive(&nc, impl)
	cb.members = append(cb.members, &nc)
	return nil
}

func insertAfterSuper(body, extra []jsast.Stmt) []jsast.Stmt {
	if len(extra) == 0 {
		return body
	}
	at := 0
	for i, s := range body {
		if es, ok := s.(*jsast.ExprStmt); ok {
			if call, ok := es.X.(*jsast.Call); ok {
				if _, isSuper := call.Fn.(*jsast.Super); isSuper {
					at = i + 1
					break
				}
			}
		}
	}
	out := make([]jsast.Stmt, 0, len(body)+len(extra))
	out = append(out, body[:at]...)
	out = append(out, extra...)
	return append(out, body[at:]...)
}

// iface emits "/** @record */ function I() {}" for the first declaration
// of an interface and declares its members on the prototype.
func (a *annotator) iface(i *jsast.InterfaceDecl) ([]jsast.Stmt, error) {
	fc := a.fc
	sym := fc.symbolOf(i.Name)
	if sym != nil && sym.Flags.Has(transpiler.SymbolClass) {
		return nil, nil
	}
	var out []jsast.Stmt
	if sym == nil || len(sym.Decls) == 0 || sym.Decls[0] == fc.orig(i) {
		tags := append(fc.userTags(i, i.Doc), &jsdoc.Tag{TagName: "record"})
		if len(i.TypeParams) > 0 {
			tags = append(tags, &jsdoc.Tag{TagName: "template", Text: typeParamNames(i.TypeParams)})
		}
		for _, ext := range i.Extends {
			if t := a.heritageTag(ext, "extends"); t != nil {
				tags = append(tags, t)
			}
		}
		fn := &jsast.FuncDecl{
			Base: i.Base,
			Doc:  jsdoc.ToString(tags, true),
			Mods: i.Mods & (jsast.ModExport | jsast.ModDefault),
			Name: i.Name,
			Body: &jsast.Block{},
		}
		fc.derive(fn, i)
		out = append(out, fn)
	}

	cb := &classBuilder{a: a, name: i.Name.Name}
	for k := 0; k < len(i.Members); k++ {
		switch m := i.Members[k].(type) {
		case *jsast.PropertySignature:
			typ, err := fc.mtt.TypeToClosure(m, nil)
			if err != nil {
				return nil, err
			}
			tags := append([]*jsdoc.Tag{{TagName: "type", Type: typ}}, visibilityTags(m.Mods)...)
			cb.declare(m, false, m.Name, fc.withDoc(m, m.Doc, tags...))
		case *jsast.MethodSignature:
			group := []jsast.Node{m}
			for k+1 < len(i.Members) {
				next, ok := i.Members[k+1].(*jsast.MethodSignature)
				if !ok || !sameSignatureName(m, next) {
					break
				}
				group = append(group, next)
				k++
			}
			doc, err := fc.mtt.FunctionTypeJSDoc(group, nil)
			if err != nil {
				return nil, err
			}
			target, ok := memberTarget(cb.name, false, m.Name)
			if !ok {
				fc.warnAt(tscerr.CategoryType, m, "cannot declare a method with a computed name")
				continue
			}
			decl := jsast.NewAssign(target, &jsast.FuncExpr{Params: paramsFromDoc(doc), Body: &jsast.Block{}})
			decl.Base = m.Base
			decl.Doc = jsdoc.ToString(doc.Tags, true)
			cb.decls = append(cb.decls, decl)
		case *jsast.IndexSignature:
			fc.warnAt(tscerr.CategoryType, m, "index signatures on interface %s are not supported and were dropped", i.Name.Name)
		case *jsast.CallSignature, *jsast.ConstructSignature:
			fc.warnAt(tscerr.CategoryType, m, "call signatures on interface %s are not supported and were dropped", i.Name.Name)
		}
	}
	if len(cb.decls) > 0 {
		out = append(out, declarationBlock(cb.decls))
	}
	return out, nil
}

func sameSignatureName(a, b *jsast.MethodSignature) bool {
	an, aok := jsast.StaticName(a.Name)
	bn, bok := jsast.StaticName(b.Name)
	return aok && bok && an == bn
}
