// Package externs turns ambient declarations into Closure externs.
//
// Externs declare the shape of code that exists outside the compiled
// program. Every declaration becomes an empty definition carrying its
// JSDoc type: variables become "@type" vars, classes "@constructor"
// functions with prototype members, interfaces "@record" functions and
// namespaces "@const" object literals holding their members.
package externs

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler/generator"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/internal/transpiler/modtranslator"
	"martianoff/tsclosure/tscerr"
)

// Generate prints the externs for stmts. mtt must have been created for
// externs so that no imports are synthesized.
func Generate(mtt *modtranslator.ModuleTypeTranslator, diags *tscerr.Collector, stmts []jsast.Stmt) (string, error) {
	if !mtt.IsForExterns() {
		return "", errors.AssertionFailedf("externs of %s requested from a module type translator", mtt.FileName())
	}
	g := &externsGen{
		mtt:     mtt,
		diags:   diags,
		emitted: set.New[string](len(stmts)),
	}
	if err := g.stmts(stmts, ""); err != nil {
		return "", err
	}
	if len(g.out) == 0 {
		return "", nil
	}
	return generator.NewJSCodeGenerator().Generate(&jsast.SourceFile{FileName: mtt.FileName(), Stmts: g.out})
}

type externsGen struct {
	mtt   *modtranslator.ModuleTypeTranslator
	diags *tscerr.Collector
	// emitted holds the qualified names already defined.
	emitted *set.Set[string]
	out     []jsast.Stmt
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

func (g *externsGen) warnAt(n jsast.Node, format string, args ...any) {
	pos := n.Position()
	g.diags.Warnf(tscerr.CategoryExterns, pos.Line, pos.Column, format, args...)
}

func (g *externsGen) stmts(stmts []jsast.Stmt, ns string) error {
	for i := 0; i < len(stmts); i++ {
		var err error
		switch s := stmts[i].(type) {
		case *jsast.VarDecl:
			err = g.varDecl(s, ns)
		case *jsast.FuncDecl:
			group := []jsast.Node{s}
			for i+1 < len(stmts) {
				next, ok := stmts[i+1].(*jsast.FuncDecl)
				if !ok || next.Name == nil || s.Name == nil || next.Name.Name != s.Name.Name {
					break
				}
				group = append(group, next)
				i++
			}
			err = g.function(s, group, ns)
		case *jsast.ClassDecl:
			err = g.class(s, ns)
		case *jsast.InterfaceDecl:
			err = g.iface(s, ns)
		case *jsast.EnumDecl:
			g.enum(s, ns)
		case *jsast.TypeAliasDecl:
			err = g.typedef(s, ns)
		case *jsast.NamespaceDecl:
			err = g.namespace(s, ns)
		case *jsast.ImportDecl, *jsast.ExportDecl, *jsast.ExportDefault, *jsast.CommentStmt:
		default:
			g.warnAt(s, "%T has no externs form", s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// define emits name with doc. A *jsast.FuncExpr value becomes a function
// declaration at the top level; any other value is assigned, and a nil
// value declares the name without defining it.
func (g *externsGen) define(at jsast.Node, ns, name, doc string, value jsast.Expr) {
	base := jsast.At(at)
	if ns == "" {
		if fn, ok := value.(*jsast.FuncExpr); ok {
			g.out = append(g.out, &jsast.FuncDecl{
				Base: base, Doc: doc, Name: jsast.NewIdent(name), Params: fn.Params, Body: &jsast.Block{},
			})
			return
		}
		g.out = append(g.out, &jsast.VarDecl{
			Base:     base,
			Doc:      doc,
			Kind:     jsast.VarVar,
			Bindings: []*jsast.VarBinding{{Name: jsast.NewIdent(name), Init: value}},
		})
		return
	}
	g.assign(at, jsast.NewDottedName(qualify(ns, name)), doc, value)
}

func (g *externsGen) assign(at jsast.Node, target jsast.Expr, doc string, value jsast.Expr) {
	s := &jsast.ExprStmt{Base: jsast.At(at), Doc: doc, X: target}
	if value != nil {
		s.X = &jsast.Binary{Op: "=", X: target, Y: value}
	}
	g.out = append(g.out, s)
}

func emptyFunction(names []string) *jsast.FuncExpr {
	params := make([]*jsast.Param, len(names))
	for i, n := range names {
		params[i] = &jsast.Param{Name: jsast.NewIdent(n)}
	}
	return &jsast.FuncExpr{Params: params, Body: &jsast.Block{}}
}

func (g *externsGen) varDecl(v *jsast.VarDecl, ns string) error {
	for _, b := range v.Bindings {
		if b.Name == nil {
			g.warnAt(b, "destructuring declarations have no externs form")
			continue
		}
		typ, err := g.mtt.TypeToClosure(b, nil)
		if err != nil {
			return err
		}
		name := qualify(ns, b.Name.Name)
		if !g.emitted.Insert(name) {
			continue
		}
		tags := []*jsdoc.Tag{{TagName: "type", Type: typ}}
		if v.Kind == jsast.VarConst {
			tags = []*jsdoc.Tag{{TagName: "const", Type: typ}}
		}
		g.define(b, ns, b.Name.Name, jsdoc.ToString(tags, true), nil)
	}
	return nil
}

func (g *externsGen) function(last *jsast.FuncDecl, group []jsast.Node, ns string) error {
	if last.Name == nil {
		g.warnAt(last, "anonymous functions have no externs form")
		return nil
	}
	if !g.emitted.Insert(qualify(ns, last.Name.Name)) {
		return nil
	}
	doc, err := g.mtt.FunctionTypeJSDoc(group, nil)
	if err != nil {
		return err
	}
	g.define(last, ns, last.Name.Name, jsdoc.ToString(doc.Tags, true), emptyFunction(doc.ParamNames))
	return nil
}

func (g *externsGen) class(c *jsast.ClassDecl, ns string) error {
	if c.Name == nil {
		g.warnAt(c, "anonymous classes have no externs form")
		return nil
	}
	name := qualify(ns, c.Name.Name)
	g.emitted.Insert(name)

	extra := []*jsdoc.Tag{{TagName: "constructor"}, {TagName: "struct"}}
	if len(c.TypeParams) > 0 {
		extra = append(extra, &jsdoc.Tag{TagName: "template", Text: templateNames(c.TypeParams)})
	}
	if c.Extends != nil {
		if base, ok := jsast.EntityName(c.Extends.X); ok {
			extra = append(extra, &jsdoc.Tag{TagName: "extends", Type: base})
		} else {
			g.warnAt(c.Extends, "class %s extends an expression, omitting @extends", name)
		}
	}
	for _, ref := range c.Implements {
		if impl, ok := jsast.EntityName(ref.Name); ok {
			extra = append(extra, &jsdoc.Tag{TagName: "implements", Type: impl})
		}
	}

	var ctors []jsast.Node
	for _, m := range c.Members {
		if ctor, ok := m.(*jsast.Constructor); ok {
			ctors = append(ctors, ctor)
		}
	}
	var paramNames []string
	tags := extra
	if len(ctors) > 0 {
		doc, err := g.mtt.FunctionTypeJSDoc(ctors, extra)
		if err != nil {
			return err
		}
		tags, paramNames = doc.Tags, doc.ParamNames
	}
	g.define(c, ns, c.Name.Name, jsdoc.ToString(tags, true), emptyFunction(paramNames))

	members := c.Members
	for i := 0; i < len(members); i++ {
		switch m := members[i].(type) {
		case *jsast.PropertyDecl:
			if err := g.property(m, name, m.Mods.Has(jsast.ModStatic), m.Name, m.Optional); err != nil {
				return err
			}
		case *jsast.MethodDecl:
			group := []jsast.Node{m}
			for i+1 < len(members) {
				next, ok := members[i+1].(*jsast.MethodDecl)
				if !ok || !samePropertyName(next.Name, m.Name) || next.Mods.Has(jsast.ModStatic) != m.Mods.Has(jsast.ModStatic) {
					break
				}
				group = append(group, next)
				i++
			}
			if m.Kind != jsast.MethodNormal {
				if err := g.accessor(m, name); err != nil {
					return err
				}
				continue
			}
			if err := g.method(m, group, name, m.Mods.Has(jsast.ModStatic), m.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *externsGen) iface(it *jsast.InterfaceDecl, ns string) error {
	name := qualify(ns, it.Name.Name)
	if g.emitted.Insert(name) {
		tags := []*jsdoc.Tag{{TagName: "record"}, {TagName: "struct"}}
		if len(it.TypeParams) > 0 {
			tags = append(tags, &jsdoc.Tag{TagName: "template", Text: templateNames(it.TypeParams)})
		}
		for _, ref := range it.Extends {
			if base, ok := jsast.EntityName(ref.Name); ok {
				tags = append(tags, &jsdoc.Tag{TagName: "extends", Type: base})
			}
		}
		g.define(it, ns, it.Name.Name, jsdoc.ToString(tags, true), emptyFunction(nil))
	}

	members := it.Members
	for i := 0; i < len(members); i++ {
		switch m := members[i].(type) {
		case *jsast.PropertySignature:
			if err := g.property(m, name, false, m.Name, m.Optional); err != nil {
				return err
			}
		case *jsast.MethodSignature:
			group := []jsast.Node{m}
			for i+1 < len(members) {
				next, ok := members[i+1].(*jsast.MethodSignature)
				if !ok || !samePropertyName(next.Name, m.Name) {
					break
				}
				group = append(group, next)
				i++
			}
			if err := g.method(m, group, name, false, m.Name); err != nil {
				return err
			}
		default:
			g.warnAt(m, "%T of interface %s has no externs form", m, name)
		}
	}
	return nil
}

// memberTarget returns owner.prototype.name, or owner.name for statics.
func memberTarget(owner string, static bool, name string) jsast.Expr {
	base := jsast.NewDottedName(owner)
	if !static {
		base = jsast.NewAccess(base, "prototype")
	}
	if jsast.IsValidPropertyName(name) {
		return jsast.NewAccess(base, name)
	}
	return &jsast.ElementAccess{X: base, Index: jsast.NewString(name)}
}

func (g *externsGen) property(m jsast.Node, owner string, static bool, pn jsast.PropertyName, optional bool) error {
	name, ok := jsast.StaticName(pn)
	if !ok {
		g.warnAt(m, "computed member of %s has no externs form", owner)
		return nil
	}
	typ, err := g.mtt.TypeToClosure(m, nil)
	if err != nil {
		return err
	}
	if optional && !strings.Contains(typ, "undefined") {
		typ = "(" + typ + "|undefined)"
	}
	doc := jsdoc.ToString([]*jsdoc.Tag{{TagName: "type", Type: typ}}, true)
	g.assign(m, memberTarget(owner, static, name), doc, nil)
	return nil
}

// accessor declares a getter or setter as a property of its value type.
// A getter and setter pair is declared once.
func (g *externsGen) accessor(m *jsast.MethodDecl, owner string) error {
	name, ok := jsast.StaticName(m.Name)
	if !ok {
		g.warnAt(m, "computed member of %s has no externs form", owner)
		return nil
	}
	static := m.Mods.Has(jsast.ModStatic)
	key := owner + ".prototype." + name
	if static {
		key = owner + "." + name
	}
	if !g.emitted.Insert(key) {
		return nil
	}
	sig := g.mtt.Checker().SignatureFromDeclaration(m)
	if sig == nil {
		return tscerr.NewInternalErrorAt(g.mtt.FileName(), m.Position().Line, m.Position().Column,
			errors.AssertionFailedf("no signature for accessor %s.%s", owner, name))
	}
	valueType := sig.Return
	if m.Kind == jsast.MethodSetter && len(sig.Params) > 0 {
		valueType = sig.Params[0].Type
	}
	typ, err := g.mtt.TypeToClosure(m, valueType)
	if err != nil {
		return err
	}
	doc := jsdoc.ToString([]*jsdoc.Tag{{TagName: "type", Type: typ}}, true)
	g.assign(m, memberTarget(owner, static, name), doc, nil)
	return nil
}

func (g *externsGen) method(m jsast.Node, group []jsast.Node, owner string, static bool, pn jsast.PropertyName) error {
	name, ok := jsast.StaticName(pn)
	if !ok {
		g.warnAt(m, "computed member of %s has no externs form", owner)
		return nil
	}
	doc, err := g.mtt.FunctionTypeJSDoc(group, nil)
	if err != nil {
		return err
	}
	g.assign(m, memberTarget(owner, static, name), jsdoc.ToString(doc.Tags, true), emptyFunction(doc.ParamNames))
	return nil
}

func (g *externsGen) enum(e *jsast.EnumDecl, ns string) {
	name := qualify(ns, e.Name.Name)
	obj := &jsast.ObjectLit{Base: e.Base, Multiline: true}
	typ := ""
	for _, m := range e.Members {
		key, ok := jsast.StaticName(m.Name)
		if !ok {
			g.warnAt(m, "computed member of enum %s has no externs form", name)
			continue
		}
		var value jsast.Expr
		memberType := "?"
		if v, ok := g.mtt.Checker().ConstantValue(m); ok {
			switch v := v.(type) {
			case string:
				value, memberType = jsast.NewString(v), "string"
			case float64:
				value, memberType = jsast.NewNumber(v), "number"
			}
		}
		if value == nil {
			g.warnAt(m, "enum member %s.%s is not constant, declaring it as 0", name, key)
			value, memberType = jsast.NewNumber(0), "number"
		}
		switch typ {
		case "":
			typ = memberType
		case memberType:
		default:
			typ = "?"
		}
		var k jsast.PropertyName = jsast.NewString(key)
		if jsast.IsValidIdentifier(key) {
			k = jsast.NewIdent(key)
		}
		obj.Props = append(obj.Props, &jsast.ObjectProp{Key: k, Value: value})
	}
	if typ == "" {
		typ = "number"
	}
	if !g.emitted.Insert(name) {
		// A merged enum adds its members to the existing object.
		for _, p := range obj.Props {
			key, _ := jsast.StaticName(p.Key)
			g.assign(e, jsast.NewAccess(jsast.NewDottedName(name), key), "", p.Value)
		}
		return
	}
	doc := jsdoc.ToString([]*jsdoc.Tag{{TagName: "enum", Type: typ}}, true)
	g.define(e, ns, e.Name.Name, doc, obj)
}

func (g *externsGen) typedef(t *jsast.TypeAliasDecl, ns string) error {
	g.mtt.MarkTypeParametersUnknown(t.TypeParams)
	typ, err := g.mtt.TypedefToClosure(t, nil)
	if err != nil {
		return err
	}
	if !g.emitted.Insert(qualify(ns, t.Name.Name)) {
		return nil
	}
	doc := jsdoc.ToString([]*jsdoc.Tag{{TagName: "typedef", Type: typ}}, true)
	g.define(t, ns, t.Name.Name, doc, nil)
	return nil
}

// namespace declares the namespace object unless a class, function or
// earlier namespace of the same name already did, then emits the body
// qualified by the namespace.
func (g *externsGen) namespace(n *jsast.NamespaceDecl, ns string) error {
	name := qualify(ns, n.Name.Name)
	if g.emitted.Insert(name) {
		doc := jsdoc.ToString([]*jsdoc.Tag{{TagName: "const"}}, true)
		g.define(n, ns, n.Name.Name, doc, &jsast.ObjectLit{})
	}
	return g.stmts(n.Body, name)
}

func samePropertyName(a, b jsast.PropertyName) bool {
	an, ok := jsast.StaticName(a)
	if !ok {
		return false
	}
	bn, ok := jsast.StaticName(b)
	return ok && an == bn
}

func templateNames(tps []*jsast.TypeParam) string {
	names := make([]string, len(tps))
	for i, tp := range tps {
		names[i] = tp.Name.Name
	}
	return strings.Join(names, ", ")
}
