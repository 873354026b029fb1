package transformer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/tscerr"
)

// annotationTag marks a decorator declaration whose uses are lowered into
// static class metadata.
const annotationTag = "Annotation"

const decoratorRecordType = "{type: !Function, args: (undefined|!Array<?>)}"

var (
	decoratorsDoc     = jsdoc.ToString([]*jsdoc.Tag{{TagName: "type", Type: "!Array<" + decoratorRecordType + ">"}}, false)
	ctorParametersDoc = jsdoc.ToString([]*jsdoc.Tag{
		{TagName: "nocollapse"},
		{TagName: "type", Type: "function(): !Array<(null|{type: ?, decorators: (undefined|!Array<" + decoratorRecordType + ">)})>"},
	}, false)
	propDecoratorsDoc = jsdoc.ToString([]*jsdoc.Tag{{TagName: "type", Type: "!Object<string, !Array<" + decoratorRecordType + ">>"}}, false)
)

// downlevelDecorators moves the decorators marked @Annotation off every
// class of the file into static decorators, ctorParameters and
// propDecorators properties.
func downlevelDecorators(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	out := make([]jsast.Stmt, len(stmts))
	for i, s := range stmts {
		switch s := s.(type) {
		case *jsast.ClassDecl:
			out[i] = fc.lowerClass(s)
		case *jsast.NamespaceDecl:
			body, err := downlevelDecorators(fc, s.Body)
			if err != nil {
				return nil, err
			}
			ns := *s
			ns.Body = body
			fc.derive(&ns, s)
			out[i] = &ns
		default:
			out[i] = s
		}
	}
	return out, nil
}

// shouldLower reports whether d refers to a declaration documented with
// @Annotation.
func (fc *fileContext) shouldLower(d *jsast.Decorator) bool {
	callee := d.X
	if call, ok := callee.(*jsast.Call); ok {
		callee = call.Fn
	}
	sym := fc.resolvedSymbolOf(callee)
	if sym == nil {
		return false
	}
	for _, decl := range sym.Decls {
		switch decl := decl.(type) {
		case *jsast.FuncDecl:
			if jsdoc.HasTag(decl.Doc, annotationTag) {
				return true
			}
		case *jsast.ClassDecl:
			if jsdoc.HasTag(decl.Doc, annotationTag) {
				return true
			}
		}
	}
	return false
}

func (fc *fileContext) partitionDecorators(ds []*jsast.Decorator) (lower, keep []*jsast.Decorator) {
	for _, d := range ds {
		if fc.shouldLower(d) {
			lower = append(lower, d)
		} else {
			keep = append(keep, d)
		}
	}
	return lower, keep
}

// decoratorRecord builds {type: callee, args: [...]} for one decorator.
func decoratorRecord(d *jsast.Decorator) jsast.Expr {
	rec := &jsast.ObjectLit{Base: jsast.At(d)}
	callee := d.X
	var args []jsast.Expr
	if call, ok := d.X.(*jsast.Call); ok {
		callee = call.Fn
		args = call.Args
	}
	rec.Props = append(rec.Props, &jsast.ObjectProp{Key: jsast.NewIdent("type"), Value: callee})
	if len(args) > 0 {
		rec.Props = append(rec.Props, &jsast.ObjectProp{Key: jsast.NewIdent("args"), Value: &jsast.ArrayLit{Elems: args}})
	}
	return rec
}

func decoratorRecords(ds []*jsast.Decorator) *jsast.ArrayLit {
	arr := &jsast.ArrayLit{}
	for _, d := range ds {
		arr.Elems = append(arr.Elems, decoratorRecord(d))
	}
	return arr
}

func (fc *fileContext) lowerClass(c *jsast.ClassDecl) *jsast.ClassDecl {
	classLower, classKeep := fc.partitionDecorators(c.Decorators)

	var (
		members   = make([]jsast.ClassMember, 0, len(c.Members)+3)
		propNames []string
		propDecs  = map[string]*jsast.ArrayLit{}
		ctor      *jsast.Constructor
		ctorRecs  []jsast.Expr
		changed   = len(classLower) > 0
	)
	for _, m := range c.Members {
		switch m := m.(type) {
		case *jsast.Constructor:
			if m.Body == nil {
				members = append(members, m)
				continue
			}
			nc, recs, lowered := fc.lowerConstructor(m)
			ctor, ctorRecs = nc, recs
			changed = changed || lowered
			members = append(members, nc)
		case *jsast.PropertyDecl, *jsast.MethodDecl:
			lower, keep := fc.partitionDecorators(m.MemberDecorators())
			if len(lower) == 0 {
				members = append(members, m)
				continue
			}
			name, ok := jsast.StaticName(m.MemberName())
			if _, computed := m.MemberName().(*jsast.ComputedName); computed || !ok {
				fc.errorAt(tscerr.CategoryDecorator, m, "cannot process decorators for class member with a computed name")
				members = append(members, m)
				continue
			}
			changed = true
			if propDecs[name] == nil {
				propNames = append(propNames, name)
				propDecs[name] = &jsast.ArrayLit{}
			}
			propDecs[name].Elems = append(propDecs[name].Elems, decoratorRecords(lower).Elems...)
			members = append(members, fc.withDecorators(m, keep))
		default:
			members = append(members, m)
		}
	}
	if !changed {
		return c
	}

	if len(classLower) > 0 {
		members = append(members, fc.staticProp(c, "decorators", decoratorsDoc, decoratorRecords(classLower)))
	}
	if ctor != nil && len(ctorRecs) > 0 {
		thunk := &jsast.Arrow{Expr: &jsast.ArrayLit{Elems: ctorRecs, Multiline: true}}
		members = append(members, fc.staticProp(c, "ctorParameters", ctorParametersDoc, thunk))
	}
	if len(propNames) > 0 {
		obj := &jsast.ObjectLit{Multiline: true}
		for _, name := range propNames {
			var key jsast.PropertyName = jsast.NewString(name)
			if jsast.IsValidIdentifier(name) {
				key = jsast.NewIdent(name)
			}
			obj.Props = append(obj.Props, &jsast.ObjectProp{Key: key, Value: propDecs[name]})
		}
		members = append(members, fc.staticProp(c, "propDecorators", propDecoratorsDoc, obj))
	}

	nc := *c
	nc.Decorators = classKeep
	nc.Members = members
	fc.derive(&nc, c)
	return &nc
}

func (fc *fileContext) staticProp(c *jsast.ClassDecl, name, doc string, init jsast.Expr) *jsast.PropertyDecl {
	p := &jsast.PropertyDecl{
		Base: jsast.At(c),
		Doc:  doc,
		Mods: jsast.ModStatic,
		Name: jsast.NewIdent(name),
		Init: init,
	}
	fc.synthesized.Insert(p)
	return p
}

func (fc *fileContext) withDecorators(m jsast.ClassMember, keep []*jsast.Decorator) jsast.ClassMember {
	switch m := m.(type) {
	case *jsast.PropertyDecl:
		n := *m
		n.Decorators = keep
		fc.derive(&n, m)
		return &n
	case *jsast.MethodDecl:
		n := *m
		n.Decorators = keep
		fc.derive(&n, m)
		return &n
	}
	return m
}

// lowerConstructor strips lowered parameter decorators and returns one
// ctorParameters entry per parameter.
func (fc *fileContext) lowerConstructor(ctor *jsast.Constructor) (*jsast.Constructor, []jsast.Expr, bool) {
	var (
		params  = make([]*jsast.Param, 0, len(ctor.Params))
		recs    []jsast.Expr
		lowered bool
	)
	for _, prm := range ctor.Params {
		if prm.IsThis() {
			params = append(params, prm)
			continue
		}
		lower, keep := fc.partitionDecorators(prm.Decorators)
		typ, hasType := fc.ctorParamType(prm)
		switch {
		case !hasType && len(lower) == 0:
			recs = append(recs, &jsast.NullLit{})
		default:
			rec := &jsast.ObjectLit{Props: []*jsast.ObjectProp{{Key: jsast.NewIdent("type"), Value: typ}}}
			if len(lower) > 0 {
				rec.Props = append(rec.Props, &jsast.ObjectProp{Key: jsast.NewIdent("decorators"), Value: decoratorRecords(lower)})
			}
			recs = append(recs, rec)
		}
		if len(lower) == 0 {
			params = append(params, prm)
			continue
		}
		lowered = true
		np := *prm
		np.Decorators = keep
		fc.derive(&np, prm)
		params = append(params, &np)
	}
	if !lowered {
		return ctor, recs, false
	}
	nc := *ctor
	nc.Params = params
	fc.derive(&nc, ctor)
	return &nc, recs, true
}

// ctorParamType returns the runtime value standing for the declared type
// of prm. Types with no runtime value give undefined and false.
func (fc *fileContext) ctorParamType(prm *jsast.Param) (jsast.Expr, bool) {
	typ := stripNullable(prm.Type)
	if typ == nil {
		return &jsast.UndefinedLit{}, false
	}
	if ref, ok := typ.(*jsast.TypeRef); ok {
		sym := fc.resolvedSymbolOf(ref)
		if sym != nil && sym.Flags.Has(transpiler.SymbolClass|transpiler.SymbolEnum|transpiler.SymbolVariable) {
			return jsast.CloneEntityName(ref.Name), true
		}
	}
	if name := runtimeStandIn(fc.checker.TypeAtLocation(typ)); name != "" {
		return jsast.NewIdent(name), true
	}
	return &jsast.UndefinedLit{}, false
}

// stripNullable removes parentheses and null or undefined union members
// when a single type remains.
func stripNullable(t jsast.TypeNode) jsast.TypeNode {
	for {
		switch n := t.(type) {
		case *jsast.ParenType:
			t = n.X
			continue
		case *jsast.UnionTypeNode:
			var rest []jsast.TypeNode
			for _, m := range n.Types {
				if kw, ok := m.(*jsast.KeywordType); ok && (kw.Name == jsast.KwNull || kw.Name == jsast.KwUndefined) {
					continue
				}
				rest = append(rest, m)
			}
			if len(rest) == 1 {
				t = rest[0]
				continue
			}
		}
		return t
	}
}

// runtimeStandIn names the constructor Closure uses as the runtime tag of
// a type that has no value of its own.
func runtimeStandIn(t transpiler.Type) string {
	switch t := t.(type) {
	case *transpiler.IntrinsicType:
		switch t.Kind {
		case transpiler.IntrinsicString:
			return "String"
		case transpiler.IntrinsicNumber:
			return "Number"
		case transpiler.IntrinsicBoolean:
			return "Boolean"
		case transpiler.IntrinsicNonPrimitive:
			return "Object"
		}
	case *transpiler.LiteralType:
		switch t.Value.(type) {
		case string:
			return "String"
		case float64:
			return "Number"
		case bool:
			return "Boolean"
		}
	case *transpiler.ArrayType, *transpiler.TupleType:
		return "Array"
	case *transpiler.AnonymousType:
		if len(t.Calls) > 0 || len(t.Constructs) > 0 {
			return "Function"
		}
		return "Object"
	case *transpiler.InterfaceType:
		return "Object"
	case *transpiler.TypeReference:
		return "Object"
	}
	return ""
}
