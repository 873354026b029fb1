package transformer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/internal/transpiler/typetranslator"
	"martianoff/tsclosure/tscerr"
)

type memberKind int

const (
	numericMember memberKind = iota
	stringMember
)

type enumMember struct {
	name  string
	value jsast.Expr
	kind  memberKind
}

// rewriteEnums lowers enum declarations into @enum annotated object
// literals with reverse mappings for numeric members. Enums nested in
// blocks, function and method bodies and function expressions are
// lowered too.
func rewriteEnums(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	l := &enumLowerer{fc: fc}
	out, _ := l.stmts(stmts)
	return out, nil
}

// enumLowerer walks a statement tree and copies only the nodes on the
// path to a lowered enum.
type enumLowerer struct {
	fc *fileContext
}

func (l *enumLowerer) stmts(stmts []jsast.Stmt) ([]jsast.Stmt, bool) {
	out := make([]jsast.Stmt, 0, len(stmts))
	changed := false
	for _, s := range stmts {
		if e, ok := s.(*jsast.EnumDecl); ok {
			if e.Mods.Has(jsast.ModDeclare) {
				out = append(out, s)
				continue
			}
			out = append(out, l.fc.rewriteEnum(e)...)
			changed = true
			continue
		}
		ns, c := l.stmt(s)
		out = append(out, ns)
		changed = changed || c
	}
	if !changed {
		return stmts, false
	}
	return out, true
}

func (l *enumLowerer) block(b *jsast.Block) (*jsast.Block, bool) {
	if b == nil {
		return nil, false
	}
	stmts, changed := l.stmts(b.Stmts)
	if !changed {
		return b, false
	}
	return &jsast.Block{Base: b.Base, Stmts: stmts}, true
}

func (l *enumLowerer) stmt(s jsast.Stmt) (jsast.Stmt, bool) {
	fc := l.fc
	switch s := s.(type) {
	case *jsast.Block:
		return l.block(s)
	case *jsast.FuncDecl:
		body, c1 := l.block(s.Body)
		params, c2 := l.params(s.Params)
		if !c1 && !c2 {
			return s, false
		}
		n := *s
		n.Body, n.Params = body, params
		fc.derive(&n, s)
		return &n, true
	case *jsast.ClassDecl:
		members, changed := l.members(s.Members)
		ext := s.Extends
		if ext != nil {
			if x, c := l.expr(ext.X); c {
				h := *ext
				h.X = x
				ext, changed = &h, true
			}
		}
		if !changed {
			return s, false
		}
		n := *s
		n.Members, n.Extends = members, ext
		fc.derive(&n, s)
		return &n, true
	case *jsast.IfStmt:
		cond, c1 := l.expr(s.Cond)
		then, c2 := l.block(s.Then)
		els, c3 := s.Else, false
		if s.Else != nil {
			els, c3 = l.stmt(s.Else)
		}
		if !c1 && !c2 && !c3 {
			return s, false
		}
		n := *s
		n.Cond, n.Then, n.Else = cond, then, els
		fc.derive(&n, s)
		return &n, true
	case *jsast.VarDecl:
		var bindings []*jsast.VarBinding
		for i, b := range s.Bindings {
			init, c := l.expr(b.Init)
			if !c {
				continue
			}
			if bindings == nil {
				bindings = append([]*jsast.VarBinding(nil), s.Bindings...)
			}
			nb := *b
			nb.Init = init
			fc.derive(&nb, b)
			bindings[i] = &nb
		}
		if bindings == nil {
			return s, false
		}
		n := *s
		n.Bindings = bindings
		fc.derive(&n, s)
		return &n, true
	case *jsast.ExprStmt:
		x, c := l.expr(s.X)
		if !c {
			return s, false
		}
		n := *s
		n.X = x
		fc.derive(&n, s)
		return &n, true
	case *jsast.ReturnStmt:
		x, c := l.expr(s.X)
		if !c {
			return s, false
		}
		n := *s
		n.X = x
		fc.derive(&n, s)
		return &n, true
	case *jsast.ExportDefault:
		x, c := l.expr(s.X)
		if !c {
			return s, false
		}
		n := *s
		n.X = x
		fc.derive(&n, s)
		return &n, true
	}
	return s, false
}

func (l *enumLowerer) members(ms []jsast.ClassMember) ([]jsast.ClassMember, bool) {
	fc := l.fc
	out := make([]jsast.ClassMember, len(ms))
	changed := false
	for i, m := range ms {
		out[i] = m
		switch m := m.(type) {
		case *jsast.MethodDecl:
			body, c1 := l.block(m.Body)
			params, c2 := l.params(m.Params)
			if c1 || c2 {
				n := *m
				n.Body, n.Params = body, params
				fc.derive(&n, m)
				out[i], changed = &n, true
			}
		case *jsast.Constructor:
			body, c1 := l.block(m.Body)
			params, c2 := l.params(m.Params)
			if c1 || c2 {
				n := *m
				n.Body, n.Params = body, params
				fc.derive(&n, m)
				out[i], changed = &n, true
			}
		case *jsast.PropertyDecl:
			if init, c := l.expr(m.Init); c {
				n := *m
				n.Init = init
				fc.derive(&n, m)
				out[i], changed = &n, true
			}
		}
	}
	if !changed {
		return ms, false
	}
	return out, true
}

// params lowers enums in default value expressions.
func (l *enumLowerer) params(ps []*jsast.Param) ([]*jsast.Param, bool) {
	var out []*jsast.Param
	for i, p := range ps {
		init, c := l.expr(p.Init)
		if !c {
			continue
		}
		if out == nil {
			out = append([]*jsast.Param(nil), ps...)
		}
		np := *p
		np.Init = init
		l.fc.derive(&np, p)
		out[i] = &np
	}
	if out == nil {
		return ps, false
	}
	return out, true
}

func (l *enumLowerer) exprs(xs []jsast.Expr) ([]jsast.Expr, bool) {
	var out []jsast.Expr
	for i, x := range xs {
		nx, c := l.expr(x)
		if !c {
			continue
		}
		if out == nil {
			out = append([]jsast.Expr(nil), xs...)
		}
		out[i] = nx
	}
	if out == nil {
		return xs, false
	}
	return out, true
}

// expr descends into expressions only to reach function bodies.
func (l *enumLowerer) expr(e jsast.Expr) (jsast.Expr, bool) {
	fc := l.fc
	switch e := e.(type) {
	case *jsast.Arrow:
		body, c1 := l.block(e.Body)
		x, c2 := l.expr(e.Expr)
		params, c3 := l.params(e.Params)
		if !c1 && !c2 && !c3 {
			return e, false
		}
		n := *e
		n.Body, n.Expr, n.Params = body, x, params
		fc.derive(&n, e)
		return &n, true
	case *jsast.FuncExpr:
		body, c1 := l.block(e.Body)
		params, c2 := l.params(e.Params)
		if !c1 && !c2 {
			return e, false
		}
		n := *e
		n.Body, n.Params = body, params
		fc.derive(&n, e)
		return &n, true
	case *jsast.Call:
		fn, c1 := l.expr(e.Fn)
		args, c2 := l.exprs(e.Args)
		if !c1 && !c2 {
			return e, false
		}
		n := *e
		n.Fn, n.Args = fn, args
		fc.derive(&n, e)
		return &n, true
	case *jsast.New:
		x, c1 := l.expr(e.X)
		args, c2 := l.exprs(e.Args)
		if !c1 && !c2 {
			return e, false
		}
		n := *e
		n.X, n.Args = x, args
		fc.derive(&n, e)
		return &n, true
	case *jsast.PropertyAccess:
		x, c := l.expr(e.X)
		if !c {
			return e, false
		}
		n := *e
		n.X = x
		fc.derive(&n, e)
		return &n, true
	case *jsast.ElementAccess:
		x, c1 := l.expr(e.X)
		idx, c2 := l.expr(e.Index)
		if !c1 && !c2 {
			return e, false
		}
		n := *e
		n.X, n.Index = x, idx
		fc.derive(&n, e)
		return &n, true
	case *jsast.ObjectLit:
		var props []*jsast.ObjectProp
		for i, p := range e.Props {
			v, c := l.expr(p.Value)
			if !c {
				continue
			}
			if props == nil {
				props = append([]*jsast.ObjectProp(nil), e.Props...)
			}
			np := *p
			np.Value = v
			props[i] = &np
		}
		if props == nil {
			return e, false
		}
		n := *e
		n.Props = props
		fc.derive(&n, e)
		return &n, true
	case *jsast.ArrayLit:
		elems, c := l.exprs(e.Elems)
		if !c {
			return e, false
		}
		n := *e
		n.Elems = elems
		fc.derive(&n, e)
		return &n, true
	case *jsast.Binary:
		x, c1 := l.expr(e.X)
		y, c2 := l.expr(e.Y)
		if !c1 && !c2 {
			return e, false
		}
		n := *e
		n.X, n.Y = x, y
		fc.derive(&n, e)
		return &n, true
	case *jsast.Unary:
		x, c := l.expr(e.X)
		if !c {
			return e, false
		}
		n := *e
		n.X = x
		fc.derive(&n, e)
		return &n, true
	case *jsast.Paren:
		x, c := l.expr(e.X)
		if !c {
			return e, false
		}
		n := *e
		n.X = x
		fc.derive(&n, e)
		return &n, true
	}
	return e, false
}

func (fc *fileContext) rewriteEnum(e *jsast.EnumDecl) []jsast.Stmt {
	members := make([]enumMember, 0, len(e.Members))
	for _, m := range e.Members {
		name, ok := jsast.StaticName(m.Name)
		if !ok {
			fc.errorAt(tscerr.CategoryEnum, m, "enum member names must be literals")
			continue
		}
		em := enumMember{name: name}
		if v, ok := fc.checker.ConstantValue(fc.orig(m).(*jsast.EnumMember)); ok {
			switch v := v.(type) {
			case string:
				em.value, em.kind = jsast.NewString(v), stringMember
			case float64:
				em.value, em.kind = jsast.NewNumber(v), numericMember
			}
		}
		if em.value == nil {
			if m.Init == nil {
				fc.errorAt(tscerr.CategoryEnum, m, "enum member %s.%s must have an initializer", e.Name.Name, name)
				continue
			}
			// Non constant initializers are emitted as written. References
			// to sibling members are not qualified with the enum name.
			em.value = m.Init
			if isStringType(fc.checker.TypeAtLocation(fc.orig(m.Init))) {
				em.kind = stringMember
			}
		}
		members = append(members, em)
	}

	isConst := e.Mods.Has(jsast.ModConst)
	enumName := e.Name.Name
	var out []jsast.Stmt
	if fc.isFirstEnumDecl(e) {
		obj := &jsast.ObjectLit{Base: e.Base, Multiline: true}
		for _, m := range members {
			var key jsast.PropertyName = jsast.NewString(m.name)
			if jsast.IsValidIdentifier(m.name) {
				key = jsast.NewIdent(m.name)
			}
			obj.Props = append(obj.Props, &jsast.ObjectProp{Key: key, Value: m.value})
		}
		decl := &jsast.VarDecl{
			Base:     e.Base,
			Doc:      fc.withDoc(e, e.Doc, &jsdoc.Tag{TagName: "enum", Type: enumType(members)}),
			Kind:     jsast.VarConst,
			Bindings: []*jsast.VarBinding{{Base: e.Name.Base, Name: e.Name, Init: obj}},
		}
		fc.derive(decl, e)
		out = append(out, decl)
	} else {
		for _, m := range members {
			assign := jsast.NewAssign(jsast.NewAccess(jsast.NewIdent(enumName), m.name), m.value)
			assign.Base = e.Base
			out = append(out, assign)
		}
	}

	if !isConst {
		for _, m := range members {
			if m.kind != numericMember || !jsast.IsValidPropertyName(m.name) {
				continue
			}
			ref := jsast.NewAccess(jsast.NewIdent(enumName), m.name)
			out = append(out, jsast.NewAssign(
				&jsast.ElementAccess{X: jsast.NewIdent(enumName), Index: ref},
				jsast.NewString(m.name)))
		}
	}

	if e.Mods.Has(jsast.ModExport) && fc.isFirstEnumDecl(e) {
		out = append(out, &jsast.ExportDecl{
			Base:  e.Base,
			Specs: []*jsast.ExportSpec{{Local: enumName, Exported: enumName}},
		})
	}
	return out
}

// isFirstEnumDecl reports whether e opens its enum. Later declarations of
// a merged enum add members to the existing object.
func (fc *fileContext) isFirstEnumDecl(e *jsast.EnumDecl) bool {
	sym := fc.symbolOf(e.Name)
	if sym == nil {
		return true
	}
	for _, d := range sym.Decls {
		if ed, ok := d.(*jsast.EnumDecl); ok {
			return ed == fc.orig(e)
		}
	}
	return true
}

// enumType is number or string for uniform enums and unknown otherwise.
func enumType(members []enumMember) string {
	if len(members) == 0 {
		return typetranslator.Unknown
	}
	kind := members[0].kind
	for _, m := range members[1:] {
		if m.kind != kind {
			return typetranslator.Unknown
		}
	}
	if kind == stringMember {
		return "string"
	}
	return "number"
}

func isStringType(t transpiler.Type) bool {
	switch t := t.(type) {
	case *transpiler.IntrinsicType:
		return t.Kind == transpiler.IntrinsicString
	case *transpiler.LiteralType:
		_, ok := t.Value.(string)
		return ok
	}
	return false
}
