package analyzer

import (
	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

func (p *Program) scopeOf(n jsast.Node) *scope {
	if sc := p.scopes[n]; sc != nil {
		return sc
	}
	return p.globals
}

func (p *Program) symbolAt(n jsast.Node) *transpiler.Symbol {
	if n == nil {
		return nil
	}
	if sym := p.nodeSymbols[n]; sym != nil {
		return sym
	}
	switch n := n.(type) {
	case *jsast.ImportDecl:
		return p.importTargets[n]
	case *jsast.Ident:
		sc := p.scopeOf(n)
		if sym := p.lookup(sc, n.Name, valueFlags); sym != nil {
			return sym
		}
		return p.lookup(sc, n.Name, typeFlags)
	case *jsast.PropertyAccess:
		return p.propertySymbol(n)
	case *jsast.TypeRef:
		return p.resolveEntity(n.Name, typeFlags)
	case *jsast.TypeQuery:
		return p.resolveEntity(n.X, valueFlags)
	case *jsast.This:
		return p.scopeOf(n).classSymbol()
	case *jsast.Decorator:
		return p.symbolAt(n.X)
	}
	return nil
}

// resolveEntity resolves an identifier or property access chain. The
// leftmost name may have any meaning; the last one must match meaning.
func (p *Program) resolveEntity(e jsast.Expr, meaning transpiler.SymbolFlags) *transpiler.Symbol {
	switch e := e.(type) {
	case *jsast.Ident:
		return p.lookup(p.scopeOf(e), e.Name, meaning)
	case *jsast.PropertyAccess:
		left := p.resolveEntity(e.X, typeFlags|valueFlags)
		if left == nil {
			if left = p.lookupLeft(e.X); left == nil {
				return nil
			}
		}
		left = p.AliasedSymbol(left)
		return p.members[left][e.Name]
	}
	return nil
}

// lookupLeft finds the leftmost part of a qualified name in either table.
func (p *Program) lookupLeft(e jsast.Expr) *transpiler.Symbol {
	id, ok := e.(*jsast.Ident)
	if !ok {
		return nil
	}
	return p.lookupAny(p.scopeOf(id), id.Name)
}

func (p *Program) propertySymbol(n *jsast.PropertyAccess) *transpiler.Symbol {
	if left := p.symbolAt(n.X); left != nil {
		left = p.AliasedSymbol(left)
		if left.Flags.Has(transpiler.SymbolModule | transpiler.SymbolNamespace | transpiler.SymbolEnum | transpiler.SymbolClass) {
			if _, isThis := n.X.(*jsast.This); !isThis {
				if sym := p.members[left][n.Name]; sym != nil {
					return sym
				}
			}
		}
	}
	return p.memberOf(p.typeOfExpr(n.X), n.Name)
}

// memberOf finds the instance member name of the class or interface t
// refers to, following heritage clauses.
func (p *Program) memberOf(t transpiler.Type, name string) *transpiler.Symbol {
	var owner *transpiler.Symbol
	switch t := t.(type) {
	case *transpiler.InterfaceType:
		owner = t.Sym
	case *transpiler.TypeReference:
		if t.Target != nil {
			owner = t.Target.Sym
		}
	case *transpiler.TypeParameter:
		if t.IsThisType {
			owner = t.Sym
		}
	}
	visited := set.New[*transpiler.Symbol](4)
	for queue := []*transpiler.Symbol{owner}; len(queue) > 0; queue = queue[1:] {
		sym := queue[0]
		if sym == nil || !visited.Insert(sym) {
			continue
		}
		if m := p.instanceMembers[sym][name]; m != nil {
			return m
		}
		queue = append(queue, p.heritage(sym)...)
	}
	return nil
}

func (p *Program) heritage(sym *transpiler.Symbol) []*transpiler.Symbol {
	var out []*transpiler.Symbol
	for _, d := range sym.Decls {
		switch d := d.(type) {
		case *jsast.ClassDecl:
			if d.Extends != nil {
				if base := p.resolveEntity(d.Extends.X, valueFlags); base != nil {
					out = append(out, p.AliasedSymbol(base))
				}
			}
			for _, i := range d.Implements {
				if s := p.symbolAt(i); s != nil {
					out = append(out, p.AliasedSymbol(s))
				}
			}
		case *jsast.InterfaceDecl:
			for _, e := range d.Extends {
				if s := p.symbolAt(e); s != nil {
					out = append(out, p.AliasedSymbol(s))
				}
			}
		}
	}
	return out
}

func (p *Program) typeAt(n jsast.Node) transpiler.Type {
	if n == nil {
		return transpiler.AnyType
	}
	if t, ok := p.nodeTypes[n]; ok {
		return t
	}
	var t transpiler.Type
	switch n := n.(type) {
	case jsast.TypeNode:
		return p.typeOfTypeNode(n)
	case *jsast.Ident:
		if decl, ok := p.nameDecls[n]; ok {
			return p.typeAt(decl)
		}
		t = p.typeOfExpr(n)
	case jsast.Expr:
		t = p.typeOfExpr(n)
	case *jsast.VarBinding:
		t = p.bindingType(n)
	case *jsast.Param:
		t = p.paramType(n)
	case *jsast.PropertyDecl:
		t = p.propType(n.Type, n.Init, n.Optional)
	case *jsast.PropertySignature:
		t = p.propType(n.Type, nil, n.Optional)
	case *jsast.MethodDecl, *jsast.MethodSignature, *jsast.FuncDecl:
		sym := p.nodeSymbols[n]
		if sym == nil {
			t = &transpiler.AnonymousType{Calls: []*transpiler.Signature{p.signatureOf(n)}}
		} else {
			t = p.valueType(sym)
		}
	case *jsast.Constructor:
		t = p.valueType(p.ctorClass[n])
	case *jsast.ClassDecl, *jsast.EnumDecl, *jsast.NamespaceDecl:
		t = p.valueType(p.nodeSymbols[n])
	case *jsast.InterfaceDecl, *jsast.TypeAliasDecl, *jsast.TypeParam:
		t = p.declaredType(p.nodeSymbols[n])
	case *jsast.EnumMember:
		t = p.declaredType(p.nodeSymbols[n])
	case *jsast.ExportDefault:
		t = p.typeOfExpr(n.X)
	default:
		t = transpiler.AnyType
	}
	p.nodeTypes[n] = t
	return t
}

// declaredType is the type a symbol denotes in a type position.
func (p *Program) declaredType(sym *transpiler.Symbol) transpiler.Type {
	sym = p.AliasedSymbol(sym)
	if sym == nil {
		return transpiler.AnyType
	}
	if t, ok := p.declared[sym]; ok {
		return t
	}
	switch {
	case sym.Flags.Has(transpiler.SymbolTypeParameter):
		tp := &transpiler.TypeParameter{TypeInfo: transpiler.TypeInfo{Sym: sym}}
		p.declared[sym] = tp
		if len(sym.Decls) > 0 {
			if decl, ok := sym.Decls[0].(*jsast.TypeParam); ok && decl.Constraint != nil {
				tp.Constraint = p.typeOfTypeNode(decl.Constraint)
			}
		}
		return tp
	case sym.Flags.Has(transpiler.SymbolTypeAlias) && len(sym.Decls) > 0:
		return p.aliasType(sym)
	case sym.Flags.Has(transpiler.SymbolClass | transpiler.SymbolInterface):
		it := &transpiler.InterfaceType{
			TypeInfo: transpiler.TypeInfo{Sym: sym},
			IsClass:  sym.Flags.Has(transpiler.SymbolClass),
		}
		it.ThisType = &transpiler.TypeParameter{TypeInfo: transpiler.TypeInfo{Sym: sym}, IsThisType: true}
		p.declared[sym] = it
		it.TypeParams = p.classTypeParams(sym)
		return it
	case sym.Flags.Has(transpiler.SymbolEnum):
		t := &transpiler.EnumType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
		p.declared[sym] = t
		return t
	case sym.Flags.Has(transpiler.SymbolEnumMember):
		t := &transpiler.EnumLiteralType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
		if m, ok := sym.Decls[0].(*jsast.EnumMember); ok {
			if v, ok := p.constValue(m); ok {
				t.Value = v
			}
		}
		p.declared[sym] = t
		return t
	}
	return transpiler.AnyType
}

func (p *Program) classTypeParams(sym *transpiler.Symbol) []*transpiler.TypeParameter {
	var out []*transpiler.TypeParameter
	if names, ok := p.libParams[sym]; ok {
		for _, name := range names {
			out = append(out, &transpiler.TypeParameter{TypeInfo: transpiler.TypeInfo{Sym: &transpiler.Symbol{
				Name:  name,
				Flags: transpiler.SymbolTypeParameter,
			}}})
		}
		return out
	}
	for _, d := range sym.Decls {
		var tps []*jsast.TypeParam
		switch d := d.(type) {
		case *jsast.ClassDecl:
			tps = d.TypeParams
		case *jsast.InterfaceDecl:
			tps = d.TypeParams
		}
		if len(tps) == 0 {
			continue
		}
		for _, tp := range tps {
			if t, ok := p.declaredType(p.nodeSymbols[tp]).(*transpiler.TypeParameter); ok {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}

// aliasType returns the type a type alias stands for, tagged with the
// alias. Object and union bodies are created before their members are
// resolved so that self references see the tagged type.
func (p *Program) aliasType(sym *transpiler.Symbol) transpiler.Type {
	decl, ok := sym.Decls[0].(*jsast.TypeAliasDecl)
	if !ok || decl.Type == nil {
		return transpiler.AnyType
	}
	if p.inProgress.Contains(sym) {
		return transpiler.AnyType
	}
	info := transpiler.TypeInfo{Alias: sym}
	switch body := unparen(decl.Type).(type) {
	case *jsast.TypeLiteral:
		t := &transpiler.AnonymousType{TypeInfo: info}
		p.declared[sym] = t
		p.nodeTypes[body] = t
		p.fillTypeLiteral(t, body)
		return t
	case *jsast.FunctionTypeNode:
		t := &transpiler.AnonymousType{TypeInfo: info}
		p.declared[sym] = t
		p.nodeTypes[body] = t
		p.fillFunctionType(t, body)
		return t
	case *jsast.UnionTypeNode:
		t := &transpiler.UnionType{TypeInfo: info}
		p.declared[sym] = t
		p.nodeTypes[body] = t
		t.Types = p.unionMembers(body.Types)
		return t
	}
	p.inProgress.Insert(sym)
	defer p.inProgress.Remove(sym)
	t := withAlias(p.typeOfTypeNode(decl.Type), sym)
	p.declared[sym] = t
	return t
}

func unparen(n jsast.TypeNode) jsast.TypeNode {
	for {
		pt, ok := n.(*jsast.ParenType)
		if !ok {
			return n
		}
		n = pt.X
	}
}

// withAlias tags the shapes that keep a type alias name.
func withAlias(t transpiler.Type, alias *transpiler.Symbol) transpiler.Type {
	switch t := t.(type) {
	case *transpiler.UnionType:
		c := *t
		c.Alias = alias
		return &c
	case *transpiler.IntersectionType:
		c := *t
		c.Alias = alias
		return &c
	case *transpiler.AnonymousType:
		if t.Sym != nil {
			return t
		}
		c := *t
		c.Alias = alias
		return &c
	case *transpiler.TupleType:
		c := *t
		c.Alias = alias
		return &c
	case *transpiler.TypeReference:
		c := *t
		c.Alias = alias
		return &c
	}
	return t
}

// valueType is the type of a reference to sym as a value.
func (p *Program) valueType(sym *transpiler.Symbol) transpiler.Type {
	sym = p.AliasedSymbol(sym)
	if sym == nil {
		return transpiler.AnyType
	}
	if t, ok := p.values[sym]; ok {
		return t
	}
	var t transpiler.Type
	switch {
	case sym.Flags.Has(transpiler.SymbolClass):
		static := &transpiler.AnonymousType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
		p.values[sym] = static
		static.Constructs = p.constructSignatures(sym)
		return static
	case sym.Flags.Has(transpiler.SymbolFunction | transpiler.SymbolMethod):
		fn := &transpiler.AnonymousType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
		p.values[sym] = fn
		fn.Calls = p.callSignatures(sym.Decls)
		return fn
	case sym.Flags.Has(transpiler.SymbolEnum | transpiler.SymbolNamespace):
		t = &transpiler.AnonymousType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
	case sym.Flags.Has(transpiler.SymbolEnumMember):
		t = p.declaredType(sym)
	case sym.Flags.Has(transpiler.SymbolVariable | transpiler.SymbolProperty):
		if len(sym.Decls) == 0 {
			return transpiler.AnyType
		}
		p.values[sym] = transpiler.AnyType
		t = p.typeAt(sym.Decls[0])
	default:
		t = transpiler.AnyType
	}
	p.values[sym] = t
	return t
}

// callSignatures returns the signatures callers see: the overloads, or the
// implementation alone when there are none.
func (p *Program) callSignatures(decls []jsast.Node) []*transpiler.Signature {
	var sigs []*transpiler.Signature
	for i, d := range decls {
		if i == len(decls)-1 && i > 0 && hasBody(d) {
			break
		}
		switch d.(type) {
		case *jsast.FuncDecl, *jsast.MethodDecl, *jsast.MethodSignature:
			sigs = append(sigs, p.signatureOf(d))
		}
	}
	return sigs
}

func hasBody(n jsast.Node) bool {
	switch n := n.(type) {
	case *jsast.FuncDecl:
		return n.Body != nil
	case *jsast.MethodDecl:
		return n.Body != nil
	case *jsast.Constructor:
		return n.Body != nil
	}
	return false
}

func (p *Program) constructSignatures(cls *transpiler.Symbol) []*transpiler.Signature {
	var ctors []jsast.Node
	for _, d := range cls.Decls {
		if c, ok := d.(*jsast.ClassDecl); ok {
			for _, m := range c.Members {
				if ctor, ok := m.(*jsast.Constructor); ok {
					ctors = append(ctors, ctor)
				}
			}
		}
	}
	if len(ctors) == 0 {
		return []*transpiler.Signature{{Return: p.declaredType(cls)}}
	}
	if n := len(ctors); n > 1 && hasBody(ctors[n-1]) {
		ctors = ctors[:n-1]
	}
	sigs := make([]*transpiler.Signature, len(ctors))
	for i, c := range ctors {
		sigs[i] = p.signatureOf(c)
	}
	return sigs
}

func (p *Program) bindingType(b *jsast.VarBinding) transpiler.Type {
	if b.Type != nil {
		return p.typeOfTypeNode(b.Type)
	}
	if b.Init != nil {
		return p.typeOfExpr(b.Init)
	}
	return transpiler.AnyType
}

func (p *Program) paramType(prm *jsast.Param) transpiler.Type {
	switch {
	case prm.Type != nil:
		return p.typeOfTypeNode(prm.Type)
	case prm.Init != nil:
		return widen(p.typeOfExpr(prm.Init))
	case prm.Rest:
		return &transpiler.ArrayType{Elem: transpiler.AnyType}
	}
	return transpiler.AnyType
}

// propType is the declared type of a property. Optional properties may
// also hold undefined.
func (p *Program) propType(typ jsast.TypeNode, init jsast.Expr, optional bool) transpiler.Type {
	var t transpiler.Type = transpiler.AnyType
	switch {
	case typ != nil:
		t = p.typeOfTypeNode(typ)
	case init != nil:
		t = widen(p.typeOfExpr(init))
	}
	if optional {
		return &transpiler.UnionType{Types: []transpiler.Type{t, transpiler.UndefinedType}}
	}
	return t
}

var keywordTypes = map[string]transpiler.Type{
	jsast.KwAny:       transpiler.AnyType,
	jsast.KwUnknown:   transpiler.UnknownType,
	jsast.KwNumber:    transpiler.NumberType,
	jsast.KwString:    transpiler.StringType,
	jsast.KwBoolean:   transpiler.BooleanType,
	jsast.KwBigInt:    transpiler.BigIntType,
	jsast.KwSymbol:    transpiler.ESSymbolType,
	jsast.KwVoid:      transpiler.VoidType,
	jsast.KwUndefined: transpiler.UndefinedType,
	jsast.KwNull:      transpiler.NullType,
	jsast.KwNever:     transpiler.NeverType,
	jsast.KwObject:    transpiler.ObjectType,
}

func (p *Program) typeOfTypeNode(n jsast.TypeNode) transpiler.Type {
	if n == nil {
		return transpiler.AnyType
	}
	if t, ok := p.nodeTypes[n]; ok {
		return t
	}
	var t transpiler.Type
	switch n := n.(type) {
	case *jsast.KeywordType:
		if n.Name == jsast.KwThis {
			t = p.thisType(n)
		} else if kt, ok := keywordTypes[n.Name]; ok {
			t = kt
		} else {
			t = transpiler.AnyType
		}
	case *jsast.TypeRef:
		t = p.typeOfTypeRef(n)
	case *jsast.ArrayTypeNode:
		t = &transpiler.ArrayType{Elem: p.typeOfTypeNode(n.Elem)}
	case *jsast.TupleTypeNode:
		tt := &transpiler.TupleType{}
		for _, e := range n.Elems {
			tt.Elems = append(tt.Elems, p.typeOfTypeNode(e))
		}
		t = tt
	case *jsast.UnionTypeNode:
		t = &transpiler.UnionType{Types: p.unionMembers(n.Types)}
	case *jsast.IntersectionType:
		it := &transpiler.IntersectionType{}
		for _, m := range n.Types {
			it.Types = append(it.Types, p.typeOfTypeNode(m))
		}
		t = it
	case *jsast.FunctionTypeNode:
		at := &transpiler.AnonymousType{}
		p.nodeTypes[n] = at
		p.fillFunctionType(at, n)
		return at
	case *jsast.TypeLiteral:
		at := &transpiler.AnonymousType{}
		p.nodeTypes[n] = at
		p.fillTypeLiteral(at, n)
		return at
	case *jsast.LiteralTypeNode:
		t = literalType(n.Literal)
	case *jsast.TypeQuery:
		if sym := p.symbolAt(n); sym != nil {
			t = p.valueType(sym)
		} else {
			t = transpiler.AnyType
		}
	case *jsast.ParenType:
		t = p.typeOfTypeNode(n.X)
	case *jsast.OpaqueType:
		t = &transpiler.UnsupportedType{Kind: n.Kind}
	default:
		t = transpiler.AnyType
	}
	p.nodeTypes[n] = t
	return t
}

func (p *Program) thisType(n jsast.Node) transpiler.Type {
	cls := p.scopeOf(n).classSymbol()
	if cls == nil {
		return transpiler.AnyType
	}
	if it, ok := p.declaredType(cls).(*transpiler.InterfaceType); ok {
		return it.ThisType
	}
	return transpiler.AnyType
}

// unionMembers flattens nested unions.
func (p *Program) unionMembers(nodes []jsast.TypeNode) []transpiler.Type {
	var out []transpiler.Type
	for _, m := range nodes {
		t := p.typeOfTypeNode(m)
		if u, ok := t.(*transpiler.UnionType); ok && u.Alias == nil {
			out = append(out, u.Types...)
			continue
		}
		out = append(out, t)
	}
	return out
}

func literalType(lit jsast.Expr) transpiler.Type {
	switch l := lit.(type) {
	case *jsast.StringLit:
		return &transpiler.LiteralType{Value: l.Value}
	case *jsast.NumberLit:
		return &transpiler.LiteralType{Value: l.Value}
	case *jsast.BoolLit:
		return &transpiler.LiteralType{Value: l.Value}
	case *jsast.NullLit:
		return transpiler.NullType
	case *jsast.UndefinedLit:
		return transpiler.UndefinedType
	}
	return transpiler.AnyType
}

// Utility types the analyzer cannot evaluate.
var (
	mappedUtilities      = []string{"Partial", "Required", "Readonly", "Pick", "Omit"}
	conditionalUtilities = []string{"Exclude", "Extract", "NonNullable", "ReturnType", "Parameters", "InstanceType", "Awaited"}
)

func (p *Program) typeOfTypeRef(n *jsast.TypeRef) transpiler.Type {
	sym := p.resolveEntity(n.Name, typeFlags)
	if sym == nil {
		name, ok := jsast.EntityName(n.Name)
		if !ok {
			return transpiler.AnyType
		}
		return p.declaredType(p.unresolvedSymbol(name))
	}
	if resolved := p.AliasedSymbol(sym); resolved != nil && (!resolved.IsAlias() || resolved.Target != nil) {
		sym = resolved
	} else {
		// An import that did not resolve still names a type.
		return &transpiler.InterfaceType{TypeInfo: transpiler.TypeInfo{Sym: sym}}
	}

	if p.lib[sym.Name] == sym {
		switch sym.Name {
		case "Array", "ReadonlyArray":
			elem := transpiler.Type(transpiler.AnyType)
			if len(n.TypeArgs) > 0 {
				elem = p.typeOfTypeNode(n.TypeArgs[0])
			}
			return &transpiler.ArrayType{Elem: elem, Readonly: sym.Name == "ReadonlyArray"}
		case "Record":
			val := transpiler.Type(transpiler.AnyType)
			if len(n.TypeArgs) > 1 {
				val = p.typeOfTypeNode(n.TypeArgs[1])
			}
			return &transpiler.AnonymousType{StringIndex: val}
		}
		for _, u := range mappedUtilities {
			if sym.Name == u {
				return &transpiler.UnsupportedType{Kind: "mapped type " + u}
			}
		}
		for _, u := range conditionalUtilities {
			if sym.Name == u {
				return &transpiler.UnsupportedType{Kind: "conditional type " + u}
			}
		}
	}

	declared := p.declaredType(sym)
	if it, ok := declared.(*transpiler.InterfaceType); ok && len(n.TypeArgs) > 0 {
		ref := &transpiler.TypeReference{TypeInfo: transpiler.TypeInfo{Sym: sym}, Target: it}
		for _, a := range n.TypeArgs {
			ref.TypeArgs = append(ref.TypeArgs, p.typeOfTypeNode(a))
		}
		return ref
	}
	return declared
}

// unresolvedSymbol stands in for a type name declared outside the program,
// which is assumed to be a global interface.
func (p *Program) unresolvedSymbol(name string) *transpiler.Symbol {
	if sym, ok := p.unresolved[name]; ok {
		return sym
	}
	sym := &transpiler.Symbol{
		Name:  name,
		Flags: transpiler.SymbolInterface | transpiler.SymbolGlobal | transpiler.SymbolAmbient,
	}
	p.unresolved[name] = sym
	return sym
}

func (p *Program) fillFunctionType(t *transpiler.AnonymousType, n *jsast.FunctionTypeNode) {
	sig := p.signatureOf(n)
	if n.Constructor {
		t.Constructs = []*transpiler.Signature{sig}
		return
	}
	t.Calls = []*transpiler.Signature{sig}
}

func (p *Program) fillTypeLiteral(t *transpiler.AnonymousType, n *jsast.TypeLiteral) {
	for _, m := range n.Members {
		switch m := m.(type) {
		case *jsast.PropertySignature:
			name, ok := jsast.StaticName(m.Name)
			if !ok {
				continue
			}
			t.Props = append(t.Props, &transpiler.Property{
				Name:     name,
				Type:     p.propType(m.Type, nil, m.Optional),
				Optional: m.Optional,
				Readonly: m.Mods.Has(jsast.ModReadonly),
			})
		case *jsast.MethodSignature:
			name, ok := jsast.StaticName(m.Name)
			if !ok {
				continue
			}
			fn := &transpiler.AnonymousType{Calls: []*transpiler.Signature{p.signatureOf(m)}}
			t.Props = append(t.Props, &transpiler.Property{Name: name, Type: fn, Optional: m.Optional})
		case *jsast.IndexSignature:
			val := p.typeOfTypeNode(m.Type)
			if m.Key != nil && isKeyword(m.Key.Type, jsast.KwNumber) {
				t.NumberIndex = val
			} else {
				t.StringIndex = val
			}
		case *jsast.CallSignature:
			t.Calls = append(t.Calls, p.signatureOf(m))
		case *jsast.ConstructSignature:
			t.Constructs = append(t.Constructs, p.signatureOf(m))
		}
	}
}

func isKeyword(n jsast.TypeNode, name string) bool {
	kw, ok := n.(*jsast.KeywordType)
	return ok && kw.Name == name
}

// signatureOf builds the signature of a function-like node. The signature
// is cached before its return type is inferred so that recursion sees the
// unknown return type.
func (p *Program) signatureOf(decl jsast.Node) *transpiler.Signature {
	if decl == nil {
		return nil
	}
	if sig, ok := p.signatures[decl]; ok {
		return sig
	}
	var (
		tps    []*jsast.TypeParam
		params []*jsast.Param
		ret    jsast.TypeNode
		body   *jsast.Block
		expr   jsast.Expr
	)
	ctor := false
	switch d := decl.(type) {
	case *jsast.FuncDecl:
		tps, params, ret, body = d.TypeParams, d.Params, d.Return, d.Body
	case *jsast.MethodDecl:
		tps, params, ret, body = d.TypeParams, d.Params, d.Return, d.Body
		if d.Kind == jsast.MethodSetter && ret == nil {
			ret = &jsast.KeywordType{Name: jsast.KwVoid}
		}
	case *jsast.Constructor:
		params, body, ctor = d.Params, d.Body, true
	case *jsast.MethodSignature:
		tps, params, ret = d.TypeParams, d.Params, d.Return
	case *jsast.CallSignature:
		tps, params, ret = d.TypeParams, d.Params, d.Return
	case *jsast.ConstructSignature:
		tps, params, ret = d.TypeParams, d.Params, d.Return
	case *jsast.FunctionTypeNode:
		tps, params, ret = d.TypeParams, d.Params, d.Return
	case *jsast.Arrow:
		params, ret, body, expr = d.Params, d.Return, d.Body, d.Expr
	case *jsast.FuncExpr:
		params, ret, body = d.Params, d.Return, d.Body
	default:
		return nil
	}

	sig := &transpiler.Signature{Decl: decl, Return: transpiler.AnyType}
	p.signatures[decl] = sig
	for _, tp := range tps {
		if t, ok := p.declaredType(p.nodeSymbols[tp]).(*transpiler.TypeParameter); ok {
			sig.TypeParams = append(sig.TypeParams, t)
		}
	}
	for _, prm := range params {
		if prm.IsThis() {
			sig.This = p.typeOfTypeNode(prm.Type)
			continue
		}
		sp := &transpiler.SignatureParam{
			Type:     p.paramType(prm),
			Optional: prm.Optional || prm.Init != nil,
			Rest:     prm.Rest,
		}
		if prm.Name != nil {
			sp.Name = prm.Name.Name
		}
		sig.Params = append(sig.Params, sp)
		if !sp.Optional && !sp.Rest {
			sig.MinArgs = len(sig.Params)
		}
	}

	switch {
	case ctor:
		sig.Return = p.declaredType(p.ctorClass[decl.(*jsast.Constructor)])
	case ret != nil:
		sig.Return = p.typeOfTypeNode(ret)
	case expr != nil:
		sig.Return = widen(p.typeOfExpr(expr))
	case body != nil:
		sig.Return = p.inferReturn(body)
	}
	return sig
}
