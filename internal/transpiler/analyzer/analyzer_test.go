package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/module"
)

func id(name string) *jsast.Ident { return jsast.NewIdent(name) }

func ref(name string, args ...jsast.TypeNode) *jsast.TypeRef {
	return &jsast.TypeRef{Name: jsast.NewDottedName(name), TypeArgs: args}
}

func kw(name string) *jsast.KeywordType { return &jsast.KeywordType{Name: name} }

func param(name string, typ jsast.TypeNode) *jsast.Param {
	return &jsast.Param{Name: id(name), Type: typ}
}

func letDecl(name string, typ jsast.TypeNode, init jsast.Expr) (*jsast.VarDecl, *jsast.VarBinding) {
	b := &jsast.VarBinding{Name: id(name), Type: typ, Init: init}
	return &jsast.VarDecl{Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{b}}, b
}

func check(files ...*jsast.SourceFile) *Program {
	return Check(files, module.NewResolver(""))
}

func TestImportResolvesToExportedClass(t *testing.T) {
	foo := &jsast.ClassDecl{Mods: jsast.ModExport, Name: id("Foo")}
	bar := &jsast.InterfaceDecl{Mods: jsast.ModExport, Name: id("Bar")}
	lib := &jsast.SourceFile{FileName: "src/lib.ts", Stmts: []jsast.Stmt{foo, bar}}

	imp := &jsast.ImportDecl{Path: "./lib", Named: []*jsast.ImportSpec{{Imported: "Foo", Local: id("F")}}}
	typ := ref("F")
	decl, binding := letDecl("x", typ, nil)
	app := &jsast.SourceFile{FileName: "src/app.ts", Stmts: []jsast.Stmt{imp, decl}}

	p := check(lib, app)

	fooSym := p.SymbolAtLocation(foo)
	require.NotNil(t, fooSym)
	assert.Equal(t, p.ModuleSymbol("src/lib.ts"), fooSym.Parent)

	local := p.SymbolAtLocation(typ)
	require.NotNil(t, local)
	assert.True(t, local.IsAlias())
	assert.Same(t, fooSym, p.AliasedSymbol(local))

	it, ok := p.TypeAtLocation(binding).(*transpiler.InterfaceType)
	require.True(t, ok)
	assert.Same(t, fooSym, it.Sym)
	assert.True(t, it.IsClass)

	assert.Same(t, p.ModuleSymbol("src/lib.ts"), p.SymbolAtLocation(imp))

	var names []string
	for _, s := range p.ExportsOfModule(p.ModuleSymbol("src/lib.ts")) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Foo", "Bar"}, names)
}

func TestStarReexport(t *testing.T) {
	lib := &jsast.SourceFile{FileName: "src/lib.ts", Stmts: []jsast.Stmt{
		&jsast.ClassDecl{Mods: jsast.ModExport, Name: id("Foo")},
	}}
	index := &jsast.SourceFile{FileName: "src/index.ts", Stmts: []jsast.Stmt{
		&jsast.ExportDecl{Star: true, From: "./lib"},
		&jsast.ExportDecl{From: "./lib", Specs: []*jsast.ExportSpec{{Local: "Foo", Exported: "Renamed"}}},
	}}
	p := check(lib, index)

	exports := p.ExportsOfModule(p.ModuleSymbol("src/index.ts"))
	require.Len(t, exports, 2)
	foo := p.ExportsOfModule(p.ModuleSymbol("src/lib.ts"))[0]
	for _, e := range exports {
		assert.Same(t, foo, p.AliasedSymbol(e), e.Name)
	}
}

func TestEnumConstantFolding(t *testing.T) {
	member := func(name string, init jsast.Expr) *jsast.EnumMember {
		return &jsast.EnumMember{Name: id(name), Init: init}
	}
	members := []*jsast.EnumMember{
		member("A", nil),
		member("B", jsast.NewNumber(5)),
		member("C", nil),
		member("D", jsast.NewString("x")),
		member("E", nil),
		member("F", &jsast.Binary{Op: "*", X: id("B"), Y: jsast.NewNumber(2)}),
		member("G", &jsast.Binary{Op: "<<", X: jsast.NewNumber(1), Y: jsast.NewNumber(3)}),
		member("H", &jsast.Unary{Op: "-", X: &jsast.Paren{X: id("C")}}),
	}
	enum := &jsast.EnumDecl{Name: id("Color"), Members: members}
	p := check(&jsast.SourceFile{FileName: "src/enum.ts", Stmts: []jsast.Stmt{enum}})

	want := []struct {
		value any
		ok    bool
	}{
		{float64(0), true},
		{float64(5), true},
		{float64(6), true},
		{"x", true},
		{nil, false},
		{float64(10), true},
		{float64(8), true},
		{float64(-6), true},
	}
	for i, m := range members {
		v, ok := p.ConstantValue(m)
		assert.Equal(t, want[i].ok, ok, "member %d", i)
		assert.Equal(t, want[i].value, v, "member %d", i)
	}

	lit, ok := p.TypeAtLocation(members[1]).(*transpiler.EnumLiteralType)
	require.True(t, ok)
	assert.Same(t, p.SymbolAtLocation(enum), lit.Enum())
	assert.Equal(t, float64(5), lit.Value)
}

func TestDeclarationMerging(t *testing.T) {
	i1 := &jsast.InterfaceDecl{Name: id("Shape")}
	i2 := &jsast.InterfaceDecl{Name: id("Shape")}
	cls := &jsast.ClassDecl{Name: id("Widget")}
	ns := &jsast.NamespaceDecl{Name: id("Widget"), Body: []jsast.Stmt{
		&jsast.VarDecl{Mods: jsast.ModExport, Kind: jsast.VarConst, Bindings: []*jsast.VarBinding{{Name: id("defaults"), Init: jsast.NewNumber(1)}}},
	}}
	fn := &jsast.FuncDecl{Name: id("Shape"), Body: &jsast.Block{}}
	p := check(&jsast.SourceFile{FileName: "src/merge.ts", Stmts: []jsast.Stmt{i1, i2, cls, ns, fn}})

	shape := p.SymbolAtLocation(i1)
	require.NotNil(t, shape)
	assert.Same(t, shape, p.SymbolAtLocation(i2))
	assert.Len(t, shape.Decls, 2)

	widget := p.SymbolAtLocation(cls)
	assert.Same(t, widget, p.SymbolAtLocation(ns))
	assert.True(t, widget.Flags.Has(transpiler.SymbolClass))
	assert.True(t, widget.Flags.Has(transpiler.SymbolNamespace))
	exports := p.ExportsOfModule(widget)
	require.Len(t, exports, 1)
	assert.Equal(t, "Widget.defaults", exports[0].QualifiedName())

	// A function does not merge with an interface; it is a separate value.
	assert.NotSame(t, shape, p.SymbolAtLocation(fn))
}

func TestSignatureFromDeclaration(t *testing.T) {
	fn := &jsast.FuncDecl{
		Name: id("f"),
		Params: []*jsast.Param{
			param("a", kw(jsast.KwString)),
			{Name: id("b"), Type: kw(jsast.KwNumber), Optional: true},
			{Name: id("rest"), Type: &jsast.ArrayTypeNode{Elem: kw(jsast.KwBoolean)}, Rest: true},
		},
		Return: kw(jsast.KwVoid),
		Body:   &jsast.Block{},
	}
	p := check(&jsast.SourceFile{FileName: "src/f.ts", Stmts: []jsast.Stmt{fn}})

	sig := p.SignatureFromDeclaration(fn)
	require.NotNil(t, sig)
	assert.Equal(t, 1, sig.MinArgs)
	require.Len(t, sig.Params, 3)
	assert.True(t, sig.Params[1].Optional)
	assert.True(t, sig.HasRest())
	assert.Equal(t, "(a: string, b: number, ...rest: boolean[]) => void", sig.String())
}

func TestOverloadsHideImplementation(t *testing.T) {
	o1 := &jsast.FuncDecl{Name: id("g"), Params: []*jsast.Param{param("a", kw(jsast.KwString))}, Return: kw(jsast.KwString)}
	o2 := &jsast.FuncDecl{Name: id("g"), Params: []*jsast.Param{param("a", kw(jsast.KwNumber))}, Return: kw(jsast.KwNumber)}
	impl := &jsast.FuncDecl{Name: id("g"), Params: []*jsast.Param{param("a", kw(jsast.KwAny))}, Body: &jsast.Block{}}
	p := check(&jsast.SourceFile{FileName: "src/g.ts", Stmts: []jsast.Stmt{o1, o2, impl}})

	sym := p.SymbolAtLocation(o1)
	require.NotNil(t, sym)
	assert.Len(t, sym.Decls, 3)
	fnType, ok := p.TypeAtLocation(impl).(*transpiler.AnonymousType)
	require.True(t, ok)
	assert.Len(t, fnType.Calls, 2)
}

func TestSelfReferentialAlias(t *testing.T) {
	alias := &jsast.TypeAliasDecl{Name: id("Tree"), Type: &jsast.TypeLiteral{Members: []jsast.TypeMember{
		&jsast.PropertySignature{Name: id("left"), Type: ref("Tree")},
	}}}
	p := check(&jsast.SourceFile{FileName: "src/tree.ts", Stmts: []jsast.Stmt{alias}})

	tree, ok := p.TypeAtLocation(alias).(*transpiler.AnonymousType)
	require.True(t, ok)
	assert.Same(t, p.SymbolAtLocation(alias), tree.AliasSymbol())
	require.Len(t, tree.Props, 1)
	assert.Same(t, tree, tree.Props[0].Type)
}

func TestTypeAndValueMeaningsAreSeparate(t *testing.T) {
	value, _ := letDecl("Id", nil, jsast.NewNumber(1))
	alias := &jsast.TypeAliasDecl{Name: id("Id"), Type: kw(jsast.KwString)}
	typeRef := ref("Id")
	d1, b1 := letDecl("x", typeRef, nil)
	use := id("Id")
	d2, _ := letDecl("y", nil, use)
	fn := &jsast.FuncDecl{
		Name:       id("ident"),
		TypeParams: []*jsast.TypeParam{{Name: id("T")}},
		Params:     []*jsast.Param{param("v", ref("T"))},
		Return:     ref("T"),
		Body:       &jsast.Block{},
	}
	p := check(&jsast.SourceFile{FileName: "src/ids.ts", Stmts: []jsast.Stmt{value, alias, d1, d2, fn}})

	aliasSym := p.SymbolAtLocation(alias)
	require.NotNil(t, aliasSym)
	assert.Same(t, aliasSym, p.SymbolAtLocation(typeRef))
	assert.Equal(t, transpiler.StringType, p.TypeAtLocation(b1))

	valueSym := p.SymbolAtLocation(use)
	require.NotNil(t, valueSym)
	assert.True(t, valueSym.Flags.Has(transpiler.SymbolVariable))
	assert.NotSame(t, aliasSym, valueSym)

	sig := p.SignatureFromDeclaration(fn)
	require.NotNil(t, sig)
	require.Len(t, sig.Params, 1)
	tp, ok := sig.Params[0].Type.(*transpiler.TypeParameter)
	require.True(t, ok)
	assert.Equal(t, "T", tp.Sym.Name)
	assert.Same(t, tp, sig.Return)
}

func TestThisReturnInference(t *testing.T) {
	method := &jsast.MethodDecl{Name: id("self"), Body: &jsast.Block{Stmts: []jsast.Stmt{
		&jsast.ReturnStmt{X: &jsast.This{}},
	}}}
	cls := &jsast.ClassDecl{Name: id("Builder"), Members: []jsast.ClassMember{method}}
	p := check(&jsast.SourceFile{FileName: "src/b.ts", Stmts: []jsast.Stmt{cls}})

	sig := p.SignatureFromDeclaration(method)
	require.NotNil(t, sig)
	tp, ok := sig.Return.(*transpiler.TypeParameter)
	require.True(t, ok)
	assert.True(t, tp.IsThisType)
	assert.Same(t, p.SymbolAtLocation(cls), tp.Sym)
}

func TestLibAndUnresolvedTypes(t *testing.T) {
	arr := ref("Array", kw(jsast.KwString))
	partial := ref("Partial", ref("Foo"))
	record := ref("Record", kw(jsast.KwString), kw(jsast.KwNumber))
	missing := ref("Missing")
	d1, b1 := letDecl("a", arr, nil)
	d2, b2 := letDecl("b", partial, nil)
	d3, b3 := letDecl("c", record, nil)
	d4, b4 := letDecl("d", missing, nil)
	p := check(&jsast.SourceFile{FileName: "src/lib.ts", Stmts: []jsast.Stmt{d1, d2, d3, d4}})

	at, ok := p.TypeAtLocation(b1).(*transpiler.ArrayType)
	require.True(t, ok)
	assert.Equal(t, transpiler.StringType, at.Elem)

	_, ok = p.TypeAtLocation(b2).(*transpiler.UnsupportedType)
	assert.True(t, ok)

	rt, ok := p.TypeAtLocation(b3).(*transpiler.AnonymousType)
	require.True(t, ok)
	assert.Equal(t, transpiler.NumberType, rt.StringIndex)

	it, ok := p.TypeAtLocation(b4).(*transpiler.InterfaceType)
	require.True(t, ok)
	assert.Equal(t, "Missing", it.Sym.Name)
	assert.True(t, it.Sym.Flags.Has(transpiler.SymbolGlobal))
}

func TestExpressionInference(t *testing.T) {
	d1, b1 := letDecl("n", nil, &jsast.Binary{Op: "+", X: jsast.NewNumber(1), Y: jsast.NewNumber(2)})
	d2, b2 := letDecl("s", nil, &jsast.Binary{Op: "+", X: jsast.NewString("a"), Y: jsast.NewNumber(2)})
	d3, b3 := letDecl("xs", nil, &jsast.ArrayLit{Elems: []jsast.Expr{jsast.NewNumber(1), jsast.NewString("a")}})
	d4, b4 := letDecl("fn", nil, &jsast.Arrow{Params: []*jsast.Param{param("v", kw(jsast.KwNumber))}, Expr: id("v")})
	p := check(&jsast.SourceFile{FileName: "src/e.ts", Stmts: []jsast.Stmt{d1, d2, d3, d4}})

	assert.Equal(t, transpiler.NumberType, p.TypeAtLocation(b1))
	assert.Equal(t, transpiler.StringType, p.TypeAtLocation(b2))
	assert.Equal(t, "number | string[]", p.TypeAtLocation(b3).String())

	fn, ok := p.TypeAtLocation(b4).(*transpiler.AnonymousType)
	require.True(t, ok)
	require.Len(t, fn.Calls, 1)
	assert.Equal(t, transpiler.NumberType, fn.Calls[0].Return)
}

func TestInstanceMemberAccess(t *testing.T) {
	prop := &jsast.PropertyDecl{Name: id("size"), Type: kw(jsast.KwNumber)}
	cls := &jsast.ClassDecl{Name: id("Box"), Members: []jsast.ClassMember{prop}}
	access := &jsast.PropertyAccess{X: &jsast.New{X: id("Box")}, Name: "size"}
	decl, binding := letDecl("n", nil, access)
	p := check(&jsast.SourceFile{FileName: "src/box.ts", Stmts: []jsast.Stmt{cls, decl}})

	assert.Same(t, p.SymbolAtLocation(prop), p.SymbolAtLocation(access))
	assert.Equal(t, transpiler.NumberType, p.TypeAtLocation(binding))
}
