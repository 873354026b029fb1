package transformer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/analyzer"
	"martianoff/tsclosure/internal/transpiler/generator"
	"martianoff/tsclosure/internal/transpiler/module"
	"martianoff/tsclosure/tscerr"
)

func id(name string) *jsast.Ident { return jsast.NewIdent(name) }

func kw(name string) *jsast.KeywordType { return &jsast.KeywordType{Name: name} }

func ref(name string) *jsast.TypeRef { return &jsast.TypeRef{Name: jsast.NewDottedName(name)} }

func file(name string, stmts ...jsast.Stmt) *jsast.SourceFile {
	return &jsast.SourceFile{FileName: name, Stmts: stmts}
}

type output struct {
	code   string
	result *transpiler.FileResult
}

func (o output) diagnostics(cat tscerr.Category) []*tscerr.Diagnostic {
	var out []*tscerr.Diagnostic
	for _, d := range o.result.Diagnostics {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// run checks files together and transforms and prints the last one.
func run(t *testing.T, opts transpiler.Options, files ...*jsast.SourceFile) output {
	t.Helper()
	program := analyzer.Check(files, module.NewResolver(""))
	tr := NewClosureTransformer(program, module.NewResolver(""), opts)
	target := files[len(files)-1]
	res, err := tr.TransformFile(target)
	require.NoError(t, err)
	out := output{result: res}
	if !target.IsDeclarationFile {
		out.code, err = generator.NewJSCodeGenerator().Generate(res.File)
		require.NoError(t, err)
	}
	return out
}

func TestEnumLowering(t *testing.T) {
	e := &jsast.EnumDecl{
		Mods:    jsast.ModExport,
		Name:    id("E"),
		Members: []*jsast.EnumMember{{Name: id("A")}, {Name: id("B")}},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/e.ts", e))

	assert.Contains(t, out.code, "/** @enum {number} */\nconst E = {\n  A: 0,\n  B: 1,\n};\n")
	assert.Contains(t, out.code, "E[E.A] = 'A';\nE[E.B] = 'B';\nexport {E};\n")
	assert.Empty(t, out.result.Diagnostics)
	assert.Equal(t, "src.e", out.result.ModuleName)
}

func TestConstAndStringEnums(t *testing.T) {
	c := &jsast.EnumDecl{
		Mods:    jsast.ModConst,
		Name:    id("C"),
		Members: []*jsast.EnumMember{{Name: id("X")}},
	}
	s := &jsast.EnumDecl{
		Name: id("S"),
		Members: []*jsast.EnumMember{
			{Name: id("On"), Init: jsast.NewString("on")},
			{Name: jsast.NewString("not-ident"), Init: jsast.NewString("off")},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/e.ts", c, s))

	assert.NotContains(t, out.code, "C[C.X]")
	assert.Contains(t, out.code, "/** @enum {string} */\nconst S = {\n  On: 'on',\n  'not-ident': 'off',\n};\n")
	assert.NotContains(t, out.code, "S[S.On]")
}

func TestEnumInsideFunction(t *testing.T) {
	e := &jsast.EnumDecl{Name: id("Local"), Members: []*jsast.EnumMember{{Name: id("A")}}}
	f := &jsast.FuncDecl{Name: id("f"), Body: &jsast.Block{Stmts: []jsast.Stmt{e}}}
	out := run(t, transpiler.DefaultOptions(), file("src/f.ts", f))

	assert.Contains(t, out.code, "const Local = {")
	assert.Contains(t, out.code, "Local[Local.A] = 'A';")
}

func TestNestedEnumsAreLowered(t *testing.T) {
	localEnum := func() *jsast.EnumDecl {
		return &jsast.EnumDecl{Name: id("Local"), Members: []*jsast.EnumMember{{Name: id("A")}}}
	}
	tests := []struct {
		name string
		stmt func() jsast.Stmt
	}{
		{
			name: "method body",
			stmt: func() jsast.Stmt {
				return &jsast.ClassDecl{Name: id("K"), Members: []jsast.ClassMember{
					&jsast.MethodDecl{Name: id("m"), Body: &jsast.Block{Stmts: []jsast.Stmt{localEnum()}}},
				}}
			},
		},
		{
			name: "constructor body",
			stmt: func() jsast.Stmt {
				return &jsast.ClassDecl{Name: id("K"), Members: []jsast.ClassMember{
					&jsast.Constructor{Body: &jsast.Block{Stmts: []jsast.Stmt{localEnum()}}},
				}}
			},
		},
		{
			name: "nested block",
			stmt: func() jsast.Stmt {
				return &jsast.FuncDecl{Name: id("f"), Body: &jsast.Block{Stmts: []jsast.Stmt{
					&jsast.Block{Stmts: []jsast.Stmt{localEnum()}},
				}}}
			},
		},
		{
			name: "if branch",
			stmt: func() jsast.Stmt {
				return &jsast.IfStmt{
					Cond: &jsast.BoolLit{Value: true},
					Then: &jsast.Block{},
					Else: &jsast.Block{Stmts: []jsast.Stmt{localEnum()}},
				}
			},
		},
		{
			name: "arrow body",
			stmt: func() jsast.Stmt {
				arrow := &jsast.Arrow{Body: &jsast.Block{Stmts: []jsast.Stmt{localEnum()}}}
				return &jsast.VarDecl{Kind: jsast.VarConst, Bindings: []*jsast.VarBinding{{Name: id("f"), Init: arrow}}}
			},
		},
		{
			name: "function expression argument",
			stmt: func() jsast.Stmt {
				fn := &jsast.FuncExpr{Body: &jsast.Block{Stmts: []jsast.Stmt{localEnum()}}}
				return &jsast.ExprStmt{X: &jsast.Call{Fn: id("setTimeout"), Args: []jsast.Expr{fn}}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, transpiler.DefaultOptions(), file("src/k.ts", tt.stmt()))

			assert.Contains(t, out.code, "const Local = {")
			assert.Contains(t, out.code, "Local[Local.A] = 'A';")
			assert.NotContains(t, out.code, "enum Local")
			assert.Empty(t, out.diagnostics(tscerr.CategoryEnum))
		})
	}
}

func TestEnumShapes(t *testing.T) {
	t.Run("mixed members", func(t *testing.T) {
		e := &jsast.EnumDecl{Name: id("M"), Members: []*jsast.EnumMember{
			{Name: id("A")},
			{Name: id("B"), Init: jsast.NewString("b")},
			{Name: id("C"), Init: jsast.NewNumber(5)},
		}}
		out := run(t, transpiler.DefaultOptions(), file("src/m.ts", e))

		assert.Contains(t, out.code, "/** @enum {?} */\nconst M = {\n  A: 0,\n  B: 'b',\n  C: 5,\n};\n")
		assert.Contains(t, out.code, "M[M.A] = 'A';\nM[M.C] = 'C';\n")
		assert.NotContains(t, out.code, "M[M.B]")
	})
	t.Run("const enum", func(t *testing.T) {
		e := &jsast.EnumDecl{Mods: jsast.ModConst, Name: id("C"), Members: []*jsast.EnumMember{
			{Name: id("X")},
			{Name: id("Y")},
		}}
		out := run(t, transpiler.DefaultOptions(), file("src/c.ts", e))

		assert.Contains(t, out.code, "/** @enum {number} */\nconst C = {\n  X: 0,\n  Y: 1,\n};\n")
		assert.NotContains(t, out.code, "C[C.")
	})
	t.Run("merged declarations", func(t *testing.T) {
		first := &jsast.EnumDecl{Name: id("E"), Members: []*jsast.EnumMember{{Name: id("A")}}}
		second := &jsast.EnumDecl{Name: id("E"), Members: []*jsast.EnumMember{{Name: id("B"), Init: jsast.NewNumber(1)}}}
		out := run(t, transpiler.DefaultOptions(), file("src/e.ts", first, second))

		assert.Contains(t, out.code, "const E = {\n  A: 0,\n};\nE[E.A] = 'A';\n")
		assert.Contains(t, out.code, "E.B = 1;\nE[E.B] = 'B';\n")
		assert.Equal(t, 1, strings.Count(out.code, "const E ="))
	})
}

func TestFileOverview(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		v := &jsast.VarDecl{Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{{Name: id("x"), Type: kw(jsast.KwNumber), Init: jsast.NewNumber(1)}}}
		out := run(t, transpiler.DefaultOptions(), file("src/x.ts", v))
		assert.Contains(t, out.code, "/**\n * @fileoverview added by tsclosure\n"+
			" * @suppress {checkTypes,const,extraRequire,missingOverride,missingRequire,missingReturn,unusedPrivateMembers,uselessCode}\n */\n")
		assert.Contains(t, out.code, "/** @type {number} */\nlet x = 1;\n")
	})
	t.Run("merged", func(t *testing.T) {
		overview := &jsast.CommentStmt{Text: "/**\n * @fileoverview Mine.\n * @suppress {visibility}\n */"}
		v := &jsast.VarDecl{Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{{Name: id("x"), Init: jsast.NewNumber(1)}}}
		out := run(t, transpiler.DefaultOptions(), file("src/x.ts", overview, v))
		assert.Contains(t, out.code, "@fileoverview Mine.")
		assert.Contains(t, out.code, "uselessCode,visibility}")
		assert.NotContains(t, out.code, "added by tsclosure")
	})
	t.Run("without suppressions", func(t *testing.T) {
		opts := transpiler.DefaultOptions()
		opts.GenerateExtraSuppressions = false
		out := run(t, opts, file("src/x.ts"))
		assert.Equal(t, "/**\n * @fileoverview added by tsclosure\n */\n", out.code)
	})
}

func TestFunctionAnnotation(t *testing.T) {
	f := &jsast.FuncDecl{
		Name:   id("greet"),
		Params: []*jsast.Param{{Name: id("name"), Type: kw(jsast.KwString)}},
		Return: kw(jsast.KwString),
		Body:   &jsast.Block{Stmts: []jsast.Stmt{&jsast.ReturnStmt{X: id("name")}}},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/g.ts", f))

	assert.Contains(t, out.code, " * @param {string} name\n * @return {string}\n */\nfunction greet(name) {")
}

func TestTypeAliasAndInterface(t *testing.T) {
	alias := &jsast.TypeAliasDecl{Mods: jsast.ModExport, Name: id("Id"), Type: kw(jsast.KwString)}
	iface := &jsast.InterfaceDecl{
		Mods: jsast.ModExport,
		Name: id("Point"),
		Members: []jsast.TypeMember{
			&jsast.PropertySignature{Name: id("x"), Type: kw(jsast.KwNumber)},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/t.ts", alias, iface))

	assert.Contains(t, out.code, "/** @typedef {string} */\nexport let Id;\n")
	assert.Contains(t, out.code, "/** @record */\nexport function Point() {}\n")
	assert.Contains(t, out.code, "if (false) {\n  /** @type {number} */\n  Point.prototype.x;\n}")
}

func TestTypeReferences(t *testing.T) {
	letOf := func(name string, typ jsast.TypeNode) *jsast.VarDecl {
		return &jsast.VarDecl{Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{{Name: id(name), Type: typ}}}
	}
	alias := &jsast.TypeAliasDecl{Name: id("Id"), Type: kw(jsast.KwString)}
	pair := &jsast.TypeAliasDecl{Name: id("Pair"), Type: &jsast.TypeLiteral{Members: []jsast.TypeMember{
		&jsast.PropertySignature{Name: id("a"), Type: kw(jsast.KwNumber)},
	}}}
	point := &jsast.InterfaceDecl{Name: id("Point"), Members: []jsast.TypeMember{
		&jsast.PropertySignature{Name: id("x"), Type: kw(jsast.KwNumber)},
	}}
	ident := &jsast.FuncDecl{
		Name:       id("ident"),
		TypeParams: []*jsast.TypeParam{{Name: id("T")}},
		Params:     []*jsast.Param{{Name: id("v"), Type: ref("T")}},
		Return:     ref("T"),
		Body:       &jsast.Block{Stmts: []jsast.Stmt{&jsast.ReturnStmt{X: id("v")}}},
	}
	record := &jsast.TypeRef{Name: id("Record"), TypeArgs: []jsast.TypeNode{kw(jsast.KwString), kw(jsast.KwNumber)}}

	out := run(t, transpiler.DefaultOptions(), file("src/refs.ts",
		alias, pair, point, ident,
		letOf("x", ref("Id")),
		letOf("q", ref("Pair")),
		letOf("p", ref("Point")),
		letOf("r", record),
	))

	assert.Contains(t, out.code, "/** @type {string} */\nlet x;\n")
	assert.Contains(t, out.code, "/** @type {Pair} */\nlet q;\n")
	assert.Contains(t, out.code, "/** @type {!Point} */\nlet p;\n")
	assert.Contains(t, out.code, "/** @type {!Object<string,number>} */\nlet r;\n")
	assert.Contains(t, out.code, " * @template T\n")
	assert.Contains(t, out.code, " * @param {T} v\n * @return {T}\n */\nfunction ident(v) {")
	assert.NotContains(t, out.code, "!Id")
	assert.NotContains(t, out.code, "!T")
	assert.Empty(t, out.diagnostics(tscerr.CategoryType))
}

func TestTypeOnlyImportBecomesRequireType(t *testing.T) {
	lib := file("src/lib.ts", &jsast.InterfaceDecl{Mods: jsast.ModExport, Name: id("Shape")})
	imp := &jsast.ImportDecl{Path: "./lib", Named: []*jsast.ImportSpec{{Imported: "Shape", Local: id("Shape")}}}
	v := &jsast.VarDecl{Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{{Name: id("s"), Type: ref("Shape")}}}
	app := file("src/app.ts", imp, v)
	out := run(t, transpiler.DefaultOptions(), lib, app)

	assert.NotContains(t, out.code, "import {Shape}")
	assert.Contains(t, out.code, "const tsclosure_lib_1 = goog.requireType('src.lib');")
	assert.Contains(t, out.code, "/** @type {!tsclosure_lib_1.Shape} */\nlet s;")
	assert.Contains(t, out.result.ReferencedModules, "src.lib")
}

func TestDecoratorDownleveling(t *testing.T) {
	annotation := &jsast.FuncDecl{
		Doc:    "/** @Annotation */",
		Name:   id("Input"),
		Params: []*jsast.Param{{Name: id("args"), Rest: true, Type: &jsast.ArrayTypeNode{Elem: kw(jsast.KwAny)}}},
		Body:   &jsast.Block{},
	}
	plain := &jsast.FuncDecl{Name: id("Plain"), Body: &jsast.Block{}}
	class := &jsast.ClassDecl{
		Name: id("Widget"),
		Decorators: []*jsast.Decorator{
			{X: &jsast.Call{Fn: id("Input"), Args: []jsast.Expr{jsast.NewString("w")}}},
			{X: &jsast.Call{Fn: id("Plain")}},
		},
		Members: []jsast.ClassMember{
			&jsast.PropertyDecl{
				Name:       id("label"),
				Type:       kw(jsast.KwString),
				Decorators: []*jsast.Decorator{{X: id("Input")}},
			},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/w.ts", annotation, plain, class))

	assert.Contains(t, out.code, "@Plain()\nclass Widget {")
	assert.NotContains(t, out.code, "@Input")
	assert.Contains(t, out.code, "static decorators = [{type: Input, args: ['w']}];")
	assert.Contains(t, out.code, "label: [{type: Input}],")
	assert.Contains(t, out.code, "if (false) {\n  /** @type {string} */\n  Widget.prototype.label;\n}")
	assert.Empty(t, out.diagnostics(tscerr.CategoryDecorator))
}

func TestConstructorParameterLowering(t *testing.T) {
	dec := func() []*jsast.Decorator { return []*jsast.Decorator{{X: id("Dec")}} }
	tests := []struct {
		name  string
		param *jsast.Param
		want  string
	}{
		{name: "class type with decorator", param: &jsast.Param{Name: id("x"), Type: ref("Foo"), Decorators: dec()}, want: "{type: Foo, decorators: [{type: Dec}]}"},
		{name: "no type and no decorator", param: &jsast.Param{Name: id("x")}, want: "() => [\n    null,\n  ]"},
		{name: "decorator without type", param: &jsast.Param{Name: id("x"), Decorators: dec()}, want: "{type: undefined, decorators: [{type: Dec}]}"},
		{name: "string", param: &jsast.Param{Name: id("x"), Type: kw(jsast.KwString)}, want: "{type: String}"},
		{name: "number", param: &jsast.Param{Name: id("x"), Type: kw(jsast.KwNumber)}, want: "{type: Number}"},
		{name: "interface", param: &jsast.Param{Name: id("x"), Type: ref("Shape")}, want: "{type: Object}"},
		{name: "nullable class", param: &jsast.Param{Name: id("x"), Type: &jsast.UnionTypeNode{Types: []jsast.TypeNode{ref("Foo"), kw(jsast.KwNull)}}}, want: "{type: Foo}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			annotation := &jsast.FuncDecl{Doc: "/** @Annotation */", Name: id("Dec"), Body: &jsast.Block{}}
			foo := &jsast.ClassDecl{Name: id("Foo")}
			shape := &jsast.InterfaceDecl{Name: id("Shape")}
			class := &jsast.ClassDecl{
				Name: id("C"),
				Decorators: []*jsast.Decorator{
					{X: &jsast.Call{Fn: id("Dec"), Args: []jsast.Expr{jsast.NewString("a"), jsast.NewNumber(2)}}},
				},
				Members: []jsast.ClassMember{
					&jsast.Constructor{Params: []*jsast.Param{tt.param}, Body: &jsast.Block{}},
				},
			}
			out := run(t, transpiler.DefaultOptions(), file("src/c.ts", annotation, foo, shape, class))

			assert.Contains(t, out.code, "static decorators = [{type: Dec, args: ['a', 2]}];")
			assert.Contains(t, out.code, "static ctorParameters = () => [")
			assert.Contains(t, out.code, tt.want)
			assert.NotContains(t, out.code, "@Dec")
			assert.Empty(t, out.diagnostics(tscerr.CategoryDecorator))
		})
	}
}

func TestCtorParametersOmittedWithoutLowering(t *testing.T) {
	class := &jsast.ClassDecl{
		Name: id("C"),
		Members: []jsast.ClassMember{
			&jsast.Constructor{Params: []*jsast.Param{{Name: id("x"), Type: kw(jsast.KwString)}}, Body: &jsast.Block{}},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/c.ts", class))

	assert.NotContains(t, out.code, "ctorParameters")
	assert.NotContains(t, out.code, "static decorators")
}

func TestDecoratorsKeptWhenDisabled(t *testing.T) {
	annotation := &jsast.FuncDecl{Doc: "/** @Annotation */", Name: id("Input"), Body: &jsast.Block{}}
	class := &jsast.ClassDecl{
		Name:       id("Widget"),
		Decorators: []*jsast.Decorator{{X: &jsast.Call{Fn: id("Input")}}},
	}
	opts := transpiler.DefaultOptions()
	opts.DownlevelDecorators = false
	out := run(t, opts, file("src/w.ts", annotation, class))

	assert.Contains(t, out.code, "@Input()\nclass Widget {")
	assert.NotContains(t, out.code, "static decorators")
}

func TestComputedMemberDecoratorIsReported(t *testing.T) {
	annotation := &jsast.FuncDecl{Doc: "/** @Annotation */", Name: id("Input"), Body: &jsast.Block{}}
	class := &jsast.ClassDecl{
		Name: id("Widget"),
		Members: []jsast.ClassMember{
			&jsast.PropertyDecl{
				Name:       &jsast.ComputedName{X: id("key")},
				Init:       jsast.NewNumber(1),
				Decorators: []*jsast.Decorator{{X: id("Input")}},
			},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/w.ts", annotation, class))

	diags := out.diagnostics(tscerr.CategoryDecorator)
	require.Len(t, diags, 1)
	assert.Equal(t, tscerr.SeverityError, diags[0].Severity)
}

func TestNamespaceFlattening(t *testing.T) {
	class := &jsast.ClassDecl{Mods: jsast.ModExport, Name: id("Outer")}
	ns := &jsast.NamespaceDecl{
		Mods: jsast.ModExport,
		Name: id("Outer"),
		Body: []jsast.Stmt{
			&jsast.ClassDecl{Mods: jsast.ModExport, Name: id("Inner")},
			&jsast.TypeAliasDecl{Mods: jsast.ModExport, Name: id("Id"), Type: kw(jsast.KwString)},
		},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/n.ts", class, ns))

	assert.Contains(t, out.code, "class Outer$Inner {\n}")
	assert.Contains(t, out.code, "/** @const */\nOuter.Inner = Outer$Inner;")
	assert.Contains(t, out.code, "/** @typedef {string} */\nlet Outer$Id;")
	assert.Contains(t, out.code, "/** @typedef {Outer$Id} */\nOuter.Id;")
	assert.Empty(t, out.diagnostics(tscerr.CategoryNamespace))
}

func TestUnmergedNamespaceIsRejected(t *testing.T) {
	ns := &jsast.NamespaceDecl{
		Name: id("Lonely"),
		Body: []jsast.Stmt{&jsast.FuncDecl{Name: id("f"), Body: &jsast.Block{}}},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/n.ts", ns))

	diags := out.diagnostics(tscerr.CategoryNamespace)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Msg, "Lonely")
	assert.NotContains(t, out.code, "function f")
}

func TestDefaultExportShim(t *testing.T) {
	opts := transpiler.DefaultOptions()
	opts.DefaultExportShim = true

	t.Run("named class", func(t *testing.T) {
		class := &jsast.ClassDecl{Mods: jsast.ModExport | jsast.ModDefault, Name: id("Main")}
		out := run(t, opts, file("src/main.ts", class))
		assert.Contains(t, out.code, "goog.tsMigrationDefaultExportsShim('src.main');\n")
		assert.Empty(t, out.diagnostics(tscerr.CategoryExportShim))
	})
	t.Run("expression", func(t *testing.T) {
		out := run(t, opts, file("src/main.ts", &jsast.ExportDefault{X: jsast.NewNumber(1)}))
		assert.Len(t, out.diagnostics(tscerr.CategoryExportShim), 1)
		assert.NotContains(t, out.code, "tsMigrationDefaultExportsShim")
	})
	t.Run("manual shim", func(t *testing.T) {
		manual := &jsast.ExprStmt{X: &jsast.Call{Fn: jsast.NewDottedName("goog.tsMigrationExportsShim"), Args: []jsast.Expr{jsast.NewString("x")}}}
		class := &jsast.ClassDecl{Mods: jsast.ModExport | jsast.ModDefault, Name: id("Main")}
		out := run(t, opts, file("src/main.ts", class, manual))
		assert.Len(t, out.diagnostics(tscerr.CategoryExportShim), 1)
	})
	t.Run("disabled", func(t *testing.T) {
		class := &jsast.ClassDecl{Mods: jsast.ModExport | jsast.ModDefault, Name: id("Main")}
		out := run(t, transpiler.DefaultOptions(), file("src/main.ts", class))
		assert.NotContains(t, out.code, "tsMigrationDefaultExportsShim")
	})
}

func TestAmbientDeclarationsBecomeExterns(t *testing.T) {
	declared := &jsast.VarDecl{
		Mods:     jsast.ModDeclare,
		Kind:     jsast.VarLet,
		Bindings: []*jsast.VarBinding{{Name: id("globalCount"), Type: kw(jsast.KwNumber)}},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/script.ts", declared))

	assert.NotContains(t, out.code, "globalCount")
	assert.Contains(t, out.result.Externs, "/** @type {number} */\nvar globalCount;\n")
}

func TestAmbientDeclarationInModuleWarns(t *testing.T) {
	declared := &jsast.VarDecl{
		Mods:     jsast.ModDeclare,
		Kind:     jsast.VarLet,
		Bindings: []*jsast.VarBinding{{Name: id("hidden"), Type: kw(jsast.KwNumber)}},
	}
	exported := &jsast.VarDecl{
		Mods:     jsast.ModExport,
		Kind:     jsast.VarConst,
		Bindings: []*jsast.VarBinding{{Name: id("x"), Init: jsast.NewNumber(1)}},
	}
	out := run(t, transpiler.DefaultOptions(), file("src/mod.ts", declared, exported))

	assert.Empty(t, out.result.Externs)
	diags := out.diagnostics(tscerr.CategoryExterns)
	require.Len(t, diags, 1)
	assert.Equal(t, tscerr.SeverityWarning, diags[0].Severity)
}

func TestInputFileIsNotModified(t *testing.T) {
	e := &jsast.EnumDecl{Name: id("E"), Members: []*jsast.EnumMember{{Name: id("A")}}}
	f := file("src/e.ts", e)
	run(t, transpiler.DefaultOptions(), f)

	require.Len(t, f.Stmts, 1)
	assert.Same(t, e, f.Stmts[0])
}
