package transpiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/analyzer"
	"martianoff/tsclosure/internal/transpiler/generator"
	"martianoff/tsclosure/internal/transpiler/module"
	"martianoff/tsclosure/internal/transpiler/transformer"
)

func id(name string) *jsast.Ident { return jsast.NewIdent(name) }

func kw(name string) *jsast.KeywordType { return &jsast.KeywordType{Name: name} }

func transpile(t *testing.T, opts transpiler.Options, files ...*jsast.SourceFile) *transpiler.Result {
	t.Helper()
	host := module.NewResolver("")
	program := analyzer.Check(files, host)
	tr := transpiler.NewClosureTranspiler(
		transformer.NewClosureTransformer(program, host, opts),
		generator.NewJSCodeGenerator(),
		opts)
	res, err := tr.Transpile(context.Background(), files)
	require.NoError(t, err)
	return res
}

func TestTranspileProgram(t *testing.T) {
	lib := &jsast.SourceFile{FileName: "src/lib.ts", Stmts: []jsast.Stmt{
		&jsast.InterfaceDecl{Mods: jsast.ModExport, Name: id("Shape")},
	}}
	app := &jsast.SourceFile{FileName: "src/app.ts", Stmts: []jsast.Stmt{
		&jsast.ImportDecl{Path: "./lib", Named: []*jsast.ImportSpec{{Imported: "Shape", Local: id("Shape")}}},
		&jsast.VarDecl{Mods: jsast.ModExport, Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{
			{Name: id("s"), Type: &jsast.TypeRef{Name: jsast.NewDottedName("Shape")}},
		}},
	}}
	globals := &jsast.SourceFile{FileName: "src/globals.d.ts", IsDeclarationFile: true, Stmts: []jsast.Stmt{
		&jsast.VarDecl{Mods: jsast.ModDeclare, Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{
			{Name: id("debugMode"), Type: kw(jsast.KwBoolean)},
		}},
	}}

	opts := transpiler.DefaultOptions()
	opts.Workers = 2
	res := transpile(t, opts, lib, app, globals)

	require.NoError(t, res.Err())
	assert.Len(t, res.Outputs, 2)
	assert.NotContains(t, res.Outputs, "src/globals.d.ts")
	assert.Contains(t, res.Outputs["src/app.ts"], "goog.requireType('src.lib')")

	assert.Equal(t, "src.app", res.Manifest.ModuleFromFileName("src/app.ts"))
	assert.Equal(t, []string{"src.lib"}, res.Manifest.ReferencedModules("src/app.ts"))

	order, err := res.Manifest.Graph().TopologicalSort()
	require.NoError(t, err)
	var modules []string
	for _, n := range order {
		modules = append(modules, n.Module)
	}
	assert.Less(t, indexOf(modules, "src.lib"), indexOf(modules, "src.app"))

	assert.Contains(t, res.Externs, transpiler.ExternsHeader)
	assert.Contains(t, res.Externs, "// Derived from: src/globals.d.ts\n")
	assert.Contains(t, res.Externs, "var debugMode;")
}

func TestTranspileCancelled(t *testing.T) {
	f := &jsast.SourceFile{FileName: "src/a.ts"}
	host := module.NewResolver("")
	program := analyzer.Check([]*jsast.SourceFile{f}, host)
	opts := transpiler.DefaultOptions()
	tr := transpiler.NewClosureTranspiler(
		transformer.NewClosureTransformer(program, host, opts),
		generator.NewJSCodeGenerator(),
		opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.Transpile(ctx, []*jsast.SourceFile{f})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCombineExterns(t *testing.T) {
	assert.Empty(t, transpiler.CombineExterns(nil))

	out := transpiler.CombineExterns(map[string]string{
		"b.d.ts": "var b;",
		"a.d.ts": "var a;\n",
	})
	assert.Equal(t, transpiler.ExternsHeader+
		"// Derived from: a.d.ts\nvar a;\n"+
		"// Derived from: b.d.ts\nvar b;\n", out)
}

func indexOf(xs []string, x string) int {
	for i, s := range xs {
		if s == x {
			return i
		}
	}
	return -1
}
