package jsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"martianoff/tsclosure/internal/jsast"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"foo", true},
		{"_private", true},
		{"$el", true},
		{"a1", true},
		{"1a", false},
		{"foo-bar", false},
		{"", false},
		{"class", false},
		{"with space", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, jsast.IsValidIdentifier(tt.name))
		})
	}
	assert.True(t, jsast.IsValidPropertyName("default"))
	assert.False(t, jsast.IsValidPropertyName("foo-bar"))
}

func TestEntityName(t *testing.T) {
	name, ok := jsast.EntityName(jsast.NewDottedName("a.b.c"))
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", name)

	_, ok = jsast.EntityName(&jsast.Call{Fn: jsast.NewIdent("f")})
	assert.False(t, ok)

	assert.Equal(t, "c", jsast.RightmostName(jsast.NewDottedName("a.b.c")))
}

func TestCloneEntityName(t *testing.T) {
	orig := jsast.NewDottedName("ns.Foo")
	clone := jsast.CloneEntityName(orig)
	assert.Equal(t, orig, clone)
	clone.(*jsast.PropertyAccess).Name = "Bar"
	assert.Equal(t, "Foo", orig.(*jsast.PropertyAccess).Name)
}

func TestInspectVisitsIdentifiers(t *testing.T) {
	fn := &jsast.FuncDecl{
		Name: jsast.NewIdent("f"),
		Params: []*jsast.Param{
			{Name: jsast.NewIdent("x"), Type: &jsast.TypeRef{Name: jsast.NewIdent("Foo")}},
		},
		Body: &jsast.Block{Stmts: []jsast.Stmt{
			&jsast.ReturnStmt{X: &jsast.Binary{Op: "+", X: jsast.NewIdent("x"), Y: jsast.NewIdent("y")}},
		}},
	}

	var all, runtime []string
	jsast.Inspect(fn, func(n jsast.Node) bool {
		if id, ok := n.(*jsast.Ident); ok {
			all = append(all, id.Name)
		}
		return true
	})
	jsast.Inspect(fn, func(n jsast.Node) bool {
		if _, ok := n.(jsast.TypeNode); ok {
			return false
		}
		if id, ok := n.(*jsast.Ident); ok {
			runtime = append(runtime, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"f", "x", "Foo", "x", "y"}, all)
	assert.Equal(t, []string{"f", "x", "x", "y"}, runtime)
}

func TestIsModule(t *testing.T) {
	script := &jsast.SourceFile{Stmts: []jsast.Stmt{&jsast.VarDecl{Bindings: []*jsast.VarBinding{{Name: jsast.NewIdent("a")}}}}}
	assert.False(t, script.IsModule())

	mod := &jsast.SourceFile{Stmts: []jsast.Stmt{&jsast.ClassDecl{Mods: jsast.ModExport, Name: jsast.NewIdent("C")}}}
	assert.True(t, mod.IsModule())

	imp := &jsast.SourceFile{Stmts: []jsast.Stmt{&jsast.ImportDecl{Path: "./a"}}}
	assert.True(t, imp.IsModule())
}
