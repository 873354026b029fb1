package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/jsast"
)

func TestJSCodeGenerator_Generate(t *testing.T) {
	g := NewJSCodeGenerator()
	id := jsast.NewIdent

	tests := []struct {
		name     string
		stmts    []jsast.Stmt
		expected string
		wantErr  bool
	}{
		{
			name: "Documented variable",
			stmts: []jsast.Stmt{
				&jsast.VarDecl{Doc: "/** @type {number} */", Kind: jsast.VarLet, Bindings: []*jsast.VarBinding{{Name: id("x"), Init: jsast.NewNumber(1)}}},
			},
			expected: "/** @type {number} */\nlet x = 1;\n",
		},
		{
			name: "Function with if",
			stmts: []jsast.Stmt{
				&jsast.FuncDecl{
					Mods:   jsast.ModExport,
					Name:   id("f"),
					Params: []*jsast.Param{{Name: id("a")}, {Name: id("rest"), Rest: true}},
					Body: &jsast.Block{Stmts: []jsast.Stmt{
						&jsast.IfStmt{
							Cond: &jsast.Binary{Op: "===", X: id("a"), Y: &jsast.NullLit{}},
							Then: &jsast.Block{Stmts: []jsast.Stmt{&jsast.ReturnStmt{}}},
						},
						&jsast.ReturnStmt{X: jsast.NewString("it's")},
					}},
				},
			},
			expected: "export function f(a, ...rest) {\n  if (a === null) {\n    return;\n  }\n  return 'it\\'s';\n}\n",
		},
		{
			name: "Class with decorator and members",
			stmts: []jsast.Stmt{
				&jsast.ClassDecl{
					Decorators: []*jsast.Decorator{{X: &jsast.Call{Fn: id("Keep")}}},
					Name:       id("C"),
					Extends:    &jsast.Heritage{X: id("B")},
					Members: []jsast.ClassMember{
						&jsast.Constructor{Body: &jsast.Block{Stmts: []jsast.Stmt{
							&jsast.ExprStmt{X: &jsast.Call{Fn: &jsast.Super{}}},
						}}},
						&jsast.MethodDecl{Mods: jsast.ModStatic, Kind: jsast.MethodGetter, Name: id("size"), Body: &jsast.Block{}},
					},
				},
			},
			expected: "@Keep()\nclass C extends B {\n  constructor() {\n    super();\n  }\n  static get size() {}\n}\n",
		},
		{
			name: "Precedence and literals",
			stmts: []jsast.Stmt{
				&jsast.ExprStmt{X: &jsast.Binary{
					Op: "=",
					X:  jsast.NewAccess(id("E"), "A"),
					Y: &jsast.Binary{Op: "*",
						X: &jsast.Binary{Op: "+", X: jsast.NewNumber(1), Y: jsast.NewNumber(2)},
						Y: &jsast.Unary{Op: "-", X: &jsast.Unary{Op: "-", X: id("b")}},
					},
				}},
				&jsast.ExprStmt{X: &jsast.Binary{
					Op: "=",
					X:  &jsast.ElementAccess{X: id("E"), Index: jsast.NewAccess(id("E"), "A")},
					Y:  jsast.NewString("A"),
				}},
			},
			expected: "E.A = (1 + 2) * - -b;\nE[E.A] = 'A';\n",
		},
		{
			name: "Objects arrays and arrows",
			stmts: []jsast.Stmt{
				&jsast.ExprStmt{X: &jsast.Arrow{Expr: &jsast.ArrayLit{Elems: []jsast.Expr{
					&jsast.ObjectLit{Props: []*jsast.ObjectProp{
						{Key: id("type"), Value: id("Foo")},
						{Key: jsast.NewString("my-key"), Value: &jsast.ArrayLit{}},
					}},
					&jsast.NullLit{},
				}}}},
				&jsast.ExprStmt{X: &jsast.Call{Fn: &jsast.FuncExpr{Body: &jsast.Block{}}}},
			},
			expected: "() => [{type: Foo, 'my-key': []}, null];\n(function() {}());\n",
		},
		{
			name: "Multiline object",
			stmts: []jsast.Stmt{
				&jsast.VarDecl{Kind: jsast.VarConst, Bindings: []*jsast.VarBinding{{Name: id("E"), Init: &jsast.ObjectLit{
					Multiline: true,
					Props: []*jsast.ObjectProp{
						{Key: id("A"), Value: jsast.NewNumber(0)},
						{Key: id("B"), Value: jsast.NewNumber(1)},
					},
				}}}},
				&jsast.ExportDecl{Specs: []*jsast.ExportSpec{{Local: "E", Exported: "E"}}},
			},
			expected: "const E = {\n  A: 0,\n  B: 1,\n};\nexport {E};\n",
		},
		{
			name: "Imports and exports",
			stmts: []jsast.Stmt{
				&jsast.CommentStmt{Text: "/** @fileoverview x */"},
				&jsast.ImportDecl{Path: "./a", Default: id("A"), Named: []*jsast.ImportSpec{{Imported: "b", Local: id("c")}, {Imported: "d", Local: id("d")}}},
				&jsast.ImportDecl{Path: "./side"},
				&jsast.ExportDecl{Star: true, From: "./z"},
				&jsast.ExportDefault{X: id("A")},
			},
			expected: "/** @fileoverview x */\nimport A, {b as c, d} from './a';\nimport './side';\nexport * from './z';\nexport default A;\n",
		},
		{
			name:    "Type only declarations are rejected",
			stmts:   []jsast.Stmt{&jsast.InterfaceDecl{Name: id("I")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Generate(&jsast.SourceFile{FileName: "test.ts", Stmts: tt.stmts})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
