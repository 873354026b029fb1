// Package generator prints transformed files as JavaScript.
package generator

import (
	"strings"

	"github.com/cockroachdb/errors"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

const indentUnit = "  "

type jsCodeGenerator struct{}

// NewJSCodeGenerator creates a new instance of CodeGenerator that prints
// JavaScript with two space indentation and single quoted strings.
func NewJSCodeGenerator() transpiler.CodeGenerator {
	return &jsCodeGenerator{}
}

// Generate implements the CodeGenerator interface.
func (g *jsCodeGenerator) Generate(file *jsast.SourceFile) (string, error) {
	p := &printer{}
	for _, s := range file.Stmts {
		p.stmt(s)
	}
	if p.err != nil {
		return "", errors.Wrapf(p.err, "print %s", file.FileName)
	}
	return p.sb.String(), nil
}

var _ transpiler.CodeGenerator = (*jsCodeGenerator)(nil)

type printer struct {
	sb     strings.Builder
	indent int
	err    error
}

func (p *printer) fail(n jsast.Node, format string, args ...any) {
	if p.err == nil {
		pos := n.Position()
		p.err = errors.Wrapf(errors.AssertionFailedf(format, args...), "at %d:%d", pos.Line, pos.Column)
	}
}

func (p *printer) line(s string) {
	for i := 0; i < p.indent; i++ {
		p.sb.WriteString(indentUnit)
	}
	p.sb.WriteString(s)
	p.sb.WriteByte('\n')
}

// lines writes a possibly multi-line string, indenting every line.
func (p *printer) lines(s string) {
	for _, l := range strings.Split(s, "\n") {
		p.line(l)
	}
}

func (p *printer) doc(doc string) {
	if doc != "" {
		p.lines(doc)
	}
}

func exportPrefix(mods jsast.Modifiers) string {
	switch {
	case mods.Has(jsast.ModExport) && mods.Has(jsast.ModDefault):
		return "export default "
	case mods.Has(jsast.ModExport):
		return "export "
	}
	return ""
}

func (p *printer) stmt(s jsast.Stmt) {
	switch s := s.(type) {
	case *jsast.CommentStmt:
		p.lines(s.Text)
	case *jsast.ImportDecl:
		p.line(p.importDecl(s))
	case *jsast.ExportDecl:
		p.line(exportDecl(s))
	case *jsast.ExportDefault:
		p.line("export default " + p.expr(s.X, precAssign) + ";")
	case *jsast.VarDecl:
		p.doc(s.Doc)
		var parts []string
		for _, b := range s.Bindings {
			if b.Name == nil {
				p.fail(b, "variable binding without a name")
				return
			}
			part := b.Name.Name
			if b.Init != nil {
				part += " = " + p.expr(b.Init, precAssign)
			}
			parts = append(parts, part)
		}
		p.line(exportPrefix(s.Mods) + s.Kind.String() + " " + strings.Join(parts, ", ") + ";")
	case *jsast.FuncDecl:
		if s.Body == nil {
			p.fail(s, "function %s has no body", identName(s.Name))
			return
		}
		p.doc(s.Doc)
		head := exportPrefix(s.Mods)
		if s.Mods.Has(jsast.ModAsync) {
			head += "async "
		}
		head += "function"
		if s.Name != nil {
			head += " " + s.Name.Name
		}
		p.line(head + "(" + p.params(s.Params) + ") " + p.block(s.Body))
	case *jsast.ClassDecl:
		p.class(s)
	case *jsast.ExprStmt:
		p.doc(s.Doc)
		x := p.expr(s.X, precLowest)
		if startsAmbiguous(s.X) {
			x = "(" + x + ")"
		}
		p.line(x + ";")
	case *jsast.ReturnStmt:
		if s.X == nil {
			p.line("return;")
			return
		}
		p.line("return " + p.expr(s.X, precLowest) + ";")
	case *jsast.Block:
		p.line(p.block(s))
	case *jsast.IfStmt:
		p.line(p.ifStmt(s))
	default:
		p.fail(s, "%T cannot be printed as JavaScript", s)
	}
}

func identName(id *jsast.Ident) string {
	if id == nil {
		return "<anonymous>"
	}
	return id.Name
}

func (p *printer) importDecl(s *jsast.ImportDecl) string {
	var parts []string
	if s.Default != nil {
		parts = append(parts, s.Default.Name)
	}
	if s.Namespace != nil {
		parts = append(parts, "* as "+s.Namespace.Name)
	}
	if len(s.Named) > 0 {
		var named []string
		for _, spec := range s.Named {
			if spec.Local == nil || spec.Local.Name == spec.Imported {
				named = append(named, spec.Imported)
				continue
			}
			named = append(named, spec.Imported+" as "+spec.Local.Name)
		}
		parts = append(parts, "{"+strings.Join(named, ", ")+"}")
	}
	if len(parts) == 0 {
		return "import " + quote(s.Path) + ";"
	}
	return "import " + strings.Join(parts, ", ") + " from " + quote(s.Path) + ";"
}

func exportDecl(s *jsast.ExportDecl) string {
	if s.Star {
		return "export * from " + quote(s.From) + ";"
	}
	var specs []string
	for _, spec := range s.Specs {
		if spec.Local == spec.Exported || spec.Exported == "" {
			specs = append(specs, spec.Local)
			continue
		}
		specs = append(specs, spec.Local+" as "+spec.Exported)
	}
	out := "export {" + strings.Join(specs, ", ") + "}"
	if s.From != "" {
		out += " from " + quote(s.From)
	}
	return out + ";"
}

func (p *printer) class(c *jsast.ClassDecl) {
	p.doc(c.Doc)
	for _, d := range c.Decorators {
		p.line("@" + p.expr(d.X, precCall))
	}
	head := exportPrefix(c.Mods) + "class"
	if c.Name != nil {
		head += " " + c.Name.Name
	}
	if c.Extends != nil {
		head += " extends " + p.expr(c.Extends.X, precCall)
	}
	p.line(head + " {")
	p.indent++
	for _, m := range c.Members {
		p.member(m)
	}
	p.indent--
	p.line("}")
}

func (p *printer) member(m jsast.ClassMember) {
	switch m := m.(type) {
	case *jsast.PropertyDecl:
		p.doc(m.Doc)
		p.decorators(m.Decorators)
		out := staticPrefix(m.Mods) + p.propertyName(m.Name)
		if m.Init != nil {
			out += " = " + p.expr(m.Init, precAssign)
		}
		p.line(out + ";")
	case *jsast.MethodDecl:
		if m.Body == nil {
			p.fail(m, "method %s has no body", p.propertyName(m.Name))
			return
		}
		p.doc(m.Doc)
		p.decorators(m.Decorators)
		head := staticPrefix(m.Mods)
		if m.Mods.Has(jsast.ModAsync) {
			head += "async "
		}
		switch m.Kind {
		case jsast.MethodGetter:
			head += "get "
		case jsast.MethodSetter:
			head += "set "
		}
		p.line(head + p.propertyName(m.Name) + "(" + p.params(m.Params) + ") " + p.block(m.Body))
	case *jsast.Constructor:
		if m.Body == nil {
			p.fail(m, "constructor has no body")
			return
		}
		p.doc(m.Doc)
		p.line("constructor(" + p.params(m.Params) + ") " + p.block(m.Body))
	}
}

func (p *printer) decorators(ds []*jsast.Decorator) {
	for _, d := range ds {
		p.line("@" + p.expr(d.X, precCall))
	}
}

func staticPrefix(mods jsast.Modifiers) string {
	if mods.Has(jsast.ModStatic) {
		return "static "
	}
	return ""
}

func (p *printer) params(params []*jsast.Param) string {
	parts := make([]string, 0, len(params))
	for _, prm := range params {
		if prm.IsThis() {
			continue
		}
		var sb strings.Builder
		for _, d := range prm.Decorators {
			sb.WriteString("@" + p.expr(d.X, precCall) + " ")
		}
		if prm.Rest {
			sb.WriteString("...")
		}
		switch {
		case prm.Name != nil:
			sb.WriteString(prm.Name.Name)
		case prm.Pattern != nil:
			sb.WriteString(p.expr(prm.Pattern, precAssign))
		}
		if prm.Init != nil {
			sb.WriteString(" = " + p.expr(prm.Init, precAssign))
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ", ")
}

// block renders a braced block whose closing brace lines up with the
// current indentation. Empty blocks print as "{}".
func (p *printer) block(b *jsast.Block) string {
	if b == nil || len(b.Stmts) == 0 {
		return "{}"
	}
	inner := &printer{indent: p.indent + 1}
	for _, s := range b.Stmts {
		inner.stmt(s)
	}
	if inner.err != nil && p.err == nil {
		p.err = inner.err
	}
	return "{\n" + inner.sb.String() + p.pad() + "}"
}

func (p *printer) pad() string {
	return strings.Repeat(indentUnit, p.indent)
}

func (p *printer) ifStmt(s *jsast.IfStmt) string {
	out := "if (" + p.expr(s.Cond, precLowest) + ") " + p.block(s.Then)
	switch e := s.Else.(type) {
	case nil:
	case *jsast.Block:
		out += " else " + p.block(e)
	case *jsast.IfStmt:
		out += " else " + p.ifStmt(e)
	default:
		p.fail(s, "unexpected else branch %T", e)
	}
	return out
}

func (p *printer) propertyName(n jsast.PropertyName) string {
	switch n := n.(type) {
	case *jsast.Ident:
		return n.Name
	case *jsast.StringLit:
		if jsast.IsValidPropertyName(n.Value) {
			return n.Value
		}
		return quote(n.Value)
	case *jsast.NumberLit:
		return jsast.FormatNumber(n.Value)
	case *jsast.ComputedName:
		return "[" + p.expr(n.X, precAssign) + "]"
	}
	return ""
}

// startsAmbiguous reports whether e would be read as a block or a
// function declaration at the start of a statement.
func startsAmbiguous(e jsast.Expr) bool {
	for {
		switch x := e.(type) {
		case *jsast.ObjectLit, *jsast.FuncExpr:
			return true
		case *jsast.Binary:
			e = x.X
		case *jsast.Call:
			e = x.Fn
		case *jsast.PropertyAccess:
			e = x.X
		case *jsast.ElementAccess:
			e = x.X
		default:
			return false
		}
	}
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
