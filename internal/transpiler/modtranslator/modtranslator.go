// Package modtranslator wraps the type translator for one source file. It
// owns the file's alias table, synthesizes type-only imports for symbols
// declared in other modules and builds the merged documentation of
// overloaded functions.
package modtranslator

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/typetranslator"
	"martianoff/tsclosure/tscerr"
)

// RequireTypePrefix starts the local name of every synthesized type-only
// import.
const RequireTypePrefix = "tsclosure_"

// Config holds the collaborators of a ModuleTypeTranslator.
type Config struct {
	FileName          string
	Checker           transpiler.Checker
	Host              transpiler.Host
	Diagnostics       *tscerr.Collector
	Untyped           bool
	UnknownTypesPaths []string
	// IsForExterns selects externs output: no imports are synthesized and
	// the this type is unknown.
	IsForExterns bool
	// Original maps a rewritten node back to the checked node it was
	// derived from. Nil means nodes are passed unchanged.
	Original func(jsast.Node) jsast.Node
}

// ModuleTypeTranslator translates types for a single file. It is not safe
// for concurrent use; each file gets its own instance.
type ModuleTypeTranslator struct {
	fileName     string
	checker      transpiler.Checker
	host         transpiler.Host
	diags        *tscerr.Collector
	untyped      bool
	isForExterns bool
	original     func(jsast.Node) jsast.Node

	aliases      *typetranslator.AliasTable
	unknownPaths *set.Set[string]

	requiredModules *set.Set[*transpiler.Symbol]
	requireCount    int
	imports         []jsast.Stmt
	referenced      []string
	referencedSet   *set.Set[string]
}

// New returns a translator for cfg.FileName.
func New(cfg Config) *ModuleTypeTranslator {
	original := cfg.Original
	if original == nil {
		original = func(n jsast.Node) jsast.Node { return n }
	}
	return &ModuleTypeTranslator{
		fileName:        cfg.FileName,
		checker:         cfg.Checker,
		host:            cfg.Host,
		diags:           cfg.Diagnostics,
		untyped:         cfg.Untyped,
		isForExterns:    cfg.IsForExterns,
		original:        original,
		aliases:         typetranslator.NewAliasTable(),
		unknownPaths:    set.From(cfg.UnknownTypesPaths),
		requiredModules: set.New[*transpiler.Symbol](4),
		referencedSet:   set.New[string](4),
	}
}

// FileName returns the file this translator works for.
func (m *ModuleTypeTranslator) FileName() string { return m.fileName }

// Aliases returns the file's alias table.
func (m *ModuleTypeTranslator) Aliases() *typetranslator.AliasTable { return m.aliases }

// Checker returns the type checker the translator queries.
func (m *ModuleTypeTranslator) Checker() transpiler.Checker { return m.checker }

// IsForExterns reports whether the translator produces externs types.
func (m *ModuleTypeTranslator) IsForExterns() bool { return m.isForExterns }

func (m *ModuleTypeTranslator) newTranslator(context jsast.Node) *typetranslator.Translator {
	pos := position(context)
	return &typetranslator.Translator{
		Checker:      m.checker,
		Aliases:      m.aliases,
		UnknownPaths: m.unknownPaths,
		Tracker:      m,
		FileName:     m.fileName,
		Untyped:      m.untyped,
		IsForExterns: m.isForExterns,
		Warn: func(msg string) {
			m.diags.Warn(tscerr.CategoryType, pos.Line, pos.Column, msg)
		},
	}
}

// TypeToClosure returns the Closure type of t. When t is nil the type of
// context is used. Internal failures come back as *tscerr.InternalError
// positioned at context.
func (m *ModuleTypeTranslator) TypeToClosure(context jsast.Node, t transpiler.Type) (string, error) {
	if m.untyped {
		return typetranslator.Unknown, nil
	}
	if t == nil && context != nil {
		t = m.checker.TypeAtLocation(m.original(context))
	}
	s, err := m.newTranslator(context).Translate(t)
	if err != nil {
		return "", m.internalError(context, err)
	}
	return s, nil
}

// TypedefToClosure returns the expansion of a type alias body. References
// to the alias itself keep its name.
func (m *ModuleTypeTranslator) TypedefToClosure(context jsast.Node, t transpiler.Type) (string, error) {
	if t == nil && context != nil {
		t = m.checker.TypeAtLocation(m.original(context))
	}
	s, err := m.newTranslator(context).TranslateTypedef(t)
	if err != nil {
		return "", m.internalError(context, err)
	}
	return s, nil
}

// SymbolToString returns the local name of sym, synthesizing an import
// when needed. It returns "" when sym cannot be named in this file.
func (m *ModuleTypeTranslator) SymbolToString(sym *transpiler.Symbol) string {
	return m.newTranslator(nil).SymbolToString(sym)
}

func (m *ModuleTypeTranslator) internalError(context jsast.Node, err error) error {
	if tscerr.IsInternal(err) {
		return err
	}
	pos := position(context)
	return tscerr.NewInternalErrorAt(m.fileName, pos.Line, pos.Column, err)
}

// RegisterImportAlias records that sym is reachable as name, as declared
// by an explicit import.
func (m *ModuleTypeTranslator) RegisterImportAlias(sym *transpiler.Symbol, name string) {
	if sym == nil {
		return
	}
	m.aliases.Set(transpiler.ResolveAlias(m.checker, sym), name)
}

// MarkTypeParametersUnknown makes every use of tps translate to the
// unknown type for the rest of the file.
func (m *ModuleTypeTranslator) MarkTypeParametersUnknown(tps []*jsast.TypeParam) {
	for _, tp := range tps {
		if sym := m.checker.SymbolAtLocation(m.original(tp.Name)); sym != nil {
			m.aliases.MarkUnknown(sym)
		}
	}
}

// RequireType records a type-only import of importPath and registers the
// exports of moduleSymbol under a fresh local prefix. A module symbol is
// required at most once per file.
func (m *ModuleTypeTranslator) RequireType(context jsast.Node, importPath string, moduleSymbol *transpiler.Symbol, isDefaultImport bool) string {
	if moduleSymbol == nil || !m.requiredModules.Insert(moduleSymbol) {
		return ""
	}
	moduleName := m.host.PathToModuleName(m.fileName, importPath)
	m.requireCount++
	prefix := RequireTypePrefix + sanitizeSegment(importPath) + "_" + strconv.Itoa(m.requireCount)

	m.imports = append(m.imports, &jsast.VarDecl{
		Base: jsast.At(context),
		Kind: jsast.VarConst,
		Bindings: []*jsast.VarBinding{{
			Name: jsast.NewIdent(prefix),
			Init: &jsast.Call{
				Fn:   jsast.NewDottedName("goog.requireType"),
				Args: []jsast.Expr{jsast.NewString(moduleName)},
			},
		}},
	})
	m.AddReferencedModule(moduleName)

	registered := false
	for _, exp := range m.checker.ExportsOfModule(moduleSymbol) {
		name := prefix + "." + exp.Name
		if isDefaultImport && exp.Name == "default" {
			name = prefix
			registered = true
		}
		target := transpiler.ResolveAlias(m.checker, exp)
		if _, ok := m.aliases.Get(target); !ok {
			m.aliases.Set(target, name)
		}
	}
	if isDefaultImport && !registered {
		m.aliases.Set(moduleSymbol, prefix)
	}
	return prefix
}

// EnsureSymbolDeclared makes sym nameable when it is exported by another
// module of the program, by requiring that module for its types.
func (m *ModuleTypeTranslator) EnsureSymbolDeclared(sym *transpiler.Symbol) {
	if m.isForExterns || sym == nil || sym.FileName == "" || sym.FileName == m.fileName {
		return
	}
	if _, ok := m.aliases.Get(sym); ok {
		return
	}
	moduleSymbol := m.checker.ModuleSymbol(sym.FileName)
	if moduleSymbol == nil {
		return
	}
	if !isExportedFrom(m.checker, moduleSymbol, sym) {
		return
	}
	var context jsast.Node
	if len(sym.Decls) > 0 {
		context = sym.Decls[0]
	}
	m.RequireType(context, sym.FileName, moduleSymbol, false)
}

func isExportedFrom(checker transpiler.Checker, moduleSymbol, sym *transpiler.Symbol) bool {
	for _, exp := range checker.ExportsOfModule(moduleSymbol) {
		if exp == sym || transpiler.ResolveAlias(checker, exp) == sym {
			return true
		}
	}
	return false
}

// AddReferencedModule records a module the file depends on.
func (m *ModuleTypeTranslator) AddReferencedModule(name string) {
	if name != "" && m.referencedSet.Insert(name) {
		m.referenced = append(m.referenced, name)
	}
}

// ReferencedModules returns the modules the file depends on in the order
// they were first referenced.
func (m *ModuleTypeTranslator) ReferencedModules() []string {
	return m.referenced
}

// AdditionalImports returns the synthesized type-only imports.
func (m *ModuleTypeTranslator) AdditionalImports() []jsast.Stmt {
	return m.imports
}

// InsertAdditionalImports splices the synthesized imports into stmts after
// the leading comment statements.
func (m *ModuleTypeTranslator) InsertAdditionalImports(stmts []jsast.Stmt) []jsast.Stmt {
	if len(m.imports) == 0 {
		return stmts
	}
	at := 0
	for at < len(stmts) {
		if _, ok := stmts[at].(*jsast.CommentStmt); !ok {
			break
		}
		at++
	}
	out := make([]jsast.Stmt, 0, len(stmts)+len(m.imports))
	out = append(out, stmts[:at]...)
	out = append(out, m.imports...)
	return append(out, stmts[at:]...)
}

// sanitizeSegment turns the last segment of an import path into an
// identifier fragment.
func sanitizeSegment(importPath string) string {
	seg := importPath
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	for _, ext := range []string{".d.ts", ".tsx", ".ts", ".js"} {
		if s, ok := strings.CutSuffix(seg, ext); ok {
			seg = s
			break
		}
	}
	var sb strings.Builder
	for i, r := range seg {
		valid := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if valid {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "module"
	}
	return sb.String()
}

func position(n jsast.Node) jsast.Pos {
	if n == nil {
		return jsast.Pos{}
	}
	return n.Position()
}
