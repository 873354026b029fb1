package transformer

import (
	"github.com/hashicorp/go-set/v3"
	"go.uber.org/zap"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/internal/transpiler/modtranslator"
	"martianoff/tsclosure/tscerr"
)

// fileContext is the state of one file moving through the stages. Nodes
// are never modified in place; a stage that changes a node copies it and
// records the copy with derive so checker queries still find the node the
// checker saw.
type fileContext struct {
	file       *jsast.SourceFile
	moduleName string
	isModule   bool
	checker    transpiler.Checker
	host       transpiler.Host
	opts       transpiler.Options
	diags      *tscerr.Collector
	log        *zap.SugaredLogger

	mtt     *modtranslator.ModuleTypeTranslator
	externs *modtranslator.ModuleTypeTranslator

	original map[jsast.Node]jsast.Node
	// synthesized holds generated nodes that later stages pass through.
	synthesized *set.Set[jsast.Node]
	// ambient collects the statements that become externs.
	ambient []jsast.Stmt
}

func newFileContext(file *jsast.SourceFile, checker transpiler.Checker, host transpiler.Host, opts transpiler.Options, log *zap.SugaredLogger) *fileContext {
	fc := &fileContext{
		file:       file,
		moduleName: host.PathToModuleName(file.FileName, file.FileName),
		isModule:   file.IsModule(),
		checker:    checker,
		host:       host,
		opts:       opts,
		diags:      tscerr.NewCollector(file.FileName, opts.Strict, opts.Quiet),
		log:        log,
		original:   make(map[jsast.Node]jsast.Node),

		synthesized: set.New[jsast.Node](4),
	}
	fc.mtt = modtranslator.New(modtranslator.Config{
		FileName:          file.FileName,
		Checker:           checker,
		Host:              host,
		Diagnostics:       fc.diags,
		Untyped:           opts.Untyped,
		UnknownTypesPaths: opts.UnknownTypesPaths,
		Original:          fc.orig,
	})
	fc.externs = modtranslator.New(modtranslator.Config{
		FileName:          file.FileName,
		Checker:           checker,
		Host:              host,
		Diagnostics:       fc.diags,
		UnknownTypesPaths: opts.UnknownTypesPaths,
		IsForExterns:      true,
		Original:          fc.orig,
	})
	return fc
}

// orig returns the checked node n was derived from.
func (fc *fileContext) orig(n jsast.Node) jsast.Node {
	if o, ok := fc.original[n]; ok {
		return o
	}
	return n
}

// derive records that copy replaces from.
func (fc *fileContext) derive(copy, from jsast.Node) {
	if copy != from {
		fc.original[copy] = fc.orig(from)
	}
}

func (fc *fileContext) symbolOf(n jsast.Node) *transpiler.Symbol {
	if n == nil {
		return nil
	}
	return fc.checker.SymbolAtLocation(fc.orig(n))
}

func (fc *fileContext) resolvedSymbolOf(n jsast.Node) *transpiler.Symbol {
	return transpiler.ResolveAlias(fc.checker, fc.symbolOf(n))
}

func (fc *fileContext) errorAt(cat tscerr.Category, n jsast.Node, format string, args ...any) {
	pos := n.Position()
	fc.diags.Errorf(cat, pos.Line, pos.Column, format, args...)
}

func (fc *fileContext) warnAt(cat tscerr.Category, n jsast.Node, format string, args ...any) {
	pos := n.Position()
	fc.diags.Warnf(cat, pos.Line, pos.Column, format, args...)
}

// userTags parses a declaration's doc comment, reporting parse warnings
// at n.
func (fc *fileContext) userTags(n jsast.Node, doc string) []*jsdoc.Tag {
	c, warnings := jsdoc.Parse(doc)
	for _, w := range warnings {
		fc.warnAt(tscerr.CategoryJSDoc, n, "%s", w)
	}
	if c == nil {
		return nil
	}
	return c.Tags
}

// withDoc returns the doc comment made of the user's tags followed by the
// generated ones.
func (fc *fileContext) withDoc(n jsast.Node, doc string, generated ...*jsdoc.Tag) string {
	tags := append(fc.userTags(n, doc), generated...)
	return jsdoc.ToString(tags, true)
}
