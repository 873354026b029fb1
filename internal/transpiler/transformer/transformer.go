// Package transformer rewrites checked files into emit-ready JavaScript
// trees. Each file runs through a fixed sequence of stages that share one
// fileContext.
package transformer

import (
	"time"

	"go.uber.org/zap"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/logger"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/externs"
)

// stage rewrites the statement list of a file.
type stage struct {
	name    string
	enabled func(opts transpiler.Options) bool
	run     func(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error)
}

func always(transpiler.Options) bool { return true }

var stages = []stage{
	{name: "decorators", enabled: func(o transpiler.Options) bool { return o.DownlevelDecorators }, run: downlevelDecorators},
	{name: "fileoverview", enabled: always, run: addFileOverview},
	{name: "namespaces", enabled: always, run: flattenNamespaces},
	{name: "annotate", enabled: always, run: annotate},
	{name: "enums", enabled: always, run: rewriteEnums},
	{name: "exportshim", enabled: func(o transpiler.Options) bool { return o.DefaultExportShim }, run: addDefaultExportShim},
	{name: "imports", enabled: always, run: spliceImports},
}

type closureTransformer struct {
	checker transpiler.Checker
	host    transpiler.Host
	opts    transpiler.Options
	log     *zap.SugaredLogger
}

// NewClosureTransformer creates a FileTransformer that queries checker for
// types and host for module names.
func NewClosureTransformer(checker transpiler.Checker, host transpiler.Host, opts transpiler.Options) transpiler.FileTransformer {
	return &closureTransformer{
		checker: checker,
		host:    host,
		opts:    opts,
		log:     logger.Named("transformer"),
	}
}

// TransformFile implements transpiler.FileTransformer. The input file is
// left untouched.
func (t *closureTransformer) TransformFile(file *jsast.SourceFile) (*transpiler.FileResult, error) {
	fc := newFileContext(file, t.checker, t.host, t.opts, t.log)
	stmts := file.Stmts
	for _, s := range stages {
		if !s.enabled(t.opts) {
			continue
		}
		start := time.Now()
		var err error
		stmts, err = s.run(fc, stmts)
		if err != nil {
			return nil, err
		}
		t.log.Debugw("stage finished",
			logger.FieldFile, file.FileName,
			logger.FieldStage, s.name,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}

	out := *file
	out.Stmts = stmts
	res := &transpiler.FileResult{
		File:              &out,
		ReferencedModules: fc.mtt.ReferencedModules(),
	}
	if !file.IsDeclarationFile {
		res.ModuleName = fc.moduleName
	}
	if len(fc.ambient) > 0 {
		text, err := externs.Generate(fc.externs, fc.diags, fc.ambient)
		if err != nil {
			return nil, err
		}
		res.Externs = text
	}
	res.Diagnostics = fc.diags.Diagnostics()
	return res, nil
}

func spliceImports(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	return fc.mtt.InsertAdditionalImports(stmts), nil
}

var _ transpiler.FileTransformer = (*closureTransformer)(nil)
