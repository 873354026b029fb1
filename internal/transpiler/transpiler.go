package transpiler

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/logger"
	"martianoff/tsclosure/internal/transpiler/manifest"
	"martianoff/tsclosure/tscerr"
)

// FileResult is the outcome of transforming one source file.
type FileResult struct {
	File              *jsast.SourceFile
	ModuleName        string
	ReferencedModules []string
	// Externs holds the externs text derived from the file's ambient
	// declarations, without the shared header.
	Externs     string
	Diagnostics []*tscerr.Diagnostic
}

// FileTransformer rewrites one checked source file into emit-ready form.
type FileTransformer interface {
	TransformFile(file *jsast.SourceFile) (*FileResult, error)
}

// CodeGenerator prints a transformed file as JavaScript.
type CodeGenerator interface {
	Generate(file *jsast.SourceFile) (string, error)
}

// Transpiler defines the high-level interface for the conversion.
type Transpiler interface {
	Transpile(ctx context.Context, files []*jsast.SourceFile) (*Result, error)
}

// Result is the output of a run over a set of files.
type Result struct {
	// Outputs maps input file names to emitted JavaScript. Declaration
	// files have no entry.
	Outputs     map[string]string
	Externs     string
	Manifest    *manifest.ModulesManifest
	Diagnostics []*tscerr.Diagnostic
}

// HasErrors reports whether any error severity diagnostic was produced.
func (r *Result) HasErrors() bool {
	return r.Err() != nil
}

// Err returns the error severity diagnostics as a MultiError, or nil.
func (r *Result) Err() error {
	return tscerr.ErrFromDiagnostics(r.Diagnostics)
}

// ClosureTranspiler orchestrates the per-file pipeline.
type ClosureTranspiler struct {
	transformer FileTransformer
	generator   CodeGenerator
	opts        Options
	log         *zap.SugaredLogger
}

// NewClosureTranspiler creates a new instance of ClosureTranspiler with its dependencies.
func NewClosureTranspiler(transformer FileTransformer, generator CodeGenerator, opts Options) *ClosureTranspiler {
	return &ClosureTranspiler{
		transformer: transformer,
		generator:   generator,
		opts:        opts,
		log:         logger.Named("transpiler"),
	}
}

type fileOutput struct {
	result *FileResult
	code   string
}

// Transpile runs the pipeline over files. Files are independent and run
// concurrently; the stages of one file run in order. Internal errors abort
// the run, diagnostics are collected into the result.
func (t *ClosureTranspiler) Transpile(ctx context.Context, files []*jsast.SourceFile) (*Result, error) {
	start := time.Now()
	outputs := make([]fileOutput, len(files))

	workers := t.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := t.transformer.TransformFile(file)
			if err != nil {
				return errors.Wrapf(err, "transpile %s", file.FileName)
			}
			out := fileOutput{result: fr}
			if !file.IsDeclarationFile {
				out.code, err = t.generator.Generate(fr.File)
				if err != nil {
					return errors.Wrapf(err, "generate %s", file.FileName)
				}
			}
			outputs[i] = out
			t.log.Debugw("file transpiled",
				logger.FieldFile, file.FileName,
				logger.FieldCount, len(fr.Diagnostics))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Outputs:  make(map[string]string, len(files)),
		Manifest: manifest.New(),
	}
	externs := make(map[string]string)
	for i, file := range files {
		out := outputs[i]
		if !file.IsDeclarationFile {
			res.Outputs[file.FileName] = out.code
		}
		if out.result.Externs != "" {
			externs[file.FileName] = out.result.Externs
		}
		if out.result.ModuleName != "" {
			res.Manifest.AddModule(file.FileName, out.result.ModuleName)
			for _, m := range out.result.ReferencedModules {
				res.Manifest.AddReferencedModule(file.FileName, m)
			}
		}
		res.Diagnostics = append(res.Diagnostics, out.result.Diagnostics...)
	}
	tscerr.Sort(res.Diagnostics)
	res.Externs = CombineExterns(externs)

	t.log.Infow("transpilation finished",
		logger.FieldCount, len(files),
		logger.FieldWorkers, workers,
		logger.FieldErrors, len(errorDiagnostics(res.Diagnostics)),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res, nil
}

// ExternsHeader starts every generated externs file.
const ExternsHeader = `/**
 * @externs
 * @suppress {duplicate,checkTypes}
 */
// NOTE: generated by tsclosure, do not edit.
`

// CombineExterns concatenates per-file externs ordered by file name.
// It returns the empty string when no file produced externs.
func CombineExterns(byFile map[string]string) string {
	if len(byFile) == 0 {
		return ""
	}
	names := make([]string, 0, len(byFile))
	for name := range byFile {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(ExternsHeader)
	for _, name := range names {
		sb.WriteString("// Derived from: ")
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString(byFile[name])
		if !strings.HasSuffix(byFile[name], "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func errorDiagnostics(diags []*tscerr.Diagnostic) []*tscerr.Diagnostic {
	var out []*tscerr.Diagnostic
	for _, d := range diags {
		if d.Severity == tscerr.SeverityError {
			out = append(out, d)
		}
	}
	return out
}
