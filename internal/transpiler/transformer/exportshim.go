package transformer

import (
	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/tscerr"
)

const defaultExportsShim = "goog.tsMigrationDefaultExportsShim"

var manualShims = []string{"goog.tsMigrationExportsShim", defaultExportsShim}

// addDefaultExportShim appends goog.tsMigrationDefaultExportsShim for a
// file with a single default export of a named declaration or identifier.
func addDefaultExportShim(fc *fileContext, stmts []jsast.Stmt) ([]jsast.Stmt, error) {
	if fc.file.IsDeclarationFile || !fc.isModule {
		return stmts, nil
	}
	var defaults []jsast.Node
	manual := false
	for _, s := range stmts {
		if c := manualShimCall(s); c != "" {
			fc.errorAt(tscerr.CategoryExportShim, s, "%s cannot be combined with the generated default export shim", c)
			manual = true
			continue
		}
		if d := defaultExport(fc, s); d != nil {
			defaults = append(defaults, d)
		}
	}
	if manual || len(defaults) == 0 {
		return stmts, nil
	}
	if len(defaults) > 1 {
		for _, d := range defaults[1:] {
			fc.errorAt(tscerr.CategoryExportShim, d, "a module with a default export shim must have exactly one default export")
		}
		return stmts, nil
	}

	shim := &jsast.ExprStmt{X: &jsast.Call{
		Fn:   jsast.NewDottedName(defaultExportsShim),
		Args: []jsast.Expr{jsast.NewString(fc.moduleName)},
	}}
	fc.synthesized.Insert(shim)
	return append(append([]jsast.Stmt(nil), stmts...), shim), nil
}

// defaultExport returns the node exporting a default value from s, or nil.
// Default exports of anything but a named declaration or an identifier
// are reported and not returned.
func defaultExport(fc *fileContext, s jsast.Stmt) jsast.Node {
	switch s := s.(type) {
	case *jsast.ExportDefault:
		if _, ok := s.X.(*jsast.Ident); ok {
			return s
		}
		fc.errorAt(tscerr.CategoryExportShim, s, "default export shims require the default export to be a named declaration or identifier")
	case *jsast.ExportDecl:
		for _, spec := range s.Specs {
			if spec.Exported == "default" && !spec.TypeOnly {
				return spec
			}
		}
	case jsast.Declaration:
		m := s.Modifiers()
		if !m.Has(jsast.ModExport) || !m.Has(jsast.ModDefault) {
			return nil
		}
		if s.DeclName() == nil {
			fc.errorAt(tscerr.CategoryExportShim, s, "default export shims require the default export to be a named declaration or identifier")
			return nil
		}
		return s
	}
	return nil
}

// manualShimCall returns the name of the goog shim s calls, or "".
func manualShimCall(s jsast.Stmt) string {
	es, ok := s.(*jsast.ExprStmt)
	if !ok {
		return ""
	}
	call, ok := es.X.(*jsast.Call)
	if !ok {
		return ""
	}
	name, ok := jsast.EntityName(call.Fn)
	if !ok {
		return ""
	}
	for _, shim := range manualShims {
		if name == shim {
			return name
		}
	}
	return ""
}
