package transpiler

// Options configure one transpilation run.
type Options struct {
	// DownlevelDecorators lowers decorators marked @Annotation into static
	// class metadata.
	DownlevelDecorators bool
	// Untyped emits the unknown type for every annotation.
	Untyped bool
	// UnknownTypesPaths lists files whose types always translate to unknown.
	UnknownTypesPaths []string
	// GenerateExtraSuppressions adds the default @suppress set to the
	// file overview comment.
	GenerateExtraSuppressions bool
	// DefaultExportShim emits goog.tsMigrationDefaultExportsShim for files
	// with a default export.
	DefaultExportShim bool
	// Strict turns warnings into errors, Quiet drops them.
	Strict bool
	Quiet  bool
	// Workers bounds how many files are processed concurrently. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		DownlevelDecorators:       true,
		GenerateExtraSuppressions: true,
	}
}
