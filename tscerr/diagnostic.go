package tscerr

import (
	"fmt"
	"sort"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics by the stage that raised them.
type Category string

const (
	CategoryDecorator  Category = "decorator"
	CategoryNamespace  Category = "namespace"
	CategoryEnum       Category = "enum"
	CategoryJSDoc      Category = "jsdoc"
	CategoryType       Category = "type-translation"
	CategoryExportShim Category = "export-shim"
	CategoryExterns    Category = "externs"
)

// Diagnostic is a positioned message attached to a source file.
// Error severity diagnostics fail the compilation but do not stop
// processing of sibling nodes.
type Diagnostic struct {
	BaseError
	Severity Severity
	Category Category
	FilePath string
	Line     int
	Column   int
	Hint     string
}

func (d *Diagnostic) Error() string {
	return d.String()
}

// String formats the diagnostic as "file:line:col - severity: [category] message".
func (d *Diagnostic) String() string {
	var sb strings.Builder
	if d.FilePath != "" {
		sb.WriteString(d.FilePath)
		if d.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", d.Line))
			if d.Column > 0 {
				sb.WriteString(fmt.Sprintf(":%d", d.Column))
			}
		}
		sb.WriteString(" - ")
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}
	sb.WriteString(d.Msg)
	if d.Hint != "" {
		sb.WriteString("\n  hint: ")
		sb.WriteString(d.Hint)
	}
	return sb.String()
}

// NewDiagnosticInFile creates a Diagnostic with file path, line, and column position.
func NewDiagnosticInFile(sev Severity, cat Category, filePath string, line, column int, msg string) *Diagnostic {
	return &Diagnostic{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeDiagnostic,
		},
		Severity: sev,
		Category: cat,
		FilePath: filePath,
		Line:     line,
		Column:   column,
	}
}

// Collector gathers the diagnostics of one file.
type Collector struct {
	filePath    string
	diagnostics []*Diagnostic
	strict      bool // warnings become errors
	quiet       bool // warnings are dropped
}

// NewCollector creates a collector for diagnostics raised in filePath.
func NewCollector(filePath string, strict, quiet bool) *Collector {
	return &Collector{
		filePath: filePath,
		strict:   strict,
		quiet:    quiet,
	}
}

// FilePath returns the file the collector reports against.
func (c *Collector) FilePath() string {
	return c.filePath
}

// Error adds a fatal diagnostic.
func (c *Collector) Error(cat Category, line, column int, msg string) {
	if c == nil {
		return
	}
	c.diagnostics = append(c.diagnostics, NewDiagnosticInFile(SeverityError, cat, c.filePath, line, column, msg))
}

// Errorf is Error with a format string.
func (c *Collector) Errorf(cat Category, line, column int, format string, args ...any) {
	c.Error(cat, line, column, fmt.Sprintf(format, args...))
}

// Warn adds a warning. In strict mode it is recorded as an error.
func (c *Collector) Warn(cat Category, line, column int, msg string) {
	c.WarnWithHint(cat, line, column, msg, "")
}

// Warnf is Warn with a format string.
func (c *Collector) Warnf(cat Category, line, column int, format string, args ...any) {
	c.Warn(cat, line, column, fmt.Sprintf(format, args...))
}

// WarnWithHint adds a warning with a suggestion.
func (c *Collector) WarnWithHint(cat Category, line, column int, msg, hint string) {
	if c == nil || c.quiet {
		return
	}
	sev := SeverityWarning
	if c.strict {
		sev = SeverityError
	}
	d := NewDiagnosticInFile(sev, cat, c.filePath, line, column, msg)
	d.Hint = hint
	c.diagnostics = append(c.diagnostics, d)
}

// Info adds an informational diagnostic.
func (c *Collector) Info(cat Category, line, column int, msg string) {
	if c == nil || c.quiet {
		return
	}
	c.diagnostics = append(c.diagnostics, NewDiagnosticInFile(SeverityInfo, cat, c.filePath, line, column, msg))
}

// Diagnostics returns all collected diagnostics in insertion order.
func (c *Collector) Diagnostics() []*Diagnostic {
	if c == nil {
		return nil
	}
	return c.diagnostics
}

// HasErrors reports whether any error severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	return c.ErrorCount() > 0
}

// ErrorCount returns the number of error severity diagnostics.
func (c *Collector) ErrorCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warnings.
func (c *Collector) WarningCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, d := range c.diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Err returns a MultiError of the error severity diagnostics, or nil.
func (c *Collector) Err() error {
	return ErrFromDiagnostics(c.Diagnostics())
}

// ErrFromDiagnostics returns a MultiError holding every error severity
// diagnostic in diags, or nil when there are none.
func ErrFromDiagnostics(diags []*Diagnostic) error {
	var errs []error
	for _, d := range diags {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &MultiError{Errors: errs}
}

// Sort orders diagnostics by file, line and column.
func Sort(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
