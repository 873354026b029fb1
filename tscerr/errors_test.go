package tscerr_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/tscerr"
)

func TestCollector(t *testing.T) {
	tests := []struct {
		name      string
		strict    bool
		quiet     bool
		wantErrs  int
		wantWarns int
	}{
		{"default", false, false, 1, 1},
		{"strict promotes warnings", true, false, 2, 0},
		{"quiet drops warnings", false, true, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tscerr.NewCollector("a.ts", tt.strict, tt.quiet)
			c.Warn(tscerr.CategoryJSDoc, 1, 1, "redundant type")
			c.Errorf(tscerr.CategoryNamespace, 3, 5, "unsupported %s", "namespace")
			assert.Equal(t, tt.wantErrs, c.ErrorCount())
			assert.Equal(t, tt.wantWarns, c.WarningCount())
			assert.True(t, c.HasErrors())
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	d := tscerr.NewDiagnosticInFile(tscerr.SeverityError, tscerr.CategoryDecorator, "src/a.ts", 4, 2, "cannot process decorators for computed member")
	assert.Equal(t, "src/a.ts:4:2 - error: [decorator] cannot process decorators for computed member", d.String())

	d.Hint = "use an identifier"
	assert.Contains(t, d.Error(), "\n  hint: use an identifier")
}

func TestCollectorErr(t *testing.T) {
	c := tscerr.NewCollector("a.ts", false, false)
	assert.NoError(t, c.Err())

	c.Warn(tscerr.CategoryJSDoc, 1, 1, "w")
	assert.NoError(t, c.Err())

	c.Error(tscerr.CategoryEnum, 2, 1, "e")
	err := c.Err()
	require.Error(t, err)
	var multi *tscerr.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 1)
	assert.Equal(t, tscerr.TypeDiagnostic, multi.Type())
}

func TestInternalError(t *testing.T) {
	cause := errors.AssertionFailedf("unhandled type shape %s", "Foo")
	err := tscerr.NewInternalErrorAt("b.ts", 10, 3, cause)
	assert.Contains(t, err.Error(), "internal error converting type at b.ts:10:3")
	assert.True(t, tscerr.IsInternal(errors.Wrap(err, "transpile")))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, tscerr.IsInternal(cause))
}

func TestSort(t *testing.T) {
	diags := []*tscerr.Diagnostic{
		tscerr.NewDiagnosticInFile(tscerr.SeverityError, "", "b.ts", 1, 1, "x"),
		tscerr.NewDiagnosticInFile(tscerr.SeverityError, "", "a.ts", 9, 1, "y"),
		tscerr.NewDiagnosticInFile(tscerr.SeverityError, "", "a.ts", 2, 7, "z"),
	}
	tscerr.Sort(diags)
	assert.Equal(t, "z", diags[0].Msg)
	assert.Equal(t, "y", diags[1].Msg)
	assert.Equal(t, "x", diags[2].Msg)
}
