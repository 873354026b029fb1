package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFile), []byte("{}"), 0o644))
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "a.ts")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, root, FindProjectRoot(file))
}

func TestFindProjectRoot_NonExistentPath(t *testing.T) {
	assert.Empty(t, FindProjectRoot("/nonexistent/path/that/does/not/exist"))
}

func TestToModuleName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"src/app.ts", "src.app"},
		{"src/types.d.ts", "src.types"},
		{"src/view.tsx", "src.view"},
		{"./lib/util.js", "lib.util"},
		{"lib/my-widget.ts", "lib.my_widget"},
		{"1st/file.ts", "_st.file"},
		{"lodash", "lodash"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToModuleName(tt.in))
		})
	}
}

func TestResolver_PathToModuleName(t *testing.T) {
	r := &Resolver{rootDir: "/project"}

	assert.Equal(t, "src.util", r.PathToModuleName("/project/src/app.ts", "./util"))
	assert.Equal(t, "lib.shared", r.PathToModuleName("/project/src/app.ts", "../lib/shared"))
	assert.Equal(t, "src.sub.x", r.PathToModuleName("src/app.ts", "./sub/x"))
	assert.Equal(t, "foo.bar", r.PathToModuleName("src/app.ts", "goog:foo.bar"))
	assert.Equal(t, "lodash", r.PathToModuleName("src/app.ts", "lodash"))
}

func TestResolver_FileNameToModuleID(t *testing.T) {
	r := &Resolver{rootDir: "/project"}
	assert.Equal(t, "src/app.ts", r.FileNameToModuleID("/project/src/app.ts"))
	assert.Equal(t, "/elsewhere/x.ts", r.FileNameToModuleID("/elsewhere/x.ts"))
	assert.Equal(t, "src/app.ts", r.FileNameToModuleID("src/app.ts"))
}

func TestNewResolver_ExplicitRoot(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root)
	assert.Equal(t, root, r.RootDir())
}
