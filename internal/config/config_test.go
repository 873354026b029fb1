package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdataFile locates a file of testdata/. Under Bazel it comes from the
// runfiles, otherwise from the package directory.
func testdataFile(t *testing.T, name string) string {
	t.Helper()
	if p, err := bazel.Runfile(filepath.Join("internal", "config", "testdata", name)); err == nil {
		return p
	}
	p, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return p
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.DownlevelDecorators)
	assert.True(t, cfg.GenerateExtraSuppressions)
	assert.False(t, cfg.DefaultExportShim)
	assert.False(t, cfg.Untyped)
	assert.Zero(t, cfg.Workers)
	assert.Empty(t, cfg.Source)
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(testdataFile(t, "tsclosure.toml"))
	require.NoError(t, err)

	assert.False(t, cfg.DownlevelDecorators)
	assert.True(t, cfg.DefaultExportShim)
	assert.True(t, cfg.GenerateExtraSuppressions)
	assert.Equal(t, []string{"third_party/legacy.d.ts"}, cfg.UnknownTypesPaths)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Log.Verbose)
	assert.False(t, cfg.Log.JSON)

	opts := cfg.Options()
	assert.False(t, opts.DownlevelDecorators)
	assert.True(t, opts.DefaultExportShim)
	assert.Equal(t, 4, opts.Workers)
}

func TestLoadWalksUpAndEnvOverrides(t *testing.T) {
	root := t.TempDir()
	data, err := os.ReadFile(testdataFile(t, "tsclosure.toml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), data, 0o644))
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	t.Setenv("TSCLOSURE_WORKERS", "2")
	t.Setenv("TSCLOSURE_LOG_JSON", "true")

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), cfg.Source)
	assert.True(t, cfg.DefaultExportShim)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("workers = ["), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "defaults", cfg: Config{}},
		{name: "negative workers", cfg: Config{Workers: -1}, wantErr: "workers must be >= 0"},
		{name: "strict and quiet", cfg: Config{Strict: true, Quiet: true}, wantErr: "strict and quiet"},
		{name: "empty unknown path", cfg: Config{UnknownTypesPaths: []string{"a.ts", ""}}, wantErr: "unknown_types_paths[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindConfigFileMissing(t *testing.T) {
	assert.Empty(t, FindConfigFile(t.TempDir()))
}
