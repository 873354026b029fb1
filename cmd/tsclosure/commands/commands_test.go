package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tsclosure version "+Version)
}

func TestConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "config", "-C", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "no tsclosure.toml found")
	assert.Contains(t, out, "downlevel_decorators = true\n")
	assert.Contains(t, out, "unknown_types_paths = []\n")
	assert.Contains(t, out, "root_dir = \"\"\n")
	assert.Contains(t, out, "workers = 0\n")
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tsclosure.toml", "workers = 3\nunknown_types_paths = [\"a.d.ts\"]\n")

	out, err := execute(t, "config", "-C", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "# "+path+"\n")
	assert.Contains(t, out, "workers = 3\n")
	assert.Contains(t, out, "unknown_types_paths = [\"a.d.ts\"]\n")
}

func TestConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsclosure.toml", "workers = -1\n")

	_, err := execute(t, "config", "-C", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be >= 0")
}

func TestManifestLoadOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{
  "modules": {"src.a": "src/a.ts", "src.b": "src/b.ts", "src.c": "src/c.ts"},
  "references": {"src/a.ts": ["src.b", "src.c"], "src/b.ts": ["src.c"]}
}`)

	out, err := execute(t, "manifest", "-C", dir, path)
	require.NoError(t, err)
	assert.Equal(t, "src.c\nsrc.b\nsrc.a\n", out)

	out, err = execute(t, "manifest", "-C", dir, "--files", path)
	require.NoError(t, err)
	assert.Equal(t, "src.c\tsrc/c.ts\nsrc.b\tsrc/b.ts\nsrc.a\tsrc/a.ts\n", out)
}

func TestManifestCycle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{
  "modules": {"src.a": "src/a.ts", "src.b": "src/b.ts"},
  "references": {"src/a.ts": ["src.b"], "src/b.ts": ["src.a"]}
}`)

	_, err := execute(t, "manifest", "-C", dir, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module cycle")
	assert.Contains(t, err.Error(), "src.a")
	assert.Contains(t, err.Error(), "src.b")
}

func TestManifestMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "manifest", "-C", dir, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read manifest")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"x"`, formatValue("x"))
	assert.Equal(t, "true", formatValue(true))
	assert.Equal(t, `["a", "b"]`, formatValue([]string{"a", "b"}))
	assert.Equal(t, `["a", 1]`, formatValue([]any{"a", 1}))
}
