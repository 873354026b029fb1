package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsclosure/internal/transpiler/manifest"
)

func sample() *manifest.ModulesManifest {
	m := manifest.New()
	m.AddModule("src/app.ts", "src.app")
	m.AddModule("src/util.ts", "src.util")
	m.AddModule("src/model.ts", "src.model")
	m.AddReferencedModule("src/app.ts", "src.util")
	m.AddReferencedModule("src/app.ts", "src.model")
	m.AddReferencedModule("src/app.ts", "src.util")
	m.AddReferencedModule("src/model.ts", "src.util")
	return m
}

func TestModulesManifest(t *testing.T) {
	m := sample()
	assert.Equal(t, []string{"src.app", "src.model", "src.util"}, m.Modules())
	assert.Equal(t, []string{"src/app.ts", "src/model.ts", "src/util.ts"}, m.FileNames())
	assert.Equal(t, "src/util.ts", m.FileNameFromModule("src.util"))
	assert.Equal(t, "src.model", m.ModuleFromFileName("src/model.ts"))
	assert.Equal(t, []string{"src.model", "src.util"}, m.ReferencedModules("src/app.ts"))
	assert.Empty(t, m.ReferencedModules("src/util.ts"))
	assert.Empty(t, m.FileNameFromModule("missing"))
}

func TestAddManifest(t *testing.T) {
	a := manifest.New()
	a.AddModule("a.ts", "a")
	a.AddReferencedModule("a.ts", "b")

	b := manifest.New()
	b.AddModule("b.ts", "b")
	b.AddReferencedModule("a.ts", "c")

	a.AddManifest(b)
	assert.Equal(t, []string{"a", "b"}, a.Modules())
	assert.Equal(t, []string{"b", "c"}, a.ReferencedModules("a.ts"))
}

func TestManifestJSONRoundTrip(t *testing.T) {
	m := sample()
	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"src.app": "src/app.ts"`)

	decoded := manifest.New()
	require.NoError(t, decoded.UnmarshalJSON(data))
	assert.Equal(t, m.Modules(), decoded.Modules())
	assert.Equal(t, m.ReferencedModules("src/app.ts"), decoded.ReferencedModules("src/app.ts"))
}

func TestGraphTopologicalSort(t *testing.T) {
	g := sample().Graph()
	nodes, err := g.TopologicalSort()
	require.NoError(t, err)

	var order []string
	for _, n := range nodes {
		order = append(order, n.Module)
	}
	assert.Equal(t, []string{"src.util", "src.model", "src.app"}, order)
	assert.Empty(t, g.External())
}

func TestGraphDetectCycles(t *testing.T) {
	m := manifest.New()
	m.AddModule("a.ts", "a")
	m.AddModule("b.ts", "b")
	m.AddModule("c.ts", "c")
	m.AddReferencedModule("a.ts", "b")
	m.AddReferencedModule("b.ts", "c")
	m.AddReferencedModule("c.ts", "a")
	m.AddReferencedModule("c.ts", "goog.string")

	g := m.Graph()
	err := g.DetectCycles()
	require.Error(t, err)
	var cycleErr *manifest.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycleErr.Cycle)

	assert.Equal(t, [][]string{{"a", "b", "c", "a"}}, g.FindAllCycles())
	assert.Equal(t, []string{"goog.string"}, g.External())

	_, err = g.TopologicalSort()
	assert.Error(t, err)
}
