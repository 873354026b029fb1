// Package manifest records which module each emitted file defines and
// which modules it loads, for the module rewriting stage downstream.
package manifest

import (
	"sort"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/hashicorp/go-set/v3"
)

// ModulesManifest maps module names to file names and file names to the
// modules they reference.
type ModulesManifest struct {
	moduleToFileName  map[string]string
	referencedModules map[string]*set.Set[string]
}

// New returns an empty manifest.
func New() *ModulesManifest {
	return &ModulesManifest{
		moduleToFileName:  make(map[string]string),
		referencedModules: make(map[string]*set.Set[string]),
	}
}

// AddManifest merges other into m.
func (m *ModulesManifest) AddManifest(other *ModulesManifest) {
	for module, fileName := range other.moduleToFileName {
		m.moduleToFileName[module] = fileName
	}
	for fileName, refs := range other.referencedModules {
		m.refs(fileName).InsertSet(refs)
	}
}

// AddModule records that fileName defines module.
func (m *ModulesManifest) AddModule(fileName, module string) {
	m.moduleToFileName[module] = fileName
	m.refs(fileName)
}

// AddReferencedModule records that fileName loads resolvedModule.
func (m *ModulesManifest) AddReferencedModule(fileName, resolvedModule string) {
	m.refs(fileName).Insert(resolvedModule)
}

func (m *ModulesManifest) refs(fileName string) *set.Set[string] {
	s, ok := m.referencedModules[fileName]
	if !ok {
		s = set.New[string](4)
		m.referencedModules[fileName] = s
	}
	return s
}

// Modules returns all module names, sorted.
func (m *ModulesManifest) Modules() []string {
	out := make([]string, 0, len(m.moduleToFileName))
	for module := range m.moduleToFileName {
		out = append(out, module)
	}
	sort.Strings(out)
	return out
}

// FileNames returns all file names that define a module, sorted.
func (m *ModulesManifest) FileNames() []string {
	out := make([]string, 0, len(m.moduleToFileName))
	for _, fileName := range m.moduleToFileName {
		out = append(out, fileName)
	}
	sort.Strings(out)
	return out
}

// FileNameFromModule returns the file defining module, or "".
func (m *ModulesManifest) FileNameFromModule(module string) string {
	return m.moduleToFileName[module]
}

// ModuleFromFileName returns the module defined by fileName, or "".
func (m *ModulesManifest) ModuleFromFileName(fileName string) string {
	for module, f := range m.moduleToFileName {
		if f == fileName {
			return module
		}
	}
	return ""
}

// ReferencedModules returns the modules loaded by fileName, sorted.
func (m *ModulesManifest) ReferencedModules(fileName string) []string {
	s, ok := m.referencedModules[fileName]
	if !ok {
		return nil
	}
	out := s.Slice()
	sort.Strings(out)
	return out
}

// wireManifest is the JSON shape of a manifest.
type wireManifest struct {
	Modules    map[string]string   `json:"modules"`
	References map[string][]string `json:"references"`
}

// MarshalJSON encodes m with sorted keys and sorted reference lists.
func (m *ModulesManifest) MarshalJSON() ([]byte, error) {
	w := wireManifest{
		Modules:    m.moduleToFileName,
		References: make(map[string][]string, len(m.referencedModules)),
	}
	for fileName := range m.referencedModules {
		w.References[fileName] = m.ReferencedModules(fileName)
		if w.References[fileName] == nil {
			w.References[fileName] = []string{}
		}
	}
	return json.Marshal(w, json.Deterministic(true), jsontext.WithIndent("  "))
}

// UnmarshalJSON decodes a manifest written by MarshalJSON.
func (m *ModulesManifest) UnmarshalJSON(data []byte) error {
	var w wireManifest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = *New()
	for module, fileName := range w.Modules {
		m.AddModule(fileName, module)
	}
	for fileName, refs := range w.References {
		m.refs(fileName).InsertSlice(refs)
	}
	return nil
}
