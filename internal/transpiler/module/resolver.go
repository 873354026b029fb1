// Package module provides project root discovery and module naming.
package module

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// ProjectFile marks the root of a TypeScript project.
const ProjectFile = "tsconfig.json"

// Resolver maps source files and import paths to module names relative to
// a project root. It implements transpiler.Host.
//
// Example usage:
//
//	resolver := NewResolver("")
//	name := resolver.PathToModuleName("src/app.ts", "./util")  // "src.util"
type Resolver struct {
	rootDir string // Filesystem path to the project root (where tsconfig.json is located)
}

// NewResolver creates a Resolver rooted at rootDir. An empty rootDir is
// discovered by walking up from the working directory looking for
// tsconfig.json; when none is found, paths are used as given.
func NewResolver(rootDir string) *Resolver {
	if rootDir == "" {
		cwd, _ := os.Getwd()
		rootDir = FindProjectRoot(cwd)
	}
	if rootDir != "" {
		if abs, err := filepath.Abs(rootDir); err == nil {
			rootDir = abs
		}
	}
	return &Resolver{rootDir: rootDir}
}

// RootDir returns the project root, or "" if none was found.
func (r *Resolver) RootDir() string {
	return r.rootDir
}

// FileNameToModuleID returns fileName relative to the project root with
// forward slashes.
func (r *Resolver) FileNameToModuleID(fileName string) string {
	return r.relative(fileName)
}

// PathToModuleName resolves importPath as written in the file context and
// returns the dotted module name. A "goog:" prefix names a module directly.
func (r *Resolver) PathToModuleName(context, importPath string) string {
	if name, ok := strings.CutPrefix(importPath, "goog:"); ok {
		return name
	}
	fileName := importPath
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		fileName = path.Join(path.Dir(r.relative(context)), importPath)
	} else if filepath.IsAbs(importPath) {
		fileName = r.relative(importPath)
	}
	return ToModuleName(fileName)
}

// relative returns fileName relative to the root with forward slashes.
// Files outside the root keep their path.
func (r *Resolver) relative(fileName string) string {
	if r.rootDir != "" && filepath.IsAbs(fileName) {
		if rel, err := filepath.Rel(r.rootDir, fileName); err == nil && !strings.HasPrefix(rel, "..") {
			fileName = rel
		}
	}
	return filepath.ToSlash(fileName)
}

var (
	extensionPattern   = regexp.MustCompile(`(\.d)?\.(ts|tsx|js|mjs)$`)
	invalidLeadPattern = regexp.MustCompile(`^[^a-zA-Z_$]`)
	invalidCharPattern = regexp.MustCompile(`[^a-zA-Z0-9._$]`)
)

// ToModuleName turns a slash separated file path into a dotted module name.
func ToModuleName(fileName string) string {
	name := extensionPattern.ReplaceAllString(fileName, "")
	name = strings.TrimPrefix(name, "./")
	name = strings.ReplaceAll(name, "/", ".")
	name = invalidLeadPattern.ReplaceAllString(name, "_")
	return invalidCharPattern.ReplaceAllString(name, "_")
}

// FindProjectRoot walks up from startPath looking for tsconfig.json.
// Returns the directory containing it, or "" if not found.
func FindProjectRoot(startPath string) string {
	dir := startPath

	// If startPath is a file, use its directory
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}
