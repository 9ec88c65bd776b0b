package amalgamator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/meysamhadeli/amalgam/amalgamator/models"
)

// includePattern matches a whole line holding `#include "name"` or `#include <name>`.
var includePattern = regexp.MustCompile(`^#\s*include\s+(["<])([^">]+)[">]\s*$`)

// ParseIncludeDirective extracts the directive held by line, if any.
func ParseIncludeDirective(line string) (models.IncludeDirective, bool) {
	matches := includePattern.FindStringSubmatch(line)
	if matches == nil {
		return models.IncludeDirective{}, false
	}
	return models.IncludeDirective{Target: matches[2], Angled: matches[1] == "<"}, true
}

// Resolver maps include targets to files using the issuing file's directory
// and then a single fallback search root.
type Resolver struct {
	searchRoot string
}

// NewResolver validates searchRoot and makes it absolute.
func NewResolver(searchRoot string) (*Resolver, error) {
	if searchRoot == "" {
		return nil, fmt.Errorf("%w: search root", ErrMissingInput)
	}

	abs, err := filepath.Abs(searchRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve search root %s: %w", searchRoot, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open search root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSearchRootNotDir, abs)
	}

	return &Resolver{searchRoot: abs}, nil
}

// Resolve returns the canonical absolute path of target, or false when the
// target is found in neither tier.
func (r *Resolver) Resolve(issuingDir string, target string) (string, bool) {
	if filepath.IsAbs(target) {
		return filepath.Clean(target), true
	}

	if issuingDir != "" {
		if candidate := filepath.Join(issuingDir, target); fileExists(candidate) {
			return canonical(candidate), true
		}
	}

	if candidate := filepath.Join(r.searchRoot, target); fileExists(candidate) {
		return canonical(candidate), true
	}

	return "", false
}

// ResolveEntry locates the entry file: as given (relative to the working
// directory), then under the search root.
func (r *Resolver) ResolveEntry(entryPath string) (string, error) {
	if entryPath == "" {
		return "", fmt.Errorf("%w: entry file", ErrMissingInput)
	}

	if fileExists(entryPath) {
		return canonical(entryPath), nil
	}

	if !filepath.IsAbs(entryPath) {
		if candidate := filepath.Join(r.searchRoot, entryPath); fileExists(candidate) {
			return canonical(candidate), nil
		}
	}

	return "", fmt.Errorf("failed to open entry file %s: %w", entryPath, os.ErrNotExist)
}

func (r *Resolver) SearchRoot() string {
	return r.searchRoot
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
