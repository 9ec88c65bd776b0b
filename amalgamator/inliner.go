package amalgamator

import (
	"path/filepath"
	"runtime"
	"strings"

	statistics_contracts "github.com/meysamhadeli/amalgam/statistics/contracts"
	"github.com/pterm/pterm"
)

// VisitedSet records the canonical paths already inlined during one traversal.
// It only grows; a path in the set is never inlined again by that traversal.
type VisitedSet map[string]struct{}

func NewVisitedSet() VisitedSet {
	return make(VisitedSet)
}

func (v VisitedSet) Has(path string) bool {
	_, ok := v[path]
	return ok
}

func (v VisitedSet) Add(path string) {
	v[path] = struct{}{}
}

// Inliner walks the include graph depth-first, substituting each resolved
// directive with the processed content of the file it names.
type Inliner struct {
	resolver   *Resolver
	loader     *sourceLoader
	statistics statistics_contracts.IStatistics
	lineSep    string
}

func NewInliner(resolver *Resolver, policy EncodingPolicy, cache *CacheManager, statistics statistics_contracts.IStatistics) *Inliner {
	return &Inliner{
		resolver:   resolver,
		loader:     &sourceLoader{policy: policy, cache: cache},
		statistics: statistics,
		lineSep:    platformLineSeparator(),
	}
}

// Inline returns the flattened, comment-stripped content of path. A path
// already in visited yields empty text, which is what stops cycles and
// repeated inclusion alike.
func (in *Inliner) Inline(path string, visited VisitedSet) (string, error) {
	if visited.Has(path) {
		return "", nil
	}
	visited.Add(path)

	source, cached, err := in.loader.Load(path)
	if err != nil {
		return "", err
	}
	if cached {
		in.statistics.CacheHit(path)
	}
	in.statistics.FileInlined(path)
	pterm.Debug.Printfln("inlining %s", path)

	issuingDir := filepath.Dir(path)

	var out strings.Builder
	for _, line := range splitLines(source.Stripped) {
		directive, ok := ParseIncludeDirective(line)
		if !ok {
			out.WriteString(line)
			out.WriteString(in.lineSep)
			continue
		}

		resolved, found := in.resolver.Resolve(issuingDir, directive.Target)
		if !found {
			in.statistics.IncludeUnresolved(directive.Target)
			pterm.Debug.Printfln("keeping unresolved include %q in %s", directive.Target, path)
			out.WriteString(line)
			out.WriteString(in.lineSep)
			continue
		}

		if visited.Has(resolved) {
			in.statistics.IncludeElided(resolved)
			pterm.Debug.Printfln("dropping repeated include of %s in %s", resolved, path)
			continue
		}

		nested, err := in.Inline(resolved, visited)
		if err != nil {
			return "", err
		}
		out.WriteString(nested)
	}

	return out.String(), nil
}

// splitLines breaks text on \n, \r\n and \r. A trailing line break does not
// produce an extra empty line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func platformLineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
