package amalgamator

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/meysamhadeli/amalgam/amalgamator/contracts"
	"github.com/meysamhadeli/amalgam/statistics"
	statistics_contracts "github.com/meysamhadeli/amalgam/statistics/contracts"
)

// DefaultBanner is written at the top of every generated artifact.
const DefaultBanner = `/**
 *  Automatically generated single include file.
 *  Produced by amalgam (https://github.com/meysamhadeli/amalgam).
 *  This is for convenience only and should not be edited.
 *
 *  License
 *  The content below is distributed under the terms of the license of the
 *  project it was generated from.
 */
`

// Options configures an Amalgamator. Cache and Statistics are optional.
type Options struct {
	SearchRoot     string
	Banner         string
	EncodingPolicy EncodingPolicy
	Cache          *CacheManager
	Statistics     statistics_contracts.IStatistics
}

// Amalgamator flattens an entry file and its includes into one artifact.
type Amalgamator struct {
	resolver   *Resolver
	inliner    *Inliner
	banner     string
	statistics statistics_contracts.IStatistics
}

// NewAmalgamator validates the search root and wires resolver, loader and inliner.
func NewAmalgamator(opts Options) (contracts.IAmalgamator, error) {
	resolver, err := NewResolver(opts.SearchRoot)
	if err != nil {
		return nil, err
	}

	policy := opts.EncodingPolicy
	if policy == "" {
		policy = EncodingStrict
	}

	banner := opts.Banner
	if banner == "" {
		banner = DefaultBanner
	}
	if !strings.HasSuffix(banner, "\n") {
		banner += "\n"
	}

	stats := opts.Statistics
	if stats == nil {
		stats = statistics.NewStatistics()
	}

	return &Amalgamator{
		resolver:   resolver,
		inliner:    NewInliner(resolver, policy, opts.Cache, stats),
		banner:     banner,
		statistics: stats,
	}, nil
}

func (a *Amalgamator) SearchRoot() string {
	return a.resolver.SearchRoot()
}

// Flatten inlines entryPath with a fresh visited set and returns the result without the banner.
func (a *Amalgamator) Flatten(entryPath string) (string, error) {
	entry, err := a.resolver.ResolveEntry(entryPath)
	if err != nil {
		return "", err
	}
	return a.inliner.Inline(entry, NewVisitedSet())
}

// Generate overwrites destinationPath with the banner followed by the
// flattened content of entryPath.
func (a *Amalgamator) Generate(entryPath string, destinationPath string) error {
	if destinationPath == "" {
		return fmt.Errorf("%w: destination file", ErrMissingInput)
	}

	entry, err := a.resolver.ResolveEntry(entryPath)
	if err != nil {
		return err
	}

	file, err := os.Create(destinationPath)
	if err != nil {
		return fmt.Errorf("failed to open destination file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(a.banner); err != nil {
		return fmt.Errorf("failed to write banner: %w", err)
	}

	content, err := a.inliner.Inline(entry, NewVisitedSet())
	if err != nil {
		return err
	}

	if _, err := writer.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	a.statistics.OutputWritten(strings.Count(a.banner, "\n")+len(splitLines(content)), int64(len(a.banner)+len(content)))

	return nil
}
