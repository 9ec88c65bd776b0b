package statistics

import (
	"fmt"
	"time"

	"github.com/meysamhadeli/amalgam/amalgamator/models"
	"github.com/meysamhadeli/amalgam/constants/lipgloss"
	"github.com/meysamhadeli/amalgam/statistics/contracts"
)

// runStatistics counts what happened while flattening one target
type runStatistics struct {
	target       models.Target
	filesInlined int
	elided       int
	unresolved   int
	cacheHits    int
	linesWritten int
	bytesWritten int64
	startedAt    time.Time
}

// NewStatistics creates an empty statistics recorder
func NewStatistics() contracts.IStatistics {
	return &runStatistics{
		startedAt: time.Now(),
	}
}

// FileInlined records a file whose content was inlined for the first time.
func (rs *runStatistics) FileInlined(path string) {
	rs.filesInlined++
}

// IncludeElided records a directive dropped because its file was already visited.
func (rs *runStatistics) IncludeElided(path string) {
	rs.elided++
}

// IncludeUnresolved records a directive kept verbatim.
func (rs *runStatistics) IncludeUnresolved(target string) {
	rs.unresolved++
}

func (rs *runStatistics) CacheHit(path string) {
	rs.cacheHits++
}

func (rs *runStatistics) OutputWritten(lines int, bytes int64) {
	rs.linesWritten += lines
	rs.bytesWritten += bytes
}

func (rs *runStatistics) Summary() models.RunSummary {
	return models.RunSummary{
		Target:       rs.target,
		FilesInlined: rs.filesInlined,
		Elided:       rs.elided,
		Unresolved:   rs.unresolved,
		LinesWritten: rs.linesWritten,
		BytesWritten: rs.bytesWritten,
		CacheHits:    rs.cacheHits,
		Duration:     time.Since(rs.startedAt),
	}
}

func (rs *runStatistics) DisplayStatistics() {
	summary := rs.Summary()

	info := fmt.Sprintf("Generated: %s\nFiles inlined: %d - Elided includes: %d - Unresolved includes: %d\nLines: %d - Size: %.2f KB - Cache hits: %d - Took: %s",
		summary.Target.DstInclude,
		summary.FilesInlined,
		summary.Elided,
		summary.Unresolved,
		summary.LinesWritten,
		float64(summary.BytesWritten)/1024,
		summary.CacheHits,
		summary.Duration.Round(time.Millisecond),
	)

	fmt.Println(lipgloss.BoxStyle.Render(info))
}

// Reset clears every counter and starts timing a new target.
func (rs *runStatistics) Reset(target models.Target) {
	rs.target = target
	rs.filesInlined = 0
	rs.elided = 0
	rs.unresolved = 0
	rs.cacheHits = 0
	rs.linesWritten = 0
	rs.bytesWritten = 0
	rs.startedAt = time.Now()
}
