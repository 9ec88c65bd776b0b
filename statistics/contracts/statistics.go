package contracts

import "github.com/meysamhadeli/amalgam/amalgamator/models"

type IStatistics interface {
	FileInlined(path string)
	IncludeElided(path string)
	IncludeUnresolved(target string)
	CacheHit(path string)
	OutputWritten(lines int, bytes int64)
	Summary() models.RunSummary
	DisplayStatistics()
	Reset(target models.Target)
}
