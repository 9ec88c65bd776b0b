package models

import "time"

// SourceFile holds one file taking part in an amalgamation.
type SourceFile struct {
	Path     string // canonical absolute path
	Raw      string
	Stripped string
}

// IncludeDirective is a single-line include found while scanning a file.
type IncludeDirective struct {
	Target string
	Angled bool
}

// Target is one entry file flattened into one destination.
type Target struct {
	SrcInclude    string `mapstructure:"src_include"`
	SrcIncludeDir string `mapstructure:"src_include_dir"`
	DstInclude    string `mapstructure:"dst_include"`
}

// VerifyReport summarises a tree-sitter parse of a generated artifact.
type VerifyReport struct {
	Path         string         `json:"path"`
	Lines        int            `json:"lines"`
	HasErrors    bool           `json:"has_errors"`
	ErrorLines   []int          `json:"error_lines"`
	Declarations map[string]int `json:"declarations"`
}

// RunSummary is the outcome of flattening a single target.
type RunSummary struct {
	Target       Target
	FilesInlined int
	Elided       int
	Unresolved   int
	LinesWritten int
	BytesWritten int64
	CacheHits    int
	Duration     time.Duration
}
