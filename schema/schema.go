// Package schema has the models and constants shared by all parts of estimation-reporter.
package schema

// FileRecord is the measurement of a single file under the scope directory.
// It is created once per scanned file and never mutated afterwards.
type FileRecord struct {
	Path        string   `json:"path" yaml:"path"`                             // Relative path with forward slashes
	SHA3        string   `json:"sha3" yaml:"sha3"`                             // SHA3-256 hex digest of the raw bytes
	LinesOfCode int      `json:"loc" yaml:"loc"`                               // Non-blank lines after stripping
	Language    Language `json:"language,omitempty" yaml:"language,omitempty"` // Empty when classification failed
	Bucket      Bucket   `json:"bucket" yaml:"bucket"`
	Failed      bool     `json:"failed,omitempty" yaml:"failed,omitempty"` // Read or count failed; LoC is 0
}

// Project holds the three positional values that describe a run.
type Project struct {
	Name       string `json:"name" yaml:"name"`
	Repository string `json:"repository" yaml:"repository"`
	Commit     string `json:"commit" yaml:"commit"`
}

// ContractRow is one row of the contracts or interfaces report.
type ContractRow struct {
	PathAndHash string
	LinesOfCode int
}

// PortalRow is one row of the portal import report.
type PortalRow struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Repository  string `json:"repository" yaml:"repository"`
	LinesOfCode int    `json:"loc" yaml:"loc"`
	Commit      string `json:"commit" yaml:"commit"`
	Technology  string `json:"technology" yaml:"technology"`
}

// ReportPaths lists the artifacts written by a run.
type ReportPaths struct {
	Contracts  string
	Interfaces string
	Portal     string
	Parquet    string // Empty unless parquet export was requested
}

// All returns every non-empty artifact path in write order.
func (p ReportPaths) All() []string {
	paths := []string{p.Contracts, p.Interfaces, p.Portal}
	if p.Parquet != "" {
		paths = append(paths, p.Parquet)
	}
	return paths
}

// BucketTotal aggregates one bucket of a run.
type BucketTotal struct {
	Bucket      Bucket `json:"bucket" yaml:"bucket"`
	Files       int    `json:"files" yaml:"files"`
	LinesOfCode int    `json:"loc" yaml:"loc"`
}

// RunSummary aggregates the records of a run for console output.
type RunSummary struct {
	Project     Project        `json:"project" yaml:"project"`
	TotalFiles  int            `json:"total_files" yaml:"total_files"`
	TotalLOC    int            `json:"total_loc" yaml:"total_loc"`
	Skipped     int            `json:"skipped" yaml:"skipped"` // Files without a language
	Failed      int            `json:"failed" yaml:"failed"`   // Files whose read or count failed
	Buckets     []BucketTotal  `json:"buckets" yaml:"buckets"`
	ByLanguage  map[string]int `json:"by_language" yaml:"by_language"`
	Files       []FileRecord   `json:"files,omitempty" yaml:"files,omitempty"`
	ReportFiles []string       `json:"report_files,omitempty" yaml:"report_files,omitempty"`
}

// Estimate is the in-memory result of measuring a scope without writing reports.
type Estimate struct {
	Summary    RunSummary  `json:"summary" yaml:"summary"`
	PortalRows []PortalRow `json:"portal_rows" yaml:"portal_rows"`
}
