package schema

import (
	"fmt"
	"sort"
	"strings"
)

// interfaceMarker puts a file in the interfaces bucket when found in its path.
// It also covers "interfaces".
const interfaceMarker = "interface"

// BucketForPath returns the report bucket for a relative path.
// The test is a case-insensitive substring match.
func BucketForPath(path string) Bucket {
	if strings.Contains(strings.ToLower(path), interfaceMarker) {
		return InterfacesBucket
	}
	return ContractsBucket
}

// ToContractRow formats a record for the contracts and interfaces reports.
func (r FileRecord) ToContractRow() ContractRow {
	return ContractRow{
		PathAndHash: fmt.Sprintf("File: %s\nSHA3: %s", r.Path, r.SHA3),
		LinesOfCode: r.LinesOfCode,
	}
}

// ToPortalRow formats a record for the portal import report.
func (r FileRecord) ToPortalRow(project Project) PortalRow {
	return PortalRow{
		Title:       r.Path,
		Description: "",
		Type:        PortalItemType,
		Repository:  project.Repository,
		LinesOfCode: r.LinesOfCode,
		Commit:      project.Commit,
		Technology:  r.SHA3,
	}
}

// Summarize aggregates records into per-bucket and per-language totals.
// Skipped counts unclassified files and Failed counts read or count failures.
// Buckets are always listed as contracts then interfaces.
func Summarize(project Project, records []FileRecord) RunSummary {
	summary := RunSummary{
		Project:    project,
		TotalFiles: len(records),
		Buckets: []BucketTotal{
			{Bucket: ContractsBucket},
			{Bucket: InterfacesBucket},
		},
		ByLanguage: make(map[string]int),
	}
	for _, r := range records {
		summary.TotalLOC += r.LinesOfCode
		idx := 0
		if r.Bucket == InterfacesBucket {
			idx = 1
		}
		summary.Buckets[idx].Files++
		summary.Buckets[idx].LinesOfCode += r.LinesOfCode
		if r.Failed {
			summary.Failed++
		}
		if r.Language == "" {
			summary.Skipped++
			continue
		}
		summary.ByLanguage[string(r.Language)] += r.LinesOfCode
	}
	return summary
}

// SortedLanguages returns the language keys of a summary in sorted order.
func (s RunSummary) SortedLanguages() []string {
	keys := make([]string, 0, len(s.ByLanguage))
	for k := range s.ByLanguage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
