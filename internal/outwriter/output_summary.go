package outwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// shortHashLen is how many hex characters of a digest the detail table shows.
const shortHashLen = 12

// WriteSummary prints the run summary, dispatching based on the output format configured.
func WriteSummary(w io.Writer, summary schema.RunSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.NoneOut:
		return nil
	case schema.JSONOut:
		if err := writeJSON(w, summary); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, summary); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	default:
		return writeSummaryTable(w, summary, cfg)
	}
	return nil
}

// writeSummaryTable generates and writes the human-readable tables.
func writeSummaryTable(w io.Writer, summary schema.RunSummary, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Project: %s @ %s\n", summary.Project.Name, summary.Project.Commit); err != nil {
		return err
	}

	if cfg.Detail && len(summary.Files) > 0 {
		if err := writeFileTable(w, summary.Files, cfg); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Bucket", "Files", "LoC"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range summary.Buckets {
		data = append(data, []string{
			contract.GetColorBucket(b.Bucket),
			strconv.Itoa(b.Files),
			strconv.Itoa(b.LinesOfCode),
		})
	}
	data = append(data, []string{
		contract.TotalColor.Sprint("total"),
		strconv.Itoa(summary.TotalFiles),
		strconv.Itoa(summary.TotalLOC),
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, language := range summary.SortedLanguages() {
		if _, err := fmt.Fprintf(w, "  %-10s %d\n", language, summary.ByLanguage[language]); err != nil {
			return err
		}
	}
	if summary.Skipped > 0 {
		if _, err := fmt.Fprintf(w, "%s\n", contract.SkippedColor.Sprintf("%d file(s) without a supported language counted as 0", summary.Skipped)); err != nil {
			return err
		}
	}
	if summary.Failed > 0 {
		if _, err := fmt.Fprintf(w, "%s\n", contract.SkippedColor.Sprintf("%d file(s) failed to read or count and were counted as 0", summary.Failed)); err != nil {
			return err
		}
	}
	return nil
}

// writeFileTable writes one row per measured file.
func writeFileTable(w io.Writer, files []schema.FileRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Path", "Bucket", "Language", "LoC", "SHA3"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			contract.TruncatePath(f.Path, maxWidth),
			contract.GetColorBucket(f.Bucket),
			contract.GetColorLanguage(f.Language),
			strconv.Itoa(f.LinesOfCode),
			contract.ShortHash(f.SHA3, shortHashLen),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintGeneratedFiles lists written artifacts relative to baseDir.
func PrintGeneratedFiles(w io.Writer, baseDir string, paths []string) error {
	if _, err := fmt.Fprintln(w, "Generated files:"); err != nil {
		return err
	}
	for _, rel := range RelativePaths(baseDir, paths) {
		if _, err := fmt.Fprintf(w, "💾 %s\n", rel); err != nil {
			return err
		}
	}
	return nil
}

// RelativePaths returns paths relative to baseDir with forward slashes.
func RelativePaths(baseDir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(baseDir, p)
		if err != nil {
			rel = p
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}
