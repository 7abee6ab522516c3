package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/estimation-reporter/core/lang"
	"github.com/huangsam/estimation-reporter/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteLanguages prints the supported extension table in the configured format.
func WriteLanguages(w io.Writer, mode schema.OutputMode) error {
	extensions := lang.Extensions()
	switch mode {
	case schema.NoneOut:
		return nil
	case schema.JSONOut:
		return writeJSON(w, extensions)
	case schema.YAMLOut:
		return writeYAML(w, extensions)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Extension", "Language"})
	var data [][]string
	for _, e := range extensions {
		data = append(data, []string{e.Extension, string(e.Language)})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error writing languages table: %w", err)
	}
	return table.Render()
}
