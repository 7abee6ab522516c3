// Package outwriter has report and console output logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/estimation-reporter/schema"
)

// Report headers. Column names are fixed by the portal import format.
var (
	contractsHeader = []string{"File Path & SHA3 Hash", "LoC"}
	portalHeader    = []string{"Title", "Description", "Type", "Repository", "Lines of Code", "Commit", "Technology"}
)

// Partition splits records into the contracts and interfaces buckets,
// keeping the scan order inside each bucket.
func Partition(records []schema.FileRecord) (contracts, interfaces []schema.FileRecord) {
	for _, r := range records {
		if schema.BucketForPath(r.Path) == schema.InterfacesBucket {
			interfaces = append(interfaces, r)
		} else {
			contracts = append(contracts, r)
		}
	}
	return contracts, interfaces
}

// PortalRows builds one portal row per record, unpartitioned.
func PortalRows(project schema.Project, records []schema.FileRecord) []schema.PortalRow {
	rows := make([]schema.PortalRow, len(records))
	for i, r := range records {
		rows[i] = r.ToPortalRow(project)
	}
	return rows
}

// WriteReports creates dir and writes the three CSV reports into it,
// overwriting files left by a previous run.
func WriteReports(dir string, project schema.Project, records []schema.FileRecord) (schema.ReportPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return schema.ReportPaths{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := schema.ReportPaths{
		Contracts:  filepath.Join(dir, schema.ContractsReportName),
		Interfaces: filepath.Join(dir, schema.InterfacesReportName),
		Portal:     filepath.Join(dir, schema.PortalReportName),
	}
	contracts, interfaces := Partition(records)

	if err := writeWithFile(paths.Contracts, func(w io.Writer) error {
		return writeContractsCSV(w, contracts)
	}); err != nil {
		return paths, fmt.Errorf("error writing contracts report: %w", err)
	}
	if err := writeWithFile(paths.Interfaces, func(w io.Writer) error {
		return writeContractsCSV(w, interfaces)
	}); err != nil {
		return paths, fmt.Errorf("error writing interfaces report: %w", err)
	}
	if err := writeWithFile(paths.Portal, func(w io.Writer) error {
		return writePortalCSV(w, PortalRows(project, records))
	}); err != nil {
		return paths, fmt.Errorf("error writing portal report: %w", err)
	}
	return paths, nil
}

// writeContractsCSV writes the contracts or interfaces report.
func writeContractsCSV(w io.Writer, records []schema.FileRecord) error {
	return writeCSVWithHeader(w, contractsHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			row := r.ToContractRow()
			if err := cw.Write([]string{row.PathAndHash, strconv.Itoa(row.LinesOfCode)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePortalCSV writes the portal import report.
func writePortalCSV(w io.Writer, rows []schema.PortalRow) error {
	return writeCSVWithHeader(w, portalHeader, func(cw *csv.Writer) error {
		for _, row := range rows {
			rec := []string{
				row.Title,
				row.Description,
				row.Type,
				row.Repository,
				strconv.Itoa(row.LinesOfCode),
				row.Commit,
				row.Technology,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
