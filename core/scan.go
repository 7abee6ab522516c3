package core

import (
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/estimation-reporter/core/lang"
	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
	"golang.org/x/crypto/sha3"
)

// housekeepingFile is written by macOS Finder and never measured.
const housekeepingFile = ".DS_Store"

// ScanScope walks scopeDir and measures every regular file under it.
// Records follow the lexical order of filepath.WalkDir. Per-file failures are
// reported as warnings and recorded with zero lines; only a failure of the walk
// itself is returned.
func ScanScope(scopeDir string, excludes []string) ([]schema.FileRecord, error) {
	var records []schema.FileRecord
	err := filepath.WalkDir(scopeDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == scopeDir {
				return err
			}
			contract.LogWarn(fmt.Sprintf("Error processing %s", path), err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || d.Name() == housekeepingFile {
			return nil
		}

		rel, err := filepath.Rel(scopeDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if contract.ShouldIgnore(rel, excludes) {
			return nil
		}

		records = append(records, measureFile(path, rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk scope directory %s: %w", scopeDir, err)
	}
	return records, nil
}

// measureFile reads a file once, hashes the raw bytes and counts its lines.
// The two steps are independent, so a counting failure keeps the hash.
// Unclassified files count 0; read and pipeline failures also mark the record.
func measureFile(path, rel string) schema.FileRecord {
	record := schema.FileRecord{Path: rel, Bucket: schema.BucketForPath(rel)}

	content, err := os.ReadFile(path)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Error processing %s", rel), err)
		record.Failed = true
		return record
	}
	record.SHA3 = HashBytes(content)

	language, err := lang.FromPath(path)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Error processing %s", rel), err)
		return record
	}
	record.Language = language

	loc, err := lang.CountContent(language, content)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Error processing %s", rel), err)
		record.Failed = true
		return record
	}
	record.LinesOfCode = loc
	return record
}

// HashBytes returns the hex-encoded SHA3-256 digest of content.
func HashBytes(content []byte) string {
	sum := sha3.Sum256(content)
	return hex.EncodeToString(sum[:])
}
