// Package load reads raw log sources from disk: plain text files, a
// directory of files, Standard Notes decrypted backups, and Evernote .enex
// exports. Loaders are format shims only; they emit raw text blocks and leave
// all interpretation to the parser.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one raw text block ready for parsing
type Source struct {
	Ref  string // provenance: file path, optionally "#<note title>"
	Text string
}

// LoadPath reads a file or a directory of files. A missing or unreadable
// path is the one hard failure in the system: it is surfaced to the caller
// before any parsing begins.
func LoadPath(path string) ([]Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input source unavailable: %w", err)
	}

	if !info.IsDir() {
		return loadFile(path)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("input source unavailable: %w", err)
	}
	// Deterministic order regardless of filesystem.
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	var sources []Source
	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		s, err := loadFile(filepath.Join(path, de.Name()))
		if err != nil {
			return nil, err
		}
		sources = append(sources, s...)
	}
	return sources, nil
}

func loadFile(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input source unavailable: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseStandardNotes(path, data)
	case ".enex":
		return parseEvernote(path, data)
	default:
		return []Source{{Ref: path, Text: string(data)}}, nil
	}
}
