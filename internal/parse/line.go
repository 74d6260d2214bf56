// Package parse turns raw log text into dated entries and extracts structured
// dose records from their bodies. Parsing is tolerant by contract: malformed
// input degrades into continuation text or comments, never into an error.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LineKind tags the variants of the line AST
type LineKind int

const (
	LineBlank        LineKind = iota // empty or whitespace-only
	LineHeader                       // "# YYYY-MM-DD", sets the date context
	LineTimed                        // "HH:MM - text", yields an Entry
	LineContinuation                 // anything else, appended to the previous entry
)

// Line is one classified input line
type Line struct {
	Kind        LineKind
	Date        time.Time // header lines only
	Hour        int       // timed lines only
	Minute      int
	ApproxTime  bool // "~" time prefix
	NextDay     bool // "+" time prefix
	UnknownTime bool // "??:??" placeholder, read as 00:00
	Text        string
}

var (
	reHeader = regexp.MustCompile(`^#\s*([0-9]{4}-[0-9]{1,2}-[0-9]{1,2})`)
	reTimed  = regexp.MustCompile(`^([~+]*)([0-9?]{1,2}):([0-9?]{1,2})(?::[0-9]{2})?\s*-\s*(.*)$`)
)

// classifyLine matches a raw line against the header and timed-entry
// patterns. Lines matching neither are continuations; a header with an
// impossible date or a timed line with an impossible clock time also falls
// back to continuation rather than failing.
func classifyLine(raw string) Line {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Line{Kind: LineBlank}
	}

	if m := reHeader.FindStringSubmatch(s); m != nil {
		d, err := time.Parse("2006-1-2", m[1])
		if err != nil {
			return Line{Kind: LineContinuation, Text: s}
		}
		return Line{Kind: LineHeader, Date: d}
	}

	if m := reTimed.FindStringSubmatch(s); m != nil {
		line := Line{
			Kind:       LineTimed,
			ApproxTime: strings.Contains(m[1], "~"),
			NextDay:    strings.Contains(m[1], "+"),
			Text:       strings.TrimSpace(m[4]),
		}
		if strings.Contains(m[2], "?") || strings.Contains(m[3], "?") {
			// Unknown time is recorded at midnight rather than dropped.
			line.UnknownTime = true
			return line
		}
		hour, _ := strconv.Atoi(m[2])
		minute, _ := strconv.Atoi(m[3])
		if hour > 23 || minute > 59 {
			return Line{Kind: LineContinuation, Text: s}
		}
		line.Hour, line.Minute = hour, minute
		return line
	}

	return Line{Kind: LineContinuation, Text: s}
}
