package parse

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doselog/doselog/internal/model"
)

// Parser converts raw text into an ordered sequence of Entry records.
// The same Parser can be reused across sources; it holds no per-parse state.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. A nil logger disables parse diagnostics.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{log: logger}
}

// Parse walks the text line by line and yields one Entry per timed line.
// A date header sets the date context for subsequent lines; continuation
// lines are appended to the most recently yielded Entry under the current
// date, or ignored when there is none. Timed lines seen before any date
// header are dropped with a warning. No input aborts the parse.
func (p *Parser) Parse(text, source string) []model.Entry {
	var (
		entries     []model.Entry
		currentDate time.Time
		haveDate    bool
		anchored    bool // an Entry exists under the current date context
	)

	for i, raw := range strings.Split(text, "\n") {
		line := classifyLine(raw)
		switch line.Kind {
		case LineBlank:
			continue

		case LineHeader:
			currentDate = line.Date
			haveDate = true
			anchored = false

		case LineTimed:
			if line.Text == "" {
				// Blank entries are skipped.
				continue
			}
			if !haveDate {
				p.log.Warn("timed line before any date header, skipping",
					zap.String("source", source),
					zap.Int("line", i+1))
				continue
			}
			if line.UnknownTime {
				p.log.Debug("entry with unknown time, assuming 00:00",
					zap.String("source", source),
					zap.Int("line", i+1))
			}
			entries = append(entries, model.Entry{
				Date:       currentDate,
				HasTime:    true,
				Hour:       line.Hour,
				Minute:     line.Minute,
				ApproxTime: line.ApproxTime,
				NextDay:    line.NextDay,
				RawText:    line.Text,
				Source:     fmt.Sprintf("%s:%d", source, i+1),
			})
			anchored = true

		case LineContinuation:
			if !anchored || len(entries) == 0 {
				p.log.Debug("unattached line, ignoring",
					zap.String("source", source),
					zap.Int("line", i+1))
				continue
			}
			last := &entries[len(entries)-1]
			last.RawText = last.RawText + "\n" + line.Text
		}
	}

	return entries
}
