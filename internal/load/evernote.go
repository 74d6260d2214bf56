package load

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Evernote .enex exports wrap each note's body in an XHTML document. The
// body is stripped to plain text here; the date header comes from the note
// title when it names a date, otherwise from the note's created timestamp.

type enExport struct {
	Notes []enNote `xml:"note"`
}

type enNote struct {
	Title   string `xml:"title"`
	Content string `xml:"content"`
	Created string `xml:"created"` // 20060102T150405Z
}

func parseEvernote(ref string, data []byte) ([]Source, error) {
	var export enExport
	if err := xml.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("read evernote export %s: %w", ref, err)
	}

	var sources []Source
	for _, note := range export.Notes {
		date := noteDate(note)
		if date == "" {
			continue
		}
		text := stripNoteHTML(note.Content)
		if strings.TrimSpace(text) == "" {
			continue
		}
		sources = append(sources, Source{
			Ref:  ref + "#" + note.Title,
			Text: "# " + date + "\n\n" + text,
		})
	}
	return sources, nil
}

func noteDate(note enNote) string {
	if reDateTitle.MatchString(note.Title) {
		return reDateTitle.FindString(note.Title)
	}
	if t, err := time.Parse("20060102T150405Z", note.Created); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}

// stripNoteHTML flattens the note's XHTML to text, turning block elements
// and <br> into line breaks so the parser sees one log line per line.
func stripNoteHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// Tolerant path: fall back to the raw content.
		return content
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "br":
				buf.WriteString("\n")
				return
			case "style", "script":
				return
			}
		case html.TextNode:
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div", "p", "en-note":
				buf.WriteString("\n")
			}
		}
	}
	walk(doc)
	return buf.String()
}
