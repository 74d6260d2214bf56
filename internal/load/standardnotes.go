package load

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// Standard Notes decrypted backups are a single JSON document whose items
// carry a title and a text body. Log notes are titled with the day's date;
// anything else in the backup (tags, settings, other notes) is skipped.

type snBackup struct {
	Items []snItem `json:"items"`
}

type snItem struct {
	Content snContent `json:"content"`
}

type snContent struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var reDateTitle = regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}`)

func parseStandardNotes(ref string, data []byte) ([]Source, error) {
	var backup snBackup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("read standard notes backup %s: %w", ref, err)
	}

	items := backup.Items
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Content.Title < items[j].Content.Title
	})

	var sources []Source
	for _, item := range items {
		title := item.Content.Title
		if !reDateTitle.MatchString(title) {
			continue
		}
		sources = append(sources, Source{
			Ref:  ref + "#" + title,
			Text: "# " + title + "\n\n" + item.Content.Text,
		})
	}
	return sources, nil
}
