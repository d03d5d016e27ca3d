package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coachable/course-coach/internal/vectorindex"
)

// Metadata keys used for catalog documents in the catalog collection.
const (
	metaID       = "id"
	metaTitle    = "title"
	metaProvider = "provider"
	metaSkills   = "skills"
	metaDuration = "duration_hours"
	metaLevel    = "level"
	metaFormat   = "format"
	metaURL      = "url"
)

// Item is one entry of the course catalog. The catalog is built ahead of
// time by the ingest step; this core only reads it.
type Item struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Provider      string   `json:"provider"`
	Skills        []string `json:"skills"`
	DurationHours float64  `json:"duration_hours"`
	Level         string   `json:"level"`
	Format        string   `json:"format"`
	Description   string   `json:"description,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// Document converts the item into an indexable document. The embedded text
// is the title plus taught skills, which is what retrieval queries match
// against.
func (i Item) Document() vectorindex.Document {
	content := fmt.Sprintf("%s. Skills: %s", i.Title, strings.Join(i.Skills, ", "))
	if i.Description != "" {
		content += " " + i.Description
	}

	return vectorindex.Document{
		ID:      i.ID,
		Content: content,
		Metadata: map[string]string{
			metaID:       i.ID,
			metaTitle:    i.Title,
			metaProvider: i.Provider,
			metaSkills:   strings.Join(i.Skills, ", "),
			metaDuration: strconv.FormatFloat(i.DurationHours, 'f', -1, 64),
			metaLevel:    i.Level,
			metaFormat:   i.Format,
			metaURL:      i.URL,
		},
	}
}

// ItemFromHit reads an item back out of a catalog search hit.
func ItemFromHit(h vectorindex.Hit) Item {
	duration, _ := strconv.ParseFloat(h.Metadata[metaDuration], 64)

	var skills []string
	if raw := h.Metadata[metaSkills]; raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}

	return Item{
		ID:            h.Metadata[metaID],
		Title:         h.Metadata[metaTitle],
		Provider:      h.Metadata[metaProvider],
		Skills:        skills,
		DurationHours: duration,
		Level:         h.Metadata[metaLevel],
		Format:        h.Metadata[metaFormat],
		URL:           h.Metadata[metaURL],
	}
}
