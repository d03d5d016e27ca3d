package catalog

import (
	"reflect"
	"testing"

	"github.com/coachable/course-coach/internal/vectorindex"
)

func hitFromDoc(doc vectorindex.Document) vectorindex.Hit {
	return vectorindex.Hit{ID: doc.ID, Content: doc.Content, Metadata: doc.Metadata}
}

func TestItemDocumentRoundTrip(t *testing.T) {
	item := Item{
		ID:            "course-42",
		Title:         "Practical SQL for Analysts",
		Provider:      "DataCamp",
		Skills:        []string{"SQL", "data analysis"},
		DurationHours: 12.5,
		Level:         "Intermediate",
		Format:        "self-paced",
		URL:           "https://example.com/sql",
	}

	doc := item.Document()
	if doc.ID != "course-42" {
		t.Errorf("doc ID = %q", doc.ID)
	}
	if doc.Content != "Practical SQL for Analysts. Skills: SQL, data analysis" {
		t.Errorf("content = %q", doc.Content)
	}

	restored := ItemFromHit(hitFromDoc(doc))
	item.Description = "" // description is folded into content, not metadata
	if !reflect.DeepEqual(restored, item) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", restored, item)
	}
}

func TestItemFromHitMissingFields(t *testing.T) {
	restored := ItemFromHit(hitFromDoc(Item{ID: "bare", Title: "Bare"}.Document()))
	if restored.ID != "bare" || restored.Title != "Bare" {
		t.Errorf("restored = %+v", restored)
	}
	if restored.DurationHours != 0 || restored.Skills != nil {
		t.Errorf("expected zero values, got %+v", restored)
	}
}
