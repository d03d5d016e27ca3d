package taxonomy

import "github.com/coachable/course-coach/internal/vectorindex"

// NoMatchLabel is the sentinel some taxonomy exports use for concepts
// without a usable label. Matches carrying it are dropped.
const NoMatchLabel = "N/A"

// Metadata keys used for concept documents in the taxonomy collection.
const (
	metaLabel       = "preferred_label"
	metaURI         = "concept_uri"
	metaDescription = "description"
)

// SkillConcept is a canonical, identifier-bearing entry in the controlled
// skill taxonomy. Entries are immutable; this package only reads them.
type SkillConcept struct {
	PreferredLabel string `json:"preferredLabel"`
	ConceptURI     string `json:"conceptUri"`
	Description    string `json:"description"`
}

// MatchedSkill is a taxonomy concept grounded from a free-text phrase.
// RawSkill preserves the phrase exactly as the caller supplied it.
type MatchedSkill struct {
	RawSkill string `json:"rawSkill"`
	SkillConcept
}

// ConceptDocument converts a concept into an indexable document. Alternate
// labels are folded into the indexed text so they influence search without
// appearing on the struct.
func ConceptDocument(c SkillConcept, altLabels []string) vectorindex.Document {
	content := c.PreferredLabel
	for _, alt := range altLabels {
		content += ", " + alt
	}
	if c.Description != "" {
		content += ". " + c.Description
	}

	return vectorindex.Document{
		ID:      c.ConceptURI,
		Content: content,
		Metadata: map[string]string{
			metaLabel:       c.PreferredLabel,
			metaURI:         c.ConceptURI,
			metaDescription: c.Description,
		},
	}
}

// conceptFromHit reads a concept back out of a search hit.
func conceptFromHit(h vectorindex.Hit) SkillConcept {
	return SkillConcept{
		PreferredLabel: h.Metadata[metaLabel],
		ConceptURI:     h.Metadata[metaURI],
		Description:    h.Metadata[metaDescription],
	}
}
