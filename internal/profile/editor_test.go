package profile

import (
	"context"
	"testing"

	"github.com/coachable/course-coach/internal/llm"
	"github.com/coachable/course-coach/internal/taxonomy"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// fixedSearcher returns canned hits per query substring.
type fixedSearcher struct {
	hits map[string][]vectorindex.Hit
}

func (s *fixedSearcher) Query(_ context.Context, text string, _ int) ([]vectorindex.Hit, error) {
	return s.hits[text], nil
}

func conceptHit(label, uri string, distance float32) vectorindex.Hit {
	return vectorindex.Hit{
		ID:       uri,
		Content:  label,
		Metadata: map[string]string{"preferred_label": label, "concept_uri": uri},
		Distance: distance,
	}
}

func newTestEditor(searcher vectorindex.Searcher, provider llm.Provider) *Editor {
	matcher := taxonomy.NewMatcher(searcher, taxonomy.FixedPicker(0), 10, 0.15, nil)
	var extractor *Extractor
	if provider != nil {
		extractor = NewExtractor(provider, "test-model")
	}
	return NewEditor(matcher, extractor, nil)
}

func TestAddSkillGroundsInTaxonomy(t *testing.T) {
	searcher := &fixedSearcher{hits: map[string][]vectorindex.Hit{
		"go": {conceptHit("Go (programming language)", "esco:go", 0.1)},
	}}
	editor := newTestEditor(searcher, nil)
	p := Default("u1")

	got := editor.AddSkill(context.Background(), p, "Go")
	if got.ConceptURI != "esco:go" {
		t.Fatalf("ConceptURI = %q, want esco:go", got.ConceptURI)
	}
	if len(p.KnownSkills) != 1 {
		t.Fatalf("KnownSkills = %+v", p.KnownSkills)
	}

	// Adding the same concept again must not duplicate it.
	editor.AddSkill(context.Background(), p, "Go")
	if len(p.KnownSkills) != 1 {
		t.Errorf("duplicate add grew KnownSkills to %d", len(p.KnownSkills))
	}
}

func TestAddSkillFallsBackToCustomConcept(t *testing.T) {
	editor := newTestEditor(&fixedSearcher{}, nil)
	p := Default("u1")

	got := editor.AddSkill(context.Background(), p, "Underwater Basket Weaving")
	if got.ConceptURI != "custom:underwater-basket-weaving" {
		t.Errorf("ConceptURI = %q", got.ConceptURI)
	}
	if got.PreferredLabel != "Underwater Basket Weaving" {
		t.Errorf("PreferredLabel = %q", got.PreferredLabel)
	}
}

func TestAddSkillRemovesFromMissing(t *testing.T) {
	searcher := &fixedSearcher{hits: map[string][]vectorindex.Hit{
		"kubernetes": {conceptHit("Kubernetes", "esco:k8s", 0.1)},
	}}
	editor := newTestEditor(searcher, nil)
	p := Default("u1")
	p.MissingSkills = []taxonomy.SkillConcept{{PreferredLabel: "Kubernetes", ConceptURI: "esco:k8s"}}

	editor.AddSkill(context.Background(), p, "Kubernetes")
	if len(p.MissingSkills) != 0 {
		t.Errorf("MissingSkills = %+v, want empty", p.MissingSkills)
	}
}

func TestRemoveSkill(t *testing.T) {
	editor := newTestEditor(&fixedSearcher{}, nil)
	p := Default("u1")
	p.KnownSkills = []taxonomy.SkillConcept{
		{PreferredLabel: "Go", ConceptURI: "esco:go"},
		{PreferredLabel: "Python", ConceptURI: "esco:py"},
	}
	p.MissingSkills = []taxonomy.SkillConcept{
		{PreferredLabel: "Go", ConceptURI: "esco:go"},
	}

	if !editor.RemoveSkill(p, "go") {
		t.Fatal("RemoveSkill returned false")
	}
	if len(p.KnownSkills) != 1 || p.KnownSkills[0].PreferredLabel != "Python" {
		t.Errorf("KnownSkills = %+v", p.KnownSkills)
	}
	if len(p.MissingSkills) != 0 {
		t.Errorf("MissingSkills = %+v", p.MissingSkills)
	}
	if editor.RemoveSkill(p, "rust") {
		t.Error("removing an absent skill reported true")
	}
}

func TestSetGoalRefreshesMissingSkills(t *testing.T) {
	searcher := &fixedSearcher{hits: map[string][]vectorindex.Hit{
		"become a data engineer": {
			conceptHit("SQL", "esco:sql", 0.2),
			conceptHit("Data Pipelines", "esco:pipelines", 0.3),
		},
	}}
	editor := newTestEditor(searcher, nil)
	p := Default("u1")
	p.KnownSkills = []taxonomy.SkillConcept{{PreferredLabel: "SQL", ConceptURI: "esco:sql"}}

	editor.SetGoal(context.Background(), p, "become a data engineer")
	if p.Goal != "become a data engineer" {
		t.Errorf("Goal = %q", p.Goal)
	}
	if len(p.MissingSkills) != 1 || p.MissingSkills[0].ConceptURI != "esco:pipelines" {
		t.Errorf("MissingSkills = %+v, want only esco:pipelines", p.MissingSkills)
	}
}

type stubLLM struct {
	content string
	err     error
}

func (s *stubLLM) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func (s *stubLLM) Name() string { return "stub" }

func TestBuildFromBio(t *testing.T) {
	searcher := &fixedSearcher{hits: map[string][]vectorindex.Hit{
		"go":     {conceptHit("Go (programming language)", "esco:go", 0.1)},
		"docker": {conceptHit("Docker", "esco:docker", 0.1)},
		"ship a production service": {
			conceptHit("Kubernetes", "esco:k8s", 0.2),
		},
	}}
	provider := &stubLLM{content: `{
		"headline": "Backend engineer",
		"goal": "ship a production service",
		"known_skills": ["Go", "Docker"]
	}`}
	editor := newTestEditor(searcher, provider)
	p := Default("u1")

	err := editor.BuildFromBio(context.Background(), p, "I write Go services and deploy with Docker.")
	if err != nil {
		t.Fatalf("BuildFromBio: %v", err)
	}
	if p.Headline != "Backend engineer" {
		t.Errorf("Headline = %q", p.Headline)
	}
	if p.Goal != "ship a production service" {
		t.Errorf("Goal = %q", p.Goal)
	}
	if len(p.KnownSkills) != 2 {
		t.Errorf("KnownSkills = %+v", p.KnownSkills)
	}
	if len(p.MissingSkills) != 1 || p.MissingSkills[0].ConceptURI != "esco:k8s" {
		t.Errorf("MissingSkills = %+v", p.MissingSkills)
	}
}

func TestBuildFromBioWithoutExtractor(t *testing.T) {
	editor := newTestEditor(&fixedSearcher{}, nil)
	if err := editor.BuildFromBio(context.Background(), Default("u1"), "bio"); err == nil {
		t.Fatal("expected error when no extractor is configured")
	}
}
