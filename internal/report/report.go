// Package report renders a recommendation batch as a markdown report, with
// optional standalone HTML export.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
)

// Report bundles everything one export covers.
type Report struct {
	Profile         *profile.UserProfile
	Recommendations []recommend.Recommendation
	Insights        *feedback.InsightReport
	GeneratedAt     time.Time
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Course Recommendations for %s\n\n", displayName(r.Profile))
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	if r.Profile.Goal != "" {
		fmt.Fprintf(&b, "**Goal:** %s\n\n", r.Profile.Goal)
	}
	if r.Profile.CompanyGoal != "" {
		fmt.Fprintf(&b, "**Company goal:** %s\n\n", r.Profile.CompanyGoal)
	}
	if len(r.Profile.MissingSkills) > 0 {
		b.WriteString("**Skills to develop:** ")
		b.WriteString(strings.Join(r.Profile.TopMissingSkillLabels(len(r.Profile.MissingSkills)), ", "))
		b.WriteString("\n\n")
	}

	if len(r.Recommendations) == 0 {
		b.WriteString("No courses to recommend right now.\n")
	} else {
		b.WriteString("## Recommended courses\n\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, rec.Title)
			fmt.Fprintf(&b, "- **Provider:** %s\n", rec.Provider)
			if rec.Level != "" {
				fmt.Fprintf(&b, "- **Level:** %s\n", rec.Level)
			}
			if rec.Format != "" {
				fmt.Fprintf(&b, "- **Format:** %s\n", rec.Format)
			}
			if rec.DurationHours > 0 {
				fmt.Fprintf(&b, "- **Duration:** %gh\n", rec.DurationHours)
			}
			if len(rec.Skills) > 0 {
				fmt.Fprintf(&b, "- **Skills:** %s\n", strings.Join(rec.Skills, ", "))
			}
			fmt.Fprintf(&b, "- **Confidence:** %.0f%%\n", rec.ConfidenceScore*100)
			if rec.URL != "" {
				fmt.Fprintf(&b, "- **Link:** %s\n", rec.URL)
			}
			if rec.Justification != "" {
				fmt.Fprintf(&b, "\n%s\n", rec.Justification)
			}
			b.WriteString("\n")
		}
	}

	if r.Insights != nil && r.Insights.Total > 0 {
		b.WriteString("## Feedback insights\n\n")
		fmt.Fprintf(&b, "%d feedback entries, %.0f%% rejection rate.\n\n", r.Insights.Total, r.Insights.RejectionRate*100)
		for _, p := range r.Insights.Patterns {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	return b.String()
}

// HTML renders the report as a standalone HTML page via goldmark.
func (r *Report) HTML() ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("rendering report body: %w", err)
	}

	tmpl, err := template.New("report").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, map[string]any{
		"Title": "Course Recommendations for " + displayName(r.Profile),
		"Body":  template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering report page: %w", err)
	}
	return out.Bytes(), nil
}

func displayName(p *profile.UserProfile) string {
	if p.Headline != "" {
		return p.Headline
	}
	return p.UserID
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
       max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
h1, h2, h3 { line-height: 1.25; }
h3 { margin-bottom: 0.25rem; }
ul { margin-top: 0.25rem; }
a { color: #0969da; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`
