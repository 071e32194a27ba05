package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func jobDescription() *tool.Tool {
	return &tool.Tool{
		Category:    "hr",
		Slug:        "job-description",
		Name:        "Job Description Writer",
		Description: "Writes an inclusive job posting.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("jobTitle", "Job Title", "", "Senior Backend Engineer"),
			form.TextField("companyName", "Company", "", "Acme Labs"),
			form.TextField("location", "Location", "", "Remote (EU)"),
			form.EnumField("department", "Department", "engineering",
				form.Catalog("engineering", "marketing", "sales", "design", "operations", "people")),
			form.EnumField("level", "Level", "senior", form.Catalog("entry", "mid", "senior", "lead", "director")),
			form.EnumField("employmentType", "Employment Type", "full-time",
				form.Catalog("full-time", "part-time", "contract", "internship")),
			form.ListField("skills", "Required Skills", []string{"Go", "PostgreSQL", "Distributed systems"}),
			form.FlagField("includeSalary", "Include compensation", "Compensation & Benefits", true),
			form.FlagField("includeCulture", "Include culture", "Life at the Company", false),
			form.FlagField("includeEEO", "Include EEO statement", "Equal Opportunity Statement", true),
		),
		Lexicon: tool.Lexicon{
			"years": {
				"entry":         "0-2",
				"mid":           "2-5",
				"senior":        "5+",
				"lead":          "7+",
				"director":      "10+",
				tool.DefaultKey: "3+",
			},
			"salary": {
				"entry":         "55",
				"senior":        "120",
				"lead":          "145",
				"director":      "180",
				tool.DefaultKey: "85",
			},
		},
		Template: `# {{.Text "jobTitle"}}

**{{.Text "companyName"}}** · {{.Label "department"}} · {{.Label "employmentType"}} · {{.Text "location"}}

## About the Role

We're looking for a {{.Label "level"}}-level {{.Text "jobTitle"}} with {{.Lex "years" (.Text "level")}} years of experience to join our {{.Label "department"}} team of {{.Int 4 40}}.

## What You'll Do

- Own projects end to end
- Collaborate across teams
- Mentor and learn from peers

## What You'll Bring

{{bullets (.List "skills") | fallback "- A willingness to learn"}}
{{- if .Flag "includeSalary"}}

## Compensation & Benefits

- Base salary from ${{.Lex "salary" (.Text "level")}}k
- {{.Int 20 30}} days paid time off
- Learning budget of ${{.Int 1 3}},000 per year
{{- end}}
{{- if .Flag "includeCulture"}}

## Life at the Company

{{.Text "companyName"}} values ownership, kindness and {{.Phrase}}.
{{- end}}
{{- if .Flag "includeEEO"}}

## Equal Opportunity Statement

{{.Text "companyName"}} is an equal opportunity employer and welcomes applicants from all backgrounds.
{{- end}}
`,
	}
}
