package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func customerPersona() *tool.Tool {
	return &tool.Tool{
		Category:    "analytics",
		Slug:        "customer-persona",
		Name:        "Customer Persona Generator",
		Description: "Builds data-flavored buyer personas.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("businessName", "Business Name", "", "FitTrack"),
			form.TextField("product", "Product or Service", "", "A habit-tracking fitness app"),
			form.EnumField("industry", "Industry", "healthcare", industries),
			form.EnumField("segment", "Segment", "b2c", []form.Option{{Value: "b2c", Label: "B2C"}, {Value: "b2b", Label: "B2B"}}),
			form.EnumField("ageRange", "Age Range", "25-34", form.Catalog("18-24", "25-34", "35-44", "45-54", "55-plus")),
			form.EnumField("personaCount", "Personas", "2", form.Catalog("1", "2", "3")),
			form.FlagField("includeJourney", "Include journey", "Customer Journey Map", true),
			form.FlagField("includeChannels", "Include channels", "Preferred Channels", true),
			form.FlagField("includePainPoints", "Include pain points", "Pain Points & Objections", false),
		),
		Lexicon: tool.Lexicon{
			"audience": industryAudience,
			"names": {
				"1":             "Maya",
				"3":             "Maya, Jordan, Priya",
				tool.DefaultKey: "Maya, Jordan",
			},
			"role": {
				"b2b":           "Operations Manager",
				tool.DefaultKey: "Busy Professional",
			},
		},
		Template: `# Customer Personas for {{.Text "businessName"}}

Product: {{.Text "product"}}
Market: {{.Label "industry"}}, {{.Label "segment"}}, ages {{.Text "ageRange"}}
Typical buyers: {{.Lex "audience" (.Text "industry")}}
{{range $i, $name := split (.Lex "names" (.Text "personaCount"))}}
## Persona {{add $i 1}}: {{$name}}, the {{$.Lex "role" ($.Text "segment")}}

- Age: {{$.Text "ageRange"}}
- Income: ${{$.Int 45 160}}k
- Tech comfort: {{$.Int 3 10}}/10
- Goal: get more out of {{$.Text "product"}}
{{end}}
{{- if .Flag "includeJourney"}}
## Customer Journey Map

Awareness → Consideration → Purchase → Retention
Average time to convert: {{.Int 3 45}} days
{{end}}
{{- if .Flag "includeChannels"}}
## Preferred Channels

{{.Pick "Instagram" "LinkedIn" "YouTube"}} ({{.Pct 20 50}}%), email ({{.Pct 10 30}}%), search ({{.Pct 5 25}}%)
{{end}}
{{- if .Flag "includePainPoints"}}
## Pain Points & Objections

- "I don't have time to learn another tool."
- "Is {{.Text "businessName"}} worth the price?"
{{end}}`,
	}
}

func competitorAnalysis() *tool.Tool {
	return &tool.Tool{
		Category:    "analytics",
		Slug:        "competitor-analysis",
		Name:        "Competitor Analysis",
		Description: "Compares your company against named competitors.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("companyName", "Your Company", "", "Nimbus CRM"),
			form.TextField("market", "Market", "", "SMB customer relationship software"),
			form.ListField("competitors", "Competitors", []string{"Competitor A", "Competitor B"}),
			form.MultiField("focusAreas", "Focus Areas", []string{"pricing", "features"},
				form.Catalog("pricing", "features", "marketing", "customer-service", "technology")),
			form.FlagField("includeSWOT", "Include SWOT", "SWOT Matrix", true),
			form.FlagField("includePositioning", "Include positioning", "Positioning Map", false),
			form.FlagField("includeRecommendations", "Include recommendations", "Strategic Recommendations", true),
		),
		Lexicon: tool.Lexicon{
			"metric": {
				"pricing":          "entry price per seat",
				"features":         "feature coverage score",
				"marketing":        "share of voice",
				"customer-service": "support CSAT",
				"technology":       "platform uptime",
				tool.DefaultKey:    "overall score",
			},
		},
		Template: `# Competitor Analysis: {{.Text "companyName"}}

Market: {{.Text "market"}}
Competitors reviewed: {{join (.List "competitors") ", " | fallback "none listed"}}
Report date: {{.Date}}

## Scorecard

| Company |{{range .List "focusAreas"}} {{$.Lex "metric" .}} |{{end}}
|---------|{{range .List "focusAreas"}}---|{{end}}
| {{.Text "companyName"}} |{{range .List "focusAreas"}} {{$.Int 50 95}} |{{end}}
{{- range $c := .List "competitors"}}
| {{$c}} |{{range $.List "focusAreas"}} {{$.Int 40 95}} |{{end}}
{{- end}}
{{- if .Flag "includeSWOT"}}

## SWOT Matrix

| Strengths | Weaknesses |
|-----------|------------|
| Modern UX | Smaller partner network |

| Opportunities | Threats |
|---------------|---------|
| {{.Phrase | title}} | Price pressure |
{{- end}}
{{- if .Flag "includePositioning"}}

## Positioning Map

Axis X: price, Axis Y: ease of use. {{.Text "companyName"}} sits in the high-ease, mid-price quadrant.
{{- end}}
{{- if .Flag "includeRecommendations"}}

## Strategic Recommendations

1. Lead with {{first (.Labels "focusAreas") | fallback "product"}} in messaging.
2. Target customers churning from {{first (.List "competitors") | fallback "incumbents"}}.
3. Expected win-rate lift: {{.Pct 5 20}}%.
{{- end}}
`,
	}
}
