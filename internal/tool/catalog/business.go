package catalog

import (
	"text/template"

	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/palette"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func businessPlan() *tool.Tool {
	return &tool.Tool{
		Category:    "business",
		Slug:        "business-plan",
		Name:        "Business Plan Generator",
		Description: "Produces an investor-ready business plan outline.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("businessName", "Business Name", "", "GreenLeaf Organics"),
			form.TextField("businessIdea", "Business Idea", "Describe it in one line", "Subscription boxes of local organic produce"),
			form.EnumField("industry", "Industry", "ecommerce", industries),
			form.EnumField("stage", "Stage", "startup", form.Catalog("idea", "startup", "growth", "established")),
			form.TextField("fundingGoal", "Funding Goal", "", "$250,000"),
			form.MultiField("markets", "Target Markets", []string{"national"},
				form.Catalog("local", "national", "international", "online")),
			form.FlagField("includeFinancials", "Include financials", "Financial Projections", true),
			form.FlagField("includeSWOT", "Include SWOT", "SWOT Analysis", true),
			form.FlagField("includeCompetitors", "Include competitors", "Competitive Landscape", false),
		),
		Lexicon: tool.Lexicon{
			"keywords": industryKeywords,
			"audience": industryAudience,
			"priority": {
				"idea":          "validate demand with a pilot and the first paying customers",
				"startup":       "reach product-market fit and repeatable acquisition",
				"growth":        "scale operations and expand into new markets",
				"established":   "improve margins and defend market share",
				tool.DefaultKey: "build a sustainable, profitable business",
			},
		},
		Template: `# Business Plan: {{.Text "businessName"}}

_Prepared {{.Date}}_

## Executive Summary

{{.Text "businessName"}}: {{.Text "businessIdea"}}. We operate in the {{.Label "industry"}} sector at the {{.Label "stage"}} stage and are raising {{.Text "fundingGoal"}}.

## Mission

Deliver {{.Lex "keywords" (.Text "industry")}} to {{.Lex "audience" (.Text "industry")}}.

## Target Markets

{{bullets (.Labels "markets") | fallback "- To be defined"}}

## Current Priority

Our focus this year is to {{.Lex "priority" (.Text "stage")}}.

## Use of Funds

| Area | Share |
|------|-------|
| Product | {{.Int 30 45}}% |
| Marketing | {{.Int 20 35}}% |
| Operations | {{.Int 10 20}}% |
{{- if .Flag "includeFinancials"}}

## Financial Projections

| Year | Revenue | Net margin |
|------|---------|------------|
| {{.Year}} | ${{.Int 80 400}}k | {{.Pct -20 5}}% |
| {{add .Year 1}} | ${{.Int 400 1200}}k | {{.Pct 2 12}}% |
| {{add .Year 2}} | ${{.Int 1200 4000}}k | {{.Pct 10 25}}% |
{{- end}}
{{- if .Flag "includeSWOT"}}

## SWOT Analysis

- **Strengths:** focused offer, lean team
- **Weaknesses:** limited brand awareness
- **Opportunities:** {{.Phrase}} demand in {{join (.Labels "markets") " and "}} markets
- **Threats:** larger incumbents, rising costs
{{- end}}
{{- if .Flag "includeCompetitors"}}

## Competitive Landscape

{{.Int 3 12}} direct competitors identified; the top three hold {{.Int 30 70}}% share.
{{- end}}
`,
	}
}

func brandIdentity() *tool.Tool {
	return &tool.Tool{
		Category:    "business",
		Slug:        "brand-identity",
		Name:        "Brand Identity Designer",
		Description: "Drafts brand guidelines with a generated color palette.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("brandName", "Brand Name", "", "Northwind"),
			form.TextField("mission", "Mission", "Why does the brand exist?", "Make sustainable travel simple"),
			form.EnumField("industry", "Industry", "hospitality", industries),
			form.MultiField("personality", "Personality", []string{"innovative", "trustworthy"},
				form.Catalog("innovative", "trustworthy", "playful", "elegant", "bold", "eco-conscious")),
			form.TextField("baseColor", "Base Color", "#RRGGBB", "#2a9d8f"),
			form.EnumField("paletteScheme", "Palette Scheme", "analogous",
				form.Catalog("complementary", "analogous", "triadic", "tetradic", "monochromatic")),
			form.FlagField("includePalette", "Include palette", "Color Palette", true),
			form.FlagField("includeTypography", "Include typography", "Typography System", true),
			form.FlagField("includeVoice", "Include voice guide", "Brand Voice Guidelines", false),
		),
		Lexicon: tool.Lexicon{
			"keywords": industryKeywords,
			"font": {
				"elegant":       "Playfair Display / Lato",
				"playful":       "Baloo 2 / Nunito",
				"bold":          "Bebas Neue / Inter",
				tool.DefaultKey: "Inter / Source Serif",
			},
		},
		Funcs: template.FuncMap{"palette": brandPalette},
		Template: `# {{.Text "brandName"}} Brand Guidelines

**Mission:** {{.Text "mission"}}
**Industry:** {{.Label "industry"}} ({{.Lex "keywords" (.Text "industry")}})
**Personality:** {{join (.Labels "personality") ", " | fallback "Not defined"}}
**Base color:** {{.Text "baseColor"}}

## Logo Usage

Keep clear space around the wordmark equal to the height of its first letter.
Minimum size: {{.Int 24 48}}px.
{{- if .Flag "includePalette"}}

## Color Palette

_{{.Label "paletteScheme"}} scheme_

| Hex | RGB | HSL |
|-----|-----|-----|
{{- range palette (.Text "baseColor") (.Text "paletteScheme")}}
| {{.Hex}} | {{.RGB}} | {{.HSL}} |
{{- end}}
{{- end}}
{{- if .Flag "includeTypography"}}

## Typography System

Primary / secondary: {{.Lex "font" (first (.List "personality"))}}
Base size {{.Int 15 18}}px, scale ratio 1.25
{{- end}}
{{- if .Flag "includeVoice"}}

## Brand Voice Guidelines

Write like a {{join (.List "personality") ", " | fallback "friendly"}} guide. Avoid jargon.
{{- end}}
`,
	}
}

// brandPalette renders a palette for the brand tool. An unparseable base
// color falls back to the default teal so rendering never fails on input.
func brandPalette(base, scheme string) []palette.Swatch {
	sc, err := palette.ParseScheme(scheme)
	if err != nil {
		sc = palette.Analogous
	}
	p, err := palette.Generate(base, sc, 5)
	if err != nil {
		p, _ = palette.Generate("#2a9d8f", sc, 5)
	}
	return p.Swatches
}
