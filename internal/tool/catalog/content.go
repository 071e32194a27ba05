package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func seoBlogWriter() *tool.Tool {
	return &tool.Tool{
		Category:    "content",
		Slug:        "seo-blog-writer",
		Name:        "SEO Blog Writer",
		Description: "Outlines and drafts a search-optimized blog post.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("topic", "Blog Topic", "What should the post cover?", "Remote team productivity"),
			form.TextField("primaryKeyword", "Primary Keyword", "", "remote work tools"),
			form.ListField("keywords", "Secondary Keywords", []string{"async communication", "time zones"},
				"async communication", "time zones", "collaboration", "productivity apps"),
			form.EnumField("audience", "Audience", "intermediate",
				form.Catalog("beginners", "intermediate", "experts", "business-owners")),
			form.EnumField("wordCount", "Target Length", "1500", form.Catalog("800", "1500", "2500")),
			form.EnumField("tone", "Tone", "professional", tones),
			form.FlagField("includeFAQ", "Include FAQ", "Frequently Asked Questions", true),
			form.FlagField("includeMeta", "Include meta tags", "SEO Meta Data", true),
			form.FlagField("includeLinks", "Include internal links", "Internal Linking Plan", false),
		),
		Lexicon: tool.Lexicon{
			"voice": toneVoice,
			"depth": {
				"beginners":       "explains every term and avoids jargon",
				"experts":         "skips the basics and cites benchmarks",
				"business-owners": "focuses on cost, time saved and ROI",
				tool.DefaultKey:   "balances fundamentals with practical tips",
			},
			"sections": {
				"800":           "3",
				"2500":          "7",
				tool.DefaultKey: "5",
			},
		},
		Template: `# {{title (.Text "topic")}}: The Complete Guide

*Primary keyword:* **{{.Text "primaryKeyword"}}**
*Secondary keywords:* {{join (.List "keywords") ", " | fallback "none"}}
*Length:* ~{{.Text "wordCount"}} words across {{.Lex "sections" (.Text "wordCount")}} sections
*Audience:* {{.Label "audience"}}, the draft {{.Lex "depth" (.Text "audience")}}
*Voice:* {{.Lex "voice" (.Text "tone")}}

## Introduction

{{.Text "topic"}} is reshaping how teams work. In this guide you'll learn how {{.Text "primaryKeyword"}} can help you get more done, with {{.Int 5 12}} practical steps you can apply today.

## Why It Matters

Teams that invest in {{.Text "primaryKeyword"}} report {{.Pct 10 40}}% higher output and {{.Int 2 9}} fewer hours lost each week.
{{range $i, $kw := .List "keywords"}}
## {{add $i 1}}. Getting {{title $kw}} Right

A short section on {{$kw}} and how it relates to {{$.Text "topic"}}.
{{end}}
## Conclusion

Start small, measure results and iterate.
{{- if .Flag "includeFAQ"}}

## Frequently Asked Questions

**What is {{.Text "primaryKeyword"}}?**
A set of practices and tools that support {{.Text "topic"}}.

**How long until I see results?**
Most teams notice a difference within {{.Int 2 6}} weeks.
{{- end}}
{{- if .Flag "includeMeta"}}

## SEO Meta Data

- Title tag: {{title (.Text "primaryKeyword")}} | {{title (.Text "topic")}}
- Meta description: Learn {{.Text "primaryKeyword"}} strategies that work in {{.Year}}.
- Slug: /blog/{{kebab (.Text "topic")}}
{{- end}}
{{- if .Flag "includeLinks"}}

## Internal Linking Plan

- Link "{{.Text "primaryKeyword"}}" to your pillar page
- Link the conclusion to a related case study
{{- end}}
`,
	}
}

func productDescription() *tool.Tool {
	return &tool.Tool{
		Category:    "content",
		Slug:        "product-description",
		Name:        "Product Description Writer",
		Description: "Writes store-ready product copy.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("productName", "Product Name", "", "AeroBrew Coffee Maker"),
			form.TextField("targetCustomer", "Target Customer", "", "Busy professionals who love coffee"),
			form.ListField("keyFeatures", "Key Features", []string{"Brews in 60 seconds", "Self-cleaning"}),
			form.EnumField("style", "Writing Style", "storytelling",
				form.Catalog("luxury", "technical", "playful", "minimalist", "storytelling")),
			form.EnumField("platform", "Sales Platform", "shopify", form.Catalog("amazon", "shopify", "etsy", "website")),
			form.FlagField("includeSpecs", "Include specs", "Technical Specifications", true),
			form.FlagField("includeTags", "Include search tags", "Search Tags", true),
			form.FlagField("includeVariants", "Include short versions", "Alternate Versions", false),
		),
		Lexicon: tool.Lexicon{
			"opener": {
				"luxury":        "Crafted for those who expect more.",
				"technical":     "Engineered for precision and repeatable results.",
				"playful":       "Say hello to your new favorite thing.",
				"minimalist":    "Everything you need. Nothing you don't.",
				tool.DefaultKey: "Every great morning starts with a story.",
			},
			"platformNote": {
				"amazon":        "Bullet points first, keyword-rich title under 200 characters",
				"etsy":          "Personal tone, mention handmade details",
				tool.DefaultKey: "Scannable paragraphs with a clear call to action",
			},
		},
		Template: `# {{.Text "productName"}}

{{.Lex "opener" (.Text "style")}} {{.Text "productName"}} is made for {{.Text "targetCustomer"}}.

## Highlights
{{if empty (.List "keyFeatures")}}- Thoughtfully designed for everyday use{{else}}{{bullets (.List "keyFeatures")}}{{end}}

## Why You'll Love It

Rated {{.Pct 4.2 4.9}}/5 by {{.Int 100 4000}} customers. Style: {{.Label "style"}}.

_Listing guidance for {{.Label "platform"}}: {{.Lex "platformNote" (.Text "platform")}}._
{{- if .Flag "includeSpecs"}}

## Technical Specifications

| Spec | Value |
|------|-------|
| Weight | {{.Pct 0.5 4}} kg |
| Warranty | {{.Int 1 3}} years |
| Model | {{upper (kebab (.Text "productName"))}}-{{.Int 100 999}} |
{{- end}}
{{- if .Flag "includeTags"}}

## Search Tags

{{kebab (.Text "productName")}}, {{join (.List "keyFeatures") ", " | lower}}
{{- end}}
{{- if .Flag "includeVariants"}}

## Alternate Versions

**Short:** {{.Text "productName"}}, made for {{.Text "targetCustomer"}}.
**Tweet:** Meet {{.Text "productName"}}. You'll wonder how you lived without it.
{{- end}}
`,
	}
}
