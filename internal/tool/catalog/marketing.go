package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func emailMarketing() *tool.Tool {
	return &tool.Tool{
		Category:    "marketing",
		Slug:        "email-marketing",
		Name:        "Email Marketing AI",
		Description: "Builds an automated email campaign engine for your brand.",
		Format:      tool.FormatCode,
		Language:    "typescript",
		Schema: form.MustSchema(
			form.TextField("brandName", "Brand Name", "e.g. Acme", "TechCorp"),
			form.EnumField("industry", "Industry", "technology", industries),
			form.EnumField("tone", "Tone", "professional", tones),
			form.MultiField("emailTypes", "Email Types", []string{"welcome", "newsletter"},
				form.Catalog("welcome", "newsletter", "promotional", "abandoned-cart", "re-engagement", "transactional")),
			form.TextField("targetAudience", "Target Audience", "Who reads these emails?", "Growing businesses"),
			form.FlagField("includeABTesting", "Include A/B testing", "A/B Testing Framework", true),
			form.FlagField("includeAnalytics", "Include analytics", "Campaign Analytics Dashboard", true),
			form.FlagField("includePersonalization", "Include personalization", "Dynamic Personalization Engine", false),
		),
		Lexicon: tool.Lexicon{
			"keywords": industryKeywords,
			"voice":    toneVoice,
			"subject": {
				"welcome":        "Welcome aboard! Here's what happens next",
				"newsletter":     "This month's highlights, curated for you",
				"promotional":    "Limited time: an offer made for you",
				"abandoned-cart": "You left something behind",
				"re-engagement":  "We miss you, here's a little something",
				"transactional":  "Your receipt and order details",
				tool.DefaultKey:  "News from our team",
			},
		},
		Template: `/**
 * {{.ToolName}} for {{.Text "brandName"}}
 * Industry: {{.Label "industry"}} | Tone: {{.Label "tone"}}
 * Audience: {{.Text "targetAudience"}}
 * Generated {{.Date}}
 */

import { EmailClient, Segment, Campaign } from '@mailkit/sdk';

// Decorative sample credential, not a live key.
const API_KEY = '{{.Key "mk_live_"}}';

export class {{pascal (.Text "brandName")}}EmailMarketing {
  private client = new EmailClient({ apiKey: API_KEY });
  private brand = '{{.Text "brandName"}}';
  private voice = '{{.Lex "voice" (.Text "tone")}}';
  private keywords = '{{.Lex "keywords" (.Text "industry")}}'.split(', ');

  readonly emailTypes = [{{quoted (.List "emailTypes")}}];

  async buildCampaigns(audience: Segment): Promise<Campaign[]> {
    const campaigns: Campaign[] = [];
{{- range .List "emailTypes"}}
    campaigns.push(await this.compose('{{.}}', '{{$.Lex "subject" .}}', audience));
{{- end}}
    return campaigns;
  }

  private async compose(type: string, subject: string, audience: Segment): Promise<Campaign> {
    return this.client.campaigns.create({
      type,
      subject,
      audience,
      tone: this.voice,
      footer: this.brand + ' | ' + this.keywords.join(' · '),
    });
  }
{{- if .Flag "includeABTesting"}}

  // ===== A/B Testing Framework =====
  async runSplitTest(campaign: Campaign) {
    const variants = ['A', 'B'].map((v) => ({ ...campaign, variant: v }));
    const winner = await this.client.experiments.run(variants, {
      metric: 'open_rate',
      sampleSize: {{.Int 500 5000}},
      confidence: 0.95,
    });
    return winner; // expected uplift: {{.Pct 3 18}}%
  }
{{- end}}
{{- if .Flag "includeAnalytics"}}

  // ===== Campaign Analytics Dashboard =====
  async metrics() {
    return {
      openRate: {{.Pct 18 45}},
      clickRate: {{.Pct 2 12}},
      conversions: {{.Int 40 900}},
      unsubscribes: {{.Pct 0.1 1.5}},
    };
  }
{{- end}}
{{- if .Flag "includePersonalization"}}

  // ===== Dynamic Personalization Engine =====
  personalize(template: string, contact: Record<string, string>) {
    return template
      .replace('{first_name}', contact.firstName ?? 'there')
      .replace('{company}', contact.company ?? this.brand);
  }
{{- end}}
}

export default new {{pascal (.Text "brandName")}}EmailMarketing();
`,
	}
}

func socialMediaContent() *tool.Tool {
	return &tool.Tool{
		Category:    "marketing",
		Slug:        "social-media-content",
		Name:        "Social Media Content Generator",
		Description: "Drafts a cross-platform content calendar.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("brandName", "Brand Name", "e.g. Acme", "Bright Studio"),
			form.TextField("topic", "Campaign Topic", "What are you posting about?", "Spring product launch"),
			form.MultiField("platforms", "Platforms", []string{"instagram", "linkedin"},
				form.Catalog("instagram", "twitter", "linkedin", "facebook", "tiktok")),
			form.EnumField("tone", "Tone", "friendly", tones),
			form.EnumField("postCount", "Posts per Platform", "3", form.Catalog("1", "3", "5")),
			form.FlagField("includeHashtags", "Include hashtags", "Hashtag Strategy", true),
			form.FlagField("includeSchedule", "Include schedule", "Posting Schedule", true),
			form.FlagField("includeEngagement", "Include engagement tips", "Engagement Playbook", false),
		),
		Lexicon: tool.Lexicon{
			"voice": toneVoice,
			"spec": {
				"instagram":     "1080x1080 image or 4:5 carousel, caption up to 2,200 characters",
				"twitter":       "280 characters, 16:9 image optional",
				"linkedin":      "1200x627 image, 150-300 word post",
				"facebook":      "1200x630 image, short caption with link",
				"tiktok":        "9:16 vertical video, 15-60 seconds",
				tool.DefaultKey: "platform default dimensions",
			},
			"bestTime": {
				"instagram":     "Tue/Thu 11:00",
				"twitter":       "Mon-Fri 09:00",
				"linkedin":      "Wed 08:00",
				"facebook":      "Fri 13:00",
				"tiktok":        "Sat 19:00",
				tool.DefaultKey: "weekdays 10:00",
			},
			"hook": {
				"1":             "One big announcement",
				"3":             "Teaser, reveal, recap",
				"5":             "Teaser, reveal, behind the scenes, testimonial, recap",
				tool.DefaultKey: "Teaser, reveal, recap",
			},
		},
		Template: `# Social Media Content Plan: {{.Text "brandName"}}

**Topic:** {{.Text "topic"}}
**Voice:** {{.Lex "voice" (.Text "tone")}}
**Posts per platform:** {{.Text "postCount"}} ({{.Lex "hook" (.Text "postCount")}})
**Prepared:** {{.Date}}
{{range .List "platforms"}}
## {{title .}}

_Format: {{$.Lex "spec" .}}_

> {{$.Text "topic"}} is here! {{$.Text "brandName"}} has something new for you. Tap the link to see more.

Estimated reach: {{$.Int 1000 50000}} impressions
{{else}}
_No platforms selected._
{{end}}
{{- if .Flag "includeHashtags"}}
## Hashtag Strategy

#{{pascal (.Text "brandName")}} #{{pascal (.Text "topic")}} #{{.Pick "NewArrivals" "BehindTheScenes" "SmallBusiness"}}
{{end}}
{{- if .Flag "includeSchedule"}}
## Posting Schedule

| Platform | Best time |
|----------|-----------|
{{- range .List "platforms"}}
| {{title .}} | {{$.Lex "bestTime" .}} |
{{- end}}
{{end}}
{{- if .Flag "includeEngagement"}}
## Engagement Playbook

1. Reply to every comment within {{.Int 1 4}} hours.
2. Pin the best-performing post for a week.
3. Re-share user content with credit.
{{end}}`,
	}
}

func adCopy() *tool.Tool {
	return &tool.Tool{
		Category:    "marketing",
		Slug:        "ad-copy-generator",
		Name:        "Ad Copy Generator",
		Description: "Writes ad variations for paid campaigns.",
		Format:      tool.FormatMarkdown,
		Schema: form.MustSchema(
			form.TextField("productName", "Product Name", "", "CloudSync Pro"),
			form.TextField("usp", "Unique Selling Point", "What makes it special?", "Sync files in under a second"),
			form.EnumField("platform", "Ad Platform", "google",
				form.Catalog("google", "facebook", "instagram", "linkedin", "twitter")),
			form.EnumField("objective", "Campaign Objective", "conversions",
				form.Catalog("awareness", "traffic", "conversions", "leads")),
			form.EnumField("tone", "Tone", "urgent", tones),
			form.FlagField("includeCTA", "Include CTA variants", "Call-to-Action Variants", true),
			form.FlagField("includeBudget", "Include budget", "Budget Recommendations", false),
			form.FlagField("includeTargeting", "Include targeting", "Audience Targeting", true),
		),
		Lexicon: tool.Lexicon{
			"limits": {
				"google":        "Headline 30 chars, description 90 chars",
				"facebook":      "Primary text 125 chars, headline 40 chars",
				"instagram":     "Caption 125 chars, square creative",
				"linkedin":      "Intro text 150 chars, headline 70 chars",
				tool.DefaultKey: "Keep it short and scannable",
			},
			"cta": {
				"awareness":     "Learn More",
				"traffic":       "Visit Site",
				"conversions":   "Buy Now",
				"leads":         "Get a Free Quote",
				tool.DefaultKey: "Learn More",
			},
		},
		Template: `# Ad Copy: {{.Text "productName"}}

Platform: **{{.Label "platform"}}** ({{.Lex "limits" (.Text "platform")}})
Objective: **{{.Label "objective"}}** | Tone: **{{.Label "tone"}}**

## Variation 1
**{{.Text "productName"}}: {{.Text "usp"}}**
Stop waiting. {{.Text "usp"}}. {{.Lex "cta" (.Text "objective")}} today.

## Variation 2
**Why teams switch to {{.Text "productName"}}**
Join {{.Int 1000 20000}}+ customers who already rely on it. {{.Lex "cta" (.Text "objective")}}.

## Variation 3
**{{.Phrase | title}}, zero hassle**
{{.Text "productName"}} delivers results from day one.
{{- if .Flag "includeCTA"}}

## Call-to-Action Variants
- {{.Lex "cta" (.Text "objective")}}
- Start Free Trial
- See It in Action
{{- end}}
{{- if .Flag "includeBudget"}}

## Budget Recommendations
Daily budget: ${{.Int 20 200}} | Expected CPC: ${{.Pct 0.4 3.5}} | Projected CTR: {{.Pct 1 6}}%
{{- end}}
{{- if .Flag "includeTargeting"}}

## Audience Targeting
Interests: productivity, SaaS, remote work
Lookalike audience size: {{.Int 1 5}}%
{{- end}}
`,
	}
}
