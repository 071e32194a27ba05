// Package catalog holds the built-in generator tools.
package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

// Tools returns fresh, uncompiled descriptors of every built-in tool.
func Tools() []*tool.Tool {
	return []*tool.Tool{
		emailMarketing(),
		socialMediaContent(),
		adCopy(),
		seoBlogWriter(),
		productDescription(),
		businessPlan(),
		brandIdentity(),
		chatbotBuilder(),
		landingPageBuilder(),
		apiGenerator(),
		customerPersona(),
		competitorAnalysis(),
		jobDescription(),
	}
}

// New returns a registry of the built-in tools.
func New() (*tool.Registry, error) {
	return tool.NewRegistry(Tools()...)
}

// shared option catalogs
var (
	industries = form.Catalog(
		"technology", "ecommerce", "healthcare", "finance", "education",
		"real-estate", "hospitality", "manufacturing",
	)
	tones = form.Catalog("professional", "friendly", "casual", "urgent", "playful")
)

// industry lexicon tables reused by several tools
var (
	industryKeywords = tool.Table{
		"technology":    "innovation, scalability, automation, cloud-native",
		"ecommerce":     "conversion, cart recovery, loyalty, fast shipping",
		"healthcare":    "patient outcomes, compliance, telehealth, care quality",
		"finance":       "security, trust, returns, regulatory clarity",
		"education":     "learning outcomes, engagement, accessibility, mentorship",
		"real-estate":   "location, market value, curb appeal, investment",
		"hospitality":   "guest experience, comfort, reviews, repeat stays",
		tool.DefaultKey: "quality, value, reliability, customer focus",
	}
	industryAudience = tool.Table{
		"technology":    "CTOs, engineering leads and early adopters",
		"ecommerce":     "online shoppers and repeat buyers",
		"healthcare":    "patients, caregivers and clinic administrators",
		"finance":       "investors, account holders and finance teams",
		"education":     "students, parents and educators",
		tool.DefaultKey: "small business owners and decision makers",
	}
	toneVoice = tool.Table{
		"friendly":      "warm and approachable",
		"casual":        "relaxed and conversational",
		"urgent":        "direct and action-oriented",
		"playful":       "witty and lighthearted",
		tool.DefaultKey: "clear, confident and professional",
	}
)
