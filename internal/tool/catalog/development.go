package catalog

import (
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

func chatbotBuilder() *tool.Tool {
	return &tool.Tool{
		Category:    "development",
		Slug:        "chatbot-builder",
		Name:        "AI Chatbot Builder",
		Description: "Scaffolds a conversational assistant for your business.",
		Format:      tool.FormatCode,
		Language:    "python",
		Schema: form.MustSchema(
			form.TextField("botName", "Bot Name", "", "Ava"),
			form.TextField("companyName", "Company Name", "", "Acme Support"),
			form.EnumField("purpose", "Purpose", "customer-support",
				form.Catalog("customer-support", "sales", "faq", "booking", "onboarding")),
			form.EnumField("personality", "Personality", "friendly",
				form.Catalog("friendly", "professional", "witty", "empathetic")),
			form.MultiField("channels", "Channels", []string{"website"},
				form.Catalog("website", "slack", "whatsapp", "messenger", "discord")),
			form.MultiField("languages", "Languages", []string{"english"},
				form.Catalog("english", "spanish", "french", "german")),
			form.FlagField("includeNLU", "Include intent recognition", "Intent Recognition", true),
			form.FlagField("includeHandoff", "Include human handoff", "Human Handoff", false),
			form.FlagField("includeAnalytics", "Include analytics", "Conversation Analytics", true),
		),
		Lexicon: tool.Lexicon{
			"greeting": {
				"customer-support": "Hi! I'm here to help with any issue you have.",
				"sales":            "Hello! Looking for the right plan? I can help you choose.",
				"booking":          "Hi there! Want to book an appointment?",
				"onboarding":       "Welcome! Let's get your account set up.",
				tool.DefaultKey:    "Hello! Ask me anything.",
			},
			"temperature": {
				"witty":         "0.9",
				"professional":  "0.3",
				tool.DefaultKey: "0.6",
			},
		},
		Template: `"""
{{.Text "botName"}}: {{.Label "purpose"}} assistant for {{.Text "companyName"}}
Generated {{.Date}}
"""

from dataclasses import dataclass, field

# Decorative sample credential, not a live key.
API_KEY = "{{.Key "cb_demo_"}}"


@dataclass
class {{pascal (.Text "botName")}}Config:
    name: str = "{{.Text "botName"}}"
    company: str = "{{.Text "companyName"}}"
    personality: str = "{{.Text "personality"}}"
    temperature: float = {{.Lex "temperature" (.Text "personality")}}
    channels: list = field(default_factory=lambda: [{{quoted (.List "channels")}}])
    languages: list = field(default_factory=lambda: [{{quoted (.List "languages")}}])


class {{pascal (.Text "botName")}}Bot:
    greeting = "{{.Lex "greeting" (.Text "purpose")}}"

    def __init__(self, config=None):
        self.config = config or {{pascal (.Text "botName")}}Config()
        self.history = []

    def reply(self, message: str) -> str:
        self.history.append(message)
{{- if .Flag "includeNLU"}}
        intent = self.detect_intent(message)
        if intent in self.handlers:
            return self.handlers[intent](message)
{{- end}}
{{- if .Flag "includeHandoff"}}
        if self.needs_human(message):
            return self.handoff(message)
{{- end}}
        return f"{self.config.name} from {self.config.company}: thanks for your message!"
{{- if .Flag "includeNLU"}}

    # ----- Intent Recognition -----
    handlers = {}

    def detect_intent(self, message: str) -> str:
        keywords = {"price": "pricing", "book": "booking", "refund": "billing"}
        for word, intent in keywords.items():
            if word in message.lower():
                return intent
        return "fallback"  # confidence threshold {{.Pct 0.6 0.9}}
{{- end}}
{{- if .Flag "includeHandoff"}}

    # ----- Human Handoff -----
    def needs_human(self, message: str) -> bool:
        return "agent" in message.lower() or len(self.history) > {{.Int 5 10}}

    def handoff(self, message: str) -> str:
        return "Connecting you with a member of the {{.Text "companyName"}} team..."
{{- end}}
{{- if .Flag "includeAnalytics"}}

    # ----- Conversation Analytics -----
    def stats(self) -> dict:
        return {
            "messages": len(self.history),
            "resolution_rate": {{.Pct 60 95}},
            "avg_response_ms": {{.Int 120 900}},
        }
{{- end}}


if __name__ == "__main__":
    bot = {{pascal (.Text "botName")}}Bot()
    print(bot.greeting)
`,
	}
}

func landingPageBuilder() *tool.Tool {
	return &tool.Tool{
		Category:    "development",
		Slug:        "landing-page-builder",
		Name:        "Landing Page Builder",
		Description: "Generates a React landing page component.",
		Format:      tool.FormatCode,
		Language:    "tsx",
		Schema: form.MustSchema(
			form.TextField("productName", "Product Name", "", "LaunchPad"),
			form.TextField("headline", "Headline", "", "Ship your next idea this weekend"),
			form.TextField("ctaText", "Button Text", "", "Get Started"),
			form.EnumField("style", "Visual Style", "modern",
				form.Catalog("modern", "minimal", "bold", "corporate", "playful")),
			form.MultiField("sections", "Page Sections", []string{"hero", "features", "pricing"},
				form.Catalog("hero", "features", "pricing", "testimonials", "faq", "contact")),
			form.FlagField("includeAnimations", "Include animations", "Scroll Animations", true),
			form.FlagField("includeDarkMode", "Include dark mode", "Dark Mode Support", false),
			form.FlagField("includeForm", "Include lead form", "Lead Capture Form", true),
		),
		Lexicon: tool.Lexicon{
			"palette": {
				"minimal":       "bg-white text-gray-900",
				"bold":          "bg-black text-yellow-300",
				"corporate":     "bg-slate-50 text-slate-800",
				"playful":       "bg-pink-50 text-purple-700",
				tool.DefaultKey: "bg-gradient-to-br from-indigo-500 to-purple-600 text-white",
			},
		},
		Template: `// {{.Text "productName"}} landing page ({{.Label "style"}} style), generated {{.Date}}
import React from 'react';
{{- if .Flag "includeAnimations"}}
import { motion } from 'framer-motion';
{{- end}}

const sections = [{{quoted (.List "sections")}}];

export default function {{pascal (.Text "productName")}}Landing() {
  return (
    <main className="{{.Lex "palette" (.Text "style")}}">
      <section className="hero">
        <h1>{{.Text "headline"}}</h1>
        <p>{{.Text "productName"}} is trusted by {{.Int 500 25000}} teams.</p>
        <button>{{.Text "ctaText"}}</button>
      </section>
{{- range .List "sections"}}{{if ne . "hero"}}
      <section id="{{.}}">{/* {{title .}} */}</section>
{{- end}}{{end}}
{{- if .Flag "includeForm"}}

      {/* ===== Lead Capture Form ===== */}
      <form action="/api/leads" method="post">
        <input type="email" name="email" placeholder="you@company.com" required />
        <button type="submit">{{.Text "ctaText"}}</button>
      </form>
{{- end}}
    </main>
  );
}
{{- if .Flag "includeAnimations"}}

// ===== Scroll Animations =====
export const fadeIn = {
  hidden: { opacity: 0, y: {{.Int 10 40}} },
  visible: { opacity: 1, y: 0, transition: { duration: 0.{{.Int 3 8}} } },
};
{{- end}}
{{- if .Flag "includeDarkMode"}}

// ===== Dark Mode Support =====
export function useTheme() {
  const [dark, setDark] = React.useState(false);
  return { dark, toggle: () => setDark((d) => !d) };
}
{{- end}}
`,
	}
}

func apiGenerator() *tool.Tool {
	return &tool.Tool{
		Category:    "development",
		Slug:        "api-generator",
		Name:        "REST API Generator",
		Description: "Scaffolds a CRUD API for one resource.",
		Format:      tool.FormatCode,
		Language:    "typescript",
		Schema: form.MustSchema(
			form.TextField("apiName", "API Name", "", "Inventory Service"),
			form.TextField("resource", "Resource Name", "singular, e.g. product", "product"),
			form.EnumField("database", "Database", "postgresql",
				form.Catalog("postgresql", "mongodb", "mysql", "sqlite")),
			form.MultiField("endpoints", "Endpoints", []string{"list", "get", "create", "update", "delete"},
				form.Catalog("list", "get", "create", "update", "delete")),
			form.FlagField("includeAuth", "Include auth", "Authentication Middleware", true),
			form.FlagField("includeValidation", "Include validation", "Request Validation", true),
			form.FlagField("includeDocs", "Include docs", "OpenAPI Documentation", false),
			form.FlagField("includeRateLimit", "Include rate limiting", "Rate Limiting", false),
		),
		Lexicon: tool.Lexicon{
			"driver": {
				"mongodb":       "mongoose",
				"mysql":         "mysql2",
				"sqlite":        "better-sqlite3",
				tool.DefaultKey: "pg",
			},
			"route": {
				"list":          "router.get('/', handlers.list);",
				"get":           "router.get('/:id', handlers.get);",
				"create":        "router.post('/', handlers.create);",
				"update":        "router.put('/:id', handlers.update);",
				"delete":        "router.delete('/:id', handlers.remove);",
				tool.DefaultKey: "",
			},
		},
		Template: `/**
 * {{.Text "apiName"}}: REST API for the "{{.Text "resource"}}" resource
 * Database: {{.Label "database"}} (driver: {{.Lex "driver" (.Text "database")}})
 * Generated {{.Date}}
 */
import express from 'express';
import * as handlers from './{{kebab (.Text "resource")}}.handlers';

const router = express.Router();
{{- if .Flag "includeAuth"}}

// ===== Authentication Middleware =====
router.use((req, res, next) => {
  const token = req.headers.authorization?.replace('Bearer ', '');
  if (token !== process.env.API_TOKEN) return res.status(401).json({ error: 'unauthorized' });
  next();
});
{{- end}}
{{- if .Flag "includeRateLimit"}}

// ===== Rate Limiting =====
router.use(rateLimit({ windowMs: 60_000, max: {{.Int 60 600}} }));
{{- end}}
{{- if .Flag "includeValidation"}}

// ===== Request Validation =====
export const {{camel (.Text "resource")}}Schema = {
  name: { type: 'string', required: true },
  price: { type: 'number', min: 0 },
};
{{- end}}

{{range .List "endpoints"}}{{$.Lex "route" .}}
{{end}}
export default router;
{{- if .Flag "includeDocs"}}

// ===== OpenAPI Documentation =====
export const openapi = {
  openapi: '3.0.3',
  info: { title: '{{.Text "apiName"}}', version: '1.{{.Int 0 9}}.0' },
  paths: { '/{{kebab (.Text "resource")}}s': {} },
};
{{- end}}
`,
	}
}
