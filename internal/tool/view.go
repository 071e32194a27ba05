package tool

import (
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/form"
)

// view is the dot of every tool template.
type view struct {
	tool  *Tool
	state *form.State
	deco  decor.Provider
	now   time.Time
}

func (v view) Text(name string) string   { return v.state.Text(name) }
func (v view) Flag(name string) bool     { return v.state.Flag(name) }
func (v view) List(name string) []string { return v.state.List(name) }
func (v view) Has(name, option string) bool {
	return v.state.Contains(name, option)
}

// Label returns the display label of an enum field's current value.
func (v view) Label(name string) string {
	f, _ := v.tool.Schema.Field(name)
	return f.OptionLabel(v.state.Text(name))
}

// Labels returns display labels of a multi-select's values.
func (v view) Labels(name string) []string {
	f, _ := v.tool.Schema.Field(name)
	vals := v.state.List(name)
	out := make([]string, len(vals))
	for i, val := range vals {
		out[i] = f.OptionLabel(val)
	}
	return out
}

func (v view) Lex(table, key string) string { return v.tool.Lexicon.Lookup(table, key) }

func (v view) Int(min, max int) int          { return v.deco.Int(min, max) }
func (v view) Pick(options ...string) string { return v.deco.Pick(options) }
func (v view) Phrase() string                { return v.deco.Phrase() }
func (v view) Key(prefix string) string      { return v.deco.Key(prefix) }
func (v view) Date() string                  { return v.now.Format("January 2, 2006") }
func (v view) Year() int                     { return v.now.Year() }
func (v view) ToolName() string              { return v.tool.Name }

// Pct returns a decorative percentage with one decimal.
func (v view) Pct(min, max float64) string {
	return strconv.FormatFloat(v.deco.Percent(min, max), 'f', 1, 64)
}

// title builds a Caser per call; a Caser keeps state and is not safe for
// concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

var funcs = template.FuncMap{
	"join":     func(list []string, sep string) string { return strings.Join(list, sep) },
	"split":    func(s string) []string { return strings.Split(s, ", ") },
	"title":    title,
	"upper":    strings.ToUpper,
	"lower":    strings.ToLower,
	"pascal":   pascal,
	"camel":    camel,
	"kebab":    kebab,
	"bullets":  bullets,
	"numbered": numbered,
	"quoted":   quoted,
	"add":      func(a, b int) int { return a + b },
	"mul":      func(a, b int) int { return a * b },
	"fallback": fallback,
	"empty":    func(list []string) bool { return len(list) == 0 },
	"first":    first,
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// pascal turns "acme corp" into "AcmeCorp". A leading digit gets an underscore
// so the result stays a valid identifier.
func pascal(s string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(caser.String(w))
	}
	out := b.String()
	if out == "" {
		return "Untitled"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

func camel(s string) string {
	p := pascal(s)
	if p == "" || p[0] == '_' {
		return p
	}
	r, size := utf8.DecodeRuneInString(p)
	return string(unicode.ToLower(r)) + p[size:]
}

func kebab(s string) string {
	return strings.ToLower(strings.Join(words(s), "-"))
}

func bullets(list []string) string {
	var b strings.Builder
	for i, item := range list {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func numbered(list []string) string {
	var b strings.Builder
	for i, item := range list {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item)
	}
	return b.String()
}

// quoted renders a list as a single-quoted array body: 'a', 'b'.
func quoted(list []string) string {
	parts := make([]string, len(list))
	for i, item := range list {
		parts[i] = "'" + strings.ReplaceAll(item, "'", `\'`) + "'"
	}
	return strings.Join(parts, ", ")
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func fallback(def, s string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
