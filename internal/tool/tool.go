// Package tool describes form-driven generator tools. A tool is data: a form
// schema, lexical tables and a text/template skeleton. Rendering a tool never
// reaches outside the process.
package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/form"
)

// Format is the kind of text a tool produces.
type Format string

const (
	FormatCode     Format = "code"
	FormatMarkdown Format = "markdown"
)

// Tool is a generator descriptor.
type Tool struct {
	Category    string
	Slug        string
	Name        string
	Description string
	Format      Format

	// Language is the source language of code output, used for highlighting.
	Language string

	Schema   *form.Schema
	Lexicon  Lexicon
	Template string

	// Funcs extends the shared template helpers for this tool only.
	Funcs template.FuncMap

	tmpl *template.Template
}

// ID returns "category/slug".
func (t *Tool) ID() string { return t.Category + "/" + t.Slug }

// Compile parses the template. Registries compile their tools on creation.
func (t *Tool) Compile() error {
	if t.Category == "" || t.Slug == "" {
		return fmt.Errorf("tool %q needs a category and a slug", t.Name)
	}
	if t.Schema == nil {
		return fmt.Errorf("tool %s has no schema", t.ID())
	}
	switch t.Format {
	case FormatCode, FormatMarkdown:
	default:
		return fmt.Errorf("tool %s has unknown format %q", t.ID(), t.Format)
	}

	tmpl, err := template.New(t.ID()).Funcs(funcs).Funcs(t.Funcs).Option("missingkey=zero").Parse(t.Template)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", t.ID(), err)
	}
	t.tmpl = tmpl
	return nil
}

// Defaults returns a fresh form state with the tool's default values.
func (t *Tool) Defaults() *form.State { return t.Schema.Defaults() }

// NewState returns the defaults overlaid with values.
func (t *Tool) NewState(values map[string]any) (*form.State, error) {
	st := t.Defaults()
	if err := st.Apply(values); err != nil {
		return nil, err
	}
	return st, nil
}

var now = time.Now

// Render executes the template against st. Decorative values come from p,
// or decor.Default when p is nil.
func (t *Tool) Render(st *form.State, p decor.Provider) (string, error) {
	const op = "tool.Render"

	if t.tmpl == nil {
		if err := t.Compile(); err != nil {
			return "", errx.E(op, errx.Internal, err)
		}
	}
	if st.Schema() != t.Schema {
		return "", errx.Ef(op, errx.Invalid, "form state does not belong to %s", t.ID())
	}
	if p == nil {
		p = decor.Default
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, view{tool: t, state: st, deco: p, now: now()}); err != nil {
		return "", errx.E(op, errx.Internal, err)
	}
	return buf.String(), nil
}

type descriptor struct {
	ID          string       `json:"id"`
	Category    string       `json:"category"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Format      Format       `json:"format"`
	Language    string       `json:"language,omitempty"`
	Fields      []form.Field `json:"fields"`
}

// MarshalJSON encodes the descriptor a client needs to draw the form.
func (t *Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(descriptor{
		ID:          t.ID(),
		Category:    t.Category,
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		Format:      t.Format,
		Language:    t.Language,
		Fields:      t.Schema.Fields(),
	})
}
