// Package render turns a generated result into text, HTML or ANSI terminal
// output. Markdown goes through goldmark or glamour and code through chroma.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/tool"
)

// Format is an output representation.
type Format string

const (
	Text     Format = "text"
	HTML     Format = "html"
	Terminal Format = "terminal"
)

// ParseFormat validates a format name. Empty means Text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return Text, nil
	case Text, HTML, Terminal:
		return f, nil
	default:
		return "", errx.Ef("render.ParseFormat", errx.Invalid, "unknown format %q (want text, html or terminal)", s)
	}
}

// ContentType returns the HTTP content type of f.
func (f Format) ContentType() string {
	if f == HTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Options tune a Renderer.
type Options struct {
	// CodeStyle is a chroma style name.
	CodeStyle string
	// TermStyle is a glamour standard style, or "auto" to detect the terminal.
	TermStyle string
	// Width wraps terminal markdown. Zero means 80.
	Width int
}

// Renderer converts results between formats. It is safe for concurrent use.
type Renderer struct {
	opts     Options
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.CodeStyle == "" {
		opts.CodeStyle = "dracula"
	}
	if opts.TermStyle == "" {
		opts.TermStyle = "dark"
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("pre", "code", "span", "table")

	return &Renderer{
		opts:     opts,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   policy,
	}
}

// Render converts result, produced in kind (code in language, or markdown),
// into f.
func (r *Renderer) Render(result string, kind tool.Format, language string, f Format) (string, error) {
	const op = "render.Render"

	var (
		out string
		err error
	)
	switch f {
	case Text:
		return result, nil
	case HTML:
		if kind == tool.FormatCode {
			out, err = r.codeHTML(result, language)
		} else {
			out, err = r.markdownHTML(result)
		}
	case Terminal:
		if kind == tool.FormatCode {
			out, err = r.highlight(result, language, "terminal256")
		} else {
			out, err = r.markdownTerminal(result)
		}
	default:
		return "", errx.Ef(op, errx.Invalid, "unknown format %q", f)
	}
	if err != nil {
		return "", errx.E(op, errx.Internal, err)
	}
	return out, nil
}

func (r *Renderer) markdownHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return `<article class="result markdown">` + "\n" + r.policy.Sanitize(buf.String()) + "</article>\n", nil
}

func (r *Renderer) codeHTML(src, language string) (string, error) {
	out, err := r.highlight(src, language, "html")
	if err != nil {
		// Unhighlighted but still safe.
		return `<pre class="result code"><code>` + html.EscapeString(src) + "</code></pre>\n", nil
	}
	return `<div class="result code">` + "\n" + out + "</div>\n", nil
}

func (r *Renderer) highlight(src, language, formatter string) (string, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, language, formatter, r.opts.CodeStyle); err != nil {
		return "", fmt.Errorf("highlight %s: %w", language, err)
	}
	return buf.String(), nil
}

func (r *Renderer) markdownTerminal(src string) (string, error) {
	style := glamour.WithStandardStyle(r.opts.TermStyle)
	if r.opts.TermStyle == "auto" {
		style = glamour.WithAutoStyle()
	}

	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.opts.Width))
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
