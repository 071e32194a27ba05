// Package form models the state of a tool's configuration form: typed fields,
// option catalogs and the values a user has entered.
package form

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the value type of a field.
type Kind uint8

const (
	Text Kind = iota + 1
	Enum
	Bool
	Multi
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Enum:
		return "enum"
	case Bool:
		return "bool"
	case Multi:
		return "multi"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Option is one entry of an option catalog.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one form control.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`

	// AllowCustom lets a multi-select hold values outside Options
	// (keywords, skills and other free lists).
	AllowCustom bool `json:"allowCustom,omitempty"`

	// Section is the output heading a Bool field gates.
	Section string `json:"section,omitempty"`

	Default any `json:"default"`
}

// HasOption reports whether v is in the field's catalog.
func (f Field) HasOption(v string) bool {
	return slices.ContainsFunc(f.Options, func(o Option) bool { return o.Value == v })
}

// OptionLabel returns the display label for v, or v itself.
func (f Field) OptionLabel(v string) string {
	for _, o := range f.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

// Humanize turns a catalog value such as "real-estate" into "Real Estate".
func Humanize(value string) string {
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(value))
}

// Catalog builds options whose labels are the humanized values.
func Catalog(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: Humanize(v)}
	}
	return opts
}

// TextField is a free-text input.
func TextField(name, label, placeholder, def string) Field {
	return Field{Name: name, Label: label, Kind: Text, Placeholder: placeholder, Default: def}
}

// EnumField is a single select over options.
func EnumField(name, label, def string, options []Option) Field {
	return Field{Name: name, Label: label, Kind: Enum, Options: options, Default: def}
}

// FlagField is a checkbox that gates the output section named section.
func FlagField(name, label, section string, def bool) Field {
	return Field{Name: name, Label: label, Kind: Bool, Section: section, Default: def}
}

// MultiField is a multi-select over options.
func MultiField(name, label string, def []string, options []Option) Field {
	return Field{Name: name, Label: label, Kind: Multi, Options: options, Default: def}
}

// ListField is a multi-select that accepts values outside its suggestions.
func ListField(name, label string, def []string, suggestions ...string) Field {
	return Field{Name: name, Label: label, Kind: Multi, Options: Catalog(suggestions...), AllowCustom: true, Default: def}
}
