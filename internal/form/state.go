package form

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// State holds the current value of every field of a schema. A State is not
// safe for concurrent use; owners guard it.
type State struct {
	schema *Schema
	text   map[string]string
	flags  map[string]bool
	lists  map[string][]string
}

// Schema returns the schema the state was built from.
func (s *State) Schema() *Schema { return s.schema }

// Text returns a text or enum value. Unknown names yield "".
func (s *State) Text(name string) string { return s.text[name] }

// Flag returns a bool value.
func (s *State) Flag(name string) bool { return s.flags[name] }

// List returns a copy of a multi-select value.
func (s *State) List(name string) []string { return slices.Clone(s.lists[name]) }

// Contains reports whether the multi-select holds v.
func (s *State) Contains(name, v string) bool { return slices.Contains(s.lists[name], v) }

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		schema: s.schema,
		text:   maps.Clone(s.text),
		flags:  maps.Clone(s.flags),
		lists:  make(map[string][]string, len(s.lists)),
	}
	for k, v := range s.lists {
		c.lists[k] = slices.Clone(v)
	}
	return c
}

// Set assigns one field. Strings are accepted for every kind so CLI and
// query-string input can be applied directly: "true"/"false" for flags and a
// comma separated list for multi-selects.
func (s *State) Set(name string, v any) error {
	const op = "form.State.Set"

	f, ok := s.schema.Field(name)
	if !ok {
		return errx.Ef(op, errx.Invalid, "unknown field %q", name)
	}

	switch f.Kind {
	case Text:
		str, ok := v.(string)
		if !ok {
			return errx.Ef(op, errx.Invalid, "%s must be text", name)
		}
		s.text[name] = str

	case Enum:
		str, ok := v.(string)
		if !ok {
			return errx.Ef(op, errx.Invalid, "%s must be one of %s", name, optionList(f))
		}
		if !f.HasOption(str) {
			return errx.Ef(op, errx.Invalid, "%s must be one of %s, got %q", name, optionList(f), str)
		}
		s.text[name] = str

	case Bool:
		b, err := toBool(v)
		if err != nil {
			return errx.Ef(op, errx.Invalid, "%s must be true or false", name)
		}
		s.flags[name] = b

	case Multi:
		list, err := toList(v)
		if err != nil {
			return errx.Ef(op, errx.Invalid, "%s must be a list of strings", name)
		}
		for _, item := range list {
			if err := checkItem(f, item); err != nil {
				return errx.E(op, errx.Invalid, err)
			}
		}
		s.lists[name] = dedupe(list)
	}

	return nil
}

// Apply sets several fields at once. Either all values are applied or, on
// the first error, none are.
func (s *State) Apply(values map[string]any) error {
	next := s.Clone()
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if err := next.Set(name, values[name]); err != nil {
			return err
		}
	}
	*s = *next
	return nil
}

// Toggle removes option from a multi-select if present and appends it
// otherwise. Toggling the same option twice restores the original list.
func (s *State) Toggle(name, option string) error {
	const op = "form.State.Toggle"

	f, err := s.multi(op, name)
	if err != nil {
		return err
	}

	list := s.lists[name]
	if i := slices.Index(list, option); i >= 0 {
		s.lists[name] = slices.Delete(slices.Clone(list), i, i+1)
		return nil
	}
	if err := checkItem(f, option); err != nil {
		return errx.E(op, errx.Invalid, err)
	}
	s.lists[name] = append(slices.Clone(list), option)
	return nil
}

// Add appends v to a multi-select unless already present.
func (s *State) Add(name, v string) error {
	const op = "form.State.Add"

	f, err := s.multi(op, name)
	if err != nil {
		return err
	}
	v = strings.TrimSpace(v)
	if v == "" || s.Contains(name, v) {
		return nil
	}
	if err := checkItem(f, v); err != nil {
		return errx.E(op, errx.Invalid, err)
	}
	s.lists[name] = append(slices.Clone(s.lists[name]), v)
	return nil
}

// Remove drops v from a multi-select. Removing an absent value is a no-op.
func (s *State) Remove(name, v string) error {
	if _, err := s.multi("form.State.Remove", name); err != nil {
		return err
	}
	s.lists[name] = slices.DeleteFunc(slices.Clone(s.lists[name]), func(x string) bool { return x == v })
	return nil
}

// Values returns every field value keyed by name: string, bool or []string.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.schema.fields))
	for _, f := range s.schema.fields {
		switch f.Kind {
		case Text, Enum:
			out[f.Name] = s.text[f.Name]
		case Bool:
			out[f.Name] = s.flags[f.Name]
		case Multi:
			list := slices.Clone(s.lists[f.Name])
			if list == nil {
				list = []string{}
			}
			out[f.Name] = list
		}
	}
	return out
}

func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *State) multi(op, name string) (Field, error) {
	f, ok := s.schema.Field(name)
	if !ok {
		return Field{}, errx.Ef(op, errx.Invalid, "unknown field %q", name)
	}
	if f.Kind != Multi {
		return Field{}, errx.Ef(op, errx.Invalid, "%s is not a multi-select", name)
	}
	return f, nil
}

func checkItem(f Field, item string) error {
	if item == "" {
		return fmt.Errorf("%s cannot contain empty values", f.Name)
	}
	if !f.AllowCustom && !f.HasOption(item) {
		return fmt.Errorf("%s must only contain %s, got %q", f.Name, optionList(f), item)
	}
	return nil
}

func optionList(f Field) string {
	vals := make([]string, len(f.Options))
	for i, o := range f.Options {
		vals[i] = o.Value
	}
	return strings.Join(vals, ", ")
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	default:
		return false, fmt.Errorf("not a bool: %T", v)
	}
}

func toList(v any) ([]string, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return trimAll(l), nil
	case string:
		if strings.TrimSpace(l) == "" {
			return nil, nil
		}
		return trimAll(strings.Split(l, ",")), nil
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list item %v is %T", item, item)
			}
			out = append(out, str)
		}
		return trimAll(out), nil
	default:
		return nil, fmt.Errorf("not a list: %T", v)
	}
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// dedupe keeps the first occurrence of every value.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
