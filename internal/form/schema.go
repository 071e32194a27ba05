package form

import (
	"fmt"
)

// Schema is an ordered, validated set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema validates the field set: names are unique, defaults have the
// field's type and enum or multi defaults come from the catalog.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with label %q has no name", f.Label)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		if err := checkDefault(f); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustSchema is NewSchema for static tool definitions.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkDefault(f Field) error {
	switch f.Kind {
	case Text:
		if _, ok := f.Default.(string); !ok {
			return fmt.Errorf("text default must be a string")
		}
	case Enum:
		v, ok := f.Default.(string)
		if !ok {
			return fmt.Errorf("enum default must be a string")
		}
		if len(f.Options) == 0 {
			return fmt.Errorf("enum has no options")
		}
		if !f.HasOption(v) {
			return fmt.Errorf("default %q is not an option", v)
		}
	case Bool:
		if _, ok := f.Default.(bool); !ok {
			return fmt.Errorf("bool default must be a bool")
		}
	case Multi:
		vs, ok := f.Default.([]string)
		if !ok && f.Default != nil {
			return fmt.Errorf("multi default must be a []string")
		}
		for _, v := range vs {
			if !f.AllowCustom && !f.HasOption(v) {
				return fmt.Errorf("default %q is not an option", v)
			}
		}
	default:
		return fmt.Errorf("unknown kind %v", f.Kind)
	}
	return nil
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// FieldsOf returns the fields of the given kind in declaration order.
func (s *Schema) FieldsOf(kind Kind) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns a fresh state holding every field's default.
func (s *Schema) Defaults() *State {
	st := &State{
		schema: s,
		text:   make(map[string]string),
		flags:  make(map[string]bool),
		lists:  make(map[string][]string),
	}
	for _, f := range s.fields {
		switch f.Kind {
		case Text, Enum:
			st.text[f.Name] = f.Default.(string)
		case Bool:
			st.flags[f.Name] = f.Default.(bool)
		case Multi:
			def, _ := f.Default.([]string)
			st.lists[f.Name] = dedupe(def)
		}
	}
	return st
}
