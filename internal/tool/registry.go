package tool

import (
	"fmt"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// Registry is an immutable, ordered set of compiled tools.
type Registry struct {
	tools []*Tool
	byID  map[string]*Tool
}

// NewRegistry compiles every tool and rejects duplicate ids.
func NewRegistry(tools ...*Tool) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		if err := t.Compile(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[t.ID()]; dup {
			return nil, fmt.Errorf("duplicate tool %s", t.ID())
		}
		r.byID[t.ID()] = t
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Lookup finds a tool by category and slug.
func (r *Registry) Lookup(category, slug string) (*Tool, error) {
	if t, ok := r.byID[category+"/"+slug]; ok {
		return t, nil
	}
	return nil, errx.Ef("tool.Lookup", errx.NotFound, "tool %s/%s not found", category, slug)
}

// LookupID finds a tool by "category/slug" or, when unambiguous, by slug alone.
func (r *Registry) LookupID(id string) (*Tool, error) {
	if t, ok := r.byID[id]; ok {
		return t, nil
	}

	var match *Tool
	for _, t := range r.tools {
		if t.Slug == id {
			if match != nil {
				return nil, errx.Ef("tool.LookupID", errx.Conflict, "slug %q is ambiguous, use category/slug", id)
			}
			match = t
		}
	}
	if match == nil {
		return nil, errx.Ef("tool.LookupID", errx.NotFound, "tool %s not found", id)
	}
	return match, nil
}

// List returns all tools in registration order.
func (r *Registry) List() []*Tool { return slices.Clone(r.tools) }

// Categories returns the distinct categories in registration order.
func (r *Registry) Categories() []string {
	var out []string
	for _, t := range r.tools {
		if !slices.Contains(out, t.Category) {
			out = append(out, t.Category)
		}
	}
	return out
}

// searchSource exposes "category/slug name" strings to the fuzzy matcher.
type searchSource []*Tool

func (s searchSource) String(i int) string { return s[i].ID() + " " + s[i].Name }
func (s searchSource) Len() int            { return len(s) }

// Search returns tools fuzzily matching query, best match first. An empty
// query returns every tool.
func (r *Registry) Search(query string) []*Tool {
	if query == "" {
		return r.List()
	}
	matches := fuzzy.FindFrom(query, searchSource(r.tools))
	out := make([]*Tool, len(matches))
	for i, m := range matches {
		out[i] = r.tools[m.Index]
	}
	return out
}
