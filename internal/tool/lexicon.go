package tool

// DefaultKey is the fallback entry of every lexicon table.
const DefaultKey = "default"

// Table maps an enum value to a phrase.
type Table map[string]string

// Lexicon holds a tool's static phrase tables by name.
type Lexicon map[string]Table

// Lookup returns table[key], falling back to table[DefaultKey] and then "".
func (l Lexicon) Lookup(table, key string) string {
	t, ok := l[table]
	if !ok {
		return ""
	}
	if v, ok := t[key]; ok {
		return v
	}
	return t[DefaultKey]
}
