package terms

import (
	"fmt"
	"sort"
	"strings"
)

// Separator joins the distinct values found for one field
const Separator = "; "

// Fields maps a field name to its joined values or NotFound
type Fields map[string]string

// Match runs every field pattern over text. The result always holds all
// field names.
func Match(text string) Fields {
	fields := make(Fields, len(specs))
	for _, spec := range specs {
		fields[spec.Name] = spec.Find(text)
	}
	return fields
}

// MatchField runs the pattern of a single named field over text
func MatchField(name, text string) (string, error) {
	spec, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown field: %s", name)
	}
	return spec.Find(text), nil
}

// Find returns the distinct matches of the pattern in text, sorted and
// joined with Separator, or NotFound. When the pattern has a capturing
// group the value is the first group rather than the whole match.
// Distinct is byte-exact: "IPCA" and "ipca" are two values.
func (s FieldSpec) Find(text string) string {
	values := s.FindAll(text)
	if len(values) == 0 {
		return NotFound
	}
	return strings.Join(values, Separator)
}

// FindAll returns the sorted distinct matches of the pattern in text
func (s FieldSpec) FindAll(text string) []string {
	matches := s.Pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	group := 0
	if s.Pattern.NumSubexp() > 0 {
		group = 1
	}

	seen := make(map[string]struct{}, len(matches))
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		v := m[group]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	sort.Strings(values)
	return values
}

// Values returns the field values in declaration order
func (f Fields) Values() []string {
	values := make([]string, len(specs))
	for i, spec := range specs {
		v, ok := f[spec.Name]
		if !ok || v == "" {
			v = NotFound
		}
		values[i] = v
	}
	return values
}

// Matched returns how many fields have at least one match
func (f Fields) Matched() int {
	n := 0
	for _, v := range f {
		if v != NotFound {
			n++
		}
	}
	return n
}
