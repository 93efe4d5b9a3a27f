package render

import (
	"fmt"
	"strings"
)

// Selector decides which elements are rendered, from the ids
// of the element and of its ancestors.
type Selector interface {
	Match(groups []string) bool
}

// IDSelector selects elements by id. An element matches a set when
// its own id or the id of one of its ancestors belongs to it.
// Exclusion always wins, and an empty include set includes everything.
type IDSelector struct {
	Include, Exclude map[string]bool
}

// NewIDSelector builds the selector from id lists.
func NewIDSelector(include, exclude []string) IDSelector {
	return IDSelector{Include: toSet(include), Exclude: toSet(exclude)}
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func (s IDSelector) Match(groups []string) bool {
	for _, g := range groups {
		if s.Exclude[g] {
			return false
		}
	}
	if len(s.Include) == 0 {
		return true
	}
	for _, g := range groups {
		if s.Include[g] {
			return true
		}
	}
	return false
}

// ParseIDList splits a comma separated list of ids, trimming
// whitespace and dropping empty and duplicate entries.
func ParseIDList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ParseVectorizerMap parses `id1=vectorizer,id2=vectorizer,...`.
// Names are not validated here. Later entries win.
func ParseVectorizerMap(s string) (map[string]string, error) {
	out := map[string]string{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, ok := strings.Cut(entry, "=")
		id, name = strings.TrimSpace(id), strings.TrimSpace(name)
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid vectorizer map entry %q (expected id=vectorizer)", entry)
		}
		out[id] = name
	}
	return out, nil
}

// VectorizerSelector chooses the vectorizer of each image.
type VectorizerSelector struct {
	Default   string
	Overrides map[string]string // by element id
}

// Select returns the vectorizer name for an image with the given
// groups. The innermost id with an override wins.
func (v VectorizerSelector) Select(groups []string) string {
	for i := len(groups) - 1; i >= 0; i-- {
		if name, ok := v.Overrides[groups[i]]; ok {
			return name
		}
	}
	return v.Default
}
