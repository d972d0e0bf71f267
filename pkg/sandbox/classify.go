package sandbox

import (
	"sort"
	"strings"
)

// Category is the treatment a table receives during rewriting.
type Category int

// Categories, in classification priority order after CategoryInert.
const (
	CategoryInert Category = iota
	CategoryHistory
	CategoryType2
	CategoryType1
	CategoryReadonly
)

// String returns the category label.
func (c Category) String() string {
	switch c {
	case CategoryHistory:
		return "history"
	case CategoryType1:
		return "type1"
	case CategoryType2:
		return "type2"
	case CategoryReadonly:
		return "readonly"
	default:
		return "inert"
	}
}

// Redirected reports whether tables of this category move to staging.
func (c Category) Redirected() bool {
	return c == CategoryType1 || c == CategoryType2
}

// Summary counts tables per category.
type Summary struct {
	Type1    int `json:"type1" yaml:"type1"`
	Type2    int `json:"type2" yaml:"type2"`
	Readonly int `json:"readonly" yaml:"readonly"`
	History  int `json:"history" yaml:"history"`
}

// Add returns the element-wise sum of s and o.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Type1:    s.Type1 + o.Type1,
		Type2:    s.Type2 + o.Type2,
		Readonly: s.Readonly + o.Readonly,
		History:  s.History + o.History,
	}
}

// Total is the number of classified (non-inert) tables.
func (s Summary) Total() int {
	return s.Type1 + s.Type2 + s.Readonly + s.History
}

// Classification is the category of every key in one script.
type Classification struct {
	categories map[string]Category

	History  []string
	Type1    []string
	Type2    []string
	Readonly []string
	Inert    []string
}

// Classify partitions the registry. historySuffix is matched against the
// lower-cased key.
func (g *Registry) Classify(historySuffix string) *Classification {
	c := &Classification{categories: make(map[string]Category, len(g.records))}
	suffix := strings.ToLower(historySuffix)
	for key, rec := range g.records {
		cat := categorize(rec, suffix)
		c.categories[key] = cat
		switch cat {
		case CategoryHistory:
			c.History = append(c.History, key)
		case CategoryType1:
			c.Type1 = append(c.Type1, key)
		case CategoryType2:
			c.Type2 = append(c.Type2, key)
		case CategoryReadonly:
			c.Readonly = append(c.Readonly, key)
		default:
			c.Inert = append(c.Inert, key)
		}
	}
	for _, keys := range [][]string{c.History, c.Type1, c.Type2, c.Readonly, c.Inert} {
		sort.Strings(keys)
	}
	return c
}

func categorize(rec *TableRecord, suffix string) Category {
	switch {
	case suffix != "" && strings.HasSuffix(rec.Key, suffix):
		return CategoryHistory
	case rec.Mutated && rec.Created:
		return CategoryType2
	case rec.Mutated:
		return CategoryType1
	case rec.Read && !rec.Created:
		return CategoryReadonly
	default:
		return CategoryInert
	}
}

// Of returns the category of key. Unknown keys are inert.
func (c *Classification) Of(key string) Category {
	return c.categories[key]
}

// Redirected returns the type1 and type2 keys, sorted.
func (c *Classification) Redirected() []string {
	out := make([]string, 0, len(c.Type1)+len(c.Type2))
	out = append(out, c.Type1...)
	out = append(out, c.Type2...)
	sort.Strings(out)
	return out
}

// Summary counts the categories.
func (c *Classification) Summary() Summary {
	return Summary{
		Type1:    len(c.Type1),
		Type2:    len(c.Type2),
		Readonly: len(c.Readonly),
		History:  len(c.History),
	}
}
