package sandbox

import (
	"sort"
	"strings"
)

// Role is how a statement uses a table.
type Role int

// Table roles.
const (
	RoleRead Role = iota
	RoleCreate
	RoleMutate
)

// TableRecord accumulates every sighting of one normalized key.
type TableRecord struct {
	Key            string
	Representative string // most-qualified raw spelling seen, used as LIKE source
	Created        bool
	Mutated        bool
	Read           bool

	spellings      map[string]string // lower-cased spelling -> first spelling seen
	representDepth int
}

// Spellings returns every observed spelling, longest first so qualified
// forms are rewritten before bare ones.
func (r *TableRecord) Spellings() []string {
	out := make([]string, 0, len(r.spellings))
	for _, s := range r.spellings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Registry maps normalized keys to their records. A Registry belongs to
// a single script and is not safe for concurrent use.
type Registry struct {
	records map[string]*TableRecord
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*TableRecord)}
}

// Record merges one sighting of id into its record.
func (g *Registry) Record(id Identifier, role Role) {
	key := id.Key()
	if key == "" {
		return
	}
	rec, ok := g.records[key]
	if !ok {
		rec = &TableRecord{Key: key, spellings: make(map[string]string), representDepth: -1}
		g.records[key] = rec
		g.order = append(g.order, key)
	}
	for _, s := range []string{id.Raw, id.Name} {
		if _, seen := rec.spellings[strings.ToLower(s)]; !seen {
			rec.spellings[strings.ToLower(s)] = s
		}
	}
	if d := id.Depth(); d > rec.representDepth {
		rec.Representative = id.Raw
		rec.representDepth = d
	}
	switch role {
	case RoleCreate:
		rec.Created = true
	case RoleMutate:
		rec.Mutated = true
	case RoleRead:
		rec.Read = true
	}
}

// RecordReference records the target and reads of one statement.
// DROP targets count as mutations.
func (g *Registry) RecordReference(ref Reference) {
	if ref.Target != nil {
		role := RoleMutate
		if ref.Kind == KindCreate {
			role = RoleCreate
		}
		g.Record(*ref.Target, role)
	}
	for _, id := range ref.Reads {
		g.Record(id, RoleRead)
	}
}

// Lookup returns the record for key, or nil.
func (g *Registry) Lookup(key string) *TableRecord {
	return g.records[key]
}

// Records returns the records in first-seen order.
func (g *Registry) Records() []*TableRecord {
	out := make([]*TableRecord, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.records[k])
	}
	return out
}

// Len returns the number of distinct keys.
func (g *Registry) Len() int {
	return len(g.records)
}
