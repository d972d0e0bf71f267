package sandbox

import (
	"regexp"
	"strings"
)

// Kind is the shape of a mutating statement.
type Kind int

// Statement kinds recognized by Extract.
const (
	KindNone Kind = iota
	KindCreate
	KindInsert
	KindDelete
	KindTruncate
	KindDrop
)

// String returns the SQL keyword for the kind.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "CREATE"
	case KindInsert:
		return "INSERT"
	case KindDelete:
		return "DELETE"
	case KindTruncate:
		return "TRUNCATE"
	case KindDrop:
		return "DROP"
	default:
		return "NONE"
	}
}

// IsDML reports whether the kind changes rows rather than the table itself.
func (k Kind) IsDML() bool {
	return k == KindInsert || k == KindDelete || k == KindTruncate
}

// Identifier is a table reference as it appears in a statement.
type Identifier struct {
	Raw  string // token exactly as written, e.g. ${db}.`Foo`
	Name string // normalized full spelling, e.g. db.Foo
}

// NewIdentifier normalizes raw into an Identifier. ok is false when
// nothing usable remains after normalization.
func NewIdentifier(raw string) (Identifier, bool) {
	name := normalizeIdentifier(raw)
	if name == "" || name == "." {
		return Identifier{}, false
	}
	return Identifier{Raw: raw, Name: name}, true
}

// Key is the last dotted segment, lower-cased.
func (id Identifier) Key() string {
	name := id.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// Schema returns everything before the last dot, or "".
func (id Identifier) Schema() string {
	if i := strings.LastIndexByte(id.Name, '.'); i >= 0 {
		return id.Name[:i]
	}
	return ""
}

// Depth is the number of qualifying segments in the spelling.
func (id Identifier) Depth() int {
	return strings.Count(id.Name, ".")
}

// Reference is what Extract finds in one statement.
type Reference struct {
	Kind   Kind
	Target *Identifier
	// TargetStart and TargetEnd locate Target.Raw in the statement text.
	TargetStart, TargetEnd int
	Reads                  []Identifier
}

// IsMutation reports whether the statement has a target.
func (r Reference) IsMutation() bool {
	return r.Target != nil
}

const identChars = `([^\s(),;]+)`

var targetPatterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindCreate, regexp.MustCompile(`(?i)\bcreate\s+(?:temporary\s+|external\s+)?table\s+(?:if\s+not\s+exists\s+)?` + identChars)},
	{KindInsert, regexp.MustCompile(`(?i)\binsert\s+(?:(?:into|overwrite)\s+)?(?:table\s+)?` + identChars)},
	{KindDelete, regexp.MustCompile(`(?i)\bdelete\s+from\s+` + identChars)},
	{KindTruncate, regexp.MustCompile(`(?i)\btruncate\s+table\s+` + identChars)},
	{KindDrop, regexp.MustCompile(`(?i)\bdrop\s+table\s+(?:if\s+exists\s+)?` + identChars)},
}

var readPattern = regexp.MustCompile(`(?i)\b(?:from|join)\s+` + identChars)

var wrapperReplacer = strings.NewReplacer("${", "", "}", "", "`", "", `"`, "", "'", "", "[", "", "]", "")

func normalizeIdentifier(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, " \t\r\n,();"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(wrapperReplacer.Replace(s))
}

// Extract finds the mutation target and the FROM/JOIN references of stmt.
// The earliest matching target pattern wins. Unrecognized shapes yield a
// Reference with KindNone and no reads.
func Extract(stmt string) Reference {
	var ref Reference
	best := -1
	for _, p := range targetPatterns {
		loc := p.re.FindStringSubmatchIndex(stmt)
		if loc == nil || (best >= 0 && loc[0] >= best) {
			continue
		}
		id, ok := NewIdentifier(stmt[loc[2]:loc[3]])
		if !ok {
			continue
		}
		best = loc[0]
		ref.Kind = p.kind
		ref.Target = &id
		ref.TargetStart, ref.TargetEnd = loc[2], loc[3]
	}

	seen := make(map[string]bool)
	for _, loc := range readPattern.FindAllStringSubmatchIndex(stmt, -1) {
		if ref.Target != nil && loc[2] == ref.TargetStart {
			continue
		}
		id, ok := NewIdentifier(stmt[loc[2]:loc[3]])
		if !ok {
			continue
		}
		k := strings.ToLower(id.Raw)
		if seen[k] {
			continue
		}
		seen[k] = true
		ref.Reads = append(ref.Reads, id)
	}
	return ref
}
