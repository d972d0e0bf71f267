package sandbox

import (
	"fmt"
	"strings"
)

// Rewriter replays the statements of one script against a finished
// classification. It carries the set of tables already bootstrapped, so a
// Rewriter must not be shared between scripts.
type Rewriter struct {
	registry     *Registry
	class        *Classification
	schema       string
	guard        string // lower-cased "<schema>."
	addBootstrap bool

	staged     map[string]bool
	bootstrap  []string
	suppressed []Statement
}

// NewRewriter returns a Rewriter redirecting into schema.
func NewRewriter(registry *Registry, class *Classification, schema string, addBootstrap bool) *Rewriter {
	return &Rewriter{
		registry:     registry,
		class:        class,
		schema:       schema,
		guard:        lowerASCII(schema) + ".",
		addBootstrap: addBootstrap,
		staged:       make(map[string]bool),
	}
}

// Staged returns the keys that received bootstrap statements, in order.
func (rw *Rewriter) Staged() []string {
	return rw.bootstrap
}

// Suppressed returns the history statements that were dropped.
func (rw *Rewriter) Suppressed() []Statement {
	return rw.suppressed
}

// Rewrite returns the output statements for one input statement: nothing
// when it is suppressed, the bootstrap pair plus the statement for the
// first use of a type1 table, otherwise the rewritten statement alone.
func (rw *Rewriter) Rewrite(stmt Statement) []Statement {
	ref := Extract(stmt.Text)
	if !ref.IsMutation() {
		return []Statement{{Text: rw.rewriteRefs(stmt.Text), Terminated: stmt.Terminated}}
	}

	key := ref.Target.Key()
	cat := rw.class.Of(key)
	if cat == CategoryHistory && ref.Kind.IsDML() {
		rw.suppressed = append(rw.suppressed, stmt)
		return nil
	}
	// A history CREATE is left as written; a history DROP still moves to staging.
	if !cat.Redirected() && (cat != CategoryHistory || ref.Kind == KindCreate) {
		return []Statement{{Text: rw.rewriteRefs(stmt.Text), Terminated: stmt.Terminated}}
	}

	var out []Statement
	if cat == CategoryType1 && rw.addBootstrap && !rw.staged[key] {
		out = append(out, rw.bootstrapStatements(key)...)
		rw.staged[key] = true
		rw.bootstrap = append(rw.bootstrap, key)
	}

	text := stmt.Text
	head, tail := text[:ref.TargetStart], text[ref.TargetEnd:]
	if ref.Kind != KindCreate || !hasColumnBody(tail) {
		tail = rw.rewriteRefs(tail)
	}
	text = rw.rewriteRefs(head) + rw.stagingName(key) + tail

	return append(out, Statement{Text: text, Terminated: stmt.Terminated})
}

func (rw *Rewriter) bootstrapStatements(key string) []Statement {
	like := key
	if rec := rw.registry.Lookup(key); rec != nil && rec.Representative != "" {
		like = rec.Representative
	}
	name := rw.stagingName(key)
	return []Statement{
		{Text: fmt.Sprintf("DROP TABLE IF EXISTS %s", name), Terminated: true},
		{Text: fmt.Sprintf("CREATE TABLE %s LIKE %s", name, like), Terminated: true},
	}
}

func (rw *Rewriter) stagingName(key string) string {
	return rw.schema + "." + key
}

// rewriteRefs replaces every spelling of every redirected table in s.
func (rw *Rewriter) rewriteRefs(s string) string {
	for _, key := range rw.class.Redirected() {
		repl := rw.stagingName(key)
		if rec := rw.registry.Lookup(key); rec != nil {
			for _, sp := range rec.Spellings() {
				s = rw.replaceToken(s, sp, repl)
			}
		}
		s = rw.replaceToken(s, key, repl)
	}
	return s
}

// replaceToken replaces whole-token, case-insensitive occurrences of token
// in s. An unqualified token already preceded by the staging prefix is
// left alone.
func (rw *Rewriter) replaceToken(s, token, repl string) string {
	if token == "" || len(token) > len(s) {
		return s
	}
	ls, lt := lowerASCII(s), lowerASCII(token)
	qualified := strings.Contains(token, ".")

	var b strings.Builder
	last, i := 0, 0
	for i <= len(ls)-len(lt) {
		j := strings.Index(ls[i:], lt)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(lt)
		if !isTokenBoundary(s, start, end) || (!qualified && strings.HasSuffix(ls[:start], rw.guard)) {
			i = start + 1
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(repl)
		last, i = end, end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func isTokenBoundary(s string, start, end int) bool {
	if start > 0 && isIdentChar(s[start-1]) {
		return false
	}
	if end < len(s) && isIdentChar(s[end]) {
		return false
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// lowerASCII lower-cases ASCII letters only, so byte offsets in the result
// line up with the input.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// hasColumnBody reports whether the rest of a CREATE statement starts with
// a parenthesized column list.
func hasColumnBody(tail string) bool {
	return strings.HasPrefix(strings.TrimLeft(tail, " \t\r\n"), "(")
}
