package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readNames(ids []Identifier) []string {
	var out []string
	for _, id := range ids {
		out = append(out, id.Name)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		stmt       string
		wantKind   Kind
		wantTarget string
		wantReads  []string
	}{
		{
			name:       "create if not exists",
			stmt:       "CREATE TABLE IF NOT EXISTS risk.foo (id INT)",
			wantKind:   KindCreate,
			wantTarget: "risk.foo",
		},
		{
			name:       "insert with quoting and placeholders",
			stmt:       "insert into `risk`.`foo` select * from ${db}.bar",
			wantKind:   KindInsert,
			wantTarget: "risk.foo",
			wantReads:  []string{"db.bar"},
		},
		{
			name:       "insert without into",
			stmt:       "INSERT risk.foo VALUES (1)",
			wantKind:   KindInsert,
			wantTarget: "risk.foo",
		},
		{
			name:       "insert overwrite table",
			stmt:       "INSERT OVERWRITE TABLE risk.foo SELECT a FROM risk.src",
			wantKind:   KindInsert,
			wantTarget: "risk.foo",
			wantReads:  []string{"risk.src"},
		},
		{
			name:       "insert with column list",
			stmt:       "INSERT INTO foo(a, b) SELECT a, b FROM bar",
			wantKind:   KindInsert,
			wantTarget: "foo",
			wantReads:  []string{"bar"},
		},
		{
			name:       "delete target is not a read",
			stmt:       "DELETE FROM risk.foo WHERE id IN (SELECT id FROM risk.baz)",
			wantKind:   KindDelete,
			wantTarget: "risk.foo",
			wantReads:  []string{"risk.baz"},
		},
		{
			name:       "truncate",
			stmt:       "truncate table foo",
			wantKind:   KindTruncate,
			wantTarget: "foo",
		},
		{
			name:       "drop if exists",
			stmt:       "DROP TABLE IF EXISTS risk.foo_dt",
			wantKind:   KindDrop,
			wantTarget: "risk.foo_dt",
		},
		{
			name:       "leading text before keyword",
			stmt:       "/* nightly */ INSERT INTO t SELECT 1",
			wantKind:   KindInsert,
			wantTarget: "t",
		},
		{
			name:       "bracketed identifier",
			stmt:       "TRUNCATE TABLE [dbo].[Orders]",
			wantKind:   KindTruncate,
			wantTarget: "dbo.Orders",
		},
		{
			name:      "select with joins deduplicated",
			stmt:      "SELECT * FROM a JOIN b ON a.id = b.id LEFT JOIN a ON 1 = 1",
			wantKind:  KindNone,
			wantReads: []string{"a", "b"},
		},
		{
			name:      "subquery in from is skipped",
			stmt:      "SELECT * FROM (SELECT 1 FROM dual) x",
			wantKind:  KindNone,
			wantReads: []string{"dual"},
		},
		{
			name:     "unrecognized statement",
			stmt:     "SET hive.exec.parallel = true",
			wantKind: KindNone,
		},
		{
			name:     "empty statement",
			stmt:     "",
			wantKind: KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := Extract(tt.stmt)
			assert.Equal(t, tt.wantKind, ref.Kind)
			if tt.wantTarget == "" {
				assert.Nil(t, ref.Target)
				assert.False(t, ref.IsMutation())
			} else {
				require.NotNil(t, ref.Target)
				assert.Equal(t, tt.wantTarget, ref.Target.Name)
				assert.Equal(t, ref.Target.Raw, tt.stmt[ref.TargetStart:ref.TargetEnd])
			}
			assert.Equal(t, tt.wantReads, readNames(ref.Reads))
		})
	}
}

func TestExtract_EarliestKeywordWins(t *testing.T) {
	ref := Extract("INSERT INTO log SELECT 'drop table x' FROM src")
	require.NotNil(t, ref.Target)
	assert.Equal(t, KindInsert, ref.Kind)
	assert.Equal(t, "log", ref.Target.Name)
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		raw        string
		wantName   string
		wantKey    string
		wantSchema string
		wantDepth  int
	}{
		{"risk.Foo", "risk.Foo", "foo", "risk", 1},
		{"FOO", "FOO", "foo", "", 0},
		{"${env}.orders", "env.orders", "orders", "env", 1},
		{"`a`.`b`.`c`", "a.b.c", "c", "a.b", 2},
		{`"Sales"."Items"`, "Sales.Items", "items", "Sales", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, ok := NewIdentifier(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, id.Name)
			assert.Equal(t, tt.wantKey, id.Key())
			assert.Equal(t, tt.wantSchema, id.Schema())
			assert.Equal(t, tt.wantDepth, id.Depth())
		})
	}

	_, ok := NewIdentifier("${}")
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "CREATE", KindCreate.String())
	assert.Equal(t, "DROP", KindDrop.String())
	assert.Equal(t, "NONE", KindNone.String())
}

func TestKind_IsDML(t *testing.T) {
	for _, k := range []Kind{KindInsert, KindDelete, KindTruncate} {
		assert.True(t, k.IsDML(), k.String())
	}
	for _, k := range []Kind{KindNone, KindCreate, KindDrop} {
		assert.False(t, k.IsDML(), k.String())
	}
}
