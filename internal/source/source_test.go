package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/ptemp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadFile(t *testing.T) {
	dir := testutil.SetupScripts(t, map[string]string{
		"daily.sql": "INSERT INTO risk.foo SELECT 1;",
	})
	path := filepath.Join(dir, "daily.sql")

	scripts, err := New().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	assert.Equal(t, path, scripts[0].Name)
	assert.Equal(t, "INSERT INTO risk.foo SELECT 1;", scripts[0].Text)
}

func TestLoader_LoadDirectory(t *testing.T) {
	dir := testutil.SetupScripts(t, map[string]string{
		"b.sql":       "SELECT 2;",
		"a.SQL":       "SELECT 1;",
		"notes.txt":   "not sql",
		"sub/c.sql":   "SELECT 3;",
		"z_extra.sql": "SELECT 4;",
	})

	scripts, err := New().Load(context.Background(), dir)
	require.NoError(t, err)

	var names []string
	for _, s := range scripts {
		names = append(names, filepath.Base(s.Name))
	}
	assert.Equal(t, []string{"a.SQL", "b.sql", "z_extra.sql"}, names, "only *.sql files directly inside, sorted")
}

func TestLoader_LoadMissing(t *testing.T) {
	_, err := New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.sql")
}

func TestLoader_LoadAll(t *testing.T) {
	dir := testutil.SetupScripts(t, map[string]string{
		"one.sql": "SELECT 1;",
		"two.sql": "SELECT 2;",
	})

	scripts, err := New().LoadAll(context.Background(), []string{
		filepath.Join(dir, "two.sql"),
		filepath.Join(dir, "one.sql"),
	})
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.True(t, strings.HasSuffix(scripts[0].Name, "two.sql"), "input order is kept")
}

func TestLoader_Write(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.sql")

	require.NoError(t, New().Write(context.Background(), target, []byte("SELECT 1;\n")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", string(data))
}

func TestOutputLocation(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		outDir string
		suffix string
		want   string
	}{
		{"next to input", filepath.Join("etl", "daily.sql"), "", "_processed", filepath.Join("etl", "daily_processed.sql")},
		{"bare name", "daily.sql", "", "_processed", "daily_processed.sql"},
		{"no extension", "daily", "", "_processed", "daily_processed.sql"},
		{"out dir", filepath.Join("etl", "daily.sql"), "out", "_processed", filepath.Join("out", "daily_processed.sql")},
		{"out dir without suffix", "daily.sql", "out", "", filepath.Join("out", "daily.sql")},
		{"url", "s3://bucket/etl/daily.sql", "", "_p", "s3://bucket/etl/daily_p.sql"},
		{"url out dir", "daily.sql", "s3://bucket/out/", "_p", "s3://bucket/out/daily_p.sql"},
		{"root file", "/daily.sql", "", "_p", "/daily_p.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputLocation(tt.in, tt.outDir, tt.suffix))
		})
	}
}

func TestIsOutput(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		want   bool
	}{
		{filepath.Join("etl", "daily_processed.sql"), "_processed", true},
		{"s3://bucket/daily_p.sql", "_p", true},
		{"daily_processed", "_processed", true},
		{filepath.Join("etl_processed", "daily.sql"), "_processed", false},
		{"daily.sql", "_processed", false},
		{"daily_processed.sql", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutput(tt.name, tt.suffix))
		})
	}
}

func TestToURL(t *testing.T) {
	u, err := ToURL("s3://bucket/a.sql")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/a.sql", u)

	u, err = ToURL("a.sql")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/a.sql"))

	assert.True(t, IsLocal("a.sql"))
	assert.True(t, IsLocal("file:///tmp/a.sql"))
	assert.False(t, IsLocal("gs://bucket/a.sql"))
}
