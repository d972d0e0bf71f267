package sandbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessMany_Independent(t *testing.T) {
	scripts := []Script{
		{Name: "mutate.sql", Text: "INSERT INTO risk.foo SELECT * FROM risk.bar;"},
		{Name: "create.sql", Text: "CREATE TABLE risk.foo (id INT); INSERT INTO risk.foo SELECT 1;"},
		{Name: "empty.sql", Text: ""},
	}

	batch, err := ProcessMany(context.Background(), scripts, testOptions(t))
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)

	mutate, create, empty := batch.Results[0], batch.Results[1], batch.Results[2]
	assert.Equal(t, "mutate.sql", mutate.Name)
	assert.Equal(t, []string{"foo"}, mutate.Staged, "foo is type1 in mutate.sql")
	assert.Contains(t, mutate.Text, "CREATE TABLE ptemp.foo LIKE risk.foo;")

	assert.Equal(t, "create.sql", create.Name)
	assert.Empty(t, create.Staged, "foo is type2 in create.sql")
	assert.NotContains(t, create.Text, "LIKE")

	assert.Empty(t, empty.Text)
	assert.Equal(t, Summary{}, empty.Summary)

	assert.Equal(t, Summary{Type1: 1, Type2: 1, Readonly: 1}, batch.Summary)
}

func TestProcessMany_MatchesSequential(t *testing.T) {
	var scripts []Script
	for i := 0; i < 32; i++ {
		scripts = append(scripts, Script{
			Name: fmt.Sprintf("s%02d.sql", i),
			Text: fmt.Sprintf("DELETE FROM risk.t%d; INSERT INTO risk.t%d SELECT * FROM risk.src%d;", i%4, i%4, i),
		})
	}
	opts := testOptions(t)
	opts.Concurrency = 4

	batch, err := ProcessMany(context.Background(), scripts, opts)
	require.NoError(t, err)

	var want Summary
	for i, sc := range scripts {
		single := Process(sc.Text, testOptions(t))
		assert.Equal(t, sc.Name, batch.Results[i].Name)
		assert.Equal(t, single.Text, batch.Results[i].Text)
		want = want.Add(single.Summary)
	}
	assert.Equal(t, want, batch.Summary)
	assert.Equal(t, Summary{Type1: 32, Readonly: 32}, batch.Summary)
}

func TestProcessMany_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessMany(ctx, []Script{{Name: "a.sql", Text: "SELECT 1;"}}, testOptions(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessMany_Empty(t *testing.T) {
	batch, err := ProcessMany(context.Background(), nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, batch.Results)
	assert.Equal(t, Summary{}, batch.Summary)
}
