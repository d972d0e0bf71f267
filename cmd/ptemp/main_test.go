package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ptemp/internal/cli"
	"github.com/leapstack-labs/ptemp/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ptemp v")
}

func TestBatchEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	scripts := map[string]string{
		"load.sql": "@set date=20240101\n" +
			"DROP TABLE IF EXISTS risk.tmp_orders;\n" +
			"CREATE TABLE risk.tmp_orders AS SELECT * FROM ods.orders WHERE dt = '${date}';\n" +
			"INSERT OVERWRITE TABLE risk.order_stats SELECT count(*) FROM risk.tmp_orders;\n" +
			"INSERT INTO risk.order_stats_dt SELECT * FROM risk.order_stats;\n",
		"report.sql": "SELECT * FROM risk.order_stats;\n" +
			"-- 写入dt表\n" +
			"INSERT INTO risk.order_stats_dt SELECT * FROM risk.order_stats;\n",
	}
	in := filepath.Join(dir, "in")
	require.NoError(t, os.MkdirAll(in, 0o755))
	for name, body := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte(body), 0o644))
	}
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"batch", in, "--out-dir", out, "-j", "2"})
	require.NoError(t, cmd.Execute(), buf.String())

	load, err := os.ReadFile(filepath.Join(out, "load_processed.sql"))
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE IF EXISTS ptemp.tmp_orders;\n"+
		"CREATE TABLE ptemp.tmp_orders AS SELECT * FROM ods.orders WHERE dt = '${date}';\n"+
		"DROP TABLE IF EXISTS ptemp.order_stats;\n"+
		"CREATE TABLE ptemp.order_stats LIKE risk.order_stats;\n"+
		"INSERT OVERWRITE TABLE ptemp.order_stats SELECT count(*) FROM ptemp.tmp_orders;\n",
		string(load))

	report, err := os.ReadFile(filepath.Join(out, "report_processed.sql"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM risk.order_stats;\n", string(report), "scripts are independent and the marker cuts the tail")
}
