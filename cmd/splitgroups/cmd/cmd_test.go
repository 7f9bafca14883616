package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitgroups/pkg/api"
)

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := Root()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	root := Root()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "split", "balances"})
}

func TestRoot_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "splitgroups dev")
}

func TestSplitEqual(t *testing.T) {
	out, err := run(t, "split", "equal", "--amount", "120.50", "-m", "alice", "-m", "bob", "-m", "charlie")
	require.NoError(t, err)

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "40.17")
	assert.Contains(t, out, "40.16")
}

func TestSplitEqual_JSON(t *testing.T) {
	out, err := run(t, "split", "equal", "--amount", "10", "-m", "a", "-m", "b", "-m", "c", "--json")
	require.NoError(t, err)

	var resp api.PreviewSplitResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Splits, 3)
	assert.Equal(t, 3.34, resp.Splits[0].Amount)
	assert.Equal(t, 3.33, resp.Splits[1].Amount)
	assert.Equal(t, 3.33, resp.Splits[2].Amount)
}

func TestSplitPercentage(t *testing.T) {
	out, err := run(t, "split", "percentage", "--amount", "85.30", "--share", "alice=60", "--share", "diana=40%")
	require.NoError(t, err)

	assert.Contains(t, out, "60.00%")
	assert.Contains(t, out, "51.18")
	assert.Contains(t, out, "34.12")
}

func TestSplitPercentage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"total 99", []string{"--amount", "100", "-s", "a=50", "-s", "b=49"}, "percentages must total 100%"},
		{"malformed share", []string{"--amount", "100", "-s", "a"}, "want id=percent"},
		{"bad number", []string{"--amount", "100", "-s", "a=lots"}, `invalid share "a=lots"`},
		{"missing shares", []string{"--amount", "100"}, `required flag(s) "share" not set`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"split", "percentage"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseShare(t *testing.T) {
	share, err := parseShare(" bob = 12.5% ")
	require.NoError(t, err)
	assert.Equal(t, "bob", share.MemberID)
	assert.Equal(t, 12.5, share.Percentage)
}

func TestBalances(t *testing.T) {
	out, err := run(t, "balances", "--file", "testdata/trip.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Weekend Trip (total 166.25)")
	assert.Contains(t, out, "+65.08")
	assert.Contains(t, out, "-55.42")
	assert.Contains(t, out, "bob pays alice 55.42")
	assert.Contains(t, out, "charlie pays alice 9.66")
}

func TestBalances_JSON(t *testing.T) {
	out, err := run(t, "balances", "-f", "testdata/trip.yaml", "--json")
	require.NoError(t, err)

	var resp api.GetGroupBalancesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "Weekend Trip", resp.GroupName)
	require.Len(t, resp.Balances, 3)
	assert.Equal(t, "Alice", resp.Balances[0].MemberName)
	assert.Equal(t, 65.08, resp.Balances[0].Amount)
	require.Len(t, resp.Debts, 2)
}

func TestBalances_MissingFile(t *testing.T) {
	_, err := run(t, "balances", "--file", "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadServeConfig(t *testing.T) {
	t.Setenv("SPLITGROUPS_LOG_FORMAT", "json")

	root := Root()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NoError(t, serve.ParseFlags([]string{"--port", "9191", "--seed=false", "--log-level", "debug"}))

	cfg, err := loadServeConfig(serve)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadServeConfig_Defaults(t *testing.T) {
	root := Root()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NoError(t, serve.ParseFlags(nil))

	cfg, err := loadServeConfig(serve)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, "info", cfg.Log.Level)
}
