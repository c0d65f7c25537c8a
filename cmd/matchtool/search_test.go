package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoSeed = "../../data/seeds/carriers.json"

func runSearchCmd(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := searchCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSearchCmdSeedFile(t *testing.T) {
	out := runSearchCmd(t,
		"--seed", demoSeed,
		"--origin-city", "Fort Worth", "--origin-state", "TX", "--origin-zip", "76012",
		"--dest-city", "Atlanta", "--dest-state", "GA", "--dest-zip", "30303",
		"--equipment", "dry van",
		"--outreach", "2",
	)

	assert.Contains(t, out, "Fort Worth, TX -> Atlanta, GA (dry van)")
	assert.Contains(t, out, "pool=5 excluded=0")
	assert.Contains(t, out, "Lone Star Freight")
	assert.Contains(t, out, "Recommended (")
	assert.Contains(t, out, "Prospects (")
	assert.Contains(t, out, "lane,near")
	assert.Contains(t, out, "Outreach (2)\n1. Lone Star Freight <dispatch@lonestarfreight.example>\n")
}

func TestSearchCmdJSON(t *testing.T) {
	out := runSearchCmd(t, "--seed", demoSeed, "--origin-state", "AZ", "--venture", "2", "--json")

	var res struct {
		PoolSize    int
		Recommended []struct {
			Carrier struct{ ID int }
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.PoolSize)
	require.Len(t, res.Recommended, 1)
	assert.Equal(t, 5, res.Recommended[0].Carrier.ID)
}
