package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNetwork = `
nodes:
  - {id: W1, kind: well}
  - {id: M1, kind: meter}
  - {id: W2, kind: well}
  - {id: M2, kind: meter}
pipes:
  - {from: W1, to: M1, diameter: 114, length: 250}
  - {from: W2, to: M2, commodity: 1, diameter: 89, length: 120}
  - {from: M2, to: NOWHERE, diameter: 89, length: 10}
wells:
  - node: W1
    line_pressure: 41
    liquid_rate: 100
    watercut: 0.2
    fluid: {oil_density: 850, water_density: 1010, oil_viscosity: 5, water_viscosity: 1, gas_factor: 30}
`

func writeNetwork(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testNetwork), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSolveWritesResults(t *testing.T) {
	netPath := writeNetwork(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "results.json")
	metricsPath := filepath.Join(dir, "metrics.prom")
	tgfDir := filepath.Join(dir, "tgf")

	_, stderr, err := execute(t, "solve", netPath,
		"-o", outPath,
		"--metrics-out", metricsPath,
		"--serial",
		"--tgf-dir", tgfDir,
		"--log-level", "debug")
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc struct {
		RunID   string `json:"run_id"`
		Records []struct {
			Edge   int    `json:"edge"`
			Subnet int    `json:"subnet"`
			Status string `json:"status"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotEmpty(t, doc.RunID)
	require.Len(t, doc.Records, 3)
	assert.Equal(t, "success", doc.Records[0].Status)
	assert.Equal(t, -1, doc.Records[2].Subnet)
	assert.Equal(t, "virgin", doc.Records[2].Status)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "pipenet_runs_total")
	assert.Contains(t, string(prom), "pipenet_physics_calls_total")
	assert.Contains(t, string(prom), "pipenet_heap_peak_bytes")

	entries, err := os.ReadDir(tgfDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Contains(t, stderr, doc.RunID, "log lines carry the run id")
	assert.Contains(t, stderr, "solve finished")
}

func TestSolveToStdout(t *testing.T) {
	stdout, _, err := execute(t, "solve", writeNetwork(t), "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "{"))
	assert.Contains(t, stdout, `"records"`)
}

func TestSolveRejectsBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pipenet.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("solver:\n  roughness: -1\n"), 0o600))

	_, _, err := execute(t, "solve", writeNetwork(t), "--config", cfgPath)
	assert.Error(t, err)
}

func TestSolveRejectsTGFDirOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, _, err := execute(t, "solve", writeNetwork(t), "--tgf-dir", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Debug.TGFDir")
}

func TestSolveMissingFile(t *testing.T) {
	_, _, err := execute(t, "solve", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSubnets(t *testing.T) {
	stdout, _, err := execute(t, "subnets", writeNetwork(t))
	require.NoError(t, err)
	assert.Contains(t, stdout, "SUBNET")
	assert.Contains(t, stdout, "skipped pipes: 1")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 4, "header, two subnets and the summary")
}

func TestSubnetsJSON(t *testing.T) {
	stdout, _, err := execute(t, "subnets", writeNetwork(t), "--json")
	require.NoError(t, err)

	var pm struct {
		Subnets      []json.RawMessage
		SkippedEdges int
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &pm))
	assert.Len(t, pm.Subnets, 2)
	assert.Equal(t, 1, pm.SkippedEdges)
}

func TestExportTGF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "topology")
	stdout, _, err := execute(t, "export-tgf", writeNetwork(t), "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 2 subnets")

	data, err := os.ReadFile(filepath.Join(dir, "subnet-0000.tgf"))
	require.NoError(t, err)
	assert.Equal(t, "0 2:W1\n1 4:M1\n#\n0 1 d114/L250\n", string(data))
}

func TestExportTGFRequiresDir(t *testing.T) {
	_, _, err := execute(t, "export-tgf", writeNetwork(t))
	assert.Error(t, err)
}
