package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot() *cobra.Command {
	root := NewRootCommand()
	root.AddCommand(NewGenCommand(), NewRunCommand(), NewVerifyCommand(), NewShowCommand())
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newTestRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--debuglevel", "off"))
	err := root.Execute()
	return out.String(), err
}

func genFile(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	args := append([]string{"gen", "--keys", "200", "--ops", "5e3", "--path", dir, "--out", "bench.bin"}, extra...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "generated "+filepath.Join(dir, "bench.bin"))
	file := filepath.Join(dir, "bench.bin")
	require.FileExists(t, file)
	return file
}

func TestGenCommand(t *testing.T) {
	dir := t.TempDir()
	file := genFile(t, dir, "--seed", "7", "--zipf-s", "1.2")

	bf, err := workload.ReadBenchFile(file)
	require.NoError(t, err)
	assert.Len(t, bf.Dist, 200)
	assert.Len(t, bf.Ops, 5000)

	// profile + flag 覆蓋，多檔輸出
	profile := workload.DefaultProfile()
	profile.N = 20
	profile.Ops = 400
	profileFile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, profile.Save(profileFile))

	multi := filepath.Join(dir, "multi")
	out, err := execute(t, "gen", "--profile", profileFile, "--delete-ratio", "0.3", "--nums", "3", "--path", multi)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "generated "))
	assert.Contains(t, out, "keys: 20, ops: 400")
	entries, err := os.ReadDir(multi)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	profile.DeleteRatio = 0.3
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), profile.FileName()), e.Name())
	}

	_, err = execute(t, "gen", "--keys", "100", "--ops", "10", "--path", dir)
	assert.Error(t, err)
	_, err = execute(t, "gen", "--nums", "2", "--out", "x.bin", "--path", dir)
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	genFile(t, dir)

	out, err := execute(t, "run", "--file", filepath.Join(dir, "bench.bin"), "--runs", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "treap")
	assert.Contains(t, out, "skiplist")
	assert.Contains(t, out, "AVGSTEPS")

	out, err = execute(t, "run", "--dir", dir, "--impl", "treap", "--runs", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "treap")
	assert.NotContains(t, out, "skiplist")

	_, err = execute(t, "run", "--file", filepath.Join(dir, "bench.bin"), "--impl", "avl")
	assert.Error(t, err)
	_, err = execute(t, "run")
	assert.Error(t, err)
	_, err = execute(t, "run", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	file := genFile(t, dir, "--ordered-ratio", "0.5")

	out, err := execute(t, "verify", "--file", file, "--check-every", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "mismatches: 0")

	_, err = execute(t, "verify", "--file", file, "--check-every", "0")
	assert.Error(t, err)
	_, err = execute(t, "verify", "--file", filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}

func TestVerifyBenchFile(t *testing.T) {
	assert.Equal(t, "false", formatResult(workload.Result{}))
	assert.Equal(t, "true (5)", formatResult(workload.Result{OK: true, Key: 5}))

	bf := &workload.BenchFile{
		Dist: map[ordset.K]float64{1: 0.5, 2: 0.5},
		Ops: []workload.Operation{
			{Type: workload.OpInsert, Key: 1},
			{Type: workload.OpInsert, Key: 2},
			{Type: workload.OpFloor, Key: 3},
			{Type: workload.OpDelete, Key: 2},
			{Type: workload.OpLower, Key: 2},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, verifyBenchFile(&buf, bf, 3, 2, 10))
	assert.Contains(t, buf.String(), "final size: 1")
	assert.Contains(t, buf.String(), "mismatches: 0")
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	file := genFile(t, dir, "--simple-keys")

	csvFile := filepath.Join(dir, "tree.csv")
	out, err := execute(t, "show", "--file", file, "--max-nodes", "5", "--top", "3", "--csv", csvFile)
	require.NoError(t, err)
	assert.Contains(t, out, "nodes: 200")
	assert.Contains(t, out, "expected search steps")
	assert.Contains(t, out, "structure: ok")

	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "subtree weight")
	assert.Contains(t, string(data), "right ratio")
}

func TestParseImpls(t *testing.T) {
	impls, err := parseImpls("")
	require.NoError(t, err)
	assert.Equal(t, knownImpls, impls)

	impls, err = parseImpls(" Skiplist,treap,skiplist ")
	require.NoError(t, err)
	assert.Equal(t, []string{"skiplist", "treap"}, impls)

	_, err = parseImpls("treap,btree")
	assert.Error(t, err)

	n, err := parseScientificNotation("2.5e3")
	require.NoError(t, err)
	assert.Equal(t, 2500, n)
	_, err = parseScientificNotation("many")
	assert.Error(t, err)
}
