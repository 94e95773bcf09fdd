package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"kgraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kgraph runs one command against the store in dir and returns its output.
func kgraph(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--db", filepath.Join(dir, "graphs"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_SearchSession(t *testing.T) {
	dir := t.TempDir()
	steps := [][]string{
		{"node", "add", "concept", "name:Antalgic"},
		{"node", "add", "instance"},
		{"link", "add", "instance", "0", "1"},
		{"node", "anchor", "name:Antalgic"},
		{"switch"},
		{"node", "add", "concept", "name:Antalgic"},
		{"node", "add", "instance", "name:Doliprane"},
		{"node", "add", "instance", "name:Medoc"},
		{"link", "add", "instance", "name:Antalgic", "name:Doliprane"},
		{"link", "add", "instance", "name:Antalgic", "name:Medoc"},
	}
	for _, args := range steps {
		_, err := kgraph(t, dir, args...)
		require.NoError(t, err, "%v", args)
	}

	out, err := kgraph(t, dir, "search", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, `("Doliprane"):::instance`)
	assert.Contains(t, out, `("Medoc"):::instance`)
}

func TestCLI_IllegalLink(t *testing.T) {
	dir := t.TempDir()
	_, err := kgraph(t, dir, "node", "add", "concept", "name:Medoc")
	require.NoError(t, err)
	_, err = kgraph(t, dir, "node", "add", "instance", "name:Doliprane")
	require.NoError(t, err)

	_, err = kgraph(t, dir, "link", "add", "association", "name:Medoc", "name:Doliprane", "--name", "treats")
	assert.ErrorIs(t, err, graph.ErrIllegalLinkAssociation)

	out, err := kgraph(t, dir, "link", "find", "name:Medoc", "name:Doliprane")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching links.")
}

func TestCLI_PathAndStats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A", "B", "C"} {
		_, err := kgraph(t, dir, "node", "add", "concept", "name:"+name)
		require.NoError(t, err)
	}
	_, err := kgraph(t, dir, "link", "add", "ako", "name:A", "name:B")
	require.NoError(t, err)
	_, err = kgraph(t, dir, "link", "add", "ako", "name:B", "name:C")
	require.NoError(t, err)

	out, err := kgraph(t, dir, "path", "name:C", "name:A", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "C -> B -> A")
	assert.Contains(t, out, "kgraph_document_loads_total")

	_, err = kgraph(t, dir, "reach", "name:C", "name:A")
	assert.Error(t, err)

	out, err = kgraph(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "📊 3 concept, 0 instance, 2 ako")
}

func TestCLI_Graphs(t *testing.T) {
	dir := t.TempDir()
	out, err := kgraph(t, dir, "graphs")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved graphs.")

	_, err = kgraph(t, dir, "node", "add", "concept", "name:Medoc")
	require.NoError(t, err)

	out, err = kgraph(t, dir, "graphs")
	require.NoError(t, err)
	assert.Equal(t, "current\nquery\n", out)
}

func TestCLI_UnknownKind(t *testing.T) {
	_, err := kgraph(t, t.TempDir(), "node", "add", "thing")
	assert.Error(t, err)
}
