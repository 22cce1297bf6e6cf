package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadEdgeList(t *testing.T) {
	path := writeFile(t, "g.tsv", "0\t1\n1\t2\n1\t2\n3\t3\n")
	pairs, err := graph.ReadEdgeList(path)
	require.NoError(t, err)
	require.Equal(t, [][2]int64{{0, 1}, {1, 2}, {1, 2}, {3, 3}}, pairs)
}

func TestReadEdgeListSkipsBlankLines(t *testing.T) {
	path := writeFile(t, "g.tsv", "0\t1\n\n2\t3\n")
	pairs, err := graph.ReadEdgeList(path)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
}

func TestReadEdgeListBadIDCarriesLineNumber(t *testing.T) {
	path := writeFile(t, "g.tsv", "0\t1\nx\t2\n")
	_, err := graph.ReadEdgeList(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), ":2:")
}

func TestReadEdgeListMissingColumn(t *testing.T) {
	path := writeFile(t, "g.tsv", "0\t1\n7\n")
	_, err := graph.ReadEdgeList(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), ":2:")
}

func TestReadEdgeListMissingFile(t *testing.T) {
	_, err := graph.ReadEdgeList(filepath.Join(t.TempDir(), "absent.tsv"))
	require.Error(t, err)
}

func TestReadEdgeListEmptyFile(t *testing.T) {
	path := writeFile(t, "g.tsv", "")
	_, err := graph.ReadEdgeList(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no edges")
}

func TestReadLabels(t *testing.T) {
	path := writeFile(t, "labels.tsv", "0\t0\tinner\n1\t0\touter\n2\t1\n")
	records, err := graph.ReadLabels(path)
	require.NoError(t, err)
	require.Equal(t, []graph.NodeLabel{
		{Node: 0, Label: 0, Scope: graph.ScopeInner},
		{Node: 1, Label: 0, Scope: graph.ScopeOuter},
		{Node: 2, Label: 1},
	}, records)
}

func TestReadLabelsBadLabelCarriesLineNumber(t *testing.T) {
	path := writeFile(t, "labels.tsv", "0\t0\n1\tbad\n")
	_, err := graph.ReadLabels(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), ":2:")
}

func TestLoadAndLoadLabels(t *testing.T) {
	dir := t.TempDir()
	gPath := filepath.Join(dir, "g.tsv")
	lPath := filepath.Join(dir, "g_labels.tsv")
	require.NoError(t, os.WriteFile(gPath, []byte("0\t1\n1\t2\n"), 0644))
	require.NoError(t, os.WriteFile(lPath, []byte("0\t0\n1\t0\n2\t1\n"), 0644))

	g, err := graph.Load(gPath)
	require.NoError(t, err)
	require.Equal(t, 2, g.M())

	li, err := graph.LoadLabels(lPath, g)
	require.NoError(t, err)
	require.Equal(t, 2, li.NumLabels())
	require.Equal(t, 1, li.JLM(0, 0))
	require.Equal(t, 1, li.JLM(0, 1))
}

func TestWriteEdgeListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	edges := [][2]int64{{5, 9}, {9, 9}, {2, 5}}
	require.NoError(t, graph.WriteEdgeList(path, edges))

	back, err := graph.ReadEdgeList(path)
	require.NoError(t, err)
	require.Equal(t, edges, back)
}
