package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

func labelRecords(pairs map[int64]int) []graph.NodeLabel {
	records := make([]graph.NodeLabel, 0, len(pairs))
	for node, label := range pairs {
		records = append(records, graph.NodeLabel{Node: node, Label: label})
	}
	return records
}

func TestJLMConstruction(t *testing.T) {
	// 0,1 labeled 0; 2,3 labeled 1; one self-loop on node 2.
	g, err := graph.New([][2]int64{{0, 1}, {1, 2}, {2, 3}, {2, 2}})
	require.NoError(t, err)

	li, err := graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: 0, 2: 1, 3: 1}))
	require.NoError(t, err)

	require.Equal(t, 2, li.NumLabels())
	require.Equal(t, 1, li.JLM(0, 0))
	require.Equal(t, 1, li.JLM(0, 1))
	require.Equal(t, 1, li.JLM(1, 0), "matrix is symmetric")
	require.Equal(t, 2, li.JLM(1, 1), "self-loop counts once toward its diagonal cell")
	require.Equal(t, g.M(), li.Total())
}

func TestMissingLabelIsAnError(t *testing.T) {
	g, err := graph.New([][2]int64{{0, 1}, {1, 2}})
	require.NoError(t, err)

	_, err = graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: 0}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no label for node 2")
}

func TestNegativeLabelIsAnError(t *testing.T) {
	g, err := graph.New([][2]int64{{0, 1}})
	require.NoError(t, err)

	_, err = graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: -1}))
	require.Error(t, err)
}

func TestDeltaOnSwap(t *testing.T) {
	// Bipartite square: 0,1 labeled 0; 2,3 labeled 1.
	g, err := graph.New([][2]int64{{0, 2}, {1, 3}, {0, 3}, {1, 2}})
	require.NoError(t, err)
	li, err := graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: 0, 2: 1, 3: 1}))
	require.NoError(t, err)
	require.Equal(t, 4, li.JLM(0, 1))

	// {0,2},{1,3} → {0,1},{2,3}: moves two cross edges onto the diagonals.
	changing := li.DeltaOnSwap(
		graph.Edge{U: 0, V: 2}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 3},
	)
	require.False(t, changing.IsZero())

	// {0,2},{1,3} → {0,3},{1,2}: both ends stay cross-label.
	preserving := li.DeltaOnSwap(
		graph.Edge{U: 0, V: 2}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 0, V: 3}, graph.Edge{U: 1, V: 2},
	)
	require.True(t, preserving.IsZero())
}

func TestApplyAndRevertDelta(t *testing.T) {
	g, err := graph.New([][2]int64{{0, 2}, {1, 3}})
	require.NoError(t, err)
	li, err := graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: 0, 2: 1, 3: 1}))
	require.NoError(t, err)

	before := li.JLMCopy()
	delta := li.DeltaOnSwap(
		graph.Edge{U: 0, V: 2}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 3},
	)
	li.Apply(delta)
	require.Equal(t, 0, li.JLM(0, 1))
	require.Equal(t, 1, li.JLM(0, 0))
	require.Equal(t, 1, li.JLM(1, 1))

	li.Revert(delta)
	require.Equal(t, before, li.JLMCopy())
}

func TestCloneSharesLabelsCopiesMatrix(t *testing.T) {
	g, err := graph.New([][2]int64{{0, 2}, {1, 3}})
	require.NoError(t, err)
	li, err := graph.NewLabelIndex(g, labelRecords(map[int64]int{0: 0, 1: 0, 2: 1, 3: 1}))
	require.NoError(t, err)

	c := li.Clone()
	delta := c.DeltaOnSwap(
		graph.Edge{U: 0, V: 2}, graph.Edge{U: 1, V: 3},
		graph.Edge{U: 0, V: 1}, graph.Edge{U: 2, V: 3},
	)
	c.Apply(delta)

	require.Equal(t, 2, li.JLM(0, 1), "original matrix untouched")
	require.Equal(t, 0, c.JLM(0, 1))
	require.Equal(t, li.Label(0), c.Label(0))
}

func TestScopeColumnRetained(t *testing.T) {
	g, err := graph.New([][2]int64{{0, 1}})
	require.NoError(t, err)
	li, err := graph.NewLabelIndex(g, []graph.NodeLabel{
		{Node: 0, Label: 0, Scope: graph.ScopeInner},
		{Node: 1, Label: 1, Scope: graph.ScopeOuter},
	})
	require.NoError(t, err)

	require.Equal(t, graph.ScopeInner, li.Scope(0))
	require.Equal(t, graph.ScopeOuter, li.Scope(1))
}
