package graph

import (
	"bufio"
	"fmt"
	"os"
)

// WriteEdgeList writes edges (original node ids) as a graph TSV.
func WriteEdgeList(path string, edges [][2]int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create edge list: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range edges {
		fmt.Fprintf(w, "%d\t%d\n", e[0], e[1])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write edge list: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close edge list: %w", err)
	}
	return nil
}
