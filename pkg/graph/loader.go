package graph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadEdgeList parses a graph TSV: one edge per line, "u\tv", integer node
// ids. Repeated lines are parallel edges; u == v is a self-loop. Errors carry
// the offending line number.
func ReadEdgeList(path string) ([][2]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	var pairs [][2]int64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: expected two columns, got %d", path, line, len(fields))
		}
		u, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad node id %q: %w", path, line, fields[0], err)
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad node id %q: %w", path, line, fields[1], err)
		}
		pairs = append(pairs, [2]int64{u, v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no edges", path)
	}
	return pairs, nil
}

// ReadLabels parses a labels TSV: one line per node, "node_id\tlabel_id"
// with an optional third inner/outer column.
func ReadLabels(path string) ([]NodeLabel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels file: %w", err)
	}
	defer f.Close()

	var records []NodeLabel
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: expected at least two columns, got %d", path, line, len(fields))
		}
		node, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad node id %q: %w", path, line, fields[0], err)
		}
		label, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad label id %q: %w", path, line, fields[1], err)
		}
		rec := NodeLabel{Node: node, Label: label}
		if len(fields) > 2 {
			rec.Scope = LabelScope(fields[2])
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	return records, nil
}

// Load reads a graph file and builds the Graph.
func Load(path string) (*Graph, error) {
	pairs, err := ReadEdgeList(path)
	if err != nil {
		return nil, err
	}
	return New(pairs)
}

// LoadLabels reads a labels file and builds the LabelIndex for g.
func LoadLabels(path string, g *Graph) (*LabelIndex, error) {
	records, err := ReadLabels(path)
	if err != nil {
		return nil, err
	}
	return NewLabelIndex(g, records)
}
