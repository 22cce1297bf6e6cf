package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

// Storage handles persistence of sampled graphs and convergence telemetry
// under the run's output directory.
type Storage struct {
	outDir string
	logger *Logger
}

// NewStorage creates a storage instance, creating the output directory if
// it doesn't exist.
func NewStorage(outDir string, logger *Logger) (*Storage, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Storage{outDir: outDir, logger: logger}, nil
}

// GetOutputDir returns the output directory path
func (s *Storage) GetOutputDir() string { return s.outDir }

// SampleFileName builds the canonical sampled-graph file name.
func SampleFileName(graphName, method string, swaps int, runtimeNs, seed int64, actualSwaps bool) string {
	return fmt.Sprintf("%s__sampler_%s__swaps_%d__runtime_%d__seed_%d__actualswaps_%t.tsv",
		graphName, method, swaps, runtimeNs, seed, actualSwaps)
}

// SaveSampledEdges writes one sampled edge list as a graph TSV.
func (s *Storage) SaveSampledEdges(filename string, edges [][2]int64) (string, error) {
	path := filepath.Join(s.outDir, filename)
	if err := graph.WriteEdgeList(path, edges); err != nil {
		return "", err
	}
	s.logger.Info("Sampled graph saved", "path", path)
	return path, nil
}

// AcceptanceBuckets is the per-chain acceptance histogram as written to the
// acceptance output file.
type AcceptanceBuckets struct {
	Accepted map[string]int `json:"accepted"`
	Rejected map[string]int `json:"rejected"`
}

// SaveAssortativities writes assortativities__<base>: one JSON record per
// chain, keyed by chain id.
func (s *Storage) SaveAssortativities(base string, perChain [][]float64) (string, error) {
	return s.saveKeyed("assortativities__"+base, floatSeries(perChain))
}

// SavePerturbations writes perturbations__<base> in the same shape.
func (s *Storage) SavePerturbations(base string, perChain [][]float64) (string, error) {
	return s.saveKeyed("perturbations__"+base, floatSeries(perChain))
}

// SaveAcceptance writes acceptance__<base>: the per-chain histograms keyed
// by chain id.
func (s *Storage) SaveAcceptance(base string, perChain []AcceptanceBuckets) (string, error) {
	records := make([]interface{}, len(perChain))
	for i, h := range perChain {
		records[i] = h
	}
	return s.saveKeyed("acceptance__"+base, records)
}

// SaveStats writes stats__<base>: one JSON stats record per chain. The
// records carry their own chain_id field, so they are written unwrapped.
func (s *Storage) SaveStats(base string, perChain []interface{}) (string, error) {
	path := filepath.Join(s.outDir, "stats__"+base)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	for _, rec := range perChain {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	s.logger.Info("Stats saved", "path", path)
	return path, nil
}

// saveKeyed writes one {"<chain id>": record} JSON object per line.
func (s *Storage) saveKeyed(filename string, records []interface{}) (string, error) {
	path := filepath.Join(s.outDir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	for i, rec := range records {
		if err := enc.Encode(map[string]interface{}{strconv.Itoa(i): rec}); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	s.logger.Info("Telemetry saved", "path", path)
	return path, nil
}

func floatSeries(perChain [][]float64) []interface{} {
	records := make([]interface{}, len(perChain))
	for i, series := range perChain {
		records[i] = series
	}
	return records
}
