package reporting

import (
	"encoding/json"
	"fmt"
	"time"
)

// OutputFormat represents the progress output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ProgressReporter reports sampling run progress
type ProgressReporter struct {
	format OutputFormat
	logger *Logger
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(format OutputFormat, logger *Logger) *ProgressReporter {
	return &ProgressReporter{format: format, logger: logger}
}

// ChainSummary is the per-chain line of a finished run.
type ChainSummary struct {
	ChainID         int     `json:"chain_id"`
	Swaps           int     `json:"swaps"`
	Proposals       int     `json:"proposals"`
	AcceptanceRatio float64 `json:"acceptance_ratio"`
	OutputFile      string  `json:"output_file,omitempty"`
}

// RunSummary is the final record of a sampling or convergence run.
type RunSummary struct {
	GraphName string         `json:"graph_name"`
	Method    string         `json:"method"`
	NumEdges  int            `json:"num_edges"`
	Chains    []ChainSummary `json:"chains"`
	ElapsedNs int64          `json:"elapsed_ns"`
}

// ReportRunStarted announces the run parameters.
func (pr *ProgressReporter) ReportRunStarted(graphName, method string, chains, budget int) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "run_started",
			"graph":     graphName,
			"method":    method,
			"chains":    chains,
			"budget":    budget,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	default:
		fmt.Printf("[RUN] %s: %d chain(s) of %d on %s\n", method, chains, budget, graphName)
	}
}

// ReportChainCompleted reports one finished chain.
func (pr *ProgressReporter) ReportChainCompleted(c ChainSummary) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "chain_completed",
			"chain":     c,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	default:
		fmt.Printf("[CHAIN %d] %d/%d accepted (ratio %.4f)\n",
			c.ChainID, c.Swaps, c.Proposals, c.AcceptanceRatio)
	}
}

// ReportRunCompleted prints the final summary.
func (pr *ProgressReporter) ReportRunCompleted(summary RunSummary) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "run_completed",
			"summary":   summary,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	default:
		fmt.Printf("[DONE] %s on %s: %d chain(s), %d edges, %s elapsed\n",
			summary.Method, summary.GraphName, len(summary.Chains),
			summary.NumEdges, time.Duration(summary.ElapsedNs))
	}
}
