package rpc

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// Endpoint is one RPC URL with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool // meaningful only when Checked == true
	Checked     bool
}

// Picker selects an RPC endpoint according to the configured algorithm.
// It is safe for concurrent use; round-robin state lives on the Picker.
type Picker struct {
	algo    Algorithm
	mu      sync.Mutex
	rrIndex int
}

// NewPicker creates a new Picker. Unknown algorithms fall back to fastest.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Pick selects an endpoint from the provided list according to the algorithm.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	candidates := eligible(endpoints)
	if len(candidates) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmFailover:
		// Configured order wins; eligible() preserves it.
		return candidates[0], nil
	case AlgorithmRoundRobin:
		p.mu.Lock()
		defer p.mu.Unlock()
		e := candidates[p.rrIndex%len(candidates)]
		p.rrIndex = (p.rrIndex + 1) % len(candidates)
		return e, nil
	default:
		fresh := notStale(candidates)
		sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].Latency < fresh[j].Latency })
		return fresh[0], nil
	}
}

// eligible drops endpoints that were checked and found unhealthy.
func eligible(endpoints []Endpoint) []*Endpoint {
	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		out = append(out, e)
	}
	return out
}

// notStale keeps endpoints within staleBlockThreshold of the best block.
// Never returns an empty slice for a non-empty input.
func notStale(candidates []*Endpoint) []*Endpoint {
	var best uint64
	for _, e := range candidates {
		if e.BlockNumber > best {
			best = e.BlockNumber
		}
	}
	out := make([]*Endpoint, 0, len(candidates))
	for _, e := range candidates {
		if best-e.BlockNumber <= staleBlockThreshold {
			out = append(out, e)
		}
	}
	return out
}
