package rpc

import (
	"context"
	"time"
)

// Select picks the RPC URL to use from urls. A single URL is returned
// without probing; otherwise every URL is pinged (bounded by timeout) and
// the winner is chosen by algorithm. An empty algorithm means fastest.
func Select(ctx context.Context, urls []string, algorithm string, timeout time.Duration) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	algo := Algorithm(algorithm)
	if algo == "" {
		algo = AlgorithmFastest
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoints := ResultsToEndpoints(Benchmark(ctx, urls))
	winner, err := NewPicker(algo).Pick(endpoints)
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
