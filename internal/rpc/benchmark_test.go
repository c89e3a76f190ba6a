package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockNumberServer(t *testing.T, block string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID int64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck

		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": block,
		})
	}))
}

func TestResultsToEndpoints(t *testing.T) {
	assert.Empty(t, ResultsToEndpoints(nil))

	endpoints := ResultsToEndpoints([]BenchmarkResult{
		{URL: "https://ok", Latency: 50 * time.Millisecond, BlockNumber: 100},
		{URL: "https://dead", Err: errors.New("connection refused")},
	})
	require.Len(t, endpoints, 2)
	assert.True(t, endpoints[0].Healthy)
	assert.True(t, endpoints[0].Checked)
	assert.False(t, endpoints[1].Healthy)
	assert.True(t, endpoints[1].Checked)
}

func TestBenchmarkKeepsOrder(t *testing.T) {
	srv := blockNumberServer(t, "0x64")
	defer srv.Close()

	results := Benchmark(context.Background(), []string{srv.URL, "http://127.0.0.1:19999"})
	require.Len(t, results, 2)
	assert.Equal(t, srv.URL, results[0].URL)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, uint64(100), results[0].BlockNumber)
	assert.Error(t, results[1].Err)
}

func TestSelectSingleURLSkipsProbe(t *testing.T) {
	url, err := Select(context.Background(), []string{"http://never-dialed"}, "", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://never-dialed", url)
}

func TestSelectEmpty(t *testing.T) {
	_, err := Select(context.Background(), nil, "fastest", time.Second)
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

func TestSelectSkipsDeadEndpoint(t *testing.T) {
	srv := blockNumberServer(t, "0x64")
	defer srv.Close()

	url, err := Select(context.Background(), []string{"http://127.0.0.1:19999", srv.URL}, "failover", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, url)
}
