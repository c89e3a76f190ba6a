package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource serves balances from a table, optionally with jitter so
// reads complete out of order.
type scriptedSource struct {
	holders    []string
	holdersErr error
	balances   map[string]int64
	failures   map[string]error
	jitter     bool

	inFlight atomic.Int32
	peak     atomic.Int32
	reads    atomic.Int32
}

func (s *scriptedSource) AllTimeHolders(context.Context) ([]string, error) {
	return s.holders, s.holdersErr
}

func (s *scriptedSource) BalanceOf(_ context.Context, addr string) (*big.Int, error) {
	s.reads.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.jitter {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
	if err, ok := s.failures[addr]; ok {
		return nil, err
	}
	return big.NewInt(s.balances[addr]), nil
}

func TestReconcileExample(t *testing.T) {
	src := &scriptedSource{
		holders:  []string{addrA, addrB, addrC},
		balances: map[string]int64{addrA: 5, addrB: 0},
		failures: map[string]error{addrC: errors.New("timeout")},
	}

	report, err := NewReconciler(src).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addrA}, report.Current)
	assert.Equal(t, []string{addrB}, report.Zero)
	require.Len(t, report.Unknown, 1)
	assert.Equal(t, addrC, report.Unknown[0].Address)
	assert.Equal(t, []string{addrA, addrB, addrC}, report.AllTime)
}

func TestReconcileSetEqualityAcrossOrders(t *testing.T) {
	holders := make([]string, 0, 40)
	balances := map[string]int64{}
	var want []string
	for i := 0; i < 40; i++ {
		addr := fmt.Sprintf("0x%040x", i+1)
		holders = append(holders, addr)
		if i%3 != 0 {
			balances[addr] = int64(i)
			want = append(want, addr)
		}
	}

	for run := 0; run < 5; run++ {
		shuffled := append([]string(nil), holders...)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		src := &scriptedSource{holders: shuffled, balances: balances, jitter: true}
		report, err := NewReconciler(src).Reconcile(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, want, report.Current)
		assert.Equal(t, int32(len(holders)), src.reads.Load())
	}
}

func TestReconcileIdempotent(t *testing.T) {
	src := &scriptedSource{
		holders:  []string{addrA, addrB, addrC},
		balances: map[string]int64{addrA: 1, addrC: 2},
		jitter:   true,
	}
	r := NewReconciler(src)

	first, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, first.Set(), second.Set())
}

func TestReconcileHolderListFailure(t *testing.T) {
	src := &scriptedSource{holdersErr: errors.New("network down")}

	report, err := NewReconciler(src).Reconcile(context.Background())
	assert.Nil(t, report)
	assert.True(t, IsContractCall(err))
	assert.Zero(t, src.reads.Load())
}

func TestReconcileEmptyHolderList(t *testing.T) {
	report, err := NewReconciler(&scriptedSource{}).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Current)
	assert.Empty(t, report.Set())
}

func TestReconcileDuplicates(t *testing.T) {
	src := &scriptedSource{
		holders:  []string{addrA, addrB, addrA},
		balances: map[string]int64{addrA: 3},
	}

	report, err := NewReconciler(src).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.reads.Load())
	assert.ElementsMatch(t, []string{addrA, addrA}, report.Current)
	assert.Equal(t, []string{addrA}, report.Set())
}

func TestReconcileMaxGoroutines(t *testing.T) {
	holders := make([]string, 20)
	for i := range holders {
		holders[i] = addrA
	}
	src := &scriptedSource{holders: holders, balances: map[string]int64{addrA: 1}, jitter: true}

	report, err := NewReconciler(src, WithMaxGoroutines(2)).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Current, 20)
	assert.LessOrEqual(t, src.peak.Load(), int32(2))
}

func TestClientCurrentHolders(t *testing.T) {
	f := newFakeToken(t)
	f.holders = []string{addrA, addrB, addrC}
	f.setBalance(addrA, 5)
	f.failBalance(addrC)

	report, err := newTestClient(t, f, WithConcurrency(1)).CurrentHolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{addrA}, report.Set())
	assert.Equal(t, []string{addrB}, report.Zero)
	require.Len(t, report.Unknown, 1)
	assert.True(t, IsContractCall(report.Unknown[0].Err))
}
