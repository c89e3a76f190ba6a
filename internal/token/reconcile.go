package token

import (
	"context"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/tokendesk/internal/logging"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// HolderSource is what the reconciler reads from. *Client satisfies it.
type HolderSource interface {
	AllTimeHolders(ctx context.Context) ([]string, error)
	BalanceOf(ctx context.Context, addr string) (*big.Int, error)
}

// UnknownBalance is an address whose balance read failed.
type UnknownBalance struct {
	Address string
	Err     error
}

// HolderReport is the outcome of one reconciliation. Current holds every
// address whose read succeeded with a positive balance, in completion
// order. Zero and Unknown separate a confirmed zero balance from a failed
// read; neither is a current holder.
type HolderReport struct {
	AllTime []string
	Current []string
	Zero    []string
	Unknown []UnknownBalance
}

// Set returns Current without duplicates, keeping first occurrence.
func (r *HolderReport) Set() []string {
	seen := make(map[string]struct{}, len(r.Current))
	out := make([]string, 0, len(r.Current))
	for _, a := range r.Current {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Reconciler derives current holders from the all-time holder list.
type Reconciler struct {
	src           HolderSource
	maxGoroutines int
	log           *zap.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithMaxGoroutines caps concurrent balance reads. Zero means unlimited.
func WithMaxGoroutines(n int) ReconcilerOption {
	return func(r *Reconciler) { r.maxGoroutines = n }
}

// WithReconcilerLogger attaches a logger.
func WithReconcilerLogger(l *zap.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.log = logging.OrNop(l) }
}

// NewReconciler returns a reconciler reading from src.
func NewReconciler(src HolderSource, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{src: src, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile fetches the all-time holders and reads each balance once,
// concurrently. Only a failure of the holder list itself fails the call.
func (r *Reconciler) Reconcile(ctx context.Context) (*HolderReport, error) {
	holders, err := r.src.AllTimeHolders(ctx)
	if err != nil {
		if !IsContractCall(err) {
			err = &ContractCallError{Method: "getAllTimeHolder", Err: err}
		}
		return nil, err
	}

	report := &HolderReport{AllTime: holders}
	var mu sync.Mutex

	p := pool.New()
	if r.maxGoroutines > 0 {
		p = p.WithMaxGoroutines(r.maxGoroutines)
	}
	for _, addr := range holders {
		p.Go(func() {
			bal, err := r.src.BalanceOf(ctx, addr)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				r.log.Warn("balance read failed", zap.String("address", addr), zap.Error(err))
				report.Unknown = append(report.Unknown, UnknownBalance{Address: addr, Err: err})
			case bal.Sign() > 0:
				report.Current = append(report.Current, addr)
			default:
				report.Zero = append(report.Zero, addr)
			}
		})
	}
	p.Wait()

	r.log.Debug("reconciled",
		zap.Int("all_time", len(holders)),
		zap.Int("current", len(report.Current)),
		zap.Int("unknown", len(report.Unknown)))
	return report, nil
}

// CurrentHolders reconciles with the client's concurrency cap.
func (c *Client) CurrentHolders(ctx context.Context) (*HolderReport, error) {
	return NewReconciler(c, WithMaxGoroutines(c.concurrency), WithReconcilerLogger(c.log)).Reconcile(ctx)
}
