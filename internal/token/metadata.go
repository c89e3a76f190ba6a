package token

import (
	"context"
	"math/big"
	"sync"
)

// Metadata is the token's descriptive state. A field whose read failed is
// nil and its error is kept in Errs under the contract method name.
type Metadata struct {
	Name        *string
	Symbol      *string
	Decimals    *uint8
	TotalSupply *big.Int
	// TotalSupplyDisplay needs both totalSupply and decimals.
	TotalSupplyDisplay *Amount
	Errs               map[string]error
}

// Complete reports whether all four reads succeeded.
func (m *Metadata) Complete() bool { return len(m.Errs) == 0 }

// Metadata issues the name, symbol, decimals and totalSupply reads
// concurrently. It never fails as a whole.
func (c *Client) Metadata(ctx context.Context) *Metadata {
	md := &Metadata{Errs: make(map[string]error)}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	fetch := func(method string, assign func(v interface{})) {
		defer wg.Done()
		out, err := c.read(ctx, method)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			md.Errs[method] = err
			return
		}
		assign(out[0])
	}

	wg.Add(4)
	go fetch("name", func(v interface{}) {
		s := v.(string)
		md.Name = &s
	})
	go fetch("symbol", func(v interface{}) {
		s := v.(string)
		md.Symbol = &s
	})
	go fetch("decimals", func(v interface{}) {
		d := v.(uint8)
		md.Decimals = &d
	})
	go fetch("totalSupply", func(v interface{}) {
		md.TotalSupply = v.(*big.Int)
	})
	wg.Wait()

	if md.Decimals != nil {
		c.setDecimals(*md.Decimals)
		if md.TotalSupply != nil {
			md.TotalSupplyDisplay = NewAmount(md.TotalSupply, *md.Decimals)
		}
	}
	return md
}
