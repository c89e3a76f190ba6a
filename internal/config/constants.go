package config

import (
	"math/big"
	"time"
)

// MaxMessageChars caps every failure message shown to the user.
const MaxMessageChars = 50

// DefaultDecimals is used for amount parsing until the token's decimals()
// call has succeeded.
const DefaultDecimals uint8 = 18

// Gas limits used as EstimateGas fallbacks when the node cannot simulate the tx.
const (
	GasLimitERC20Transfer = uint64(60_000)  // transfer / transferFrom
	GasLimitERC20Approve  = uint64(50_000)  // approve
	GasLimitLotteryEntry  = uint64(150_000) // enter()
	GasLimitContractCall  = uint64(200_000) // anything else
)

// Timeout constants.
const (
	RPCSelectTimeout    = 10 * time.Second // endpoint benchmark
	TxConfirmTimeout    = 3 * time.Minute  // single-confirmation wait
	ReceiptPollInterval = 2 * time.Second
)

// entryFeeWei is the fixed payment for enter(): 0.011 ether.
var entryFeeWei = big.NewInt(11_000_000_000_000_000)

// EntryFeeWei returns a copy of the lottery entry fee in wei.
func EntryFeeWei() *big.Int {
	return new(big.Int).Set(entryFeeWei)
}
