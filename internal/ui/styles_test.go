package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixedFormatters(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Success", Success, "✓"},
		{"Warn", Warn, "⚠"},
		{"Err", Err, "✗"},
		{"Info", Info, "ℹ"},
		{"Hint", Hint, "💡"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.fn("message")
			assert.Contains(t, out, tt.prefix)
			assert.Contains(t, out, "message")
		})
	}
}

func TestInfoDifferentFromHint(t *testing.T) {
	assert.NotEqual(t, Info("message"), Hint("message"))
}

func TestPlainFormattersKeepText(t *testing.T) {
	formatters := map[string]func(string) string{
		"Addr": Addr,
		"Val":  Val,
		"Meta": Meta,
	}
	for name, fn := range formatters {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, fn("0xABCDEF"), "0xABCDEF")
		})
	}
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "", TruncateAddr(""))
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
	assert.Equal(t, "0x12345678", TruncateAddr("0x12345678"))

	addr := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	assert.Equal(t, "0x7099…79C8", TruncateAddr(addr))
}

func TestBannerMentionsProduct(t *testing.T) {
	assert.Contains(t, Banner(), "lottery token desk")
}
