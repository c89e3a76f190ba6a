package token

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ValidateAddress checks that addr is 0x followed by 40 hex digits. An
// all-lowercase or all-uppercase address is accepted as is; a mixed-case
// address must carry a valid EIP-55 checksum. The address is never
// re-cased.
func ValidateAddress(field, addr string) error {
	if addr == "" {
		return invalid(field, "address is required")
	}
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return invalid(field, "want 0x followed by 40 hex digits")
	}
	body := addr[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return invalid(field, "address is not hex")
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if checksumAddress(body) != addr {
		return invalid(field, "bad EIP-55 checksum")
	}
	return nil
}

// checksumAddress returns the EIP-55 form of a 40-digit hex body.
func checksumAddress(body string) string {
	lower := strings.ToLower(body)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 32
		}
	}
	return "0x" + string(out)
}
