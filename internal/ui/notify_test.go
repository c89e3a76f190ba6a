package ui

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Mohsinsiddi/tokendesk/internal/token"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "", Truncate("anything", 0))

	long := strings.Repeat("x", 80)
	assert.Equal(t, 50, len(Truncate(long, 50)))

	exact := strings.Repeat("y", 50)
	assert.Equal(t, exact, Truncate(exact, 50))
}

func TestTruncateCountsRunes(t *testing.T) {
	s := strings.Repeat("é", 60)
	out := Truncate(s, 50)
	assert.Equal(t, 50, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}

func TestFailureTextCapsMessage(t *testing.T) {
	err := errors.New(strings.Repeat("m", 120))
	text := FailureText("Transfer", err)

	prefix := "Transfer Failure message: "
	assert.True(t, strings.HasPrefix(text, prefix))
	assert.Equal(t, MaxMessageChars, len(strings.TrimPrefix(text, prefix)))
}

func TestFailureTextUsesTokenMessage(t *testing.T) {
	err := &token.TransactionError{Method: "approve", Hash: "0xabc", Err: errors.New("reverted")}
	assert.Equal(t, "Approve Failure message: approve failed: reverted", FailureText("Approve", err))
}

func TestFailureRendersError(t *testing.T) {
	out := Failure("Holders", &token.ValidationError{Field: "amount", Reason: "amount is required"})
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "Holders Failure message: invalid amount: amount is required")
}
