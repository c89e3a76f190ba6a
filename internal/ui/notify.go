package ui

import (
	"errors"

	"github.com/Mohsinsiddi/tokendesk/internal/config"
	"github.com/Mohsinsiddi/tokendesk/internal/token"
)

// MaxMessageChars caps the failure text shown to the user.
const MaxMessageChars = config.MaxMessageChars

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FailureText builds the plain notification text for err:
// "<title> Failure message: <msg>" with msg capped at MaxMessageChars.
func FailureText(title string, err error) string {
	return title + " Failure message: " + Truncate(errorMessage(err), MaxMessageChars)
}

// Failure renders FailureText in the error style.
func Failure(title string, err error) string {
	return Err(FailureText(title, err))
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var te token.Error
	if errors.As(err, &te) {
		return te.Message()
	}
	return err.Error()
}
