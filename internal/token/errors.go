package token

import (
	"errors"
	"fmt"
)

// Error is implemented by every error the token client and reconciler
// return: *ValidationError, *ContractCallError and *TransactionError.
type Error interface {
	error
	// Message is the user-facing text, before any truncation.
	Message() string
	sealed()
}

// ValidationError means a required argument was missing or malformed. It is
// raised before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Message() string { return e.Error() }
func (e *ValidationError) sealed()         {}

// ContractCallError means a read call failed (network error or revert).
type ContractCallError struct {
	Method string
	Err    error
}

func (e *ContractCallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Method, e.Err)
}

func (e *ContractCallError) Message() string { return e.Error() }
func (e *ContractCallError) Unwrap() error   { return e.Err }
func (e *ContractCallError) sealed()         {}

// TransactionError means a write failed during submission or confirmation.
// Hash is set once the transaction reached the network.
type TransactionError struct {
	Method string
	Hash   string
	Err    error
}

func (e *TransactionError) Error() string {
	if e.Hash != "" {
		return fmt.Sprintf("%s transaction %s failed: %v", e.Method, e.Hash, e.Err)
	}
	return fmt.Sprintf("%s transaction failed: %v", e.Method, e.Err)
}

func (e *TransactionError) Message() string {
	return fmt.Sprintf("%s failed: %v", e.Method, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
func (e *TransactionError) sealed()       {}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsContractCall reports whether err is or wraps a *ContractCallError.
func IsContractCall(err error) bool {
	var c *ContractCallError
	return errors.As(err, &c)
}

// IsTransaction reports whether err is or wraps a *TransactionError.
func IsTransaction(err error) bool {
	var t *TransactionError
	return errors.As(err, &t)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
