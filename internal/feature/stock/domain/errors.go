// Package domain defines shared domain types and errors for the stock feature.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceTimeout is returned when a remote call does not answer within
	// its deadline.
	ErrSourceTimeout = errors.New("source timed out")

	// ErrSourceMalformed is returned when a source answers with a payload
	// that cannot be parsed or is structurally incomplete.
	ErrSourceMalformed = errors.New("source returned malformed payload")

	// ErrSourceEmpty is returned when a source answers well-formed data that
	// contains zero usable bars.
	ErrSourceEmpty = errors.New("source returned no usable bars")

	// ErrAllSourcesExhausted is returned when every adapter in the failover
	// chain has failed. It is the only source error that reaches callers.
	ErrAllSourcesExhausted = errors.New("all data sources exhausted")

	// ErrInvalidCode is returned when a security code cannot be parsed.
	ErrInvalidCode = errors.New("invalid security code")
)

// SourceError attributes a fetch failure to a named data source so the
// failover orchestrator can report which adapters failed and why.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError wraps err with the originating source name.
func NewSourceError(source string, err error) *SourceError {
	return &SourceError{Source: source, Err: err}
}
