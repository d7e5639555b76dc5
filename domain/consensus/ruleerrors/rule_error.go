package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrInvalidTemplateField indicates a block template field (height,
	// timestamp, difficulty bits, transaction list) could not be used to
	// build a block.
	ErrInvalidTemplateField = newRuleError("ErrInvalidTemplateField")

	// ErrProofOfWorkExhausted indicates the whole nonce range was tried
	// without finding a header hash at or below the target. Retrying with
	// a different timestamp reshuffles the search space.
	ErrProofOfWorkExhausted = newRuleError("ErrProofOfWorkExhausted")

	// ErrMutationPrecondition indicates a mutation was requested without
	// the ingredients it needs, e.g. too few extra transactions.
	ErrMutationPrecondition = newRuleError("ErrMutationPrecondition")

	// ErrCommitmentComputation indicates the coinbase witness data is
	// malformed so the witness commitment can't be computed or embedded.
	ErrCommitmentComputation = newRuleError("ErrCommitmentComputation")

	// ErrUnknownMutation indicates a mutation tag that is not part of the
	// mutation catalog.
	ErrUnknownMutation = newRuleError("ErrUnknownMutation")
)

// RuleError identifies a failure to build a block. The caller can use
// errors.Is against the exported values above to find out which kind of
// failure happened.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is reports whether target is a RuleError of the same kind, so that a
// RuleError carrying details still matches its bare sentinel.
func (e RuleError) Is(target error) bool {
	var other RuleError
	if !errors.As(target, &other) {
		return false
	}
	return other.message == e.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// Errorf returns a RuleError of the given kind carrying a formatted
// description of what went wrong, annotated with a stack trace.
func Errorf(kind RuleError, format string, args ...interface{}) error {
	return errors.WithStack(RuleError{
		message: kind.message,
		inner:   errors.New(fmt.Sprintf(format, args...)),
	})
}

// Wrapf returns a RuleError of the given kind wrapping err.
func Wrapf(kind RuleError, err error, format string, args ...interface{}) error {
	return errors.WithStack(RuleError{
		message: kind.message,
		inner:   errors.Wrapf(err, format, args...),
	})
}
