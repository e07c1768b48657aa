package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorBuilder chains context onto an error; Mark ends the chain.
type ErrorBuilder struct {
	err error
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError wraps an error returned by a dependency.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WithMessage(b.err, msg)
	return b
}

// WithHint is shown to the admin; see Hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// Mark tags the error with one of the sentinels in this package.
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.err = errors.Mark(b.err, sentinel)
	return b.err
}

// Error returns the unmarked error.
func (b *ErrorBuilder) Error() error {
	return b.err
}

// Hint returns the first hint attached to err, or "".
func Hint(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}
	return ""
}
