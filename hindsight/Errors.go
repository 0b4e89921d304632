package hindsight

import "errors"

// Error implements errors unique to a hindsight replay buffer. Op names
// the operation that failed.
type Error struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrConfiguration is reported when a buffer or strategy is
	// constructed with an invalid configuration
	ErrConfiguration = errors.New("invalid configuration")

	// ErrPrecondition is reported when sampling is requested with an
	// invalid batch size or from an empty buffer
	ErrPrecondition = errors.New("precondition failed")

	// ErrUnsupportedStrategy is reported when a buffer holds a
	// strategy it cannot dispatch to
	ErrUnsupportedStrategy = errors.New("unsupported replay strategy")
)

// IsConfiguration returns whether or not an error reports an invalid
// configuration
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsPrecondition returns whether or not an error reports a violated
// sampling precondition
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

// IsUnsupportedStrategy returns whether or not an error reports an
// unknown replay strategy
func IsUnsupportedStrategy(err error) bool {
	return errors.Is(err, ErrUnsupportedStrategy)
}
