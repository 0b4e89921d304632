package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var errEmptyBuffer = errors.New("buffer empty")

var errEmptyEpisode = errors.New("episode has no transitions")

var errInvalidArgument = errors.New("invalid argument")

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyBuffer)
}

// IsEmptyEpisode returns whether or not an error reports that an
// episode without transitions was added to a buffer.
func IsEmptyEpisode(err error) bool {
	return errors.Is(err, errEmptyEpisode)
}

// IsInvalidArgument returns whether or not an error reports an illegal
// argument, such as a negative capacity or sample size.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, errInvalidArgument)
}
