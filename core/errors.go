package core

import "strconv"

// DecodeError indicates that PDF value syntax was violated. Offset is the
// byte position in the input at which decoding failed.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return "decode error at byte " + strconv.FormatInt(e.Offset, 10) + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
