package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// BusinessError is a rule violation the caller can act on (mapped to HTTP 400).
// The message is user-facing, in the application's display language.
type BusinessError struct {
	Msg string
}

func (e *BusinessError) Error() string {
	return e.Msg
}

func NewBusinessError(msg string) error {
	return &BusinessError{Msg: msg}
}

func IsBusinessError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}
