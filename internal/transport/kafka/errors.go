package kafka

// PermanentError marks a handler failure that redelivery cannot fix; the
// message is dropped instead of retried.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps an error as permanent.
func Permanent(err error) error {
	return PermanentError{Err: err}
}
