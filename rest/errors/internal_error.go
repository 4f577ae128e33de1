package errors

// InternalError carries the message exposed to clients when the cause must stay server side.
type InternalError struct {
	msg string
}

func (e *InternalError) Error() string {
	return e.msg
}

func NewInternalError(text string) error {
	return &InternalError{text}
}
