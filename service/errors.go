package service

type InvalidParamsError struct {
	msg string
}

func (e *InvalidParamsError) Error() string {
	return e.msg
}

func NewInvalidParamsError(text string) error {
	return &InvalidParamsError{text}
}

func requiredParamError(param string) error {
	return NewInvalidParamsError(param + " query parameter is required")
}

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string {
	return e.msg
}

func NewNotFoundError(text string) error {
	return &NotFoundError{text}
}

type ForbiddenError struct {
	msg string
}

func (e *ForbiddenError) Error() string {
	return e.msg
}

func NewForbiddenError(text string) error {
	return &ForbiddenError{text}
}
