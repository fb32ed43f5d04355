package services

import (
	"errors"

	"github.com/sungsigun/SignageManagement/pkg/validator"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
)

// Error 서비스 계층 오류. Kind는 위의 센티널 중 하나이며 Message는 사용자에게 노출되는 한글 문구.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

func storageError(message string, err error) error {
	return &Error{Kind: ErrStorage, Message: message, Err: err}
}

func invalid(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// validate runs struct validation and converts failures into a validation Error.
func validate(req interface{}) error {
	if err := validator.ValidateStruct(req); err != nil {
		return invalid("입력값이 올바르지 않습니다", validator.FieldErrors(err))
	}
	return nil
}
