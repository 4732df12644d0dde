package apperrors

import (
	"errors"
	"fmt"
)

// 錯誤分類：除了 ErrInfrastructure 之外，重送相同輸入都不會成功
var (
	ErrFormat         = errors.New("format error")
	ErrRequiredField  = errors.New("required field error")
	ErrUniqueness     = errors.New("uniqueness error")
	ErrReferential    = errors.New("referential error")
	ErrInfrastructure = errors.New("infrastructure error")

	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingExists   = errors.New("booking already exists")
	ErrInvalidInput    = errors.New("invalid input")
)

const (
	MsgInvalidDate       = "Invalid date format; expected a parsable date string"
	MsgReferencedMissing = "Referenced Event not found"
)

// FieldError identifies the offending field of a rejected record.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Is(target error) bool {
	return target == e.Kind
}

func Required(field string) *FieldError {
	return &FieldError{
		Kind:    ErrRequiredField,
		Field:   field,
		Message: fmt.Sprintf("%s is required and must be non-empty", field),
	}
}

func InvalidEmail(value string) *FieldError {
	return &FieldError{
		Kind:    ErrFormat,
		Field:   "email",
		Message: fmt.Sprintf("%s is not a valid email", value),
	}
}

func InvalidDate() *FieldError {
	return &FieldError{Kind: ErrFormat, Field: "date", Message: MsgInvalidDate}
}

func InvalidTime(value string) *FieldError {
	return &FieldError{
		Kind:    ErrFormat,
		Field:   "time",
		Message: fmt.Sprintf("Invalid time format: %s", value),
	}
}

func DuplicateSlug(slug string) *FieldError {
	return &FieldError{
		Kind:    ErrUniqueness,
		Field:   "slug",
		Message: fmt.Sprintf("slug %s already exists", slug),
	}
}

func EventNotFound() *FieldError {
	return &FieldError{Kind: ErrReferential, Field: "eventId", Message: MsgReferencedMissing}
}

// InfrastructureError wraps a connect or query failure of the backing store.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func (e *InfrastructureError) Is(target error) bool {
	return target == ErrInfrastructure
}

// Infrastructure wraps err unless it already is an infrastructure error.
func Infrastructure(op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsRetryable 只有基礎設施錯誤值得重試
func IsRetryable(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}

// FieldOf returns the offending field name, or "" when err carries none.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
