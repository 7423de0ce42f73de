package advisor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound matches every not-found error returned by the service.
var ErrNotFound = errors.New("not found")

// ErrStudentNotFound indicates the student has no record.
type ErrStudentNotFound struct {
	StudentID string
}

func (e *ErrStudentNotFound) Error() string {
	return fmt.Sprintf("student not found: %s", e.StudentID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *ErrStudentNotFound) Is(target error) bool { return target == ErrNotFound }

// ErrQuizResultNotFound indicates the quiz result does not exist for the student.
type ErrQuizResultNotFound struct {
	ResultID string
}

func (e *ErrQuizResultNotFound) Error() string {
	return fmt.Sprintf("quiz result not found: %s", e.ResultID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *ErrQuizResultNotFound) Is(target error) bool { return target == ErrNotFound }

// ErrCareerPathNotFound indicates the skill tree does not exist.
type ErrCareerPathNotFound struct {
	PathID string
}

func (e *ErrCareerPathNotFound) Error() string {
	return fmt.Sprintf("skill tree not found: %s", e.PathID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *ErrCareerPathNotFound) Is(target error) bool { return target == ErrNotFound }

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts the first validator failure into an ErrValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msg := "failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &ErrValidation{Field: field, Message: msg}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
