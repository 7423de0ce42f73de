package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skilltree-advisor/internal/advisor"
)

// ErrForbidden indicates the token does not grant access to the student.
type ErrForbidden struct {
	StudentID string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("access denied to student: %s", e.StudentID)
}

// ErrBadRequest indicates a malformed request.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch err.(type) {
	case *advisor.ErrValidation, *ErrBadRequest:
		return http.StatusBadRequest
	case *ErrForbidden:
		return http.StatusForbidden
	case *advisor.ErrStudentNotFound, *advisor.ErrQuizResultNotFound, *advisor.ErrCareerPathNotFound:
		return http.StatusNotFound
	}

	// Wrapped errors
	var verr *advisor.ErrValidation
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, advisor.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
