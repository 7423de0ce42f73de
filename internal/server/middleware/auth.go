// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// studentIDKey is the context key for storing the authenticated student ID.
const studentIDKey ContextKey = "studentID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (StudentIDGetter, error)
}

// StudentIDGetter is an interface for extracting the student ID from token claims.
type StudentIDGetter interface {
	GetStudentID() string
}

// AuthMiddleware creates middleware that validates bearer tokens and adds the
// student ID to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Authentication required")
				return
			}

			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "Invalid authorization header")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			studentID := claims.GetStudentID()
			if studentID == "" {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := WithStudentID(r.Context(), studentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WithStudentID returns a copy of ctx carrying the authenticated student ID.
func WithStudentID(ctx context.Context, studentID string) context.Context {
	return context.WithValue(ctx, studentIDKey, studentID)
}

// GetStudentID extracts the authenticated student ID from the request context.
func GetStudentID(r *http.Request) (string, error) {
	studentID, ok := r.Context().Value(studentIDKey).(string)
	if !ok || studentID == "" {
		return "", fmt.Errorf("student ID not found in request context")
	}
	return studentID, nil
}
