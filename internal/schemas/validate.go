// Package schemas validates data files and request documents against the
// embedded JSON Schemas.
package schemas

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/jonathan/skilltree-advisor/schemas"
)

// ValidationError lists every place a document breaks its schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is one schema violation. Field is a dotted path, "(root)" for
// the document itself.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("%s: %d schema violation(s): %s", ve.Schema, len(ve.Errors), strings.Join(parts, "; "))
}

// SchemaLoadError means the schema itself could not be compiled.
type SchemaLoadError struct {
	Schema string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to compile schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ErrNotJSON is returned when the document cannot be parsed at all.
var ErrNotJSON = errors.New("document is not valid JSON")

// Validator checks documents against one compiled schema. It is safe for
// concurrent use.
type Validator struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses schema content once for repeated validation.
func Compile(name string, content []byte) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Cause: err}
	}
	return &Validator{name: name, schema: schema}, nil
}

var embedded sync.Map // schema file name -> func() (*Validator, error)

// Embedded returns the compiled validator for an embedded schema file.
// Each schema is compiled at most once per process.
func Embedded(name string) (*Validator, error) {
	once, _ := embedded.LoadOrStore(name, sync.OnceValues(func() (*Validator, error) {
		content, err := rootschemas.Get(name)
		if err != nil {
			return nil, &SchemaLoadError{Schema: name, Cause: err}
		}
		return Compile(name, content)
	}))
	return once.(func() (*Validator, error))()
}

// Validate checks a JSON document.
func (v *Validator) Validate(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if result.Valid() {
		return nil
	}
	return newValidationError(v.name, result.Errors())
}

// ValidateFile reads and checks a JSON file, returning its content when valid.
func (v *Validator) ValidateFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("JSON file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read JSON file %s: %w", path, err)
	}
	if err := v.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func newValidationError(schema string, errs []gojsonschema.ResultError) *ValidationError {
	ve := &ValidationError{
		Schema: schema,
		Errors: make([]FieldError, 0, len(errs)),
	}
	for _, re := range errs {
		field := re.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: re.Description()})
	}
	return ve
}
