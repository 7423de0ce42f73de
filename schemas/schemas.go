// Package schemas embeds the JSON Schemas that describe the advisor's data files.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names.
const (
	MappingTables  = "mapping_tables.schema.json"
	Catalog        = "catalog.schema.json"
	QuizSubmission = "quiz_submission.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Get returns the raw content of an embedded schema.
func Get(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return data, nil
}

// MustGet is Get for schema names known at compile time.
func MustGet(name string) []byte {
	data, err := Get(name)
	if err != nil {
		panic(err)
	}
	return data
}
