package file

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const documentSchemaURL = "todo://document.schema.json"

// documentSchema describes the on-disk document. Extra properties are allowed
// so hand-edited files keep loading.
const documentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"items": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id", "title", "completed"],
				"properties": {
					"id": {"type": "integer", "minimum": 1},
					"title": {"type": "string", "minLength": 1},
					"completed": {"type": "boolean"}
				}
			}
		}
	}
}`

var (
	compiledSchema *jsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(documentSchemaURL, strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("invalid document schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(documentSchemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded JSON value against the document schema.
func validateDocument(v interface{}) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return describeSchemaError(err)
	}
	return nil
}

// describeSchemaError flattens a validation error into the leaf causes.
func describeSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var msgs []string
	collectSchemaErrors(ve, &msgs)
	if len(msgs) == 0 {
		return err
	}
	return fmt.Errorf("document does not match schema: %s", strings.Join(msgs, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
