package engine

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/planloop/planloop/internal/plan"
)

//go:embed upsert.schema.json
var upsertSchemaJSON string

var upsertSchema = mustCompileSchema("upsert.schema.json", upsertSchemaJSON)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema resource %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// UpsertJSON validates a raw JSON upsert payload against the embedded
// schema, decodes it, and applies it. This is the surface the CLI and
// tool tier submit batches through.
func (e *Engine) UpsertJSON(payload []byte) (*Result, error) {
	var value interface{}
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, &plan.Error{
			Kind:   plan.ErrMalformedDocument,
			Detail: fmt.Sprintf("invalid JSON payload: %v", err),
		}
	}
	if err := upsertSchema.Validate(value); err != nil {
		return nil, mapSchemaError(err)
	}

	var batch []plan.UpsertItem
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, &plan.Error{
			Kind:   plan.ErrMalformedDocument,
			Detail: fmt.Sprintf("decode upsert payload: %v", err),
		}
	}
	return e.Upsert(batch)
}

// mapSchemaError converts a jsonschema validation error into the
// engine's structured error form, keeping the most specific cause.
func mapSchemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &plan.Error{Kind: plan.ErrMissingField, Detail: err.Error()}
	}
	leaf := leafCause(ve)
	detail := leaf.Message
	if loc := strings.TrimPrefix(leaf.InstanceLocation, "/"); loc != "" {
		detail = fmt.Sprintf("%s: %s", loc, leaf.Message)
	}
	return &plan.Error{Kind: plan.ErrMissingField, Detail: detail}
}

// leafCause walks to the deepest single cause of a validation error.
func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
