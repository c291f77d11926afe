package server

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Request-body schemas for the three endpoints. Compiled once at startup;
// a schema that fails to compile is a programming error.
const (
	startSessionSchema = `{
		"type": "object",
		"properties": {
			"skill": {"type": "string"}
		},
		"required": ["skill"]
	}`

	submitAnswerSchema = `{
		"type": "object",
		"properties": {
			"session_id": {"type": "string"},
			"answer": {"type": ["string", "null"]},
			"response_time": {"type": "number"},
			"skip": {"type": "boolean"}
		},
		"required": ["session_id"]
	}`

	getHintSchema = `{
		"type": "object",
		"properties": {
			"session_id": {"type": "string"}
		},
		"required": ["session_id"]
	}`
)

type requestSchemas struct {
	start  *jsonschema.Schema
	submit *jsonschema.Schema
	hint   *jsonschema.Schema
}

func compileSchemas() (*requestSchemas, error) {
	s := &requestSchemas{}
	for _, def := range []struct {
		name   string
		source string
		target **jsonschema.Schema
	}{
		{"start-session", startSessionSchema, &s.start},
		{"submit-answer", submitAnswerSchema, &s.submit},
		{"get-hint", getHintSchema, &s.hint},
	} {
		compiled, err := compileSchema(def.name, def.source)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", def.name, err)
		}
		*def.target = compiled
	}
	return s, nil
}

func compileSchema(name, source string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(source)))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}

// validateBody checks raw JSON against a compiled schema. Returns an error
// suitable for a client-facing message.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
