package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// finishContent turns raw model text into the response Content: JSON is
// unwrapped from any Markdown fence and validated when a schema was asked for.
func finishContent(req Request, text string) (json.RawMessage, error) {
	if req.Schema == nil {
		return json.RawMessage(text), nil
	}
	raw := cleanJSON([]byte(text))
	if err := validateResponse(req.Schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// cleanJSON strips a surrounding ``` or ```json fence and any prose around
// the outermost JSON object. Input without an object is returned trimmed.
func cleanJSON(b []byte) json.RawMessage {
	b = bytes.TrimSpace(b)
	if bytes.HasPrefix(b, []byte("```")) {
		if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
			b = b[nl+1:]
		} else {
			b = b[3:]
		}
		if end := bytes.LastIndex(b, []byte("```")); end >= 0 {
			b = b[:end]
		}
		b = bytes.TrimSpace(b)
	}

	start := bytes.IndexByte(b, '{')
	end := bytes.LastIndexByte(b, '}')
	if start > 0 && end > start {
		b = b[start : end+1]
	}
	return json.RawMessage(b)
}

// validateResponse validates raw JSON against the given Schema.
// Returns *ErrInvalidResponse on failure.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := getCompiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	actual, _ := schemaCache.LoadOrStore(schema.Name, compiled)
	return actual.(*jsonschema.Schema), nil
}
