package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed ollama_settings.schema.json
var settingsSchemaJSON string

var (
	settingsSchemaOnce sync.Once
	settingsSchema     *jsonschema.Schema
	settingsSchemaErr  error
)

// validateSettingsPayload checks a config update body against the settings
// schema. A non-nil return means nothing may be applied.
func validateSettingsPayload(payload []byte) error {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return fmt.Errorf("decode settings JSON: %w", err)
	}

	schema, err := loadSettingsSchema()
	if err != nil {
		return fmt.Errorf("load settings schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

func loadSettingsSchema() (*jsonschema.Schema, error) {
	settingsSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("ollama_settings.schema.json", strings.NewReader(settingsSchemaJSON)); err != nil {
			settingsSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("ollama_settings.schema.json")
		if err != nil {
			settingsSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		settingsSchema = schema
	})

	if settingsSchemaErr != nil {
		return nil, settingsSchemaErr
	}
	if settingsSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return settingsSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}
