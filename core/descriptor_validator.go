package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/smarty/dcspkg/contracts"
)

const descriptorSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["pkgname", "fullname", "crc", "has_installer", "add_to_path"],
	"properties": {
		"pkgname":         {"type": "string"},
		"fullname":        {"type": "string"},
		"description":     {"type": ["string", "null"]},
		"image_url":       {"type": ["string", "null"]},
		"executable_path": {"type": ["string", "null"]},
		"crc":             {"type": "integer", "minimum": 0, "maximum": 4294967295},
		"has_installer":   {"type": "boolean"},
		"add_to_path":     {"type": "boolean"}
	}
}`

// DescriptorValidator checks a metadata document against the descriptor
// schema before it is decoded.
type DescriptorValidator struct {
	schema *jsonschema.Schema
}

func NewDescriptorValidator() *DescriptorValidator {
	return &DescriptorValidator{
		schema: jsonschema.MustCompileString("descriptor.schema.json", descriptorSchema),
	}
}

func (this *DescriptorValidator) Validate(raw []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var document any
	if err := decoder.Decode(&document); err != nil {
		return fmt.Errorf("%w: %w", contracts.ErrDecode, err)
	}
	if err := this.schema.Validate(document); err != nil {
		return fmt.Errorf("%w: %w", contracts.ErrDecode, err)
	}
	return nil
}
