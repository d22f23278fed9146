package llm

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// classificationSchema constrains what the Page Classifier accepts before
// it applies defaults. Extra properties are tolerated; wrong types are not.
const classificationSchema = `{
  "type": "object",
  "properties": {
    "type": {"type": "string"},
    "has_recipe_start": {"type": "boolean"},
    "has_recipe_continuation": {"type": "boolean"},
    "recipe_names_visible": {"type": "array", "items": {"type": "string"}},
    "page_numbers": {"type": "array", "items": {"type": "integer"}},
    "total_pages": {"type": ["integer", "null"]},
    "confidence": {"type": "string"}
  }
}`

// extractionSchema is the loose contract for a recipe extraction reply.
const extractionSchema = `{
  "type": "object",
  "properties": {
    "recipes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"}
        },
        "required": ["name"]
      }
    }
  },
  "required": ["recipes"]
}`

var (
	compiledClassification = jsonschema.MustCompileString("classification.json", classificationSchema)
	compiledExtraction     = jsonschema.MustCompileString("extraction.json", extractionSchema)
)

// ValidateClassification checks a decoded classification reply against the
// schema. Callers treat a failure like a parse failure and fall back to
// defaults.
func ValidateClassification(raw []byte) error {
	return validateAgainst(compiledClassification, raw)
}

// ValidateExtraction checks a decoded extraction reply.
func ValidateExtraction(raw []byte) error {
	return validateAgainst(compiledExtraction, raw)
}

func validateAgainst(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
