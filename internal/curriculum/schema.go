package curriculum

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const curriculumSchemaJSON = `{
  "type": "object",
  "required": ["weeks"],
  "properties": {
    "goal": {"type": "string"},
    "weeks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["week", "topics"],
        "properties": {
          "week": {"type": "integer", "minimum": 1},
          "title": {"type": "string"},
          "topics": {
            "type": "array",
            "items": {"type": "string"},
            "minItems": 1
          }
        }
      }
    }
  }
}`

var curriculumSchema = jsonschema.MustCompileString("curriculum.json", curriculumSchemaJSON)

// validateCurriculumJSON checks that raw is a JSON object matching the
// curriculum schema and returns it re-encoded.
func validateCurriculumJSON(raw string) (json.RawMessage, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	if _, ok := value.(map[string]any); !ok {
		return nil, fmt.Errorf("top-level JSON value is not an object")
	}
	if err := curriculumSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	return json.RawMessage(raw), nil
}
