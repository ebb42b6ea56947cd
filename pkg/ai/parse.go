package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The model is instructed to return strict JSON but occasionally wraps it in
// prose. Mirror the frontend's fallback: grab the block from the first "{"
// through the final "}" at the end of the reply.
var trailingObjectPattern = regexp.MustCompile(`(?s)\{.*\}\s*$`)

const evaluationSchema = `{
	"type": "object",
	"properties": {
		"verdict": {"type": "string"},
		"confidence": {"type": "string"},
		"summary": {"type": "string"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"risks": {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}},
		"score": {
			"type": "object",
			"properties": {
				"technical": {"type": "number"},
				"community": {"type": "number"},
				"governance": {"type": "number"},
				"overall": {"type": "number"}
			}
		}
	}
}`

var evaluationSchemaCompiled = jsonschema.MustCompileString("evaluation.json", evaluationSchema)

// ParseContent interprets a model reply as a structured evaluation. It tries
// the whole reply as strict JSON first, then the trailing object block. A
// reply that matches neither, or whose shape fails the schema, yields nil:
// the caller keeps the raw text and treats the evaluation as unstructured.
func ParseContent(content string) *StructuredEvaluation {
	candidates := []string{strings.TrimSpace(content)}
	if match := trailingObjectPattern.FindString(content); match != "" {
		candidates = append(candidates, match)
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		var generic interface{}
		if err := json.Unmarshal([]byte(candidate), &generic); err != nil {
			continue
		}
		if err := evaluationSchemaCompiled.Validate(generic); err != nil {
			continue
		}

		var structured StructuredEvaluation
		if err := json.Unmarshal([]byte(candidate), &structured); err != nil {
			continue
		}
		return &structured
	}

	return nil
}
