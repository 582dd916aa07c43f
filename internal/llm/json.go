package llm

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

// Errors returned when a reply cannot be turned into the requested shape
var (
	ErrMalformedReply = eris.New("llm: reply is not a JSON object")
	ErrSchemaMismatch = eris.New("llm: reply does not match schema")
)

// CleanJSONBlock removes markdown code fences from LLM responses.
// Handles ```json ... ```, ``` ... ``` and unwrapped text.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	// Drop any other language tag on the opening fence line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if !strings.ContainsAny(tag, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// Schema is a compiled JSON schema for one reply shape
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles a schema literal and panics on error.
// Intended for package-level schema variables.
func MustSchema(source string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic("llm: invalid schema: " + err.Error())
	}
	return &Schema{schema: s}
}

// Validate checks doc against the schema and joins every violation into one error
func (s *Schema) Validate(doc any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return eris.Wrap(err, "llm: schema validation")
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return eris.Wrap(ErrSchemaMismatch, strings.Join(msgs, "; "))
}

// DecodeOptions tunes how a reply is decoded
type DecodeOptions struct {
	// Lowercase lists top-level string fields folded to lower case before validation
	Lowercase []string
}

// DecodeReply strips code fences from reply, parses it as a JSON object,
// validates it against schema and decodes it into out.
func DecodeReply(reply string, schema *Schema, opts DecodeOptions, out any) error {
	doc, err := parseObject(CleanJSONBlock(reply))
	if err != nil {
		return err
	}

	for _, field := range opts.Lowercase {
		if s, ok := doc[field].(string); ok {
			doc[field] = strings.ToLower(strings.TrimSpace(s))
		}
	}

	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return err
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return eris.Wrap(err, "llm: re-encode reply")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(ErrSchemaMismatch, err.Error())
	}
	return nil
}

// parseObject parses text as a JSON object. When models wrap the object in
// prose, the outermost {...} span is tried as a fallback.
func parseObject(text string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err == nil && doc != nil {
		return doc, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err == nil && doc != nil {
			return doc, nil
		}
	}

	return nil, eris.Wrapf(ErrMalformedReply, "%q", Clip(text, 200))
}
