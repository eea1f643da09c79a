package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseQuestionArray decodes the raw structured response. The top level must
// be a JSON array. Elements that do not decode into a RawQuestion come back as
// zero values so validation drops them and the count stays accurate.
func ParseQuestionArray(raw string) ([]RawQuestion, error) {
	trimmed := strings.TrimSpace(raw)

	var top json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &top); err != nil {
		return nil, fmt.Errorf("parse extraction result: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(top), []byte("[")) {
		return nil, ErrNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(top, &elems); err != nil {
		return nil, fmt.Errorf("parse extraction result: %w", err)
	}

	out := make([]RawQuestion, len(elems))
	for i, elem := range elems {
		var q RawQuestion
		if err := json.Unmarshal(elem, &q); err != nil {
			continue
		}
		out[i] = q
	}
	return out, nil
}
