package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	firestore "google.golang.org/api/firestore/v1"
)

// Tags lists the Firestore value type keys accepted by ValidateJSON.
var Tags = []string{"stringValue", "integerValue", "doubleValue", "booleanValue", "nullValue", "arrayValue", "mapValue"}

var ErrMissingFields = errors.New("invalid document: missing fields object")

// FieldError identifies the first structurally invalid field in a document by its
// dotted path.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field at %s: %s", e.Path, e.Reason)
}

// Validate checks the JSON encoding of a document, i.e. what is actually sent to
// Firestore, rather than the in-memory values.
func Validate(d *firestore.Document) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("error encoding document (%w)", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(b, &tree); err != nil {
		return fmt.Errorf("error decoding document (%w)", err)
	}

	return ValidateJSON(tree)
}

// ValidateJSON checks a decoded REST document. Every field must be an object with at
// least one recognised value type key and nested maps are checked recursively.
func ValidateJSON(doc map[string]any) error {
	if doc == nil {
		return ErrMissingFields
	}

	fields, ok := doc["fields"].(map[string]any)
	if !ok {
		return ErrMissingFields
	}

	return validate(fields, "")
}

func validate(fields map[string]any, path string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		p := k
		if path != "" {
			p = path + "." + k
		}

		value, ok := fields[k].(map[string]any)
		if !ok {
			return &FieldError{Path: p, Reason: "must be an object"}
		}

		if !hasTag(value) {
			return &FieldError{Path: p, Reason: fmt.Sprintf("must have one of %s", strings.Join(Tags, ", "))}
		}

		if m, ok := value["mapValue"].(map[string]any); ok {
			if nested, ok := m["fields"].(map[string]any); ok {
				if err := validate(nested, p); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func hasTag(value map[string]any) bool {
	for _, tag := range Tags {
		if _, ok := value[tag]; ok {
			return true
		}
	}

	return false
}
