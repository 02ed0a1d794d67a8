package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ruleJSON struct {
	Value        json.RawMessage `json:"value,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// MarshalJSON writes integral thresholds as JSON numbers so documents stay
// compatible with editors that store numeric rule values.
func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{ErrorMessage: r.ErrorMessage}
	if r.Value != "" {
		if n, err := strconv.Atoi(r.Value); err == nil && strconv.Itoa(n) == r.Value {
			out.Value = json.RawMessage(r.Value)
		} else {
			encoded, err := json.Marshal(r.Value)
			if err != nil {
				return nil, err
			}
			out.Value = encoded
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts string or numeric rule values.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("model: decode rule: %w", err)
	}
	value, err := scalarText(in.Value)
	if err != nil {
		return err
	}
	*r = Rule{Value: value, ErrorMessage: in.ErrorMessage}
	return nil
}

// scalarText reads a rule value. Structured values carry nothing a rule can
// use (a stored RegExp serializes as {}), so they decode as unset.
func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}
	switch trimmed[0] {
	case '{', '[', 'n':
		return "", nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return "", fmt.Errorf("model: decode rule value: %w", err)
		}
		return strconv.FormatBool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("model: decode rule value: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", fmt.Errorf("model: rule value must be a string or number: %w", err)
	}
	return n.String(), nil
}

// UnmarshalYAML reads rule mappings whose value may be an unquoted number.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("model: rule at line %d must be a mapping", node.Line)
	}
	var out Rule
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "value":
			if val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
				out.Value = val.Value
			}
		case "errorMessage":
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("model: rule errorMessage at line %d must be a scalar", val.Line)
			}
			out.ErrorMessage = val.Value
		}
	}
	*r = out
	return nil
}

// MarshalYAML emits the value as a YAML scalar.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindText:
		return v.text, nil
	case KindNumber:
		return v.num, nil
	case KindList:
		if v.list == nil {
			return []string{}, nil
		}
		return v.list, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML decodes scalars by tag and sequences as lists.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*v = Absent()
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(strings.ReplaceAll(node.Value, "_", ""), 64)
			if err != nil {
				return fmt.Errorf("model: decode number at line %d: %w", node.Line, err)
			}
			*v = Number(f)
		default:
			*v = Text(node.Value)
		}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("model: list item at line %d must be a scalar", item.Line)
			}
			items = append(items, item.Value)
		}
		*v = List(items...)
		return nil
	default:
		return fmt.Errorf("model: unsupported value at line %d", node.Line)
	}
}

type fieldDoc Field

func (f Field) doc() fieldDoc {
	if f.DefaultValue != nil && f.DefaultValue.IsAbsent() {
		f.DefaultValue = nil
	}
	return fieldDoc(f)
}

// MarshalJSON leaves out an absent default.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.doc())
}

// MarshalYAML leaves out an absent default.
func (f Field) MarshalYAML() (any, error) {
	return f.doc(), nil
}

// EncodeJSON writes schemas as an indented JSON array.
func EncodeJSON(schemas []FormSchema) ([]byte, error) {
	if schemas == nil {
		schemas = []FormSchema{}
	}
	data, err := json.MarshalIndent(schemas, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("model: encode schemas: %w", err)
	}
	return data, nil
}

// EncodeYAML writes schemas as a YAML sequence.
func EncodeYAML(schemas []FormSchema) ([]byte, error) {
	if schemas == nil {
		schemas = []FormSchema{}
	}
	data, err := yaml.Marshal(schemas)
	if err != nil {
		return nil, fmt.Errorf("model: encode schemas: %w", err)
	}
	return data, nil
}

// DecodeSchemas parses a JSON or YAML document holding either a single schema
// or a list of schemas. Empty input decodes to an empty list.
func DecodeSchemas(data []byte) ([]FormSchema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var list []FormSchema
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("model: decode schemas: %w", err)
		}
		return list, nil
	case '{':
		var single FormSchema
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("model: decode schema: %w", err)
		}
		return []FormSchema{single}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("model: parse document: invalid JSON or YAML: %w", err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		var list []FormSchema
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("model: decode schemas: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var single FormSchema
		if err := root.Decode(&single); err != nil {
			return nil, fmt.Errorf("model: decode schema: %w", err)
		}
		return []FormSchema{single}, nil
	default:
		return nil, fmt.Errorf("model: parse document: expected a schema or a list of schemas")
	}
}
