package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/model"
)

var (
	// ErrOperationNotFound is returned when no operation carries the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no object request
	// body to map.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

// Operation summarises one operation of a document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Operations lists every operation in the document, sorted by id. Operations
// without an operationId are named "<method>:<path>".
func Operations(ctx context.Context, data []byte, options ...Option) ([]Operation, error) {
	spec, err := load(ctx, data, newOptions(options))
	if err != nil {
		return nil, err
	}
	var out []Operation
	walkOperations(spec, func(id, method, path string, op *openapi3.Operation) {
		out = append(out, Operation{ID: id, Method: method, Path: path, Summary: op.Summary})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Import maps the request body of operationID to draft fields, one per
// top-level property in name order. Properties that have no field
// counterpart (nested objects, arrays of non-enum items) are skipped.
func Import(ctx context.Context, data []byte, operationID string, options ...Option) ([]model.Field, error) {
	cfg := newOptions(options)
	spec, err := load(ctx, data, cfg)
	if err != nil {
		return nil, err
	}

	var found *openapi3.Operation
	walkOperations(spec, func(id, _, _ string, op *openapi3.Operation) {
		if id == operationID && found == nil {
			found = op
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(found.RequestBody, cfg.MediaTypes)
	if body == nil || len(body.Properties) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := convertProperty(name, ref.Value)
		if !ok {
			continue
		}
		_, field.Required = required[name]
		fields = append(fields, field)
	}
	return fields, nil
}

func load(ctx context.Context, data []byte, cfg Options) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return spec, nil
}

var methods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

func walkOperations(spec *openapi3.T, visit func(id, method, path string, op *openapi3.Operation)) {
	if spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, method := range methods {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			visit(id, method, path, op)
		}
	}
}

func requestSchema(body *openapi3.RequestBodyRef, mediaTypes []string) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range mediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertProperty(name string, src *openapi3.Schema) (model.Field, bool) {
	field := model.Field{
		ID:    name,
		Label: src.Title,
	}
	if field.Label == "" {
		field.Label = name
	}

	switch {
	case len(src.Enum) > 0:
		field.Type = model.FieldTypeSelect
		field.Options = enumOptions(src.Enum)
	case src.Type.Is(openapi3.TypeString):
		field.Type = model.FieldTypeText
		switch src.Format {
		case "date", "date-time":
			field.Type = model.FieldTypeDate
		case "email":
			field.Validations.Email = &model.Rule{}
		case "password":
			field.Validations.PasswordRule = &model.Rule{}
		}
		if src.MinLength > 0 {
			field.Validations.MinLength = &model.Rule{Value: strconv.FormatUint(src.MinLength, 10)}
		}
		if src.MaxLength != nil {
			field.Validations.MaxLength = &model.Rule{Value: strconv.FormatUint(*src.MaxLength, 10)}
			if *src.MaxLength > textareaThreshold {
				field.Type = model.FieldTypeTextarea
			}
		}
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		field.Type = model.FieldTypeNumber
	case src.Type.Is(openapi3.TypeBoolean):
		field.Type = model.FieldTypeRadio
		field.Options = []string{"true", "false"}
	case src.Type.Is(openapi3.TypeArray):
		if src.Items == nil || src.Items.Value == nil || len(src.Items.Value.Enum) == 0 {
			return model.Field{}, false
		}
		field.Type = model.FieldTypeCheckbox
		field.Options = enumOptions(src.Items.Value.Enum)
	default:
		return model.Field{}, false
	}

	if src.Default != nil {
		if seed, err := model.FromAny(src.Default); err == nil && !seed.IsAbsent() {
			if field.Type == model.FieldTypeCheckbox && seed.Kind() != model.KindList {
				seed = model.List(seed.String())
			}
			field.DefaultValue = &seed
		}
	}
	return field, true
}

// Strings longer than this are edited as multi-line text.
const textareaThreshold = 255

func enumOptions(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		switch typed := value.(type) {
		case string:
			out = append(out, typed)
		case float64:
			out = append(out, model.FormatNumber(typed))
		default:
			out = append(out, fmt.Sprint(typed))
		}
	}
	return out
}
