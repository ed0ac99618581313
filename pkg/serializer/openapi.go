package serializer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-mdform/pkg/field"
)

// MetaListExtension, set on the binary property, names extra list-typed
// tags. It accepts an array of names or a comma separated string.
const MetaListExtension = "x-mdform-meta-list"

var requestMediaTypes = []string{"multipart/form-data", "application/json", "application/x-www-form-urlencoded"}

// FromOpenAPI builds a Markdown serializer from the request body of the
// operation identified by operationID. String properties become Char
// fields, arrays of strings become List fields (and list-typed tags),
// booleans become Bool fields, and the single `format: binary` string
// becomes the Markdown field. options configure that Markdown field.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string, options ...field.Option) (*MarkdownSerializer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("serializer: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("serializer: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("serializer: validate openapi document: %w", err)
	}

	op, err := findOperation(doc, operationID)
	if err != nil {
		return nil, err
	}
	schema, err := requestSchema(op)
	if err != nil {
		return nil, fmt.Errorf("serializer: operation %q: %w", operationID, err)
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		fields      []Field
		listKeys    []string
		markdownKey string
		mdRequired  bool
	)
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("serializer: property %q has no schema", name)
		}
		prop := ref.Value
		required := slices.Contains(schema.Required, name)

		switch {
		case hasType(prop.Type, openapi3.TypeString) && prop.Format == "binary":
			if markdownKey != "" {
				return nil, fmt.Errorf("serializer: properties %q and %q are both binary", markdownKey, name)
			}
			markdownKey = name
			mdRequired = required
			extra, err := extensionList(prop.Extensions[MetaListExtension])
			if err != nil {
				return nil, fmt.Errorf("serializer: property %q: %w", name, err)
			}
			listKeys = append(listKeys, extra...)
		case hasType(prop.Type, openapi3.TypeString):
			opts := []FieldOption{Required(required)}
			if prop.MaxLength != nil {
				opts = append(opts, MaxLength(int(*prop.MaxLength)))
			}
			fields = append(fields, CharField(name, opts...))
		case hasType(prop.Type, openapi3.TypeArray):
			if prop.Items == nil || prop.Items.Value == nil || !hasType(prop.Items.Value.Type, openapi3.TypeString) {
				return nil, fmt.Errorf("serializer: property %q must be an array of strings", name)
			}
			fields = append(fields, ListField(name, Required(required)))
			listKeys = append(listKeys, name)
		case hasType(prop.Type, openapi3.TypeBoolean):
			fields = append(fields, BoolField(name, Required(required)))
		default:
			return nil, fmt.Errorf("serializer: property %q has unsupported type %v", name, typeNames(prop.Type))
		}
	}
	if markdownKey == "" {
		return nil, fmt.Errorf("serializer: operation %q has no binary property", operationID)
	}

	mdOptions := append([]field.Option{}, options...)
	mdOptions = append(mdOptions, field.WithRequired(mdRequired), field.WithListKeys(listKeys...))
	md, err := field.New(mdOptions...)
	if err != nil {
		return nil, fmt.Errorf("serializer: %w", err)
	}
	fields = append(fields, MarkdownField(markdownKey, md))

	s, err := New(fields...)
	if err != nil {
		return nil, err
	}
	return WithMarkdown(s, markdownKey)
}

func findOperation(doc *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if doc.Paths != nil {
		for _, item := range doc.Paths.Map() {
			if item == nil {
				continue
			}
			for _, op := range item.Operations() {
				if op != nil && op.OperationID == operationID {
					return op, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("serializer: operation %q not found", operationID)
}

func requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("request body is missing")
	}
	content := op.RequestBody.Value.Content

	var media *openapi3.MediaType
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok {
			media = mt
			break
		}
	}
	if media == nil {
		keys := make([]string, 0, len(content))
		for key := range content {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		if len(keys) > 0 {
			media = content[keys[0]]
		}
	}
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("request body has no schema")
	}
	schema := media.Schema.Value
	if !hasType(schema.Type, openapi3.TypeObject) && len(schema.Properties) == 0 {
		return nil, errors.New("request body schema is not an object")
	}
	return schema, nil
}

func hasType(types *openapi3.Types, name string) bool {
	if types == nil {
		return false
	}
	return slices.Contains(types.Slice(), name)
}

func typeNames(types *openapi3.Types) string {
	if types == nil {
		return "<none>"
	}
	return strings.Join(types.Slice(), ",")
}

func extensionList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return splitItems([]string{v}), nil
	case []string:
		return splitItems(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must list strings", MetaListExtension)
			}
			out = append(out, s)
		}
		return splitItems(out), nil
	case json.RawMessage:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, fmt.Errorf("%s: %w", MetaListExtension, err)
		}
		return extensionList(decoded)
	default:
		return nil, fmt.Errorf("%s has unsupported value %T", MetaListExtension, raw)
	}
}
