package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// Request is a GraphQL request as posted over HTTP.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL response. Data is nil when a non-null root field failed.
type Response struct {
	Data   *Object       `json:"data"`
	Errors gqlerror.List `json:"errors,omitempty"`
}

// Object is a JSON object that keeps its keys in selection order.
type Object struct {
	keys   []string
	values map[string]any
}

func newObject(n int) *Object {
	return &Object{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

func (o *Object) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) any {
	return o.values[key]
}

// Keys returns the keys in selection order.
func (o *Object) Keys() []string {
	return o.keys
}

// MarshalJSON implements json.Marshaler.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Execute parses, validates and runs a query against the schema.
func (r *Resolver) Execute(ctx context.Context, req Request) *Response {
	doc, errs := gqlparser.LoadQuery(Schema, req.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}
	}
	if op.Operation != ast.Query {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s operations are not supported", op.Operation)}}
	}

	vars, err := validator.VariableValues(Schema, op, req.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{toGQLError(err)}}
	}

	fields := collectFields(op.SelectionSet, vars)
	data := newObject(len(fields))
	var fieldErrs gqlerror.List

	for _, field := range fields {
		value, err := r.resolveQueryField(ctx, field, vars)
		if err != nil {
			gqlErr := toGQLError(err)
			gqlErr.Path = ast.Path{ast.PathName(field.Alias)}
			if field.Position != nil {
				gqlErr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
			}
			fieldErrs = append(fieldErrs, gqlErr)
			continue
		}
		data.set(field.Alias, value)
	}

	// Every root field is non-null, so any failure nulls the whole result.
	if len(fieldErrs) > 0 {
		return &Response{Errors: fieldErrs}
	}
	return &Response{Data: data}
}

func (r *Resolver) resolveQueryField(ctx context.Context, field *ast.Field, vars map[string]any) (any, error) {
	switch field.Name {
	case "__typename":
		return "Query", nil
	case "health":
		return r.Health(ctx)
	case "carriers":
		return r.Carriers(ctx)
	case "track":
		args := field.ArgumentMap(vars)
		carrier, _ := args["carrier"].(string)
		codes, err := stringList(args["codes"])
		if err != nil {
			return nil, err
		}

		resp, err := r.Track(ctx, carrier, codes)
		if err != nil {
			return nil, err
		}
		return project(trackResponseToMap(resp), field.SelectionSet, vars), nil
	default:
		return nil, fmt.Errorf("field %q is not supported", field.Name)
	}
}

// collectFields flattens fragments into the list of fields to resolve,
// dropping selections excluded by @skip or @include.
func collectFields(set ast.SelectionSet, vars map[string]any) []*ast.Field {
	var fields []*ast.Field
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.Field:
			if shouldInclude(sel.Directives, vars) {
				fields = append(fields, sel)
			}
		case *ast.InlineFragment:
			if shouldInclude(sel.Directives, vars) {
				fields = append(fields, collectFields(sel.SelectionSet, vars)...)
			}
		case *ast.FragmentSpread:
			if sel.Definition != nil && shouldInclude(sel.Directives, vars) {
				fields = append(fields, collectFields(sel.Definition.SelectionSet, vars)...)
			}
		}
	}
	return fields
}

func shouldInclude(directives ast.DirectiveList, vars map[string]any) bool {
	if d := directives.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return false
		}
	}
	if d := directives.ForName("include"); d != nil {
		if include, ok := d.ArgumentMap(vars)["if"].(bool); ok && !include {
			return false
		}
	}
	return true
}

// project keeps the selected fields of value, a tree of maps and slices.
func project(value any, set ast.SelectionSet, vars map[string]any) any {
	switch v := value.(type) {
	case map[string]any:
		fields := collectFields(set, vars)
		obj := newObject(len(fields))
		for _, f := range fields {
			if f.Name == "__typename" {
				obj.set(f.Alias, v["__typename"])
				continue
			}
			if len(f.SelectionSet) > 0 {
				obj.set(f.Alias, project(v[f.Name], f.SelectionSet, vars))
			} else {
				obj.set(f.Alias, v[f.Name])
			}
		}
		return obj
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = project(item, set, vars)
		}
		return out
	default:
		return v
	}
}

func stringList(v any) ([]string, error) {
	switch v := v.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", v)
	}
}

func toGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}
	return &gqlerror.Error{Message: err.Error()}
}
