package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	"github.com/xeipuuv/gojsonschema"
)

type handler func(ctx context.Context, r contractx.Retriever, args map[string]any) (any, error)

type entry struct {
	spec    contractx.FunctionSpec
	schema  *gojsonschema.Schema
	handler handler
}

// Registry is the closed set of functions the model may select. Names absent
// from it are rejected before anything is executed.
type Registry struct {
	entries map[string]*entry
	order   []string
}

// Call is a model-selected function whose name and arguments passed validation.
type Call struct {
	entry *entry
	Args  map[string]any
}

func (c Call) Spec() contractx.FunctionSpec {
	return c.entry.spec
}

func (c Call) Execute(ctx context.Context, r contractx.Retriever) (any, error) {
	return c.entry.handler(ctx, r, c.Args)
}

func NewRegistry() (*Registry, error) {
	defs := catalog()
	reg := &Registry{
		entries: make(map[string]*entry, len(defs)),
		order:   make([]string, 0, len(defs)),
	}

	for _, def := range defs {
		name := strings.TrimSpace(def.spec.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: function name is empty", contractx.ErrValidation)
		}
		if _, dup := reg.entries[name]; dup {
			return nil, fmt.Errorf("%w: duplicate function=%s", contractx.ErrValidation, name)
		}

		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.spec.JSONSchema()))
		if err != nil {
			return nil, fmt.Errorf("compile schema for function=%s: %w", name, err)
		}

		reg.entries[name] = &entry{spec: def.spec, schema: compiled, handler: def.handler}
		reg.order = append(reg.order, name)
	}
	return reg, nil
}

func MustNewRegistry() *Registry {
	reg, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) Specs() []contractx.FunctionSpec {
	out := make([]contractx.FunctionSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].spec)
	}
	return out
}

func (r *Registry) Lookup(name string) (contractx.FunctionSpec, bool) {
	e, ok := r.entries[name]
	if !ok {
		return contractx.FunctionSpec{}, false
	}
	return e.spec, true
}

func (r *Registry) ToolInfos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, toToolInfo(r.entries[name].spec))
	}
	return out
}

// Resolve validates a model-selected call against the table. Unknown names
// fail with ErrUnknownFunction, bad arguments with ErrInvalidArguments.
func (r *Registry) Resolve(name string, rawArgs string) (Call, error) {
	name = strings.TrimSpace(name)
	e, ok := r.entries[name]
	if !ok {
		return Call{}, fmt.Errorf("%w: %q", contractx.ErrUnknownFunction, name)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(rawArgs); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return Call{}, fmt.Errorf("%w: function=%s: %v", contractx.ErrInvalidArguments, name, err)
		}
		if args == nil {
			args = map[string]any{}
		}
	}

	result, err := e.schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return Call{}, fmt.Errorf("%w: function=%s: %v", contractx.ErrInvalidArguments, name, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return Call{}, fmt.Errorf("%w: function=%s: %s", contractx.ErrInvalidArguments, name, strings.Join(errs, "; "))
	}

	return Call{entry: e, Args: args}, nil
}

func toToolInfo(spec contractx.FunctionSpec) *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(spec.Parameters))
	for _, p := range spec.Parameters {
		params[p.Name] = &schema.ParameterInfo{
			Type:     toDataType(p.Type),
			Desc:     p.Description,
			Required: p.Required,
		}
	}
	return &schema.ToolInfo{
		Name:        spec.Name,
		Desc:        spec.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

func toDataType(t contractx.ParameterType) schema.DataType {
	switch t {
	case contractx.ParamInteger:
		return schema.Integer
	case contractx.ParamNumber:
		return schema.Number
	case contractx.ParamBoolean:
		return schema.Boolean
	default:
		return schema.String
	}
}

func decodeArgs[T any](args map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("%w: %v", contractx.ErrInvalidArguments, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %v", contractx.ErrInvalidArguments, err)
	}
	return out, nil
}
