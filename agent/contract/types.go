package contract

import "sort"

// FieldAdvisorName is the only key of a ClientRecord the system interprets.
const FieldAdvisorName = "FA_NAME"

// ClientRecord is one row of client data. Every field other than FA_NAME is
// passed through untouched.
type ClientRecord map[string]any

// AdvisorName returns the owning advisor, or false when FA_NAME is absent or
// not a string.
func (r ClientRecord) AdvisorName() (string, bool) {
	v, ok := r[FieldAdvisorName]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

type ParameterType string

const (
	ParamString  ParameterType = "string"
	ParamInteger ParameterType = "integer"
	ParamNumber  ParameterType = "number"
	ParamBoolean ParameterType = "boolean"
)

type ParameterSpec struct {
	Name        string        `json:"name"`
	Type        ParameterType `json:"type"`
	Description string        `json:"description,omitempty"`
	Required    bool          `json:"required,omitempty"`
}

// FunctionSpec describes one callable retrieval operation to the model.
type FunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters,omitempty"`
}

// JSONSchema renders the parameters as {type, properties, required}.
func (f FunctionSpec) JSONSchema() map[string]any {
	properties := make(map[string]any, len(f.Parameters))
	required := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)

	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// Selection is the outcome of the first model call: either direct text or a
// single function call.
type Selection struct {
	Content string        `json:"content,omitempty"`
	Call    *FunctionCall `json:"call,omitempty"`
}

type FunctionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// DispatchResult lives for one query. Function is nil for a direct answer.
type DispatchResult struct {
	Query    string         `json:"query"`
	Answer   string         `json:"answer"`
	Function *FunctionSpec  `json:"function,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
	Data     any            `json:"data,omitempty"`
}
