package dispatchnode

import (
	"strings"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	toolx "github.com/tanpawarit/advisor-query-dispatch/agent/tool"
)

const (
	NodeValidateQuery   = "validate_query"
	NodeSelectFunction  = "select_function"
	NodeResolveCall     = "resolve_call"
	NodeExecuteFunction = "execute_function"
	NodeSummarize       = "summarize"
	NodeDirectAnswer    = "direct_answer"
)

type GraphInput struct {
	Query string
}

type GraphOutput struct {
	Result contractx.DispatchResult
}

// GraphState is threaded through every node of one dispatch.
type GraphState struct {
	Query     string
	Selection contractx.Selection

	Call *toolx.Call
	Data any
}

func ValidateQuery(in GraphInput) (*GraphState, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, contractx.NewDispatchError(contractx.KindInvalidQuery, "", contractx.ErrInvalidQuery)
	}
	return &GraphState{Query: query}, nil
}

// Route picks the next node after selection.
func Route(in *GraphState) string {
	if in == nil || in.Selection.Call == nil {
		return NodeDirectAnswer
	}
	return NodeResolveCall
}

func functionName(in *GraphState) string {
	if in == nil || in.Selection.Call == nil {
		return ""
	}
	return in.Selection.Call.Name
}
