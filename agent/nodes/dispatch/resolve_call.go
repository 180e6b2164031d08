package dispatchnode

import (
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	toolx "github.com/tanpawarit/advisor-query-dispatch/agent/tool"
)

// ResolveCall checks the selected name and arguments against the registry.
// Nothing is executed when this fails.
func ResolveCall(in *GraphState, registry *toolx.Registry) (*GraphState, error) {
	name := functionName(in)
	call, err := registry.Resolve(name, in.Selection.Call.Arguments)
	if err != nil {
		log.Warn().Err(err).Str("function", name).Msg("rejected model function call")
		return nil, contractx.NewDispatchError(contractx.KindUnknownFunction, name, err)
	}
	in.Call = &call
	return in, nil
}
