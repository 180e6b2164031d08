package dispatchnode

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

// ExecuteFunction runs the resolved call. A NotFound result becomes an empty
// record list so the summarizer can say no clients were found.
func ExecuteFunction(ctx context.Context, in *GraphState, retriever contractx.Retriever) (*GraphState, error) {
	name := in.Call.Spec().Name

	data, err := in.Call.Execute(ctx, retriever)
	switch {
	case errors.Is(err, contractx.ErrNotFound):
		log.Debug().Str("function", name).Msg("no records matched")
		in.Data = []contractx.ClientRecord{}
	case err != nil:
		return nil, contractx.NewDispatchError(contractx.KindUpstreamFailure, name, err)
	default:
		in.Data = data
	}
	return in, nil
}
