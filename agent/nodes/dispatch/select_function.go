package dispatchnode

import (
	"context"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

func SelectFunction(ctx context.Context, in *GraphState, selector contractx.Selector) (*GraphState, error) {
	sel, err := selector.Select(ctx, in.Query)
	if err != nil {
		return nil, contractx.NewDispatchError(contractx.KindUpstreamFailure, "", err)
	}
	in.Selection = sel

	if sel.Call != nil {
		log.Debug().
			Str("function", sel.Call.Name).
			Str("arguments", sel.Call.Arguments).
			Msg("model selected function")
	} else {
		log.Debug().Msg("model answered directly")
	}
	return in, nil
}
