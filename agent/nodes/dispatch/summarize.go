package dispatchnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

func Summarize(ctx context.Context, in *GraphState, summarizer contractx.Summarizer) (GraphOutput, error) {
	spec := in.Call.Spec()

	answer, err := summarizer.Summarize(ctx, in.Query, in.Data)
	if err != nil {
		return GraphOutput{}, contractx.NewDispatchError(contractx.KindUpstreamFailure, spec.Name, err)
	}

	return GraphOutput{Result: contractx.DispatchResult{
		Query:    in.Query,
		Answer:   strings.TrimSpace(answer),
		Function: &spec,
		Args:     in.Call.Args,
		Data:     in.Data,
	}}, nil
}

func DirectAnswer(in *GraphState) (GraphOutput, error) {
	answer := strings.TrimSpace(in.Selection.Content)
	if answer == "" {
		return GraphOutput{}, contractx.NewDispatchError(
			contractx.KindUpstreamFailure, "",
			fmt.Errorf("%w: model returned neither text nor a function call", contractx.ErrModelInvoke),
		)
	}
	return GraphOutput{Result: contractx.DispatchResult{
		Query:  in.Query,
		Answer: answer,
	}}, nil
}
