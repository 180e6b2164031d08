package dispatcher

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/advisor-query-dispatch/agent/nodes/dispatch"
)

func (d *Dispatcher) compileDispatchGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeValidateQuery,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateQuery(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeValidateQuery, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSelectFunction,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SelectFunction(ctx, in, d.models.Selector())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSelectFunction, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeResolveCall,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveCall(in, d.registry)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeResolveCall, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeExecuteFunction,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteFunction(ctx, in, d.retriever)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeExecuteFunction, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeSummarize,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Summarize(ctx, in, d.models.Summarizer())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSummarize, err)
	}

	if err := graph.AddLambdaNode(nodex.NodeDirectAnswer,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.DirectAnswer(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeDirectAnswer, err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateQuery},
		{nodex.NodeValidateQuery, nodex.NodeSelectFunction},
		{nodex.NodeResolveCall, nodex.NodeExecuteFunction},
		{nodex.NodeExecuteFunction, nodex.NodeSummarize},
		{nodex.NodeSummarize, compose.END},
		{nodex.NodeDirectAnswer, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			return nodex.Route(in), nil
		},
		map[string]bool{
			nodex.NodeResolveCall:  true,
			nodex.NodeDirectAnswer: true,
		},
	)
	if err := graph.AddBranch(nodex.NodeSelectFunction, branch); err != nil {
		return nil, fmt.Errorf("add branch after %s: %w", nodex.NodeSelectFunction, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dispatcher.dispatch"))
	if err != nil {
		return nil, fmt.Errorf("compile dispatch graph: %w", err)
	}
	return runner, nil
}
