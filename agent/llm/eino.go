package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	promptx "github.com/tanpawarit/advisor-query-dispatch/agent/prompt"
)

type einoSelector struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

type einoSummarizer struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func newEinoSelector(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	tools []*schema.ToolInfo,
) (*einoSelector, error) {
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for selection: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileMessageGraph(ctx, toolModel, systemPrompt, "dispatch.selection_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile selection graph: %v", contractx.ErrModelInvoke, err)
	}
	return &einoSelector{runner: runner}, nil
}

func newEinoSummarizer(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*einoSummarizer, error) {
	runner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "dispatch.summarize_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile summarize graph: %v", contractx.ErrModelInvoke, err)
	}
	return &einoSummarizer{runner: runner}, nil
}

func (s *einoSelector) Select(ctx context.Context, query string) (contractx.Selection, error) {
	msg, err := s.runner.Invoke(ctx, map[string]any{
		"input": query,
	})
	if err != nil {
		return contractx.Selection{}, fmt.Errorf("%w: selection invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return contractx.Selection{}, fmt.Errorf("%w: empty selection response", contractx.ErrModelInvoke)
	}
	return selectionFromMessage(msg), nil
}

func (s *einoSummarizer) Summarize(ctx context.Context, query string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: marshal retrieved data: %v", contractx.ErrValidation, err)
	}

	msg, err := s.runner.Invoke(ctx, map[string]any{
		"input": promptx.SummaryRequest(query, payload),
	})
	if err != nil {
		return "", fmt.Errorf("%w: summarize invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty summary", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(msg.Content), nil
}

// selectionFromMessage keeps only the first tool call; one function per turn.
func selectionFromMessage(msg *schema.Message) contractx.Selection {
	out := contractx.Selection{Content: strings.TrimSpace(msg.Content)}
	if len(msg.ToolCalls) == 0 {
		return out
	}
	call := msg.ToolCalls[0]
	out.Call = &contractx.FunctionCall{
		ID:        call.ID,
		Name:      strings.TrimSpace(call.Function.Name),
		Arguments: call.Function.Arguments,
	}
	return out
}

func compileMessageGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}
