package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	promptx "github.com/tanpawarit/advisor-query-dispatch/agent/prompt"
	openrouterx "github.com/tanpawarit/advisor-query-dispatch/pkg/openrouter"
)

// sdkModel talks to the chat completions API through the openai-go client.
type sdkModel struct {
	client       *openaisdk.Client
	model        string
	temperature  float32
	maxTokens    int
	systemPrompt string
}

type sdkSelector struct {
	sdkModel
	tools []openaisdk.ChatCompletionToolParam
}

type sdkSummarizer struct {
	sdkModel
}

func newSDKModel(client *openaisdk.Client, cfg openrouterx.Config, systemPrompt string) (sdkModel, error) {
	if client == nil {
		return sdkModel{}, errors.New("openai client is required")
	}
	maxTokens := 0
	if cfg.MaxCompletionToken != nil {
		maxTokens = *cfg.MaxCompletionToken
	}
	return sdkModel{
		client:       client,
		model:        strings.TrimSpace(cfg.Model),
		temperature:  cfg.Temperature,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}, nil
}

func newSDKSelector(client *openaisdk.Client, cfg openrouterx.Config, systemPrompt string, specs []contractx.FunctionSpec) (*sdkSelector, error) {
	base, err := newSDKModel(client, cfg, systemPrompt)
	if err != nil {
		return nil, err
	}

	tools := make([]openaisdk.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, openaisdk.ChatCompletionToolParam{
			Function: openaisdk.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openaisdk.String(spec.Description),
				Parameters:  openaisdk.FunctionParameters(spec.JSONSchema()),
			},
		})
	}
	return &sdkSelector{sdkModel: base, tools: tools}, nil
}

func newSDKSummarizer(client *openaisdk.Client, cfg openrouterx.Config, systemPrompt string) (*sdkSummarizer, error) {
	base, err := newSDKModel(client, cfg, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &sdkSummarizer{sdkModel: base}, nil
}

func (s *sdkSelector) Select(ctx context.Context, query string) (contractx.Selection, error) {
	params := s.params(query)
	params.Tools = s.tools

	msg, err := s.complete(ctx, params)
	if err != nil {
		return contractx.Selection{}, fmt.Errorf("%w: selection invoke: %v", contractx.ErrModelInvoke, err)
	}

	out := contractx.Selection{Content: strings.TrimSpace(msg.Content)}
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		out.Call = &contractx.FunctionCall{
			ID:        call.ID,
			Name:      strings.TrimSpace(call.Function.Name),
			Arguments: call.Function.Arguments,
		}
	}
	return out, nil
}

func (s *sdkSummarizer) Summarize(ctx context.Context, query string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: marshal retrieved data: %v", contractx.ErrValidation, err)
	}

	msg, err := s.complete(ctx, s.params(promptx.SummaryRequest(query, payload)))
	if err != nil {
		return "", fmt.Errorf("%w: summarize invoke: %v", contractx.ErrModelInvoke, err)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty summary", contractx.ErrModelInvoke)
	}
	return content, nil
}

func (m sdkModel) params(userContent string) openaisdk.ChatCompletionNewParams {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(m.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(m.systemPrompt),
			openaisdk.UserMessage(userContent),
		},
		Temperature: openaisdk.Float(float64(m.temperature)),
	}
	if m.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(m.maxTokens))
	}
	return params
}

func (m sdkModel) complete(ctx context.Context, params openaisdk.ChatCompletionNewParams) (openaisdk.ChatCompletionMessage, error) {
	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openaisdk.ChatCompletionMessage{}, err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return openaisdk.ChatCompletionMessage{}, errors.New("no choices in completion")
	}
	return completion.Choices[0].Message, nil
}
