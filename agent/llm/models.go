package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	promptx "github.com/tanpawarit/advisor-query-dispatch/agent/prompt"
	openrouterx "github.com/tanpawarit/advisor-query-dispatch/pkg/openrouter"
)

// ToolSource is the function table offered to the selection call.
type ToolSource interface {
	Specs() []contractx.FunctionSpec
	ToolInfos() []*schema.ToolInfo
}

type modelSet struct {
	selector   contractx.Selector
	summarizer contractx.Summarizer
}

func (m *modelSet) Selector() contractx.Selector {
	return m.selector
}

func (m *modelSet) Summarizer() contractx.Summarizer {
	return m.summarizer
}

func NewModels(ctx context.Context, cfg Config, tools ToolSource) (contractx.Models, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool source is required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()
	selectionCfg := cfg.OpenRouterFor(RoleSelection)
	summaryCfg := cfg.OpenRouterFor(RoleSummarize)

	switch cfg.backend() {
	case BackendOpenAI:
		selector, err := newSDKSelector(openrouterx.NewClient(selectionCfg), selectionCfg, prompts.Selection, tools.Specs())
		if err != nil {
			return nil, fmt.Errorf("%w: create selection client: %v", contractx.ErrModelInvoke, err)
		}
		summarizer, err := newSDKSummarizer(openrouterx.NewClient(summaryCfg), summaryCfg, prompts.Summarize)
		if err != nil {
			return nil, fmt.Errorf("%w: create summarize client: %v", contractx.ErrModelInvoke, err)
		}
		return &modelSet{selector: selector, summarizer: summarizer}, nil

	default:
		selectionModel, err := selectionCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create selection model: %v", contractx.ErrModelInvoke, err)
		}
		summaryModel, err := summaryCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create summarize model: %v", contractx.ErrModelInvoke, err)
		}

		selector, err := newEinoSelector(ctx, selectionModel, prompts.Selection, tools.ToolInfos())
		if err != nil {
			return nil, err
		}
		summarizer, err := newEinoSummarizer(ctx, summaryModel, prompts.Summarize)
		if err != nil {
			return nil, err
		}
		return &modelSet{selector: selector, summarizer: summarizer}, nil
	}
}
