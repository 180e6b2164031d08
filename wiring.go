package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	"github.com/tanpawarit/advisor-query-dispatch/agent/dispatcher"
	llmx "github.com/tanpawarit/advisor-query-dispatch/agent/llm"
	toolx "github.com/tanpawarit/advisor-query-dispatch/agent/tool"
	configx "github.com/tanpawarit/advisor-query-dispatch/pkg/config"
	metricsx "github.com/tanpawarit/advisor-query-dispatch/pkg/metrics"
	"github.com/tanpawarit/advisor-query-dispatch/retrieval"
)

type closeFunc func() error

func noopClose() error { return nil }

// openStore builds the client store selected by DATA_SOURCE.
func openStore() (retrieval.Store, closeFunc, error) {
	dataCfg, err := configx.New[retrieval.DataConfig]("DATA")
	if err != nil {
		return nil, nil, err
	}
	if err := dataCfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(strings.TrimSpace(dataCfg.Source)) {
	case retrieval.SourcePostgres:
		pgCfg, err := configx.New[retrieval.PostgresConfig]("POSTGRES")
		if err != nil {
			return nil, nil, err
		}
		store, err := retrieval.OpenPostgres(*pgCfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("source", retrieval.SourcePostgres).Msg("client store opened")
		return store, store.Close, nil
	default:
		store, err := retrieval.NewJSONFileStore(dataCfg.File)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("source", retrieval.SourceJSON).Str("file", dataCfg.File).Msg("client store opened")
		return store, noopClose, nil
	}
}

// newRetriever reads the dataset in-process when local is set, otherwise it
// calls the Retrieval Service over HTTP.
func newRetriever(local bool) (contractx.Retriever, closeFunc, error) {
	if local {
		store, closer, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		svc, err := retrieval.NewService(store)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		return svc, closer, nil
	}

	clientCfg, err := configx.New[retrieval.ClientConfig]("RETRIEVAL")
	if err != nil {
		return nil, nil, err
	}
	client, err := retrieval.NewClient(*clientCfg)
	if err != nil {
		return nil, nil, err
	}
	return client, noopClose, nil
}

func newDispatcher(ctx context.Context, retriever contractx.Retriever, metrics *metricsx.Metrics) (*dispatcher.Dispatcher, error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, err
	}

	registry, err := toolx.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("build function registry: %w", err)
	}

	models, err := llmx.NewModels(ctx, *llmCfg, registry)
	if err != nil {
		return nil, err
	}

	return dispatcher.New(registry, models, retriever, metrics)
}
