package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	nodex "github.com/tanpawarit/advisor-query-dispatch/agent/nodes/dispatch"
	toolx "github.com/tanpawarit/advisor-query-dispatch/agent/tool"
	metricsx "github.com/tanpawarit/advisor-query-dispatch/pkg/metrics"
)

const (
	outcomeAnswered = "answered"
	outcomeDirect   = "direct"

	labelUnknownFunction = "unknown"
)

var _ contractx.Answerer = (*Dispatcher)(nil)

// Dispatcher turns one free-text query into an answer. It keeps no state
// between queries and is safe for concurrent use.
type Dispatcher struct {
	registry  *toolx.Registry
	models    contractx.Models
	retriever contractx.Retriever
	metrics   *metricsx.Metrics

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(
	registry *toolx.Registry,
	models contractx.Models,
	retriever contractx.Retriever,
	metrics *metricsx.Metrics,
) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("function registry is required")
	}
	if models == nil || models.Selector() == nil || models.Summarizer() == nil {
		return nil, errors.New("selector and summarizer models are required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}

	d := &Dispatcher{
		registry:  registry,
		models:    models,
		retriever: retriever,
		metrics:   metrics,
	}

	graphRunner, err := d.compileDispatchGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

// Dispatch runs selection, validation, execution and summarization for one
// query. Every failure is returned as a *contract.DispatchError.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) (contractx.DispatchResult, error) {
	start := time.Now()

	out, err := d.graphRunner.Invoke(ctx, nodex.GraphInput{Query: query})
	if err != nil {
		dErr := asDispatchError(err)
		d.metrics.ObserveDispatch(d.functionLabel(dErr.Function), string(dErr.Kind), time.Since(start))
		return contractx.DispatchResult{}, dErr
	}

	function, outcome := "", outcomeDirect
	if out.Result.Function != nil {
		function, outcome = out.Result.Function.Name, outcomeAnswered
	}
	d.metrics.ObserveDispatch(function, outcome, time.Since(start))

	return out.Result, nil
}

// Answer never fails: dispatch errors are turned into the text shown to the
// user in place of an answer.
func (d *Dispatcher) Answer(ctx context.Context, query string) string {
	res, err := d.Dispatch(ctx, query)
	if err != nil {
		var dErr *contractx.DispatchError
		errors.As(err, &dErr)

		evt := log.Error()
		if dErr.Kind == contractx.KindInvalidQuery {
			evt = log.Debug()
		}
		evt.Err(err).
			Str("kind", string(dErr.Kind)).
			Str("function", dErr.Function).
			Msg("dispatch failed")
		return dErr.UserMessage()
	}

	fn := ""
	if res.Function != nil {
		fn = res.Function.Name
	}
	log.Info().Str("function", fn).Msg("query answered")
	return res.Answer
}

// functionLabel keeps metric labels within the registry; model-invented
// names share one label.
func (d *Dispatcher) functionLabel(name string) string {
	if name == "" {
		return ""
	}
	if _, ok := d.registry.Lookup(name); ok {
		return name
	}
	return labelUnknownFunction
}

func asDispatchError(err error) *contractx.DispatchError {
	var dErr *contractx.DispatchError
	if errors.As(err, &dErr) {
		return dErr
	}
	return contractx.NewDispatchError(contractx.KindUpstreamFailure, "", err)
}
