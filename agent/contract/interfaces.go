package contract

import "context"

// Retriever is the set of retrieval operations the function registry can bind to.
type Retriever interface {
	ClientsByAdvisor(ctx context.Context, name string) ([]ClientRecord, error)
	AdvisorNames(ctx context.Context) ([]string, error)
}

type Selector interface {
	Select(ctx context.Context, query string) (Selection, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, query string, data any) (string, error)
}

// Models pairs the two independent model operations of one dispatch.
type Models interface {
	Selector() Selector
	Summarizer() Summarizer
}

type Answerer interface {
	Answer(ctx context.Context, query string) string
}
