package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// Store is a read-only view over the client dataset. Every call reads a fresh
// snapshot; implementations keep no cache between calls.
type Store interface {
	ClientsByAdvisor(ctx context.Context, name string) ([]contractx.ClientRecord, error)
	AdvisorNames(ctx context.Context) ([]string, error)
}

type DataConfig struct {
	Source string `envconfig:"SOURCE" default:"json"`
	File   string `envconfig:"FILE" default:"data.json"`
}

func (c DataConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case SourceJSON:
		if strings.TrimSpace(c.File) == "" {
			return fmt.Errorf("%w: data file is required for source=%s", contractx.ErrValidation, SourceJSON)
		}
		return nil
	case SourcePostgres:
		return nil
	default:
		return fmt.Errorf("%w: unsupported data source=%q", contractx.ErrValidation, c.Source)
	}
}

// Service applies the NotFound and deduplication rules on top of a Store.
type Service struct {
	store Store
}

var _ contractx.Retriever = (*Service)(nil)

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("client store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) ClientsByAdvisor(ctx context.Context, name string) ([]contractx.ClientRecord, error) {
	records, err := s.store.ClientsByAdvisor(ctx, name)
	if err != nil {
		return nil, asDataUnavailable(err)
	}

	clients := filterByAdvisor(records, name)
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: %s", contractx.ErrNotFound, name)
	}
	return clients, nil
}

func (s *Service) AdvisorNames(ctx context.Context) ([]string, error) {
	names, err := s.store.AdvisorNames(ctx)
	if err != nil {
		return nil, asDataUnavailable(err)
	}
	return uniqueSorted(names), nil
}

func asDataUnavailable(err error) error {
	if errors.Is(err, contractx.ErrDataUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", contractx.ErrDataUnavailable, err)
}

// filterByAdvisor matches FA_NAME exactly and case-sensitively.
func filterByAdvisor(records []contractx.ClientRecord, name string) []contractx.ClientRecord {
	out := make([]contractx.ClientRecord, 0, len(records))
	for _, rec := range records {
		if owner, ok := rec.AdvisorName(); ok && owner == name {
			out = append(out, rec)
		}
	}
	return out
}

func advisorNames(records []contractx.ClientRecord) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if name, ok := rec.AdvisorName(); ok {
			names = append(names, name)
		}
	}
	return uniqueSorted(names)
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
