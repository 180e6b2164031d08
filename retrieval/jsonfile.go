package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

// JSONFileStore reads a JSON array of client records from disk on every call.
type JSONFileStore struct {
	path string
}

var _ Store = (*JSONFileStore)(nil)

func NewJSONFileStore(path string) (*JSONFileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("data file path is required")
	}
	return &JSONFileStore{path: path}, nil
}

func (s *JSONFileStore) ClientsByAdvisor(ctx context.Context, name string) ([]contractx.ClientRecord, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return filterByAdvisor(records, name), nil
}

func (s *JSONFileStore) AdvisorNames(ctx context.Context) ([]string, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return advisorNames(records), nil
}

func (s *JSONFileStore) load(ctx context.Context) ([]contractx.ClientRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", contractx.ErrDataUnavailable, s.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var records []contractx.ClientRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", contractx.ErrDataUnavailable, s.path, err)
	}
	return records, nil
}
