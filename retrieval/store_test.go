package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

const sampleDataset = `[
  {"FA_NAME": "John Smith", "CLIENT_NAME": "Alice Brown", "PORTFOLIO_VALUE": 250000.50},
  {"FA_NAME": "John Smith", "CLIENT_NAME": "Bob Green", "PORTFOLIO_VALUE": 120000},
  {"FA_NAME": "Jane Doe", "CLIENT_NAME": "Carol White", "PORTFOLIO_VALUE": 98000},
  {"FA_NAME": "Jane Doe", "CLIENT_NAME": "Dan Black", "PORTFOLIO_VALUE": 43000},
  {"FA_NAME": "Jane Doe", "CLIENT_NAME": "Eve Grey", "PORTFOLIO_VALUE": 77000},
  {"CLIENT_NAME": "Orphan Record"}
]`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func newJSONService(t *testing.T, content string) *Service {
	t.Helper()
	store, err := NewJSONFileStore(writeDataset(t, content))
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestServiceClientsByAdvisor(t *testing.T) {
	t.Parallel()

	svc := newJSONService(t, sampleDataset)
	clients, err := svc.ClientsByAdvisor(context.Background(), "John Smith")
	if err != nil {
		t.Fatalf("ClientsByAdvisor() error = %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
	for _, c := range clients {
		if name, _ := c.AdvisorName(); name != "John Smith" {
			t.Fatalf("unexpected advisor in result: %#v", c)
		}
	}
	if got := clients[0]["PORTFOLIO_VALUE"]; got != json.Number("250000.50") {
		t.Fatalf("PORTFOLIO_VALUE = %#v, want lossless json.Number", got)
	}
}

func TestServiceClientsByAdvisorIsCaseSensitive(t *testing.T) {
	t.Parallel()

	svc := newJSONService(t, sampleDataset)
	_, err := svc.ClientsByAdvisor(context.Background(), "john smith")
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceUnknownAdvisor(t *testing.T) {
	t.Parallel()

	svc := newJSONService(t, sampleDataset)
	_, err := svc.ClientsByAdvisor(context.Background(), "Nonexistent Advisor")
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	names, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	for _, n := range names {
		if n == "Nonexistent Advisor" {
			t.Fatal("unknown advisor listed in names")
		}
	}
}

func TestServiceAdvisorNamesUnique(t *testing.T) {
	t.Parallel()

	svc := newJSONService(t, sampleDataset)
	names, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	want := []string{"Jane Doe", "John Smith"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("AdvisorNames() = %#v, want %#v", names, want)
	}
}

func TestServiceAdvisorNamesEmptyDataset(t *testing.T) {
	t.Parallel()

	svc := newJSONService(t, `[]`)
	names, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %#v", names)
	}
}

func TestServiceDataUnavailable(t *testing.T) {
	t.Parallel()

	missing, err := NewJSONFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	svc, err := NewService(missing)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if _, err := svc.AdvisorNames(context.Background()); !errors.Is(err, contractx.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for missing file, got %v", err)
	}

	corrupt := newJSONService(t, `{"not": "an array"`)
	if _, err := corrupt.ClientsByAdvisor(context.Background(), "John Smith"); !errors.Is(err, contractx.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for corrupt file, got %v", err)
	}
}

func TestServiceRereadsDatasetOnEveryCall(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, `[{"FA_NAME": "John Smith"}]`)
	store, err := NewJSONFileStore(path)
	if err != nil {
		t.Fatalf("NewJSONFileStore() error = %v", err)
	}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	first, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	again, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("repeated reads differ: %#v vs %#v", first, again)
	}

	if err := os.WriteFile(path, []byte(`[{"FA_NAME": "Jane Doe"}]`), 0o600); err != nil {
		t.Fatalf("rewrite dataset: %v", err)
	}
	updated, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	if !reflect.DeepEqual(updated, []string{"Jane Doe"}) {
		t.Fatalf("AdvisorNames() after rewrite = %#v", updated)
	}
}

type leakyStore struct {
	records []contractx.ClientRecord
}

func (s leakyStore) ClientsByAdvisor(context.Context, string) ([]contractx.ClientRecord, error) {
	return s.records, nil
}

func (s leakyStore) AdvisorNames(context.Context) ([]string, error) {
	return []string{"B", "A", "B"}, nil
}

func TestServiceDropsRecordsOfOtherAdvisors(t *testing.T) {
	t.Parallel()

	svc, err := NewService(leakyStore{records: []contractx.ClientRecord{
		{"FA_NAME": "John Smith", "CLIENT_NAME": "Alice"},
		{"FA_NAME": "Jane Doe", "CLIENT_NAME": "Carol"},
	}})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	clients, err := svc.ClientsByAdvisor(context.Background(), "John Smith")
	if err != nil {
		t.Fatalf("ClientsByAdvisor() error = %v", err)
	}
	if len(clients) != 1 || clients[0]["CLIENT_NAME"] != "Alice" {
		t.Fatalf("unexpected clients: %#v", clients)
	}

	names, err := svc.AdvisorNames(context.Background())
	if err != nil {
		t.Fatalf("AdvisorNames() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"A", "B"}) {
		t.Fatalf("AdvisorNames() = %#v", names)
	}
}

func TestDataConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     DataConfig
		wantErr bool
	}{
		{name: "json", cfg: DataConfig{Source: "json", File: "data.json"}},
		{name: "postgres", cfg: DataConfig{Source: "Postgres"}},
		{name: "json without file", cfg: DataConfig{Source: "json"}, wantErr: true},
		{name: "unknown source", cfg: DataConfig{Source: "csv"}, wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr && !errors.Is(err, contractx.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
