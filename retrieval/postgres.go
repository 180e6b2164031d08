package retrieval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

// clientRow keeps FA_NAME in its own column for indexed lookups; record holds
// the rest of the client object. The column wins over any FA_NAME in record.
type clientRow struct {
	bun.BaseModel `bun:"table:clients,alias:c"`

	ID     int64          `bun:"id,pk,autoincrement"`
	FAName string         `bun:"fa_name,notnull"`
	Record map[string]any `bun:"record,type:jsonb,json_use_number"`
}

// PostgresStore queries the clients table on every call.
type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

var _ Store = (*PostgresStore)(nil)

func OpenPostgres(cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if _, err := url.Parse(dsn); err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	return NewPostgresStore(bun.NewDB(sqldb, pgdialect.New()), timeout), nil
}

func NewPostgresStore(db *bun.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) ClientsByAdvisor(ctx context.Context, name string) ([]contractx.ClientRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []clientRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("c.fa_name = ?", name).
		Order("c.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: select clients: %v", contractx.ErrDataUnavailable, err)
	}

	records := make([]contractx.ClientRecord, 0, len(rows))
	for _, row := range rows {
		rec := contractx.ClientRecord(row.Record)
		if rec == nil {
			rec = contractx.ClientRecord{}
		}
		// the column is what lookups and AdvisorNames see
		rec[contractx.FieldAdvisorName] = row.FAName
		records = append(records, rec)
	}
	return records, nil
}

func (s *PostgresStore) AdvisorNames(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var names []string
	err := s.db.NewSelect().
		Model((*clientRow)(nil)).
		Column("fa_name").
		Distinct().
		Order("fa_name").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("%w: select advisor names: %v", contractx.ErrDataUnavailable, err)
	}
	return names, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
