package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for the SQL input contract.
const (
	transactionsTable = "transactions"
	customersTable    = "customers"
)

// sqlSource reads the input datasets from a SQL backend. The tables carry
// the same column contract as the CSV files.
type sqlSource struct {
	cfg *contract.Config
	db  *sql.DB
}

func newSQLSource(cfg *contract.Config) (contract.RecordSource, error) {
	var driverName string
	switch cfg.InputBackend {
	case schema.SQLiteInput:
		driverName = "sqlite"
	case schema.MySQLInput:
		driverName = "mysql"
	case schema.PostgreSQLInput:
		driverName = "pgx"
	default:
		return nil, contract.NewConfigurationError("input-backend", "unsupported SQL input backend %q", cfg.InputBackend)
	}

	connStr := cfg.InputDBConnect
	if cfg.InputBackend == schema.SQLiteInput && connStr == "" {
		return nil, contract.NewConfigurationError("input-db-connect", "SQLite input requires a database path")
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, contract.NewValidationError("cannot open %s input database: %v", cfg.InputBackend, err)
	}
	if cfg.InputBackend == schema.SQLiteInput {
		// Single connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, contract.NewValidationError("cannot connect to %s input database: %v", cfg.InputBackend, err)
	}
	return &sqlSource{cfg: cfg, db: db}, nil
}

// LoadTransactions selects the required columns explicitly, so a missing
// column fails validation before any row is consumed.
func (s *sqlSource) LoadTransactions(ctx context.Context) ([]schema.Transaction, []schema.SkippedRecord, error) {
	query := fmt.Sprintf(
		"SELECT customer_id, timestamp, amount, is_return, category FROM %s ORDER BY customer_id, timestamp",
		transactionsTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, contract.NewValidationError("transaction table does not satisfy the input contract: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		txs     []schema.Transaction
		skipped []schema.SkippedRecord
		line    int
	)
	for rows.Next() {
		line++
		var (
			id       sql.NullString
			ts       sql.NullString
			amount   sql.NullFloat64
			isReturn sql.NullBool
			category sql.NullString
		)
		if err := rows.Scan(&id, &ts, &amount, &isReturn, &category); err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				Line: line, Reason: schema.SkipBadAmount, Detail: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}
		if !id.Valid || id.String == "" {
			skipped = append(skipped, schema.SkippedRecord{Line: line, Reason: schema.SkipMissingID})
			continue
		}
		if !amount.Valid {
			// NULL amounts are skipped explicitly, never coerced to zero
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: id.String, Line: line, Reason: schema.SkipBadAmount, Detail: "amount is NULL",
			})
			continue
		}
		parsed, err := parseTimestamp(ts.String)
		if err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: id.String, Line: line, Reason: schema.SkipBadTimestamp, Detail: err.Error(),
			})
			continue
		}
		txs = append(txs, schema.Transaction{
			CustomerID: id.String,
			Timestamp:  parsed,
			Amount:     amount.Float64,
			IsReturn:   isReturn.Valid && isReturn.Bool,
			Category:   category.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, contract.NewValidationError("reading transaction rows: %v", err)
	}
	return txs, skipped, nil
}

// Close releases the input database handle.
func (s *sqlSource) Close() error {
	return s.db.Close()
}

// LoadCustomers reads the customer reference table.
func (s *sqlSource) LoadCustomers(ctx context.Context) ([]schema.CustomerRecord, []schema.SkippedRecord, error) {
	query := fmt.Sprintf("SELECT customer_id, signup_date FROM %s ORDER BY customer_id", customersTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, contract.NewValidationError("customer table does not satisfy the input contract: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		customers []schema.CustomerRecord
		skipped   []schema.SkippedRecord
		line      int
	)
	for rows.Next() {
		line++
		var id, signup sql.NullString
		if err := rows.Scan(&id, &signup); err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				Line: line, Reason: schema.SkipBadTimestamp, Detail: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}
		if !id.Valid || id.String == "" {
			skipped = append(skipped, schema.SkippedRecord{Line: line, Reason: schema.SkipMissingID})
			continue
		}
		parsed, err := parseTimestamp(signup.String)
		if err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: id.String, Line: line, Reason: schema.SkipBadTimestamp, Detail: err.Error(),
			})
			continue
		}
		customers = append(customers, schema.CustomerRecord{CustomerID: id.String, SignupDate: parsed})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, contract.NewValidationError("reading customer rows: %v", err)
	}
	return customers, skipped, nil
}
