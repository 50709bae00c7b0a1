package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	"github.com/schollz/progressbar/v3"
)

// csvSource reads the two input datasets from CSV files.
type csvSource struct {
	cfg *contract.Config
}

// LoadTransactions reads and validates the transaction CSV. The header is
// checked against the required columns before any row is parsed; malformed
// rows become skipped records with the offending line number.
func (s *csvSource) LoadTransactions(ctx context.Context) ([]schema.Transaction, []schema.SkippedRecord, error) {
	if s.cfg.TransactionsPath == "" {
		return nil, nil, contract.NewValidationError("transactions file is required")
	}
	file, err := os.Open(s.cfg.TransactionsPath)
	if err != nil {
		return nil, nil, contract.NewValidationError("cannot open transactions file: %v", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(s.progressReader(file))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, contract.NewValidationError("transactions file has no header row: %v", err)
	}
	if missing := missingColumns(header, TransactionColumns); len(missing) > 0 {
		return nil, nil, validationErrorForMissing("transaction", missing)
	}
	cols := columnIndex(header)

	var (
		txs     []schema.Transaction
		skipped []schema.SkippedRecord
		line    = 1
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				Line:   line,
				Reason: schema.SkipBadTimestamp,
				Detail: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}
		tx, skip := parseTransactionRow(row, cols, line)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, skipped, nil
}

// LoadCustomers reads and validates the customer reference CSV. An absent
// customers path is allowed; the reference dataset only enriches reporting.
func (s *csvSource) LoadCustomers(ctx context.Context) ([]schema.CustomerRecord, []schema.SkippedRecord, error) {
	if s.cfg.CustomersPath == "" {
		return nil, nil, nil
	}
	file, err := os.Open(s.cfg.CustomersPath)
	if err != nil {
		return nil, nil, contract.NewValidationError("cannot open customers file: %v", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, contract.NewValidationError("customers file has no header row: %v", err)
	}
	if missing := missingColumns(header, CustomerColumns); len(missing) > 0 {
		return nil, nil, validationErrorForMissing("customer", missing)
	}
	cols := columnIndex(header)

	var (
		customers []schema.CustomerRecord
		skipped   []schema.SkippedRecord
		line      = 1
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				Line:   line,
				Reason: schema.SkipBadTimestamp,
				Detail: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}

		id := strings.TrimSpace(row[cols["customer_id"]])
		if id == "" {
			skipped = append(skipped, schema.SkippedRecord{Line: line, Reason: schema.SkipMissingID})
			continue
		}
		signup, err := parseTimestamp(row[cols["signup_date"]])
		if err != nil {
			skipped = append(skipped, schema.SkippedRecord{
				CustomerID: id,
				Line:       line,
				Reason:     schema.SkipBadTimestamp,
				Detail:     err.Error(),
			})
			continue
		}
		customers = append(customers, schema.CustomerRecord{CustomerID: id, SignupDate: signup})
	}
	return customers, skipped, nil
}

// Close is a no-op; CSV files are opened and closed per load.
func (s *csvSource) Close() error {
	return nil
}

// parseTransactionRow converts one CSV row into a Transaction, or a skip
// record explaining why the row was excluded. A blank amount is an explicit
// skip, not a silent zero.
func parseTransactionRow(row []string, cols map[string]int, line int) (schema.Transaction, *schema.SkippedRecord) {
	get := func(col string) string {
		idx := cols[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	id := get("customer_id")
	if id == "" {
		return schema.Transaction{}, &schema.SkippedRecord{Line: line, Reason: schema.SkipMissingID}
	}

	ts, err := parseTimestamp(get("timestamp"))
	if err != nil {
		return schema.Transaction{}, &schema.SkippedRecord{
			CustomerID: id, Line: line, Reason: schema.SkipBadTimestamp, Detail: err.Error(),
		}
	}

	amountStr := get("amount")
	if amountStr == "" {
		return schema.Transaction{}, &schema.SkippedRecord{
			CustomerID: id, Line: line, Reason: schema.SkipBadAmount, Detail: "amount is empty",
		}
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return schema.Transaction{}, &schema.SkippedRecord{
			CustomerID: id, Line: line, Reason: schema.SkipBadAmount, Detail: err.Error(),
		}
	}

	isReturn, err := parseBool(get("is_return"))
	if err != nil {
		return schema.Transaction{}, &schema.SkippedRecord{
			CustomerID: id, Line: line, Reason: schema.SkipBadReturn, Detail: err.Error(),
		}
	}

	return schema.Transaction{
		CustomerID: id,
		Timestamp:  ts,
		Amount:     amount,
		IsReturn:   isReturn,
		Category:   get("category"),
	}, nil
}

// parseTimestamp accepts RFC3339, date-time without zone, and plain dates.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// parseBool accepts the flag spellings seen in real exports.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n", "":
		return false, nil
	default:
		return false, fmt.Errorf("unparseable return flag %q", s)
	}
}

// progressReader wraps the input with a byte progress bar when enabled.
func (s *csvSource) progressReader(file *os.File) io.Reader {
	if !s.cfg.Progress {
		return file
	}
	info, err := file.Stat()
	if err != nil {
		return file
	}
	bar := progressbar.DefaultBytes(info.Size(), "reading transactions")
	return io.TeeReader(file, bar)
}
