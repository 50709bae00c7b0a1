package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avendano/churnscope/internal/contract"
	"github.com/avendano/churnscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func csvConfig(transactionsPath string) *contract.Config {
	return &contract.Config{
		InputBackend:     schema.CSVInput,
		TransactionsPath: transactionsPath,
	}
}

func TestLoadTransactions(t *testing.T) {
	path := writeTempCSV(t, `customer_id,timestamp,amount,is_return,category
C1,2025-06-01,100.50,false,apparel
C2,2025-06-02T10:30:00Z,49.99,true,
C1,2025-06-03 08:00:00,20,no,electronics
`)
	source := &csvSource{cfg: csvConfig(path)}

	txs, skipped, err := source.LoadTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, txs, 3)

	assert.Equal(t, "C1", txs[0].CustomerID)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), txs[0].Timestamp)
	assert.InDelta(t, 100.50, txs[0].Amount, 0.001)
	assert.False(t, txs[0].IsReturn)
	assert.Equal(t, "apparel", txs[0].Category)

	assert.True(t, txs[1].IsReturn)
	assert.Empty(t, txs[1].Category)
	assert.Equal(t, time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC), txs[2].Timestamp)
}

func TestLoadTransactionsColumnOrderIrrelevant(t *testing.T) {
	path := writeTempCSV(t, `amount,category,customer_id,is_return,timestamp
75.25,books,C9,false,2025-06-01
`)
	source := &csvSource{cfg: csvConfig(path)}

	txs, _, err := source.LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "C9", txs[0].CustomerID)
	assert.InDelta(t, 75.25, txs[0].Amount, 0.001)
}

func TestLoadTransactionsBOMTolerated(t *testing.T) {
	path := writeTempCSV(t, "\uFEFFcustomer_id,timestamp,amount,is_return,category\nC1,2025-06-01,10,false,x\n")
	source := &csvSource{cfg: csvConfig(path)}

	txs, _, err := source.LoadTransactions(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestLoadTransactionsHeaderValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing amount column", content: "customer_id,timestamp,is_return,category\nC1,2025-06-01,false,x\n"},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			source := &csvSource{cfg: csvConfig(path)}

			_, _, err := source.LoadTransactions(context.Background())
			var valErr *contract.ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestLoadTransactionsMissingFile(t *testing.T) {
	source := &csvSource{cfg: csvConfig(filepath.Join(t.TempDir(), "nope.csv"))}
	_, _, err := source.LoadTransactions(context.Background())

	var valErr *contract.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestLoadTransactionsNoPath(t *testing.T) {
	source := &csvSource{cfg: csvConfig("")}
	_, _, err := source.LoadTransactions(context.Background())

	var valErr *contract.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestLoadTransactionsRowSkips(t *testing.T) {
	path := writeTempCSV(t, `customer_id,timestamp,amount,is_return,category
,2025-06-01,10,false,x
C2,not-a-date,10,false,x
C3,2025-06-01,,false,x
C4,2025-06-01,abc,false,x
C5,2025-06-01,10,maybe,x
C6,2025-06-01,10,false,x
`)
	source := &csvSource{cfg: csvConfig(path)}

	txs, skipped, err := source.LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "C6", txs[0].CustomerID)

	require.Len(t, skipped, 5)
	expected := []struct {
		line   int
		reason schema.SkipReason
	}{
		{line: 2, reason: schema.SkipMissingID},
		{line: 3, reason: schema.SkipBadTimestamp},
		{line: 4, reason: schema.SkipBadAmount},
		{line: 5, reason: schema.SkipBadAmount},
		{line: 6, reason: schema.SkipBadReturn},
	}
	for i, want := range expected {
		assert.Equal(t, want.line, skipped[i].Line, "skip %d", i)
		assert.Equal(t, want.reason, skipped[i].Reason, "skip %d", i)
	}
}

func TestLoadTransactionsCancelledContext(t *testing.T) {
	path := writeTempCSV(t, "customer_id,timestamp,amount,is_return,category\nC1,2025-06-01,10,false,x\n")
	source := &csvSource{cfg: csvConfig(path)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := source.LoadTransactions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCustomers(t *testing.T) {
	cfg := csvConfig("")
	cfg.CustomersPath = writeTempCSV(t, `customer_id,signup_date
C1,2024-01-15
,2024-02-01
C3,never
`)
	source := &csvSource{cfg: cfg}

	customers, skipped, err := source.LoadCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "C1", customers[0].CustomerID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), customers[0].SignupDate)

	require.Len(t, skipped, 2)
	assert.Equal(t, schema.SkipMissingID, skipped[0].Reason)
	assert.Equal(t, schema.SkipBadTimestamp, skipped[1].Reason)
	assert.Equal(t, "C3", skipped[1].CustomerID)
}

func TestLoadCustomersOptional(t *testing.T) {
	source := &csvSource{cfg: csvConfig("")}
	customers, skipped, err := source.LoadCustomers(context.Background())
	require.NoError(t, err)
	assert.Nil(t, customers)
	assert.Nil(t, skipped)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "RFC3339", input: "2025-06-01T10:00:00Z"},
		{name: "datetime without zone", input: "2025-06-01 10:00:00"},
		{name: "date only", input: "2025-06-01"},
		{name: "padded", input: "  2025-06-01  "},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "01/06/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "T", "1", "yes", "Y"} {
		v, err := parseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "F", "0", "no", "N", ""} {
		v, err := parseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseBool("maybe")
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	source, err := New(csvConfig("x.csv"))
	require.NoError(t, err)
	assert.IsType(t, &csvSource{}, source)

	_, err = New(&contract.Config{InputBackend: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "csv:orders.csv", Describe(csvConfig("orders.csv")))
	assert.Equal(t, "postgresql", Describe(&contract.Config{InputBackend: schema.PostgreSQLInput}))
}
