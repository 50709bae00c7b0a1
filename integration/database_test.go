//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestChurnscopeWithMySQL exercises run tracking against a MySQL backend.
func TestChurnscopeWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "churnscope",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/churnscope?multiStatements=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHURNSCOPE_HISTORY_BACKEND", "mysql")
	_ = os.Setenv("CHURNSCOPE_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("CHURNSCOPE_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHURNSCOPE_HISTORY_DB_CONNECT") }()

	runTrackingFlow(t)
}

// TestChurnscopeWithPostgres exercises run tracking against a PostgreSQL backend.
func TestChurnscopeWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres@%s:%s/postgres?sslmode=disable", host, port.Port())

	// Set environment variables
	_ = os.Setenv("CHURNSCOPE_HISTORY_BACKEND", "postgresql")
	_ = os.Setenv("CHURNSCOPE_HISTORY_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("CHURNSCOPE_HISTORY_BACKEND") }()
	defer func() { _ = os.Unsetenv("CHURNSCOPE_HISTORY_DB_CONNECT") }()

	runTrackingFlow(t)
}

// runTrackingFlow migrates the run tracking schema, runs a tracked analysis
// and reads the stored history back through the CLI.
func runTrackingFlow(t *testing.T) {
	transactions := writeSampleTransactions(t)

	// Apply run tracking migrations
	err := runChurnscopeCommand(t, "history", "migrate")
	require.NoError(t, err)

	// Run a tracked analysis
	err = runChurnscopeCommand(t, "analyze", transactions, "--as-of", "2025-06-30")
	require.NoError(t, err)

	// List stored runs
	err = runChurnscopeCommand(t, "history", "list")
	require.NoError(t, err)

	// Show the most recent run's stored scores
	err = runChurnscopeCommand(t, "history", "show")
	require.NoError(t, err)

	// Roll the schema all the way back down
	err = runChurnscopeCommand(t, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)
}
