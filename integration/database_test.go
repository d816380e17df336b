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

// runEngineCommands exercises the full command surface against whatever
// backend the environment points at: migrate to the latest schema, run a
// ranking pass, read it back, inspect the store, then tear down.
func runEngineCommands(t *testing.T) {
	require.NoError(t, runCommand(t, "store", "migrate"))
	require.NoError(t, runCommand(t, "recompute", "--period", "weekly"))
	require.NoError(t, runCommand(t, "trending", "--period", "weekly", "--limit", "5"))
	require.NoError(t, runCommand(t, "promote", "list"))
	require.NoError(t, runCommand(t, "store", "status"))
	require.NoError(t, runCommand(t, "store", "clear"))
}

// TestTemplatrendWithMySQL tests the CLI with a MySQL backend.
func TestTemplatrendWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "templatrend",
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/templatrend?parseTime=true", host, port.Port())

	_ = os.Setenv("TEMPLATREND_STORE_BACKEND", "mysql")
	_ = os.Setenv("TEMPLATREND_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TEMPLATREND_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEMPLATREND_STORE_DB_CONNECT") }()

	runEngineCommands(t)
}

// TestTemplatrendWithPostgres tests the CLI with a PostgreSQL backend.
func TestTemplatrendWithPostgres(t *testing.T) {
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

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())

	_ = os.Setenv("TEMPLATREND_STORE_BACKEND", "postgresql")
	_ = os.Setenv("TEMPLATREND_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("TEMPLATREND_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("TEMPLATREND_STORE_DB_CONNECT") }()

	runEngineCommands(t)
}
