//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// runHistoryRoundTrip estimates a scope twice with the given backend and checks the recorded runs.
func runHistoryRoundTrip(t *testing.T, env []string) {
	t.Helper()
	base := t.TempDir()
	scope := defaultScope(t)
	args := append(append([]string{}, projectArgs...), "--scope-dir", scope, "--base-dir", base, "--output", "none")

	res := runCLI(t, env, "history", "clear")
	require.Equal(t, 0, res.ExitCode)

	for range 2 {
		res = runCLI(t, env, args...)
		require.Equal(t, 0, res.ExitCode)
		assert.NotContains(t, res.Stderr, "Error recording run history")
	}

	res = runCLI(t, env, "history", "status")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Connected: true")
	assert.Contains(t, res.Stdout, "Total Runs: 2")
	assert.Contains(t, res.Stdout, "estimation_files: 20 rows")

	prefix := filepath.Join(t.TempDir(), "export")
	res = runCLI(t, env, "history", "export", "--output-file", prefix)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "Exported 2 runs")

	res = runCLI(t, env, "history", "migrate")
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "No migration needed")
}

// TestEstimationWithMySQL tests the run history with a MySQL backend.
func TestEstimationWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "estimation",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
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

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/estimation", host, port.Port())
	runHistoryRoundTrip(t, []string{
		"ESTIMATION_HISTORY_BACKEND=mysql",
		"ESTIMATION_HISTORY_DB_CONNECT=" + connStr,
	})
}

// TestEstimationWithPostgres tests the run history with a PostgreSQL backend.
func TestEstimationWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runHistoryRoundTrip(t, []string{
		"ESTIMATION_HISTORY_BACKEND=postgresql",
		"ESTIMATION_HISTORY_DB_CONNECT=" + connStr,
	})
}

// TestEstimationPublishToMinIO uploads the reports to an S3-compatible server.
func TestEstimationPublishToMinIO(t *testing.T) {
	ctx := context.Background()
	const accessKey, secretKey = "minioadmin", "minioadmin"

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     accessKey,
			"MINIO_ROOT_PASSWORD": secretKey,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = minioC.Terminate(ctx) }()

	host, err := minioC.Host(ctx)
	require.NoError(t, err)
	port, err := minioC.MappedPort(ctx, "9000")
	require.NoError(t, err)
	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	base := t.TempDir()
	args := append(append([]string{}, projectArgs...),
		"--scope-dir", defaultScope(t), "--base-dir", base, "--output", "none", "--parquet",
		"--publish-endpoint", endpoint, "--publish-bucket", "audit-reports", "--publish-ssl=false")
	res := runCLI(t, []string{
		"ESTIMATION_PUBLISH_ACCESS_KEY=" + accessKey,
		"ESTIMATION_PUBLISH_SECRET_KEY=" + secretKey,
	}, args...)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "Published 4 of 4 files")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	require.NoError(t, err)
	for _, name := range []string{"combined_contracts_data.csv", "combined_interfaces_data.csv", "cyver_portal_data.csv", "cyver_portal_data.parquet"} {
		info, err := client.StatObject(ctx, "audit-reports", "acme/0a1b2c3/"+name, minio.StatObjectOptions{})
		require.NoError(t, err, name)
		assert.Greater(t, info.Size, int64(0), name)
	}
}
