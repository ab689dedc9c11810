package accounts_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for accounts service end-to-end tests.
 * This includes container setup, account fixtures, and assertions.
 */

const (
	testImageName = "aussiebroadwan-accounts-test:latest"
	redisImage    = "redis:7-alpine"

	adminID       = "admin"
	adminPassword = "Admin123!"

	roleAdmin      = 1
	roleUser       = 2
	statusActive   = 1
	statusInactive = 2
	statusPending  = 4
)

// TestMain builds the Docker image once before all tests and removes it
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Accounts Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Accounts Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/accounts/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

// serviceEnv is the environment shared by every container. Rate limits are
// raised because tests make many rapid requests from one address.
func serviceEnv(extra map[string]string) map[string]string {
	env := map[string]string{
		"ACCOUNTS_DATABASE_FILE":  "/data/accounts.db",
		"ACCOUNTS_PEPPER_FILE":    "/data/pepper",
		"ACCOUNTS_ADMIN_ID":       adminID,
		"ACCOUNTS_ADMIN_PASSWORD": adminPassword,
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
		"RATELIMIT_LENIENT_REQUESTS":  "1000",
		"RATELIMIT_LENIENT_BURST":     "1000",
	}
	for k, v := range extra {
		if v == "" {
			delete(env, k)
			continue
		}
		env[k] = v
	}
	return env
}

// startService runs the accounts service on the in-process cache.
func startService(t *testing.T, env map[string]string) string {
	t.Helper()
	return runService(t, testcontainers.ContainerRequest{Env: serviceEnv(env)})
}

// startServiceWithRedis runs the service next to a Redis container on a
// private network.
func startServiceWithRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := nw.Remove(ctx); err != nil {
			t.Logf("failed to remove network: %v", err)
		}
	})

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          redisImage,
			ExposedPorts:   []string{"6379/tcp"},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {"redis"}},
			WaitingFor:     wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis: %v", err)
		}
	})

	return runService(t, testcontainers.ContainerRequest{
		Env:      serviceEnv(map[string]string{"REDIS_URL": "redis://redis:6379/0"}),
		Networks: []string{nw.Name},
	})
}

func runService(t *testing.T, req testcontainers.ContainerRequest) string {
	t.Helper()
	ctx := context.Background()

	req.Image = testImageName
	req.ExposedPorts = []string{"8080/tcp"}
	req.WaitingFor = wait.ForHTTP("/livez").
		WithPort("8080/tcp").
		WithStartupTimeout(60 * time.Second)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// registerAndPermit registers an account and has the administrator approve it.
func registerAndPermit(t *testing.T, client *accountsdk.SDKClient, id, password string) *accountsdk.AccountResponse {
	t.Helper()
	ctx := t.Context()

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		ID:       id,
		Name:     id,
		Email:    id + "@example.com",
		Password: password,
	})
	require.NoError(t, err, "register %s", id)

	acc, err := client.AsCaller(adminID).Permit(ctx, id)
	require.NoError(t, err, "permit %s", id)
	require.Equal(t, "ACTIVE", acc.Status)
	return acc
}

// requireAPIError asserts err is an *accountsdk.APIError with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *accountsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, "status for %v", err)
	require.Equal(t, code, apiErr.Code, "code for %v", err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *accountsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
