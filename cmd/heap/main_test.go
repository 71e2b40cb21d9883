package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	heap "github.com/jdziat/heap-go"
	"github.com/jdziat/heap-go/heaptest"
)

// clearEnv blanks every HEAP_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{heap.EnvAppID, heap.EnvUserAgent, heap.EnvBaseURL, heap.EnvStubbed, heap.EnvDebug, heap.EnvTimeout} {
		t.Setenv(name, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTrackCommand(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	code, stdout, stderr := runCLI(t,
		"--app-id", "12345",
		"--base-url", server.URL,
		"track", "Deploy Finished", "ci-bot",
		"-p", "service=api",
		"-p", "duration_ms=5120",
		"-p", "ratio=0.5",
		"-p", `build="42"`,
		"-p", "note=a,b",
		"--timestamp", "2024-03-01T12:00:00Z",
		"--idempotency-key", "deploy-7",
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `tracked "Deploy Finished" for ci-bot`)

	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, heap.PathTrack, req.Path)

	var body map[string]any
	require.NoError(t, req.DecodeJSON(&body))
	assert.Equal(t, "12345", body["app_id"])
	assert.Equal(t, "ci-bot", body["identity"])
	assert.Equal(t, "Deploy Finished", body["event"])
	assert.Equal(t, "2024-03-01T12:00:00Z", body["timestamp"])
	assert.Equal(t, "deploy-7", body["idempotency_key"])
	assert.Equal(t, map[string]any{
		"service":     "api",
		"duration_ms": float64(5120),
		"ratio":       0.5,
		"build":       "42",
		"note":        "a,b",
	}, body["properties"])
}

func TestTrackAutoIdempotencyKey(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	code, stdout, stderr := runCLI(t,
		"--app-id", "12345", "--base-url", server.URL,
		"track", "signup", "alice", "--auto-idempotency-key",
	)
	require.Equal(t, exitOK, code, stderr)

	m := regexp.MustCompile(`idempotency_key=([0-9a-f-]{36})`).FindStringSubmatch(stdout)
	require.Len(t, m, 2, stdout)

	var body heap.TrackRequest
	require.NoError(t, server.LastRequest().DecodeJSON(&body))
	require.NotNil(t, body.IdempotencyKey)
	assert.Equal(t, m[1], *body.IdempotencyKey)
	assert.Nil(t, body.Properties)
}

func TestIdempotencyFlagsAreExclusive(t *testing.T) {
	clearEnv(t)
	code, _, stderr := runCLI(t,
		"--app-id", "12345", "--stubbed",
		"track", "signup", "alice", "--idempotency-key", "k", "--auto-idempotency-key",
	)
	assert.Equal(t, exitUsage, code)
	assert.NotEmpty(t, stderr)
}

func TestAddUserPropertiesCommand(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	code, stdout, stderr := runCLI(t,
		"--app-id", "12345", "--base-url", server.URL, "--user-agent", "heap-cli-test/1",
		"add-user-properties", "alice@example.com", "-p", "plan=pro", "-p", "seats=5",
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "updated 2 properties for alice@example.com")

	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, heap.PathAddUserProperties, req.Path)
	assert.Equal(t, "heap-cli-test/1", req.UserAgent)

	var body heap.UserPropertiesRequest
	require.NoError(t, req.DecodeJSON(&body))
	assert.Equal(t, "alice@example.com", body.Identity)
	assert.Equal(t, "pro", body.Properties["plan"])
	assert.Equal(t, float64(5), body.Properties["seats"])
}

func TestAddUserPropertiesRequiresProps(t *testing.T) {
	clearEnv(t)
	code, _, _ := runCLI(t, "--app-id", "12345", "--stubbed", "add-user-properties", "alice")
	assert.Equal(t, exitUsage, code)
}

func TestValidationFailure(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	code, _, stderr := runCLI(t,
		"--app-id", "12345", "--base-url", server.URL,
		"track", "signup", string(long),
	)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "identity too long; 256 is above the 255-character limit")
	assert.Equal(t, 0, server.RequestCount())
}

func TestMalformedProperty(t *testing.T) {
	clearEnv(t)
	code, _, stderr := runCLI(t, "--app-id", "12345", "--stubbed", "track", "e", "u", "-p", "novalue")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `invalid property "novalue"`)
}

func TestMissingAppID(t *testing.T) {
	clearEnv(t)
	code, _, stderr := runCLI(t, "--stubbed", "track", "e", "u")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "heap: app_id not set")
}

func TestAPIRejection(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()
	server.RespondWithBadRequest()

	code, _, stderr := runCLI(t, "--app-id", "12345", "--base-url", server.URL, "track", "e", "u")
	assert.Equal(t, exitRejected, code)
	assert.Contains(t, stderr, "400 Bad request")
}

func TestStubbedSendsNothing(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	code, _, stderr := runCLI(t, "--app-id", "12345", "--base-url", server.URL, "--stubbed", "track", "e", "u")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, 0, server.RequestCount())
}

func TestConfigFileAndEnvLayering(t *testing.T) {
	clearEnv(t)
	server := heaptest.NewMockServer()
	defer server.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "heap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("app_id: from-file\nbase_url: "+server.URL+"\nuser_agent: file-agent\n"), 0o600))

	// Environment overrides the file.
	t.Setenv(heap.EnvUserAgent, "env-agent")

	code, _, stderr := runCLI(t, "--config", cfgPath, "track", "e", "u")
	require.Equal(t, exitOK, code, stderr)

	req := server.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "env-agent", req.UserAgent)

	var body heap.TrackRequest
	require.NoError(t, req.DecodeJSON(&body))
	assert.Equal(t, "from-file", body.AppID)

	// Flags override both.
	code, _, stderr = runCLI(t, "--config", cfgPath, "--app-id", "from-flag", "track", "e", "u")
	require.Equal(t, exitOK, code, stderr)
	require.NoError(t, server.LastRequest().DecodeJSON(&body))
	assert.Equal(t, "from-flag", body.AppID)
}

func TestEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv only fills variables that are not set at all.
	for _, name := range []string{heap.EnvAppID, heap.EnvStubbed} {
		require.NoError(t, os.Unsetenv(name))
	}

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("HEAP_APP_ID=from-dotenv\nHEAP_STUBBED=true\n"), 0o600))

	code, stdout, stderr := runCLI(t, "--env-file", envPath, "-v", "track", "e", "u")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `tracked "e" for u`)
	assert.Contains(t, stderr, "from-dotenv")
}

func TestMissingEnvFile(t *testing.T) {
	clearEnv(t)
	code, _, stderr := runCLI(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--stubbed", "track", "e", "u")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "failed to load env file")
}

func TestVersionFlag(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, heap.Version)
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "identify", "alice")
	assert.Equal(t, exitUsage, code)
	assert.NotEmpty(t, stderr)
}

func TestParseProperties(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    heap.Properties
		wantErr bool
	}{
		{name: "none", args: nil, want: nil},
		{name: "string", args: []string{"plan=pro"}, want: heap.Properties{"plan": "pro"}},
		{name: "int", args: []string{"n=42"}, want: heap.Properties{"n": int64(42)}},
		{name: "float", args: []string{"r=1.5"}, want: heap.Properties{"r": 1.5}},
		{name: "quoted number", args: []string{`zip="02134"`}, want: heap.Properties{"zip": "02134"}},
		{name: "inf stays a string", args: []string{"x=Inf"}, want: heap.Properties{"x": "Inf"}},
		{name: "empty value", args: []string{"blank="}, want: heap.Properties{"blank": ""}},
		{name: "equals in value", args: []string{"q=a=b"}, want: heap.Properties{"q": "a=b"}},
		{name: "last wins", args: []string{"k=1", "k=2"}, want: heap.Properties{"k": int64(2)}},
		{name: "missing equals", args: []string{"k"}, wantErr: true},
		{name: "missing key", args: []string{"=v"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProperties(tt.args)
			if tt.wantErr {
				var propErr *propertyError
				assert.ErrorAs(t, err, &propErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	assert.Equal(t, int64(1709296200000), parseTimestamp("1709296200000"))
	assert.Equal(t, "2024-03-01", parseTimestamp("2024-03-01"))
}
