package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileBody = `{"forename":"Ada","surname":"Lovelace","username":"ada@example.org","roles":["ROLE_ADMIN","ROLE_ISSUER"]}`

func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		switch r.FormValue("password") {
		case "secret":
			w.Header().Set("Authorization", "Bearer t0k")
			_, _ = io.WriteString(w, profileBody)
		case "inactive":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, profileBody)
	})
	mux.HandleFunc("GET /api/buildings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"name":"HQ"}`)
	})
	mux.HandleFunc("GET /api/buildings/{id}/floors", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":10,"name":"Ground"},{"id":11,"name":"First"}]`)
	})
	mux.HandleFunc("POST /api/rooms/{id}/checkValid", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "5" && r.FormValue("credentials") == "1,2" {
			_, _ = io.WriteString(w, "success")
			return
		}
		_, _ = io.WriteString(w, "fail")
	})
	mux.HandleFunc("GET /api/admin/users/filter", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, `[{"email":"bob@example.org","forename":"Bob","surname":"B","activated":true}]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupCLIEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	srv := newFakeBackend(t)
	t.Setenv("SESAM_API_URL", srv.URL)
	t.Setenv("SESAM_STORAGE_MODE", "file")
	t.Setenv("SESAM_STATE_FILE", filepath.Join(dir, "state.json"))
	t.Setenv("SESAM_OUTPUT", "table")
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEV", "false")
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	setupCLIEnv(t)

	code, _, stderr := runCLI(t, "")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Available commands:")

	code, _, stderr = runCLI(t, "", "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, stderr = runCLI(t, "", "buildings")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "sesamctl buildings <subcommand>")

	code, _, _ = runCLI(t, "", "-o", "xml", "doors")
	assert.Equal(t, exitUsage, code)
}

func TestRun_GuardBlocksAnonymousUser(t *testing.T) {
	setupCLIEnv(t)

	code, _, stderr := runCLI(t, "", "whoami")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "login required")

	code, _, stderr = runCLI(t, "", "users", "list")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "admin role required")
}

func TestRun_LoginPersistsSession(t *testing.T) {
	setupCLIEnv(t)

	code, stdout, stderr := runCLI(t, "secret\n", "-o", "json", "login", "-e", "ada@example.org", "--password-stdin")
	require.Equal(t, exitOK, code, stderr)

	var view profileView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, "ada@example.org", view.Email)
	assert.True(t, view.Admin)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_ISSUER"}, view.Roles)

	// a fresh process restores the session from the state file
	code, stdout, stderr = runCLI(t, "", "whoami")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Ada Lovelace")

	code, stdout, stderr = runCLI(t, "", "--query", "[0].email", "users", "list")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "\"bob@example.org\"\n", stdout)

	code, _, stderr = runCLI(t, "", "logout")
	require.Equal(t, exitOK, code, stderr)

	code, _, stderr = runCLI(t, "", "whoami")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "login required")
}

func TestRun_LoginReplacesRejectedToken(t *testing.T) {
	setupCLIEnv(t)
	state := os.Getenv("SESAM_STATE_FILE")
	require.NoError(t, os.WriteFile(state, []byte(`{"token":"Bearer expired"}`), 0o600))

	code, stdout, stderr := runCLI(t, "", "-o", "json", "login", "-e", "ada@example.org", "-p", "secret")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "ada@example.org")

	raw, err := os.ReadFile(state)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Bearer t0k")
}

func TestRun_LoginFailures(t *testing.T) {
	setupCLIEnv(t)

	code, _, stderr := runCLI(t, "", "login", "-e", "ada@example.org", "-p", "inactive")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "not activated")

	code, _, stderr = runCLI(t, "", "login", "-e", "ada@example.org", "-p", "wrong")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "authentication failed")

	code, _, stderr = runCLI(t, "", "login", "-p", "secret")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "email is required")
}

func TestRun_BuildingsShowCombinesRequests(t *testing.T) {
	setupCLIEnv(t)

	code, stdout, stderr := runCLI(t, "", "-o", "yaml", "buildings", "show", "1")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "name: HQ")
	assert.Contains(t, stdout, "name: Ground")
	assert.Contains(t, stdout, "id: 11")

	code, _, _ = runCLI(t, "", "buildings", "show", "abc")
	assert.Equal(t, exitError, code)
}

func TestRun_RoomsCheckAccess(t *testing.T) {
	setupCLIEnv(t)

	code, stdout, stderr := runCLI(t, "", "-o", "json", "rooms", "check-access", "5", "--credential", "1,2")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"granted": true`)

	code, stdout, stderr = runCLI(t, "", "-o", "json", "rooms", "check-access", "5", "--credential", "3")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"granted": false`)
}

func TestRun_Preferences(t *testing.T) {
	setupCLIEnv(t)

	code, _, stderr := runCLI(t, "", "prefs", "dark-mode", "on")
	require.Equal(t, exitOK, code, stderr)
	code, _, stderr = runCLI(t, "", "prefs", "language", "de")
	require.Equal(t, exitOK, code, stderr)

	code, stdout, stderr := runCLI(t, "", "-o", "yaml", "prefs", "show")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "darkMode: true")
	assert.Contains(t, stdout, "lang: de")

	code, _, stderr = runCLI(t, "", "prefs", "language", "fr")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unsupported language")
}
