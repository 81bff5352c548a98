package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := registerUser(t, app, "a@x.com")
	assert.NotEmpty(t, s.Access)
	assert.NotEmpty(t, s.Refresh)
	assert.Equal(t, "a@x.com", s.User["email"])
	assert.NotContains(t, s.User, "password")
	assert.NotContains(t, s.User, "password_hash")

	resp := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "securepass123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["access"])
	assert.NotEmpty(t, body["refresh"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	registerUser(t, app, "a@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "again",
		"email":    "a@x.com",
		"password": "anotherpass",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "email")

	var count int
	require.NoError(t, app.DB.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Equal(t, 1, count)
}

// A wrong password and a nonexistent account must produce the same
// status and body shape.
func TestLoginUniformFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	registerUser(t, app, "a@x.com")

	wrongPass := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "p2",
	})
	require.Equal(t, http.StatusBadRequest, wrongPass.StatusCode)
	wrongPassBody := decodeBody(t, wrongPass)

	unknown := doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusBadRequest, unknown.StatusCode)
	unknownBody := decodeBody(t, unknown)

	assert.Equal(t, wrongPassBody, unknownBody)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := registerUser(t, app, "a@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", s.Access, map[string]string{"refresh": s.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Second logout with the same token is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", s.Access, map[string]string{"refresh": s.Refresh})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The revoked token can no longer mint access tokens.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh": s.Refresh})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLogoutRequiresAuthAndBody(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := registerUser(t, app, "a@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", "", map[string]string{"refresh": s.Refresh})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", s.Access, map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", s.Access, map[string]string{"refresh": "garbage"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := registerUser(t, app, "a@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh": s.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	access, ok := body["access"].(string)
	require.True(t, ok)
	require.NotEmpty(t, access)

	// The fresh token works against a protected endpoint.
	resp = doJSON(t, app, http.MethodGet, "/api/me", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)
	assert.Equal(t, "a@x.com", me["email"])
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp := doJSON(t, app, http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/tasks", "bogus-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteAccountCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	s := registerUser(t, app, "a@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/tasks", s.Access, map[string]string{"title": "T"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/me", s.Access, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	var users, tasks, tokens int
	require.NoError(t, app.DB.Get(&users, "SELECT COUNT(*) FROM users"))
	require.NoError(t, app.DB.Get(&tasks, "SELECT COUNT(*) FROM tasks"))
	require.NoError(t, app.DB.Get(&tokens, "SELECT COUNT(*) FROM refresh_tokens"))
	assert.Zero(t, users)
	assert.Zero(t, tasks)
	assert.Zero(t, tokens)
}
