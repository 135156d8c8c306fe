package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"aquadash.wasreb.org/internal/app"
	"aquadash.wasreb.org/internal/appconf"
	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/dataset"
	"aquadash.wasreb.org/internal/kpi"
	"aquadash.wasreb.org/internal/models"
)

// createTestApi builds a RestAPI over the fixture datasets with a seeded
// in-memory user store.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	data, err := dataset.LoadManager(context.Background(),
		filepath.Join("..", "..", "testdata"), logger)
	require.NoError(t, err)

	users, err := auth.OpenStore(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() }) // nolint:errcheck
	require.NoError(t, users.SeedFromYAML(context.Background(),
		filepath.Join("..", "..", "testdata", "credentials.yaml")))

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.EnvFlagToEnvironment("test"),
			RateLimit: -1,
		},
		Logger: logger,
		Data:   data,
		Engine: kpi.NewEngine(data),
		Users:  users,
	}
	return NewRestAPI(application)
}

func newTestServer(t *testing.T) (*RestAPI, *httptest.Server) {
	t.Helper()
	api := createTestApi(t)
	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return api, server
}

// login authenticates against the test server and returns the session
// cookie plus the decoded response.
func login(t *testing.T, server *httptest.Server, username, password string) (*http.Cookie, *http.Response, models.ResponseModel) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	model := decodeEnvelope(t, resp)

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			return c, resp, model
		}
	}
	return nil, resp, model
}

func mustLogin(t *testing.T, server *httptest.Server, username, password string) *http.Cookie {
	t.Helper()
	cookie, resp, _ := login(t, server, username, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, cookie)
	return cookie
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.ResponseModel {
	t.Helper()
	defer resp.Body.Close() // nolint:errcheck
	var model models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&model))
	return model
}

// get issues a GET with an optional session cookie.
func get(t *testing.T, server *httptest.Server, endpoint string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, server.URL+endpoint, nil)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getEnvelope(t *testing.T, server *httptest.Server, endpoint string, cookie *http.Cookie) (*http.Response, models.ResponseModel) {
	t.Helper()
	resp := get(t, server, endpoint, cookie)
	return resp, decodeEnvelope(t, resp)
}

func putJSON(t *testing.T, server *httptest.Server, endpoint string, payload any, cookie *http.Cookie) (*http.Response, models.ResponseModel) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+endpoint, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}

// stripCurrentTime drops the envelope timestamp so two responses can be
// compared for payload equality.
func stripCurrentTime(t *testing.T, raw string) string {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	delete(m, "currentTime")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}

func postJSON(t *testing.T, server *httptest.Server, endpoint string, payload any, cookie *http.Cookie) (*http.Response, models.ResponseModel) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, server.URL+endpoint, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp, decodeEnvelope(t, resp)
}
