package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesAreGated(t *testing.T) {
	_, server := newTestServer(t)

	// No session at all.
	resp, _ := getEnvelope(t, server, "/api/admin/users.json", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Country-role session.
	cookie := mustLogin(t, server, "uganda_analyst", "kampala-2022")
	resp, model := getEnvelope(t, server, "/api/admin/users.json", cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "permission denied", model.Text)
}

func TestAdminListUsers(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/admin/users.json", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := model.Data.(map[string]interface{})
	assert.Len(t, data["list"], 2)
	counts := data["counts"].(map[string]interface{})
	assert.EqualValues(t, 1, counts["admin"])
	assert.EqualValues(t, 1, counts["country"])
}

func TestAdminUpdateUserAppliesToLiveSessions(t *testing.T) {
	_, server := newTestServer(t)
	adminCookie := mustLogin(t, server, "admin", "admin-secret-1")
	analystCookie := mustLogin(t, server, "uganda_analyst", "kampala-2022")

	resp, model := putJSON(t, server, "/api/admin/users/uganda_analyst.json", map[string]interface{}{
		"role":    "country",
		"country": "Kenya",
	}, adminCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := model.Data.(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "Kenya", user["country"])

	// The analyst's live session now sees Kenya's data instead.
	resp, model = getEnvelope(t, server, "/api/dashboard/countries.json", analystCookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"Kenya"}, data["countries"])
}

func TestAdminUpdateUserValidation(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, _ := putJSON(t, server, "/api/admin/users/uganda_analyst.json", map[string]interface{}{
		"role": "superuser",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = putJSON(t, server, "/api/admin/users/ghost.json", map[string]interface{}{
		"role": "country",
	}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
