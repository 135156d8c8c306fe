package restapi

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRequiresSession(t *testing.T) {
	_, server := newTestServer(t)

	endpoints := []string{
		"/api/dashboard/overview.json",
		"/api/dashboard/financial.json",
		"/api/dashboard/service-delivery.json",
		"/api/dashboard/operations/Uganda.json",
		"/api/dashboard/access.json",
		"/api/dashboard/alerts.json",
		"/api/dashboard/countries.json",
		"/api/dashboard/charts/revenue-trend.png",
	}
	for _, endpoint := range endpoints {
		resp, model := getEnvelope(t, server, endpoint, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, endpoint)
		assert.Equal(t, "permission denied", model.Text, endpoint)
		assert.Equal(t, 2, model.Version, endpoint)
	}
}

func TestOverviewEnvelopeShape(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/dashboard/overview.json?countries=Uganda&startYear=2022&endYear=2022", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, http.StatusOK, model.Code)
	assert.Equal(t, "OK", model.Text)
	assert.Equal(t, 2, model.Version)

	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "financial")
	assert.Contains(t, data, "serviceDelivery")
	assert.Contains(t, data, "access")
	assert.Contains(t, data, "alerts")

	fin := data["financial"].(map[string]interface{})
	assert.InDelta(t, 3700.0, fin["totalRevenue"].(float64), 0.001)
}

func TestFinancialPayloadIsIdempotent(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	read := func() string {
		resp := get(t, server, "/api/dashboard/financial.json?countries=Uganda&startYear=2022&endYear=2022", cookie)
		defer resp.Body.Close() // nolint:errcheck
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	first := read()
	second := read()
	// The envelope timestamp differs; the KPI payload must not.
	assert.JSONEq(t, stripCurrentTime(t, first), stripCurrentTime(t, second))
}

func TestFilterValidation(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/dashboard/financial.json?startYear=abcd", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fieldErrors := model.Data.(map[string]interface{})["fieldErrors"].(map[string]interface{})
	assert.Contains(t, fieldErrors, "startYear")

	resp, model = getEnvelope(t, server, "/api/dashboard/financial.json?startYear=2022&endYear=2021", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fieldErrors = model.Data.(map[string]interface{})["fieldErrors"].(map[string]interface{})
	assert.Contains(t, fieldErrors, "endYear")

	resp, model = getEnvelope(t, server, "/api/dashboard/financial.json?zones=Zone%204", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fieldErrors = model.Data.(map[string]interface{})["fieldErrors"].(map[string]interface{})
	assert.Contains(t, fieldErrors, "zones")
}

func TestOperationsEndpoint(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/dashboard/operations/Uganda.json?startYear=2021&endYear=2022", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, "Uganda", data["country"])
	assert.Len(t, data["months"], 3)

	// Unknown countries 404; path matching is case-insensitive.
	resp, _ = getEnvelope(t, server, "/api/dashboard/operations/Wakanda.json", cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = getEnvelope(t, server, "/api/dashboard/operations/uganda.json", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Bad horizon is a validation error.
	resp, _ = getEnvelope(t, server, "/api/dashboard/operations/Uganda.json?horizon=soon", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestZoneOperationsEndpoint(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/dashboard/operations/Uganda/zones.json?month=2022-01", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, "2022-01", data["month"])
	assert.Len(t, data["zones"], 2)

	resp, _ = getEnvelope(t, server, "/api/dashboard/operations/Uganda/zones.json?month=January", cookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCountryRoleIsPinnedToAssignedCountry(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "uganda_analyst", "kampala-2022")

	// The country filter is forced server-side: asking for Kenya still
	// returns Uganda's numbers.
	resp, model := getEnvelope(t, server, "/api/dashboard/financial.json?countries=Kenya&startYear=2022&endYear=2022", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fin := model.Data.(map[string]interface{})
	assert.InDelta(t, 4400.0, fin["totalBilled"].(float64), 0.001)

	// Another country's operations page is forbidden outright.
	resp, _ = getEnvelope(t, server, "/api/dashboard/operations/Kenya.json", cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The filter metadata only offers the assigned country.
	resp, model = getEnvelope(t, server, "/api/dashboard/countries.json", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"Uganda"}, data["countries"])
}

func TestAlertsEndpoint(t *testing.T) {
	_, server := newTestServer(t)
	cookie := mustLogin(t, server, "admin", "admin-secret-1")

	resp, model := getEnvelope(t, server, "/api/dashboard/alerts.json?countries=Uganda&startYear=2022&endYear=2022", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := model.Data.(map[string]interface{})["list"].([]interface{})
	require.Len(t, list, 7)
	first := list[0].(map[string]interface{})
	assert.Equal(t, "high", first["severity"])
	assert.NotEmpty(t, first["message"])
	assert.NotEmpty(t, first["action"])
}

func TestUnknownRouteReturnsEnvelope404(t *testing.T) {
	_, server := newTestServer(t)

	resp, model := getEnvelope(t, server, "/api/dashboard/nonsense.json", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, model.Code)
	assert.Equal(t, "resource not found", model.Text)
}

func TestHealthzNeedsNoSession(t *testing.T) {
	_, server := newTestServer(t)

	resp, model := getEnvelope(t, server, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := model.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestMetricsNeedsNoSession(t *testing.T) {
	_, server := newTestServer(t)

	// Prime the request counter so the metric family has a sample.
	get(t, server, "/healthz", nil).Body.Close() // nolint:errcheck

	resp := get(t, server, "/metrics", nil)
	defer resp.Body.Close() // nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}
