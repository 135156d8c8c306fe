// Package restapi exposes the dashboard KPIs, charts and account
// management over HTTP.
package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aquadash.wasreb.org/internal/app"
	"aquadash.wasreb.org/internal/auth"
)

// SessionCookie carries the session token between requests.
const SessionCookie = "aquadash_session"

type RestAPI struct {
	*app.Application
	Sessions    *auth.SessionManager
	rateLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with its session manager and
// rate limiter initialized from the application config.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		Sessions:    auth.NewSessionManager(app.Config.SessionTTL),
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}

// Routes builds the router and wraps it in the middleware chain.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(api.notFoundHandler)
	router.MethodNotAllowed = http.HandlerFunc(api.notFoundHandler)

	router.Handler(http.MethodPost, "/api/auth/login", http.HandlerFunc(api.loginHandler))
	router.Handler(http.MethodPost, "/api/auth/logout", http.HandlerFunc(api.logoutHandler))
	router.Handler(http.MethodPost, "/api/auth/register", http.HandlerFunc(api.registerHandler))
	router.Handler(http.MethodGet, "/api/auth/profile", api.requireSession(api.profileHandler))
	router.Handler(http.MethodPut, "/api/auth/profile", api.requireSession(api.updateProfileHandler))
	router.Handler(http.MethodPost, "/api/auth/password", api.requireSession(api.changePasswordHandler))

	router.Handler(http.MethodGet, "/api/dashboard/overview.json", api.requireSession(api.overviewHandler))
	router.Handler(http.MethodGet, "/api/dashboard/financial.json", api.requireSession(api.financialHandler))
	router.Handler(http.MethodGet, "/api/dashboard/service-delivery.json", api.requireSession(api.serviceDeliveryHandler))
	router.Handler(http.MethodGet, "/api/dashboard/operations/:country", api.requireSession(api.operationsHandler))
	router.Handler(http.MethodGet, "/api/dashboard/operations/:country/zones.json", api.requireSession(api.zoneOperationsHandler))
	router.Handler(http.MethodGet, "/api/dashboard/access.json", api.requireSession(api.accessHandler))
	router.Handler(http.MethodGet, "/api/dashboard/alerts.json", api.requireSession(api.alertsHandler))
	router.Handler(http.MethodGet, "/api/dashboard/countries.json", api.requireSession(api.countriesHandler))
	router.Handler(http.MethodGet, "/api/dashboard/charts/:name", api.requireSession(api.chartHandler))

	router.Handler(http.MethodGet, "/api/admin/users.json", api.requireAdmin(api.adminListUsersHandler))
	router.Handler(http.MethodPut, "/api/admin/users/:username", api.requireAdmin(api.adminUpdateUserHandler))

	router.Handler(http.MethodGet, "/healthz", http.HandlerFunc(api.healthzHandler))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	var handler http.Handler = router
	handler = api.rateLimiter(handler)
	handler = metricsMiddleware(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = CompressionMiddleware(handler)
	handler = NewSecurityHeadersMiddleware(api.Config.CORSOrigin)(handler)
	return handler
}
