package restapi

import (
	"net/http"

	"aquadash.wasreb.org/internal/models"
)

// healthzHandler reports liveness without requiring a session.
func (api *RestAPI) healthzHandler(w http.ResponseWriter, r *http.Request) {
	minYear, maxYear := api.Data.YearRange()
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{
		"status":    "ok",
		"countries": len(api.Data.Countries()),
		"minYear":   minYear,
		"maxYear":   maxYear,
	}))
}
