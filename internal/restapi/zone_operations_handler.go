package restapi

import (
	"net/http"
	"time"

	"aquadash.wasreb.org/internal/models"
)

func (api *RestAPI) zoneOperationsHandler(w http.ResponseWriter, r *http.Request) {
	country, ok := api.resolveCountry(w, r)
	if !ok {
		return
	}
	filter, fieldErrors := api.filterFromRequest(r)
	if fieldErrors != nil {
		api.sendValidationErrors(w, r, fieldErrors)
		return
	}

	month := r.URL.Query().Get("month")
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			api.sendValidationErrors(w, r, map[string]string{"month": "must be formatted as YYYY-MM"})
			return
		}
	}

	api.sendResponse(w, r, models.NewOKResponse(api.Engine.ZoneOperations(country, month, filter)))
}
