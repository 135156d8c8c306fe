package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/kpi"
	"aquadash.wasreb.org/internal/models"
	"aquadash.wasreb.org/internal/utils"
)

// resolveCountry matches the path parameter against the loaded countries and
// enforces the country-role restriction. It returns the canonical country
// name and writes the error response itself on failure.
func (api *RestAPI) resolveCountry(w http.ResponseWriter, r *http.Request) (string, bool) {
	requested := utils.ExtractIDFromParams(r, "country")
	if err := utils.ValidateName(requested); err != nil {
		api.sendValidationErrors(w, r, map[string]string{"country": err.Error()})
		return "", false
	}

	var country string
	for _, c := range api.Data.Countries() {
		if strings.EqualFold(c, requested) {
			country = c
			break
		}
	}
	if country == "" {
		api.sendNotFound(w, r)
		return "", false
	}

	s := session(r)
	if s.User.Role == auth.RoleCountry &&
		(s.User.Country == nil || !strings.EqualFold(*s.User.Country, country)) {
		api.sendForbidden(w, r)
		return "", false
	}
	return country, true
}

func (api *RestAPI) operationsHandler(w http.ResponseWriter, r *http.Request) {
	country, ok := api.resolveCountry(w, r)
	if !ok {
		return
	}
	filter, fieldErrors := api.filterFromRequest(r)
	if fieldErrors != nil {
		api.sendValidationErrors(w, r, fieldErrors)
		return
	}

	horizon := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		var err error
		if horizon, err = strconv.Atoi(raw); err != nil {
			api.sendValidationErrors(w, r, map[string]string{"horizon": "must be an integer number of months"})
			return
		}
		horizon = kpi.ClampHorizon(horizon)
	}

	api.sendResponse(w, r, models.NewOKResponse(api.Engine.Operations(country, filter, horizon)))
}
