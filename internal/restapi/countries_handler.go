package restapi

import (
	"net/http"
	"strings"

	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/models"
)

// countriesHandler serves the filter metadata: the countries the caller may
// query and the year bounds of the loaded data.
func (api *RestAPI) countriesHandler(w http.ResponseWriter, r *http.Request) {
	countries := api.Data.Countries()
	s := session(r)
	if s.User.Role == auth.RoleCountry {
		restricted := []string{}
		if s.User.Country != nil {
			for _, c := range countries {
				if strings.EqualFold(c, *s.User.Country) {
					restricted = append(restricted, c)
				}
			}
		}
		countries = restricted
	}

	minYear, maxYear := api.Data.YearRange()
	api.sendResponse(w, r, models.NewOKResponse(map[string]interface{}{
		"countries": countries,
		"minYear":   minYear,
		"maxYear":   maxYear,
	}))
}
