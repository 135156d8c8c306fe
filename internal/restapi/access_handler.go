package restapi

import (
	"net/http"

	"aquadash.wasreb.org/internal/models"
)

func (api *RestAPI) accessHandler(w http.ResponseWriter, r *http.Request) {
	filter, fieldErrors := api.filterFromRequest(r)
	if fieldErrors != nil {
		api.sendValidationErrors(w, r, fieldErrors)
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(api.Engine.Access(filter)))
}
