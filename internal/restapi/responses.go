package restapi

import (
	"encoding/json"
	"net/http"

	"aquadash.wasreb.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendEnvelope(w http.ResponseWriter, r *http.Request, code int, data interface{}, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(code)
	response := models.NewResponse(code, data, text)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("failed to encode response", "error", err)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendEnvelope(w, r, http.StatusNotFound, nil, "resource not found")
}

func (api *RestAPI) sendUnauthorized(w http.ResponseWriter, r *http.Request, text string) {
	if text == "" {
		text = "permission denied"
	}
	api.sendEnvelope(w, r, http.StatusUnauthorized, nil, text)
}

func (api *RestAPI) sendForbidden(w http.ResponseWriter, r *http.Request) {
	api.sendEnvelope(w, r, http.StatusForbidden, nil, "permission denied")
}

// sendValidationErrors maps field names to messages in a 400 envelope.
func (api *RestAPI) sendValidationErrors(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	api.sendEnvelope(w, r, http.StatusBadRequest,
		map[string]interface{}{"fieldErrors": fieldErrors}, "validation failed")
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
