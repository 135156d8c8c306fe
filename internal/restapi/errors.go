package restapi

import (
	"log/slog"
	"net/http"

	"aquadash.wasreb.org/internal/logging"
)

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	logging.LogError(logger, "request failed", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	api.sendEnvelope(w, r, http.StatusInternalServerError, nil, "internal server error")
}

func (api *RestAPI) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	api.sendNotFound(w, r)
}
