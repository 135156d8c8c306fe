package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"aquadash.wasreb.org/internal/chart"
	"aquadash.wasreb.org/internal/kpi"
	"aquadash.wasreb.org/internal/models"
)

// chartHandler serves the named chart, as PNG for a ".png" suffix and as a
// ChartConfig envelope for ".json". The consumption-forecast chart needs a
// "country" query parameter; the rest work off the common filter.
func (api *RestAPI) chartHandler(w http.ResponseWriter, r *http.Request) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("name")
	name := strings.TrimSuffix(strings.TrimSuffix(raw, ".png"), ".json")
	asJSON := strings.HasSuffix(raw, ".json")

	filter, fieldErrors := api.filterFromRequest(r)
	if fieldErrors != nil {
		api.sendValidationErrors(w, r, fieldErrors)
		return
	}

	cfg, ok := api.buildChart(w, r, name, filter)
	if !ok {
		return
	}
	if cfg.Empty() {
		api.sendEnvelope(w, r, http.StatusNotFound, nil, "no data for chart "+name)
		return
	}

	if asJSON {
		api.sendResponse(w, r, models.NewOKResponse(cfg))
		return
	}

	png, err := chart.RenderPNG(cfg)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	if _, err := w.Write(png); err != nil {
		api.Logger.Error("failed to write chart image", "error", err)
	}
}

// buildChart maps a chart name to its config. Unknown names and missing
// parameters are reported to the client here; the bool result tells the
// caller whether a response was already written.
func (api *RestAPI) buildChart(w http.ResponseWriter, r *http.Request, name string, filter kpi.Filter) (chart.Config, bool) {
	switch name {
	case "revenue-trend":
		return chart.RevenueTrend(api.Engine.Financial(filter)), true
	case "nrw-trend":
		return chart.NRWTrend(api.Engine.ServiceDelivery(filter)), true
	case "nrw-by-country":
		return chart.NRWByCountry(api.Engine.ServiceDelivery(filter)), true
	case "ecoli-by-country":
		return chart.EcoliByCountry(api.Engine.ServiceDelivery(filter)), true
	case "chlorine-results":
		return chart.ChlorineResults(api.Engine.ServiceDelivery(filter)), true
	case "ww-flow":
		return chart.WWFlow(api.Engine.ServiceDelivery(filter)), true
	case "safely-managed-trend":
		return chart.SafelyManagedTrend(api.Engine.Access(filter)), true
	case "consumption-forecast":
		country := r.URL.Query().Get("country")
		if country == "" {
			api.sendValidationErrors(w, r, map[string]string{"country": "country is required for the forecast chart"})
			return chart.Config{}, false
		}
		ops := api.Engine.Operations(country, filter, kpi.DefaultHorizon)
		return chart.ConsumptionForecast(ops), true
	}
	api.sendNotFound(w, r)
	return chart.Config{}, false
}
