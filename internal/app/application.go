package app

import (
	"log/slog"

	"aquadash.wasreb.org/internal/appconf"
	"aquadash.wasreb.org/internal/auth"
	"aquadash.wasreb.org/internal/dataset"
	"aquadash.wasreb.org/internal/kpi"
)

// Application holds the dependencies for our HTTP handlers, helpers
// and middleware: configuration, logger, the loaded datasets, the KPI
// engine over them, and the user store.
type Application struct {
	Config appconf.Config
	Logger *slog.Logger
	Data   *dataset.Manager
	Engine *kpi.Engine
	Users  *auth.Store
}
