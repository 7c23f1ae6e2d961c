package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/apmw/freshbrand-backend/api/responses"
	"github.com/apmw/freshbrand-backend/pkg/config"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger exposes the health-check surface shared by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FreshBrand-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports per-component state.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FreshBrand-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		components := map[string]string{}
		healthy := true
		for name, dep := range map[string]Pinger{
			"postgres": db,
			"redis":    redis,
			"storage":  storage,
		} {
			if dep == nil {
				components[name] = "not configured"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				components[name] = err.Error()
				healthy = false
				continue
			}
			components[name] = "ok"
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").
				WithDetails(components)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status":     "ready",
			"components": components,
		})
	}
}
