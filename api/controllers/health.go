package controllers

import (
	"context"
	"net/http"

	"github.com/krow6750/gearshare-backend/api/responses"
	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

const envHeader = "X-GearShare-Env"

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the process and its backing services.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		components := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				healthy = false
				components[name] = "unreachable"
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"component": name, "error": err.Error()})
					logg.Warn(ctx, "readiness check failed")
				}
				continue
			}
			components[name] = "ok"
		}

		payload := map[string]any{"status": "ready", "components": components}
		if !healthy {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
