package controllers

import (
	"net/http"

	"github.com/festivawin/festiva-backend/api/responses"
	"github.com/festivawin/festiva-backend/pkg/config"
	"github.com/festivawin/festiva-backend/pkg/db"
	pkgerrors "github.com/festivawin/festiva-backend/pkg/errors"
	"github.com/festivawin/festiva-backend/pkg/logger"
	pkgredis "github.com/festivawin/festiva-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Festiva-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Festiva-Env", cfg.App.Env)

		checks := map[string]string{}
		failed := false

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "down"
				failed = true
				logError(r.Context(), logg, "database ping failed", err)
			} else {
				checks["database"] = "up"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				failed = true
				logError(r.Context(), logg, "redis ping failed", err)
			} else {
				checks["redis"] = "up"
			}
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
