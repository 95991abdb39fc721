package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shopkeeper-dev/storefront-backend/api/responses"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
	"github.com/shopkeeper-dev/storefront-backend/pkg/logger"
)

// Pinger is implemented by infrastructure clients that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, responses.Payload{"state": "live"})
	}
}

// HealthReady checks the datastore dependencies before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		checks := map[string]Pinger{
			"database": dbP,
			"redis":    redisP,
		}
		for name, p := range checks {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, responses.Payload{"state": "ready"})
	}
}
