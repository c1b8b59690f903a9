package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/iti-tech/taskboard-api/internal/config"
	"go.uber.org/zap"
)

// CORS returns a CORS middleware configured from the application config.
// With no configured origins, development allows everything and any other
// environment denies all cross-origin requests.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAll := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case hasWildcard(cfg.AllowedOrigins):
		if environment != "development" && environment != "local" {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAll
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))
	case environment == "development" || environment == "local" || environment == "":
		options.AllowOriginFunc = allowAll
		logger.Info("CORS configured to allow all origins in development mode")
	default:
		// empty AllowedOrigins would default to "*", so deny explicitly
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS configured with no allowed origins - all cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func hasWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
