package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/svce-events/attendance-report/internal/config"
	"github.com/svce-events/attendance-report/internal/handler/http/middleware"
	"github.com/svce-events/attendance-report/internal/pkg/jwt"
)

func NewRouter(appCfg config.AppConfig, logLevel slog.Level, JWTService jwt.Service, analyticsHandler AnalyticsHandler, exportHandler ExportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appCfg.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-report"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appCfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Page-Count"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send headers; the stream authenticates with ?token=
		r.Get("/exports/stream", exportHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/exports/stream-token", exportHandler.GetStreamToken)

			r.Route("/analytics/{eventID}", func(r chi.Router) {
				r.Get("/", analyticsHandler.GetReport)

				// Coordinators and admins only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireExporter)
					r.Get("/export", exportHandler.Export)
					r.Get("/exports", exportHandler.ListExports)
				})
			})
		})
	})
	return r
}
